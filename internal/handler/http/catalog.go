package http

import (
	"context"
	"net/http"

	"futurama-api/internal/repository"
	"futurama-api/internal/service"

	"go.uber.org/zap"
)

// Catalog чтение справочной сущности.
type Catalog[R any] interface {
	Get(ctx context.Context, id int64) (*R, error)
	Random(ctx context.Context) (*R, error)
	List(ctx context.Context, q service.ListQuery) (*repository.Page[R], error)
}

// CatalogHandler list/get/random для одной сущности.
type CatalogHandler[R any] struct {
	catalog Catalog[R]
	filters []string
	log     *zap.Logger
}

// NewCatalogHandler создает обработчик каталога; filters имена разрешенных query-фильтров.
func NewCatalogHandler[R any](catalog Catalog[R], log *zap.Logger, filters ...string) *CatalogHandler[R] {
	return &CatalogHandler[R]{catalog: catalog, filters: filters, log: log}
}

// List возвращает страницу сущностей
//
//	@Summary		List catalog entities
//	@Description	Paginated list of characters, episodes or seasons. Character filters accept "!" negation.
//	@Tags			Catalog
//	@Produce		json
//	@Param			limit		query		int		false	"Page size (1-100)"	default(50)
//	@Param			offset		query		int		false	"Offset"			default(0)
//	@Param			order_by	query		string	false	"id, name, created_at (air_date for episodes)"
//	@Param			direction	query		string	false	"asc or desc"
//	@Param			query		query		string	false	"Case-insensitive name search"
//	@Param			gender		query		string	false	"Character gender"
//	@Param			status		query		string	false	"Character status"
//	@Param			species		query		string	false	"Character species"
//	@Success		200			{object}	map[string]interface{}
//	@Failure		422			{object}	ErrorResponse
//	@Router			/api/characters [get]
//	@Router			/api/episodes [get]
//	@Router			/api/seasons [get]
func (h *CatalogHandler[R]) List(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListQuery(w, r, h.filters...)
	if !ok {
		return
	}

	page, err := h.catalog.List(r.Context(), q)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, page, http.StatusOK)
}

// Get возвращает сущность по id
//
//	@Summary	Get catalog entity
//	@Tags		Catalog
//	@Produce	json
//	@Param		id	path		int	true	"Entity ID"
//	@Success	200	{object}	map[string]interface{}
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/characters/{id} [get]
//	@Router		/api/episodes/{id} [get]
//	@Router		/api/seasons/{id} [get]
func (h *CatalogHandler[R]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, item, http.StatusOK)
}

// Random возвращает случайную сущность
//
//	@Summary	Random catalog entity
//	@Tags		Random
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/random/character [get]
//	@Router		/api/random/episode [get]
//	@Router		/api/random/season [get]
func (h *CatalogHandler[R]) Random(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Random(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, item, http.StatusOK)
}

// CharacterCreator создание персонажей.
type CharacterCreator interface {
	Create(ctx context.Context, req *service.CharacterCreateRequest) (*service.CharacterResponse, error)
}

// CharactersHandler операции записи над персонажами.
type CharactersHandler struct {
	characters CharacterCreator
	log        *zap.Logger
}

// NewCharactersHandler создает обработчик создания персонажей.
func NewCharactersHandler(characters CharacterCreator, log *zap.Logger) *CharactersHandler {
	return &CharactersHandler{characters: characters, log: log}
}

// Create создает персонажа
//
//	@Summary	Create a character
//	@Tags		Catalog
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		service.CharacterCreateRequest	true	"Character"
//	@Success	201		{object}	service.CharacterResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/api/characters [post]
func (h *CharactersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CharacterCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	character, err := h.characters.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, character, http.StatusCreated)
}
