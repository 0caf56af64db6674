package http

import (
	"context"
	"net/http"

	"futurama-api/internal/repository"
	"futurama-api/internal/service"

	"go.uber.org/zap"
)

// FavoriteService избранные персонажи.
type FavoriteService interface {
	List(ctx context.Context, userID int64, q service.ListQuery) (*repository.Page[service.CharacterResponse], error)
	Add(ctx context.Context, userID, characterID int64) (*service.CharacterResponse, error)
	Remove(ctx context.Context, userID, characterID int64) error
}

// FavoritesHandler обработчик избранного.
type FavoritesHandler struct {
	favorites FavoriteService
	log       *zap.Logger
}

// NewFavoritesHandler создает обработчик избранного.
func NewFavoritesHandler(favorites FavoriteService, log *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, log: log}
}

// List возвращает избранных персонажей
//
//	@Summary	List favorite characters
//	@Tags		Favorites
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"Page size"	default(50)
//	@Param		offset	query		int	false	"Offset"	default(0)
//	@Success	200		{object}	map[string]interface{}
//	@Failure	401		{object}	ErrorResponse
//	@Router		/api/favorites/characters [get]
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	q, ok := parseListQuery(w, r)
	if !ok {
		return
	}

	page, err := h.favorites.List(r.Context(), userID, q)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, page, http.StatusOK)
}

// Add добавляет персонажа в избранное
//
//	@Summary	Add a favorite character
//	@Tags		Favorites
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Character ID"
//	@Success	201	{object}	service.CharacterResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/api/favorites/characters/{id} [post]
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	character, err := h.favorites.Add(r.Context(), userID, id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, character, http.StatusCreated)
}

// Remove убирает персонажа из избранного
//
//	@Summary	Remove a favorite character
//	@Tags		Favorites
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Character ID"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/favorites/characters/{id} [delete]
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.favorites.Remove(r.Context(), userID, id); err != nil {
		fail(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
