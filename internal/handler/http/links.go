package http

import (
	"context"
	"net/http"

	"futurama-api/internal/repository"
	"futurama-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LinkService операции над короткими ссылками.
type LinkService interface {
	Create(ctx context.Context, userID int64, req *service.LinkCreateRequest) (*service.LinkResponse, error)
	List(ctx context.Context, userID int64, q service.ListQuery) (*repository.Page[service.LinkResponse], error)
	Get(ctx context.Context, userID int64, shortened string) (*service.LinkResponse, error)
	Visit(ctx context.Context, shortened string) (string, error)
}

// LinksHandler обработчик для работы со ссылками
type LinksHandler struct {
	links LinkService
	log   *zap.Logger
}

// NewLinksHandler создает новый обработчик ссылок
func NewLinksHandler(links LinkService, log *zap.Logger) *LinksHandler {
	return &LinksHandler{links: links, log: log}
}

// CreateLink создает новую короткую ссылку
//
//	@Summary		Create a short link
//	@Description	Create a new shortened URL
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		service.LinkCreateRequest	true	"Link creation request"
//	@Success		201		{object}	service.LinkResponse		"Link created successfully"
//	@Failure		401		{object}	ErrorResponse				"Authentication required"
//	@Failure		422		{object}	ErrorResponse				"Invalid URL"
//	@Router			/api/links [post]
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req service.LinkCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.links.Create(r.Context(), userID, &req)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, link, http.StatusCreated)
}

// ListLinks возвращает список ссылок пользователя
//
//	@Summary	List own links
//	@Tags		Links
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit		query		int		false	"Page size"	default(50)
//	@Param		offset		query		int		false	"Offset"	default(0)
//	@Param		order_by	query		string	false	"id, created_at, counter"
//	@Param		direction	query		string	false	"asc or desc"
//	@Success	200			{object}	map[string]interface{}
//	@Failure	401			{object}	ErrorResponse
//	@Router		/api/links [get]
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	q, ok := parseListQuery(w, r)
	if !ok {
		return
	}

	page, err := h.links.List(r.Context(), userID, q)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, page, http.StatusOK)
}

// GetLink возвращает свою ссылку по коду
//
//	@Summary	Get own link
//	@Tags		Links
//	@Produce	json
//	@Security	BearerAuth
//	@Param		shortened	path		string	true	"Short code"
//	@Success	200			{object}	service.LinkResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/api/links/{shortened} [get]
func (h *LinksHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	link, err := h.links.Get(r.Context(), userID, chi.URLParam(r, "shortened"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, link, http.StatusOK)
}

// Redirect переходит по короткой ссылке и увеличивает счетчик
//
//	@Summary	Follow a short link
//	@Tags		Links
//	@Param		shortened	path	string	true	"Short code"
//	@Success	307
//	@Failure	404	{object}	ErrorResponse
//	@Router		/s/{shortened} [get]
func (h *LinksHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortened := chi.URLParam(r, "shortened")

	target, err := h.links.Visit(r.Context(), shortened)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	h.log.Debug("redirect", zap.String("shortened", shortened), zap.String("url", target))
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
