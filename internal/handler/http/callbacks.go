package http

import (
	"context"
	"net/http"

	"futurama-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CallbackScheduler принимает запросы на отложенную доставку.
type CallbackScheduler interface {
	Schedule(ctx context.Context, kind string, itemID int64, req *service.CallbackRequest) (*service.CallbackResponse, error)
}

// CallbacksHandler обработчик колбэков.
type CallbacksHandler struct {
	callbacks CallbackScheduler
	log       *zap.Logger
}

// NewCallbacksHandler создает обработчик колбэков.
func NewCallbacksHandler(callbacks CallbackScheduler, log *zap.Logger) *CallbacksHandler {
	return &CallbacksHandler{callbacks: callbacks, log: log}
}

// путь использует множественное число, каталоги регистрируются в единственном
var callbackKinds = map[string]string{
	"characters": "character",
	"episodes":   "episode",
	"seasons":    "season",
}

// Schedule ставит колбэк в очередь
//
//	@Summary		Request a delayed callback
//	@Description	Responds immediately; after 5-10 seconds the entity is POSTed to callback_url.
//	@Tags			Callbacks
//	@Accept			json
//	@Produce		json
//	@Param			entity	path		string					true	"characters, episodes or seasons"
//	@Param			id		path		int						true	"Entity ID"
//	@Param			request	body		service.CallbackRequest	true	"Callback target"
//	@Success		202		{object}	service.CallbackResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/api/callbacks/{entity}/{id} [post]
func (h *CallbacksHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	kind, ok := callbackKinds[chi.URLParam(r, "entity")]
	if !ok {
		writeError(w, "Not Found", http.StatusNotFound)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req service.CallbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.callbacks.Schedule(r.Context(), kind, id, &req)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, resp, http.StatusAccepted)
}
