package http

import (
	"context"
	"net/http"

	"futurama-api/internal/auth"
	"futurama-api/internal/domain"
	"futurama-api/internal/service"

	"go.uber.org/zap"
)

// LandingService данные главной страницы.
type LandingService interface {
	Landing(ctx context.Context, session *domain.AuthSession) (*service.LandingResponse, error)
}

// PagesHandler страницы с cookie-сессией.
type PagesHandler struct {
	landing LandingService
	log     *zap.Logger
}

// NewPagesHandler создает обработчик страниц.
func NewPagesHandler(landing LandingService, log *zap.Logger) *PagesHandler {
	return &PagesHandler{landing: landing, log: log}
}

// Root главная страница
//
//	@Summary	Landing page data
//	@Tags		Pages
//	@Produce	json
//	@Success	200	{object}	service.LandingResponse
//	@Router		/ [get]
func (h *PagesHandler) Root(w http.ResponseWriter, r *http.Request) {
	landing, err := h.landing.Landing(r.Context(), auth.GetSessionFromContext(r.Context()))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, landing, http.StatusOK)
}
