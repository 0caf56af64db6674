package http

import (
	"context"
	"net/http"

	"futurama-api/internal/auth"
	"futurama-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SecretMessageService одноразовые сообщения.
type SecretMessageService interface {
	Create(ctx context.Context, req *service.SecretMessageCreateRequest) (*service.SecretMessageCreated, error)
	Read(ctx context.Context, url, ip string) (*service.SecretMessageResponse, error)
}

// SecretMessagesHandler обработчик одноразовых сообщений.
type SecretMessagesHandler struct {
	messages SecretMessageService
	log      *zap.Logger
}

// NewSecretMessagesHandler создает обработчик сообщений.
func NewSecretMessagesHandler(messages SecretMessageService, log *zap.Logger) *SecretMessagesHandler {
	return &SecretMessagesHandler{messages: messages, log: log}
}

// Create сохраняет сообщение
//
//	@Summary	Create a secret message
//	@Tags		Crypto
//	@Accept		json
//	@Produce	json
//	@Param		request	body		service.SecretMessageCreateRequest	true	"Message"
//	@Success	201		{object}	service.SecretMessageCreated
//	@Failure	422		{object}	ErrorResponse
//	@Router		/api/crypto/secret_message [post]
func (h *SecretMessagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SecretMessageCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.messages.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, created, http.StatusCreated)
}

// Read читает сообщение; исходный текст виден только первому читателю
//
//	@Summary	Read a secret message
//	@Tags		Crypto
//	@Produce	json
//	@Param		url	path		string	true	"Message slug"
//	@Success	200	{object}	service.SecretMessageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/crypto/secret_message/{url} [get]
func (h *SecretMessagesHandler) Read(w http.ResponseWriter, r *http.Request) {
	message, err := h.messages.Read(r.Context(), chi.URLParam(r, "url"), auth.ClientIP(r))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, message, http.StatusOK)
}
