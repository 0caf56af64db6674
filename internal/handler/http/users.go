package http

import (
	"context"
	"net/http"

	"futurama-api/internal/auth"
	"futurama-api/internal/repository"
	"futurama-api/internal/service"

	"go.uber.org/zap"
)

// UserService операции над пользователями, которые нужны транспорту.
type UserService interface {
	Register(ctx context.Context, req *service.UserCreateRequest) (*service.UserResponse, error)
	Activate(ctx context.Context, sig string) (*service.UserResponse, error)
	Me(ctx context.Context, userID int64) (*service.UserResponse, error)
	Update(ctx context.Context, userID int64, req *service.UserUpdateRequest) (*service.UserResponse, error)
	Delete(ctx context.Context, userID int64) error
	Search(ctx context.Context, q service.ListQuery) (*repository.Page[service.UserSearchResult], error)
}

// UsersHandler обработчик пользователей.
type UsersHandler struct {
	users UserService
	log   *zap.Logger
}

// NewUsersHandler создает обработчик пользователей.
func NewUsersHandler(users UserService, log *zap.Logger) *UsersHandler {
	return &UsersHandler{users: users, log: log}
}

// Register регистрирует пользователя
//
//	@Summary	Register a user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		service.UserCreateRequest	true	"User"
//	@Success	201		{object}	service.UserResponse
//	@Failure	403		{object}	ErrorResponse	"Registration is disabled"
//	@Failure	409		{object}	ErrorResponse	"Username or email taken"
//	@Failure	422		{object}	ErrorResponse
//	@Router		/api/users [post]
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.UserCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, user, http.StatusCreated)
}

// Search ищет пользователей; с валидным токеном помечает запись вызывающего
//
//	@Summary	Search users
//	@Tags		Users
//	@Produce	json
//	@Param		query	query		string	false	"Username substring"
//	@Param		limit	query		int		false	"Page size"	default(50)
//	@Param		offset	query		int		false	"Offset"	default(0)
//	@Success	200		{object}	map[string]interface{}
//	@Security	BearerAuth
//	@Router		/api/users [get]
func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListQuery(w, r)
	if !ok {
		return
	}

	page, err := h.users.Search(r.Context(), q)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	if userID, ok := auth.GetUserIDFromContext(r.Context()); ok {
		for i := range page.Items {
			page.Items[i].IsMe = page.Items[i].ID == userID
		}
	}
	writeJSON(w, page, http.StatusOK)
}

// Activate подтверждает email
//
//	@Summary	Confirm email
//	@Tags		Users
//	@Produce	json
//	@Param		sig	query		string	true	"Signature from the confirmation email"
//	@Success	200	{object}	service.UserResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/users/activate [get]
func (h *UsersHandler) Activate(w http.ResponseWriter, r *http.Request) {
	sig := r.URL.Query().Get("sig")
	if sig == "" {
		writeValidation(w, service.FieldError{Field: "sig", Message: "field required"})
		return
	}

	user, err := h.users.Activate(r.Context(), sig)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, user, http.StatusOK)
}

// Me возвращает текущего пользователя
//
//	@Summary	Current user
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	service.UserResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/users/me [get]
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.Me(r.Context(), userID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, user, http.StatusOK)
}

// Update обновляет профиль
//
//	@Summary	Update current user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		service.UserUpdateRequest	true	"Fields to change"
//	@Success	200		{object}	service.UserResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/api/users/me [patch]
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req service.UserUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), userID, &req)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, user, http.StatusOK)
}

// Delete удаляет текущего пользователя
//
//	@Summary	Delete current user
//	@Tags		Users
//	@Security	BearerAuth
//	@Success	204
//	@Failure	401	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse	"User deletion is disabled"
//	@Router		/api/users/me [delete]
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		fail(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
