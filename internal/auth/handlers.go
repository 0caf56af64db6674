package auth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"futurama-api/internal/domain"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials неверная пара логин/пароль
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUserNotConfirmed почта пользователя еще не подтверждена
	ErrUserNotConfirmed = errors.New("user is not confirmed")
)

// UserAuthenticator проверяет учетные данные пользователей
type UserAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// AuthHandlers обработчики аутентификации
type AuthHandlers struct {
	users      UserAuthenticator
	jwtService *JWTService
	sessions   *SessionManager
	log        *zap.Logger
}

// NewAuthHandlers создает новые обработчики аутентификации
func NewAuthHandlers(users UserAuthenticator, jwtService *JWTService, sessions *SessionManager, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		users:      users,
		jwtService: jwtService,
		sessions:   sessions,
		log:        log,
	}
}

// LoginRequest структура запроса входа
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest структура запроса обновления токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse ответ на вход по cookie
type SessionResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// IssueTokens выдает пару токенов по логину и паролю
//
//	@Summary		Issue tokens
//	@Description	Exchange username and password for an access/refresh token pair
//	@Tags			Tokens
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	TokenPair
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Failure		422		{object}	ErrorResponse	"Invalid request data"
//	@Router			/api/tokens/users/auth [post]
func (h *AuthHandlers) IssueTokens(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		h.log.Error("failed to generate tokens", zap.Int64("user_id", user.ID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("tokens issued", zap.Int64("user_id", user.ID))
	writeJSON(w, pair, http.StatusOK)
}

// RefreshTokens пересоздает пару токенов по refresh токену
//
//	@Summary		Refresh tokens
//	@Description	Exchange a refresh token for a new token pair
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	TokenPair
//	@Failure		401		{object}	ErrorResponse	"Invalid or expired token"
//	@Failure		422		{object}	ErrorResponse	"Invalid request data"
//	@Router			/api/tokens/users/refresh [post]
func (h *AuthHandlers) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, "refresh_token is required", http.StatusUnprocessableEntity)
		return
	}

	claims, err := h.jwtService.ValidateToken(req.RefreshToken, TokenTypeRefresh)
	if err != nil {
		h.log.Debug("refresh rejected", zap.Error(err))
		writeUnauthorized(w, "Invalid refresh token")
		return
	}

	exists, err := h.users.UserExists(r.Context(), claims.User.ID)
	if err != nil {
		h.log.Error("failed to check user", zap.Int64("user_id", claims.User.ID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !exists {
		writeUnauthorized(w, "Invalid refresh token")
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(claims.User.ID)
	if err != nil {
		h.log.Error("failed to generate tokens", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, pair, http.StatusOK)
}

// Login обработчик входа по cookie
//
//	@Summary		Log in
//	@Description	Create a server-side session and set the Authorization cookie
//	@Tags			Sessions
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	SessionResponse
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Router			/auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.Create(r.Context(), user, ClientIP(r), r.UserAgent())
	if err != nil {
		h.log.Error("failed to create session", zap.Int64("user_id", user.ID), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.sessions.SetCookie(w, session)
	writeJSON(w, SessionResponse{ID: user.ID, Username: user.Username, Name: user.FullName()}, http.StatusOK)
}

// Logout обработчик выхода
//
//	@Summary		Log out
//	@Description	Expire the current session and clear the cookie
//	@Tags			Sessions
//	@Success		204
//	@Router			/auth/logout [post]
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Expire(r.Context(), cookie.Value); err != nil {
			h.log.Error("failed to expire session", zap.Error(err))
			writeError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	h.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandlers) authenticate(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	req, err := decodeLoginRequest(r)
	if err != nil {
		h.log.Debug("invalid login request", zap.Error(err))
		writeError(w, "username and password are required", http.StatusUnprocessableEntity)
		return nil, false
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.log.Debug("invalid credentials", zap.String("username", req.Username))
			writeUnauthorized(w, "Incorrect username or password")
			return nil, false
		}
		if errors.Is(err, ErrUserNotConfirmed) {
			writeError(w, "User is not confirmed", http.StatusForbidden)
			return nil, false
		}
		h.log.Error("failed to authenticate", zap.String("username", req.Username), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}

	return user, true
}

// decodeLoginRequest принимает как JSON, так и OAuth2 password form.
func decodeLoginRequest(r *http.Request) (*LoginRequest, error) {
	var req LoginRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, errors.New("missing credentials")
	}

	return &req, nil
}

// ClientIP извлекает IP адрес клиента. RemoteAddr уже учитывает прокси после middleware.RealIP.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
