package auth

import (
	"context"
	"errors"
	"net/http"

	"futurama-api/internal/domain"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ContextKey тип для ключей контекста
type ContextKey string

const (
	// UserIDKey ключ для получения ID пользователя из контекста
	UserIDKey ContextKey = "user_id"
	// SessionKey ключ для получения cookie-сессии из контекста
	SessionKey ContextKey = "auth_session"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Middleware JWT middleware для HTTP обработчиков
type Middleware struct {
	jwtService *JWTService
	log        *zap.Logger
}

// NewMiddleware создает новый JWT middleware
func NewMiddleware(jwtService *JWTService, log *zap.Logger) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		log:        log,
	}
}

// RequireAuth пропускает только запросы с валидным access токеном
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.log.Debug("missing authorization header")
			writeUnauthorized(w, "Not authenticated")
			return
		}

		tokenString := ExtractTokenFromBearer(authHeader)
		if tokenString == "" {
			m.log.Debug("invalid authorization header format")
			writeUnauthorized(w, "Invalid authorization header")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, TokenTypeAccess)
		if err != nil {
			m.log.Debug("invalid token", zap.Error(err))
			switch {
			case errors.Is(err, ErrExpiredToken):
				writeUnauthorized(w, "Token expired")
			case errors.Is(err, ErrWrongTokenType):
				writeUnauthorized(w, "Wrong token type")
			default:
				writeUnauthorized(w, "Invalid token")
			}
			return
		}

		// Добавляем информацию о пользователе в контекст
		ctx := WithUserID(r.Context(), claims.User.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth middleware для опциональной проверки JWT токена
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ExtractTokenFromBearer(r.Header.Get("Authorization"))
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, TokenTypeAccess)
		if err != nil {
			m.log.Debug("optional auth: invalid token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.User.ID)))
	})
}

// WithUserID кладет ID пользователя в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserIDFromContext извлекает ID пользователя из контекста
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// WithSession кладет cookie-сессию в контекст
func WithSession(ctx context.Context, session *domain.AuthSession) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSessionFromContext извлекает cookie-сессию; nil означает анонимного пользователя
func GetSessionFromContext(ctx context.Context) *domain.AuthSession {
	session, _ := ctx.Value(SessionKey).(*domain.AuthSession)
	return session
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, detail, http.StatusUnauthorized)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, detail string, statusCode int) {
	writeJSON(w, ErrorResponse{Detail: detail}, statusCode)
}
