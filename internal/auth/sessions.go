package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"
	"futurama-api/pkg/random"
	"futurama-api/pkg/useragent"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	// SessionCookieName имя cookie с ключом сессии
	SessionCookieName = "Authorization"

	sessionKeyLength = 32
	sessionCacheSize = 1024
	sessionCookieTTL = 30 * 24 * time.Hour
)

// SessionManager управляет cookie-сессиями для страниц.
//
// Активная сессия всегда читается из хранилища: выход, обработанный другим
// процессом, виден сразу. В памяти держатся только мертвые ключи (истекшие или
// неизвестные); истекшая сессия не может снова стать активной.
type SessionManager struct {
	store  repository.SessionStore
	dead   *expirable.LRU[string, struct{}]
	parser *useragent.Parser
	secure bool
	log    *zap.Logger
}

// NewSessionManager создает менеджер сессий. cacheTTL ограничивает, как долго
// помнится мертвый ключ.
func NewSessionManager(store repository.SessionStore, parser *useragent.Parser, cacheTTL time.Duration, secure bool, log *zap.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		dead:   expirable.NewLRU[string, struct{}](sessionCacheSize, nil, cacheTTL),
		parser: parser,
		secure: secure,
		log:    log,
	}
}

// Create заводит сессию для пользователя.
func (m *SessionManager) Create(ctx context.Context, user *domain.User, ip, userAgent string) (*domain.AuthSession, error) {
	key, err := random.NewRandomString(sessionKeyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	deviceType := "unknown"
	if m.parser != nil {
		deviceType = m.parser.ParseUserAgent(userAgent).DeviceType
	}

	session := &domain.AuthSession{
		Key:        key,
		UserID:     user.ID,
		IPAddress:  ip,
		DeviceType: deviceType,
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.User = user

	m.log.Info("session created",
		zap.Int64("user_id", user.ID),
		zap.String("ip", ip),
		zap.String("device_type", deviceType))

	return session, nil
}

// Resolve возвращает активную сессию по ключу или nil.
func (m *SessionManager) Resolve(ctx context.Context, key string) (*domain.AuthSession, error) {
	if key == "" {
		return nil, nil
	}
	if m.dead.Contains(key) {
		return nil, nil
	}

	session, err := m.store.GetActive(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			m.dead.Add(key, struct{}{})
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// Expire помечает сессию истекшей.
func (m *SessionManager) Expire(ctx context.Context, key string) error {
	if err := m.store.Expire(ctx, key); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to expire session: %w", err)
	}
	m.dead.Add(key, struct{}{})
	return nil
}

// SetCookie выставляет HTTP-only cookie с ключом сессии.
func (m *SessionManager) SetCookie(w http.ResponseWriter, session *domain.AuthSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Key,
		Path:     "/",
		MaxAge:   int(sessionCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie удаляет cookie сессии.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware кладет сессию из cookie в контекст; без сессии запрос анонимный.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.Resolve(r.Context(), cookie.Value)
		if err != nil {
			m.log.Warn("failed to resolve session", zap.Error(err))
		}
		if !session.IsValid() {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
