package postgres

import (
	"context"
	"fmt"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionRepository хранилище cookie-сессий.
type SessionRepository struct {
	*Repository[domain.AuthSession]
}

// NewSessionRepository создает хранилище сессий.
func NewSessionRepository(db *gorm.DB, log *zap.Logger) *SessionRepository {
	return &SessionRepository{Repository: NewRepository[domain.AuthSession](db, log)}
}

// GetActive возвращает неистекшую сессию вместе с пользователем.
func (r *SessionRepository) GetActive(ctx context.Context, key string) (*domain.AuthSession, error) {
	var session domain.AuthSession
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("session_key = ? AND expired = ?", key, false).
		Take(&session).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &session, nil
}

// Expire помечает сессию истекшей.
func (r *SessionRepository) Expire(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Model(&domain.AuthSession{}).
		Where("session_key = ? AND expired = ?", key, false).
		Update("expired", true)
	if res.Error != nil {
		return fmt.Errorf("failed to expire session: %w", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
