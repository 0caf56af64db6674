package postgres

import (
	"context"
	"fmt"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkRepository хранилище коротких ссылок.
type LinkRepository struct {
	*Repository[domain.Link]
}

// NewLinkRepository создает хранилище ссылок.
func NewLinkRepository(db *gorm.DB, log *zap.Logger) *LinkRepository {
	return &LinkRepository{Repository: NewRepository[domain.Link](db, log)}
}

// Visit атомарно увеличивает счетчик переходов и возвращает ссылку.
func (r *LinkRepository) Visit(ctx context.Context, shortened string) (*domain.Link, error) {
	var link domain.Link

	res := r.db.WithContext(ctx).Model(&link).
		Clauses(clause.Returning{}).
		Where("shortened = ?", shortened).
		UpdateColumn("counter", gorm.Expr("counter + ?", 1))
	if res.Error != nil {
		r.log.Error("failed to record visit", zap.String("shortened", shortened), zap.Error(res.Error))
		return nil, fmt.Errorf("failed to record visit: %w", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	return &link, nil
}

// ShortenedExists проверяет, занят ли короткий код.
func (r *LinkRepository) ShortenedExists(ctx context.Context, shortened string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Link{}).Where("shortened = ?", shortened).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check shortened code: %w", mapError(err))
	}
	return count > 0, nil
}
