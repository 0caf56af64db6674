package postgres

import (
	"context"
	"fmt"

	"futurama-api/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository счетчики обращений.
type CounterRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewCounterRepository создает хранилище счетчиков.
func NewCounterRepository(db *gorm.DB, log *zap.Logger) *CounterRepository {
	return &CounterRepository{db: db, log: log}
}

// Increment увеличивает счетчик маршрута, создавая строку при первом обращении.
func (r *CounterRepository) Increment(ctx context.Context, url string) error {
	row := domain.RequestsCounter{URL: url, Counter: 1}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.Assignments(map[string]any{"counter": gorm.Expr("requests_counter.counter + 1")}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to increment counter: %w", mapError(err))
	}
	return nil
}

// Top возвращает самые посещаемые маршруты.
func (r *CounterRepository) Top(ctx context.Context, limit int) ([]domain.RequestsCounter, error) {
	var counters []domain.RequestsCounter
	err := r.db.WithContext(ctx).Order("counter DESC").Order("id").Limit(limit).Find(&counters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list counters: %w", mapError(err))
	}
	return counters, nil
}
