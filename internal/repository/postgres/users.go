package postgres

import (
	"futurama-api/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository хранилище пользователей.
type UserRepository struct {
	*Repository[domain.User]
}

// NewUserRepository создает хранилище пользователей.
func NewUserRepository(db *gorm.DB, log *zap.Logger) *UserRepository {
	return &UserRepository{Repository: NewRepository[domain.User](db, log)}
}
