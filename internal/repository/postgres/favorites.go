package postgres

import (
	"context"
	"fmt"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavoriteRepository избранные персонажи пользователей.
type FavoriteRepository struct {
	db         *gorm.DB
	characters *Repository[domain.Character]
	log        *zap.Logger
}

// NewFavoriteRepository создает хранилище избранного.
func NewFavoriteRepository(db *gorm.DB, characters *Repository[domain.Character], log *zap.Logger) *FavoriteRepository {
	return &FavoriteRepository{db: db, characters: characters, log: log}
}

// Add добавляет персонажа в избранное. Повтор дает ErrAlreadyExists,
// несуществующий персонаж дает ErrForeignKeyViolation.
func (r *FavoriteRepository) Add(ctx context.Context, userID, characterID int64) (*domain.FavoriteCharacter, error) {
	favorite := &domain.FavoriteCharacter{UserID: userID, CharacterID: characterID}
	if err := r.db.WithContext(ctx).Omit("Character").Create(favorite).Error; err != nil {
		return nil, mapError(err)
	}

	r.log.Debug("favorite added", zap.Int64("user_id", userID), zap.Int64("character_id", characterID))
	return favorite, nil
}

// Remove убирает персонажа из избранного.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, characterID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND character_id = ?", userID, characterID).
		Delete(&domain.FavoriteCharacter{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Characters возвращает страницу избранных персонажей пользователя.
func (r *FavoriteRepository) Characters(ctx context.Context, userID int64, params repository.ListParams) (*repository.Page[domain.Character], error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN favorite_characters ON favorite_characters.character_id = characters.id AND favorite_characters.user_id = ?", userID)
	}
	return r.characters.page(ctx, params, scope)
}
