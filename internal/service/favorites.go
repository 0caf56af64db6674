package service

import (
	"context"
	"errors"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
)

// FavoriteService избранные персонажи.
type FavoriteService struct {
	favorites  repository.FavoriteStore
	characters repository.Store[domain.Character]
	log        *zap.Logger
}

// NewFavoriteService создает сервис избранного.
func NewFavoriteService(favorites repository.FavoriteStore, characters repository.Store[domain.Character], log *zap.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, characters: characters, log: log}
}

// List возвращает избранных персонажей пользователя.
func (s *FavoriteService) List(ctx context.Context, userID int64, q ListQuery) (*repository.Page[CharacterResponse], error) {
	params, err := buildListParams(q, []string{"id", "name", "created_at"}, nil, "name")
	if err != nil {
		return nil, err
	}

	page, err := s.favorites.Characters(ctx, userID, params)
	if err != nil {
		return nil, translate(err, "Character")
	}
	return repository.MapPage(page, toCharacterResponse), nil
}

// Add добавляет персонажа в избранное.
func (s *FavoriteService) Add(ctx context.Context, userID, characterID int64) (*CharacterResponse, error) {
	if _, err := s.favorites.Add(ctx, userID, characterID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, newError(ErrAlreadyExists, "Character is already in favorites")
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, newError(ErrNotFound, "Character not found")
		}
		return nil, translate(err, "Favorite")
	}

	character, err := s.characters.Get(ctx, characterID)
	if err != nil {
		return nil, translate(err, "Character")
	}

	s.log.Info("favorite added", zap.Int64("user_id", userID), zap.Int64("character_id", characterID))
	resp := toCharacterResponse(character)
	return &resp, nil
}

// Remove убирает персонажа из избранного.
func (s *FavoriteService) Remove(ctx context.Context, userID, characterID int64) error {
	if err := s.favorites.Remove(ctx, userID, characterID); err != nil {
		return translate(err, "Favorite")
	}
	s.log.Info("favorite removed", zap.Int64("user_id", userID), zap.Int64("character_id", characterID))
	return nil
}
