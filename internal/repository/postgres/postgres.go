package postgres

import (
	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage собирает хранилища всех сущностей поверх одного подключения.
type Storage struct {
	Characters     *Repository[domain.Character]
	Episodes       *Repository[domain.Episode]
	Seasons        *Repository[domain.Season]
	SystemMessages *Repository[domain.SystemMessage]
	Users          *UserRepository
	Links          *LinkRepository
	SecretMessages *SecretMessageRepository
	Sessions       *SessionRepository
	Favorites      *FavoriteRepository
	Counters       *CounterRepository
}

// New создает экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *Storage {
	characters := NewRepository[domain.Character](db, log)

	return &Storage{
		Characters:     characters,
		Episodes:       NewRepository[domain.Episode](db, log, WithPreload("Season"), WithPreload("Characters", orderByID)),
		Seasons:        NewRepository[domain.Season](db, log, WithPreload("Episodes", orderByID)),
		SystemMessages: NewRepository[domain.SystemMessage](db, log),
		Users:          NewUserRepository(db, log),
		Links:          NewLinkRepository(db, log),
		SecretMessages: NewSecretMessageRepository(db, log),
		Sessions:       NewSessionRepository(db, log),
		Favorites:      NewFavoriteRepository(db, characters, log),
		Counters:       NewCounterRepository(db, log),
	}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

var (
	_ repository.Store[domain.Character] = (*Repository[domain.Character])(nil)
	_ repository.Store[domain.Episode]   = (*Repository[domain.Episode])(nil)
	_ repository.Store[domain.Season]    = (*Repository[domain.Season])(nil)
	_ repository.UserStore               = (*UserRepository)(nil)
	_ repository.LinkStore               = (*LinkRepository)(nil)
	_ repository.SecretMessageStore      = (*SecretMessageRepository)(nil)
	_ repository.SessionStore            = (*SessionRepository)(nil)
	_ repository.FavoriteStore           = (*FavoriteRepository)(nil)
	_ repository.CounterStore            = (*CounterRepository)(nil)
)
