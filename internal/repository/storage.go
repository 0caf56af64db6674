package repository

import (
	"context"
	"errors"
	"strings"

	"futurama-api/internal/domain"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyExists       = errors.New("record already exists")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// Direction порядок сортировки.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// Filter условие равенства (или неравенства при Negate) по колонке.
type Filter struct {
	Column string
	Value  any
	Negate bool
}

// ParseFilter превращает значение с префиксом "!" в условие неравенства.
func ParseFilter(column, raw string) Filter {
	if strings.HasPrefix(raw, "!") {
		return Filter{Column: column, Value: strings.TrimPrefix(raw, "!"), Negate: true}
	}
	return Filter{Column: column, Value: raw}
}

// Search регистронезависимый поиск подстроки по колонке.
type Search struct {
	Column string
	Term   string
}

// ListParams параметры выборки списка.
type ListParams struct {
	Limit     int
	Offset    int
	OrderBy   string
	Direction Direction
	Filters   []Filter
	Search    *Search
}

// Page страница результатов с общим количеством.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// MapPage преобразует элементы страницы, сохраняя метаданные.
func MapPage[T, R any](page *Page[T], fn func(*T) R) *Page[R] {
	items := make([]R, len(page.Items))
	for i := range page.Items {
		items[i] = fn(&page.Items[i])
	}
	return &Page[R]{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}

// Changes частичное обновление: колонка -> новое значение.
type Changes map[string]any

// SetIfPresent добавляет значение, только если оно передано.
// nil означает "оставить текущее значение".
func SetIfPresent[V any](c Changes, column string, v *V) {
	if v != nil {
		c[column] = *v
	}
}

// Store общий контракт хранилища сущности.
type Store[T any] interface {
	Get(ctx context.Context, id int64) (*T, error)
	GetBy(ctx context.Context, column string, value any) (*T, error)
	Filter(ctx context.Context, params ListParams) ([]T, error)
	Count(ctx context.Context, params ListParams) (int64, error)
	Page(ctx context.Context, params ListParams) (*Page[T], error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, id int64, changes Changes) (*T, error)
	Random(ctx context.Context) (*T, error)
}

// UserStore хранилище пользователей.
type UserStore interface {
	Store[domain.User]
	Delete(ctx context.Context, id int64) error
}

// LinkStore хранилище коротких ссылок.
type LinkStore interface {
	Store[domain.Link]
	Visit(ctx context.Context, shortened string) (*domain.Link, error)
	ShortenedExists(ctx context.Context, shortened string) (bool, error)
}

// SecretMessageStore хранилище одноразовых сообщений.
type SecretMessageStore interface {
	Create(ctx context.Context, message *domain.SecretMessage) error
	Read(ctx context.Context, url string, filler []byte, ip string) (*domain.SecretMessageRead, error)
}

// SessionStore хранилище cookie-сессий.
type SessionStore interface {
	Create(ctx context.Context, session *domain.AuthSession) error
	GetActive(ctx context.Context, key string) (*domain.AuthSession, error)
	Expire(ctx context.Context, key string) error
}

// FavoriteStore избранные персонажи пользователя.
type FavoriteStore interface {
	Add(ctx context.Context, userID, characterID int64) (*domain.FavoriteCharacter, error)
	Remove(ctx context.Context, userID, characterID int64) error
	Characters(ctx context.Context, userID int64, params ListParams) (*Page[domain.Character], error)
}

// CounterStore счетчики обращений к маршрутам.
type CounterStore interface {
	Increment(ctx context.Context, url string) error
	Top(ctx context.Context, limit int) ([]domain.RequestsCounter, error)
}
