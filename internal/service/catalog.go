package service

import (
	"context"
	"slices"
	"strings"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
)

// ListQuery параметры списка, пришедшие от клиента.
type ListQuery struct {
	Limit     int
	Offset    int
	OrderBy   string
	Direction string
	Filters   map[string]string
	Query     string
}

// FilterParser проверяет значение фильтра без префикса "!".
type FilterParser func(raw string) (string, error)

func enumFilter[T ~string](values []T) FilterParser {
	return func(raw string) (string, error) {
		v, err := domain.ParseEnum(raw, values)
		return string(v), err
	}
}

// CatalogConfig описывает сущность для Catalog.
type CatalogConfig[T, R any] struct {
	Kind         string
	Entity       string
	OrderFields  []string
	Filters      map[string]FilterParser
	SearchColumn string
	ToResponse   func(*T) R
}

// Catalog чтение справочной сущности: одна реализация на персонажей, эпизоды и сезоны.
type Catalog[T, R any] struct {
	store repository.Store[T]
	cfg   CatalogConfig[T, R]
	log   *zap.Logger
}

// NewCatalog создает каталог над хранилищем.
func NewCatalog[T, R any](store repository.Store[T], cfg CatalogConfig[T, R], log *zap.Logger) *Catalog[T, R] {
	return &Catalog[T, R]{store: store, cfg: cfg, log: log.With(zap.String("kind", cfg.Kind))}
}

// Kind имя сущности для колбэков и логов.
func (c *Catalog[T, R]) Kind() string {
	return c.cfg.Kind
}

// Get возвращает сущность по id.
func (c *Catalog[T, R]) Get(ctx context.Context, id int64) (*R, error) {
	entity, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, translate(err, c.cfg.Entity)
	}
	resp := c.cfg.ToResponse(entity)
	return &resp, nil
}

// Fetch то же, что Get, но без типа; нужен доставке колбэков.
func (c *Catalog[T, R]) Fetch(ctx context.Context, id int64) (any, error) {
	resp, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Random возвращает случайную сущность.
func (c *Catalog[T, R]) Random(ctx context.Context) (*R, error) {
	entity, err := c.store.Random(ctx)
	if err != nil {
		return nil, translate(err, c.cfg.Entity)
	}
	resp := c.cfg.ToResponse(entity)
	return &resp, nil
}

// List возвращает страницу сущностей.
func (c *Catalog[T, R]) List(ctx context.Context, q ListQuery) (*repository.Page[R], error) {
	params, err := c.params(q)
	if err != nil {
		return nil, err
	}

	page, err := c.store.Page(ctx, params)
	if err != nil {
		c.log.Error("failed to list", zap.Error(err))
		return nil, translate(err, c.cfg.Entity)
	}

	return repository.MapPage(page, c.cfg.ToResponse), nil
}

func (c *Catalog[T, R]) params(q ListQuery) (repository.ListParams, error) {
	return buildListParams(q, c.cfg.OrderFields, c.cfg.Filters, c.cfg.SearchColumn)
}

// buildListParams проверяет сортировку и фильтры и собирает параметры выборки.
func buildListParams(q ListQuery, orderFields []string, filters map[string]FilterParser, searchColumn string) (repository.ListParams, error) {
	params := repository.ListParams{Limit: q.Limit, Offset: q.Offset}

	if q.OrderBy != "" {
		orderBy := strings.ToLower(q.OrderBy)
		if !slices.Contains(orderFields, orderBy) {
			return params, invalidField("order_by", "should be one of: "+strings.Join(orderFields, ", "))
		}
		params.OrderBy = orderBy
	}

	switch strings.ToLower(q.Direction) {
	case "", string(repository.DirectionAsc):
		params.Direction = repository.DirectionAsc
	case string(repository.DirectionDesc):
		params.Direction = repository.DirectionDesc
	default:
		return params, invalidField("direction", "should be one of: asc, desc")
	}

	// порядок фильтров стабилен для повторяемых запросов
	names := make([]string, 0, len(q.Filters))
	for name := range q.Filters {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		raw := q.Filters[name]
		if raw == "" {
			continue
		}
		parse, ok := filters[name]
		if !ok {
			return params, invalidField(name, "unsupported filter")
		}

		f := repository.ParseFilter(name, raw)
		value, err := parse(f.Value.(string))
		if err != nil {
			return params, invalidField(name, err.Error())
		}
		f.Value = value
		params.Filters = append(params.Filters, f)
	}

	if q.Query != "" && searchColumn != "" {
		params.Search = &repository.Search{Column: searchColumn, Term: q.Query}
	}

	return params, nil
}

// CharacterCatalog каталог персонажей с созданием.
type CharacterCatalog struct {
	*Catalog[domain.Character, CharacterResponse]
	store repository.Store[domain.Character]
}

// NewCharacterCatalog создает каталог персонажей.
func NewCharacterCatalog(store repository.Store[domain.Character], log *zap.Logger) *CharacterCatalog {
	return &CharacterCatalog{
		Catalog: NewCatalog(store, CatalogConfig[domain.Character, CharacterResponse]{
			Kind:        "character",
			Entity:      "Character",
			OrderFields: []string{"id", "name", "created_at"},
			Filters: map[string]FilterParser{
				"gender":  enumFilter(domain.AllCharacterGenders),
				"status":  enumFilter(domain.AllCharacterStatuses),
				"species": enumFilter(domain.AllCharacterSpecies),
			},
			SearchColumn: "name",
			ToResponse:   toCharacterResponse,
		}, log),
		store: store,
	}
}

// Create создает персонажа; пустые перечисления становятся unknown.
func (c *CharacterCatalog) Create(ctx context.Context, req *CharacterCreateRequest) (*CharacterResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	character := &domain.Character{
		Name:    strings.TrimSpace(req.Name),
		Status:  domain.CharacterStatusUnknown,
		Gender:  domain.CharacterGenderUnknown,
		Species: domain.CharacterSpeciesUnknown,
		Image:   req.Image,
	}

	var err error
	if req.Status != "" {
		if character.Status, err = domain.ParseEnum(req.Status, domain.AllCharacterStatuses); err != nil {
			return nil, invalidField("status", err.Error())
		}
	}
	if req.Gender != "" {
		if character.Gender, err = domain.ParseEnum(req.Gender, domain.AllCharacterGenders); err != nil {
			return nil, invalidField("gender", err.Error())
		}
	}
	if req.Species != "" {
		if character.Species, err = domain.ParseEnum(req.Species, domain.AllCharacterSpecies); err != nil {
			return nil, invalidField("species", err.Error())
		}
	}

	if err := c.store.Create(ctx, character); err != nil {
		return nil, translate(err, "Character")
	}

	c.log.Info("character created", zap.Int64("id", character.ID), zap.String("name", character.Name))
	resp := toCharacterResponse(character)
	return &resp, nil
}

// NewEpisodeCatalog создает каталог эпизодов.
func NewEpisodeCatalog(store repository.Store[domain.Episode], log *zap.Logger) *Catalog[domain.Episode, EpisodeResponse] {
	return NewCatalog(store, CatalogConfig[domain.Episode, EpisodeResponse]{
		Kind:         "episode",
		Entity:       "Episode",
		OrderFields:  []string{"id", "name", "created_at", "air_date"},
		Filters:      map[string]FilterParser{},
		SearchColumn: "name",
		ToResponse:   toEpisodeResponse,
	}, log)
}

// NewSeasonCatalog создает каталог сезонов.
func NewSeasonCatalog(store repository.Store[domain.Season], log *zap.Logger) *Catalog[domain.Season, SeasonResponse] {
	return NewCatalog(store, CatalogConfig[domain.Season, SeasonResponse]{
		Kind:        "season",
		Entity:      "Season",
		OrderFields: []string{"id", "created_at"},
		Filters:     map[string]FilterParser{},
		ToResponse:  toSeasonResponse,
	}, log)
}
