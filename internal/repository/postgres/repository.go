package postgres

import (
	"context"
	"fmt"

	"futurama-api/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultOrderColumn = "id"

type tabler interface {
	TableName() string
}

type preload struct {
	name string
	args []any
}

// Option настраивает Repository.
type Option func(*options)

type options struct {
	preloads []preload
}

// WithPreload подгружает связь отдельным запросом для каждой выборки.
func WithPreload(name string, args ...any) Option {
	return func(o *options) {
		o.preloads = append(o.preloads, preload{name: name, args: args})
	}
}

// Repository обобщенное хранилище сущности на GORM.
type Repository[T any] struct {
	db       *gorm.DB
	log      *zap.Logger
	table    string
	preloads []preload
}

// NewRepository создает хранилище для сущности T.
func NewRepository[T any](db *gorm.DB, log *zap.Logger, opts ...Option) *Repository[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var table string
	if t, ok := any(new(T)).(tabler); ok {
		table = t.TableName()
	}

	return &Repository[T]{
		db:       db,
		log:      log.With(zap.String("table", table)),
		table:    table,
		preloads: o.preloads,
	}
}

func (r *Repository[T]) column(name string) clause.Column {
	return clause.Column{Table: r.table, Name: name}
}

func (r *Repository[T]) withPreloads(q *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		q = q.Preload(p.name, p.args...)
	}
	return q
}

func (r *Repository[T]) applyFilters(q *gorm.DB, params repository.ListParams) *gorm.DB {
	for _, f := range params.Filters {
		if f.Negate {
			q = q.Where(clause.Neq{Column: r.column(f.Column), Value: f.Value})
		} else {
			q = q.Where(clause.Eq{Column: r.column(f.Column), Value: f.Value})
		}
	}

	if params.Search != nil && params.Search.Term != "" {
		q = q.Where(clause.Expr{
			SQL:  "? ILIKE ?",
			Vars: []any{r.column(params.Search.Column), "%" + escapeLike(params.Search.Term) + "%"},
		})
	}

	return q
}

func (r *Repository[T]) applyOrder(q *gorm.DB, params repository.ListParams) *gorm.DB {
	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = defaultOrderColumn
	}

	q = q.Order(clause.OrderByColumn{Column: r.column(orderBy), Desc: params.Direction == repository.DirectionDesc})
	if orderBy != defaultOrderColumn {
		// стабильный порядок для постраничного обхода
		q = q.Order(clause.OrderByColumn{Column: r.column(defaultOrderColumn)})
	}

	return q
}

// Get возвращает сущность по первичному ключу.
func (r *Repository[T]) Get(ctx context.Context, id int64) (*T, error) {
	var entity T
	err := r.withPreloads(r.db.WithContext(ctx)).Where(clause.Eq{Column: r.column("id"), Value: id}).Take(&entity).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

// GetBy возвращает сущность по значению уникальной колонки.
func (r *Repository[T]) GetBy(ctx context.Context, column string, value any) (*T, error) {
	var entity T
	err := r.withPreloads(r.db.WithContext(ctx)).Where(clause.Eq{Column: r.column(column), Value: value}).Take(&entity).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

// Filter возвращает упорядоченную страницу сущностей.
func (r *Repository[T]) Filter(ctx context.Context, params repository.ListParams) ([]T, error) {
	return r.filter(ctx, params, nil)
}

func (r *Repository[T]) filter(ctx context.Context, params repository.ListParams, scope func(*gorm.DB) *gorm.DB) ([]T, error) {
	q := r.withPreloads(r.db.WithContext(ctx).Model(new(T)))
	if scope != nil {
		q = q.Scopes(scope)
	}
	q = r.applyOrder(r.applyFilters(q, params), params)

	items := make([]T, 0, params.Limit)
	if err := q.Limit(params.Limit).Offset(params.Offset).Find(&items).Error; err != nil {
		r.log.Error("failed to filter records", zap.Error(err))
		return nil, mapError(err)
	}
	return items, nil
}

// Count возвращает количество сущностей, подходящих под фильтры.
func (r *Repository[T]) Count(ctx context.Context, params repository.ListParams) (int64, error) {
	return r.count(ctx, params, nil)
}

func (r *Repository[T]) count(ctx context.Context, params repository.ListParams, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	if scope != nil {
		q = q.Scopes(scope)
	}

	var total int64
	if err := r.applyFilters(q, params).Count(&total).Error; err != nil {
		r.log.Error("failed to count records", zap.Error(err))
		return 0, mapError(err)
	}
	return total, nil
}

// Page выполняет выборку и подсчет параллельно.
func (r *Repository[T]) Page(ctx context.Context, params repository.ListParams) (*repository.Page[T], error) {
	return r.page(ctx, params, nil)
}

func (r *Repository[T]) page(ctx context.Context, params repository.ListParams, scope func(*gorm.DB) *gorm.DB) (*repository.Page[T], error) {
	var (
		items []T
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = r.filter(gctx, params, scope)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = r.count(gctx, params, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &repository.Page[T]{Items: items, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// Create сохраняет сущность без связей.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		mapped := mapError(err)
		r.log.Debug("failed to create record", zap.Error(err))
		return mapped
	}
	return nil
}

// Update применяет частичные изменения и возвращает обновленную сущность.
func (r *Repository[T]) Update(ctx context.Context, id int64, changes repository.Changes) (*T, error) {
	if len(changes) == 0 {
		return r.Get(ctx, id)
	}

	res := r.db.WithContext(ctx).Model(new(T)).
		Where(clause.Eq{Column: r.column("id"), Value: id}).
		Updates(map[string]any(changes))
	if res.Error != nil {
		r.log.Debug("failed to update record", zap.Int64("id", id), zap.Error(res.Error))
		return nil, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	return r.Get(ctx, id)
}

// Random возвращает случайную сущность. ORDER BY random() приемлем только для небольших таблиц.
func (r *Repository[T]) Random(ctx context.Context) (*T, error) {
	var entity T
	if err := r.withPreloads(r.db.WithContext(ctx)).Order("random()").Take(&entity).Error; err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

// Delete удаляет сущность по первичному ключу.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where(clause.Eq{Column: r.column("id"), Value: id}).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.table, mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
