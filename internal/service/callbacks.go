package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"futurama-api/internal/callback"
	"futurama-api/pkg/random"

	"go.uber.org/zap"
)

// ItemFetcher сущность, которую можно отправить колбэком.
type ItemFetcher interface {
	Kind() string
	Fetch(ctx context.Context, id int64) (any, error)
}

// ItemRegistry сопоставляет вид сущности с каталогом.
type ItemRegistry struct {
	fetchers map[string]ItemFetcher
}

// NewItemRegistry регистрирует каталоги по их Kind.
func NewItemRegistry(fetchers ...ItemFetcher) *ItemRegistry {
	r := &ItemRegistry{fetchers: make(map[string]ItemFetcher, len(fetchers))}
	for _, f := range fetchers {
		r.fetchers[f.Kind()] = f
	}
	return r
}

// Has сообщает, известен ли вид сущности.
func (r *ItemRegistry) Has(kind string) bool {
	_, ok := r.fetchers[kind]
	return ok
}

// Fetch реализует callback.Fetcher.
func (r *ItemRegistry) Fetch(ctx context.Context, kind string, id int64) (any, error) {
	f, ok := r.fetchers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}

	item, err := f.Fetch(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, callback.ErrItemNotFound
	}
	return item, err
}

var _ callback.Fetcher = (*ItemRegistry)(nil)

// Scheduler ставит задачи доставки.
type Scheduler interface {
	Schedule(ctx context.Context, job *callback.Job) error
}

// CallbackService принимает запросы на отложенную доставку.
type CallbackService struct {
	registry  *ItemRegistry
	scheduler Scheduler
	minDelay  time.Duration
	maxDelay  time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewCallbackService создает сервис колбэков. Задержка выбирается
// случайно в целых секундах из [minDelay, maxDelay].
func NewCallbackService(registry *ItemRegistry, scheduler Scheduler, minDelay, maxDelay time.Duration, log *zap.Logger) *CallbackService {
	return &CallbackService{
		registry:  registry,
		scheduler: scheduler,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
		now:       time.Now,
		log:       log,
	}
}

// Schedule проверяет запрос и ставит задачу в очередь, не дожидаясь доставки.
// Существование сущности проверяется уже при доставке.
func (s *CallbackService) Schedule(ctx context.Context, kind string, itemID int64, req *CallbackRequest) (*CallbackResponse, error) {
	if !s.registry.Has(kind) {
		return nil, newError(ErrNotFound, "Unknown item kind")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	delay, err := random.IntBetween(int(s.minDelay.Seconds()), int(s.maxDelay.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("failed to pick delay: %w", err)
	}

	job := &callback.Job{
		Kind:   kind,
		ItemID: itemID,
		URL:    req.CallbackURL,
		DueAt:  s.now().Add(time.Duration(delay) * time.Second),
	}
	if err := s.scheduler.Schedule(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to schedule callback: %w", err)
	}

	s.log.Info("callback accepted",
		zap.String("kind", kind),
		zap.Int64("item_id", itemID),
		zap.Int("delay", delay))
	return &CallbackResponse{ItemID: itemID, Delay: delay}, nil
}
