package callback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"futurama-api/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrItemNotFound Fetcher не нашел сущность; получатель узнает об этом из payload.
var ErrItemNotFound = errors.New("item not found")

// Fetcher загружает сущность для payload по виду и id.
type Fetcher interface {
	Fetch(ctx context.Context, kind string, id int64) (any, error)
}

// Payload тело запроса на callback URL.
type Payload struct {
	Kind   string `json:"kind"`
	ItemID int64  `json:"item_id"`
	Item   any    `json:"item,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Config настройки диспетчера.
type Config struct {
	Workers         int           // горутины, читающие очередь
	MaxPending      int           // задачи, ожидающие срока доставки
	SendTimeout     time.Duration // таймаут загрузки и отправки одной задачи
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Workers:         4,
		MaxPending:      1000,
		SendTimeout:     10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Dispatcher забирает задачи из очереди, ждет срока и делает одну попытку доставки.
type Dispatcher struct {
	config  Config
	queue   Queue
	fetcher Fetcher
	sender  Sender
	log     *zap.Logger

	pending chan struct{}
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex
}

// NewDispatcher создает диспетчер.
func NewDispatcher(config Config, queue Queue, fetcher Fetcher, sender Sender, log *zap.Logger) *Dispatcher {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.MaxPending <= 0 {
		config.MaxPending = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		config:  config,
		queue:   queue,
		fetcher: fetcher,
		sender:  sender,
		log:     log,
		pending: make(chan struct{}, config.MaxPending),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start запускает воркеры.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return fmt.Errorf("dispatcher already started")
	}

	d.log.Info("starting callback dispatcher",
		zap.Int("workers", d.config.Workers),
		zap.Int("max_pending", d.config.MaxPending))

	for i := 0; i < d.config.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.started = true
	return nil
}

// Stop останавливает воркеры; недоставленные задачи отбрасываются.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return fmt.Errorf("dispatcher not started")
	}

	d.log.Info("stopping callback dispatcher")
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	d.started = false
	select {
	case <-done:
		d.log.Info("callback dispatcher stopped gracefully")
		return nil
	case <-time.After(d.config.ShutdownTimeout):
		d.log.Warn("callback dispatcher shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}
}

// Schedule ставит задачу в очередь.
func (d *Dispatcher) Schedule(ctx context.Context, job *Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.started {
		return fmt.Errorf("dispatcher not started")
	}

	if err := d.queue.Push(ctx, job); err != nil {
		d.log.Error("failed to enqueue callback",
			zap.String("kind", job.Kind),
			zap.Int64("item_id", job.ItemID),
			zap.Error(err))
		return err
	}

	d.log.Debug("callback scheduled",
		zap.String("kind", job.Kind),
		zap.Int64("item_id", job.ItemID),
		zap.Time("due_at", job.DueAt))
	return nil
}

func (d *Dispatcher) worker(workerID int) {
	defer d.wg.Done()

	log := d.log.With(zap.Int("worker_id", workerID))
	log.Debug("callback worker started")

	for {
		// слот занимается до Pop, чтобы переполнение оставляло задачи в очереди
		select {
		case d.pending <- struct{}{}:
		case <-d.ctx.Done():
			log.Debug("callback worker stopped")
			return
		}

		job, err := d.queue.Pop(d.ctx)
		if err != nil {
			<-d.pending
			if d.ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				log.Debug("callback worker stopped")
				return
			}
			log.Error("failed to receive callback job", zap.Error(err))
			continue
		}

		metrics.CallbackQueued.Inc()
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			defer func() { <-d.pending }()
			defer metrics.CallbackQueued.Dec()
			d.deliverWhenDue(log, job)
		}()
	}
}

func (d *Dispatcher) deliverWhenDue(log *zap.Logger, job *Job) {
	if wait := time.Until(job.DueAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-d.ctx.Done():
			metrics.CallbackJobs.WithLabelValues(job.Kind, "dropped").Inc()
			log.Warn("callback dropped on shutdown",
				zap.String("kind", job.Kind),
				zap.Int64("item_id", job.ItemID))
			return
		}
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.config.SendTimeout)
	defer cancel()

	if err := d.deliver(ctx, job); err != nil {
		outcome := "failed"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
		metrics.CallbackJobs.WithLabelValues(job.Kind, outcome).Inc()
		log.Warn("callback delivery failed",
			zap.String("kind", job.Kind),
			zap.Int64("item_id", job.ItemID),
			zap.String("url", job.URL),
			zap.Error(err))
		return
	}

	metrics.CallbackJobs.WithLabelValues(job.Kind, "delivered").Inc()
	log.Info("callback delivered",
		zap.String("kind", job.Kind),
		zap.Int64("item_id", job.ItemID),
		zap.String("url", job.URL))
}

// deliver одна попытка: загрузить сущность и отправить payload.
func (d *Dispatcher) deliver(ctx context.Context, job *Job) error {
	payload := Payload{Kind: job.Kind, ItemID: job.ItemID}

	item, err := d.fetcher.Fetch(ctx, job.Kind, job.ItemID)
	switch {
	case err == nil:
		payload.Item = item
	case errors.Is(err, ErrItemNotFound):
		payload.Detail = "Not found"
	default:
		return fmt.Errorf("failed to load %s %d: %w", job.Kind, job.ItemID, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	return d.sender.Send(ctx, job.URL, body)
}

// Stats состояние диспетчера для /ready.
func (d *Dispatcher) Stats() map[string]interface{} {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return map[string]interface{}{
		"started":     d.started,
		"pending":     len(d.pending),
		"max_pending": cap(d.pending),
		"workers":     d.config.Workers,
	}
}
