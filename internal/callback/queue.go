package callback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var (
	ErrQueueFull   = errors.New("callback queue is full")
	ErrQueueClosed = errors.New("callback queue is closed")
)

// Job отложенная доставка одной сущности на callback URL.
type Job struct {
	Kind   string    `json:"kind"`
	ItemID int64     `json:"item_id"`
	URL    string    `json:"url"`
	DueAt  time.Time `json:"due_at"`
}

// Queue брокер задач доставки.
type Queue interface {
	Push(ctx context.Context, job *Job) error
	// Pop блокируется до появления задачи или отмены ctx.
	Pop(ctx context.Context) (*Job, error)
	Close() error
}

// MemoryQueue очередь в памяти процесса на буферизованном канале.
type MemoryQueue struct {
	jobs   chan *Job
	closed chan struct{}
}

// NewMemoryQueue создает очередь заданной емкости.
func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{
		jobs:   make(chan *Job, size),
		closed: make(chan struct{}),
	}
}

// Push кладет задачу без блокировки; переполнение дает ErrQueueFull.
func (q *MemoryQueue) Push(_ context.Context, job *Job) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pop забирает следующую задачу.
func (q *MemoryQueue) Pop(ctx context.Context) (*Job, error) {
	select {
	case job := <-q.jobs:
		return job, nil
	case <-q.closed:
		return nil, ErrQueueClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close останавливает выдачу задач. Оставшиеся в буфере задачи теряются.
func (q *MemoryQueue) Close() error {
	select {
	case <-q.closed:
	default:
		close(q.closed)
	}
	return nil
}

// Len количество задач в буфере.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

const redisPopTimeout = 2 * time.Second

// RedisQueue очередь в списке Redis: RPUSH на запись, BLPOP на чтение.
// Позволяет принимать колбэки одним процессом и доставлять другим.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue подключается к Redis по URL вида redis://host:port/db.
func NewRedisQueue(ctx context.Context, redisURL, key string) (*RedisQueue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisQueueFromClient(client, key), nil
}

// NewRedisQueueFromClient оборачивает готовый клиент.
func NewRedisQueueFromClient(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Push сериализует задачу в конец списка.
func (q *RedisQueue) Push(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to push job: %w", err)
	}
	return nil
}

// Pop ждет задачу короткими BLPOP, чтобы вовремя заметить отмену ctx.
func (q *RedisQueue) Pop(ctx context.Context) (*Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := q.client.BLPop(ctx, redisPopTimeout, q.key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case errors.Is(err, redis.ErrClosed):
			return nil, ErrQueueClosed
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to pop job: %w", err)
		}

		// BLPOP возвращает [key, value]
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return nil, fmt.Errorf("failed to decode job: %w", err)
		}
		return &job, nil
	}
}

// Ping проверяет соединение; используется в /ready.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close закрывает клиент Redis.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
