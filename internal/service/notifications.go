package service

import (
	"context"
	"time"

	"futurama-api/internal/metrics"
	"futurama-api/pkg/random"
)

const (
	positionMax    = 64
	minTickSeconds = 1
	maxTickSeconds = 3
)

// Position координаты персонажа в момент события.
type Position struct {
	Time time.Time `json:"time"`
	X    int       `json:"x"`
	Y    int       `json:"y"`
}

// CharacterPosition событие SSE.
type CharacterPosition struct {
	Item         *CharacterResponse `json:"item"`
	Notification Position           `json:"notification"`
}

// CharacterGetter источник персонажей для уведомлений.
type CharacterGetter interface {
	Get(ctx context.Context, id int64) (*CharacterResponse, error)
}

// NotificationService поток случайных координат персонажа.
type NotificationService struct {
	characters CharacterGetter
	tick       func() time.Duration
	now        func() time.Time
}

// NewNotificationService создает сервис уведомлений.
func NewNotificationService(characters CharacterGetter) *NotificationService {
	return &NotificationService{
		characters: characters,
		tick:       randomTick,
		now:        time.Now,
	}
}

func randomTick() time.Duration {
	n, err := random.IntBetween(minTickSeconds, maxTickSeconds)
	if err != nil {
		n = maxTickSeconds
	}
	return time.Duration(n) * time.Second
}

// StreamCharacter загружает персонажа и вызывает emit на каждом тике до отмены ctx
// или ошибки emit. Ошибка загрузки возвращается до первого emit.
func (s *NotificationService) StreamCharacter(ctx context.Context, id int64, emit func(*CharacterPosition) error) error {
	character, err := s.characters.Get(ctx, id)
	if err != nil {
		return err
	}

	metrics.SSEStreams.Inc()
	defer metrics.SSEStreams.Dec()

	for {
		timer := time.NewTimer(s.tick())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		event, err := s.position(character)
		if err != nil {
			return err
		}
		if err := emit(event); err != nil {
			return err
		}
	}
}

func (s *NotificationService) position(character *CharacterResponse) (*CharacterPosition, error) {
	x, err := random.IntBetween(0, positionMax)
	if err != nil {
		return nil, err
	}
	y, err := random.IntBetween(0, positionMax)
	if err != nil {
		return nil, err
	}
	return &CharacterPosition{
		Item:         character,
		Notification: Position{Time: s.now(), X: x, Y: y},
	}, nil
}
