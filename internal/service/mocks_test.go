package service

import (
	"context"

	"futurama-api/internal/callback"
	"futurama-api/internal/domain"
	"futurama-api/internal/email"
	"futurama-api/internal/repository"

	"github.com/stretchr/testify/mock"
)

type mockStore[T any] struct {
	mock.Mock
}

func (m *mockStore[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*T), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore[T]) GetBy(ctx context.Context, column string, value any) (*T, error) {
	args := m.Called(ctx, column, value)
	if v := args.Get(0); v != nil {
		return v.(*T), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore[T]) Filter(ctx context.Context, params repository.ListParams) ([]T, error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.([]T), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore[T]) Count(ctx context.Context, params repository.ListParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore[T]) Page(ctx context.Context, params repository.ListParams) (*repository.Page[T], error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.(*repository.Page[T]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore[T]) Create(ctx context.Context, entity *T) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *mockStore[T]) Update(ctx context.Context, id int64, changes repository.Changes) (*T, error) {
	args := m.Called(ctx, id, changes)
	if v := args.Get(0); v != nil {
		return v.(*T), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore[T]) Random(ctx context.Context) (*T, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*T), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserStore struct {
	mockStore[domain.User]
}

func (m *mockUserStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockLinkStore struct {
	mockStore[domain.Link]
}

func (m *mockLinkStore) Visit(ctx context.Context, shortened string) (*domain.Link, error) {
	args := m.Called(ctx, shortened)
	if v := args.Get(0); v != nil {
		return v.(*domain.Link), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLinkStore) ShortenedExists(ctx context.Context, shortened string) (bool, error) {
	args := m.Called(ctx, shortened)
	return args.Bool(0), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Schedule(ctx context.Context, job *callback.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// memorySecretStore повторяет семантику атомарного чтения из базы.
type memorySecretStore struct {
	rows map[string]*domain.SecretMessage
}

func newMemorySecretStore() *memorySecretStore {
	return &memorySecretStore{rows: map[string]*domain.SecretMessage{}}
}

func (s *memorySecretStore) Create(_ context.Context, m *domain.SecretMessage) error {
	if _, ok := s.rows[m.URL]; ok {
		return repository.ErrAlreadyExists
	}
	m.ID = int64(len(s.rows) + 1)
	s.rows[m.URL] = m
	return nil
}

func (s *memorySecretStore) Read(_ context.Context, url string, filler []byte, ip string) (*domain.SecretMessageRead, error) {
	row, ok := s.rows[url]
	if !ok {
		return nil, repository.ErrNotFound
	}

	read := &domain.SecretMessageRead{PreviousCounter: row.VisitCounter, OriginalText: row.Text}
	if row.VisitCounter < 1 {
		row.Text = filler
		row.IPAddress = &ip
	}
	row.VisitCounter++
	read.SecretMessage = *row
	return read, nil
}
