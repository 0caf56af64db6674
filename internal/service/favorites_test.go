package service

import (
	"context"
	"errors"
	"testing"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockFavoriteStore struct {
	mock.Mock
}

func (m *mockFavoriteStore) Add(ctx context.Context, userID, characterID int64) (*domain.FavoriteCharacter, error) {
	args := m.Called(ctx, userID, characterID)
	if v := args.Get(0); v != nil {
		return v.(*domain.FavoriteCharacter), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFavoriteStore) Remove(ctx context.Context, userID, characterID int64) error {
	return m.Called(ctx, userID, characterID).Error(0)
}

func (m *mockFavoriteStore) Characters(ctx context.Context, userID int64, params repository.ListParams) (*repository.Page[domain.Character], error) {
	args := m.Called(ctx, userID, params)
	if v := args.Get(0); v != nil {
		return v.(*repository.Page[domain.Character]), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestFavoriteService_Add(t *testing.T) {
	favorites := new(mockFavoriteStore)
	characters := new(mockStore[domain.Character])
	favorites.On("Add", mock.Anything, int64(1), int64(3)).Return(&domain.FavoriteCharacter{}, nil)
	characters.On("Get", mock.Anything, int64(3)).
		Return(&domain.Character{Base: domain.Base{ID: 3}, Name: "Bender Bending Rodriguez"}, nil)

	s := NewFavoriteService(favorites, characters, zap.NewNop())

	resp, err := s.Add(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "Bender Bending Rodriguez", resp.Name)
}

func TestFavoriteService_AddErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   error
		detail string
	}{
		{name: "duplicate", err: repository.ErrAlreadyExists, want: ErrAlreadyExists, detail: "Character is already in favorites"},
		{name: "unknown character", err: repository.ErrForeignKeyViolation, want: ErrNotFound, detail: "Character not found"},
		{name: "storage failure", err: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			favorites := new(mockFavoriteStore)
			favorites.On("Add", mock.Anything, int64(1), int64(9)).Return(nil, tt.err)

			s := NewFavoriteService(favorites, new(mockStore[domain.Character]), zap.NewNop())

			_, err := s.Add(context.Background(), 1, 9)
			require.Error(t, err)
			if tt.want == nil {
				assert.ErrorContains(t, err, "connection reset")
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.detail, err.Error())
		})
	}
}

func TestFavoriteService_List(t *testing.T) {
	favorites := new(mockFavoriteStore)
	favorites.On("Characters", mock.Anything, int64(1), mock.MatchedBy(func(p repository.ListParams) bool {
		return p.Limit == 2 && p.OrderBy == "name" && p.Direction == repository.DirectionDesc
	})).Return(&repository.Page[domain.Character]{
		Items: []domain.Character{{Base: domain.Base{ID: 1}, Name: "Philip J. Fry"}},
		Total: 1,
		Limit: 2,
	}, nil)

	s := NewFavoriteService(favorites, new(mockStore[domain.Character]), zap.NewNop())

	page, err := s.List(context.Background(), 1, ListQuery{Limit: 2, OrderBy: "name", Direction: "desc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Philip J. Fry", page.Items[0].Name)
	assert.Equal(t, int64(1), page.Total)

	_, err = s.List(context.Background(), 1, ListQuery{OrderBy: "air_date"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFavoriteService_RemoveMissing(t *testing.T) {
	favorites := new(mockFavoriteStore)
	favorites.On("Remove", mock.Anything, int64(1), int64(2)).Return(repository.ErrNotFound)

	s := NewFavoriteService(favorites, new(mockStore[domain.Character]), zap.NewNop())

	err := s.Remove(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
