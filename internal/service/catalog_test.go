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

func TestCatalog_ListBuildsParams(t *testing.T) {
	store := new(mockStore[domain.Character])
	catalog := NewCharacterCatalog(store, zap.NewNop())

	expected := repository.ListParams{
		Limit:     10,
		Offset:    20,
		OrderBy:   "name",
		Direction: repository.DirectionDesc,
		Filters: []repository.Filter{
			{Column: "gender", Value: "female"},
			{Column: "species", Value: "robot", Negate: true},
		},
		Search: &repository.Search{Column: "name", Term: "le"},
	}
	store.On("Page", mock.Anything, expected).Return(&repository.Page[domain.Character]{
		Items:  []domain.Character{{Base: domain.Base{ID: 2}, Name: "Leela", Gender: domain.CharacterGenderFemale}},
		Total:  21,
		Limit:  10,
		Offset: 20,
	}, nil)

	page, err := catalog.List(context.Background(), ListQuery{
		Limit:     10,
		Offset:    20,
		OrderBy:   "NAME",
		Direction: "DESC",
		Filters:   map[string]string{"gender": "FEMALE", "species": "!Robot", "status": ""},
		Query:     "le",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Leela", page.Items[0].Name)
	assert.Equal(t, "female", page.Items[0].Gender)
	store.AssertExpectations(t)
}

func TestCatalog_ListRejectsBadInput(t *testing.T) {
	catalog := NewCharacterCatalog(new(mockStore[domain.Character]), zap.NewNop())

	tests := []struct {
		name  string
		query ListQuery
		field string
	}{
		{name: "order by", query: ListQuery{OrderBy: "password"}, field: "order_by"},
		{name: "direction", query: ListQuery{Direction: "sideways"}, field: "direction"},
		{name: "enum value", query: ListQuery{Filters: map[string]string{"species": "!cyborg"}}, field: "species"},
		{name: "unknown filter", query: ListQuery{Filters: map[string]string{"color": "green"}}, field: "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.List(context.Background(), tt.query)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestCatalog_GetNotFound(t *testing.T) {
	store := new(mockStore[domain.Episode])
	store.On("Get", mock.Anything, int64(999999999)).Return(nil, repository.ErrNotFound)

	_, err := NewEpisodeCatalog(store, zap.NewNop()).Get(context.Background(), 999999999)

	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Episode not found", err.Error())
}

func TestEpisodeCatalog_GetWithCharacters(t *testing.T) {
	store := new(mockStore[domain.Episode])
	store.On("Get", mock.Anything, int64(1)).Return(&domain.Episode{
		Base:            domain.Base{ID: 1},
		Name:            "Space Pilot 3000",
		BroadcastNumber: intPtr(1),
		SeasonID:        1,
		Season:          &domain.Season{Base: domain.Base{ID: 1}},
		Characters: []domain.Character{
			{Base: domain.Base{ID: 1}, Name: "Philip J. Fry", Species: domain.CharacterSpeciesHuman},
			{Base: domain.Base{ID: 3}, Name: "Bender Bending Rodriguez", Species: domain.CharacterSpeciesRobot},
		},
	}, nil)

	episode, err := NewEpisodeCatalog(store, zap.NewNop()).Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "S01E01", episode.BroadcastCode)
	require.NotNil(t, episode.Season)
	require.Len(t, episode.Characters, 2)
	assert.Equal(t, "Philip J. Fry", episode.Characters[0].Name)
	assert.Equal(t, "robot", episode.Characters[1].Species)
}

func TestCatalog_RandomAndFetch(t *testing.T) {
	store := new(mockStore[domain.Season])
	season := &domain.Season{Base: domain.Base{ID: 1}, Episodes: []domain.Episode{{Base: domain.Base{ID: 3}, Name: "Space Pilot 3000", BroadcastNumber: intPtr(1)}}}
	store.On("Random", mock.Anything).Return(season, nil)
	store.On("Get", mock.Anything, int64(1)).Return(season, nil)
	store.On("Get", mock.Anything, int64(2)).Return(nil, repository.ErrNotFound)

	catalog := NewSeasonCatalog(store, zap.NewNop())
	assert.Equal(t, "season", catalog.Kind())

	random, err := catalog.Random(context.Background())
	require.NoError(t, err)
	require.Len(t, random.Episodes, 1)
	assert.Equal(t, "S01E01", random.Episodes[0].BroadcastCode)

	item, err := catalog.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.IsType(t, &SeasonResponse{}, item)

	item, err = catalog.Fetch(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, item)
}

func TestCharacterCatalog_Create(t *testing.T) {
	store := new(mockStore[domain.Character])
	store.On("Create", mock.Anything, mock.AnythingOfType("*domain.Character")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Character).ID = 42
		}).
		Return(nil)

	catalog := NewCharacterCatalog(store, zap.NewNop())

	created, err := catalog.Create(context.Background(), &CharacterCreateRequest{Name: "Zoidberg", Species: "ALIEN"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "Zoidberg", created.Name)
	assert.Equal(t, "alien", created.Species)
	assert.Equal(t, "unknown", created.Status)
	assert.Equal(t, "unknown", created.Gender)

	_, err = catalog.Create(context.Background(), &CharacterCreateRequest{Name: "Zoidberg", Species: "lobster"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = catalog.Create(context.Background(), &CharacterCreateRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "X"))
	assert.ErrorIs(t, translate(repository.ErrNotFound, "X"), ErrNotFound)
	assert.ErrorIs(t, translate(repository.ErrAlreadyExists, "X"), ErrAlreadyExists)
	assert.ErrorIs(t, translate(repository.ErrForeignKeyViolation, "X"), ErrIntegrity)

	internal := translate(errors.New("boom"), "X")
	assert.False(t, errors.Is(internal, ErrNotFound))
	assert.Contains(t, internal.Error(), "boom")
}

func intPtr(v int) *int { return &v }
