package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"futurama-api/internal/auth"
	"futurama-api/internal/config"
	"futurama-api/internal/domain"
	"futurama-api/internal/repository"
	"futurama-api/internal/service"
	"futurama-api/pkg/useragent"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCatalog[R any] struct {
	items     map[int64]*R
	entity    string
	lastQuery service.ListQuery
}

func (s *stubCatalog[R]) Get(_ context.Context, id int64) (*R, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, &service.Error{Kind: service.ErrNotFound, Detail: s.entity + " not found"}
}

func (s *stubCatalog[R]) Random(ctx context.Context) (*R, error) {
	for _, item := range s.items {
		return item, nil
	}
	return nil, &service.Error{Kind: service.ErrNotFound, Detail: s.entity + " not found"}
}

func (s *stubCatalog[R]) List(_ context.Context, q service.ListQuery) (*repository.Page[R], error) {
	s.lastQuery = q
	page := &repository.Page[R]{Items: []R{}, Limit: q.Limit, Offset: q.Offset}
	for _, item := range s.items {
		page.Items = append(page.Items, *item)
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

type stubCreator struct{}

func (stubCreator) Create(_ context.Context, req *service.CharacterCreateRequest) (*service.CharacterResponse, error) {
	if req.Name == "" {
		return nil, &service.ValidationError{Fields: []service.FieldError{{Field: "name", Message: "field required"}}}
	}
	return &service.CharacterResponse{ID: 2, Name: req.Name, Status: "unknown"}, nil
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Register(ctx context.Context, req *service.UserCreateRequest) (*service.UserResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*service.UserResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) Activate(ctx context.Context, sig string) (*service.UserResponse, error) {
	args := m.Called(ctx, sig)
	if v := args.Get(0); v != nil {
		return v.(*service.UserResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) Me(ctx context.Context, userID int64) (*service.UserResponse, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*service.UserResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) Update(ctx context.Context, userID int64, req *service.UserUpdateRequest) (*service.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	if v := args.Get(0); v != nil {
		return v.(*service.UserResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) Delete(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUsers) Search(ctx context.Context, q service.ListQuery) (*repository.Page[service.UserSearchResult], error) {
	args := m.Called(ctx, q)
	if v := args.Get(0); v != nil {
		return v.(*repository.Page[service.UserSearchResult]), args.Error(1)
	}
	return nil, args.Error(1)
}

type stubLinks struct{}

func (stubLinks) Create(_ context.Context, userID int64, req *service.LinkCreateRequest) (*service.LinkResponse, error) {
	return &service.LinkResponse{ID: userID, URL: req.URL, Shortened: "abc123"}, nil
}

func (stubLinks) List(_ context.Context, _ int64, q service.ListQuery) (*repository.Page[service.LinkResponse], error) {
	return &repository.Page[service.LinkResponse]{Items: []service.LinkResponse{}, Limit: q.Limit}, nil
}

func (stubLinks) Get(_ context.Context, _ int64, shortened string) (*service.LinkResponse, error) {
	return nil, &service.Error{Kind: service.ErrNotFound, Detail: "Link not found"}
}

func (stubLinks) Visit(_ context.Context, shortened string) (string, error) {
	if shortened == "abc123" {
		return "https://theinfosphere.org", nil
	}
	return "", &service.Error{Kind: service.ErrNotFound, Detail: "Link not found"}
}

type stubSecrets struct {
	lastIP string
}

func (s *stubSecrets) Create(_ context.Context, req *service.SecretMessageCreateRequest) (*service.SecretMessageCreated, error) {
	return &service.SecretMessageCreated{URL: "slug"}, nil
}

func (s *stubSecrets) Read(_ context.Context, url, ip string) (*service.SecretMessageResponse, error) {
	s.lastIP = ip
	return &service.SecretMessageResponse{Text: "hello", VisitCounter: 1}, nil
}

type stubFavorites struct{}

func (stubFavorites) List(_ context.Context, _ int64, q service.ListQuery) (*repository.Page[service.CharacterResponse], error) {
	return &repository.Page[service.CharacterResponse]{Items: []service.CharacterResponse{}, Limit: q.Limit}, nil
}

func (stubFavorites) Add(_ context.Context, _ int64, characterID int64) (*service.CharacterResponse, error) {
	if characterID == 1 {
		return nil, &service.Error{Kind: service.ErrAlreadyExists, Detail: "Character is already in favorites"}
	}
	return &service.CharacterResponse{ID: characterID}, nil
}

func (stubFavorites) Remove(context.Context, int64, int64) error { return nil }

type stubCallbacks struct{}

func (stubCallbacks) Schedule(_ context.Context, kind string, itemID int64, req *service.CallbackRequest) (*service.CallbackResponse, error) {
	return &service.CallbackResponse{ItemID: itemID, Delay: 7}, nil
}

type stubStreamer struct {
	events int
}

func (s stubStreamer) StreamCharacter(ctx context.Context, id int64, emit func(*service.CharacterPosition) error) error {
	if id != 1 {
		return &service.Error{Kind: service.ErrNotFound, Detail: "Character not found"}
	}
	for i := 0; i < s.events; i++ {
		event := &service.CharacterPosition{
			Item:         &service.CharacterResponse{ID: 1, Name: "Nibbler"},
			Notification: service.Position{Time: time.Unix(0, 0).UTC(), X: i, Y: i},
		}
		if err := emit(event); err != nil {
			return err
		}
	}
	return nil
}

type stubLanding struct{}

func (stubLanding) Landing(_ context.Context, session *domain.AuthSession) (*service.LandingResponse, error) {
	resp := &service.LandingResponse{Characters: 10}
	if session.IsValid() {
		resp.User = &service.SessionUser{ID: session.UserID}
	}
	return resp, nil
}

type recordingCounter struct {
	mu     sync.Mutex
	routes []string
	err    error
	// если задан, Increment ждет его закрытия
	block chan struct{}
}

func (c *recordingCounter) Increment(_ context.Context, url string) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, url)
	return c.err
}

func (c *recordingCounter) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.routes)
}

type memorySessions struct {
	sessions map[string]*domain.AuthSession
}

func (m *memorySessions) Create(_ context.Context, s *domain.AuthSession) error {
	m.sessions[s.Key] = s
	return nil
}

func (m *memorySessions) GetActive(_ context.Context, key string) (*domain.AuthSession, error) {
	if s, ok := m.sessions[key]; ok && !s.Expired {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memorySessions) Expire(_ context.Context, key string) error {
	if s, ok := m.sessions[key]; ok {
		s.Expired = true
	}
	return nil
}

type noUsers struct{}

func (noUsers) Authenticate(context.Context, string, string) (*domain.User, error) {
	return nil, auth.ErrInvalidCredentials
}

func (noUsers) UserExists(context.Context, int64) (bool, error) { return false, nil }

type testServer struct {
	handler    http.Handler
	characters *stubCatalog[service.CharacterResponse]
	users      *mockUsers
	secrets    *stubSecrets
	counter    *recordingCounter
	sessions   *memorySessions
	tokens     *auth.JWTService
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	cfg := &config.Config{AllowOrigins: []string{"http://localhost:3000"}}
	if mutate != nil {
		mutate(cfg)
	}

	log := zap.NewNop()
	tokens := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:                 []byte("test"),
		AccessTokenDuration:       time.Minute,
		RefreshTokenDuration:      time.Hour,
		ConfirmationTokenDuration: time.Hour,
	})
	parser, err := useragent.NewParser("", log)
	require.NoError(t, err)

	ts := &testServer{
		characters: &stubCatalog[service.CharacterResponse]{entity: "Character", items: map[int64]*service.CharacterResponse{
			1: {ID: 1, Name: "Philip J. Fry", Status: "alive", Gender: "male", Species: "human"},
		}},
		users:    new(mockUsers),
		secrets:  &stubSecrets{},
		counter:  &recordingCounter{},
		sessions: &memorySessions{sessions: map[string]*domain.AuthSession{}},
		tokens:   tokens,
	}

	sessions := auth.NewSessionManager(ts.sessions, parser, time.Minute, false, log)
	services := Services{
		Characters:     ts.characters,
		CharacterAdmin: stubCreator{},
		Episodes: &stubCatalog[service.EpisodeResponse]{entity: "Episode", items: map[int64]*service.EpisodeResponse{
			1: {ID: 1, Name: "Space Pilot 3000", BroadcastCode: "S01E01", Characters: []service.CharacterResponse{
				{ID: 1, Name: "Philip J. Fry", Status: "alive", Gender: "male", Species: "human"},
			}},
		}},
		Seasons:        &stubCatalog[service.SeasonResponse]{entity: "Season", items: map[int64]*service.SeasonResponse{}},
		Users:          ts.users,
		Links:          stubLinks{},
		SecretMessages: ts.secrets,
		Favorites:      stubFavorites{},
		Callbacks:      stubCallbacks{},
		Notifications:  stubStreamer{events: 2},
		Landing:        stubLanding{},
		Counters:       ts.counter,
		GraphQL:        http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	}
	authn := Auth{
		Handlers:   auth.NewAuthHandlers(noUsers{}, tokens, sessions, log),
		Middleware: auth.NewMiddleware(tokens, log),
		Sessions:   sessions,
	}
	health := NewHealthHandler(PingFunc(func(context.Context) error { return nil }), nil, nil, "test", log)

	ts.handler = NewServer(cfg, services, authn, health, log).SetupRoutes()
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) bearer(t *testing.T, userID int64) map[string]string {
	t.Helper()
	token, err := ts.tokens.GenerateAccessToken(userID)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCharacters_GetMissing(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/characters/999999999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Character not found", decode(t, rec)["detail"])
}

func TestCharacters_Get(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/characters/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Philip J. Fry", decode(t, rec)["name"])

	rec = ts.do(t, http.MethodGet, "/api/characters/abc", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEpisodes_GetIncludesCharacters(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/episodes/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "S01E01", body["broadcast_code"])
	characters, ok := body["characters"].([]any)
	require.True(t, ok)
	require.Len(t, characters, 1)
	assert.Equal(t, "Philip J. Fry", characters[0].(map[string]any)["name"])
}

func TestCharacters_ListQuery(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/characters?limit=10&offset=5&gender=!male&order_by=name&direction=desc&query=fry", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	q := ts.characters.lastQuery
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 5, q.Offset)
	assert.Equal(t, "name", q.OrderBy)
	assert.Equal(t, "desc", q.Direction)
	assert.Equal(t, "fry", q.Query)
	assert.Equal(t, map[string]string{"gender": "!male"}, q.Filters)

	body := decode(t, rec)
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 10, body["limit"])
}

func TestCharacters_ListDefaultsAndBounds(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/characters", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultLimit, ts.characters.lastQuery.Limit)
	assert.Equal(t, 0, ts.characters.lastQuery.Offset)

	for _, target := range []string{
		"/api/characters?limit=0",
		"/api/characters?limit=101",
		"/api/characters?limit=ten",
		"/api/characters?offset=-1",
	} {
		rec := ts.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
		assert.NotEmpty(t, decode(t, rec)["errors"], target)
	}
}

func TestCharacters_CreateRequiresBearer(t *testing.T) {
	ts := newTestServer(t, nil)
	body := `{"name":"Lrrr","species":"alien"}`

	rec := ts.do(t, http.MethodPost, "/api/characters", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/characters", body, ts.bearer(t, 1))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Lrrr", decode(t, rec)["name"])

	rec = ts.do(t, http.MethodPost, "/api/characters", `{"name":""}`, ts.bearer(t, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Validation error", decode(t, rec)["detail"])
}

func TestRandom(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/random/character", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/random/season", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShortLinkRedirect(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/s/abc123", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "https://theinfosphere.org", rec.Header().Get("Location"))

	rec = ts.do(t, http.MethodGet, "/s/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLinks_RequireBearer(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/links", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/links", `{"url":"https://example.com"}`, ts.bearer(t, 3))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "abc123", decode(t, rec)["shortened"])

	rec = ts.do(t, http.MethodGet, "/api/links/zzz", "", ts.bearer(t, 3))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallbacks(t *testing.T) {
	ts := newTestServer(t, nil)
	body := `{"callback_url":"https://hooks.example.com"}`

	rec := ts.do(t, http.MethodPost, "/api/callbacks/characters/1", body, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"item_id":1,"delay":7}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/callbacks/planets/1", body, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCharacterStream(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/notifications/sse/characters/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n\n"), "\n\n")
	require.Len(t, events, 2)
	for _, e := range events {
		require.True(t, strings.HasPrefix(e, "data: "), e)
		var payload service.CharacterPosition
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(e, "data: ")), &payload))
		assert.Equal(t, "Nibbler", payload.Item.Name)
	}

	rec = ts.do(t, http.MethodGet, "/api/notifications/sse/characters/2", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestUsers(t *testing.T) {
	ts := newTestServer(t, nil)

	ts.users.On("Register", mock.Anything, mock.AnythingOfType("*service.UserCreateRequest")).
		Return(&service.UserResponse{ID: 1, Username: "philipfry"}, nil).Once()
	ts.users.On("Register", mock.Anything, mock.Anything).
		Return(nil, &service.Error{Kind: service.ErrAlreadyExists, Detail: "User with this username or email already exists"})
	ts.users.On("Delete", mock.Anything, int64(1)).
		Return(&service.Error{Kind: service.ErrForbidden, Detail: "User deletion is disabled"})
	ts.users.On("Me", mock.Anything, int64(1)).Return(&service.UserResponse{ID: 1, Username: "philipfry"}, nil)

	body := `{"name":"Philip","surname":"Fry","email":"fry@example.com","username":"philipfry","password":"slurm-addict"}`
	rec := ts.do(t, http.MethodPost, "/api/users", body, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/users", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = ts.do(t, http.MethodGet, "/api/users/me", "", ts.bearer(t, 1))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "philipfry", decode(t, rec)["username"])

	rec = ts.do(t, http.MethodDelete, "/api/users/me", "", ts.bearer(t, 1))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/users/activate", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	ts.users.AssertExpectations(t)
}

func TestUsers_SearchMarksCaller(t *testing.T) {
	ts := newTestServer(t, nil)
	for i := 0; i < 3; i++ {
		ts.users.On("Search", mock.Anything, mock.Anything).Return(&repository.Page[service.UserSearchResult]{
			Items: []service.UserSearchResult{{ID: 1, Username: "philipfry"}, {ID: 2, Username: "leela"}},
			Total: 2,
			Limit: 50,
		}, nil).Once()
	}

	isMe := func(rec *httptest.ResponseRecorder) []bool {
		var page repository.Page[service.UserSearchResult]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		flags := make([]bool, len(page.Items))
		for i, item := range page.Items {
			flags[i] = item.IsMe
		}
		return flags
	}

	rec := ts.do(t, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []bool{false, false}, isMe(rec))

	rec = ts.do(t, http.MethodGet, "/api/users", "", ts.bearer(t, 2))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []bool{false, true}, isMe(rec))

	rec = ts.do(t, http.MethodGet, "/api/users", "", map[string]string{"Authorization": "Bearer garbage"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []bool{false, false}, isMe(rec))
}

func TestFavorites(t *testing.T) {
	ts := newTestServer(t, nil)
	headers := ts.bearer(t, 1)

	rec := ts.do(t, http.MethodPost, "/api/favorites/characters/2", "", headers)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/favorites/characters/1", "", headers)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/favorites/characters/2", "", headers)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSecretMessageUsesRealIP(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/crypto/secret_message", `{"text":"hi"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/crypto/secret_message/slug", "", map[string]string{"X-Real-IP": "203.0.113.7"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.7", ts.secrets.lastIP)
}

func TestTrustedHost(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.TrustedHost = []string{"futuramaapi.com", "*.futuramaapi.com"} })

	req := httptest.NewRequest(http.MethodGet, "/api/characters/1", nil)
	req.Host = "evil.example.com"
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, host := range []string{"futuramaapi.com", "api.futuramaapi.com:443"} {
		req = httptest.NewRequest(http.MethodGet, "/api/characters/1", nil)
		req.Host = host
		rec = httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, host)
	}
}

func TestHTTPSRedirect(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.Features.EnableHTTPSRedirect = true })

	req := httptest.NewRequest(http.MethodGet, "http://futuramaapi.com/api/characters?limit=5", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "https://futuramaapi.com/api/characters?limit=5", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "http://futuramaapi.com/api/characters/1", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestsCounter(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.counter.err = errors.New("db down")

	rec := ts.do(t, http.MethodGet, "/api/characters/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "counter errors must not affect the response")

	ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Eventually(t, func() bool { return len(ts.counter.seen()) > 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"/api/characters/{id}"}, ts.counter.seen())
}

func TestRequestsCounter_DoesNotDelayResponse(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.counter.block = make(chan struct{})

	// счетчик висит, а ответ уже отдан
	rec := ts.do(t, http.MethodGet, "/api/characters/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, ts.counter.seen())

	close(ts.counter.block)
	assert.Eventually(t, func() bool {
		return slices.Equal(ts.counter.seen(), []string{"/api/characters/{id}"})
	}, time.Second, 10*time.Millisecond)
}

func TestLandingAndSessions(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["user"])

	ts.sessions.sessions["key"] = &domain.AuthSession{Key: "key", UserID: 9}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "key"})
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	user, ok := decode(t, rec)["user"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 9, user["id"])

	rec = ts.do(t, http.MethodPost, "/auth/login", `{"username":"fry","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])

	h := NewHealthHandler(
		PingFunc(func(context.Context) error { return nil }),
		PingFunc(func(context.Context) error { return errors.New("redis down") }),
		nil, "test", zap.NewNop())
	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decode(t, rec)["queue_status"])
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/planets", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decode(t, rec)["detail"])
}
