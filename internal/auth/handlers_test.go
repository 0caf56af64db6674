package auth

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"futurama-api/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthenticator) UserExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newTestHandlers(users UserAuthenticator, store *mockSessionStore) (*AuthHandlers, *JWTService) {
	jwtService := newTestJWTService()
	sessions := NewSessionManager(store, nil, time.Minute, false, zap.NewNop())
	return NewAuthHandlers(users, jwtService, sessions, zap.NewNop()), jwtService
}

func TestAuthHandlers_IssueTokens(t *testing.T) {
	users := new(mockAuthenticator)
	users.On("Authenticate", mock.Anything, "fry", "slurm-addict").
		Return(&domain.User{Base: domain.Base{ID: 3}, Username: "fry"}, nil)
	users.On("Authenticate", mock.Anything, "fry", "wrong-password").
		Return(nil, ErrInvalidCredentials)
	users.On("Authenticate", mock.Anything, "amy", "spluh-spluh").
		Return(nil, ErrUserNotConfirmed)

	h, jwtService := newTestHandlers(users, new(mockSessionStore))

	t.Run("json body", func(t *testing.T) {
		body := bytes.NewBufferString(`{"username":"fry","password":"slurm-addict"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/tokens/users/auth", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.IssueTokens(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var pair TokenPair
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
		claims, err := jwtService.ValidateToken(pair.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, int64(3), claims.User.ID)
		_, err = jwtService.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
		assert.NoError(t, err)
	})

	t.Run("form body", func(t *testing.T) {
		form := url.Values{"username": {"fry"}, "password": {"slurm-addict"}}
		req := httptest.NewRequest(http.MethodPost, "/api/tokens/users/auth", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		h.IssueTokens(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := bytes.NewBufferString(`{"username":"fry","password":"wrong-password"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/tokens/users/auth", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.IssueTokens(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail":"Incorrect username or password"}`, rec.Body.String())
	})

	t.Run("unconfirmed user", func(t *testing.T) {
		body := bytes.NewBufferString(`{"username":"amy","password":"spluh-spluh"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/tokens/users/auth", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.IssueTokens(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"detail":"User is not confirmed"}`, rec.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tokens/users/auth", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.IssueTokens(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestAuthHandlers_RefreshTokens(t *testing.T) {
	users := new(mockAuthenticator)
	users.On("UserExists", mock.Anything, int64(3)).Return(true, nil)
	users.On("UserExists", mock.Anything, int64(4)).Return(false, nil)

	h, jwtService := newTestHandlers(users, new(mockSessionStore))

	refresh := func(token string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(RefreshRequest{RefreshToken: token})
		req := httptest.NewRequest(http.MethodPost, "/api/tokens/users/refresh", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.RefreshTokens(rec, req)
		return rec
	}

	valid, err := jwtService.GenerateRefreshToken(3)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, refresh(valid).Code)

	access, err := jwtService.GenerateAccessToken(3)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, refresh(access).Code)

	deleted, err := jwtService.GenerateRefreshToken(4)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, refresh(deleted).Code)

	assert.Equal(t, http.StatusUnprocessableEntity, refresh("").Code)
}

func TestAuthHandlers_LoginLogout(t *testing.T) {
	users := new(mockAuthenticator)
	users.On("Authenticate", mock.Anything, "leela", "one-eyed-captain").
		Return(&domain.User{Base: domain.Base{ID: 8}, Name: "Turanga", Surname: "Leela", Username: "leela"}, nil)
	store := new(mockSessionStore)
	store.On("Create", mock.Anything, mock.AnythingOfType("*domain.AuthSession")).Return(nil)

	h, _ := newTestHandlers(users, store)

	body := bytes.NewBufferString(`{"username":"leela","password":"one-eyed-captain"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	key := cookies[0].Value

	store.On("Expire", mock.Anything, key).Return(nil)
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: key})
	rec = httptest.NewRecorder()

	h.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
	store.AssertExpectations(t)
}
