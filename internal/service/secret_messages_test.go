package service

import (
	"context"
	"testing"

	"futurama-api/pkg/secretbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSecretMessageService_ReadOnce(t *testing.T) {
	box, err := secretbox.New("test-secret")
	require.NoError(t, err)
	store := newMemorySecretStore()
	s := NewSecretMessageService(store, box, "https://futuramaapi.com", zap.NewNop())
	ctx := context.Background()

	created, err := s.Create(ctx, &SecretMessageCreateRequest{Text: "Leela likes Fry"})
	require.NoError(t, err)
	assert.Len(t, created.URL, secretURLLength)
	assert.Equal(t, "https://futuramaapi.com/api/crypto/secret_message/"+created.URL, created.AccessURL)

	stored := store.rows[created.URL]
	assert.NotContains(t, string(stored.Text), "Leela", "text must be encrypted at rest")

	first, err := s.Read(ctx, created.URL, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Leela likes Fry", first.Text)
	assert.Equal(t, int64(1), first.VisitCounter)

	second, err := s.Read(ctx, created.URL, "10.0.0.2")
	require.NoError(t, err)
	assert.NotEqual(t, first.Text, second.Text)
	assert.NotEmpty(t, second.Text)

	third, err := s.Read(ctx, created.URL, "10.0.0.3")
	require.NoError(t, err)
	assert.Equal(t, second.Text, third.Text)
	assert.Equal(t, int64(3), third.VisitCounter)

	assert.Equal(t, "10.0.0.1", *store.rows[created.URL].IPAddress)
}

func TestSecretMessageService_NotFound(t *testing.T) {
	box, err := secretbox.New("test-secret")
	require.NoError(t, err)
	s := NewSecretMessageService(newMemorySecretStore(), box, "", zap.NewNop())

	_, err = s.Read(context.Background(), "missing", "127.0.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSecretMessageService_Validation(t *testing.T) {
	box, err := secretbox.New("test-secret")
	require.NoError(t, err)
	s := NewSecretMessageService(newMemorySecretStore(), box, "", zap.NewNop())

	_, err = s.Create(context.Background(), &SecretMessageCreateRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFillerText(t *testing.T) {
	text := fillerText()
	assert.NotEmpty(t, text)
	assert.NotEqual(t, text, fillerText())
}
