package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService_RoundTrip(t *testing.T) {
	s := NewPasswordServiceWithIterations(1000)

	for _, password := range []string{"password1", "Ünïcødé-pässwörd", strings.Repeat("x", 128)} {
		hash, err := s.HashPassword(password)
		require.NoError(t, err)

		assert.NoError(t, s.VerifyPassword(hash, password))
		assert.ErrorIs(t, s.VerifyPassword(hash, password+"!"), ErrInvalidPassword)
	}
}

func TestPasswordService_Format(t *testing.T) {
	s := NewPasswordServiceWithIterations(1000)

	hash, err := s.HashPassword("good news everyone")
	require.NoError(t, err)

	parts := strings.Split(hash, ".")
	require.Len(t, parts, 4)
	assert.Equal(t, PasswordAlgorithm, parts[0])
	assert.Equal(t, "1000", parts[1])

	other, err := s.HashPassword("good news everyone")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ between hashes")
}

func TestPasswordService_DefaultIterations(t *testing.T) {
	assert.Equal(t, 600_000, NewPasswordService().iterations)
}

func TestPasswordService_VerifyUsesStoredIterations(t *testing.T) {
	hash, err := NewPasswordServiceWithIterations(500).HashPassword("shut up and take my money")
	require.NoError(t, err)

	assert.NoError(t, NewPasswordServiceWithIterations(2000).VerifyPassword(hash, "shut up and take my money"))
}

func TestPasswordService_Malformed(t *testing.T) {
	s := NewPasswordServiceWithIterations(1000)

	for _, hash := range []string{
		"",
		"bcrypt.10.abc.def",
		"pbkdf2_sha256.notanumber.c2FsdA==.aGFzaA==",
		"pbkdf2_sha256.1000.!!!.aGFzaA==",
		"pbkdf2_sha256.1000.c2FsdA==",
	} {
		assert.ErrorIs(t, s.VerifyPassword(hash, "password"), ErrMalformedHash, hash)
	}
}

func TestPasswordService_Empty(t *testing.T) {
	_, err := NewPasswordServiceWithIterations(1000).HashPassword("")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestIsValidPassword(t *testing.T) {
	assert.Error(t, IsValidPassword("short"))
	assert.NoError(t, IsValidPassword("long enough"))
	assert.Error(t, IsValidPassword(strings.Repeat("a", 129)))
	assert.NoError(t, IsValidPassword(strings.Repeat("ж", 128)))
}

func TestPasswordService_RejectsLengthOutOfRange(t *testing.T) {
	s := NewPasswordServiceWithIterations(1000)

	for _, password := range []string{"short", strings.Repeat("a", 129)} {
		_, err := s.HashPassword(password)
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}
}
