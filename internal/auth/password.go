package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PasswordAlgorithm идентификатор алгоритма в закодированном хеше
	PasswordAlgorithm = "pbkdf2_sha256"
	// DefaultIterations стандартное число итераций PBKDF2
	DefaultIterations = 600_000

	saltSize = 16
	keySize  = 32

	minPasswordLength = 8
	maxPasswordLength = 128
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrMalformedHash   = errors.New("malformed password hash")
)

// PasswordService сервис для работы с паролями
type PasswordService struct {
	iterations int
}

// NewPasswordService создает новый сервис для работы с паролями
func NewPasswordService() *PasswordService {
	return &PasswordService{
		iterations: DefaultIterations,
	}
}

// NewPasswordServiceWithIterations создает новый сервис с заданным числом итераций
func NewPasswordServiceWithIterations(iterations int) *PasswordService {
	return &PasswordService{
		iterations: iterations,
	}
}

// HashPassword хеширует пароль в формате algorithm.iterations.salt.hash
func (s *PasswordService) HashPassword(password string) (string, error) {
	if err := IsValidPassword(password); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, s.iterations, keySize, sha256.New)

	return strings.Join([]string{
		PasswordAlgorithm,
		strconv.Itoa(s.iterations),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, "."), nil
}

// VerifyPassword проверяет соответствие пароля и хеша.
// Число итераций и соль берутся из хеша.
func (s *PasswordService) VerifyPassword(hashedPassword, password string) error {
	parts := strings.Split(hashedPassword, ".")
	if len(parts) != 4 || parts[0] != PasswordAlgorithm {
		return ErrMalformedHash
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return ErrMalformedHash
	}

	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return ErrMalformedHash
	}

	expected, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(expected) == 0 {
		return ErrMalformedHash
	}

	actual := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	if subtle.ConstantTimeCompare(actual, expected) != 1 {
		return ErrInvalidPassword
	}

	return nil
}

// IsValidPassword проверяет валидность пароля по базовым критериям
func IsValidPassword(password string) error {
	length := utf8.RuneCountInString(password)
	if length < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	if length > maxPasswordLength {
		return fmt.Errorf("password must be no more than %d characters long", maxPasswordLength)
	}

	return nil
}
