package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenType назначение токена.
type TokenType string

const (
	TokenTypeAccess       TokenType = "access"
	TokenTypeRefresh      TokenType = "refresh"
	TokenTypeConfirmation TokenType = "confirmation"
)

// JWTConfig конфигурация JWT
type JWTConfig struct {
	SecretKey                 []byte
	AccessTokenDuration       time.Duration
	RefreshTokenDuration      time.Duration
	ConfirmationTokenDuration time.Duration
	Issuer                    string
}

// TokenUser пользователь внутри claims.
type TokenUser struct {
	ID int64 `json:"id"`
}

// Claims JWT claims структура
type Claims struct {
	Type  TokenType `json:"type"`
	User  TokenUser `json:"user"`
	Nonce string    `json:"nonce"`
	jwt.RegisteredClaims
}

// TokenPair пара access/refresh токенов
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// JWTService сервис для работы с JWT токенами
type JWTService struct {
	config *JWTConfig
	now    func() time.Time
}

// NewJWTService создает новый JWT сервис
func NewJWTService(config *JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

func (s *JWTService) ttl(tokenType TokenType) time.Duration {
	switch tokenType {
	case TokenTypeAccess:
		return s.config.AccessTokenDuration
	case TokenTypeRefresh:
		return s.config.RefreshTokenDuration
	default:
		return s.config.ConfirmationTokenDuration
	}
}

// GenerateToken подписывает токен заданного типа со свежим nonce.
func (s *JWTService) GenerateToken(userID int64, tokenType TokenType) (string, error) {
	now := s.now()
	claims := Claims{
		Type:  tokenType,
		User:  TokenUser{ID: userID},
		Nonce: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl(tokenType))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.SecretKey)
}

// GenerateAccessToken создает access токен
func (s *JWTService) GenerateAccessToken(userID int64) (string, error) {
	return s.GenerateToken(userID, TokenTypeAccess)
}

// GenerateRefreshToken создает refresh токен
func (s *JWTService) GenerateRefreshToken(userID int64) (string, error) {
	return s.GenerateToken(userID, TokenTypeRefresh)
}

// GenerateTokenPair создает пару access/refresh токенов
func (s *JWTService) GenerateTokenPair(userID int64) (*TokenPair, error) {
	access, err := s.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refresh, err := s.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateToken проверяет подпись, срок действия и тип токена
func (s *JWTService) ValidateToken(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.config.SecretKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// ExtractTokenFromBearer извлекает токен из Bearer заголовка
func ExtractTokenFromBearer(authHeader string) string {
	const bearerPrefix = "bearer "
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return ""
}
