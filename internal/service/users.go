package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"futurama-api/internal/auth"
	"futurama-api/internal/config"
	"futurama-api/internal/domain"
	"futurama-api/internal/email"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
)

// UserService регистрация, профиль и проверка учетных данных.
type UserService struct {
	users     repository.UserStore
	passwords *auth.PasswordService
	tokens    *auth.JWTService
	mailer    email.Sender
	features  config.Features
	baseURL   string
	log       *zap.Logger
}

// NewUserService создает сервис пользователей.
func NewUserService(
	users repository.UserStore,
	passwords *auth.PasswordService,
	tokens *auth.JWTService,
	mailer email.Sender,
	features config.Features,
	baseURL string,
	log *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		mailer:    mailer,
		features:  features,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
	}
}

// Register создает пользователя. При включенной активации пользователь
// остается неподтвержденным до перехода по ссылке из письма.
func (s *UserService) Register(ctx context.Context, req *UserCreateRequest) (*UserResponse, error) {
	if !s.features.AllowRegistration {
		return nil, newError(ErrForbidden, "Registration is disabled")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		MiddleName:   req.MiddleName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		IsConfirmed:  !s.features.ActivateUsers,
		IsSubscribed: true,
	}
	if req.IsSubscribed != nil {
		user.IsSubscribed = *req.IsSubscribed
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, newError(ErrAlreadyExists, "User with this username or email already exists")
		}
		return nil, translate(err, "User")
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	if !user.IsConfirmed {
		// письмо не критично для регистрации
		if err := s.sendConfirmation(ctx, user); err != nil {
			s.log.Error("failed to send confirmation email", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *UserService) sendConfirmation(ctx context.Context, user *domain.User) error {
	token, err := s.tokens.GenerateToken(user.ID, auth.TokenTypeConfirmation)
	if err != nil {
		return err
	}

	link := s.baseURL + "/api/users/activate?sig=" + url.QueryEscape(token)
	return s.mailer.Send(ctx, email.Message{
		To:      user.Email,
		Subject: "Futurama API: confirm your email",
		Body: fmt.Sprintf("Hi %s,\r\n\r\nGood news, everyone! Confirm your account by following the link:\r\n%s\r\n",
			user.FullName(), link),
	})
}

// Activate подтверждает email по подписи из письма.
func (s *UserService) Activate(ctx context.Context, sig string) (*UserResponse, error) {
	claims, err := s.tokens.ValidateToken(sig, auth.TokenTypeConfirmation)
	if err != nil {
		return nil, newError(ErrUnauthorized, "Invalid or expired signature")
	}

	user, err := s.users.Update(ctx, claims.User.ID, repository.Changes{"is_confirmed": true})
	if err != nil {
		return nil, translate(err, "User")
	}

	s.log.Info("user activated", zap.Int64("user_id", user.ID))
	resp := toUserResponse(user)
	return &resp, nil
}

// Me возвращает профиль текущего пользователя.
func (s *UserService) Me(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, translate(err, "User")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// Update частично обновляет профиль.
func (s *UserService) Update(ctx context.Context, userID int64, req *UserUpdateRequest) (*UserResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	changes := repository.Changes{}
	repository.SetIfPresent(changes, "name", req.Name)
	repository.SetIfPresent(changes, "surname", req.Surname)
	repository.SetIfPresent(changes, "middle_name", req.MiddleName)
	repository.SetIfPresent(changes, "is_subscribed", req.IsSubscribed)
	if req.Password != nil {
		hash, err := s.passwords.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		changes["password"] = hash
	}

	user, err := s.users.Update(ctx, userID, changes)
	if err != nil {
		return nil, translate(err, "User")
	}

	s.log.Info("user updated", zap.Int64("user_id", userID), zap.Int("fields", len(changes)))
	resp := toUserResponse(user)
	return &resp, nil
}

// Delete удаляет текущего пользователя, если это разрешено.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if !s.features.AllowUserDeletion {
		return newError(ErrForbidden, "User deletion is disabled")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return translate(err, "User")
	}
	s.log.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}

// Search ищет пользователей по username.
func (s *UserService) Search(ctx context.Context, q ListQuery) (*repository.Page[UserSearchResult], error) {
	params, err := buildListParams(q, []string{"id", "username", "created_at"}, nil, "username")
	if err != nil {
		return nil, err
	}

	page, err := s.users.Page(ctx, params)
	if err != nil {
		return nil, translate(err, "User")
	}
	return repository.MapPage(page, toUserSearchResult), nil
}

// Authenticate проверяет пару username/password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetBy(ctx, "username", username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.passwords.VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			return nil, auth.ErrInvalidCredentials
		}
		s.log.Error("stored password hash is unreadable", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, auth.ErrInvalidCredentials
	}

	// при включенной активации неподтвержденный пользователь не входит
	if s.features.ActivateUsers && !user.IsConfirmed {
		return nil, auth.ErrUserNotConfirmed
	}

	return user, nil
}

// UserExists нужен обновлению токенов: удаленный пользователь не получает новую пару.
func (s *UserService) UserExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.users.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

var _ auth.UserAuthenticator = (*UserService)(nil)
