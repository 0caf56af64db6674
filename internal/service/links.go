package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"
	"futurama-api/pkg/random"

	"go.uber.org/zap"
)

const maxRetries = 5

// reservedCodes совпадают с путями верхнего уровня и не выдаются как короткие коды.
var reservedCodes = map[string]struct{}{
	"api": {}, "auth": {}, "docs": {}, "graphql": {}, "health": {},
	"metrics": {}, "ready": {}, "s": {}, "static": {},
}

// ErrNoFreeCode все попытки сгенерировать код заняты.
var ErrNoFreeCode = errors.New("failed to generate unique short code")

// LinkService сокращение ссылок и переходы по ним.
type LinkService struct {
	links      repository.LinkStore
	codeLength int
	baseURL    string
	log        *zap.Logger
}

// NewLinkService создает сервис ссылок.
func NewLinkService(links repository.LinkStore, codeLength int, baseURL string, log *zap.Logger) *LinkService {
	return &LinkService{
		links:      links,
		codeLength: codeLength,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// Create сокращает ссылку для пользователя.
func (s *LinkService) Create(ctx context.Context, userID int64, req *LinkCreateRequest) (*LinkResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	code, err := s.freeCode(ctx)
	if err != nil {
		return nil, err
	}

	link := &domain.Link{URL: req.URL, Shortened: code, UserID: userID}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, translate(err, "Link")
	}

	s.log.Info("link created", zap.Int64("user_id", userID), zap.String("shortened", code))
	resp := s.toResponse(link)
	return &resp, nil
}

func (s *LinkService) freeCode(ctx context.Context) (string, error) {
	for i := 0; i < maxRetries; i++ {
		code, err := random.NewRandomString(s.codeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		if _, reserved := reservedCodes[strings.ToLower(code)]; reserved {
			continue
		}

		exists, err := s.links.ShortenedExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code existence: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrNoFreeCode
}

// List возвращает ссылки пользователя.
func (s *LinkService) List(ctx context.Context, userID int64, q ListQuery) (*repository.Page[LinkResponse], error) {
	params, err := buildListParams(q, []string{"id", "created_at", "counter"}, nil, "url")
	if err != nil {
		return nil, err
	}
	params.Filters = append(params.Filters, repository.Filter{Column: "user_id", Value: userID})

	page, err := s.links.Page(ctx, params)
	if err != nil {
		return nil, translate(err, "Link")
	}
	return repository.MapPage(page, s.toResponse), nil
}

// Get возвращает ссылку пользователя по коду; чужие ссылки не видны.
func (s *LinkService) Get(ctx context.Context, userID int64, shortened string) (*LinkResponse, error) {
	link, err := s.links.GetBy(ctx, "shortened", shortened)
	if err != nil {
		return nil, translate(err, "Link")
	}
	if link.UserID != userID {
		return nil, newError(ErrNotFound, "Link not found")
	}
	resp := s.toResponse(link)
	return &resp, nil
}

// Visit отмечает переход и возвращает исходный URL.
func (s *LinkService) Visit(ctx context.Context, shortened string) (string, error) {
	link, err := s.links.Visit(ctx, shortened)
	if err != nil {
		return "", translate(err, "Link")
	}
	s.log.Debug("link visited", zap.String("shortened", shortened), zap.Int64("counter", link.Counter))
	return link.URL, nil
}

func (s *LinkService) toResponse(l *domain.Link) LinkResponse {
	return LinkResponse{
		ID:        l.ID,
		UUID:      l.UUID,
		CreatedAt: l.CreatedAt,
		URL:       l.URL,
		Shortened: l.Shortened,
		ShortURL:  s.baseURL + "/s/" + l.Shortened,
		Counter:   l.Counter,
	}
}
