package service

import (
	"context"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const topRoutes = 10

// SessionUser пользователь cookie-сессии на главной странице.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// RouteStat посещаемость маршрута.
type RouteStat struct {
	URL     string `json:"url"`
	Counter int64  `json:"counter"`
}

// SystemMessageResponse сообщение на главной.
type SystemMessageResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// LandingResponse данные главной страницы.
type LandingResponse struct {
	User           *SessionUser            `json:"user"`
	Characters     int64                   `json:"characters"`
	Episodes       int64                   `json:"episodes"`
	Seasons        int64                   `json:"seasons"`
	Users          int64                   `json:"users"`
	SystemMessages []SystemMessageResponse `json:"system_messages"`
	TopRoutes      []RouteStat             `json:"top_routes"`
}

// LandingService собирает данные для главной страницы.
type LandingService struct {
	characters repository.Store[domain.Character]
	episodes   repository.Store[domain.Episode]
	seasons    repository.Store[domain.Season]
	users      repository.Store[domain.User]
	messages   repository.Store[domain.SystemMessage]
	counters   repository.CounterStore
	log        *zap.Logger
}

// NewLandingService создает сервис главной страницы.
func NewLandingService(
	characters repository.Store[domain.Character],
	episodes repository.Store[domain.Episode],
	seasons repository.Store[domain.Season],
	users repository.Store[domain.User],
	messages repository.Store[domain.SystemMessage],
	counters repository.CounterStore,
	log *zap.Logger,
) *LandingService {
	return &LandingService{
		characters: characters,
		episodes:   episodes,
		seasons:    seasons,
		users:      users,
		messages:   messages,
		counters:   counters,
		log:        log,
	}
}

// Landing возвращает счетчики, системные сообщения и пользователя сессии.
func (s *LandingService) Landing(ctx context.Context, session *domain.AuthSession) (*LandingResponse, error) {
	resp := &LandingResponse{}
	if session.IsValid() && session.User != nil {
		resp.User = &SessionUser{ID: session.User.ID, Username: session.User.Username, Name: session.User.FullName()}
	}

	all := repository.ListParams{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { resp.Characters, err = s.characters.Count(gctx, all); return })
	g.Go(func() (err error) { resp.Episodes, err = s.episodes.Count(gctx, all); return })
	g.Go(func() (err error) { resp.Seasons, err = s.seasons.Count(gctx, all); return })
	g.Go(func() (err error) { resp.Users, err = s.users.Count(gctx, all); return })
	g.Go(func() error {
		messages, err := s.messages.Filter(gctx, repository.ListParams{Limit: 20})
		if err != nil {
			return err
		}
		resp.SystemMessages = make([]SystemMessageResponse, len(messages))
		for i, m := range messages {
			resp.SystemMessages[i] = SystemMessageResponse{Name: m.Name, Message: m.Message}
		}
		return nil
	})
	g.Go(func() error {
		top, err := s.counters.Top(gctx, topRoutes)
		if err != nil {
			return err
		}
		resp.TopRoutes = make([]RouteStat, len(top))
		for i, c := range top {
			resp.TopRoutes[i] = RouteStat{URL: c.URL, Counter: c.Counter}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("failed to build landing", zap.Error(err))
		return nil, translate(err, "Landing")
	}
	return resp, nil
}
