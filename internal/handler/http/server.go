package http

import (
	"net/http"
	"time"

	"futurama-api/internal/auth"
	"futurama-api/internal/config"
	"futurama-api/internal/service"
	"futurama-api/internal/tracing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Services зависимости обработчиков.
type Services struct {
	Characters     Catalog[service.CharacterResponse]
	CharacterAdmin CharacterCreator
	Episodes       Catalog[service.EpisodeResponse]
	Seasons        Catalog[service.SeasonResponse]
	Users          UserService
	Links          LinkService
	SecretMessages SecretMessageService
	Favorites      FavoriteService
	Callbacks      CallbackScheduler
	Notifications  CharacterStreamer
	Landing        LandingService
	Counters       RouteCounter
	GraphQL        http.Handler
}

// Auth токены и cookie-сессии.
type Auth struct {
	Handlers   *auth.AuthHandlers
	Middleware *auth.Middleware
	Sessions   *auth.SessionManager
}

// Server HTTP сервер с обработчиками
type Server struct {
	cfg                  *config.Config
	characters           *CatalogHandler[service.CharacterResponse]
	episodes             *CatalogHandler[service.EpisodeResponse]
	seasons              *CatalogHandler[service.SeasonResponse]
	charactersHandler    *CharactersHandler
	usersHandler         *UsersHandler
	linksHandler         *LinksHandler
	secretsHandler       *SecretMessagesHandler
	favoritesHandler     *FavoritesHandler
	callbacksHandler     *CallbacksHandler
	notificationsHandler *NotificationsHandler
	pagesHandler         *PagesHandler
	healthHandler        *HealthHandler
	graphql              http.Handler
	counters             RouteCounter
	auth                 Auth
	log                  *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(cfg *config.Config, services Services, authn Auth, health *HealthHandler, log *zap.Logger) *Server {
	return &Server{
		cfg:                  cfg,
		characters:           NewCatalogHandler(services.Characters, log, "gender", "status", "species"),
		episodes:             NewCatalogHandler(services.Episodes, log),
		seasons:              NewCatalogHandler(services.Seasons, log),
		charactersHandler:    NewCharactersHandler(services.CharacterAdmin, log),
		usersHandler:         NewUsersHandler(services.Users, log),
		linksHandler:         NewLinksHandler(services.Links, log),
		secretsHandler:       NewSecretMessagesHandler(services.SecretMessages, log),
		favoritesHandler:     NewFavoritesHandler(services.Favorites, log),
		callbacksHandler:     NewCallbacksHandler(services.Callbacks, log),
		notificationsHandler: NewNotificationsHandler(services.Notifications, log),
		pagesHandler:         NewPagesHandler(services.Landing, log),
		healthHandler:        health,
		graphql:              services.GraphQL,
		counters:             services.Counters,
		auth:                 authn,
		log:                  log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(collectMetrics)
	if s.cfg.Tracing.Enabled {
		r.Use(tracing.Middleware)
	}
	r.Use(trustedHost(s.cfg.TrustedHost))
	if s.cfg.Features.EnableHTTPSRedirect {
		r.Use(httpsRedirect)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if s.cfg.HTTPServer.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.cfg.HTTPServer.RateLimit, time.Minute))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Not Found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	// Health checks и документация не попадают в счетчики маршрутов
	r.Get("/health", s.healthHandler.Health)
	r.Get("/ready", s.healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Group(func(r chi.Router) {
		r.Use(countRequests(s.counters, s.log))

		r.Route("/api", s.apiRoutes)
		r.Get("/s/{shortened}", s.linksHandler.Redirect)
		r.Handle("/graphql", s.graphql)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Sessions.Middleware)
			r.Get("/", s.pagesHandler.Root)
			r.Post("/auth/login", s.auth.Handlers.Login)
			r.Post("/auth/logout", s.auth.Handlers.Logout)
		})
	})

	return r
}

func (s *Server) apiRoutes(r chi.Router) {
	requireAuth := s.auth.Middleware.RequireAuth

	r.Route("/characters", func(r chi.Router) {
		r.Get("/", s.characters.List)
		r.Get("/{id}", s.characters.Get)
		r.With(requireAuth).Post("/", s.charactersHandler.Create)
	})
	r.Route("/episodes", func(r chi.Router) {
		r.Get("/", s.episodes.List)
		r.Get("/{id}", s.episodes.Get)
	})
	r.Route("/seasons", func(r chi.Router) {
		r.Get("/", s.seasons.List)
		r.Get("/{id}", s.seasons.Get)
	})
	r.Route("/random", func(r chi.Router) {
		r.Get("/character", s.characters.Random)
		r.Get("/episode", s.episodes.Random)
		r.Get("/season", s.seasons.Random)
	})

	r.Post("/callbacks/{entity}/{id}", s.callbacksHandler.Schedule)
	r.Get("/notifications/sse/characters/{id}", s.notificationsHandler.CharacterStream)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.usersHandler.Register)
		r.With(s.auth.Middleware.OptionalAuth).Get("/", s.usersHandler.Search)
		r.Get("/activate", s.usersHandler.Activate)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", s.usersHandler.Me)
			r.Patch("/me", s.usersHandler.Update)
			r.Delete("/me", s.usersHandler.Delete)
		})
	})

	r.Route("/tokens/users", func(r chi.Router) {
		r.Post("/auth", s.auth.Handlers.IssueTokens)
		r.Post("/refresh", s.auth.Handlers.RefreshTokens)
	})

	r.Route("/links", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", s.linksHandler.CreateLink)
		r.Get("/", s.linksHandler.ListLinks)
		r.Get("/{shortened}", s.linksHandler.GetLink)
	})

	r.Route("/favorites/characters", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", s.favoritesHandler.List)
		r.Post("/{id}", s.favoritesHandler.Add)
		r.Delete("/{id}", s.favoritesHandler.Remove)
	})

	r.Route("/crypto/secret_message", func(r chi.Router) {
		r.Post("/", s.secretsHandler.Create)
		r.Get("/{url}", s.secretsHandler.Read)
	})
}
