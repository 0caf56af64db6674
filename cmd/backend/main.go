// Package main provides the entry point for the Futurama API service.
//
//	@title			Futurama API
//	@version		1.0.0
//	@description	Futurama characters, episodes and seasons over REST and GraphQL, plus accounts, short links, secret messages, callbacks and SSE.
//
//	@contact.name	Futurama API
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
package main

import (
	"context"
	"errors"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"futurama-api/internal/auth"
	"futurama-api/internal/callback"
	"futurama-api/internal/config"
	"futurama-api/internal/database"
	"futurama-api/internal/email"
	"futurama-api/internal/graphql"
	httpHandler "futurama-api/internal/handler/http"
	"futurama-api/internal/repository/postgres"
	"futurama-api/internal/service"
	"futurama-api/internal/tracing"
	"futurama-api/pkg/logger"
	"futurama-api/pkg/secretbox"
	"futurama-api/pkg/useragent"

	"go.uber.org/zap"

	_ "futurama-api/docs" // Import swagger docs
)

const version = "1.0.0"

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting futurama api", zap.String("env", cfg.Env), zap.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, version, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Run database migrations if enabled
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations (auto_migrate: true)")
		if err := database.Migrate(cfg.Database.URL, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// Seed initial data if enabled
	if cfg.Database.SeedData {
		log.Info("seeding database with initial data (seed_data: true)")
		if err := database.SeedData(db, log); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	storage := postgres.New(db, log)

	// Auth
	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:                 []byte(cfg.Auth.SecretKey),
		AccessTokenDuration:       cfg.Auth.AccessTokenTTL,
		RefreshTokenDuration:      cfg.Auth.RefreshTokenTTL,
		ConfirmationTokenDuration: cfg.Auth.ConfirmationTTL,
		Issuer:                    cfg.Auth.Issuer,
	})
	passwordService := auth.NewPasswordService()

	uaParser, err := useragent.NewParser(os.Getenv("UA_REGEXES_PATH"), log)
	if err != nil {
		log.Fatal("failed to initialize User-Agent parser", zap.Error(err))
	}
	sessions := auth.NewSessionManager(storage.Sessions, uaParser, cfg.Auth.SessionCacheTTL, cfg.Features.EnableHTTPSRedirect, log)

	box, err := secretbox.New(cfg.Auth.SecretKey)
	if err != nil {
		log.Fatal("failed to initialize secret message encryption", zap.Error(err))
	}

	// Catalogs
	characters := service.NewCharacterCatalog(storage.Characters, log)
	episodes := service.NewEpisodeCatalog(storage.Episodes, log)
	seasons := service.NewSeasonCatalog(storage.Seasons, log)

	// Callback delivery: Redis list when configured, in-process channel otherwise
	var (
		queue     callback.Queue
		queuePing httpHandler.Pinger
	)
	if cfg.Redis.URL != "" {
		redisQueue, err := callback.NewRedisQueue(ctx, cfg.Redis.URL, cfg.Redis.QueueKey)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		queue, queuePing = redisQueue, redisQueue
		log.Info("callback queue: redis", zap.String("key", cfg.Redis.QueueKey))
	} else {
		queue = callback.NewMemoryQueue(cfg.Callbacks.BufferSize)
		log.Info("callback queue: memory", zap.Int("buffer_size", cfg.Callbacks.BufferSize))
	}

	dispatcherConfig := callback.DefaultConfig()
	dispatcherConfig.Workers = cfg.Callbacks.Workers
	dispatcherConfig.MaxPending = cfg.Callbacks.BufferSize
	dispatcherConfig.SendTimeout = cfg.Callbacks.SendTimeout

	registry := service.NewItemRegistry(characters, episodes, seasons)
	dispatcher := callback.NewDispatcher(
		dispatcherConfig,
		queue,
		registry,
		callback.NewHTTPSender(cfg.Callbacks.SendTimeout, log),
		log,
	)
	if err := dispatcher.Start(); err != nil {
		log.Fatal("failed to start callback dispatcher", zap.Error(err))
	}

	// Services
	users := service.NewUserService(storage.Users, passwordService, jwtService, email.New(cfg, log), cfg.Features, cfg.BaseURL, log)
	services := httpHandler.Services{
		Characters:     characters,
		CharacterAdmin: characters,
		Episodes:       episodes,
		Seasons:        seasons,
		Users:          users,
		Links:          service.NewLinkService(storage.Links, cfg.Links.CodeLength, cfg.BaseURL, log),
		SecretMessages: service.NewSecretMessageService(storage.SecretMessages, box, cfg.BaseURL, log),
		Favorites:      service.NewFavoriteService(storage.Favorites, storage.Characters, log),
		Callbacks:      service.NewCallbackService(registry, dispatcher, cfg.Callbacks.MinDelay, cfg.Callbacks.MaxDelay, log),
		Notifications:  service.NewNotificationService(characters),
		Landing: service.NewLandingService(
			storage.Characters, storage.Episodes, storage.Seasons, storage.Users,
			storage.SystemMessages, storage.Counters, log),
		Counters: storage.Counters,
	}

	gql, err := graphql.NewHandler(graphql.Catalogs{Characters: characters, Episodes: episodes, Seasons: seasons}, log)
	if err != nil {
		log.Fatal("failed to build graphql schema", zap.Error(err))
	}
	services.GraphQL = gql

	authn := httpHandler.Auth{
		Handlers:   auth.NewAuthHandlers(users, jwtService, sessions, log),
		Middleware: auth.NewMiddleware(jwtService, log),
		Sessions:   sessions,
	}
	health := httpHandler.NewHealthHandler(
		httpHandler.PingFunc(func(ctx context.Context) error { return database.HealthCheck(ctx, db) }),
		queuePing,
		dispatcher,
		version,
		log,
	)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      httpHandler.NewServer(cfg, services, authn, health, log).SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout, // 0: SSE streams stay open
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down futurama api...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if err := dispatcher.Stop(); err != nil {
		log.Error("failed to stop callback dispatcher", zap.Error(err))
	}
	if err := queue.Close(); err != nil {
		log.Error("failed to close callback queue", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("failed to flush traces", zap.Error(err))
	}
}
