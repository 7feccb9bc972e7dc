package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reelmatch/reelmatch-server-go/internal/config"
	"github.com/reelmatch/reelmatch-server-go/internal/database"
	"github.com/reelmatch/reelmatch-server-go/internal/handler"
	"github.com/reelmatch/reelmatch-server-go/internal/jobs"
	"github.com/reelmatch/reelmatch-server-go/internal/metadata"
	"github.com/reelmatch/reelmatch-server-go/internal/middleware"
	"github.com/reelmatch/reelmatch-server-go/internal/redis"
	"github.com/reelmatch/reelmatch-server-go/internal/repository"
	"github.com/reelmatch/reelmatch-server-go/internal/scrape"
	"github.com/reelmatch/reelmatch-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	sessionRepo := repository.NewSessionRepository(db)
	participantRepo := repository.NewParticipantRepository(db.DB)
	swipeRepo := repository.NewSwipeRepository(db)
	savedMovieRepo := repository.NewSavedMovieRepository(db.DB)
	watchedMovieRepo := repository.NewWatchedMovieRepository(db.DB)

	catalog := metadata.NewClient(cfg, redisClient.Client)
	scrapeChain := scrape.NewChain(cfg.ScrapeTitleLimit)
	deckBuilder := service.NewDeckBuilder(catalog, scrapeChain, cfg.DiscoverPageLimit, cfg.EnrichBatchSize)

	sessionService := service.NewSessionService(
		sessionRepo, participantRepo, swipeRepo, savedMovieRepo, watchedMovieRepo,
		deckBuilder, cfg.RoomCodeLength, cfg.MaxDeckSize, config.PreMatchLimit,
	)
	libraryService := service.NewLibraryService(savedMovieRepo, watchedMovieRepo)

	rateLimitMiddleware := middleware.NewRedisRateLimitMiddleware(redisClient.Client, cfg.RateLimitPerMin)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	sessionHandler := handler.NewSessionHandler(sessionService)
	userHandler := handler.NewUserHandler(libraryService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimitMiddleware.Handler)
		r.Mount("/sessions", sessionHandler.Routes())
		r.Mount("/users", userHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(sessionRepo, cfg.LobbyTTL(), config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
