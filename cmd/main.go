package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/ladder-stats/config"
	"github.com/Dosada05/ladder-stats/db"
	"github.com/Dosada05/ladder-stats/handlers"
	"github.com/Dosada05/ladder-stats/i18n"
	"github.com/Dosada05/ladder-stats/live"
	"github.com/Dosada05/ladder-stats/repositories"
	api "github.com/Dosada05/ladder-stats/routes"
	"github.com/Dosada05/ladder-stats/services"
	"github.com/Dosada05/ladder-stats/storage"
	"github.com/Dosada05/ladder-stats/telemetry"
	"github.com/go-chi/chi/v5"
)

// @title Ladder Stats API
// @version 1.0
// @description Read-only player statistics, rankings and karma of the wargame ladder.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("locale", cfg.Locale))

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OtelServiceName, cfg.OtelEndpoint)
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	// Подключение к базе данных
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	localizer, err := i18n.Load(cfg.Locale)
	if err != nil {
		logger.Error("failed to load locale", slog.String("locale", cfg.Locale), slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("locale catalog loaded", slog.String("locale", localizer.Locale()))

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	accountRepo := repositories.NewPostgresAccountRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	participationRepo := repositories.NewPostgresParticipationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	challengeRepo := repositories.NewPostgresChallengeRepository(dbConn)
	ratingRepo := repositories.NewPostgresRatingRepository(dbConn)
	postRepo := repositories.NewPostgresPostRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	decoder := services.NewOptionsDecoder(localizer, cfg.SpecialRulesCompetitionID)
	karmaService := services.NewKarmaService(ratingRepo, challengeRepo, accountRepo, logger)
	matchService := services.NewMatchService(matchRepo, challengeRepo, accountRepo, logger)
	challengeService := services.NewChallengeService(challengeRepo, competitionRepo, accountRepo, matchService, logger)
	standingsService := services.NewStandingsService(participationRepo, competitionRepo, karmaService, decoder, localizer)
	profileService := services.NewProfileService(services.ProfileServiceDeps{
		AccountRepo:       accountRepo,
		ParticipationRepo: participationRepo,
		PostRepo:          postRepo,
		Karma:             karmaService,
		Matches:           matchService,
		Challenges:        challengeService,
		Standings:         standingsService,
		Decoder:           decoder,
		Localizer:         localizer,
		RecentPostsLimit:  cfg.RecentPostsLimit,
		Logger:            logger,
	})

	cachedProfiles := services.NewCachedProfiles(profileService, cfg.CacheTTL)
	cachedStandings := services.NewCachedStandings(standingsService, cfg.CacheTTL)
	logger.Info("Services initialized", slog.Duration("cache_ttl", cfg.CacheTTL))

	// Публикация снимков таблиц в R2
	if cfg.SnapshotsEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}

		publisher := services.NewSnapshotPublisher(
			competitionRepo,
			standingsService,
			uploader,
			wsHub,
			cfg.MaxGlobalStatus,
			logger,
		)
		var afterRun []func()
		if c, ok := cachedStandings.(*services.CachedStandings); ok {
			afterRun = append(afterRun, c.Invalidate)
		}
		scheduler, err := services.StartSnapshotScheduler(publisher, cfg.SnapshotInterval, logger, afterRun...)
		if err != nil {
			logger.Error("failed to start snapshot scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				logger.Error("failed to stop snapshot scheduler", slog.Any("error", err))
			}
		}()
	} else {
		logger.Info("standings snapshots disabled")
	}

	// Инициализация обработчиков HTTP
	defaultMaxStatus := cfg.MaxGlobalStatus
	competitionHandler := handlers.NewCompetitionHandler(standingsService, cachedStandings, defaultMaxStatus)
	playerHandler := handlers.NewPlayerHandler(handlers.PlayerHandlerDeps{
		Profiles:         cachedProfiles,
		Posts:            profileService,
		Matches:          matchService,
		Challenges:       challengeService,
		Karma:            karmaService,
		DefaultMaxStatus: defaultMaxStatus,
	})
	obligationHandler := handlers.NewObligationHandler(karmaService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, standingsService, cfg.AllowedOrigins, logger)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{JWTSecret: cfg.JWTSecretKey, AllowedOrigins: cfg.AllowedOrigins, Logger: logger},
		competitionHandler,
		playerHandler,
		obligationHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
