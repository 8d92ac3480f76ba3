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

	"github.com/Dosada05/cricket-scorer/brackets"
	"github.com/Dosada05/cricket-scorer/config"
	"github.com/Dosada05/cricket-scorer/db"
	"github.com/Dosada05/cricket-scorer/handlers"
	"github.com/Dosada05/cricket-scorer/publisher"
	"github.com/Dosada05/cricket-scorer/repositories"
	api "github.com/Dosada05/cricket-scorer/routes"
	"github.com/Dosada05/cricket-scorer/services"
	"github.com/Dosada05/cricket-scorer/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx := context.Background()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
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

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, dbConn); err != nil {
			logger.Error("failed to apply schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database schema applied")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()
	logger.Info("WebSocket Hub started")

	// Поток событий в Redis (опционально)
	var eventPublishers []services.EventPublisher
	if cfg.RedisURL != "" {
		redisClient, err := publisher.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()
		eventPublishers = append(eventPublishers, publisher.NewStreamPublisher(redisClient, cfg.EventStream))
		logger.Info("redis event stream enabled", slog.String("stream", cfg.EventStream))
	}

	// Архив карточек в Cloudflare R2 (опционально)
	var archive services.ScorecardArchiver
	r2cfg := storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2cfg.Enabled() {
		uploader, err := storage.NewR2Uploader(ctx, r2cfg)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archive = storage.NewScorecardArchive(uploader)
		logger.Info("Cloudflare R2 scorecard archive enabled")
	}

	// Инициализация репозиториев
	tx := repositories.NewPostgresTransactor(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	inningsRepo := repositories.NewPostgresInningsRepository(dbConn)
	ledgerRepo := repositories.NewPostgresLedgerRepository(dbConn)
	ballRepo := repositories.NewPostgresBallEventRepository(dbConn)
	performanceRepo := repositories.NewPostgresPerformanceRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	notifier := services.NewLiveNotifier(wsHub, logger, eventPublishers...)
	authService := services.NewAuthService(userRepo)
	statSync := services.NewStatSyncService(inningsRepo, ledgerRepo, performanceRepo, logger)
	scorecardService := services.NewScorecardService(matchRepo, inningsRepo, ledgerRepo, ballRepo)
	bracketService := services.NewBracketService(tx, tournamentRepo, matchRepo, userRepo, notifier, logger)
	scoringService := services.NewScoringService(
		tx,
		matchRepo,
		tournamentRepo,
		inningsRepo,
		ledgerRepo,
		ballRepo,
		statSync,
		scorecardService,
		archive,
		notifier,
		logger,
	)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(bracketService)
	matchHandler := handlers.NewMatchHandler(scoringService, bracketService, scorecardService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authHandler,
		tournamentHandler,
		matchHandler,
		webSocketHandler,
		cfg.JWTSecretKey,
		cfg.CORSAllowedOrigins,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
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
