package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dosewatch/dosewatch/internal/config"
	"github.com/dosewatch/dosewatch/internal/handler"
	authHandler "github.com/dosewatch/dosewatch/internal/handler/auth"
	historyHandler "github.com/dosewatch/dosewatch/internal/handler/history"
	medicationHandler "github.com/dosewatch/dosewatch/internal/handler/medication"
	reminderHandler "github.com/dosewatch/dosewatch/internal/handler/reminder"
	reportHandler "github.com/dosewatch/dosewatch/internal/handler/report"
	"github.com/dosewatch/dosewatch/internal/middleware"
	"github.com/dosewatch/dosewatch/internal/pending"
	"github.com/dosewatch/dosewatch/internal/repository/postgres"
	"github.com/dosewatch/dosewatch/internal/repository/redisblob"
	"github.com/dosewatch/dosewatch/internal/router"
	authService "github.com/dosewatch/dosewatch/internal/service/auth"
	historyService "github.com/dosewatch/dosewatch/internal/service/history"
	medicationService "github.com/dosewatch/dosewatch/internal/service/medication"
	reminderService "github.com/dosewatch/dosewatch/internal/service/reminder"
	reportService "github.com/dosewatch/dosewatch/internal/service/report"
	"github.com/dosewatch/dosewatch/pkg/logger"
	"github.com/dosewatch/dosewatch/pkg/messaging/redis"
	"github.com/dosewatch/dosewatch/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	blob, err := redisblob.New(redisblob.Config{
		URL: cfg.Redis.URL,
		Key: cfg.Redis.PendingKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer blob.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis broker")
	}
	defer broker.Close()

	appMetrics := metrics.NewMetrics("dosewatch", "api")

	// Repositories
	medicationRepo := postgres.NewMedicationRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	checkpointRepo := postgres.NewCheckpointRepository(db)

	// Pending tracker owns the one shared mutable resource
	tracker := pending.NewTracker(blob, appLogger, pending.WithMetrics(appMetrics))

	// Services
	medicationSvc := medicationService.NewService(medicationRepo, tracker, appLogger)
	historySvc := historyService.NewService(historyRepo)
	authSvc := authService.NewService(profileRepo, cfg.JWT)
	reminderSvc := reminderService.NewService(
		medicationSvc,
		historyRepo,
		checkpointRepo,
		tracker,
		reminderService.Config{
			OnTimeGrace:     cfg.Reminder.OnTimeGrace,
			DefaultLookback: cfg.Reminder.DefaultLookback,
		},
		appLogger,
		reminderService.WithBroker(broker),
		reminderService.WithMetrics(appMetrics),
	)
	reportSvc := reportService.NewService(medicationSvc, historyRepo)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Handlers
	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc)
	medicationH := medicationHandler.NewHandler(medicationSvc)
	historyH := historyHandler.NewHandler(historySvc)
	reminderH := reminderHandler.NewHandler(reminderSvc)
	reportH := reportHandler.NewHandler(reportSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		medicationH,
		historyH,
		reminderH,
		reportH,
		h,
		router.Config{
			RateLimit:  rate.Limit(100),
			RateBurst:  200,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	// Repair pending state and backfill before serving traffic.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := reminderSvc.OnAppStart(startupCtx); err != nil {
		log.Error().Err(err).Msg("startup reconcile failed, continuing")
	}
	cancelStartup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
