package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/dosewatch/dosewatch/internal/config"
	"github.com/dosewatch/dosewatch/internal/pending"
	"github.com/dosewatch/dosewatch/internal/repository/postgres"
	"github.com/dosewatch/dosewatch/internal/repository/redisblob"
	medicationService "github.com/dosewatch/dosewatch/internal/service/medication"
	reminderService "github.com/dosewatch/dosewatch/internal/service/reminder"
	"github.com/dosewatch/dosewatch/pkg/logger"
	"github.com/dosewatch/dosewatch/pkg/messaging/redis"
	"github.com/dosewatch/dosewatch/pkg/metrics"
	"github.com/dosewatch/dosewatch/pkg/worker"
)

// WorkerEnv carries deployment overrides that arrive through the environment
// rather than the config file (container orchestrators set these directly).
type WorkerEnv struct {
	PollInterval time.Duration `envconfig:"POLL_INTERVAL"`
	MetricsAddr  string        `envconfig:"METRICS_ADDR" default:":8081"`
}

func setupMetricsServer(addr string, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			appLogger.Error(err, "metrics server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var env WorkerEnv
	if err := envconfig.Process("dosewatch_worker", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to parse worker environment")
	}

	pollInterval := cfg.Reminder.ReconcileInterval
	if env.PollInterval > 0 {
		pollInterval = env.PollInterval
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

	appMetrics := metrics.NewMetrics("dosewatch", "worker")

	medicationRepo := postgres.NewMedicationRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)
	checkpointRepo := postgres.NewCheckpointRepository(db)

	tracker := pending.NewTracker(blob, appLogger, pending.WithMetrics(appMetrics))
	medicationSvc := medicationService.NewService(medicationRepo, tracker, appLogger)
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

	processor := worker.NewReconcileProcessor(
		reminderSvc,
		worker.ReconcileProcessorConfig{PollInterval: pollInterval},
		appLogger,
		appMetrics,
	)

	setupMetricsServer(env.MetricsAddr, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down worker...")
		cancel()
	}()

	processor.Start(ctx)
}
