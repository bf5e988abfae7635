package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dosewatch/dosewatch/pkg/logger"
	"github.com/dosewatch/dosewatch/pkg/metrics"
)

// Reconciler is anything that can run one gap-reconciliation pass. Satisfied
// by the reminder service.
type Reconciler interface {
	ReconcileAll(ctx context.Context) error
}

type ReconcileProcessorConfig struct {
	PollInterval time.Duration
}

// ReconcileProcessor periodically backfills missed doses so a long-running
// deployment does not depend on app-start hooks to stay current.
type ReconcileProcessor struct {
	reconciler Reconciler
	config     ReconcileProcessorConfig
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

func NewReconcileProcessor(
	reconciler Reconciler,
	config ReconcileProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ReconcileProcessor {
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}

	return &ReconcileProcessor{
		reconciler: reconciler,
		config:     config,
		logger:     logger,
		metrics:    metrics,
	}
}

func (p *ReconcileProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting reconcile processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down reconcile processor")
			return
		case <-ticker.C:
			if err := p.runPass(ctx); err != nil {
				p.logger.Error(err, "Reconcile pass failed")
			}
		}
	}
}

func (p *ReconcileProcessor) runPass(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.ReconcileLatency)
	defer timer.ObserveDuration()

	return p.reconciler.ReconcileAll(ctx)
}
