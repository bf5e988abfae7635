package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Reconciler metrics
	DosesReconciled       prometheus.Counter
	DosesMissed           prometheus.Counter
	ReconcilePassFailed   prometheus.Counter
	ReconcileLatency      prometheus.Histogram
	ReconcileGapSeconds   prometheus.Histogram
	PendingEntries        prometheus.Gauge
	PendingExpired        prometheus.Counter
	PendingDanglingPruned prometheus.Counter

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	// Blob store metrics
	BlobOperations *prometheus.CounterVec
	BlobLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		DosesReconciled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "doses_reconciled_total",
			Help:      "Total number of dose instants examined by reconcile passes",
		}),
		DosesMissed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "doses_missed_total",
			Help:      "Total number of dose instants classified as missed",
		}),
		ReconcilePassFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_passes_failed_total",
			Help:      "Total number of reconcile passes that returned an error",
		}),
		ReconcileLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_duration_seconds",
			Help:      "Time spent running a reconcile pass",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		ReconcileGapSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_gap_seconds",
			Help:      "Length of the liveness gap covered by each reconcile pass",
			Buckets:   prometheus.ExponentialBuckets(60, 4, 10),
		}),
		PendingEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pending_entries",
			Help:      "Current number of armed pending-dose entries",
		}),
		PendingExpired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pending_entries_expired_total",
			Help:      "Total number of pending entries pruned by the age limit",
		}),
		PendingDanglingPruned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pending_entries_dangling_total",
			Help:      "Total number of pending entries removed because their medication was deleted",
		}),

		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		BlobOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "blob_operations_total",
			Help:      "Total number of pending-blob reads and writes",
		}, []string{"operation", "status"}),
		BlobLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "blob_operation_duration_seconds",
			Help:      "Duration of pending-blob operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		}, []string{"operation"}),
	}
}
