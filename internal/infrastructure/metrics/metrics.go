package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Certification metrics
	CertificationsIssued   prometheus.Counter
	CertificationsRejected *prometheus.CounterVec
	CertificationDuration  prometheus.Histogram
	CertifiedAmount        prometheus.Histogram

	// Ledger metrics
	LedgerBuilds        prometheus.Counter
	LedgerBuildDuration prometheus.Histogram
	LedgerWarnings      prometheus.Counter

	// Ingestion metrics
	RecordsIngested *prometheus.CounterVec
	RecordsSkipped  *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns    prometheus.Counter
	IntegrityDivergences  prometheus.Gauge
	ReconciliationErrors  prometheus.Counter

	// Administrative metrics
	ResetsPerformed prometheus.Counter
	BackupsCreated  prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries *prometheus.CounterVec
	DBErrors  *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		CertificationsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenderledger_certifications_issued_total",
			Help: "Total number of certificates issued",
		}),
		CertificationsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderledger_certifications_rejected_total",
				Help: "Total number of rejected certification attempts by reason",
			},
			[]string{"reason"},
		),
		CertificationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tenderledger_certification_duration_seconds",
			Help:    "Duration of certification transitions",
			Buckets: prometheus.DefBuckets,
		}),
		CertifiedAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tenderledger_certified_amount",
			Help:    "Certified order amounts",
			Buckets: []float64{10000, 100000, 1000000, 10000000, 100000000},
		}),

		LedgerBuilds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenderledger_ledger_builds_total",
			Help: "Total number of tender ledger builds",
		}),
		LedgerBuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tenderledger_ledger_build_duration_seconds",
			Help:    "Duration of ledger builds",
			Buckets: prometheus.DefBuckets,
		}),
		LedgerWarnings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenderledger_ledger_warnings_total",
			Help: "Total number of data warnings recorded during ledger builds",
		}),

		RecordsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderledger_records_ingested_total",
				Help: "Total number of ingested records by kind",
			},
			[]string{"kind"},
		),
		RecordsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderledger_records_skipped_total",
				Help: "Total number of skipped records by kind",
			},
			[]string{"kind"},
		),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenderledger_reconciliation_runs_total",
			Help: "Total number of reconciliation runs",
		}),
		IntegrityDivergences: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tenderledger_integrity_divergences",
			Help: "Divergences found by the last reconciliation run",
		}),
		ReconciliationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenderledger_reconciliation_errors_total",
			Help: "Total number of sources skipped during reconciliation",
		}),

		ResetsPerformed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenderledger_resets_performed_total",
			Help: "Total number of certification resets",
		}),
		BackupsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenderledger_backups_created_total",
			Help: "Total number of backup snapshots created",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tenderledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
