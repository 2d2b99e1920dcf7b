package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mhidalgo/tenderledger/internal/adapter/http/handler"
	"github.com/mhidalgo/tenderledger/internal/adapter/http/middleware"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/metrics"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TenderHandler        *handler.TenderHandler
	CertificationHandler *handler.CertificationHandler
	IngestHandler        *handler.IngestHandler
	StatsHandler         *handler.StatsHandler
	AdminHandler         *handler.AdminHandler
	HealthHandler        *handler.HealthHandler
	IdempotencyStore     usecase.IdempotencyStore
	Metrics              *metrics.Metrics
	Logger               zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Ingestion
		r.Route("/ingest", func(r chi.Router) {
			r.Post("/tenders", cfg.IngestHandler.Tenders)
			r.Post("/orders", cfg.IngestHandler.Orders)
		})

		// Tenders
		r.Route("/tenders", func(r chi.Router) {
			r.Get("/", cfg.TenderHandler.List)
			r.Get("/{id}", cfg.TenderHandler.Get)
			r.Get("/{id}/ledger", cfg.TenderHandler.Ledger)
			r.Get("/{id}/certificates", cfg.TenderHandler.Certificates)
		})

		// Certifications
		r.Route("/certifications", func(r chi.Router) {
			r.Post("/", cfg.CertificationHandler.Certify)
			r.Get("/", cfg.CertificationHandler.List)
		})

		// Reporting
		r.Get("/stats", cfg.StatsHandler.Stats)
		r.Get("/integrity", cfg.StatsHandler.Integrity)

		// Administration
		r.Route("/admin", func(r chi.Router) {
			r.Post("/reset", cfg.AdminHandler.Reset)
			r.Get("/backups", cfg.AdminHandler.Backups)
		})
	})

	return r
}
