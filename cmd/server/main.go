package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/mhidalgo/tenderledger/internal/adapter/http"
	"github.com/mhidalgo/tenderledger/internal/adapter/http/handler"
	"github.com/mhidalgo/tenderledger/internal/adapter/renderer"
	postgresRepo "github.com/mhidalgo/tenderledger/internal/adapter/repository/postgres"
	redisRepo "github.com/mhidalgo/tenderledger/internal/adapter/repository/redis"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/config"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/logger"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/metrics"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/postgres"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/redis"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	retrier := postgresRepo.NewRetrier(log)
	txManager := postgresRepo.NewTxManager(pool)
	tenderRepo := postgresRepo.NewTenderRepository(pool, retrier)
	orderRepo := postgresRepo.NewOrderRepository(pool, retrier)
	certRepo := postgresRepo.NewCertificateRepository(pool, retrier)
	backupRepo := postgresRepo.NewBackupRepository(pool, retrier)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases. Certification and admin share one lock arena
	// so a reset cannot interleave with an in-flight certification.
	locks := usecase.NewLockArena()
	docRenderer := renderer.NewJSONRenderer()

	ledgerUC := usecase.NewLedgerUseCase(tenderRepo, orderRepo, certRepo, cache, m)
	certUC := usecase.NewCertificationUseCase(tenderRepo, orderRepo, certRepo, docRenderer, idGen, cache, locks, m)
	ingestUC := usecase.NewIngestUseCase(tenderRepo, orderRepo, m)
	reconUC := usecase.NewReconciliationUseCase(orderRepo, certRepo, m)
	adminUC := usecase.NewAdminUseCase(txManager, tenderRepo, orderRepo, certRepo, backupRepo, idGen, cache, locks, m)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TenderHandler:        handler.NewTenderHandler(ledgerUC, certUC),
		CertificationHandler: handler.NewCertificationHandler(certUC),
		IngestHandler:        handler.NewIngestHandler(ingestUC, cfg.MaxIngestBodyBytes),
		StatsHandler:         handler.NewStatsHandler(ledgerUC, reconUC),
		AdminHandler:         handler.NewAdminHandler(adminUC),
		HealthHandler:        handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:     idempotencyStore,
		Metrics:              m,
		Logger:               log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
