package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/caja/internal/adapter/http"
	"github.com/iho/caja/internal/adapter/http/handler"
	"github.com/iho/caja/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/caja/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/caja/internal/adapter/repository/redis"
	"github.com/iho/caja/internal/infrastructure/config"
	"github.com/iho/caja/internal/infrastructure/logger"
	"github.com/iho/caja/internal/infrastructure/metrics"
	"github.com/iho/caja/internal/infrastructure/postgres"
	"github.com/iho/caja/internal/infrastructure/redis"
	"github.com/iho/caja/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterMaxIdle         = time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, redis.ClientConfig{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	reg := newRegistry()
	businessMetrics := metrics.New(reg)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	sessionRepo := postgresRepo.NewCashSessionRepository(pool)
	movementRepo := postgresRepo.NewCashMovementRepository(pool)
	purchaseRepo := postgresRepo.NewPurchaseRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	opts := []usecase.Option{
		usecase.WithMetrics(businessMetrics),
		usecase.WithRetrier(postgresRepo.NewRetrier(log.Logger)),
	}

	// Initialize use cases
	cashUC := usecase.NewCashUseCase(txManager, sessionRepo, movementRepo, idGen,
		append(opts, usecase.WithCache(cache, cfg.CacheTTL))...)
	purchaseUC := usecase.NewPurchaseUseCase(txManager, purchaseRepo, sessionRepo, movementRepo, idGen, opts...)
	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, idGen, opts...)
	reconciliationUC := usecase.NewReconciliationUseCase(sessionRepo, opts...)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnReject(businessMetrics.RateLimited)
	go rateLimiter.RunCleanup(ctx, limiterCleanupInterval, limiterMaxIdle)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CalcHandler:           handler.NewCalcHandler(),
		CashHandler:           handler.NewCashHandler(cashUC, cfg.Currency),
		PurchaseHandler:       handler.NewPurchaseHandler(purchaseUC),
		LoanHandler:           handler.NewLoanHandler(loanUC, cfg.Currency),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		MetricsHandler:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		HTTPMetrics:           middleware.NewHTTPMetrics(reg),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           rateLimiter,
		Logger:                log.Logger,
	})

	server := newServer(cfg, router)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
