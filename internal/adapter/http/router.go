package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/caja/internal/adapter/http/handler"
	"github.com/iho/caja/internal/adapter/http/middleware"
	"github.com/iho/caja/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CalcHandler           *handler.CalcHandler
	CashHandler           *handler.CashHandler
	PurchaseHandler       *handler.PurchaseHandler
	LoanHandler           *handler.LoanHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	MetricsHandler        http.Handler
	HTTPMetrics           *middleware.HTTPMetrics
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	RateLimiter           *middleware.RateLimiter
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Stateless calculations
		r.Route("/calc", func(r chi.Router) {
			r.Post("/expected-balance", cfg.CalcHandler.ExpectedBalance)
			r.Post("/difference", cfg.CalcHandler.Difference)
			r.Post("/net-weight", cfg.CalcHandler.NetWeight)
			r.Post("/transaction-total", cfg.CalcHandler.TransactionTotal)
			r.Post("/loan-balance", cfg.CalcHandler.LoanBalance)
		})

		// Cash sessions
		r.Route("/cash-sessions", func(r chi.Router) {
			r.Post("/", cfg.CashHandler.Open)
			r.Get("/", cfg.CashHandler.List)
			r.Get("/report", cfg.ReconciliationHandler.Report)
			r.Get("/{id}", cfg.CashHandler.Get)
			r.Get("/{id}/summary", cfg.CashHandler.Summary)
			r.Post("/{id}/movements", cfg.CashHandler.RecordMovement)
			r.Get("/{id}/movements", cfg.CashHandler.ListMovements)
			r.Post("/{id}/close", cfg.CashHandler.Close)
			r.Get("/{id}/reconciliation", cfg.ReconciliationHandler.Session)
		})

		// Purchases
		r.Route("/purchases", func(r chi.Router) {
			r.Post("/quote", cfg.PurchaseHandler.Quote)
			r.Post("/", cfg.PurchaseHandler.Create)
			r.Get("/", cfg.PurchaseHandler.List)
			r.Get("/{id}", cfg.PurchaseHandler.Get)
		})

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Post("/{id}/movements", cfg.LoanHandler.RecordMovement)
			r.Get("/{id}/movements", cfg.LoanHandler.ListMovements)
		})
	})

	return r
}
