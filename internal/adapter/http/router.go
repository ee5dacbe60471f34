package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerbook/internal/adapter/http/handler"
	"github.com/iho/ledgerbook/internal/adapter/http/middleware"
	"github.com/iho/ledgerbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	RateHandler        *handler.RateHandler
	PeriodHandler      *handler.PeriodHandler
	ReportHandler      *handler.ReportHandler
	DimensionHandler   *handler.DimensionHandler
	AllocationHandler  *handler.AllocationHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	Logger             zerolog.Logger
	RateLimit          float64
	RateBurst          int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		r.Use(limiter.Limit)
	}

	// Health and metrics endpoints
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

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.Balance)
			r.Post("/{id}/deactivate", cfg.AccountHandler.Deactivate)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Post("/bulk-approve", cfg.TransactionHandler.BulkApprove)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}/entries", cfg.TransactionHandler.UpdateEntries)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
			r.Post("/{id}/submit", cfg.TransactionHandler.Submit)
			r.Post("/{id}/approve", cfg.TransactionHandler.Approve)
			r.Post("/{id}/reject", cfg.TransactionHandler.Reject)
			r.Post("/{id}/post", cfg.TransactionHandler.Post)
			r.Post("/{id}/void", cfg.TransactionHandler.Void)
			r.Get("/{id}/history", cfg.TransactionHandler.History)
		})

		// Exchange rates
		r.Route("/rates", func(r chi.Router) {
			r.Post("/", cfg.RateHandler.Create)
			r.Get("/convert", cfg.RateHandler.Convert)
		})

		// Fiscal periods
		r.Route("/periods", func(r chi.Router) {
			r.Post("/fiscal-year", cfg.PeriodHandler.CreateFiscalYear)
			r.Get("/", cfg.PeriodHandler.List)
			r.Put("/{id}/status", cfg.PeriodHandler.SetStatus)
		})

		// Dimensions and budgets
		r.Route("/dimensions", func(r chi.Router) {
			r.Post("/", cfg.DimensionHandler.Create)
			r.Post("/{id}/values", cfg.DimensionHandler.CreateValue)
			r.Get("/{id}/values", cfg.DimensionHandler.ListValues)
		})
		r.Post("/budgets", cfg.DimensionHandler.CreateBudgetLine)

		// Allocation helper
		r.Post("/allocations", cfg.AllocationHandler.Allocate)

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/type-totals", cfg.ReportHandler.TypeTotals)
			r.Get("/dimensions/{id}", cfg.ReportHandler.DimensionBreakdown)
			r.Get("/budget-variances", cfg.ReportHandler.BudgetVariances)
		})
	})

	return r
}
