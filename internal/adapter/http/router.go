package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/backoffice/treasury/internal/adapter/http/handler"
	"github.com/backoffice/treasury/internal/adapter/http/middleware"
	"github.com/backoffice/treasury/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	EntryHandler          *handler.EntryHandler
	TransferHandler       *handler.TransferHandler
	ExpenseHandler        *handler.ExpenseHandler
	ScheduleHandler       *handler.ScheduleHandler
	PayrollHandler        *handler.PayrollHandler
	CategoryHandler       *handler.CategoryHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Patch("/{id}", cfg.AccountHandler.Update)
			r.Get("/{id}/balance", cfg.AccountHandler.Balance)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
			r.Post("/{id}/reconcile", cfg.ReconciliationHandler.Reconcile)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Post)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Get("/reference/{referenceID}", cfg.EntryHandler.ListByReference)
		})

		r.Post("/transfers", cfg.TransferHandler.Create)

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.ExpenseHandler.Create)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.Post("/{id}/pay", cfg.ExpenseHandler.Pay)
		})

		r.Route("/fixed-expenses", func(r chi.Router) {
			r.Post("/", cfg.ScheduleHandler.Create)
			r.Get("/", cfg.ScheduleHandler.List)
			r.Get("/{id}/periods", cfg.ScheduleHandler.Periods)
		})

		r.Route("/periods", func(r chi.Router) {
			r.Post("/{id}/pay", cfg.ScheduleHandler.PayPeriod)
			r.Post("/{id}/skip", cfg.ScheduleHandler.SkipPeriod)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", cfg.PayrollHandler.CreateEmployee)
			r.Get("/", cfg.PayrollHandler.ListEmployees)
		})

		r.Route("/payroll-payments", func(r chi.Router) {
			r.Post("/", cfg.PayrollHandler.RecordPayment)
			r.Get("/", cfg.PayrollHandler.ListPayments)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", cfg.CategoryHandler.Create)
			r.Get("/", cfg.CategoryHandler.List)
		})

		r.Get("/ledger/consistency", cfg.EntryHandler.Consistency)
	})

	return r
}
