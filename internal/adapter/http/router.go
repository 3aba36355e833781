package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/adapter/http/handler"
	"github.com/divvyup/divvy/internal/adapter/http/middleware"
	"github.com/divvyup/divvy/internal/infrastructure/metrics"
)

// RouterConfig carries the handlers and cross-cutting dependencies the
// router wires together.
type RouterConfig struct {
	GroupHandler      *handler.GroupHandler
	ExpenseHandler    *handler.ExpenseHandler
	BalanceHandler    *handler.BalanceHandler
	SettlementHandler *handler.SettlementHandler
	HealthHandler     *handler.HealthHandler
	Logger            zerolog.Logger
	Metrics           *metrics.Metrics
	RequestTimeout    time.Duration
}

// NewRouter assembles the HTTP routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", cfg.GroupHandler.Create)
			r.Get("/", cfg.GroupHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.GroupHandler.Get)
				r.Get("/summary", cfg.GroupHandler.Summary)

				r.Post("/members", cfg.GroupHandler.AddMember)
				r.Get("/members", cfg.GroupHandler.ListMembers)

				r.Post("/expenses", cfg.ExpenseHandler.Create)
				r.Get("/expenses", cfg.ExpenseHandler.List)

				r.Get("/balances", cfg.BalanceHandler.GetBalances)
				r.Get("/consistency", cfg.BalanceHandler.CheckConsistency)

				r.Get("/settlements", cfg.SettlementHandler.ListByGroup)
				r.Post("/settlements/recompute", cfg.SettlementHandler.Recompute)
			})
		})

		r.Post("/settlements/{id}/confirm", cfg.SettlementHandler.Confirm)
	})

	return r
}
