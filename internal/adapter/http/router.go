package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/ctacte/internal/adapter/http/handler"
	"github.com/iho/ctacte/internal/adapter/http/middleware"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
	"github.com/iho/ctacte/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	OrderHandler        *handler.OrderHandler
	ConfirmationHandler *handler.ConfirmationHandler
	ResolutionHandler   *handler.ResolutionHandler
	ImportHandler       *handler.ImportHandler
	BalanceHandler      *handler.BalanceHandler
	ReportHandler       *handler.ReportHandler
	HealthHandler       *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsGatherer  prometheus.Gatherer
	Logger           zerolog.Logger

	TenantHeader       string
	DefaultTenant      string
	CORSAllowedOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", tenantHeader(cfg), middleware.IdempotencyKeyHeader},
			ExposedHeaders:   []string{middleware.IdempotencyReplayHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	gatherer := cfg.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Tenant(cfg.TenantHeader, cfg.DefaultTenant))

		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Orders
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.OrderHandler.Create)
			r.Get("/", cfg.OrderHandler.List)
			r.Get("/pending", cfg.ResolutionHandler.ListPending)
			r.Delete("/unconfirmed", cfg.OrderHandler.DeleteUnconfirmed)
			r.Get("/by-delivery-note/{number}", cfg.OrderHandler.ListByDeliveryNote)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.OrderHandler.Get)
				r.Put("/", cfg.OrderHandler.Update)
				r.Delete("/", cfg.OrderHandler.Delete)
				r.Post("/confirm", cfg.ConfirmationHandler.Confirm)
				r.Patch("/confirmation", cfg.ConfirmationHandler.Amend)
				r.Post("/resolve-customer", cfg.ResolutionHandler.Resolve)
				r.Get("/reassignments", cfg.ResolutionHandler.ListReassignments)
			})
		})

		// Customers
		r.Route("/customers/{id}", func(r chi.Router) {
			r.Get("/orders", cfg.OrderHandler.ListByCustomer)
			r.Get("/balance", cfg.BalanceHandler.GetBalance)
			r.Get("/movements", cfg.BalanceHandler.ListByCustomer)
		})

		r.Post("/imports", cfg.ImportHandler.Import)
		r.Post("/payments", cfg.BalanceHandler.RecordPayment)
		r.Get("/movements", cfg.BalanceHandler.SearchMovements)
		r.Get("/balances/consistency", cfg.ReportHandler.CheckConsistency)
		r.Get("/reports/debt-by-customer", cfg.ReportHandler.DebtByCustomer)
	})

	return r
}

func tenantHeader(cfg RouterConfig) string {
	if cfg.TenantHeader == "" {
		return middleware.DefaultTenantHeader
	}

	return cfg.TenantHeader
}
