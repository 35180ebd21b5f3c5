package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Confirmation metrics
	OrdersConfirmed       prometheus.Counter
	ConfirmationConflicts prometheus.Counter
	ConfirmationDuration  prometheus.Histogram
	ConfirmedAmount       prometheus.Histogram
	Amendments            *prometheus.CounterVec

	// Ledger metrics
	PaymentsRecorded     prometheus.Counter
	PaymentAmount        prometheus.Histogram
	BalanceDiscrepancies prometheus.Gauge

	// Import metrics
	ImportRows     *prometheus.CounterVec
	ImportOrders   *prometheus.CounterVec
	ImportDuration prometheus.Histogram

	// Resolution metrics
	Resolutions prometheus.Counter

	// Cache metrics
	CacheRequests *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests         *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	amountBuckets := []float64{100, 1000, 10000, 100000, 1000000, 10000000}

	return &Metrics{
		OrdersConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctacte_orders_confirmed_total",
			Help: "Total number of orders confirmed into the ledger",
		}),
		ConfirmationConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctacte_confirmation_conflicts_total",
			Help: "Confirmations rejected because a sale movement already existed",
		}),
		ConfirmationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctacte_confirmation_duration_seconds",
			Help:    "Duration of order confirmations",
			Buckets: prometheus.DefBuckets,
		}),
		ConfirmedAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctacte_confirmed_amount",
			Help:    "Totals of confirmed orders",
			Buckets: amountBuckets,
		}),
		Amendments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctacte_confirmation_amendments_total",
				Help: "Amendments of confirmed orders by kind",
			},
			[]string{"kind"},
		),

		PaymentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctacte_payments_recorded_total",
			Help: "Total number of payments recorded",
		}),
		PaymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctacte_payment_amount",
			Help:    "Payment amounts",
			Buckets: amountBuckets,
		}),
		BalanceDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ctacte_balance_discrepancies",
			Help: "Customers whose stored balance differed from the ledger at the last check",
		}),

		ImportRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctacte_import_rows_total",
				Help: "Imported spreadsheet rows by outcome",
			},
			[]string{"outcome"},
		),
		ImportOrders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctacte_import_orders_total",
				Help: "Grouped import orders by outcome",
			},
			[]string{"outcome"},
		),
		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctacte_import_duration_seconds",
			Help:    "Duration of import runs",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),

		Resolutions: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctacte_order_resolutions_total",
			Help: "Pending orders reassigned to a real customer",
		}),

		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctacte_cache_requests_total",
				Help: "Report cache lookups by result",
			},
			[]string{"result"},
		),

		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctacte_outbox_published_total",
			Help: "Outbox events published",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctacte_outbox_errors_total",
			Help: "Outbox events that failed to publish",
		}),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctacte_rate_limit_hits_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"tenant"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
	}
}
