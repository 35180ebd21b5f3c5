package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/iho/ctacte/internal/infrastructure/metrics"
)

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware(m).Wrap)
	r.Get("/api/v1/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"01A", "01B", "01C"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id, nil))
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/orders/{id}", "418")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestMetricsMiddleware_FallsBackToNormalizedPath(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	handler := NewMetricsMiddleware(m).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/orders/01ABC/confirm", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodPost, "/api/v1/orders/:id/confirm", "201")))
}

func TestMetricsMiddleware_NilMetrics(t *testing.T) {
	called := false
	handler := NewMetricsMiddleware(nil).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.True(t, called)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/orders/01ABC", "/api/v1/orders/:id"},
		{"/api/v1/orders/01ABC/amend", "/api/v1/orders/:id/amend"},
		{"/api/v1/orders/pending", "/api/v1/orders/pending"},
		{"/api/v1/orders/by-delivery-note/R-1", "/api/v1/orders/by-delivery-note/R-1"},
		{"/api/v1/customers/c-1/movements", "/api/v1/customers/:id/movements"},
		{"/api/v1/balances/consistency", "/api/v1/balances/consistency"},
		{"/api/v1/orders", "/api/v1/orders"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}
