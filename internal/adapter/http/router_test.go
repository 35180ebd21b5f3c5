package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/adapter/http/handler"
	apimiddleware "github.com/iho/ctacte/internal/adapter/http/middleware"
	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
	"github.com/iho/ctacte/internal/usecase"
	"github.com/iho/ctacte/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(reg)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.MetricsGatherer = reg
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Fatalf("expected health request to be counted, got:\n%s", rec.Body.String())
	}
}

func TestNewRouter_TenantRequired(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.DefaultTenant = ""
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/customers/c-1/balance", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected missing tenant to return 400, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/c-1/balance", nil)
	req.Header.Set(apimiddleware.DefaultTenantHeader, "tenant-a")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected balance request to succeed, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"customer_id":"c-1"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(0.001, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/customers/c-1/balance", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/customers/c-1/balance", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}

	// health checks are not throttled
	rec3 := httptest.NewRecorder()
	router.ServeHTTP(rec3, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec3.Code != http.StatusOK {
		t.Fatalf("expected /health to bypass the limiter, got %d", rec3.Code)
	}
}

func TestNewRouter_IdempotencyReplaysPayment(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	balances := &stubBalanceService{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.BalanceHandler = handler.NewBalanceHandler(balances)
	}))

	send := func() *httptest.ResponseRecorder {
		body := `{"customer_id":"c-1","amount":"150.00","date":"2025-03-10"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	second := send()

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected 201 twice, got %d and %d", first.Code, second.Code)
	}
	if balances.payments != 1 {
		t.Fatalf("expected one payment, got %d", balances.payments)
	}
	if second.Header().Get(apimiddleware.IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected second response to be a replay")
	}
	if len(store.Keys()) != 1 || !strings.HasPrefix(store.Keys()[0], "public:") {
		t.Fatalf("expected one tenant scoped key, got %v", store.Keys())
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.CORSAllowedOrigins = []string{"https://backoffice.example.com"}
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	req.Header.Set("Origin", "https://backoffice.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://backoffice.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/orders/",
		"GET /api/v1/orders/",
		"GET /api/v1/orders/pending",
		"DELETE /api/v1/orders/unconfirmed",
		"GET /api/v1/orders/by-delivery-note/{number}",
		"GET /api/v1/orders/{id}/",
		"PUT /api/v1/orders/{id}/",
		"DELETE /api/v1/orders/{id}/",
		"POST /api/v1/orders/{id}/confirm",
		"PATCH /api/v1/orders/{id}/confirmation",
		"POST /api/v1/orders/{id}/resolve-customer",
		"GET /api/v1/orders/{id}/reassignments",
		"GET /api/v1/customers/{id}/orders",
		"GET /api/v1/customers/{id}/balance",
		"GET /api/v1/customers/{id}/movements",
		"POST /api/v1/imports",
		"POST /api/v1/payments",
		"GET /api/v1/movements",
		"GET /api/v1/balances/consistency",
		"GET /api/v1/reports/debt-by-customer",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_StaticOrderRoutesWinOverID(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/pending", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pending listing, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"meta"`) {
		t.Fatalf("expected a paginated body, got %s", rec.Body.String())
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		OrderHandler:        handler.NewOrderHandler(nil),
		ConfirmationHandler: handler.NewConfirmationHandler(nil),
		ResolutionHandler:   handler.NewResolutionHandler(&stubResolutionService{}),
		ImportHandler:       handler.NewImportHandler(nil),
		BalanceHandler:      handler.NewBalanceHandler(&stubBalanceService{}),
		ReportHandler:       handler.NewReportHandler(nil, nil),
		HealthHandler:       handler.NewHealthHandlerWithChecks(),
		Logger:              zerolog.Nop(),
		DefaultTenant:       "public",
		MetricsGatherer:     prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubBalanceService struct {
	payments int
}

func (s *stubBalanceService) RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error) {
	s.payments++
	return &usecase.PaymentResult{
		Movement: &domain.Movement{
			ID:         "mov-1",
			CustomerID: input.CustomerID,
			Kind:       domain.MovementPayment,
			Amount:     input.Amount,
			Date:       input.Date,
		},
		Balance: input.Amount.Neg(),
	}, nil
}

func (s *stubBalanceService) GetBalance(ctx context.Context, customerID string) (*domain.Balance, error) {
	tenantID, _ := domain.TenantFromContext(ctx)
	return &domain.Balance{TenantID: tenantID, CustomerID: customerID, Amount: decimal.Zero, UpdatedAt: time.Now()}, nil
}

func (s *stubBalanceService) SearchMovements(ctx context.Context, filter domain.MovementFilter) (*domain.MovementPage, error) {
	return &domain.MovementPage{}, nil
}

func (s *stubBalanceService) ListMovementsByCustomer(ctx context.Context, customerID string) ([]*domain.Movement, error) {
	return []*domain.Movement{}, nil
}

type stubResolutionService struct{}

func (stubResolutionService) ListPendingOrders(ctx context.Context, filter usecase.PendingFilter) (*domain.OrderPage, error) {
	return &domain.OrderPage{}, nil
}

func (stubResolutionService) ResolveOrderCustomer(ctx context.Context, input usecase.ResolveOrderCustomerInput) (*domain.Order, error) {
	return &domain.Order{ID: input.OrderID}, nil
}

func (stubResolutionService) ListReassignments(ctx context.Context, orderID string) ([]*domain.OrderReassignment, error) {
	return nil, nil
}
