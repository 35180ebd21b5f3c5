package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegisterer_ExposesDomainMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegisterer(registry)

	m.OrdersConfirmed.Inc()
	m.Amendments.WithLabelValues("recreated").Inc()
	m.ImportRows.WithLabelValues("accepted").Add(3)
	m.ImportRows.WithLabelValues("skipped").Inc()
	m.CacheRequests.WithLabelValues("miss").Inc()

	expected := `
# HELP ctacte_import_rows_total Imported spreadsheet rows by outcome
# TYPE ctacte_import_rows_total counter
ctacte_import_rows_total{outcome="accepted"} 3
ctacte_import_rows_total{outcome="skipped"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "ctacte_import_rows_total"); err != nil {
		t.Fatalf("unexpected import row metrics: %v", err)
	}

	if got := testutil.ToFloat64(m.OrdersConfirmed); got != 1 {
		t.Fatalf("expected 1 confirmed order, got %v", got)
	}
	if got := testutil.CollectAndCount(m.Amendments); got != 1 {
		t.Fatalf("expected one amendment series, got %d", got)
	}
}

func TestNewWithRegisterer_HTTPMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegisterer(registry)

	m.HTTPRequests.WithLabelValues("POST", "/api/v1/orders/{id}/confirm", "200").Inc()
	m.HTTPRequests.WithLabelValues("POST", "/api/v1/orders/{id}/confirm", "409").Inc()
	m.HTTPRequestDuration.WithLabelValues("POST", "/api/v1/orders/{id}/confirm").Observe(0.02)
	m.HTTPRequestsInFlight.Inc()

	if got := testutil.CollectAndCount(m.HTTPRequests); got != 2 {
		t.Fatalf("expected 2 request series, got %d", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsInFlight); got != 1 {
		t.Fatalf("expected 1 in-flight request, got %v", got)
	}
	if got := testutil.CollectAndCount(m.HTTPRequestDuration); got != 1 {
		t.Fatalf("expected 1 duration series, got %d", got)
	}
}

func TestNewWithRegisterer_IsolatedRegistries(t *testing.T) {
	first := NewWithRegisterer(prometheus.NewRegistry())
	second := NewWithRegisterer(prometheus.NewRegistry())

	first.PaymentsRecorded.Inc()

	if got := testutil.ToFloat64(second.PaymentsRecorded); got != 0 {
		t.Fatalf("expected independent counters, got %v", got)
	}
}
