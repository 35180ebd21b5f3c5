package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ctacte/internal/adapter/http/dto"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("añejamiento", 5); got != "añ..." {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestImportCmd(t *testing.T) {
	var received dto.ImportRequest
	var tenant, key string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/imports", r.URL.Path)
		tenant = r.Header.Get("X-Tenant-Id")
		key = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.ImportReportResponse{
			RowsRead:       2,
			RowsAccepted:   2,
			Created:        1,
			Unresolved:     1,
			Duplicates:     []string{},
			UnresolvedRows: []string{"16/03/2025 | R-101 | Caja | 1 | 3"},
			Warnings:       []string{},
			Errors:         []string{},
		})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "remitos.csv")
	csv := "FECHA_REMITO;REMITO;CUIT_CLIENTE;CLIENTE;ARTICULO;CANTIDAD;KILOS\n" +
		"15/03/2025;R-100;30-11111111-1;Acme SA;Pallet;2;120,5\n" +
		"16/03/2025;R-101;;Sin CUIT;Caja;1;3\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out, _, err := runCLI(t, "--url", srv.URL, "--tenant", "tenant-a", "import", path, "--from-date", "2025-03-01", "--idempotency-key", "imp-1")
	require.NoError(t, err)

	assert.Equal(t, "tenant-a", tenant)
	assert.Equal(t, "imp-1", key)
	assert.Equal(t, "remitos.csv", received.Source)
	require.NotNil(t, received.FromDate)
	assert.Equal(t, "2025-03-01", received.FromDate.Format("2006-01-02"))
	require.Len(t, received.Rows, 2)
	assert.Equal(t, "R-100", received.Rows[0]["REMITO"])

	assert.Contains(t, out, "Orders created:     1")
	assert.Contains(t, out, "Unresolved rows:")
	assert.Contains(t, out, "R-101")
}

func TestImportCmd_MissingFile(t *testing.T) {
	_, stderr, err := runCLI(t, "import", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, stderr, "ctacte-cli import failed")
}

func TestBalanceGetCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/customers/cust-1/balance", r.URL.Path)
		_, _ = w.Write([]byte(`{"customer_id":"cust-1","balance":"1217.05","updated_at":null}`))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "--url", srv.URL, "balance", "get", "cust-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer: cust-1")
	assert.Contains(t, out, "Balance:  1217.05")

	out, _, err = runCLI(t, "--url", srv.URL, "--json", "balance", "get", "cust-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"customer_id": "cust-1"`)
}

func TestBalanceGetCmd_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"failed to get balance","message":"customer not found"}`))
	}))
	defer srv.Close()

	_, _, err := runCLI(t, "--url", srv.URL, "balance", "get", "nobody")
	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "customer not found", apiErr.Message)
}

func TestBalancesCheckCmd(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOut string
		wantErr bool
	}{
		{
			name:    "consistent",
			body:    `{"consistent":true,"customers_checked":3,"discrepancies":[],"checked_at":"2025-03-10T12:00:00Z"}`,
			wantOut: "Consistency check PASSED (3 customers)",
		},
		{
			name:    "inconsistent",
			body:    `{"consistent":false,"customers_checked":3,"discrepancies":[{"customer_id":"cust-2","stored":"15","from_ledger":"12.5","difference":"2.5"}],"checked_at":"2025-03-10T12:00:00Z"}`,
			wantOut: "cust-2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/balances/consistency", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out, _, err := runCLI(t, "--url", srv.URL, "balances", "check")
			assert.Contains(t, out, tt.wantOut)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInconsistent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPendingListCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/pending", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "R-1", r.URL.Query().Get("delivery_note"))
		_, _ = w.Write([]byte(`{"data":[{"id":"ord-1","customer_id":"tmp","delivery_date":"2025-03-15","delivery_note_no":"R-1","article":"Pallet","quantity":"2","weight_kg":"120.5","notes":"Unknown CUIT 27-0","confirmed":false}],"meta":{"total":21,"page":2,"limit":20,"total_pages":2}}`))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "--url", srv.URL, "pending", "list", "--page", "2", "--delivery-note", "R-1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "ord-1")
	assert.Contains(t, lines[1], "2025-03-15")
	assert.Contains(t, lines[1], "120.500")
	assert.Contains(t, out, "Page 2 of 2 (21 pending)")
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, _, err := runCLI(t, "migrate", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
