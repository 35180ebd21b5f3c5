package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// ReconciliationService defines the balance consistency check.
type ReconciliationService interface {
	CheckBalances(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReportService defines the reporting queries.
type ReportService interface {
	DebtByCustomer(ctx context.Context, from, to time.Time) ([]domain.DebtRow, error)
}

// ReportHandler handles tenant-wide reports.
type ReportHandler struct {
	reconciliationUC ReconciliationService
	reportUC         ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reconciliationUC ReconciliationService, reportUC ReportService) *ReportHandler {
	return &ReportHandler{reconciliationUC: reconciliationUC, reportUC: reportUC}
}

// CheckConsistency compares stored balances with the ledger.
func (h *ReportHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.CheckBalances(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}

// DebtByCustomer reports sales, payments and balance per customer for a
// date range given as from and to.
func (h *ReportHandler) DebtByCustomer(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}
	if from == nil || to == nil {
		writeError(w, http.StatusBadRequest, "invalid query", "from and to are required")
		return
	}

	rows, err := h.reportUC.DebtByCustomer(r.Context(), *from, *to)
	if err != nil {
		writeDomainError(w, r, "failed to build report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtReportFromRows(*from, *to, rows))
}
