package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
)

// ReconciliationUseCase checks that every stored balance equals the signed
// sum of the customer's movements.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
	metrics    *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(ledgerRepo LedgerRepository, metrics *metrics.Metrics) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledgerRepo: ledgerRepo,
		metrics:    metrics,
	}
}

// ReconciliationReport represents a balance consistency report
type ReconciliationReport struct {
	CustomersChecked int
	Discrepancies    []domain.BalanceCheck
	Consistent       bool
	CheckedAt        time.Time
}

// CheckBalances compares stored balances with the ledger for the caller's
// tenant and lists the customers that differ.
func (uc *ReconciliationUseCase) CheckBalances(ctx context.Context) (*ReconciliationReport, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}

	checks, err := uc.ledgerRepo.CheckBalances(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		CustomersChecked: len(checks),
		Discrepancies:    []domain.BalanceCheck{},
		CheckedAt:        time.Now().UTC(),
	}
	for _, c := range checks {
		if !c.Consistent() {
			report.Discrepancies = append(report.Discrepancies, c)
		}
	}
	report.Consistent = len(report.Discrepancies) == 0

	if uc.metrics != nil {
		uc.metrics.BalanceDiscrepancies.Set(float64(len(report.Discrepancies)))
	}

	if !report.Consistent {
		zerolog.Ctx(ctx).Error().
			Int("discrepancies", len(report.Discrepancies)).
			Msg("balance inconsistency detected")
	}

	return report, nil
}
