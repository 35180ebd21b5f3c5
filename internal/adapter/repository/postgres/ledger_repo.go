package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckBalances compares every stored balance with the signed sum of the
// customer's movements.
func (r *LedgerRepository) CheckBalances(ctx context.Context, tenantID string) ([]domain.BalanceCheck, error) {
	rows, err := r.queries.CheckBalances(ctx, tenantID)
	if err != nil {
		return nil, translateError(err)
	}

	checks := make([]domain.BalanceCheck, 0, len(rows))
	for _, row := range rows {
		checks = append(checks, domain.BalanceCheck{
			CustomerID:  row.CustomerID,
			Stored:      row.Stored,
			FromLedger:  row.FromLedger,
			Difference:  row.Stored.Sub(row.FromLedger),
			HasBalance:  row.HasBalance,
			HasMovement: row.HasMovement,
		})
	}
	return checks, nil
}

// DebtByCustomer totals sales and payments dated within [from, to] per
// customer.
func (r *LedgerRepository) DebtByCustomer(ctx context.Context, tenantID string, from, to time.Time) ([]domain.DebtRow, error) {
	rows, err := r.queries.DebtByCustomer(ctx, generated.DebtByCustomerParams{
		TenantID: tenantID,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, translateError(err)
	}

	debts := make([]domain.DebtRow, 0, len(rows))
	for _, row := range rows {
		debts = append(debts, domain.DebtRow{
			CustomerID:     row.CustomerID,
			TaxID:          row.TaxID,
			Sales:          row.Sales,
			Payments:       row.Payments,
			PeriodDebt:     row.Sales.Sub(row.Payments),
			CurrentBalance: row.CurrentBalance,
		})
	}
	return debts, nil
}
