package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the running amount a customer owes within a tenant.
type Balance struct {
	TenantID   string
	CustomerID string
	Amount     decimal.Decimal
	UpdatedAt  time.Time
}

// BalanceCheck compares a stored balance with the signed sum of the
// customer's movements.
type BalanceCheck struct {
	CustomerID  string
	Stored      decimal.Decimal
	FromLedger  decimal.Decimal
	Difference  decimal.Decimal
	HasBalance  bool
	HasMovement bool
}

// Consistent reports whether the stored balance matches the ledger.
func (c BalanceCheck) Consistent() bool {
	return c.Stored.Equal(c.FromLedger)
}

// DebtRow is one line of the debt-by-customer report.
type DebtRow struct {
	CustomerID     string
	TaxID          string
	Sales          decimal.Decimal
	Payments       decimal.Decimal
	PeriodDebt     decimal.Decimal
	CurrentBalance decimal.Decimal
}
