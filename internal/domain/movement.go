package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind is the kind of a ledger movement.
type MovementKind string

const (
	MovementSale    MovementKind = "SALE"
	MovementPayment MovementKind = "PAYMENT"
)

// IsValid reports whether k is a known kind.
func (k MovementKind) IsValid() bool {
	return k == MovementSale || k == MovementPayment
}

// Sign is +1 for sales (the customer owes more) and -1 for payments.
func (k MovementKind) Sign() decimal.Decimal {
	if k == MovementPayment {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Movement is a monetary event on a customer's running account. Amount is
// always positive; the kind carries the sign.
type Movement struct {
	ID         string
	TenantID   string
	CustomerID string
	Kind       MovementKind
	Date       time.Time
	Amount     decimal.Decimal
	OrderID    *string
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SignedAmount is the effect of the movement on the customer's balance.
func (m *Movement) SignedAmount() decimal.Decimal {
	return m.Amount.Mul(m.Kind.Sign())
}

// MovementSortField lists the columns movements can be sorted by.
type MovementSortField string

const (
	MovementSortDate      MovementSortField = "date"
	MovementSortCreatedAt MovementSortField = "created_at"
)

// MovementFilter narrows a movement search.
type MovementFilter struct {
	CustomerID string
	Kind       MovementKind
	DateFrom   *time.Time
	DateTo     *time.Time
	AmountMin  *decimal.Decimal
	AmountMax  *decimal.Decimal
	SortBy     MovementSortField
	SortDir    SortDirection
	Page       Page
}

// MovementPage is a page of movements.
type MovementPage struct {
	Movements []*Movement
	Meta      PageMeta
}
