package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/postgres/generated"
	"github.com/iho/ctacte/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	queries *generated.Queries
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return newBalanceRepository(pool)
}

func newBalanceRepository(db generated.DBTX) *BalanceRepository {
	return &BalanceRepository{queries: generated.New(db)}
}

// ApplyDelta upserts the balance row and adds delta in one statement, so
// concurrent writers serialise on the row lock.
func (r *BalanceRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, tenantID, customerID string, delta decimal.Decimal) (decimal.Decimal, error) {
	amount, err := txQueries(tx).ApplyBalanceDelta(ctx, generated.ApplyBalanceDeltaParams{
		TenantID:   tenantID,
		CustomerID: customerID,
		Delta:      delta,
		UpdatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return decimal.Zero, translateError(err)
	}
	return amount, nil
}

// Get retrieves a customer's stored balance.
func (r *BalanceRepository) Get(ctx context.Context, tenantID, customerID string) (*domain.Balance, error) {
	row, err := r.queries.GetBalance(ctx, generated.GetBalanceParams{TenantID: tenantID, CustomerID: customerID})
	if err != nil {
		return nil, notFound(err, domain.ErrBalanceNotFound)
	}
	return &domain.Balance{
		TenantID:   row.TenantID,
		CustomerID: row.CustomerID,
		Amount:     row.Amount,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}
