package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/postgres/generated"
	"github.com/iho/ctacte/internal/usecase"
)

// ReassignmentRepository implements usecase.ReassignmentRepository.
type ReassignmentRepository struct {
	queries *generated.Queries
}

// NewReassignmentRepository creates a new ReassignmentRepository.
func NewReassignmentRepository(pool *pgxpool.Pool) *ReassignmentRepository {
	return newReassignmentRepository(pool)
}

func newReassignmentRepository(db generated.DBTX) *ReassignmentRepository {
	return &ReassignmentRepository{queries: generated.New(db)}
}

// Create inserts a reassignment record within a transaction.
func (r *ReassignmentRepository) Create(ctx context.Context, tx usecase.Transaction, reassignment *domain.OrderReassignment) error {
	return translateError(txQueries(tx).CreateReassignment(ctx, generated.CreateReassignmentParams{
		ID:                 reassignment.ID,
		TenantID:           reassignment.TenantID,
		OrderID:            reassignment.OrderID,
		PreviousCustomerID: reassignment.PreviousCustomerID,
		NewCustomerID:      reassignment.NewCustomerID,
		Reason:             reassignment.Reason,
		Actor:              reassignment.Actor,
		CreatedAt:          reassignment.CreatedAt,
	}))
}

// ListByOrder retrieves an order's reassignments, oldest first.
func (r *ReassignmentRepository) ListByOrder(ctx context.Context, tenantID, orderID string) ([]*domain.OrderReassignment, error) {
	rows, err := r.queries.ListReassignmentsByOrder(ctx, generated.ListReassignmentsByOrderParams{
		TenantID: tenantID,
		OrderID:  orderID,
	})
	if err != nil {
		return nil, translateError(err)
	}

	reassignments := make([]*domain.OrderReassignment, 0, len(rows))
	for _, row := range rows {
		reassignments = append(reassignments, &domain.OrderReassignment{
			ID:                 row.ID,
			TenantID:           row.TenantID,
			OrderID:            row.OrderID,
			PreviousCustomerID: row.PreviousCustomerID,
			NewCustomerID:      row.NewCustomerID,
			Reason:             row.Reason,
			Actor:              row.Actor,
			CreatedAt:          row.CreatedAt,
		})
	}
	return reassignments, nil
}
