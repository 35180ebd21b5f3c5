package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/postgres/generated"
	"github.com/iho/ctacte/internal/usecase"
)

const movementColumns = `id, tenant_id, customer_id, kind, date, amount, order_id, note, created_at, updated_at`

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return newMovementRepository(pool)
}

func newMovementRepository(db generated.DBTX) *MovementRepository {
	return &MovementRepository{db: db, queries: generated.New(db)}
}

// Create inserts a movement.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	return translateError(txQueries(tx).CreateMovement(ctx, generated.CreateMovementParams{
		ID:         movement.ID,
		TenantID:   movement.TenantID,
		CustomerID: movement.CustomerID,
		Kind:       string(movement.Kind),
		Date:       movement.Date,
		Amount:     movement.Amount,
		OrderID:    movement.OrderID,
		Note:       movement.Note,
		CreatedAt:  movement.CreatedAt,
		UpdatedAt:  movement.UpdatedAt,
	}))
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Movement, error) {
	row, err := r.queries.GetMovementByID(ctx, generated.GetMovementByIDParams{TenantID: tenantID, ID: id})
	if err != nil {
		return nil, notFound(err, domain.ErrMovementNotFound)
	}
	return rowToMovement(row), nil
}

// GetByOrder retrieves the movement of the given kind recorded for an order.
func (r *MovementRepository) GetByOrder(ctx context.Context, tenantID string, kind domain.MovementKind, orderID string) (*domain.Movement, error) {
	row, err := r.queries.GetMovementByOrder(ctx, generated.GetMovementByOrderParams{
		TenantID: tenantID,
		Kind:     string(kind),
		OrderID:  &orderID,
	})
	if err != nil {
		return nil, notFound(err, domain.ErrMovementNotFound)
	}
	return rowToMovement(row), nil
}

// GetByOrderForUpdate retrieves and locks the movement of the given kind
// recorded for an order.
func (r *MovementRepository) GetByOrderForUpdate(ctx context.Context, tx usecase.Transaction, tenantID string, kind domain.MovementKind, orderID string) (*domain.Movement, error) {
	row, err := txQueries(tx).GetMovementByOrderForUpdate(ctx, generated.GetMovementByOrderForUpdateParams{
		TenantID: tenantID,
		Kind:     string(kind),
		OrderID:  &orderID,
	})
	if err != nil {
		return nil, notFound(err, domain.ErrMovementNotFound)
	}
	return rowToMovement(row), nil
}

// Update overwrites the customer, date, amount and note of a movement.
func (r *MovementRepository) Update(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	n, err := txQueries(tx).UpdateMovement(ctx, generated.UpdateMovementParams{
		TenantID:   movement.TenantID,
		ID:         movement.ID,
		CustomerID: movement.CustomerID,
		Date:       movement.Date,
		Amount:     movement.Amount,
		Note:       movement.Note,
		UpdatedAt:  movement.UpdatedAt,
	})
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

// Delete removes a movement.
func (r *MovementRepository) Delete(ctx context.Context, tx usecase.Transaction, tenantID, id string) error {
	n, err := txQueries(tx).DeleteMovement(ctx, generated.DeleteMovementParams{TenantID: tenantID, ID: id})
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

var movementSortColumns = map[domain.MovementSortField]string{
	domain.MovementSortDate:      "date",
	domain.MovementSortCreatedAt: "created_at",
}

// Search retrieves one page of movements matching the filter.
func (r *MovementRepository) Search(ctx context.Context, tenantID string, filter domain.MovementFilter) (*domain.MovementPage, error) {
	var w whereBuilder
	w.add("tenant_id = ?", tenantID)

	if filter.CustomerID != "" {
		w.add("customer_id = ?", filter.CustomerID)
	}
	if filter.Kind != "" {
		w.add("kind = ?", string(filter.Kind))
	}
	if filter.DateFrom != nil {
		w.add("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		w.add("date <= ?", *filter.DateTo)
	}
	if filter.AmountMin != nil {
		w.add("amount >= ?", *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		w.add("amount <= ?", *filter.AmountMax)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM ledger_movements"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, translateError(err)
	}

	column, ok := movementSortColumns[filter.SortBy]
	if !ok {
		column = movementSortColumns[domain.MovementSortDate]
	}
	dir := domain.SortDesc
	if filter.SortDir == domain.SortAsc {
		dir = domain.SortAsc
	}

	page := filter.Page
	if page.Limit <= 0 {
		page = domain.NewPage(page.Number, page.Limit)
	}

	query := fmt.Sprintf("SELECT %s FROM ledger_movements%s ORDER BY %s %s, created_at %s, id %s LIMIT %s OFFSET %s",
		movementColumns, w.sql(), column, dir, dir, dir, w.next(page.Limit), w.next(page.Offset()))

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var movements []*domain.Movement
	for rows.Next() {
		var row generated.LedgerMovement
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.CustomerID,
			&row.Kind,
			&row.Date,
			&row.Amount,
			&row.OrderID,
			&row.Note,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		movements = append(movements, rowToMovement(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.MovementPage{
		Movements: movements,
		Meta:      domain.NewPageMeta(page, total),
	}, nil
}

// ListByCustomer retrieves a customer's movements, newest first.
func (r *MovementRepository) ListByCustomer(ctx context.Context, tenantID, customerID string) ([]*domain.Movement, error) {
	rows, err := r.queries.ListMovementsByCustomer(ctx, generated.ListMovementsByCustomerParams{
		TenantID:   tenantID,
		CustomerID: customerID,
	})
	if err != nil {
		return nil, translateError(err)
	}

	movements := make([]*domain.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, rowToMovement(row))
	}
	return movements, nil
}

func rowToMovement(row generated.LedgerMovement) *domain.Movement {
	return &domain.Movement{
		ID:         row.ID,
		TenantID:   row.TenantID,
		CustomerID: row.CustomerID,
		Kind:       domain.MovementKind(row.Kind),
		Date:       row.Date,
		Amount:     row.Amount,
		OrderID:    row.OrderID,
		Note:       row.Note,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
