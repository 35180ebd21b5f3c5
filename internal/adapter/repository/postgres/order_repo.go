package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/postgres/generated"
	"github.com/iho/ctacte/internal/usecase"
)

const orderColumns = `id, tenant_id, customer_id, delivery_date, delivery_note_no, article, quantity, weight_kg, notes, unit_price, total_price, confirmed, created_at, updated_at`

// OrderRepository implements usecase.OrderRepository.
type OrderRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return newOrderRepository(pool)
}

func newOrderRepository(db generated.DBTX) *OrderRepository {
	return &OrderRepository{db: db, queries: generated.New(db)}
}

// Create inserts an order. A second order with the same delivery line fails
// with domain.ErrDuplicateOrder.
func (r *OrderRepository) Create(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	return translateError(txQueries(tx).CreateOrder(ctx, generated.CreateOrderParams(orderParams(order))))
}

// InsertIfAbsent inserts the order and reports whether a row was written.
func (r *OrderRepository) InsertIfAbsent(ctx context.Context, tx usecase.Transaction, order *domain.Order) (bool, error) {
	n, err := txQueries(tx).InsertOrderIfAbsent(ctx, orderParams(order))
	if err != nil {
		return false, translateError(err)
	}
	return n == 1, nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	row, err := r.queries.GetOrderByID(ctx, generated.GetOrderByIDParams{TenantID: tenantID, ID: id})
	if err != nil {
		return nil, notFound(err, domain.ErrOrderNotFound)
	}
	return rowToOrder(row), nil
}

// GetByIDForUpdate retrieves an order and locks its row.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, tenantID, id string) (*domain.Order, error) {
	row, err := txQueries(tx).GetOrderByIDForUpdate(ctx, generated.GetOrderByIDForUpdateParams{TenantID: tenantID, ID: id})
	if err != nil {
		return nil, notFound(err, domain.ErrOrderNotFound)
	}
	return rowToOrder(row), nil
}

// Update overwrites the mutable fields of an order.
func (r *OrderRepository) Update(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	n, err := txQueries(tx).UpdateOrder(ctx, generated.UpdateOrderParams{
		TenantID:       order.TenantID,
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		DeliveryDate:   order.DeliveryDate,
		DeliveryNoteNo: order.DeliveryNoteNo,
		Article:        order.Article,
		Quantity:       order.Quantity,
		WeightKg:       order.WeightKg,
		Notes:          order.Notes,
		UnitPrice:      order.UnitPrice,
		TotalPrice:     order.TotalPrice,
		Confirmed:      order.Confirmed,
		UpdatedAt:      order.UpdatedAt,
	})
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Delete removes an order.
func (r *OrderRepository) Delete(ctx context.Context, tx usecase.Transaction, tenantID, id string) error {
	n, err := txQueries(tx).DeleteOrder(ctx, generated.DeleteOrderParams{TenantID: tenantID, ID: id})
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// DeleteUnconfirmed removes unconfirmed orders delivered within the optional
// date range and returns how many were removed.
func (r *OrderRepository) DeleteUnconfirmed(ctx context.Context, tx usecase.Transaction, tenantID string, from, to *time.Time) (int64, error) {
	n, err := txQueries(tx).DeleteUnconfirmedOrders(ctx, generated.DeleteUnconfirmedOrdersParams{
		TenantID: tenantID,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

var orderSortColumns = map[domain.OrderSortField]string{
	domain.OrderSortDeliveryDate:   "delivery_date",
	domain.OrderSortDeliveryNoteNo: "delivery_note_no",
	domain.OrderSortCreatedAt:      "created_at",
}

// Search retrieves one page of orders matching the filter.
func (r *OrderRepository) Search(ctx context.Context, tenantID string, filter domain.OrderFilter) (*domain.OrderPage, error) {
	var w whereBuilder
	w.add("tenant_id = ?", tenantID)

	if filter.CustomerID != "" {
		w.add("customer_id = ?", filter.CustomerID)
	}
	if filter.DeliveryNoteNo != "" {
		w.add("delivery_note_no ILIKE ?", containsPattern(filter.DeliveryNoteNo))
	}
	if filter.Article != "" {
		w.add("article ILIKE ?", containsPattern(filter.Article))
	}
	if filter.DateFrom != nil {
		w.add("delivery_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		w.add("delivery_date <= ?", *filter.DateTo)
	}
	if filter.Confirmed != nil {
		w.add("confirmed = ?", *filter.Confirmed)
	}
	if filter.PendingOnly {
		w.add("customer_id IN (SELECT id FROM customers WHERE tenant_id = ? AND tax_id = ANY(?))",
			tenantID, domain.PlaceholderTaxIDs())
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, translateError(err)
	}

	column, ok := orderSortColumns[filter.SortBy]
	if !ok {
		column = orderSortColumns[domain.OrderSortCreatedAt]
	}
	dir := domain.SortDesc
	if filter.SortDir == domain.SortAsc {
		dir = domain.SortAsc
	}

	page := filter.Page
	if page.Limit <= 0 {
		page = domain.NewPage(page.Number, page.Limit)
	}

	query := fmt.Sprintf("SELECT %s FROM orders%s ORDER BY %s %s, id %s LIMIT %s OFFSET %s",
		orderColumns, w.sql(), column, dir, dir, w.next(page.Limit), w.next(page.Offset()))

	orders, err := r.queryOrders(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}

	return &domain.OrderPage{
		Orders: orders,
		Meta:   domain.NewPageMeta(page, total),
	}, nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var row generated.Order
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.CustomerID,
			&row.DeliveryDate,
			&row.DeliveryNoteNo,
			&row.Article,
			&row.Quantity,
			&row.WeightKg,
			&row.Notes,
			&row.UnitPrice,
			&row.TotalPrice,
			&row.Confirmed,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, rowToOrder(row))
	}
	return orders, rows.Err()
}

// ListByDeliveryNote retrieves every order of a delivery note.
func (r *OrderRepository) ListByDeliveryNote(ctx context.Context, tenantID, deliveryNoteNo string) ([]*domain.Order, error) {
	rows, err := r.queries.ListOrdersByDeliveryNote(ctx, generated.ListOrdersByDeliveryNoteParams{
		TenantID:       tenantID,
		DeliveryNoteNo: deliveryNoteNo,
	})
	if err != nil {
		return nil, translateError(err)
	}
	return rowsToOrders(rows), nil
}

// ListByCustomer retrieves a customer's orders delivered within the optional
// date range, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, tenantID, customerID string, from, to *time.Time) ([]*domain.Order, error) {
	rows, err := r.queries.ListOrdersByCustomer(ctx, generated.ListOrdersByCustomerParams{
		TenantID:   tenantID,
		CustomerID: customerID,
		DateFrom:   from,
		DateTo:     to,
	})
	if err != nil {
		return nil, translateError(err)
	}
	return rowsToOrders(rows), nil
}

func orderParams(order *domain.Order) generated.InsertOrderIfAbsentParams {
	return generated.InsertOrderIfAbsentParams{
		ID:             order.ID,
		TenantID:       order.TenantID,
		CustomerID:     order.CustomerID,
		DeliveryDate:   order.DeliveryDate,
		DeliveryNoteNo: order.DeliveryNoteNo,
		Article:        order.Article,
		Quantity:       order.Quantity,
		WeightKg:       order.WeightKg,
		Notes:          order.Notes,
		UnitPrice:      order.UnitPrice,
		TotalPrice:     order.TotalPrice,
		Confirmed:      order.Confirmed,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

func rowsToOrders(rows []generated.Order) []*domain.Order {
	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, rowToOrder(row))
	}
	return orders
}

func rowToOrder(row generated.Order) *domain.Order {
	return &domain.Order{
		ID:             row.ID,
		TenantID:       row.TenantID,
		CustomerID:     row.CustomerID,
		DeliveryDate:   row.DeliveryDate,
		DeliveryNoteNo: row.DeliveryNoteNo,
		Article:        row.Article,
		Quantity:       row.Quantity,
		WeightKg:       row.WeightKg,
		Notes:          row.Notes,
		UnitPrice:      row.UnitPrice,
		TotalPrice:     row.TotalPrice,
		Confirmed:      row.Confirmed,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
