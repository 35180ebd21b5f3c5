package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
)

var (
	testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
)

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	pool.ExpectBegin()
	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return &Tx{tx: tx}
}

// anyArgs returns n wildcard argument matchers for expectations that do
// not assert on argument values.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func orderRow(id, customerID string, confirmed bool) []any {
	var unit, total *decimal.Decimal
	if confirmed {
		u, tt := decimal.RequireFromString("10.10"), decimal.RequireFromString("1217.05")
		unit, total = &u, &tt
	}
	return []any{
		id, "tenant-a", customerID, testDay, "R-1", "NOVILLO",
		decimal.RequireFromString("1"), decimal.RequireFromString("120.5"), "",
		unit, total, confirmed, testNow, testNow,
	}
}

var orderRowColumns = []string{
	"id", "tenant_id", "customer_id", "delivery_date", "delivery_note_no", "article",
	"quantity", "weight_kg", "notes", "unit_price", "total_price", "confirmed", "created_at", "updated_at",
}

var movementRowColumns = []string{
	"id", "tenant_id", "customer_id", "kind", "date", "amount", "order_id", "note", "created_at", "updated_at",
}

func TestBalanceRepositoryApplyDelta(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("INSERT INTO balances").
		WithArgs("tenant-a", "cust-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"amount"}).AddRow(decimal.RequireFromString("1217.05")))

	repo := newBalanceRepository(pool)
	amount, err := repo.ApplyDelta(context.Background(), tx, "tenant-a", "cust-1", decimal.RequireFromString("1217.05"))
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if !amount.Equal(decimal.RequireFromString("1217.05")) {
		t.Fatalf("unexpected amount %s", amount)
	}

	assertExpectations(t, pool)
}

func TestBalanceRepositoryApplyDeltaDeadlockIsTransient(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("INSERT INTO balances").
		WithArgs(anyArgs(4)...).
		WillReturnError(&pgconn.PgError{Code: pgErrDeadlock})

	_, err := newBalanceRepository(pool).ApplyDelta(context.Background(), tx, "tenant-a", "cust-1", decimal.NewFromInt(1))
	if !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestBalanceRepositoryGetNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM balances").
		WithArgs("tenant-a", "cust-9").
		WillReturnError(pgx.ErrNoRows)

	_, err := newBalanceRepository(pool).Get(context.Background(), "tenant-a", "cust-9")
	if !errors.Is(err, domain.ErrBalanceNotFound) {
		t.Fatalf("expected balance not found, got %v", err)
	}
	assertExpectations(t, pool)
}

func TestMovementRepositoryCreateDuplicateIsAlreadyConfirmed(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("INSERT INTO ledger_movements").
		WithArgs(anyArgs(10)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintMovementOrderKind})

	orderID := "ord-1"
	err := newMovementRepository(pool).Create(context.Background(), tx, &domain.Movement{
		ID:         "mov-1",
		TenantID:   "tenant-a",
		CustomerID: "cust-1",
		Kind:       domain.MovementSale,
		Date:       testDay,
		Amount:     decimal.RequireFromString("10"),
		OrderID:    &orderID,
	})
	if !errors.Is(err, domain.ErrAlreadyConfirmed) {
		t.Fatalf("expected already confirmed, got %v", err)
	}
}

func TestMovementRepositoryGetByOrder(t *testing.T) {
	pool := newMockPool(t)
	orderID := "ord-1"

	pool.ExpectQuery("FROM ledger_movements").
		WithArgs("tenant-a", "SALE", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(movementRowColumns).AddRow(
			"mov-1", "tenant-a", "cust-1", "SALE", testDay, decimal.RequireFromString("1217.05"),
			&orderID, (*string)(nil), testNow, testNow,
		))

	m, err := newMovementRepository(pool).GetByOrder(context.Background(), "tenant-a", domain.MovementSale, orderID)
	if err != nil {
		t.Fatalf("GetByOrder: %v", err)
	}
	if m.Kind != domain.MovementSale || m.OrderID == nil || *m.OrderID != orderID {
		t.Fatalf("unexpected movement %+v", m)
	}
	if !m.SignedAmount().Equal(decimal.RequireFromString("1217.05")) {
		t.Fatalf("unexpected amount %s", m.Amount)
	}
	assertExpectations(t, pool)
}

func TestMovementRepositoryDeleteMissing(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("DELETE FROM ledger_movements").
		WithArgs("tenant-a", "mov-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := newMovementRepository(pool).Delete(context.Background(), tx, "tenant-a", "mov-9")
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected movement not found, got %v", err)
	}
}

func TestMovementRepositorySearch(t *testing.T) {
	pool := newMockPool(t)
	amountMin := decimal.RequireFromString("100")

	pool.ExpectQuery(`SELECT COUNT\(\*\) FROM ledger_movements WHERE tenant_id = \$1 AND kind = \$2 AND amount >= \$3`).
		WithArgs("tenant-a", "PAYMENT", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	pool.ExpectQuery(`ORDER BY date ASC, created_at ASC, id ASC LIMIT \$4 OFFSET \$5`).
		WithArgs("tenant-a", "PAYMENT", pgxmock.AnyArg(), 20, 20).
		WillReturnRows(pgxmock.NewRows(movementRowColumns).AddRow(
			"mov-2", "tenant-a", "cust-1", "PAYMENT", testDay, decimal.RequireFromString("250.50"),
			(*string)(nil), (*string)(nil), testNow, testNow,
		))

	page, err := newMovementRepository(pool).Search(context.Background(), "tenant-a", domain.MovementFilter{
		Kind:      domain.MovementPayment,
		AmountMin: &amountMin,
		SortBy:    domain.MovementSortDate,
		SortDir:   domain.SortAsc,
		Page:      domain.NewPage(2, 20),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Movements) != 1 || page.Meta.Total != 1 || page.Meta.Page != 2 {
		t.Fatalf("unexpected page %+v", page.Meta)
	}
	assertExpectations(t, pool)
}

func TestOrderRepositoryInsertIfAbsent(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"inserted", 1, true},
		{"duplicate skipped", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			tx := beginMockTx(t, pool)

			pool.ExpectExec("ON CONFLICT").
				WithArgs(anyArgs(14)...).
				WillReturnResult(pgxmock.NewResult("INSERT", tt.affected))

			created, err := newOrderRepository(pool).InsertIfAbsent(context.Background(), tx, &domain.Order{
				ID:             "ord-1",
				TenantID:       "tenant-a",
				CustomerID:     "cust-1",
				DeliveryDate:   testDay,
				DeliveryNoteNo: "R-1",
				Article:        "NOVILLO",
				Quantity:       decimal.NewFromInt(1),
				WeightKg:       decimal.RequireFromString("100"),
			})
			if err != nil {
				t.Fatalf("InsertIfAbsent: %v", err)
			}
			if created != tt.want {
				t.Fatalf("created = %v, want %v", created, tt.want)
			}
		})
	}
}

func TestOrderRepositoryCreateDuplicate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("INSERT INTO orders").
		WithArgs(anyArgs(14)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintOrderDedupeKey})

	err := newOrderRepository(pool).Create(context.Background(), tx, &domain.Order{ID: "ord-2", TenantID: "tenant-a"})
	if !errors.Is(err, domain.ErrDuplicateOrder) {
		t.Fatalf("expected duplicate order, got %v", err)
	}
}

func TestOrderRepositoryGetByIDForUpdate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("FOR UPDATE").
		WithArgs("tenant-a", "ord-1").
		WillReturnRows(pgxmock.NewRows(orderRowColumns).AddRow(orderRow("ord-1", "cust-1", true)...))

	order, err := newOrderRepository(pool).GetByIDForUpdate(context.Background(), tx, "tenant-a", "ord-1")
	if err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if !order.Confirmed || order.TotalPrice == nil || !order.TotalPrice.Equal(decimal.RequireFromString("1217.05")) {
		t.Fatalf("unexpected order %+v", order)
	}
	assertExpectations(t, pool)
}

func TestOrderRepositoryUpdateMissing(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("UPDATE orders").
		WithArgs(anyArgs(13)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := newOrderRepository(pool).Update(context.Background(), tx, &domain.Order{ID: "ord-9", TenantID: "tenant-a"})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestOrderRepositorySearchPendingOnly(t *testing.T) {
	pool := newMockPool(t)

	pool.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE tenant_id = \$1 AND article ILIKE \$2 AND customer_id IN \(SELECT id FROM customers WHERE tenant_id = \$3 AND tax_id = ANY\(\$4\)\)`).
		WithArgs("tenant-a", "%novillo%", "tenant-a", domain.PlaceholderTaxIDs()).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	pool.ExpectQuery(`ORDER BY created_at DESC, id DESC LIMIT \$5 OFFSET \$6`).
		WithArgs("tenant-a", "%novillo%", "tenant-a", domain.PlaceholderTaxIDs(), domain.DefaultPageSize, 0).
		WillReturnRows(pgxmock.NewRows(orderRowColumns).
			AddRow(orderRow("ord-1", "temp", false)...).
			AddRow(orderRow("ord-2", "unreg", false)...))

	page, err := newOrderRepository(pool).Search(context.Background(), "tenant-a", domain.OrderFilter{
		Article:     "novillo",
		PendingOnly: true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Orders) != 2 || page.Meta.Total != 2 {
		t.Fatalf("unexpected page %+v", page.Meta)
	}
	if page.Orders[0].UnitPrice != nil {
		t.Fatalf("draft order must have no price")
	}
	assertExpectations(t, pool)
}

func TestCustomerRepositoryEnsurePlaceholder(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("INSERT INTO companies").
		WithArgs("co-temp", "tenant-a", domain.TemporaryTaxID, "Temporary", testNow, testNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	pool.ExpectExec("INSERT INTO customers").
		WithArgs("cust-temp", "Temporary", "", testNow, "tenant-a", domain.TemporaryTaxID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	pool.ExpectQuery("FROM customers").
		WithArgs("tenant-a", domain.TemporaryTaxID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "tenant_id", "tax_id", "first_name", "last_name", "phone", "email",
			"company_id", "reseller_id", "created_at", "updated_at",
		}).AddRow("existing-temp", "tenant-a", domain.TemporaryTaxID, "Temporary", "", "", "", "co-existing", (*string)(nil), testDay, testDay))

	stored, err := newCustomerRepository(pool).EnsurePlaceholder(context.Background(), tx,
		&domain.Company{ID: "co-temp", TenantID: "tenant-a", TaxID: domain.TemporaryTaxID, Name: "Temporary", CreatedAt: testNow},
		&domain.Customer{ID: "cust-temp", TenantID: "tenant-a", TaxID: domain.TemporaryTaxID, FirstName: "Temporary"},
	)
	if err != nil {
		t.Fatalf("EnsurePlaceholder: %v", err)
	}
	if stored.ID != "existing-temp" || !stored.IsPlaceholder() {
		t.Fatalf("expected the existing placeholder, got %+v", stored)
	}
	assertExpectations(t, pool)
}

func TestCustomerRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM customers").
		WithArgs("tenant-a", "cust-9").
		WillReturnError(pgx.ErrNoRows)

	_, err := newCustomerRepository(pool).GetByID(context.Background(), "tenant-a", "cust-9")
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
}

func TestLedgerRepositoryCheckBalances(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FULL OUTER JOIN").
		WithArgs("tenant-a").
		WillReturnRows(pgxmock.NewRows([]string{"customer_id", "stored", "from_ledger", "has_balance", "has_movement"}).
			AddRow("cust-1", decimal.RequireFromString("100"), decimal.RequireFromString("100"), true, true).
			AddRow("cust-2", decimal.RequireFromString("15"), decimal.RequireFromString("12.5"), true, true).
			AddRow("cust-3", decimal.Zero, decimal.RequireFromString("4"), false, true))

	checks, err := newLedgerRepository(pool).CheckBalances(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("CheckBalances: %v", err)
	}
	if len(checks) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(checks))
	}
	if !checks[0].Consistent() {
		t.Fatalf("expected cust-1 consistent")
	}
	if !checks[1].Difference.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected difference %s", checks[1].Difference)
	}
	if checks[2].Consistent() {
		t.Fatalf("expected cust-3 inconsistent")
	}
	assertExpectations(t, pool)
}

func TestLedgerRepositoryDebtByCustomer(t *testing.T) {
	pool := newMockPool(t)
	from, to := testDay.AddDate(0, 0, -9), testDay.AddDate(0, 0, 21)

	pool.ExpectQuery("FROM ledger_movements m").
		WithArgs("tenant-a", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"customer_id", "tax_id", "sales", "payments", "current_balance"}).
			AddRow("cust-1", "20-1", decimal.RequireFromString("1000"), decimal.RequireFromString("250.50"), decimal.RequireFromString("1200")))

	rows, err := newLedgerRepository(pool).DebtByCustomer(context.Background(), "tenant-a", from, to)
	if err != nil {
		t.Fatalf("DebtByCustomer: %v", err)
	}
	if len(rows) != 1 || !rows[0].PeriodDebt.Equal(decimal.RequireFromString("749.50")) {
		t.Fatalf("unexpected rows %+v", rows)
	}
	assertExpectations(t, pool)
}

func TestReassignmentRepositoryListByOrder(t *testing.T) {
	pool := newMockPool(t)
	reason := "customer identified"

	pool.ExpectQuery("FROM order_reassignments").
		WithArgs("tenant-a", "ord-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "tenant_id", "order_id", "previous_customer_id", "new_customer_id", "reason", "actor", "created_at",
		}).AddRow("re-1", "tenant-a", "ord-1", "temp", "cust-1", &reason, (*string)(nil), testNow))

	list, err := newReassignmentRepository(pool).ListByOrder(context.Background(), "tenant-a", "ord-1")
	if err != nil {
		t.Fatalf("ListByOrder: %v", err)
	}
	if len(list) != 1 || list[0].NewCustomerID != "cust-1" || *list[0].Reason != reason || list[0].Actor != nil {
		t.Fatalf("unexpected reassignments %+v", list)
	}
	assertExpectations(t, pool)
}

func TestOutboxRepositoryCreateAndFetch(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("INSERT INTO outbox_events").
		WithArgs("evt-1", "tenant-a", "ord-1", domain.AggregateTypeOrder, domain.EventTypeOrderConfirmed,
			[]byte(`{"order_id":"ord-1"}`), testNow, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectQuery("FROM outbox_events").
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "tenant_id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
		}).AddRow("evt-1", "tenant-a", "ord-1", domain.AggregateTypeOrder, domain.EventTypeOrderConfirmed,
			[]byte(`{"order_id":"ord-1"}`), testNow, (*time.Time)(nil), false))

	repo := newOutboxRepository(pool)
	err := repo.Create(context.Background(), tx, &domain.OutboxEvent{
		ID:            "evt-1",
		TenantID:      "tenant-a",
		AggregateID:   "ord-1",
		AggregateType: domain.AggregateTypeOrder,
		EventType:     domain.EventTypeOrderConfirmed,
		Payload:       map[string]any{"order_id": "ord-1"},
		CreatedAt:     testNow,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	events, err := repo.GetUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetUnpublished: %v", err)
	}
	if len(events) != 1 || events[0].TenantID != "tenant-a" || events[0].Payload["order_id"] != "ord-1" {
		t.Fatalf("unexpected events %+v", events)
	}
	assertExpectations(t, pool)
}
