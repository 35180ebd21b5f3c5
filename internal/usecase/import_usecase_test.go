package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

func row(date any, note, taxID, name, article string, quantity, weight any) usecase.ImportRow {
	return usecase.ImportRow{
		usecase.ColumnDeliveryDate: date,
		usecase.ColumnDeliveryNote: note,
		usecase.ColumnTaxID:        taxID,
		usecase.ColumnCustomerName: name,
		usecase.ColumnArticle:      article,
		usecase.ColumnQuantity:     quantity,
		usecase.ColumnWeight:       weight,
	}
}

func importFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.customers.AddCompany(&domain.Company{ID: "co-1", TenantID: testTenant, TaxID: "30-70000000-1", Name: "Frigorifico SA"})
	f.customers.AddCompany(&domain.Company{ID: "co-2", TenantID: testTenant, TaxID: "30-80000000-2", Name: "Dos Sucursales SRL"})
	f.customers.AddCustomer(&domain.Customer{ID: "cust-1", TenantID: testTenant, TaxID: "20-11111111-1", CompanyID: "co-1"})
	f.customers.AddCustomer(&domain.Customer{ID: "cust-2", TenantID: testTenant, TaxID: "20-22222222-2"})
	f.customers.AddCustomer(&domain.Customer{ID: "cust-3a", TenantID: testTenant, TaxID: "20-33333333-3", CompanyID: "co-2"})
	f.customers.AddCustomer(&domain.Customer{ID: "cust-3b", TenantID: testTenant, TaxID: "20-44444444-4", CompanyID: "co-2"})
	return f
}

func TestImportUseCase_ImportRows_GroupsLines(t *testing.T) {
	f := importFixture(t)

	rows := []usecase.ImportRow{
		row("12/03/2025", "R-100", "30-70000000-1", "Frigorifico", "NOVILLO", 2.0, "100,5"),
		row("10/03/2025", "R-100", "30-70000000-1", "Frigorifico Sur", "NOVILLO", "1", 49.5),
		row("12/03/2025", "R-100", "20-22222222-2", "Juan", "VACA", 1, 80),
	}

	report, err := f.importer(0).ImportRows(tenantCtx(), usecase.ImportRowsInput{Rows: rows, Source: "march.csv"})
	require.NoError(t, err)

	assert.Equal(t, 3, report.RowsRead)
	assert.Equal(t, 3, report.RowsAccepted)
	assert.Equal(t, 2, report.GroupsProcessed)
	assert.Equal(t, 2, report.Created)
	assert.Zero(t, report.Unresolved)
	assert.Zero(t, report.ErrorCount)

	lines, err := f.orders.ListByDeliveryNote(context.Background(), testTenant, "R-100")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	var novillo *domain.Order
	for _, o := range lines {
		if o.Article == "NOVILLO" {
			novillo = o
		}
	}
	require.NotNil(t, novillo)
	assert.Equal(t, "cust-1", novillo.CustomerID)
	assert.True(t, dec("3").Equal(novillo.Quantity))
	assert.True(t, dec("150").Equal(novillo.WeightKg))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), novillo.DeliveryDate)
	assert.Contains(t, novillo.Notes, `SpreadsheetCustomer="Frigorifico, Frigorifico Sur"`)
	assert.False(t, novillo.Confirmed)

	assert.Equal(t, []string{domain.EventTypeImportCompleted}, f.outbox.Events())
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.ImportOrders.WithLabelValues("created")))
}

func TestImportUseCase_ImportRows_IsIdempotent(t *testing.T) {
	f := importFixture(t)
	rows := []usecase.ImportRow{
		row("2025-03-10", "R-1", "20-22222222-2", "Juan", "NOVILLO", 1, 100),
		row("2025-03-10", "R-2", "20-22222222-2", "Juan", "NOVILLO", 1, 100),
		row("2025-03-11", "R-3", "99-00000000-0", "Nadie", "CERDO", 1, 50),
	}
	uc := f.importer(0)

	first, err := uc.ImportRows(tenantCtx(), usecase.ImportRowsInput{Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Created)

	second, err := uc.ImportRows(tenantCtx(), usecase.ImportRowsInput{Rows: rows})
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 3, second.DuplicatesSkipped)
	require.Len(t, second.Duplicates, 3)
	assert.Equal(t, "2025-03-10 | R-1 | NOVILLO | 1.00 | 100.000", second.Duplicates[0])

	assert.Len(t, f.orders.All(testTenant), 3)
	assert.Equal(t, []string{domain.EventTypeImportCompleted}, f.outbox.Events())
}

func TestImportUseCase_ImportRows_RoutesToPlaceholders(t *testing.T) {
	f := importFixture(t)
	rows := []usecase.ImportRow{
		row("2025-03-10", "R-1", "30-80000000-2", "Dos", "NOVILLO", 1, 10),
		row("2025-03-10", "R-2", "27-99999999-9", "Desconocido", "NOVILLO", 1, 10),
		row("2025-03-10", "R-3", "", "Sin CUIT", "NOVILLO", 1, 10),
	}

	report, err := f.importer(0).ImportRows(tenantCtx(), usecase.ImportRowsInput{Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 3, report.Unresolved)
	require.Len(t, report.UnresolvedRows, 3)
	assert.True(t, strings.HasPrefix(report.UnresolvedRows[0], "row 2: "))

	temporary, err := f.customers.GetByTaxID(context.Background(), testTenant, domain.TemporaryTaxID)
	require.NoError(t, err)
	unregistered, err := f.customers.GetByTaxID(context.Background(), testTenant, domain.UnregisteredTaxID)
	require.NoError(t, err)

	byNote := map[string]*domain.Order{}
	for _, o := range f.orders.All(testTenant) {
		byNote[o.DeliveryNoteNo] = o
	}
	assert.Equal(t, temporary.ID, byNote["R-1"].CustomerID)
	assert.Contains(t, byNote["R-1"].Notes, "company with multiple customers")
	assert.Contains(t, byNote["R-1"].Notes, "cust-3a, cust-3b")
	assert.Equal(t, unregistered.ID, byNote["R-2"].CustomerID)
	assert.Contains(t, byNote["R-2"].Notes, "Tax id 27-99999999-9 not found")
	assert.Equal(t, unregistered.ID, byNote["R-3"].CustomerID)
	assert.Contains(t, byNote["R-3"].Notes, "Empty tax id")

	page, err := f.resolution().ListPendingOrders(tenantCtx(), usecase.PendingFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 3)
}

func TestImportUseCase_ImportRows_PlaceholdersCreatedOnce(t *testing.T) {
	f := importFixture(t)
	calls := 0
	f.customers.EnsurePlaceholderFunc = func(ctx context.Context, tx usecase.Transaction, company *domain.Company, customer *domain.Customer) (*domain.Customer, error) {
		calls++
		return customer, nil
	}
	rows := []usecase.ImportRow{
		row("2025-03-10", "R-1", "27-1", "a", "X", 1, 1),
		row("2025-03-10", "R-2", "27-2", "b", "X", 1, 1),
		row("2025-03-10", "R-3", "27-3", "c", "X", 1, 1),
	}

	_, err := f.importer(0).ImportRows(tenantCtx(), usecase.ImportRowsInput{Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestImportUseCase_ImportRows_MixedCustomers(t *testing.T) {
	f := importFixture(t)
	rows := []usecase.ImportRow{
		row("2025-03-10", "R-1", "20-22222222-2", "Juan", "NOVILLO", 1, 10),
		row("2025-03-10", "R-1", "30-70000000-1", "Frigorifico", "NOVILLO", 1, 10),
	}

	report, err := f.importer(0).ImportRows(tenantCtx(), usecase.ImportRowsInput{Rows: rows})
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	orders := f.orders.All(testTenant)
	require.Len(t, orders, 1)
	assert.Equal(t, "cust-2", orders[0].CustomerID)
	assert.Contains(t, orders[0].Notes, "Group with different customers (first customer_id=cust-2, other=cust-1)")
}

func TestImportUseCase_ImportRows_SkipsBadRows(t *testing.T) {
	f := importFixture(t)
	incomplete := row("2025-03-10", "R-9", "20-22222222-2", "Juan", "NOVILLO", 1, 1)
	delete(incomplete, usecase.ColumnWeight)

	rows := []usecase.ImportRow{
		incomplete,
		row("not a date", "R-1", "20-22222222-2", "Juan", "NOVILLO", 1, 1),
		row("2025-03-10", "  ", "20-22222222-2", "Juan", "NOVILLO", 1, 1),
		row("2025-03-10", "R-2", "20-22222222-2", "Juan", "", 1, 1),
		row("2025-01-01", "R-3", "20-22222222-2", "Juan", "NOVILLO", 1, 1),
		row("2025-03-10", "R-4", "20-22222222-2", "Juan", "NOVILLO", "n/a", nil),
	}

	report, err := f.importer(0).ImportRows(tenantCtx(), usecase.ImportRowsInput{
		Rows:     rows,
		FromDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 6, report.RowsRead)
	assert.Equal(t, 1, report.RowsAccepted)
	assert.Equal(t, 4, report.WarningCount)
	require.Len(t, report.Warnings, 4)
	assert.Equal(t, "row 2: missing columns KILOS, row skipped", report.Warnings[0])
	assert.Contains(t, report.Warnings[1], "row 3: invalid FECHA_REMITO")
	assert.Equal(t, 1, report.Created)

	orders := f.orders.All(testTenant)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Quantity.IsZero())
	assert.True(t, orders[0].WeightKg.IsZero())
}

func TestImportUseCase_ImportRows_TruncatesReport(t *testing.T) {
	f := importFixture(t)
	var rows []usecase.ImportRow
	for i := 0; i < 5; i++ {
		rows = append(rows, row("bad", "R", "", "", "A", 1, 1))
	}

	report, err := f.importer(2).ImportRows(tenantCtx(), usecase.ImportRowsInput{Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, 5, report.WarningCount)
	assert.Len(t, report.Warnings, 2)
	assert.True(t, report.Truncated)
	assert.Empty(t, f.outbox.Events())
}

func TestImportUseCase_ImportRows_StorageErrorsAreReported(t *testing.T) {
	f := importFixture(t)
	f.orders.InsertIfAbsentFunc = func(ctx context.Context, tx usecase.Transaction, o *domain.Order) (bool, error) {
		if o.DeliveryNoteNo == "R-1" {
			return false, errors.New("disk full")
		}
		return true, nil
	}
	rows := []usecase.ImportRow{
		row("2025-03-10", "R-1", "20-22222222-2", "Juan", "NOVILLO", 1, 10),
		row("2025-03-10", "R-2", "20-22222222-2", "Juan", "NOVILLO", 1, 10),
	}

	report, err := f.importer(0).ImportRows(tenantCtx(), usecase.ImportRowsInput{Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.ErrorCount)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "disk full")
}

func TestImportUseCase_ImportRows_Cancelled(t *testing.T) {
	f := importFixture(t)
	ctx, cancel := context.WithCancel(tenantCtx())
	cancel()

	report, err := f.importer(0).ImportRows(ctx, usecase.ImportRowsInput{Rows: []usecase.ImportRow{
		row("2025-03-10", "R-1", "20-22222222-2", "Juan", "NOVILLO", 1, 10),
	}})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.Created)
	assert.Empty(t, f.orders.All(testTenant))
}

func TestImportUseCase_ImportRows_RequiresTenant(t *testing.T) {
	f := importFixture(t)
	_, err := f.importer(0).ImportRows(context.Background(), usecase.ImportRowsInput{})
	assert.ErrorIs(t, err, domain.ErrTenantRequired)
}
