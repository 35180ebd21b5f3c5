package usecase_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

func pendingFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.addCustomer("temp", domain.TemporaryTaxID)
	f.addCustomer("unreg", domain.UnregisteredTaxID)
	f.addCustomer("cust-1", "20-11111111-1")
	f.addOrder("ord-temp", "temp", "10")
	f.addOrder("ord-unreg", "unreg", "20")
	f.addOrder("ord-real", "cust-1", "30")
	return f
}

func TestResolutionUseCase_ListPendingOrders(t *testing.T) {
	f := pendingFixture(t)

	page, err := f.resolution().ListPendingOrders(tenantCtx(), usecase.PendingFilter{})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	for _, o := range page.Orders {
		assert.NotEqual(t, "ord-real", o.ID)
	}
	assert.Equal(t, domain.DefaultPageSize, page.Meta.Limit)

	page, err = f.resolution().ListPendingOrders(tenantCtx(), usecase.PendingFilter{DeliveryNoteNo: "r-ord-UN"})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "ord-unreg", page.Orders[0].ID)
}

func TestResolutionUseCase_ResolveOrderCustomer(t *testing.T) {
	f := pendingFixture(t)

	order, err := f.resolution().ResolveOrderCustomer(tenantCtx(), usecase.ResolveOrderCustomerInput{
		OrderID:       "ord-temp",
		NewCustomerID: "cust-1",
		Reason:        strPtr("phone call"),
		Actor:         strPtr(" maria "),
	})
	require.NoError(t, err)

	assert.Equal(t, "cust-1", order.CustomerID)
	assert.Contains(t, order.Notes, "Customer resolved: 00-00000000-1 -> 20-11111111-1")
	assert.Contains(t, order.Notes, `Reason="phone call"`)

	audit, err := f.resolution().ListReassignments(tenantCtx(), "ord-temp")
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, "temp", audit[0].PreviousCustomerID)
	assert.Equal(t, "cust-1", audit[0].NewCustomerID)
	require.NotNil(t, audit[0].Actor)
	assert.Equal(t, "maria", *audit[0].Actor)

	page, err := f.resolution().ListPendingOrders(tenantCtx(), usecase.PendingFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)

	assert.Equal(t, []string{domain.EventTypeOrderCustomerResolved}, f.outbox.Events())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Resolutions))
}

func TestResolutionUseCase_ResolveOrderCustomer_ConfirmedKeepsMovement(t *testing.T) {
	f := pendingFixture(t)
	_, err := f.confirmation().ConfirmOrder(tenantCtx(), usecase.ConfirmOrderInput{
		OrderID:    "ord-unreg",
		CustomerID: "unreg",
		UnitPrice:  dec("2"),
	})
	require.NoError(t, err)

	order, err := f.resolution().ResolveOrderCustomer(tenantCtx(), usecase.ResolveOrderCustomerInput{
		OrderID:       "ord-unreg",
		NewCustomerID: "cust-1",
	})
	require.NoError(t, err)
	assert.True(t, order.Confirmed)
	assert.Equal(t, "cust-1", order.CustomerID)

	movements := f.movements.All(testTenant)
	require.Len(t, movements, 1)
	assert.Equal(t, "unreg", movements[0].CustomerID)
	assert.True(t, dec("40").Equal(f.balances.Amount(testTenant, "unreg")))
	assert.True(t, f.balances.Amount(testTenant, "cust-1").IsZero())
}

func TestResolutionUseCase_ResolveOrderCustomer_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.ResolveOrderCustomerInput
		wantErr error
	}{
		{"not pending", usecase.ResolveOrderCustomerInput{OrderID: "ord-real", NewCustomerID: "cust-1"}, domain.ErrOrderNotPending},
		{"same customer", usecase.ResolveOrderCustomerInput{OrderID: "ord-temp", NewCustomerID: "temp"}, domain.ErrSameCustomer},
		{"unknown target", usecase.ResolveOrderCustomerInput{OrderID: "ord-temp", NewCustomerID: "ghost"}, domain.ErrCustomerNotFound},
		{"unknown order", usecase.ResolveOrderCustomerInput{OrderID: "ghost", NewCustomerID: "cust-1"}, domain.ErrOrderNotFound},
		{"missing customer id", usecase.ResolveOrderCustomerInput{OrderID: "ord-temp"}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := pendingFixture(t)

			_, err := f.resolution().ResolveOrderCustomer(tenantCtx(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			audit, listErr := f.reassignments.ListByOrder(tenantCtx(), testTenant, tt.input.OrderID)
			require.NoError(t, listErr)
			assert.Empty(t, audit)
			assert.Empty(t, f.outbox.Events())
		})
	}
}

func TestResolutionUseCase_ResolveOrderCustomer_BetweenPlaceholders(t *testing.T) {
	f := pendingFixture(t)

	order, err := f.resolution().ResolveOrderCustomer(tenantCtx(), usecase.ResolveOrderCustomerInput{
		OrderID:       "ord-unreg",
		NewCustomerID: "temp",
	})
	require.NoError(t, err)
	assert.Equal(t, "temp", order.CustomerID)

	page, err := f.resolution().ListPendingOrders(tenantCtx(), usecase.PendingFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
}
