package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
	"github.com/iho/ctacte/internal/usecase"
	"github.com/iho/ctacte/internal/usecase/mocks"
)

const testTenant = "tenant-a"

// fixture wires every use case to one set of in-memory repositories.
type fixture struct {
	t             *testing.T
	customers     *mocks.MockCustomerRepository
	orders        *mocks.MockOrderRepository
	movements     *mocks.MockMovementRepository
	balances      *mocks.MockBalanceRepository
	reassignments *mocks.MockReassignmentRepository
	outbox        *mocks.MockOutboxRepository
	txMgr         *mocks.MockTransactionManager
	idGen         *mocks.MockIDGenerator
	metrics       *metrics.Metrics
	runner        *usecase.TxRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:             t,
		customers:     mocks.NewMockCustomerRepository(),
		orders:        mocks.NewMockOrderRepository(),
		movements:     mocks.NewMockMovementRepository(),
		balances:      mocks.NewMockBalanceRepository(),
		reassignments: mocks.NewMockReassignmentRepository(),
		outbox:        mocks.NewMockOutboxRepository(),
		txMgr:         mocks.NewMockTransactionManager(),
		idGen:         mocks.NewMockIDGenerator(),
		metrics:       metrics.NewWithRegisterer(prometheus.NewRegistry()),
	}
	f.orders.Customers = f.customers
	f.runner = usecase.NewTxRunner(f.txMgr, nil, time.Second)
	return f
}

func (f *fixture) confirmation() *usecase.ConfirmationUseCase {
	return usecase.NewConfirmationUseCase(f.runner, f.orders, f.customers, f.movements, f.balances, f.outbox, f.idGen, f.metrics)
}

func (f *fixture) balance() *usecase.BalanceUseCase {
	return usecase.NewBalanceUseCase(f.runner, f.customers, f.movements, f.balances, f.outbox, f.idGen, f.metrics)
}

func (f *fixture) ordersUC() *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(f.runner, f.orders, f.customers, f.idGen)
}

func (f *fixture) resolution() *usecase.ResolutionUseCase {
	return usecase.NewResolutionUseCase(f.runner, f.orders, f.customers, f.reassignments, f.outbox, f.idGen, f.metrics)
}

func (f *fixture) importer(maxReportItems int) *usecase.ImportUseCase {
	return usecase.NewImportUseCase(f.runner, f.orders, f.customers, f.outbox, f.idGen, f.metrics, maxReportItems)
}

func (f *fixture) addCustomer(id, taxID string) *domain.Customer {
	c := &domain.Customer{ID: id, TenantID: testTenant, TaxID: taxID, FirstName: id}
	f.customers.AddCustomer(c)
	return c
}

func (f *fixture) addOrder(id, customerID string, weight string) *domain.Order {
	o := &domain.Order{
		ID:             id,
		TenantID:       testTenant,
		CustomerID:     customerID,
		DeliveryDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DeliveryNoteNo: "R-" + id,
		Article:        "NOVILLO",
		Quantity:       decimal.NewFromInt(1),
		WeightKg:       decimal.RequireFromString(weight),
	}
	require.NoError(f.t, f.orders.Create(context.Background(), nil, o))
	return o
}

func tenantCtx() context.Context {
	return domain.WithTenant(context.Background(), testTenant)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}
