package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type orderServiceStub struct {
	createFn            func(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error)
	getFn               func(ctx context.Context, id string) (*domain.Order, error)
	searchFn            func(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error)
	byDeliveryNoteFn    func(ctx context.Context, number string) ([]*domain.Order, error)
	byCustomerFn        func(ctx context.Context, customerID string, from, to *time.Time) ([]*domain.Order, error)
	updateFn            func(ctx context.Context, id string, input usecase.UpdateDraftOrderInput) (*domain.Order, error)
	deleteFn            func(ctx context.Context, id string) error
	deleteUnconfirmedFn func(ctx context.Context, from, to *time.Time) (int64, error)
}

func (s *orderServiceStub) CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, input)
}

func (s *orderServiceStub) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getFn(ctx, id)
}

func (s *orderServiceStub) SearchOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	return s.searchFn(ctx, filter)
}

func (s *orderServiceStub) ListOrdersByDeliveryNote(ctx context.Context, number string) ([]*domain.Order, error) {
	return s.byDeliveryNoteFn(ctx, number)
}

func (s *orderServiceStub) ListOrdersByCustomer(ctx context.Context, customerID string, from, to *time.Time) ([]*domain.Order, error) {
	return s.byCustomerFn(ctx, customerID, from, to)
}

func (s *orderServiceStub) UpdateDraftOrder(ctx context.Context, id string, input usecase.UpdateDraftOrderInput) (*domain.Order, error) {
	return s.updateFn(ctx, id, input)
}

func (s *orderServiceStub) DeleteOrder(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *orderServiceStub) DeleteUnconfirmedOrders(ctx context.Context, from, to *time.Time) (int64, error) {
	return s.deleteUnconfirmedFn(ctx, from, to)
}

type confirmationServiceStub struct {
	confirmFn func(ctx context.Context, input usecase.ConfirmOrderInput) (*usecase.ConfirmationResult, error)
	amendFn   func(ctx context.Context, input usecase.AmendConfirmationInput) (*usecase.ConfirmationResult, error)
}

func (s *confirmationServiceStub) ConfirmOrder(ctx context.Context, input usecase.ConfirmOrderInput) (*usecase.ConfirmationResult, error) {
	return s.confirmFn(ctx, input)
}

func (s *confirmationServiceStub) AmendConfirmation(ctx context.Context, input usecase.AmendConfirmationInput) (*usecase.ConfirmationResult, error) {
	return s.amendFn(ctx, input)
}

type resolutionServiceStub struct {
	pendingFn       func(ctx context.Context, filter usecase.PendingFilter) (*domain.OrderPage, error)
	resolveFn       func(ctx context.Context, input usecase.ResolveOrderCustomerInput) (*domain.Order, error)
	reassignmentsFn func(ctx context.Context, orderID string) ([]*domain.OrderReassignment, error)
}

func (s *resolutionServiceStub) ListPendingOrders(ctx context.Context, filter usecase.PendingFilter) (*domain.OrderPage, error) {
	return s.pendingFn(ctx, filter)
}

func (s *resolutionServiceStub) ResolveOrderCustomer(ctx context.Context, input usecase.ResolveOrderCustomerInput) (*domain.Order, error) {
	return s.resolveFn(ctx, input)
}

func (s *resolutionServiceStub) ListReassignments(ctx context.Context, orderID string) ([]*domain.OrderReassignment, error) {
	return s.reassignmentsFn(ctx, orderID)
}

type importServiceStub struct {
	importFn func(ctx context.Context, input usecase.ImportRowsInput) (*usecase.ImportReport, error)
}

func (s *importServiceStub) ImportRows(ctx context.Context, input usecase.ImportRowsInput) (*usecase.ImportReport, error) {
	return s.importFn(ctx, input)
}

type balanceServiceStub struct {
	paymentFn    func(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
	balanceFn    func(ctx context.Context, customerID string) (*domain.Balance, error)
	searchFn     func(ctx context.Context, filter domain.MovementFilter) (*domain.MovementPage, error)
	byCustomerFn func(ctx context.Context, customerID string) ([]*domain.Movement, error)
}

func (s *balanceServiceStub) RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error) {
	return s.paymentFn(ctx, input)
}

func (s *balanceServiceStub) GetBalance(ctx context.Context, customerID string) (*domain.Balance, error) {
	return s.balanceFn(ctx, customerID)
}

func (s *balanceServiceStub) SearchMovements(ctx context.Context, filter domain.MovementFilter) (*domain.MovementPage, error) {
	return s.searchFn(ctx, filter)
}

func (s *balanceServiceStub) ListMovementsByCustomer(ctx context.Context, customerID string) ([]*domain.Movement, error) {
	return s.byCustomerFn(ctx, customerID)
}

type reconciliationServiceStub struct {
	checkFn func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *reconciliationServiceStub) CheckBalances(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.checkFn(ctx)
}

type reportServiceStub struct {
	debtFn func(ctx context.Context, from, to time.Time) ([]domain.DebtRow, error)
}

func (s *reportServiceStub) DebtByCustomer(ctx context.Context, from, to time.Time) ([]domain.DebtRow, error) {
	return s.debtFn(ctx, from, to)
}
