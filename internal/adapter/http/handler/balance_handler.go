package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
	GetBalance(ctx context.Context, customerID string) (*domain.Balance, error)
	SearchMovements(ctx context.Context, filter domain.MovementFilter) (*domain.MovementPage, error)
	ListMovementsByCustomer(ctx context.Context, customerID string) ([]*domain.Movement, error)
}

// BalanceHandler handles balance, movement and payment requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// GetBalance returns a customer's running balance.
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balanceUC.GetBalance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// RecordPayment records a customer payment.
func (h *BalanceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.balanceUC.RecordPayment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromResult(result))
}

// ListByCustomer lists every movement of a customer, newest first.
func (h *BalanceHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	movements, err := h.balanceUC.ListMovementsByCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to list movements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.MovementResponse]{Data: dto.MovementsFromDomain(movements)})
}

// SearchMovements searches movements across customers.
func (h *BalanceHandler) SearchMovements(w http.ResponseWriter, r *http.Request) {
	filter, err := movementFilterFromQuery(r)
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	page, err := h.balanceUC.SearchMovements(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to search movements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementPageFromDomain(page))
}

func movementFilterFromQuery(r *http.Request) (domain.MovementFilter, error) {
	q := r.URL.Query()
	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		return domain.MovementFilter{}, err
	}
	amountMin, err := parseDecimalQuery(r, "amount_min")
	if err != nil {
		return domain.MovementFilter{}, err
	}
	amountMax, err := parseDecimalQuery(r, "amount_max")
	if err != nil {
		return domain.MovementFilter{}, err
	}

	filter := domain.MovementFilter{
		CustomerID: strings.TrimSpace(q.Get("customer_id")),
		Kind:       domain.MovementKind(strings.ToUpper(strings.TrimSpace(q.Get("kind")))),
		DateFrom:   from,
		DateTo:     to,
		AmountMin:  amountMin,
		AmountMax:  amountMax,
		Page:       parsePage(r),
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("sort"))) {
	case "":
	case "date":
		filter.SortBy = domain.MovementSortDate
	case "created", "created_at":
		filter.SortBy = domain.MovementSortCreatedAt
	default:
		filter.SortBy = domain.MovementSortField(q.Get("sort"))
	}
	if dir := q.Get("dir"); dir != "" {
		filter.SortDir = domain.ParseSortDirection(dir)
	}
	return filter, nil
}
