package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// ResolutionService defines the behavior needed by ResolutionHandler.
type ResolutionService interface {
	ListPendingOrders(ctx context.Context, filter usecase.PendingFilter) (*domain.OrderPage, error)
	ResolveOrderCustomer(ctx context.Context, input usecase.ResolveOrderCustomerInput) (*domain.Order, error)
	ListReassignments(ctx context.Context, orderID string) ([]*domain.OrderReassignment, error)
}

// ResolutionHandler handles pending-order requests.
type ResolutionHandler struct {
	resolutionUC ResolutionService
}

// NewResolutionHandler creates a new ResolutionHandler.
func NewResolutionHandler(resolutionUC ResolutionService) *ResolutionHandler {
	return &ResolutionHandler{resolutionUC: resolutionUC}
}

// ListPending lists orders waiting for a real customer.
func (h *ResolutionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := usecase.PendingFilter{
		DeliveryNoteNo: q.Get("delivery_note"),
		Article:        q.Get("article"),
		Page:           parsePage(r),
	}
	if dir := q.Get("dir"); dir != "" {
		filter.SortDir = domain.ParseSortDirection(dir)
	}

	page, err := h.resolutionUC.ListPendingOrders(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to list pending orders", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderPageFromDomain(page))
}

// Resolve moves a pending order to a real customer.
func (h *ResolutionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveCustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.resolutionUC.ResolveOrderCustomer(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to resolve customer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// ListReassignments returns the audit trail of an order.
func (h *ResolutionHandler) ListReassignments(w http.ResponseWriter, r *http.Request) {
	items, err := h.resolutionUC.ListReassignments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to list reassignments", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.ReassignmentResponse]{Data: dto.ReassignmentsFromDomain(items)})
}
