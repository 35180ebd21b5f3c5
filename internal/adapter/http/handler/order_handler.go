package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// OrderService defines the behavior needed by OrderHandler.
type OrderService interface {
	CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error)
	ListOrdersByDeliveryNote(ctx context.Context, deliveryNoteNo string) ([]*domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string, from, to *time.Time) ([]*domain.Order, error)
	UpdateDraftOrder(ctx context.Context, id string, input usecase.UpdateDraftOrderInput) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	DeleteUnconfirmedOrders(ctx context.Context, from, to *time.Time) (int64, error)
}

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	orderUC OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderUC OrderService) *OrderHandler {
	return &OrderHandler{orderUC: orderUC}
}

// Create enters a draft order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.orderUC.CreateOrder(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OrderFromDomain(order))
}

// Get retrieves an order by ID.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUC.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get order", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// List searches orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := orderFilterFromQuery(r)
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	page, err := h.orderUC.SearchOrders(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to list orders", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderPageFromDomain(page))
}

// Update patches a draft order.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.orderUC.UpdateDraftOrder(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to update order", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// Delete removes a draft order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orderUC.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, "failed to delete order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUnconfirmed removes every draft order, optionally within a delivery
// date range.
func (h *OrderHandler) DeleteUnconfirmed(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	n, err := h.orderUC.DeleteUnconfirmedOrders(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, r, "failed to delete orders", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DeletedResponse{Deleted: n})
}

// ListByDeliveryNote lists the lines of one delivery note.
func (h *OrderHandler) ListByDeliveryNote(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUC.ListOrdersByDeliveryNote(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeDomainError(w, r, "failed to list orders", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.OrderResponse]{Data: dto.OrdersFromDomain(orders)})
}

// ListByCustomer lists a customer's orders.
func (h *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	orders, err := h.orderUC.ListOrdersByCustomer(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeDomainError(w, r, "failed to list orders", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.OrderResponse]{Data: dto.OrdersFromDomain(orders)})
}

func orderFilterFromQuery(r *http.Request) (domain.OrderFilter, error) {
	q := r.URL.Query()
	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		return domain.OrderFilter{}, err
	}
	confirmed, err := parseBoolQuery(r, "confirmed")
	if err != nil {
		return domain.OrderFilter{}, err
	}

	filter := domain.OrderFilter{
		CustomerID:     strings.TrimSpace(q.Get("customer_id")),
		DeliveryNoteNo: q.Get("delivery_note"),
		Article:        q.Get("article"),
		DateFrom:       from,
		DateTo:         to,
		Confirmed:      confirmed,
		SortBy:         orderSortField(q.Get("sort")),
		Page:           parsePage(r),
	}
	if dir := q.Get("dir"); dir != "" {
		filter.SortDir = domain.ParseSortDirection(dir)
	}
	return filter, nil
}

func orderSortField(s string) domain.OrderSortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ""
	case "date", "delivery_date":
		return domain.OrderSortDeliveryDate
	case "delivery_note", "delivery_note_no", "number":
		return domain.OrderSortDeliveryNoteNo
	case "created", "created_at":
		return domain.OrderSortCreatedAt
	default:
		return domain.OrderSortField(s)
	}
}

func dateRangeFromQuery(r *http.Request) (*time.Time, *time.Time, error) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
