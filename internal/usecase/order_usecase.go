package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
)

// OrderUseCase handles draft order entry and order queries.
type OrderUseCase struct {
	tx           *TxRunner
	orderRepo    OrderRepository
	customerRepo CustomerRepository
	idGen        IDGenerator
}

// NewOrderUseCase creates a new OrderUseCase.
func NewOrderUseCase(tx *TxRunner, orderRepo OrderRepository, customerRepo CustomerRepository, idGen IDGenerator) *OrderUseCase {
	return &OrderUseCase{
		tx:           tx,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		idGen:        idGen,
	}
}

// CreateOrderInput represents input for entering a draft order by hand.
type CreateOrderInput struct {
	CustomerID     string
	DeliveryDate   time.Time
	DeliveryNoteNo string
	Article        string
	Quantity       decimal.Decimal
	WeightKg       decimal.Decimal
	Notes          string
}

// UpdateDraftOrderInput is a partial update of a draft order. Notes follow
// the tri-state rule: unset keeps, empty clears, a value replaces.
type UpdateDraftOrderInput struct {
	CustomerID     *string
	DeliveryDate   *time.Time
	DeliveryNoteNo *string
	Article        *string
	Quantity       *decimal.Decimal
	WeightKg       *decimal.Decimal
	Notes          domain.Optional[string]
}

// CreateOrder stores a new draft order.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:             uc.idGen.Generate(),
		TenantID:       tenantID,
		CustomerID:     strings.TrimSpace(input.CustomerID),
		DeliveryDate:   domain.DateOnly(input.DeliveryDate),
		DeliveryNoteNo: strings.TrimSpace(input.DeliveryNoteNo),
		Article:        strings.TrimSpace(input.Article),
		Quantity:       input.Quantity.Round(domain.QuantityScale),
		WeightKg:       input.WeightKg.Round(domain.WeightScale),
		Notes:          domain.JoinNotes(input.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.DeliveryDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if err := validateDraft(order); err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(txCtx context.Context, tx Transaction) error {
		if _, err := uc.customerRepo.GetByIDTx(txCtx, tx, tenantID, order.CustomerID); err != nil {
			return err
		}
		return uc.orderRepo.Create(txCtx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("order_id", order.ID).Str("delivery_note", order.DeliveryNoteNo).Msg("draft order created")
	return order, nil
}

// GetOrder returns an order by id.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateID("order_id", id); err != nil {
		return nil, err
	}
	return uc.orderRepo.GetByID(ctx, tenantID, id)
}

// SearchOrders returns a page of orders matching filter.
func (uc *OrderUseCase) SearchOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	filter, err = normalizeOrderFilter(filter, domain.OrderSortDeliveryDate)
	if err != nil {
		return nil, err
	}
	return uc.orderRepo.Search(ctx, tenantID, filter)
}

// ListOrdersByDeliveryNote returns every line of a delivery note.
func (uc *OrderUseCase) ListOrdersByDeliveryNote(ctx context.Context, deliveryNoteNo string) ([]*domain.Order, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDeliveryNoteNo(deliveryNoteNo); err != nil {
		return nil, err
	}
	return uc.orderRepo.ListByDeliveryNote(ctx, tenantID, strings.TrimSpace(deliveryNoteNo))
}

// ListOrdersByCustomer returns a customer's orders, optionally limited to a
// delivery date range.
func (uc *OrderUseCase) ListOrdersByCustomer(ctx context.Context, customerID string, from, to *time.Time) ([]*domain.Order, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateID("customer_id", customerID); err != nil {
		return nil, err
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if _, err := uc.customerRepo.GetByID(ctx, tenantID, customerID); err != nil {
		return nil, err
	}
	return uc.orderRepo.ListByCustomer(ctx, tenantID, customerID, from, to)
}

// UpdateDraftOrder applies a partial update to an unconfirmed order.
func (uc *OrderUseCase) UpdateDraftOrder(ctx context.Context, id string, input UpdateDraftOrderInput) (*domain.Order, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateID("order_id", id); err != nil {
		return nil, err
	}

	var updated *domain.Order
	err = uc.tx.Run(ctx, func(txCtx context.Context, tx Transaction) error {
		order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, tenantID, id)
		if err != nil {
			return err
		}
		if order.Confirmed {
			return domain.ErrOrderConfirmed
		}

		if input.CustomerID != nil && *input.CustomerID != order.CustomerID {
			customer, err := uc.customerRepo.GetByIDTx(txCtx, tx, tenantID, *input.CustomerID)
			if err != nil {
				return err
			}
			order.CustomerID = customer.ID
		}
		if input.DeliveryDate != nil {
			order.DeliveryDate = domain.DateOnly(*input.DeliveryDate)
		}
		if input.DeliveryNoteNo != nil {
			order.DeliveryNoteNo = strings.TrimSpace(*input.DeliveryNoteNo)
		}
		if input.Article != nil {
			order.Article = strings.TrimSpace(*input.Article)
		}
		if input.Quantity != nil {
			order.Quantity = input.Quantity.Round(domain.QuantityScale)
		}
		if input.WeightKg != nil {
			order.WeightKg = input.WeightKg.Round(domain.WeightScale)
		}
		current := &order.Notes
		if notes := domain.ApplyText(current, input.Notes); notes == nil {
			order.Notes = ""
		} else {
			order.Notes = domain.JoinNotes(*notes)
		}

		if err := validateDraft(order); err != nil {
			return err
		}

		order.UpdatedAt = time.Now().UTC()
		if err := uc.orderRepo.Update(txCtx, tx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOrder removes an unconfirmed order.
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, id string) error {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return err
	}
	if err := domain.ValidateID("order_id", id); err != nil {
		return err
	}

	return uc.tx.Run(ctx, func(txCtx context.Context, tx Transaction) error {
		order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, tenantID, id)
		if err != nil {
			return err
		}
		if order.Confirmed {
			return domain.ErrOrderConfirmed
		}
		return uc.orderRepo.Delete(txCtx, tx, tenantID, id)
	})
}

// DeleteUnconfirmedOrders removes drafts with a delivery date in the optional
// range and returns how many were deleted.
func (uc *OrderUseCase) DeleteUnconfirmedOrders(ctx context.Context, from, to *time.Time) (int64, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return 0, err
	}
	if err := validateRange(from, to); err != nil {
		return 0, err
	}

	var deleted int64
	err = uc.tx.Run(ctx, func(txCtx context.Context, tx Transaction) error {
		n, err := uc.orderRepo.DeleteUnconfirmed(txCtx, tx, tenantID, from, to)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}

	zerolog.Ctx(ctx).Info().Int64("deleted", deleted).Msg("unconfirmed orders deleted")
	return deleted, nil
}

func validateDraft(order *domain.Order) error {
	if err := domain.ValidateID("customer_id", order.CustomerID); err != nil {
		return err
	}
	if err := domain.ValidateDeliveryNoteNo(order.DeliveryNoteNo); err != nil {
		return err
	}
	if err := domain.ValidateArticle(order.Article); err != nil {
		return err
	}
	return domain.ValidateQuantities(order.Quantity, order.WeightKg)
}

func validateRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return domain.NewValidationError("date_from is after date_to")
	}
	return nil
}

func normalizeOrderFilter(filter domain.OrderFilter, defaultSort domain.OrderSortField) (domain.OrderFilter, error) {
	if err := validateRange(filter.DateFrom, filter.DateTo); err != nil {
		return filter, err
	}
	switch filter.SortBy {
	case "":
		filter.SortBy = defaultSort
	case domain.OrderSortDeliveryDate, domain.OrderSortDeliveryNoteNo, domain.OrderSortCreatedAt:
	default:
		return filter, domain.NewValidationError("cannot sort orders by %q", filter.SortBy)
	}
	if filter.SortDir == "" {
		filter.SortDir = domain.SortDesc
	}
	filter.DeliveryNoteNo = strings.TrimSpace(filter.DeliveryNoteNo)
	filter.Article = strings.TrimSpace(filter.Article)
	filter.Page = domain.NewPage(filter.Page.Number, filter.Page.Limit)
	return filter, nil
}
