package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
)

// ResolutionUseCase moves orders parked on a placeholder customer to the real
// one, keeping an audit trail. It never touches movements or balances.
type ResolutionUseCase struct {
	tx               *TxRunner
	orderRepo        OrderRepository
	customerRepo     CustomerRepository
	reassignmentRepo ReassignmentRepository
	outboxRepo       OutboxRepository
	idGen            IDGenerator
	metrics          *metrics.Metrics
}

// NewResolutionUseCase creates a new ResolutionUseCase.
func NewResolutionUseCase(
	tx *TxRunner,
	orderRepo OrderRepository,
	customerRepo CustomerRepository,
	reassignmentRepo ReassignmentRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ResolutionUseCase {
	return &ResolutionUseCase{
		tx:               tx,
		orderRepo:        orderRepo,
		customerRepo:     customerRepo,
		reassignmentRepo: reassignmentRepo,
		outboxRepo:       outboxRepo,
		idGen:            idGen,
		metrics:          metrics,
	}
}

// PendingFilter narrows the pending-order listing.
type PendingFilter struct {
	DeliveryNoteNo string
	Article        string
	SortDir        domain.SortDirection
	Page           domain.Page
}

// ResolveOrderCustomerInput represents input for resolving a pending order.
type ResolveOrderCustomerInput struct {
	OrderID       string
	NewCustomerID string
	Reason        *string
	Actor         *string
}

// ListPendingOrders returns orders assigned to a placeholder customer, newest
// first unless asked otherwise.
func (uc *ResolutionUseCase) ListPendingOrders(ctx context.Context, filter PendingFilter) (*domain.OrderPage, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}

	orderFilter, err := normalizeOrderFilter(domain.OrderFilter{
		DeliveryNoteNo: filter.DeliveryNoteNo,
		Article:        filter.Article,
		PendingOnly:    true,
		SortBy:         domain.OrderSortCreatedAt,
		SortDir:        filter.SortDir,
		Page:           filter.Page,
	}, domain.OrderSortCreatedAt)
	if err != nil {
		return nil, err
	}
	return uc.orderRepo.Search(ctx, tenantID, orderFilter)
}

// ResolveOrderCustomer reassigns a pending order to newCustomerID, appends a
// transition note and writes the audit record, all in one transaction.
func (uc *ResolutionUseCase) ResolveOrderCustomer(ctx context.Context, input ResolveOrderCustomerInput) (*domain.Order, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateID("order_id", input.OrderID); err != nil {
		return nil, err
	}
	if err := domain.ValidateID("customer_id", input.NewCustomerID); err != nil {
		return nil, err
	}
	reason := cleanNote(input.Reason)
	actor := cleanNote(input.Actor)
	if reason != nil {
		if err := domain.ValidateText("reason", *reason, domain.MaxReasonLength); err != nil {
			return nil, err
		}
	}
	if actor != nil {
		if err := domain.ValidateText("actor", *actor, domain.MaxActorLength); err != nil {
			return nil, err
		}
	}

	var (
		resolved     *domain.Order
		reassignment *domain.OrderReassignment
	)

	err = uc.tx.RunDetached(ctx, func(txCtx context.Context, tx Transaction) error {
		order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, tenantID, input.OrderID)
		if err != nil {
			return err
		}

		current, err := uc.customerRepo.GetByIDTx(txCtx, tx, tenantID, order.CustomerID)
		if err != nil {
			return err
		}
		if !current.IsPlaceholder() {
			return domain.ErrOrderNotPending
		}

		target, err := uc.customerRepo.GetByIDTx(txCtx, tx, tenantID, strings.TrimSpace(input.NewCustomerID))
		if err != nil {
			return err
		}
		if target.ID == current.ID {
			return domain.ErrSameCustomer
		}

		now := time.Now().UTC()
		order.CustomerID = target.ID
		order.AppendNotes(domain.ReassignmentNote(current.TaxID, target.TaxID, reason))
		order.UpdatedAt = now
		if err := uc.orderRepo.Update(txCtx, tx, order); err != nil {
			return err
		}

		reassignment = &domain.OrderReassignment{
			ID:                 uc.idGen.Generate(),
			TenantID:           tenantID,
			OrderID:            order.ID,
			PreviousCustomerID: current.ID,
			NewCustomerID:      target.ID,
			Reason:             reason,
			Actor:              actor,
			CreatedAt:          now,
		}
		if err := uc.reassignmentRepo.Create(txCtx, tx, reassignment); err != nil {
			return err
		}

		event := newOutboxEvent(uc.idGen, tenantID, domain.AggregateTypeOrder, order.ID, domain.EventTypeOrderCustomerResolved,
			map[string]any{
				"order_id":             order.ID,
				"reassignment_id":      reassignment.ID,
				"previous_customer_id": current.ID,
				"customer_id":          target.ID,
				"confirmed":            order.Confirmed,
			}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		resolved = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Resolutions.Inc()
	}

	logEvent := zerolog.Ctx(ctx).Info().
		Str("order_id", resolved.ID).
		Str("previous_customer_id", reassignment.PreviousCustomerID).
		Str("customer_id", reassignment.NewCustomerID)
	if resolved.Confirmed {
		// The sale movement stays with the previous customer.
		logEvent = logEvent.Bool("confirmed", true)
	}
	logEvent.Msg("order customer resolved")

	return resolved, nil
}

// ListReassignments returns the audit trail of an order, oldest first.
func (uc *ResolutionUseCase) ListReassignments(ctx context.Context, orderID string) ([]*domain.OrderReassignment, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateID("order_id", orderID); err != nil {
		return nil, err
	}
	if _, err := uc.orderRepo.GetByID(ctx, tenantID, orderID); err != nil {
		return nil, err
	}
	return uc.reassignmentRepo.ListByOrder(ctx, tenantID, orderID)
}
