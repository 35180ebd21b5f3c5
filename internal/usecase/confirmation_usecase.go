package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
)

// ConfirmationUseCase posts orders to the ledger and amends confirmed ones.
type ConfirmationUseCase struct {
	tx           *TxRunner
	orderRepo    OrderRepository
	customerRepo CustomerRepository
	movementRepo MovementRepository
	balanceRepo  BalanceRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewConfirmationUseCase creates a new ConfirmationUseCase.
func NewConfirmationUseCase(
	tx *TxRunner,
	orderRepo OrderRepository,
	customerRepo CustomerRepository,
	movementRepo MovementRepository,
	balanceRepo BalanceRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ConfirmationUseCase {
	return &ConfirmationUseCase{
		tx:           tx,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		movementRepo: movementRepo,
		balanceRepo:  balanceRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// ConfirmOrderInput represents input for confirming an order.
type ConfirmOrderInput struct {
	OrderID      string
	CustomerID   string
	UnitPrice    decimal.Decimal
	Observations string
	Note         *string
}

// AmendConfirmationInput represents input for amending a confirmed order.
// Nil fields are left unchanged.
type AmendConfirmationInput struct {
	OrderID      string
	CustomerID   *string
	UnitPrice    *decimal.Decimal
	Recreate     bool
	Observations string
	Note         domain.Optional[string]
}

// ConfirmationResult is the state after a confirmation or amendment.
type ConfirmationResult struct {
	Order    *domain.Order
	Movement *domain.Movement
	// Balance is the final customer's balance after the write, when it was
	// touched.
	Balance *decimal.Decimal
}

// ConfirmOrder prices the order, writes its SALE movement and adds the total
// to the customer's balance in one transaction. Retrying a confirmation that
// already happened returns *domain.AlreadyConfirmedError.
func (uc *ConfirmationUseCase) ConfirmOrder(ctx context.Context, input ConfirmOrderInput) (*ConfirmationResult, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateConfirmInput(input); err != nil {
		return nil, err
	}

	existing, err := uc.movementRepo.GetByOrder(ctx, tenantID, domain.MovementSale, input.OrderID)
	switch {
	case err == nil:
		uc.recordConflict()
		return nil, &domain.AlreadyConfirmedError{OrderID: input.OrderID, Movement: existing}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	start := time.Now()
	var result *ConfirmationResult

	err = uc.tx.RunDetached(ctx, func(txCtx context.Context, tx Transaction) error {
		order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, tenantID, input.OrderID)
		if err != nil {
			return err
		}

		if order.Confirmed {
			// Another confirmation committed while we waited for the lock.
			winner, err := uc.movementRepo.GetByOrderForUpdate(txCtx, tx, tenantID, domain.MovementSale, order.ID)
			if err != nil {
				return domain.ErrOrderConfirmed
			}
			return &domain.AlreadyConfirmedError{OrderID: order.ID, Movement: winner}
		}

		customer, err := uc.customerRepo.GetByIDTx(txCtx, tx, tenantID, input.CustomerID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		total := order.ApplyConfirmation(customer.ID, input.UnitPrice, input.Observations, now)

		orderID := order.ID
		movement := &domain.Movement{
			ID:         uc.idGen.Generate(),
			TenantID:   tenantID,
			CustomerID: customer.ID,
			Kind:       domain.MovementSale,
			Date:       order.DeliveryDate,
			Amount:     total,
			OrderID:    &orderID,
			Note:       cleanNote(input.Note),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
			return err
		}

		if err := uc.orderRepo.Update(txCtx, tx, order); err != nil {
			return err
		}

		balance, err := uc.balanceRepo.ApplyDelta(txCtx, tx, tenantID, customer.ID, total)
		if err != nil {
			return err
		}

		event := newOutboxEvent(uc.idGen, tenantID, domain.AggregateTypeOrder, order.ID, domain.EventTypeOrderConfirmed,
			domain.OrderConfirmedEvent{
				OrderID:    order.ID,
				MovementID: movement.ID,
				CustomerID: customer.ID,
				UnitPrice:  input.UnitPrice.String(),
				Total:      total.StringFixed(domain.MoneyScale),
				Balance:    balance.StringFixed(domain.MoneyScale),
			}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		result = &ConfirmationResult{Order: order, Movement: movement, Balance: &balance}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyConfirmed) {
			uc.recordConflict()
			return nil, uc.alreadyConfirmed(ctx, tenantID, input.OrderID, err)
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersConfirmed.Inc()
		uc.metrics.ConfirmationDuration.Observe(time.Since(start).Seconds())
		uc.metrics.ConfirmedAmount.Observe(result.Movement.Amount.InexactFloat64())
	}

	zerolog.Ctx(ctx).Info().
		Str("order_id", result.Order.ID).
		Str("customer_id", result.Movement.CustomerID).
		Str("total", result.Movement.Amount.StringFixed(domain.MoneyScale)).
		Msg("order confirmed")

	return result, nil
}

// alreadyConfirmed attaches the winning movement to an AlreadyConfirmed
// outcome. A unique violation aborts the transaction, so the movement is read
// again outside of it.
func (uc *ConfirmationUseCase) alreadyConfirmed(ctx context.Context, tenantID, orderID string, cause error) error {
	var ace *domain.AlreadyConfirmedError
	if errors.As(cause, &ace) && ace.Movement != nil {
		return ace
	}
	existing, err := uc.movementRepo.GetByOrder(ctx, tenantID, domain.MovementSale, orderID)
	if err != nil {
		return &domain.AlreadyConfirmedError{OrderID: orderID}
	}
	return &domain.AlreadyConfirmedError{OrderID: orderID, Movement: existing}
}

func (uc *ConfirmationUseCase) recordConflict() {
	if uc.metrics != nil {
		uc.metrics.ConfirmationConflicts.Inc()
	}
}

// AmendConfirmation reprices and/or reassigns a confirmed order. Balances move
// by deltas only: a price change on the same customer applies newTotal -
// oldTotal, a customer change removes the old amount from the old customer
// and adds the new total to the new one.
func (uc *ConfirmationUseCase) AmendConfirmation(ctx context.Context, input AmendConfirmationInput) (*ConfirmationResult, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateAmendInput(input); err != nil {
		return nil, err
	}

	var (
		result *ConfirmationResult
		kind   string
	)

	err = uc.tx.RunDetached(ctx, func(txCtx context.Context, tx Transaction) error {
		order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, tenantID, input.OrderID)
		if err != nil {
			return err
		}

		movement, err := uc.movementRepo.GetByOrderForUpdate(txCtx, tx, tenantID, domain.MovementSale, order.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: order %s has no sale movement", domain.ErrNotConfirmedYet, order.ID)
		}
		if err != nil {
			return err
		}

		oldCustomerID := movement.CustomerID
		oldTotal := movement.Amount

		newCustomerID := oldCustomerID
		if input.CustomerID != nil && *input.CustomerID != oldCustomerID {
			customer, err := uc.customerRepo.GetByIDTx(txCtx, tx, tenantID, *input.CustomerID)
			if err != nil {
				return err
			}
			newCustomerID = customer.ID
		}

		priceChanged := input.UnitPrice != nil && (order.UnitPrice == nil || !input.UnitPrice.Equal(*order.UnitPrice))
		customerChanged := newCustomerID != oldCustomerID
		newNote := domain.ApplyText(movement.Note, input.Note)
		noteChanged := !equalNotes(newNote, movement.Note)
		observations := strings.TrimSpace(input.Observations) != ""

		if !priceChanged && !customerChanged && !noteChanged && !observations && !input.Recreate {
			return domain.ErrNothingToAmend
		}
		kind = amendmentKind(customerChanged, priceChanged, input.Recreate)

		newTotal := oldTotal
		if priceChanged {
			newTotal = order.Total(*input.UnitPrice)
		}

		deltas := map[string]decimal.Decimal{}
		if customerChanged {
			deltas[oldCustomerID] = oldTotal.Neg()
			deltas[newCustomerID] = newTotal
		} else if !newTotal.Equal(oldTotal) {
			deltas[newCustomerID] = newTotal.Sub(oldTotal)
		}

		balance, err := uc.applyDeltas(txCtx, tx, tenantID, deltas, newCustomerID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if input.CustomerID != nil {
			order.CustomerID = newCustomerID
		}
		if priceChanged {
			price := *input.UnitPrice
			order.UnitPrice = &price
			order.TotalPrice = &newTotal
		}
		order.Confirmed = true
		order.AppendNotes(input.Observations)
		order.UpdatedAt = now
		if err := uc.orderRepo.Update(txCtx, tx, order); err != nil {
			return err
		}

		if input.Recreate {
			if err := uc.movementRepo.Delete(txCtx, tx, tenantID, movement.ID); err != nil {
				return err
			}
			orderID := order.ID
			movement = &domain.Movement{
				ID:         uc.idGen.Generate(),
				TenantID:   tenantID,
				CustomerID: newCustomerID,
				Kind:       domain.MovementSale,
				Date:       movement.Date,
				Amount:     newTotal,
				OrderID:    &orderID,
				Note:       newNote,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
				return err
			}
		} else {
			movement.CustomerID = newCustomerID
			movement.Amount = newTotal
			movement.Note = newNote
			movement.UpdatedAt = now
			if err := uc.movementRepo.Update(txCtx, tx, movement); err != nil {
				return err
			}
		}

		event := newOutboxEvent(uc.idGen, tenantID, domain.AggregateTypeOrder, order.ID, domain.EventTypeConfirmationAmended,
			domain.ConfirmationAmendedEvent{
				OrderID:            order.ID,
				MovementID:         movement.ID,
				PreviousCustomerID: oldCustomerID,
				CustomerID:         newCustomerID,
				PreviousTotal:      oldTotal.StringFixed(domain.MoneyScale),
				Total:              newTotal.StringFixed(domain.MoneyScale),
				Recreated:          input.Recreate,
			}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		result = &ConfirmationResult{Order: order, Movement: movement, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Amendments.WithLabelValues(kind).Inc()
	}

	zerolog.Ctx(ctx).Info().
		Str("order_id", result.Order.ID).
		Str("movement_id", result.Movement.ID).
		Str("kind", kind).
		Msg("confirmation amended")

	return result, nil
}

// applyDeltas applies balance deltas in customer id order so that two
// amendments touching the same pair of customers lock rows in the same order.
// It returns the resulting balance of focus when it was touched.
func (uc *ConfirmationUseCase) applyDeltas(ctx context.Context, tx Transaction, tenantID string, deltas map[string]decimal.Decimal, focus string) (*decimal.Decimal, error) {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var focusBalance *decimal.Decimal
	for _, id := range ids {
		balance, err := uc.balanceRepo.ApplyDelta(ctx, tx, tenantID, id, deltas[id])
		if err != nil {
			return nil, err
		}
		if id == focus {
			b := balance
			focusBalance = &b
		}
	}
	return focusBalance, nil
}

func validateConfirmInput(input ConfirmOrderInput) error {
	if err := domain.ValidateID("order_id", input.OrderID); err != nil {
		return err
	}
	if err := domain.ValidateID("customer_id", input.CustomerID); err != nil {
		return err
	}
	if err := domain.ValidateUnitPrice(input.UnitPrice); err != nil {
		return err
	}
	if err := domain.ValidateText("observations", input.Observations, domain.MaxNotesLength); err != nil {
		return err
	}
	if input.Note != nil {
		return domain.ValidateText("note", *input.Note, domain.MaxNotesLength)
	}
	return nil
}

func validateAmendInput(input AmendConfirmationInput) error {
	if err := domain.ValidateID("order_id", input.OrderID); err != nil {
		return err
	}
	if input.CustomerID != nil {
		if err := domain.ValidateID("customer_id", *input.CustomerID); err != nil {
			return err
		}
	}
	if input.UnitPrice != nil {
		if err := domain.ValidateUnitPrice(*input.UnitPrice); err != nil {
			return err
		}
	}
	if err := domain.ValidateText("observations", input.Observations, domain.MaxNotesLength); err != nil {
		return err
	}
	if note, ok := input.Note.Get(); ok {
		return domain.ValidateText("note", note, domain.MaxNotesLength)
	}
	return nil
}

func amendmentKind(customerChanged, priceChanged, recreate bool) string {
	switch {
	case customerChanged && priceChanged:
		return "reassign_reprice"
	case customerChanged:
		return "reassign"
	case priceChanged:
		return "reprice"
	case recreate:
		return "recreate"
	default:
		return "notes"
	}
}

// cleanNote trims a note and drops it when blank.
func cleanNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func equalNotes(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
