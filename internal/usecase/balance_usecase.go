package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
)

// BalanceUseCase handles payments, balances and movement queries.
type BalanceUseCase struct {
	tx           *TxRunner
	customerRepo CustomerRepository
	movementRepo MovementRepository
	balanceRepo  BalanceRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	tx *TxRunner,
	customerRepo CustomerRepository,
	movementRepo MovementRepository,
	balanceRepo BalanceRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	return &BalanceUseCase{
		tx:           tx,
		customerRepo: customerRepo,
		movementRepo: movementRepo,
		balanceRepo:  balanceRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// RecordPaymentInput represents input for recording a payment.
type RecordPaymentInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Date       time.Time
	Note       *string
}

// PaymentResult is the stored payment and the balance after it.
type PaymentResult struct {
	Movement *domain.Movement
	Balance  decimal.Decimal
}

// RecordPayment writes a PAYMENT movement and subtracts its amount from the
// customer's balance in one transaction.
func (uc *BalanceUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateID("customer_id", input.CustomerID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if input.Note != nil {
		if err := domain.ValidateText("note", *input.Note, domain.MaxNotesLength); err != nil {
			return nil, err
		}
	}

	amount := input.Amount.Round(domain.MoneyScale)
	var result *PaymentResult

	err = uc.tx.RunDetached(ctx, func(txCtx context.Context, tx Transaction) error {
		customer, err := uc.customerRepo.GetByIDTx(txCtx, tx, tenantID, input.CustomerID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		movement := &domain.Movement{
			ID:         uc.idGen.Generate(),
			TenantID:   tenantID,
			CustomerID: customer.ID,
			Kind:       domain.MovementPayment,
			Date:       domain.DateOnly(input.Date),
			Amount:     amount,
			Note:       cleanNote(input.Note),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
			return err
		}

		balance, err := uc.balanceRepo.ApplyDelta(txCtx, tx, tenantID, customer.ID, movement.SignedAmount())
		if err != nil {
			return err
		}

		event := newOutboxEvent(uc.idGen, tenantID, domain.AggregateTypeMovement, movement.ID, domain.EventTypePaymentRecorded,
			domain.PaymentRecordedEvent{
				MovementID: movement.ID,
				CustomerID: customer.ID,
				Amount:     amount.StringFixed(domain.MoneyScale),
				Date:       movement.Date.Format(domain.DateLayout),
				Balance:    balance.StringFixed(domain.MoneyScale),
			}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		result = &PaymentResult{Movement: movement, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.Inc()
		uc.metrics.PaymentAmount.Observe(amount.InexactFloat64())
	}

	zerolog.Ctx(ctx).Info().
		Str("movement_id", result.Movement.ID).
		Str("customer_id", result.Movement.CustomerID).
		Str("amount", amount.StringFixed(domain.MoneyScale)).
		Msg("payment recorded")

	return result, nil
}

// GetBalance returns the customer's running balance. A known customer with
// no balance row yet owes zero.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, customerID string) (*domain.Balance, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateID("customer_id", customerID); err != nil {
		return nil, err
	}

	balance, err := uc.balanceRepo.Get(ctx, tenantID, customerID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := uc.customerRepo.GetByID(ctx, tenantID, customerID); err != nil {
		return nil, err
	}
	return &domain.Balance{TenantID: tenantID, CustomerID: customerID, Amount: decimal.Zero}, nil
}

// SearchMovements returns a page of movements matching filter.
func (uc *BalanceUseCase) SearchMovements(ctx context.Context, filter domain.MovementFilter) (*domain.MovementPage, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Kind != "" && !filter.Kind.IsValid() {
		return nil, domain.NewValidationError("unknown movement kind %q", filter.Kind)
	}
	if filter.AmountMin != nil && filter.AmountMax != nil && filter.AmountMin.GreaterThan(*filter.AmountMax) {
		return nil, domain.NewValidationError("amount_min is greater than amount_max")
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, domain.NewValidationError("date_from is after date_to")
	}
	switch filter.SortBy {
	case "":
		filter.SortBy = domain.MovementSortDate
	case domain.MovementSortDate, domain.MovementSortCreatedAt:
	default:
		return nil, domain.NewValidationError("cannot sort movements by %q", filter.SortBy)
	}
	if filter.SortDir == "" {
		filter.SortDir = domain.SortDesc
	}
	filter.Page = domain.NewPage(filter.Page.Number, filter.Page.Limit)

	return uc.movementRepo.Search(ctx, tenantID, filter)
}

// ListMovementsByCustomer returns all movements of a customer, newest first.
func (uc *BalanceUseCase) ListMovementsByCustomer(ctx context.Context, customerID string) ([]*domain.Movement, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateID("customer_id", customerID); err != nil {
		return nil, err
	}
	if _, err := uc.customerRepo.GetByID(ctx, tenantID, customerID); err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByCustomer(ctx, tenantID, customerID)
}
