package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every error returned by a use case matches exactly one of
// these with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyConfirmed = errors.New("order already confirmed")
	ErrNotConfirmedYet  = errors.New("order not confirmed yet")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
	ErrNoOp             = errors.New("nothing to change")
	ErrTransient        = errors.New("transient failure, retry")
)

var (
	// Tenant errors
	ErrTenantRequired = fmt.Errorf("%w: tenant is required", ErrValidation)

	// Lookup errors
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrMovementNotFound = fmt.Errorf("movement %w", ErrNotFound)
	ErrBalanceNotFound  = fmt.Errorf("balance %w", ErrNotFound)

	// Customer errors
	ErrDuplicateTaxID = fmt.Errorf("%w: a customer with this tax id already exists", ErrConflict)

	// Order errors
	ErrDuplicateOrder  = fmt.Errorf("%w: an order with the same delivery line already exists", ErrConflict)
	ErrOrderConfirmed  = fmt.Errorf("%w: order is confirmed", ErrInvalidState)
	ErrOrderNotPending = fmt.Errorf("%w: order is not pending customer resolution", ErrInvalidState)
	ErrSameCustomer    = fmt.Errorf("%w: new customer equals the current one", ErrNoOp)
	ErrNothingToAmend  = fmt.Errorf("%w: amendment changes nothing", ErrNoOp)
)

// AlreadyConfirmedError is returned when a SALE movement already exists for an
// order. It carries that movement so callers can reconcile.
type AlreadyConfirmedError struct {
	OrderID  string
	Movement *Movement
}

func (e *AlreadyConfirmedError) Error() string {
	if e.Movement == nil {
		return fmt.Sprintf("order %s already confirmed", e.OrderID)
	}
	return fmt.Sprintf("order %s already confirmed: movement %s amount %s dated %s",
		e.OrderID, e.Movement.ID, e.Movement.Amount.StringFixed(2), e.Movement.Date.Format(DateLayout))
}

func (e *AlreadyConfirmedError) Is(target error) bool {
	return target == ErrAlreadyConfirmed
}

// AmbiguousCustomerError reports a tax id that maps to more than one customer.
type AmbiguousCustomerError struct {
	TaxID      string
	Candidates []string
}

func (e *AmbiguousCustomerError) Error() string {
	return fmt.Sprintf("tax id %s matches %d customers: %s",
		e.TaxID, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousCustomerError) Is(target error) bool {
	return target == ErrConflict
}

// NewValidationError wraps a message as an ErrValidation.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
