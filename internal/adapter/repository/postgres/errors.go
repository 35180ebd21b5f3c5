package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/ctacte/internal/domain"
)

// PostgreSQL error codes.
const (
	pgErrUniqueViolation      = "23505"
	pgErrForeignKeyViolation  = "23503"
	pgErrCheckViolation       = "23514"
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrQueryCanceled        = "57014"
)

// Constraint names from the schema.
const (
	constraintMovementOrderKind = "ledger_movements_order_kind"
	constraintOrderDedupeKey    = "orders_dedupe_key"
	constraintCustomerTaxID     = "customers_tenant_tax_id"
)

// translateError maps driver errors onto domain errors. Errors it does not
// recognise pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintMovementOrderKind:
			return fmt.Errorf("%w: %w", domain.ErrAlreadyConfirmed, err)
		case constraintOrderDedupeKey:
			return fmt.Errorf("%w: %w", domain.ErrDuplicateOrder, err)
		case constraintCustomerTaxID:
			return fmt.Errorf("%w: %w", domain.ErrDuplicateTaxID, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case pgErrForeignKeyViolation, pgErrCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	case pgErrSerializationFailure, pgErrDeadlock, pgErrLockNotAvailable, pgErrQueryCanceled:
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return err
}

// notFound returns target when err is pgx.ErrNoRows.
func notFound(err, target error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}
	return translateError(err)
}
