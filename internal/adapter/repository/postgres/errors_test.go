package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/ctacte/internal/domain"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate movement", &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintMovementOrderKind}, domain.ErrAlreadyConfirmed},
		{"duplicate order", &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintOrderDedupeKey}, domain.ErrDuplicateOrder},
		{"duplicate customer tax id", &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintCustomerTaxID}, domain.ErrDuplicateTaxID},
		{"other unique", &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "companies_tenant_tax_id"}, domain.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: pgErrForeignKeyViolation}, domain.ErrValidation},
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, domain.ErrTransient},
		{"serialization", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgErrSerializationFailure}), domain.ErrTransient},
		{"lock timeout", &pgconn.PgError{Code: pgErrLockNotAvailable}, domain.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translateError(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("translateError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranslateErrorPassThrough(t *testing.T) {
	if translateError(nil) != nil {
		t.Fatalf("expected nil")
	}

	plain := errors.New("plain")
	if got := translateError(plain); got != plain {
		t.Fatalf("expected plain error to pass through, got %v", got)
	}

	syntax := &pgconn.PgError{Code: "42601"}
	if got := translateError(syntax); got != error(syntax) {
		t.Fatalf("expected syntax error to pass through, got %v", got)
	}
}

func TestNotFound(t *testing.T) {
	if got := notFound(pgx.ErrNoRows, domain.ErrOrderNotFound); !errors.Is(got, domain.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", got)
	}
	if got := notFound(&pgconn.PgError{Code: pgErrDeadlock}, domain.ErrOrderNotFound); !errors.Is(got, domain.ErrTransient) {
		t.Fatalf("expected transient, got %v", got)
	}
}
