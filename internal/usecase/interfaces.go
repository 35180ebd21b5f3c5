package usecase

//go:generate mockgen -destination=gomocks/mock_ports.go -package=gomocks github.com/iho/ctacte/internal/usecase Cache,LedgerRepository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
)

// CustomerRepository defines data access for customers and the parties they
// are linked to. Master-data CRUD lives elsewhere; this port covers what the
// ledger core reads and the placeholders it creates.
type CustomerRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error)
	GetByIDTx(ctx context.Context, tx Transaction, tenantID, id string) (*domain.Customer, error)
	GetByTaxID(ctx context.Context, tenantID, taxID string) (*domain.Customer, error)
	List(ctx context.Context, tenantID string) ([]*domain.Customer, error)
	ListCompanies(ctx context.Context, tenantID string) ([]*domain.Company, error)
	ListResellers(ctx context.Context, tenantID string) ([]*domain.Reseller, error)
	// EnsurePlaceholder inserts the company and customer when absent and
	// returns the stored customer for the company's tax id.
	EnsurePlaceholder(ctx context.Context, tx Transaction, company *domain.Company, customer *domain.Customer) (*domain.Customer, error)
}

// OrderRepository defines data access for orders.
type OrderRepository interface {
	Create(ctx context.Context, tx Transaction, order *domain.Order) error
	// InsertIfAbsent inserts the order unless its dedupe key already exists.
	InsertIfAbsent(ctx context.Context, tx Transaction, order *domain.Order) (bool, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, tenantID, id string) (*domain.Order, error)
	Update(ctx context.Context, tx Transaction, order *domain.Order) error
	Delete(ctx context.Context, tx Transaction, tenantID, id string) error
	DeleteUnconfirmed(ctx context.Context, tx Transaction, tenantID string, from, to *time.Time) (int64, error)
	Search(ctx context.Context, tenantID string, filter domain.OrderFilter) (*domain.OrderPage, error)
	ListByDeliveryNote(ctx context.Context, tenantID, deliveryNoteNo string) ([]*domain.Order, error)
	ListByCustomer(ctx context.Context, tenantID, customerID string, from, to *time.Time) ([]*domain.Order, error)
}

// MovementRepository defines data access for ledger movements.
type MovementRepository interface {
	// Create inserts the movement. A second movement of the same kind for the
	// same order fails with domain.ErrAlreadyConfirmed.
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Movement, error)
	GetByOrder(ctx context.Context, tenantID string, kind domain.MovementKind, orderID string) (*domain.Movement, error)
	GetByOrderForUpdate(ctx context.Context, tx Transaction, tenantID string, kind domain.MovementKind, orderID string) (*domain.Movement, error)
	Update(ctx context.Context, tx Transaction, movement *domain.Movement) error
	Delete(ctx context.Context, tx Transaction, tenantID, id string) error
	Search(ctx context.Context, tenantID string, filter domain.MovementFilter) (*domain.MovementPage, error)
	ListByCustomer(ctx context.Context, tenantID, customerID string) ([]*domain.Movement, error)
}

// BalanceRepository defines data access for running balances.
type BalanceRepository interface {
	// ApplyDelta adds delta to the customer's balance, creating the row at
	// zero first when absent, in a single statement. It returns the new
	// balance.
	ApplyDelta(ctx context.Context, tx Transaction, tenantID, customerID string, delta decimal.Decimal) (decimal.Decimal, error)
	Get(ctx context.Context, tenantID, customerID string) (*domain.Balance, error)
}

// LedgerRepository defines tenant-wide read models over movements and
// balances.
type LedgerRepository interface {
	CheckBalances(ctx context.Context, tenantID string) ([]domain.BalanceCheck, error)
	DebtByCustomer(ctx context.Context, tenantID string, from, to time.Time) ([]domain.DebtRow, error)
}

// ReassignmentRepository defines data access for the order reassignment audit.
type ReassignmentRepository interface {
	Create(ctx context.Context, tx Transaction, reassignment *domain.OrderReassignment) error
	ListByOrder(ctx context.Context, tenantID, orderID string) ([]*domain.OrderReassignment, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on retryable storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key whose request did not succeed.
	Delete(ctx context.Context, key string) error
}
