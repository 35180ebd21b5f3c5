package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/ctacte/internal/domain"
)

// TxRunner runs a unit of work inside one database transaction bounded by a
// timeout, retrying it on retryable storage errors when a Retrier is set.
type TxRunner struct {
	txManager TransactionManager
	retrier   Retrier
	timeout   time.Duration
}

// NewTxRunner creates a TxRunner. A zero timeout means
// DefaultTransactionTimeout.
func NewTxRunner(txManager TransactionManager, retrier Retrier, timeout time.Duration) *TxRunner {
	if timeout <= 0 {
		timeout = DefaultTransactionTimeout
	}
	return &TxRunner{
		txManager: txManager,
		retrier:   retrier,
		timeout:   timeout,
	}
}

// Run executes fn in a transaction. fn must be safe to call more than once.
func (r *TxRunner) Run(ctx context.Context, fn func(txCtx context.Context, tx Transaction) error) error {
	op := func() error { return r.runOnce(ctx, fn) }
	if r.retrier == nil {
		return op()
	}
	return r.retrier.Retry(ctx, op)
}

// RunDetached is Run for writes that must not be abandoned half-way when the
// caller goes away: the caller's cancellation is ignored and only the
// transaction timeout applies.
func (r *TxRunner) RunDetached(ctx context.Context, fn func(txCtx context.Context, tx Transaction) error) error {
	return r.Run(context.WithoutCancel(ctx), fn)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(txCtx context.Context, tx Transaction) error) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.txManager.Begin(txCtx)
	if err != nil {
		return classifyTxError(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := fn(txCtx, tx); err != nil {
		return classifyTxError(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return classifyTxError(err)
	}
	return nil
}

// classifyTxError turns a transaction timeout into a transient error.
func classifyTxError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTransient) {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return err
}
