package postgres

import "github.com/iho/ctacte/internal/usecase"

var (
	_ usecase.TransactionManager     = (*TxManager)(nil)
	_ usecase.Retrier                = (*Retrier)(nil)
	_ usecase.IDGenerator            = (*ULIDGenerator)(nil)
	_ usecase.CustomerRepository     = (*CustomerRepository)(nil)
	_ usecase.OrderRepository        = (*OrderRepository)(nil)
	_ usecase.MovementRepository     = (*MovementRepository)(nil)
	_ usecase.BalanceRepository      = (*BalanceRepository)(nil)
	_ usecase.LedgerRepository       = (*LedgerRepository)(nil)
	_ usecase.ReassignmentRepository = (*ReassignmentRepository)(nil)
	_ usecase.OutboxRepository       = (*OutboxRepository)(nil)
	_ usecase.OutboxRepository       = (*NullOutboxRepository)(nil)
)
