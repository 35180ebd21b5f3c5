package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one confirmation, amendment, payment,
	// resolution or import group.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultMaxReportItems caps each list in an import report.
	DefaultMaxReportItems = 100

	// DefaultReportCacheTTL is how long a debt report stays cached.
	DefaultReportCacheTTL = 5 * time.Minute
)
