package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
)

// ReportUseCase builds ledger reports, caching them per tenant and range.
type ReportUseCase struct {
	ledgerRepo LedgerRepository
	cache      Cache
	ttl        time.Duration
	metrics    *metrics.Metrics
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil.
func NewReportUseCase(ledgerRepo LedgerRepository, cache Cache, ttl time.Duration, metrics *metrics.Metrics) *ReportUseCase {
	if ttl <= 0 {
		ttl = DefaultReportCacheTTL
	}
	return &ReportUseCase{
		ledgerRepo: ledgerRepo,
		cache:      cache,
		ttl:        ttl,
		metrics:    metrics,
	}
}

// DebtByCustomer returns, per customer, confirmed sales delivered in
// [from, to], payments dated in [from, to], their difference and the current
// balance, largest period debt first.
func (uc *ReportUseCase) DebtByCustomer(ctx context.Context, from, to time.Time) ([]domain.DebtRow, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if from.IsZero() || to.IsZero() {
		return nil, domain.NewValidationError("from and to are required")
	}
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return nil, domain.NewValidationError("from is after to")
	}

	key := fmt.Sprintf("report:debt:%s:%s:%s", tenantID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	if rows, ok := uc.cached(ctx, key); ok {
		return rows, nil
	}

	rows, err := uc.ledgerRepo.DebtByCustomer(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PeriodDebt.GreaterThan(rows[j].PeriodDebt)
	})

	uc.store(ctx, key, rows)
	return rows, nil
}

func (uc *ReportUseCase) cached(ctx context.Context, key string) ([]domain.DebtRow, bool) {
	if uc.cache == nil {
		return nil, false
	}
	raw, err := uc.cache.Get(ctx, key)
	if err != nil || raw == nil {
		uc.countCache("miss")
		return nil, false
	}
	var rows []domain.DebtRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding unreadable cached report")
		uc.countCache("miss")
		return nil, false
	}
	uc.countCache("hit")
	return rows, true
}

func (uc *ReportUseCase) store(ctx context.Context, key string, rows []domain.DebtRow) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache report")
	}
}

func (uc *ReportUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheRequests.WithLabelValues(result).Inc()
	}
}
