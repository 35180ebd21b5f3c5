package postgres

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// NullOutboxRepository satisfies usecase.OutboxRepository without storing
// anything. cmd/server picks it when OUTBOX_ENABLED is false.
type NullOutboxRepository struct{}

var _ usecase.OutboxRepository = (*NullOutboxRepository)(nil)

func NewNullOutboxRepository() *NullOutboxRepository {
	return &NullOutboxRepository{}
}

// Create drops the event and leaves a debug line in the request log.
func (r *NullOutboxRepository) Create(ctx context.Context, _ usecase.Transaction, event *domain.OutboxEvent) error {
	if event != nil {
		zerolog.Ctx(ctx).Debug().
			Str("event_type", event.EventType).
			Str("aggregate_id", event.AggregateID).
			Msg("outbox disabled, event dropped")
	}
	return nil
}

// GetUnpublished always reports an empty backlog.
func (r *NullOutboxRepository) GetUnpublished(context.Context, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (r *NullOutboxRepository) MarkPublished(context.Context, string, time.Time) error {
	return nil
}

func (r *NullOutboxRepository) DeletePublished(context.Context, time.Time) error {
	return nil
}
