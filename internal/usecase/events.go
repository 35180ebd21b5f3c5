package usecase

import (
	"encoding/json"
	"time"

	"github.com/iho/ctacte/internal/domain"
)

func newOutboxEvent(idGen IDGenerator, tenantID, aggregateType, aggregateID, eventType string, payload any, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            idGen.Generate(),
		TenantID:      tenantID,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       toPayload(payload),
		CreatedAt:     now,
		Published:     false,
	}
}

// toPayload flattens a typed event into the map stored in the outbox.
func toPayload(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"marshal_error": err.Error()}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{"marshal_error": err.Error()}
	}
	return m
}
