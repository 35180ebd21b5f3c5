package domain

import "time"

// Event types
const (
	EventTypeOrderConfirmed        = "order.confirmed"
	EventTypeConfirmationAmended   = "order.confirmation_amended"
	EventTypeOrderCustomerResolved = "order.customer_resolved"
	EventTypePaymentRecorded       = "payment.recorded"
	EventTypeImportCompleted       = "import.completed"
)

// Aggregate types
const (
	AggregateTypeOrder    = "order"
	AggregateTypeMovement = "movement"
	AggregateTypeImport   = "import"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	TenantID      string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// OrderConfirmedEvent payload
type OrderConfirmedEvent struct {
	OrderID    string `json:"order_id"`
	MovementID string `json:"movement_id"`
	CustomerID string `json:"customer_id"`
	UnitPrice  string `json:"unit_price"`
	Total      string `json:"total"`
	Balance    string `json:"balance"`
}

// ConfirmationAmendedEvent payload
type ConfirmationAmendedEvent struct {
	OrderID            string `json:"order_id"`
	MovementID         string `json:"movement_id"`
	PreviousCustomerID string `json:"previous_customer_id"`
	CustomerID         string `json:"customer_id"`
	PreviousTotal      string `json:"previous_total"`
	Total              string `json:"total"`
	Recreated          bool   `json:"recreated"`
}

// PaymentRecordedEvent payload
type PaymentRecordedEvent struct {
	MovementID string `json:"movement_id"`
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	Balance    string `json:"balance"`
}
