package domain

import (
	"fmt"
	"time"
)

// Limits for the free-text fields of a reassignment.
const (
	MaxReasonLength = 1000
	MaxActorLength  = 100
)

// OrderReassignment is the immutable audit record written when a pending
// order is moved from a placeholder customer to a real one.
type OrderReassignment struct {
	ID                 string
	TenantID           string
	OrderID            string
	PreviousCustomerID string
	NewCustomerID      string
	Reason             *string
	Actor              *string
	CreatedAt          time.Time
}

// ReassignmentNote is the line appended to the order notes on resolution.
func ReassignmentNote(previousTaxID, newTaxID string, reason *string) string {
	if previousTaxID == "" {
		previousTaxID = "N/A"
	}
	note := fmt.Sprintf("Customer resolved: %s -> %s", previousTaxID, newTaxID)
	if reason != nil && *reason != "" {
		note += fmt.Sprintf(" | Reason=%q", *reason)
	}
	return note
}
