package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// Date is a calendar date on the wire, formatted YYYY-MM-DD. Full RFC 3339
// timestamps are accepted and truncated to their date.
type Date struct {
	time.Time
}

// NewDate wraps t, dropping its clock part.
func NewDate(t time.Time) Date {
	return Date{Time: domain.DateOnly(t)}
}

// UnmarshalJSON parses a quoted date. null leaves the zero value.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the date as YYYY-MM-DD, or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(domain.DateLayout))
}

// Ptr returns the date as a pointer, nil when zero.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// ParseDate parses YYYY-MM-DD or an RFC 3339 timestamp into a UTC date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return domain.DateOnly(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
}

// CreateOrderRequest represents a request to enter a draft order.
type CreateOrderRequest struct {
	CustomerID     string          `json:"customer_id"`
	DeliveryDate   Date            `json:"delivery_date"`
	DeliveryNoteNo string          `json:"delivery_note_no"`
	Article        string          `json:"article"`
	Quantity       decimal.Decimal `json:"quantity"`
	WeightKg       decimal.Decimal `json:"weight_kg"`
	Notes          string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateOrderRequest) ToUseCaseInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		CustomerID:     r.CustomerID,
		DeliveryDate:   r.DeliveryDate.Time,
		DeliveryNoteNo: r.DeliveryNoteNo,
		Article:        r.Article,
		Quantity:       r.Quantity,
		WeightKg:       r.WeightKg,
		Notes:          r.Notes,
	}
}

// UpdateOrderRequest is a partial update of a draft order. Absent fields are
// kept; notes set to "" or null are cleared.
type UpdateOrderRequest struct {
	CustomerID     *string                 `json:"customer_id,omitempty"`
	DeliveryDate   *Date                   `json:"delivery_date,omitempty"`
	DeliveryNoteNo *string                 `json:"delivery_note_no,omitempty"`
	Article        *string                 `json:"article,omitempty"`
	Quantity       *decimal.Decimal        `json:"quantity,omitempty"`
	WeightKg       *decimal.Decimal        `json:"weight_kg,omitempty"`
	Notes          domain.Optional[string] `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateOrderRequest) ToUseCaseInput() usecase.UpdateDraftOrderInput {
	return usecase.UpdateDraftOrderInput{
		CustomerID:     r.CustomerID,
		DeliveryDate:   r.DeliveryDate.Ptr(),
		DeliveryNoteNo: r.DeliveryNoteNo,
		Article:        r.Article,
		Quantity:       r.Quantity,
		WeightKg:       r.WeightKg,
		Notes:          r.Notes,
	}
}

// ConfirmOrderRequest represents a request to confirm an order.
type ConfirmOrderRequest struct {
	CustomerID   string          `json:"customer_id"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Observations string          `json:"observations,omitempty"`
	Note         *string         `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ConfirmOrderRequest) ToUseCaseInput(orderID string) usecase.ConfirmOrderInput {
	return usecase.ConfirmOrderInput{
		OrderID:      orderID,
		CustomerID:   r.CustomerID,
		UnitPrice:    r.UnitPrice,
		Observations: r.Observations,
		Note:         r.Note,
	}
}

// AmendConfirmationRequest represents a request to amend a confirmation.
type AmendConfirmationRequest struct {
	CustomerID   *string                 `json:"customer_id,omitempty"`
	UnitPrice    *decimal.Decimal        `json:"unit_price,omitempty"`
	Recreate     bool                    `json:"recreate_movement,omitempty"`
	Observations string                  `json:"observations,omitempty"`
	Note         domain.Optional[string] `json:"note"`
}

// ToUseCaseInput converts to use case input.
func (r *AmendConfirmationRequest) ToUseCaseInput(orderID string) usecase.AmendConfirmationInput {
	return usecase.AmendConfirmationInput{
		OrderID:      orderID,
		CustomerID:   r.CustomerID,
		UnitPrice:    r.UnitPrice,
		Recreate:     r.Recreate,
		Observations: r.Observations,
		Note:         r.Note,
	}
}

// ResolveCustomerRequest moves a pending order to a real customer.
type ResolveCustomerRequest struct {
	CustomerID string  `json:"customer_id"`
	Reason     *string `json:"reason,omitempty"`
	Actor      *string `json:"actor,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ResolveCustomerRequest) ToUseCaseInput(orderID string) usecase.ResolveOrderCustomerInput {
	return usecase.ResolveOrderCustomerInput{
		OrderID:       orderID,
		NewCustomerID: r.CustomerID,
		Reason:        r.Reason,
		Actor:         r.Actor,
	}
}

// RecordPaymentRequest represents a customer payment.
type RecordPaymentRequest struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
	Note       *string         `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput() usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		CustomerID: r.CustomerID,
		Amount:     r.Amount,
		Date:       r.Date.Time,
		Note:       r.Note,
	}
}

// ImportRequest carries spreadsheet rows keyed by column header.
type ImportRequest struct {
	Rows     []map[string]any `json:"rows"`
	FromDate *Date            `json:"from_date,omitempty"`
	Source   string           `json:"source,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ImportRequest) ToUseCaseInput() usecase.ImportRowsInput {
	rows := make([]usecase.ImportRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = usecase.ImportRow(row)
	}
	input := usecase.ImportRowsInput{Rows: rows, Source: r.Source}
	if from := r.FromDate.Ptr(); from != nil {
		input.FromDate = *from
	}
	return input
}
