package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used on the wire and in notes.
const DateLayout = "2006-01-02"

// Order field limits.
const (
	MaxDeliveryNoteLength = 50
	MaxArticleLength      = 200
	MaxNotesLength        = 2000
	NotesSeparator        = " | "
	QuantityScale         = 2
	WeightScale           = 3
	MoneyScale            = 2
)

// Order is one line of a delivery note (pedido). It starts as a draft and
// becomes confirmed once priced and posted to the ledger.
type Order struct {
	ID             string
	TenantID       string
	CustomerID     string
	DeliveryDate   time.Time
	DeliveryNoteNo string
	Article        string
	Quantity       decimal.Decimal
	WeightKg       decimal.Decimal
	Notes          string
	UnitPrice      *decimal.Decimal
	TotalPrice     *decimal.Decimal
	Confirmed      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ComputeTotal returns weight * unitPrice rounded half away from zero to
// cents.
func ComputeTotal(weight, unitPrice decimal.Decimal) decimal.Decimal {
	return weight.Mul(unitPrice).Round(MoneyScale)
}

// Total computes the order total for unitPrice.
func (o *Order) Total(unitPrice decimal.Decimal) decimal.Decimal {
	return ComputeTotal(o.WeightKg, unitPrice)
}

// ApplyConfirmation prices the order, assigns the final customer and marks it
// confirmed. It returns the computed total.
func (o *Order) ApplyConfirmation(customerID string, unitPrice decimal.Decimal, observations string, at time.Time) decimal.Decimal {
	total := o.Total(unitPrice)
	price := unitPrice
	o.CustomerID = customerID
	o.UnitPrice = &price
	o.TotalPrice = &total
	o.Confirmed = true
	o.AppendNotes(observations)
	o.UpdatedAt = at
	return total
}

// AppendNotes appends note to the order notes, separated by " | " and capped
// at MaxNotesLength characters. Blank notes are ignored.
func (o *Order) AppendNotes(note string) {
	o.Notes = JoinNotes(o.Notes, note)
}

// DedupeKey identifies the physical delivery line within a tenant.
func (o *Order) DedupeKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		o.DeliveryDate.Format(DateLayout),
		o.DeliveryNoteNo,
		o.Article,
		o.Quantity.StringFixed(QuantityScale),
		o.WeightKg.StringFixed(WeightScale),
	)
}

// JoinNotes joins the non-blank parts with NotesSeparator and truncates the
// result to MaxNotesLength characters.
func JoinNotes(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return truncateRunes(strings.Join(kept, NotesSeparator), MaxNotesLength)
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// DateOnly drops the clock part of t, keeping its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortDirection is ASC or DESC.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection defaults to DESC for anything other than "asc".
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return SortAsc
	}
	return SortDesc
}

// OrderSortField lists the columns orders can be sorted by.
type OrderSortField string

const (
	OrderSortDeliveryDate   OrderSortField = "delivery_date"
	OrderSortDeliveryNoteNo OrderSortField = "delivery_note_no"
	OrderSortCreatedAt      OrderSortField = "created_at"
)

// OrderFilter narrows an order search. Zero values mean "no filter".
type OrderFilter struct {
	CustomerID     string
	DeliveryNoteNo string // substring, case-insensitive
	Article        string // substring, case-insensitive
	DateFrom       *time.Time
	DateTo         *time.Time
	Confirmed      *bool
	PendingOnly    bool // only orders assigned to a placeholder customer
	SortBy         OrderSortField
	SortDir        SortDirection
	Page           Page
}

// OrderPage is a page of orders.
type OrderPage struct {
	Orders []*Order
	Meta   PageMeta
}
