package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID             string           `json:"id"`
	CustomerID     string           `json:"customer_id"`
	DeliveryDate   Date             `json:"delivery_date"`
	DeliveryNoteNo string           `json:"delivery_note_no"`
	Article        string           `json:"article"`
	Quantity       decimal.Decimal  `json:"quantity"`
	WeightKg       decimal.Decimal  `json:"weight_kg"`
	Notes          string           `json:"notes"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	TotalPrice     *decimal.Decimal `json:"total_price"`
	Confirmed      bool             `json:"confirmed"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// OrderFromDomain converts domain order to response.
func OrderFromDomain(o *domain.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:             o.ID,
		CustomerID:     o.CustomerID,
		DeliveryDate:   NewDate(o.DeliveryDate),
		DeliveryNoteNo: o.DeliveryNoteNo,
		Article:        o.Article,
		Quantity:       o.Quantity,
		WeightKg:       o.WeightKg,
		Notes:          o.Notes,
		UnitPrice:      o.UnitPrice,
		TotalPrice:     o.TotalPrice,
		Confirmed:      o.Confirmed,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// OrdersFromDomain converts domain orders to responses.
func OrdersFromDomain(orders []*domain.Order) []*OrderResponse {
	result := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		result[i] = OrderFromDomain(o)
	}
	return result
}

// MovementResponse represents a ledger movement in API responses.
type MovementResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Kind       string          `json:"kind"`
	Date       Date            `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	OrderID    *string         `json:"order_id"`
	Note       *string         `json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MovementFromDomain converts domain movement to response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Kind:       string(m.Kind),
		Date:       NewDate(m.Date),
		Amount:     m.Amount,
		OrderID:    m.OrderID,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// BalanceResponse represents a customer balance.
type BalanceResponse struct {
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
	UpdatedAt  *time.Time      `json:"updated_at"`
}

// BalanceFromDomain converts domain balance to response.
func BalanceFromDomain(b *domain.Balance) *BalanceResponse {
	resp := &BalanceResponse{CustomerID: b.CustomerID, Balance: b.Amount}
	if !b.UpdatedAt.IsZero() {
		updated := b.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// ConfirmationResponse is the state after a confirmation or amendment.
type ConfirmationResponse struct {
	Order    *OrderResponse    `json:"order"`
	Movement *MovementResponse `json:"movement"`
	Balance  *decimal.Decimal  `json:"balance,omitempty"`
}

// ConfirmationFromResult converts a confirmation result to response.
func ConfirmationFromResult(r *usecase.ConfirmationResult) *ConfirmationResponse {
	return &ConfirmationResponse{
		Order:    OrderFromDomain(r.Order),
		Movement: MovementFromDomain(r.Movement),
		Balance:  r.Balance,
	}
}

// PaymentResponse is a stored payment and the balance after it.
type PaymentResponse struct {
	Movement *MovementResponse `json:"movement"`
	Balance  decimal.Decimal   `json:"balance"`
}

// PaymentFromResult converts a payment result to response.
func PaymentFromResult(r *usecase.PaymentResult) *PaymentResponse {
	return &PaymentResponse{
		Movement: MovementFromDomain(r.Movement),
		Balance:  r.Balance,
	}
}

// ReassignmentResponse represents a reassignment audit record.
type ReassignmentResponse struct {
	ID                 string    `json:"id"`
	OrderID            string    `json:"order_id"`
	PreviousCustomerID string    `json:"previous_customer_id"`
	NewCustomerID      string    `json:"new_customer_id"`
	Reason             *string   `json:"reason"`
	Actor              *string   `json:"actor"`
	CreatedAt          time.Time `json:"created_at"`
}

// ReassignmentsFromDomain converts audit records to responses.
func ReassignmentsFromDomain(items []*domain.OrderReassignment) []*ReassignmentResponse {
	result := make([]*ReassignmentResponse, len(items))
	for i, r := range items {
		result[i] = &ReassignmentResponse{
			ID:                 r.ID,
			OrderID:            r.OrderID,
			PreviousCustomerID: r.PreviousCustomerID,
			NewCustomerID:      r.NewCustomerID,
			Reason:             r.Reason,
			Actor:              r.Actor,
			CreatedAt:          r.CreatedAt,
		}
	}
	return result
}

// ImportReportResponse summarises an import run.
type ImportReportResponse struct {
	RowsRead          int      `json:"rows_read"`
	RowsAccepted      int      `json:"rows_accepted"`
	GroupsProcessed   int      `json:"groups_processed"`
	Created           int      `json:"created"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	Unresolved        int      `json:"unresolved"`
	WarningCount      int      `json:"warning_count"`
	ErrorCount        int      `json:"error_count"`
	Duplicates        []string `json:"duplicates"`
	UnresolvedRows    []string `json:"unresolved_rows"`
	Warnings          []string `json:"warnings"`
	Errors            []string `json:"errors"`
	Truncated         bool     `json:"truncated"`
}

// ImportReportFromResult converts an import report to response.
func ImportReportFromResult(r *usecase.ImportReport) *ImportReportResponse {
	return &ImportReportResponse{
		RowsRead:          r.RowsRead,
		RowsAccepted:      r.RowsAccepted,
		GroupsProcessed:   r.GroupsProcessed,
		Created:           r.Created,
		DuplicatesSkipped: r.DuplicatesSkipped,
		Unresolved:        r.Unresolved,
		WarningCount:      r.WarningCount,
		ErrorCount:        r.ErrorCount,
		Duplicates:        nonNil(r.Duplicates),
		UnresolvedRows:    nonNil(r.UnresolvedRows),
		Warnings:          nonNil(r.Warnings),
		Errors:            nonNil(r.Errors),
		Truncated:         r.Truncated,
	}
}

// BalanceCheckResponse is one customer of a consistency report.
type BalanceCheckResponse struct {
	CustomerID string          `json:"customer_id"`
	Stored     decimal.Decimal `json:"stored"`
	FromLedger decimal.Decimal `json:"from_ledger"`
	Difference decimal.Decimal `json:"difference"`
}

// ConsistencyResponse reports stored balances that differ from the ledger.
type ConsistencyResponse struct {
	Consistent       bool                    `json:"consistent"`
	CustomersChecked int                     `json:"customers_checked"`
	Discrepancies    []*BalanceCheckResponse `json:"discrepancies"`
	CheckedAt        time.Time               `json:"checked_at"`
}

// ConsistencyFromReport converts a reconciliation report to response.
func ConsistencyFromReport(r *usecase.ReconciliationReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Consistent:       r.Consistent,
		CustomersChecked: r.CustomersChecked,
		Discrepancies:    make([]*BalanceCheckResponse, len(r.Discrepancies)),
		CheckedAt:        r.CheckedAt,
	}
	for i, c := range r.Discrepancies {
		resp.Discrepancies[i] = &BalanceCheckResponse{
			CustomerID: c.CustomerID,
			Stored:     c.Stored,
			FromLedger: c.FromLedger,
			Difference: c.Difference,
		}
	}
	return resp
}

// DebtRowResponse is one line of the debt-by-customer report.
type DebtRowResponse struct {
	CustomerID     string          `json:"customer_id"`
	TaxID          string          `json:"tax_id"`
	Sales          decimal.Decimal `json:"sales"`
	Payments       decimal.Decimal `json:"payments"`
	PeriodDebt     decimal.Decimal `json:"period_debt"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// DebtReportResponse is the debt-by-customer report for a date range.
type DebtReportResponse struct {
	From Date               `json:"from"`
	To   Date               `json:"to"`
	Rows []*DebtRowResponse `json:"rows"`
}

// DebtReportFromRows converts report rows to response.
func DebtReportFromRows(from, to time.Time, rows []domain.DebtRow) *DebtReportResponse {
	resp := &DebtReportResponse{
		From: NewDate(from),
		To:   NewDate(to),
		Rows: make([]*DebtRowResponse, len(rows)),
	}
	for i, r := range rows {
		resp.Rows[i] = &DebtRowResponse{
			CustomerID:     r.CustomerID,
			TaxID:          r.TaxID,
			Sales:          r.Sales,
			Payments:       r.Payments,
			PeriodDebt:     r.PeriodDebt,
			CurrentBalance: r.CurrentBalance,
		}
	}
	return resp
}

// PageMeta describes the position of a page within a result set.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// PageResponse is a paginated list.
type PageResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func pageMeta(m domain.PageMeta) PageMeta {
	return PageMeta{Total: m.Total, Page: m.Page, Limit: m.Limit, TotalPages: m.TotalPages}
}

// OrderPageFromDomain converts an order page to response.
func OrderPageFromDomain(p *domain.OrderPage) *PageResponse[*OrderResponse] {
	return &PageResponse[*OrderResponse]{Data: OrdersFromDomain(p.Orders), Meta: pageMeta(p.Meta)}
}

// MovementPageFromDomain converts a movement page to response.
func MovementPageFromDomain(p *domain.MovementPage) *PageResponse[*MovementResponse] {
	return &PageResponse[*MovementResponse]{Data: MovementsFromDomain(p.Movements), Meta: pageMeta(p.Meta)}
}

// ListResponse wraps an unpaginated list.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// DeletedResponse reports how many rows a bulk delete removed.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AlreadyConfirmedResponse carries the movement that already exists for an
// order.
type AlreadyConfirmedResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message,omitempty"`
	Movement *MovementResponse `json:"movement,omitempty"`
}

// AmbiguousCustomerResponse lists the customers a tax id matched.
type AmbiguousCustomerResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message,omitempty"`
	TaxID      string   `json:"tax_id"`
	Candidates []string `json:"candidates"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
