package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidUnitPrice    = fmt.Errorf("%w: unit price must be a positive decimal", ErrValidation)
	ErrUnitPriceScale      = fmt.Errorf("%w: unit price has more than 2 decimal places", ErrValidation)
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrAmountTooLarge      = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrInvalidDate         = fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", ErrValidation)
	ErrInvalidDeliveryNote = fmt.Errorf("%w: invalid delivery note number", ErrValidation)
	ErrInvalidArticle      = fmt.Errorf("%w: invalid article", ErrValidation)
	ErrInvalidQuantity     = fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	ErrInvalidWeight       = fmt.Errorf("%w: weight must not be negative", ErrValidation)
	ErrInvalidID           = fmt.Errorf("%w: id is required", ErrValidation)
	ErrTextTooLong         = fmt.Errorf("%w: text too long", ErrValidation)
)

// Validation constants
const (
	// MaxAmount fits numeric(14,2).
	MaxAmount = "999999999999.99"
	// MaxUnitPrice fits numeric(12,2).
	MaxUnitPrice = "9999999999.99"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	maxAmount    = decimal.RequireFromString(MaxAmount)
	maxUnitPrice = decimal.RequireFromString(MaxUnitPrice)
)

// ValidateUnitPrice checks a confirmation price.
func ValidateUnitPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidUnitPrice
	}
	if price.GreaterThan(maxUnitPrice) {
		return fmt.Errorf("%w: maximum unit price is %s", ErrAmountTooLarge, MaxUnitPrice)
	}
	if !price.Equal(price.Round(MoneyScale)) {
		return ErrUnitPriceScale
	}
	return nil
}

// ValidateAmount checks a payment amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}
	return nil
}

// ValidateID checks that a required identifier is present.
func ValidateID(name, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s", ErrInvalidID, name)
	}
	return nil
}

// ValidateDeliveryNoteNo checks a delivery-note number.
func ValidateDeliveryNoteNo(number string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(number))
	if n == 0 || n > MaxDeliveryNoteLength {
		return fmt.Errorf("%w: must be 1 to %d characters", ErrInvalidDeliveryNote, MaxDeliveryNoteLength)
	}
	return nil
}

// ValidateArticle checks an article name.
func ValidateArticle(article string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(article))
	if n == 0 || n > MaxArticleLength {
		return fmt.Errorf("%w: must be 1 to %d characters", ErrInvalidArticle, MaxArticleLength)
	}
	return nil
}

// ValidateQuantities checks quantity and weight.
func ValidateQuantities(quantity, weight decimal.Decimal) error {
	if quantity.IsNegative() {
		return ErrInvalidQuantity
	}
	if weight.IsNegative() {
		return ErrInvalidWeight
	}
	return nil
}

// ValidateText checks a free-text field against a rune limit.
func ValidateText(name, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrTextTooLong, name, limit)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps page to >= 1 and limit to 1..MaxPageSize, defaulting to
// DefaultPageSize.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Number: number, Limit: limit}
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// PageMeta describes a returned page.
type PageMeta struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPageMeta builds the meta block for total rows.
func NewPageMeta(p Page, total int64) PageMeta {
	pages := 1
	if total > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PageMeta{Total: total, Page: p.Number, Limit: p.Limit, TotalPages: pages}
}
