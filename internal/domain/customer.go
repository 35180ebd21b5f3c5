package domain

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Reserved tax ids of the placeholder customers every tenant gets lazily.
const (
	TemporaryTaxID    = "00-00000000-1"
	UnregisteredTaxID = "99-99999999-9"
)

// Customer is a party that owes money for confirmed orders.
type Customer struct {
	ID         string
	TenantID   string
	TaxID      string
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	CompanyID  string
	ResellerID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsPlaceholder reports whether c is the Temporary or Unregistered customer.
func (c *Customer) IsPlaceholder() bool {
	return IsPlaceholderTaxID(c.TaxID)
}

// Company is the legal entity (razón social) a customer belongs to.
type Company struct {
	ID        string
	TenantID  string
	TaxID     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reseller is an intermediary that may sell to several customers.
type Reseller struct {
	ID        string
	TenantID  string
	TaxID     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPlaceholderTaxID reports whether taxID is one of the reserved sentinels.
func IsPlaceholderTaxID(taxID string) bool {
	return taxID == TemporaryTaxID || taxID == UnregisteredTaxID
}

// PlaceholderTaxIDs returns both reserved tax ids.
func PlaceholderTaxIDs() []string {
	return []string{TemporaryTaxID, UnregisteredTaxID}
}

// NormalizeTaxID trims a tax id and folds full-width digits and dashes that
// show up in spreadsheet exports.
func NormalizeTaxID(taxID string) string {
	return strings.TrimSpace(norm.NFKC.String(taxID))
}
