package usecase

import (
	"fmt"

	"github.com/iho/ctacte/internal/domain"
)

// ResolutionKind tags the outcome of a tax-id lookup.
type ResolutionKind int

const (
	// Resolved maps the tax id to exactly one customer.
	Resolved ResolutionKind = iota
	// Ambiguous means several customers match the tax id.
	Ambiguous
	// Unresolved means nothing matched, or the tax id was empty.
	Unresolved
)

func (k ResolutionKind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unresolved"
	}
}

// Resolution is the result of CustomerDirectory.Resolve.
type Resolution struct {
	Kind       ResolutionKind
	CustomerID string
	Candidates []string
	// Source is "company", "reseller" or "customer" when something matched.
	Source string
}

// Err describes an ambiguous resolution, nil otherwise.
func (r Resolution) Err(taxID string) error {
	if r.Kind != Ambiguous {
		return nil
	}
	return &domain.AmbiguousCustomerError{TaxID: taxID, Candidates: r.Candidates}
}

// CustomerDirectory is an in-memory index of a tenant's companies, resellers
// and customers by tax id.
type CustomerDirectory struct {
	companyByTaxID      map[string]string
	resellerByTaxID     map[string]string
	customersByTaxID    map[string][]string
	customersByCompany  map[string][]string
	customersByReseller map[string][]string
}

// NewCustomerDirectory indexes the given records. Candidate lists keep the
// order of customers.
func NewCustomerDirectory(companies []*domain.Company, resellers []*domain.Reseller, customers []*domain.Customer) *CustomerDirectory {
	d := &CustomerDirectory{
		companyByTaxID:      make(map[string]string, len(companies)),
		resellerByTaxID:     make(map[string]string, len(resellers)),
		customersByTaxID:    make(map[string][]string, len(customers)),
		customersByCompany:  make(map[string][]string),
		customersByReseller: make(map[string][]string),
	}
	for _, c := range companies {
		d.companyByTaxID[domain.NormalizeTaxID(c.TaxID)] = c.ID
	}
	for _, r := range resellers {
		d.resellerByTaxID[domain.NormalizeTaxID(r.TaxID)] = r.ID
	}
	for _, c := range customers {
		taxID := domain.NormalizeTaxID(c.TaxID)
		d.customersByTaxID[taxID] = append(d.customersByTaxID[taxID], c.ID)
		if c.CompanyID != "" {
			d.customersByCompany[c.CompanyID] = append(d.customersByCompany[c.CompanyID], c.ID)
		}
		if c.ResellerID != nil && *c.ResellerID != "" {
			d.customersByReseller[*c.ResellerID] = append(d.customersByReseller[*c.ResellerID], c.ID)
		}
	}
	return d
}

// Resolve finds the customer for a tax id. Company links win over reseller
// links, which win over a customer's own tax id. A company or reseller with
// no linked customers falls through to the next step.
func (d *CustomerDirectory) Resolve(taxID string) Resolution {
	taxID = domain.NormalizeTaxID(taxID)
	if taxID == "" {
		return Resolution{Kind: Unresolved}
	}

	if companyID, ok := d.companyByTaxID[taxID]; ok {
		if r, matched := linked("company", d.customersByCompany[companyID]); matched {
			return r
		}
	}

	if resellerID, ok := d.resellerByTaxID[taxID]; ok {
		if r, matched := linked("reseller", d.customersByReseller[resellerID]); matched {
			return r
		}
	}

	if r, matched := linked("customer", d.customersByTaxID[taxID]); matched {
		return r
	}

	return Resolution{Kind: Unresolved}
}

func linked(source string, ids []string) (Resolution, bool) {
	switch len(ids) {
	case 0:
		return Resolution{}, false
	case 1:
		return Resolution{Kind: Resolved, CustomerID: ids[0], Source: source}, true
	default:
		candidates := append([]string(nil), ids...)
		return Resolution{Kind: Ambiguous, Candidates: candidates, Source: source}, true
	}
}

// resolutionNote is the order note recorded when a row is routed to a
// placeholder.
func resolutionNote(taxID string, r Resolution) string {
	switch {
	case r.Kind == Ambiguous:
		return fmt.Sprintf("%s with multiple customers: %v", r.Source, r.Err(taxID))
	case r.Kind == Unresolved && domain.NormalizeTaxID(taxID) == "":
		return "Empty tax id. Assigned to 'Unregistered'."
	case r.Kind == Unresolved:
		return fmt.Sprintf("Tax id %s not found. Assigned to 'Unregistered'.", domain.NormalizeTaxID(taxID))
	default:
		return ""
	}
}
