package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/postgres/generated"
	"github.com/iho/ctacte/internal/usecase"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	queries *generated.Queries
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return newCustomerRepository(pool)
}

func newCustomerRepository(db generated.DBTX) *CustomerRepository {
	return &CustomerRepository{queries: generated.New(db)}
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	return getCustomer(ctx, r.queries, tenantID, id)
}

// GetByIDTx retrieves a customer by ID within a transaction.
func (r *CustomerRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, tenantID, id string) (*domain.Customer, error) {
	return getCustomer(ctx, txQueries(tx), tenantID, id)
}

func getCustomer(ctx context.Context, q *generated.Queries, tenantID, id string) (*domain.Customer, error) {
	row, err := q.GetCustomerByID(ctx, generated.GetCustomerByIDParams{TenantID: tenantID, ID: id})
	if err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound)
	}
	return rowToCustomer(row), nil
}

// GetByTaxID retrieves the oldest customer with the given tax id.
func (r *CustomerRepository) GetByTaxID(ctx context.Context, tenantID, taxID string) (*domain.Customer, error) {
	row, err := r.queries.GetCustomerByTaxID(ctx, generated.GetCustomerByTaxIDParams{TenantID: tenantID, TaxID: taxID})
	if err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound)
	}
	return rowToCustomer(row), nil
}

// List retrieves all customers of a tenant.
func (r *CustomerRepository) List(ctx context.Context, tenantID string) ([]*domain.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx, tenantID)
	if err != nil {
		return nil, translateError(err)
	}

	customers := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, rowToCustomer(row))
	}
	return customers, nil
}

// ListCompanies retrieves all companies of a tenant.
func (r *CustomerRepository) ListCompanies(ctx context.Context, tenantID string) ([]*domain.Company, error) {
	rows, err := r.queries.ListCompanies(ctx, tenantID)
	if err != nil {
		return nil, translateError(err)
	}

	companies := make([]*domain.Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, &domain.Company{
			ID:        row.ID,
			TenantID:  row.TenantID,
			TaxID:     row.TaxID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return companies, nil
}

// ListResellers retrieves all resellers of a tenant.
func (r *CustomerRepository) ListResellers(ctx context.Context, tenantID string) ([]*domain.Reseller, error) {
	rows, err := r.queries.ListResellers(ctx, tenantID)
	if err != nil {
		return nil, translateError(err)
	}

	resellers := make([]*domain.Reseller, 0, len(rows))
	for _, row := range rows {
		resellers = append(resellers, &domain.Reseller{
			ID:        row.ID,
			TenantID:  row.TenantID,
			TaxID:     row.TaxID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return resellers, nil
}

// EnsurePlaceholder inserts the placeholder company and customer when they
// are missing. Concurrent callers converge on the same stored rows.
func (r *CustomerRepository) EnsurePlaceholder(ctx context.Context, tx usecase.Transaction, company *domain.Company, customer *domain.Customer) (*domain.Customer, error) {
	q := txQueries(tx)

	now := company.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	err := q.InsertCompanyIfAbsent(ctx, generated.InsertCompanyIfAbsentParams{
		ID:        company.ID,
		TenantID:  company.TenantID,
		TaxID:     company.TaxID,
		Name:      company.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, translateError(err)
	}

	err = q.InsertPlaceholderCustomer(ctx, generated.InsertPlaceholderCustomerParams{
		ID:        customer.ID,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		CreatedAt: now,
		TenantID:  company.TenantID,
		TaxID:     company.TaxID,
	})
	if err != nil {
		return nil, translateError(err)
	}

	row, err := q.GetCustomerByTaxID(ctx, generated.GetCustomerByTaxIDParams{TenantID: company.TenantID, TaxID: company.TaxID})
	if err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound)
	}
	return rowToCustomer(row), nil
}

// CreateCompany inserts a company.
func (r *CustomerRepository) CreateCompany(ctx context.Context, company *domain.Company) error {
	return translateError(r.queries.CreateCompany(ctx, generated.CreateCompanyParams{
		ID:        company.ID,
		TenantID:  company.TenantID,
		TaxID:     company.TaxID,
		Name:      company.Name,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}))
}

// CreateReseller inserts a reseller.
func (r *CustomerRepository) CreateReseller(ctx context.Context, reseller *domain.Reseller) error {
	return translateError(r.queries.CreateReseller(ctx, generated.CreateResellerParams{
		ID:        reseller.ID,
		TenantID:  reseller.TenantID,
		TaxID:     reseller.TaxID,
		Name:      reseller.Name,
		CreatedAt: reseller.CreatedAt,
		UpdatedAt: reseller.UpdatedAt,
	}))
}

// Create inserts a customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return translateError(r.queries.CreateCustomer(ctx, generated.CreateCustomerParams{
		ID:         customer.ID,
		TenantID:   customer.TenantID,
		TaxID:      domain.NormalizeTaxID(customer.TaxID),
		FirstName:  customer.FirstName,
		LastName:   customer.LastName,
		Phone:      customer.Phone,
		Email:      customer.Email,
		CompanyID:  customer.CompanyID,
		ResellerID: customer.ResellerID,
		CreatedAt:  customer.CreatedAt,
		UpdatedAt:  customer.UpdatedAt,
	}))
}

func rowToCustomer(row generated.Customer) *domain.Customer {
	return &domain.Customer{
		ID:         row.ID,
		TenantID:   row.TenantID,
		TaxID:      row.TaxID,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Phone:      row.Phone,
		Email:      row.Email,
		CompanyID:  row.CompanyID,
		ResellerID: row.ResellerID,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
