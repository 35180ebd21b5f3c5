package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/usecase"
)

// MockCustomerRepository is an in-memory CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	companies map[string]*domain.Company
	resellers map[string]*domain.Reseller

	GetByIDFunc           func(ctx context.Context, tenantID, id string) (*domain.Customer, error)
	ListFunc              func(ctx context.Context, tenantID string) ([]*domain.Customer, error)
	EnsurePlaceholderFunc func(ctx context.Context, tx usecase.Transaction, company *domain.Company, customer *domain.Customer) (*domain.Customer, error)
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
		companies: make(map[string]*domain.Company),
		resellers: make(map[string]*domain.Reseller),
	}
}

// AddCustomer stores a customer for tests.
func (m *MockCustomerRepository) AddCustomer(c *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.customers[c.ID] = &cp
}

// AddCompany stores a company for tests.
func (m *MockCustomerRepository) AddCompany(c *domain.Company) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.companies[c.ID] = &cp
}

// AddReseller stores a reseller for tests.
func (m *MockCustomerRepository) AddReseller(r *domain.Reseller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.resellers[r.ID] = &cp
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok && c.TenantID == tenantID {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, tenantID, id string) (*domain.Customer, error) {
	return m.GetByID(ctx, tenantID, id)
}

func (m *MockCustomerRepository) GetByTaxID(ctx context.Context, tenantID, taxID string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.sortedCustomers(tenantID) {
		if c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) List(ctx context.Context, tenantID string) ([]*domain.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, tenantID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Customer
	for _, c := range m.sortedCustomers(tenantID) {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCustomerRepository) ListCompanies(ctx context.Context, tenantID string) ([]*domain.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Company
	for _, c := range m.companies {
		if c.TenantID == tenantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCustomerRepository) ListResellers(ctx context.Context, tenantID string) ([]*domain.Reseller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Reseller
	for _, r := range m.resellers {
		if r.TenantID == tenantID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCustomerRepository) EnsurePlaceholder(ctx context.Context, tx usecase.Transaction, company *domain.Company, customer *domain.Customer) (*domain.Customer, error) {
	if m.EnsurePlaceholderFunc != nil {
		return m.EnsurePlaceholderFunc(ctx, tx, company, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.sortedCustomers(customer.TenantID) {
		if c.TaxID == customer.TaxID {
			cp := *c
			return &cp, nil
		}
	}
	companyCopy := *company
	m.companies[company.ID] = &companyCopy
	customerCopy := *customer
	m.customers[customer.ID] = &customerCopy
	cp := customerCopy
	return &cp, nil
}

// sortedCustomers must be called with the lock held.
func (m *MockCustomerRepository) sortedCustomers(tenantID string) []*domain.Customer {
	var out []*domain.Customer
	for _, c := range m.customers {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsPlaceholder reports whether id is a placeholder customer.
func (m *MockCustomerRepository) IsPlaceholder(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	return ok && c.IsPlaceholder()
}

// MockOrderRepository is an in-memory OrderRepository. Reads return copies so
// a failed transaction does not leak mutations into the store.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Customers resolves PendingOnly filters when set.
	Customers *MockCustomerRepository

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, order *domain.Order) error
	InsertIfAbsentFunc func(ctx context.Context, tx usecase.Transaction, order *domain.Order) (bool, error)
	UpdateFunc         func(ctx context.Context, tx usecase.Transaction, order *domain.Order) error
	SearchFunc         func(ctx context.Context, tenantID string, filter domain.OrderFilter) (*domain.OrderPage, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findDuplicate(order) {
		return domain.ErrDuplicateOrder
	}
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepository) InsertIfAbsent(ctx context.Context, tx usecase.Transaction, order *domain.Order) (bool, error) {
	if m.InsertIfAbsentFunc != nil {
		return m.InsertIfAbsentFunc(ctx, tx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findDuplicate(order) {
		return false, nil
	}
	m.orders[order.ID] = cloneOrder(order)
	return true, nil
}

// findDuplicate must be called with the lock held.
func (m *MockOrderRepository) findDuplicate(order *domain.Order) bool {
	for _, o := range m.orders {
		if o.TenantID == order.TenantID && o.ID != order.ID && o.DedupeKey() == order.DedupeKey() {
			return true
		}
	}
	return false
}

func (m *MockOrderRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok && o.TenantID == tenantID {
		return cloneOrder(o), nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, tenantID, id string) (*domain.Order, error) {
	return m.GetByID(ctx, tenantID, id)
}

func (m *MockOrderRepository) Update(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	if m.findDuplicate(order) {
		return domain.ErrDuplicateOrder
	}
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepository) Delete(ctx context.Context, tx usecase.Transaction, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; !ok || o.TenantID != tenantID {
		return domain.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *MockOrderRepository) DeleteUnconfirmed(ctx context.Context, tx usecase.Transaction, tenantID string, from, to *time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, o := range m.orders {
		if o.TenantID != tenantID || o.Confirmed || !inRange(o.DeliveryDate, from, to) {
			continue
		}
		delete(m.orders, id)
		n++
	}
	return n, nil
}

func (m *MockOrderRepository) Search(ctx context.Context, tenantID string, filter domain.OrderFilter) (*domain.OrderPage, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, tenantID, filter)
	}
	var matched []*domain.Order
	for _, o := range m.all(tenantID) {
		if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.DeliveryNoteNo != "" && !containsFold(o.DeliveryNoteNo, filter.DeliveryNoteNo) {
			continue
		}
		if filter.Article != "" && !containsFold(o.Article, filter.Article) {
			continue
		}
		if filter.Confirmed != nil && o.Confirmed != *filter.Confirmed {
			continue
		}
		if !inRange(o.DeliveryDate, filter.DateFrom, filter.DateTo) {
			continue
		}
		if filter.PendingOnly && (m.Customers == nil || !m.Customers.IsPlaceholder(o.CustomerID)) {
			continue
		}
		matched = append(matched, o)
	}

	page := filter.Page
	if page.Limit == 0 {
		page = domain.NewPage(1, 0)
	}
	meta := domain.NewPageMeta(page, int64(len(matched)))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return &domain.OrderPage{Orders: matched[start:end], Meta: meta}, nil
}

func (m *MockOrderRepository) ListByDeliveryNote(ctx context.Context, tenantID, deliveryNoteNo string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range m.all(tenantID) {
		if o.DeliveryNoteNo == deliveryNoteNo {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, tenantID, customerID string, from, to *time.Time) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range m.all(tenantID) {
		if o.CustomerID == customerID && inRange(o.DeliveryDate, from, to) {
			out = append(out, o)
		}
	}
	return out, nil
}

// All returns copies of every order of a tenant ordered by id.
func (m *MockOrderRepository) All(tenantID string) []*domain.Order {
	return m.all(tenantID)
}

func (m *MockOrderRepository) all(tenantID string) []*domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if o.TenantID == tenantID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MockMovementRepository is an in-memory MovementRepository that enforces one
// movement per (tenant, kind, order).
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements map[string]*domain.Movement

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	GetByOrderFunc func(ctx context.Context, tenantID string, kind domain.MovementKind, orderID string) (*domain.Movement, error)
	SearchFunc     func(ctx context.Context, tenantID string, filter domain.MovementFilter) (*domain.MovementPage, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{
		movements: make(map[string]*domain.Movement),
	}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if movement.OrderID != nil {
		if _, ok := m.findByOrder(movement.TenantID, movement.Kind, *movement.OrderID); ok {
			return domain.ErrAlreadyConfirmed
		}
	}
	m.movements[movement.ID] = cloneMovement(movement)
	return nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movements[id]; ok && mv.TenantID == tenantID {
		return cloneMovement(mv), nil
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetByOrder(ctx context.Context, tenantID string, kind domain.MovementKind, orderID string) (*domain.Movement, error) {
	if m.GetByOrderFunc != nil {
		return m.GetByOrderFunc(ctx, tenantID, kind, orderID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.findByOrder(tenantID, kind, orderID); ok {
		return cloneMovement(mv), nil
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetByOrderForUpdate(ctx context.Context, tx usecase.Transaction, tenantID string, kind domain.MovementKind, orderID string) (*domain.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.findByOrder(tenantID, kind, orderID); ok {
		return cloneMovement(mv), nil
	}
	return nil, domain.ErrMovementNotFound
}

// findByOrder must be called with the lock held.
func (m *MockMovementRepository) findByOrder(tenantID string, kind domain.MovementKind, orderID string) (*domain.Movement, bool) {
	for _, mv := range m.movements {
		if mv.TenantID == tenantID && mv.Kind == kind && mv.OrderID != nil && *mv.OrderID == orderID {
			return mv, true
		}
	}
	return nil, false
}

func (m *MockMovementRepository) Update(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.movements[movement.ID]; !ok {
		return domain.ErrMovementNotFound
	}
	m.movements[movement.ID] = cloneMovement(movement)
	return nil
}

func (m *MockMovementRepository) Delete(ctx context.Context, tx usecase.Transaction, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mv, ok := m.movements[id]; !ok || mv.TenantID != tenantID {
		return domain.ErrMovementNotFound
	}
	delete(m.movements, id)
	return nil
}

func (m *MockMovementRepository) Search(ctx context.Context, tenantID string, filter domain.MovementFilter) (*domain.MovementPage, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, tenantID, filter)
	}
	var matched []*domain.Movement
	for _, mv := range m.All(tenantID) {
		if filter.CustomerID != "" && mv.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Kind != "" && mv.Kind != filter.Kind {
			continue
		}
		if !inRange(mv.Date, filter.DateFrom, filter.DateTo) {
			continue
		}
		if filter.AmountMin != nil && mv.Amount.LessThan(*filter.AmountMin) {
			continue
		}
		if filter.AmountMax != nil && mv.Amount.GreaterThan(*filter.AmountMax) {
			continue
		}
		matched = append(matched, mv)
	}
	return &domain.MovementPage{Movements: matched, Meta: domain.NewPageMeta(filter.Page, int64(len(matched)))}, nil
}

func (m *MockMovementRepository) ListByCustomer(ctx context.Context, tenantID, customerID string) ([]*domain.Movement, error) {
	var out []*domain.Movement
	for _, mv := range m.All(tenantID) {
		if mv.CustomerID == customerID {
			out = append(out, mv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// All returns copies of every movement of a tenant ordered by id.
func (m *MockMovementRepository) All(tenantID string) []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if mv.TenantID == tenantID {
			out = append(out, cloneMovement(mv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SignedSum returns the ledger-derived balance of a customer.
func (m *MockMovementRepository) SignedSum(tenantID, customerID string) decimal.Decimal {
	sum := decimal.Zero
	for _, mv := range m.All(tenantID) {
		if mv.CustomerID == customerID {
			sum = sum.Add(mv.SignedAmount())
		}
	}
	return sum
}

// MockBalanceRepository is an in-memory BalanceRepository.
type MockBalanceRepository struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	calls    []decimal.Decimal

	ApplyDeltaFunc func(ctx context.Context, tx usecase.Transaction, tenantID, customerID string, delta decimal.Decimal) (decimal.Decimal, error)
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		balances: make(map[string]decimal.Decimal),
	}
}

func balanceKey(tenantID, customerID string) string {
	return tenantID + "|" + customerID
}

func (m *MockBalanceRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, tenantID, customerID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, tx, tenantID, customerID, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey(tenantID, customerID)
	next := m.balances[key].Add(delta)
	m.balances[key] = next
	m.calls = append(m.calls, delta)
	return next, nil
}

func (m *MockBalanceRepository) Get(ctx context.Context, tenantID, customerID string) (*domain.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	amount, ok := m.balances[balanceKey(tenantID, customerID)]
	if !ok {
		return nil, domain.ErrBalanceNotFound
	}
	return &domain.Balance{TenantID: tenantID, CustomerID: customerID, Amount: amount}, nil
}

// Amount returns the stored balance, zero when absent.
func (m *MockBalanceRepository) Amount(tenantID, customerID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[balanceKey(tenantID, customerID)]
}

// Deltas returns every delta applied so far, in order.
func (m *MockBalanceRepository) Deltas() []decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]decimal.Decimal(nil), m.calls...)
}

// MockReassignmentRepository is an in-memory ReassignmentRepository.
type MockReassignmentRepository struct {
	mu      sync.Mutex
	records []*domain.OrderReassignment

	CreateFunc func(ctx context.Context, tx usecase.Transaction, r *domain.OrderReassignment) error
}

func NewMockReassignmentRepository() *MockReassignmentRepository {
	return &MockReassignmentRepository{}
}

func (m *MockReassignmentRepository) Create(ctx context.Context, tx usecase.Transaction, r *domain.OrderReassignment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.records = append(m.records, &cp)
	return nil
}

func (m *MockReassignmentRepository) ListByOrder(ctx context.Context, tenantID, orderID string) ([]*domain.OrderReassignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.OrderReassignment
	for _, r := range m.records {
		if r.TenantID == tenantID && r.OrderID == orderID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockOutboxRepository records outbox events.
type MockOutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns the recorded event types in order.
func (m *MockOutboxRepository) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.EventType)
	}
	return out
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu  sync.Mutex
	txs []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.txs = append(m.txs, tx)
	m.mu.Unlock()
	return tx, nil
}

// Transactions returns the transactions begun so far.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTransaction(nil), m.txs...)
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier retries up to Attempts times while RetryIf reports true.
type MockRetrier struct {
	Attempts int
	RetryIf  func(err error) bool

	Calls int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := m.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		m.Calls++
		err = operation()
		if err == nil || m.RetryIf == nil || !m.RetryIf(err) {
			return err
		}
	}
	return err
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	Prefix       string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{Prefix: "mock-id-"}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("%s%04d", m.Prefix, m.counter)
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{data: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response == nil {
		response = []byte("processing")
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns the stored keys.
func (m *MockIdempotencyStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneOrder(o *domain.Order) *domain.Order {
	cp := *o
	if o.UnitPrice != nil {
		v := *o.UnitPrice
		cp.UnitPrice = &v
	}
	if o.TotalPrice != nil {
		v := *o.TotalPrice
		cp.TotalPrice = &v
	}
	return &cp
}

func cloneMovement(mv *domain.Movement) *domain.Movement {
	cp := *mv
	if mv.OrderID != nil {
		v := *mv.OrderID
		cp.OrderID = &v
	}
	if mv.Note != nil {
		v := *mv.Note
		cp.Note = &v
	}
	return &cp
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

var (
	_ usecase.CustomerRepository     = (*MockCustomerRepository)(nil)
	_ usecase.OrderRepository        = (*MockOrderRepository)(nil)
	_ usecase.MovementRepository     = (*MockMovementRepository)(nil)
	_ usecase.BalanceRepository      = (*MockBalanceRepository)(nil)
	_ usecase.ReassignmentRepository = (*MockReassignmentRepository)(nil)
	_ usecase.OutboxRepository       = (*MockOutboxRepository)(nil)
	_ usecase.TransactionManager     = (*MockTransactionManager)(nil)
	_ usecase.Retrier                = (*MockRetrier)(nil)
	_ usecase.IDGenerator            = (*MockIDGenerator)(nil)
	_ usecase.IdempotencyStore       = (*MockIdempotencyStore)(nil)
)
