// Package mocks provides in-memory fakes for the usecase ports. Each fake
// has optional Func fields to override single methods; without an override
// it behaves like a tiny in-memory store.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
)

// MockTransaction is a no-op transaction that records its outcome.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions and keeps them for
// inspection.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator yields deterministic sequential IDs.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (g *MockIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n)
}

// MockRetrier runs the operation once, without backoff.
type MockRetrier struct {
	Attempts int
}

func (r *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	r.Attempts++
	return operation()
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateFunc            func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, includeInactive bool, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed stores an account directly, bypassing any Func override.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
}

// Stored returns the stored state of an account, or nil.
func (m *MockAccountRepository) Stored(id string) *domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		cp := *a
		return &cp
	}
	return nil
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	if a := m.Stored(id); a != nil {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	var accounts []*domain.Account
	for _, id := range ids {
		if a := m.Stored(id); a != nil {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Balance = balance
	a.Version++
	a.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, includeInactive, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, a := range m.accounts {
		if !includeInactive && !a.IsActive {
			continue
		}
		cp := *a
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// MockEntryRepository is an in-memory EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	ListFunc   func(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// All returns every stored entry in insertion order.
func (m *MockEntryRepository) All() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.ReferenceID == referenceID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if filter.AccountID != "" && e.AccountID != filter.AccountID {
			continue
		}
		if filter.CategoryID != "" && e.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Direction != "" && e.Direction != filter.Direction {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if !filter.From.IsZero() && e.OccurredAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && e.OccurredAt.After(filter.To) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (m *MockEntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Signed())
		}
	}
	return sum, nil
}

// MockLedgerRepository is an in-memory LedgerRepository.
type MockLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) ([]domain.BalanceDrift, error)
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) ([]domain.BalanceDrift, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return nil, nil
}

// MockExpenseRepository is an in-memory ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense

	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Expense, error)
	MarkPaidFunc         func(ctx context.Context, tx usecase.Transaction, id, accountID string, paidAt, updatedAt time.Time) error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{expenses: make(map[string]*domain.Expense)}
}

func (m *MockExpenseRepository) Seed(expense *domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *expense
	m.expenses[expense.ID] = &cp
}

func (m *MockExpenseRepository) Stored(id string) *domain.Expense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		cp := *e
		return &cp
	}
	return nil
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	m.Seed(expense)
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	if e := m.Stored(id); e != nil {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Expense, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockExpenseRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, id, accountID string, paidAt, updatedAt time.Time) error {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, tx, id, accountID, paidAt, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	e.Status = domain.ExpensePaid
	e.PaidAt = &paidAt
	e.PaidAccountID = accountID
	e.UpdatedAt = updatedAt
	return nil
}

func (m *MockExpenseRepository) List(ctx context.Context, status domain.ExpenseStatus, limit, offset int) ([]*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Expense
	for _, e := range m.expenses {
		if status != "" && e.Status != status {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockFixedExpenseRepository is an in-memory FixedExpenseRepository.
type MockFixedExpenseRepository struct {
	mu        sync.RWMutex
	templates map[string]*domain.FixedExpense
	periods   map[string]*domain.FixedExpensePeriod

	InsertPeriodIfAbsentFunc func(ctx context.Context, period *domain.FixedExpensePeriod) error
	GetPeriodForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, id string) (*domain.FixedExpensePeriod, error)
}

func NewMockFixedExpenseRepository() *MockFixedExpenseRepository {
	return &MockFixedExpenseRepository{
		templates: make(map[string]*domain.FixedExpense),
		periods:   make(map[string]*domain.FixedExpensePeriod),
	}
}

func (m *MockFixedExpenseRepository) SeedTemplate(fe *domain.FixedExpense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *fe
	m.templates[fe.ID] = &cp
}

func (m *MockFixedExpenseRepository) SeedPeriod(p *domain.FixedExpensePeriod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.periods[p.ID] = &cp
}

func (m *MockFixedExpenseRepository) StoredPeriod(id string) *domain.FixedExpensePeriod {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.periods[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (m *MockFixedExpenseRepository) CreateTemplate(ctx context.Context, fe *domain.FixedExpense) error {
	m.SeedTemplate(fe)
	return nil
}

func (m *MockFixedExpenseRepository) GetTemplate(ctx context.Context, id string) (*domain.FixedExpense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if fe, ok := m.templates[id]; ok {
		cp := *fe
		return &cp, nil
	}
	return nil, domain.ErrFixedExpenseNotFound
}

func (m *MockFixedExpenseRepository) ListTemplates(ctx context.Context, limit, offset int) ([]*domain.FixedExpense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.FixedExpense
	for _, fe := range m.templates {
		cp := *fe
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockFixedExpenseRepository) InsertPeriodIfAbsent(ctx context.Context, period *domain.FixedExpensePeriod) error {
	if m.InsertPeriodIfAbsentFunc != nil {
		return m.InsertPeriodIfAbsentFunc(ctx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		if p.FixedExpenseID == period.FixedExpenseID && p.Period == period.Period {
			return nil
		}
	}
	cp := *period
	m.periods[period.ID] = &cp
	return nil
}

func (m *MockFixedExpenseRepository) ListPeriods(ctx context.Context, fixedExpenseID string, from, to domain.Period) ([]*domain.FixedExpensePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.FixedExpensePeriod
	for _, p := range m.periods {
		if p.FixedExpenseID != fixedExpenseID {
			continue
		}
		if p.Period.Before(from) || to.Before(p.Period) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}

func (m *MockFixedExpenseRepository) GetPeriodByID(ctx context.Context, id string) (*domain.FixedExpensePeriod, error) {
	if p := m.StoredPeriod(id); p != nil {
		return p, nil
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockFixedExpenseRepository) GetPeriodForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.FixedExpensePeriod, error) {
	if m.GetPeriodForUpdateFunc != nil {
		return m.GetPeriodForUpdateFunc(ctx, tx, id)
	}
	return m.GetPeriodByID(ctx, id)
}

func (m *MockFixedExpenseRepository) MarkPeriodPaid(ctx context.Context, tx usecase.Transaction, id, accountID string, paidAt, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[id]
	if !ok {
		return domain.ErrPeriodNotFound
	}
	p.Status = domain.PeriodPaid
	p.PaidAt = &paidAt
	p.PaidAccountID = accountID
	p.UpdatedAt = updatedAt
	return nil
}

func (m *MockFixedExpenseRepository) MarkPeriodSkipped(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[id]
	if !ok {
		return domain.ErrPeriodNotFound
	}
	p.Status = domain.PeriodSkipped
	p.UpdatedAt = updatedAt
	return nil
}

// MockEmployeeRepository is an in-memory EmployeeRepository.
type MockEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]*domain.Employee
}

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{employees: make(map[string]*domain.Employee)}
}

func (m *MockEmployeeRepository) Seed(e *domain.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.employees[e.ID] = &cp
}

func (m *MockEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	m.Seed(employee)
	return nil
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (m *MockEmployeeRepository) List(ctx context.Context, limit, offset int) ([]*domain.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Employee
	for _, e := range m.employees {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockPayrollRepository is an in-memory PayrollRepository.
type MockPayrollRepository struct {
	mu       sync.RWMutex
	payments []*domain.PayrollPayment

	CreatePaymentFunc func(ctx context.Context, tx usecase.Transaction, payment *domain.PayrollPayment) error
}

func NewMockPayrollRepository() *MockPayrollRepository {
	return &MockPayrollRepository{}
}

func (m *MockPayrollRepository) All() []*domain.PayrollPayment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.PayrollPayment, len(m.payments))
	copy(out, m.payments)
	return out
}

func (m *MockPayrollRepository) CreatePayment(ctx context.Context, tx usecase.Transaction, payment *domain.PayrollPayment) error {
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *payment
	m.payments = append(m.payments, &cp)
	return nil
}

func (m *MockPayrollRepository) ListPayments(ctx context.Context, employeeID string, limit, offset int) ([]*domain.PayrollPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PayrollPayment
	for _, p := range m.payments {
		if employeeID != "" && p.EmployeeID != employeeID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// MockCategoryRepository is an in-memory CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{categories: make(map[string]*domain.Category)}
}

func (m *MockCategoryRepository) Seed(c *domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.categories[c.ID] = &cp
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.Seed(category)
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Category
	for _, c := range m.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
