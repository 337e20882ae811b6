package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries. Entries are
// append-only: there is no update or delete.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error)
	List(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerRepository defines ledger-wide checks.
type LedgerRepository interface {
	// CheckConsistency returns every account whose cached balance has
	// drifted from opening_balance + sum(signed entries).
	CheckConsistency(ctx context.Context) ([]domain.BalanceDrift, error)
}

// ExpenseRepository defines data access for one-off expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Expense, error)
	MarkPaid(ctx context.Context, tx Transaction, id, accountID string, paidAt, updatedAt time.Time) error
	List(ctx context.Context, status domain.ExpenseStatus, limit, offset int) ([]*domain.Expense, error)
}

// FixedExpenseRepository defines data access for recurring expense
// templates and their materialized monthly periods.
type FixedExpenseRepository interface {
	CreateTemplate(ctx context.Context, fe *domain.FixedExpense) error
	GetTemplate(ctx context.Context, id string) (*domain.FixedExpense, error)
	ListTemplates(ctx context.Context, limit, offset int) ([]*domain.FixedExpense, error)

	// InsertPeriodIfAbsent inserts a period unless one already exists for
	// the same (fixed_expense_id, period) pair. Losing the race is not an
	// error; the stored row wins.
	InsertPeriodIfAbsent(ctx context.Context, period *domain.FixedExpensePeriod) error
	ListPeriods(ctx context.Context, fixedExpenseID string, from, to domain.Period) ([]*domain.FixedExpensePeriod, error)
	GetPeriodByID(ctx context.Context, id string) (*domain.FixedExpensePeriod, error)
	GetPeriodForUpdate(ctx context.Context, tx Transaction, id string) (*domain.FixedExpensePeriod, error)
	MarkPeriodPaid(ctx context.Context, tx Transaction, id, accountID string, paidAt, updatedAt time.Time) error
	MarkPeriodSkipped(ctx context.Context, tx Transaction, id string, updatedAt time.Time) error
}

// EmployeeRepository defines data access for employee reference data.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Employee, error)
}

// PayrollRepository defines data access for payroll payments.
type PayrollRepository interface {
	CreatePayment(ctx context.Context, tx Transaction, payment *domain.PayrollPayment) error
	ListPayments(ctx context.Context, employeeID string, limit, offset int) ([]*domain.PayrollPayment, error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation when the storage layer reports a
// serialization conflict or deadlock.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
