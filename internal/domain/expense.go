package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the payment state of a one-off expense.
type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "pending"
	ExpensePaid    ExpenseStatus = "paid"
)

// Expense is a one-off bill. It transitions pending -> paid exactly once,
// atomically with posting one OUT ledger entry.
type Expense struct {
	ID            string
	Name          string
	CategoryID    string
	Amount        decimal.Decimal
	DueDate       time.Time
	Status        ExpenseStatus
	PaidAt        *time.Time
	PaidAccountID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FixedExpense is a monthly recurring expense template. Concrete months are
// materialized lazily as FixedExpensePeriod rows when a range is queried.
type FixedExpense struct {
	ID            string
	Name          string
	CategoryID    string
	DefaultAmount decimal.Decimal
	DueDay        int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PeriodStatus is the payment state of one month of a fixed expense.
type PeriodStatus string

const (
	PeriodPending PeriodStatus = "pending"
	PeriodPaid    PeriodStatus = "paid"
	PeriodSkipped PeriodStatus = "skipped"
)

// FixedExpensePeriod is one month of a fixed expense. At most one row exists
// per (FixedExpenseID, Period).
type FixedExpensePeriod struct {
	ID             string
	FixedExpenseID string
	Period         Period
	Amount         decimal.Decimal
	DueDate        time.Time
	Status         PeriodStatus
	PaidAt         *time.Time
	PaidAccountID  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
