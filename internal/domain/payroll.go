package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is reference data consumed by payroll postings.
type Employee struct {
	ID        string
	Name      string
	Role      string
	Salary    decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollPayment records one salary payout. Payments are terminal; there is
// no pending state. Each payment owns exactly one OUT ledger entry.
type PayrollPayment struct {
	ID         string
	EmployeeID string
	AccountID  string
	Amount     decimal.Decimal
	Note       string
	PaidAt     time.Time
	CreatedAt  time.Time
}
