package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		OpeningBalance: r.OpeningBalance,
	}
}

// UpdateAccountRequest represents a partial account update. Absent fields
// are left untouched.
type UpdateAccountRequest struct {
	Name           *string          `json:"name,omitempty"`
	Type           *string          `json:"type,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	input := usecase.UpdateAccountInput{
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
		IsActive:       r.IsActive,
	}
	if r.Type != nil {
		t := domain.AccountType(*r.Type)
		input.Type = &t
	}

	return input
}

// PostEntryRequest represents a request to append a ledger entry.
type PostEntryRequest struct {
	AccountID   string          `json:"account_id"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	ReferenceID string          `json:"reference_id,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Description string          `json:"description,omitempty"`
	OccurredAt  *time.Time      `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput() usecase.PostEntryInput {
	input := usecase.PostEntryInput{
		AccountID:   r.AccountID,
		Direction:   domain.Direction(r.Direction),
		Amount:      r.Amount,
		Type:        domain.TransactionType(r.Type),
		ReferenceID: r.ReferenceID,
		CategoryID:  r.CategoryID,
		Description: r.Description,
	}
	if r.OccurredAt != nil {
		input.OccurredAt = *r.OccurredAt
	}

	return input
}

// CreateTransferRequest represents a request to move money between accounts.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	OccurredAt    *time.Time      `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	input := usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Description:   r.Description,
	}
	if r.OccurredAt != nil {
		input.OccurredAt = *r.OccurredAt
	}

	return input
}

// CreateExpenseRequest represents a request to register a pending expense.
type CreateExpenseRequest struct {
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput() usecase.CreateExpenseInput {
	return usecase.CreateExpenseInput{
		Name:       r.Name,
		CategoryID: r.CategoryID,
		Amount:     r.Amount,
		DueDate:    r.DueDate,
	}
}

// PayExpenseRequest represents a request to pay a pending expense.
type PayExpenseRequest struct {
	AccountID  string     `json:"account_id"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// CreateFixedExpenseRequest represents a request to create a recurring
// expense template.
type CreateFixedExpenseRequest struct {
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id,omitempty"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	DueDay        int             `json:"due_day"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFixedExpenseRequest) ToUseCaseInput() usecase.CreateFixedExpenseInput {
	return usecase.CreateFixedExpenseInput{
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		DefaultAmount: r.DefaultAmount,
		DueDay:        r.DueDay,
	}
}

// PayPeriodRequest represents a request to pay one month of a fixed
// expense. A positive amount overrides the scheduled amount.
type PayPeriodRequest struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount,omitempty"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// CreateEmployeeRequest represents a request to register an employee.
type CreateEmployeeRequest struct {
	Name   string          `json:"name"`
	Role   string          `json:"role,omitempty"`
	Salary decimal.Decimal `json:"salary"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEmployeeRequest) ToUseCaseInput() usecase.CreateEmployeeInput {
	return usecase.CreateEmployeeInput{
		Name:   r.Name,
		Role:   r.Role,
		Salary: r.Salary,
	}
}

// RecordPaymentRequest represents a request to record a salary payout.
type RecordPaymentRequest struct {
	EmployeeID string          `json:"employee_id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput() usecase.RecordPaymentInput {
	input := usecase.RecordPaymentInput{
		EmployeeID: r.EmployeeID,
		AccountID:  r.AccountID,
		Amount:     r.Amount,
		Note:       r.Note,
	}
	if r.PaidAt != nil {
		input.PaidAt = *r.PaidAt
	}

	return input
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// ReconcileRequest represents a request to reconcile an account against a
// physically counted balance.
type ReconcileRequest struct {
	RealBalance decimal.Decimal `json:"real_balance"`
	Description string          `json:"description,omitempty"`
	OccurredAt  *time.Time      `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *ReconcileRequest) ToUseCaseInput(accountID string) usecase.ReconcileInput {
	input := usecase.ReconcileInput{
		AccountID:   accountID,
		RealBalance: r.RealBalance,
		Description: r.Description,
	}
	if r.OccurredAt != nil {
		input.OccurredAt = *r.OccurredAt
	}

	return input
}
