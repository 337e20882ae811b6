package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
)

// PayrollUseCase handles employee reference data and salary payouts.
type PayrollUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	employeeRepo EmployeeRepository
	payrollRepo  PayrollRepository
	idGen        IDGenerator
}

// NewPayrollUseCase creates a new PayrollUseCase.
func NewPayrollUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	employeeRepo EmployeeRepository,
	payrollRepo PayrollRepository,
	idGen IDGenerator,
) *PayrollUseCase {
	return &PayrollUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		idGen:        idGen,
	}
}

// CreateEmployeeInput represents input for registering an employee.
type CreateEmployeeInput struct {
	Name   string
	Role   string
	Salary decimal.Decimal
}

// CreateEmployee registers an employee.
func (uc *PayrollUseCase) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	employee := &domain.Employee{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Role:      input.Role,
		Salary:    input.Salary,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

// ListEmployees lists employees with pagination.
func (uc *PayrollUseCase) ListEmployees(ctx context.Context, limit, offset int) ([]*domain.Employee, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.employeeRepo.List(ctx, limit, offset)
}

// RecordPaymentInput represents input for recording a salary payout.
type RecordPaymentInput struct {
	EmployeeID string
	AccountID  string
	Amount     decimal.Decimal
	Note       string
	PaidAt     time.Time
}

// RecordPayment creates the payment record and posts its single OUT entry
// atomically. Payroll payments are terminal; there is no pending state.
func (uc *PayrollUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.PayrollPayment, *domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, nil, err
	}

	employee, err := uc.employeeRepo.GetByID(ctx, input.EmployeeID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	payment := &domain.PayrollPayment{
		ID:         uc.idGen.Generate(),
		EmployeeID: employee.ID,
		AccountID:  account.ID,
		Amount:     input.Amount,
		Note:       input.Note,
		PaidAt:     paidAt,
		CreatedAt:  now,
	}

	if err := uc.payrollRepo.CreatePayment(ctx, tx, payment); err != nil {
		return nil, nil, err
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		Direction:   domain.DirectionOut,
		Amount:      input.Amount,
		Type:        domain.TypePayroll,
		ReferenceID: payment.ID,
		Description: "salary: " + employee.Name,
		OccurredAt:  paidAt,
	}

	if err := postEntry(ctx, tx, uc.accountRepo, uc.entryRepo, account, entry, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return payment, entry, nil
}

// ListPayments lists payroll payments, optionally scoped to one employee.
func (uc *PayrollUseCase) ListPayments(ctx context.Context, employeeID string, limit, offset int) ([]*domain.PayrollPayment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.payrollRepo.ListPayments(ctx, employeeID, limit, offset)
}
