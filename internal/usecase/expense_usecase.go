package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
)

// ExpenseUseCase handles one-off expenses and their posting to the ledger.
type ExpenseUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	expenseRepo  ExpenseRepository
	categoryRepo CategoryRepository
	idGen        IDGenerator
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	expenseRepo ExpenseRepository,
	categoryRepo CategoryRepository,
	idGen IDGenerator,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		idGen:        idGen,
	}
}

// CreateExpenseInput represents input for registering a pending expense.
type CreateExpenseInput struct {
	Name       string
	CategoryID string
	Amount     decimal.Decimal
	DueDate    time.Time
}

// CreateExpense registers a pending expense. No ledger entry exists until
// the expense is paid.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.CategoryID != "" {
		if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	expense := &domain.Expense{
		ID:         uc.idGen.Generate(),
		Name:       input.Name,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		DueDate:    input.DueDate,
		Status:     domain.ExpensePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// PayExpenseInput represents input for paying a pending expense.
type PayExpenseInput struct {
	ExpenseID  string
	AccountID  string
	OccurredAt time.Time
}

// PayExpense marks a pending expense paid and posts its single OUT entry,
// both inside one transaction. Paying an already-paid expense is rejected,
// never silently repeated.
func (uc *ExpenseUseCase) PayExpense(ctx context.Context, input PayExpenseInput) (*domain.Expense, *domain.Entry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	expense, err := uc.expenseRepo.GetByIDForUpdate(ctx, tx, input.ExpenseID)
	if err != nil {
		return nil, nil, err
	}

	if expense.Status != domain.ExpensePending {
		return nil, nil, domain.ErrExpenseAlreadyPaid
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		Direction:   domain.DirectionOut,
		Amount:      expense.Amount,
		Type:        domain.TypeExpense,
		ReferenceID: expense.ID,
		CategoryID:  expense.CategoryID,
		Description: expense.Name,
		OccurredAt:  occurredAt,
	}

	if err := postEntry(ctx, tx, uc.accountRepo, uc.entryRepo, account, entry, now); err != nil {
		return nil, nil, err
	}

	if err := uc.expenseRepo.MarkPaid(ctx, tx, expense.ID, account.ID, occurredAt, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	expense.Status = domain.ExpensePaid
	expense.PaidAt = &occurredAt
	expense.PaidAccountID = account.ID
	expense.UpdatedAt = now

	return expense, entry, nil
}

// GetExpense retrieves an expense by ID.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return uc.expenseRepo.GetByID(ctx, id)
}

// ListExpensesInput represents input for listing expenses.
type ListExpensesInput struct {
	Status domain.ExpenseStatus
	Limit  int
	Offset int
}

// ListExpenses lists expenses, optionally filtered by status.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*domain.Expense, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.expenseRepo.List(ctx, input.Status, limit, offset)
}
