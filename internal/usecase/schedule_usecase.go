package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
)

// ScheduleUseCase handles fixed-expense templates and their monthly
// periods. Periods are materialized lazily: the first range read creates
// the missing months, so long-lived templates never pre-generate rows.
type ScheduleUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	fixedRepo   FixedExpenseRepository
	idGen       IDGenerator
}

// NewScheduleUseCase creates a new ScheduleUseCase.
func NewScheduleUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	fixedRepo FixedExpenseRepository,
	idGen IDGenerator,
) *ScheduleUseCase {
	return &ScheduleUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		fixedRepo:   fixedRepo,
		idGen:       idGen,
	}
}

// CreateFixedExpenseInput represents input for creating a template.
type CreateFixedExpenseInput struct {
	Name          string
	CategoryID    string
	DefaultAmount decimal.Decimal
	DueDay        int
}

// CreateFixedExpense creates a recurring expense template.
func (uc *ScheduleUseCase) CreateFixedExpense(ctx context.Context, input CreateFixedExpenseInput) (*domain.FixedExpense, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.DefaultAmount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDueDay(input.DueDay); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	fe := &domain.FixedExpense{
		ID:            uc.idGen.Generate(),
		Name:          input.Name,
		CategoryID:    input.CategoryID,
		DefaultAmount: input.DefaultAmount,
		DueDay:        input.DueDay,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.fixedRepo.CreateTemplate(ctx, fe); err != nil {
		return nil, err
	}

	return fe, nil
}

// ListFixedExpenses lists templates with pagination.
func (uc *ScheduleUseCase) ListFixedExpenses(ctx context.Context, limit, offset int) ([]*domain.FixedExpense, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.fixedRepo.ListTemplates(ctx, limit, offset)
}

// GetPeriods returns every period of a template in [from, to], creating the
// missing months from the template's defaults first. The unique key on
// (fixed_expense_id, period) makes concurrent overlapping reads safe: the
// insert is a no-op for months that already exist.
func (uc *ScheduleUseCase) GetPeriods(ctx context.Context, fixedExpenseID string, from, to domain.Period) ([]*domain.FixedExpensePeriod, error) {
	fe, err := uc.fixedRepo.GetTemplate(ctx, fixedExpenseID)
	if err != nil {
		return nil, err
	}

	months, err := domain.PeriodsBetween(from, to)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	for _, month := range months {
		period := &domain.FixedExpensePeriod{
			ID:             uc.idGen.Generate(),
			FixedExpenseID: fe.ID,
			Period:         month,
			Amount:         fe.DefaultAmount,
			DueDate:        month.DueDate(fe.DueDay),
			Status:         domain.PeriodPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := uc.fixedRepo.InsertPeriodIfAbsent(ctx, period); err != nil {
			return nil, err
		}
	}

	return uc.fixedRepo.ListPeriods(ctx, fe.ID, from, to)
}

// PayPeriodInput represents input for paying one period.
type PayPeriodInput struct {
	PeriodID  string
	AccountID string
	// Amount overrides the scheduled amount when positive; zero falls back
	// to the period's amount. The ledger records what was actually paid.
	Amount decimal.Decimal
	PaidAt time.Time
}

// PayPeriod marks a period paid and posts its single OUT entry atomically.
// Re-paying a paid period is rejected.
func (uc *ScheduleUseCase) PayPeriod(ctx context.Context, input PayPeriodInput) (*domain.FixedExpensePeriod, *domain.Entry, error) {
	if input.Amount.IsNegative() {
		return nil, nil, domain.ErrInvalidAmount
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	period, err := uc.fixedRepo.GetPeriodForUpdate(ctx, tx, input.PeriodID)
	if err != nil {
		return nil, nil, err
	}

	if period.Status == domain.PeriodPaid {
		return nil, nil, domain.ErrPeriodAlreadyPaid
	}

	fe, err := uc.fixedRepo.GetTemplate(ctx, period.FixedExpenseID)
	if err != nil {
		return nil, nil, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, nil, err
	}

	amount := input.Amount
	if amount.IsZero() {
		amount = period.Amount
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		Direction:   domain.DirectionOut,
		Amount:      amount,
		Type:        domain.TypeFixedExpense,
		ReferenceID: period.ID,
		CategoryID:  fe.CategoryID,
		Description: fe.Name + " " + period.Period.String(),
		OccurredAt:  paidAt,
	}

	if err := postEntry(ctx, tx, uc.accountRepo, uc.entryRepo, account, entry, now); err != nil {
		return nil, nil, err
	}

	if err := uc.fixedRepo.MarkPeriodPaid(ctx, tx, period.ID, account.ID, paidAt, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	period.Status = domain.PeriodPaid
	period.PaidAt = &paidAt
	period.PaidAccountID = account.ID
	period.UpdatedAt = now

	return period, entry, nil
}

// SkipPeriod marks a pending period skipped. A paid period cannot be
// skipped; corrections to paid months go through reconciliation.
func (uc *ScheduleUseCase) SkipPeriod(ctx context.Context, periodID string) (*domain.FixedExpensePeriod, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	period, err := uc.fixedRepo.GetPeriodForUpdate(ctx, tx, periodID)
	if err != nil {
		return nil, err
	}

	if period.Status == domain.PeriodPaid {
		return nil, domain.ErrPeriodAlreadyPaid
	}

	now := time.Now().UTC()

	if err := uc.fixedRepo.MarkPeriodSkipped(ctx, tx, period.ID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	period.Status = domain.PeriodSkipped
	period.UpdatedAt = now

	return period, nil
}
