package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
	"github.com/backoffice/treasury/internal/usecase/mocks"
)

type scheduleFixture struct {
	uc          *usecase.ScheduleUseCase
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
	fixedRepo   *mocks.MockFixedExpenseRepository
}

func newScheduleFixture() *scheduleFixture {
	f := &scheduleFixture{
		accountRepo: mocks.NewMockAccountRepository(),
		entryRepo:   mocks.NewMockEntryRepository(),
		fixedRepo:   mocks.NewMockFixedExpenseRepository(),
	}
	f.uc = usecase.NewScheduleUseCase(
		mocks.NewMockTransactionManager(),
		f.accountRepo,
		f.entryRepo,
		f.fixedRepo,
		mocks.NewMockIDGenerator(),
	)
	return f
}

func TestScheduleUseCase_CreateFixedExpense(t *testing.T) {
	f := newScheduleFixture()

	fe, err := f.uc.CreateFixedExpense(context.Background(), usecase.CreateFixedExpenseInput{
		Name:          "rent",
		DefaultAmount: decimal.NewFromInt(2000),
		DueDay:        5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, fe.DueDay)

	_, err = f.uc.CreateFixedExpense(context.Background(), usecase.CreateFixedExpenseInput{
		Name:          "bad day",
		DefaultAmount: decimal.NewFromInt(10),
		DueDay:        32,
	})
	require.ErrorIs(t, err, domain.ErrInvalidDueDay)

	_, err = f.uc.CreateFixedExpense(context.Background(), usecase.CreateFixedExpenseInput{
		Name:          "free rent",
		DefaultAmount: decimal.Zero,
		DueDay:        1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestScheduleUseCase_GetPeriods_LazyMaterialization(t *testing.T) {
	f := newScheduleFixture()
	f.fixedRepo.SeedTemplate(&domain.FixedExpense{
		ID:            "fix-1",
		Name:          "rent",
		DefaultAmount: decimal.NewFromInt(2000),
		DueDay:        31,
	})

	from := domain.Period{Year: 2026, Month: time.January}
	to := domain.Period{Year: 2026, Month: time.March}

	periods, err := f.uc.GetPeriods(context.Background(), "fix-1", from, to)
	require.NoError(t, err)
	require.Len(t, periods, 3)

	// Ascending by period, all pending with the template defaults.
	assert.Equal(t, "2026-01", periods[0].Period.String())
	assert.Equal(t, "2026-02", periods[1].Period.String())
	assert.Equal(t, "2026-03", periods[2].Period.String())
	for _, p := range periods {
		assert.Equal(t, domain.PeriodPending, p.Status)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(2000)))
	}

	// Due day 31 clamps to the end of February.
	assert.Equal(t, 28, periods[1].DueDate.Day())

	// A second overlapping read must not duplicate months.
	again, err := f.uc.GetPeriods(context.Background(), "fix-1", from, domain.Period{Year: 2026, Month: time.May})
	require.NoError(t, err)
	require.Len(t, again, 5)

	seen := make(map[string]bool)
	for _, p := range again {
		key := p.FixedExpenseID + "/" + p.Period.String()
		assert.False(t, seen[key], "duplicate period %s", key)
		seen[key] = true
	}
}

func TestScheduleUseCase_GetPeriods_InvalidRange(t *testing.T) {
	f := newScheduleFixture()
	f.fixedRepo.SeedTemplate(&domain.FixedExpense{ID: "fix-1", DefaultAmount: decimal.NewFromInt(1), DueDay: 1})

	_, err := f.uc.GetPeriods(context.Background(), "fix-1",
		domain.Period{Year: 2026, Month: time.May},
		domain.Period{Year: 2026, Month: time.January},
	)
	require.ErrorIs(t, err, domain.ErrInvalidPeriodRange)

	// An oversized range would materialize one row per month; it is
	// rejected before any insert happens.
	_, err = f.uc.GetPeriods(context.Background(), "fix-1",
		domain.Period{Year: 1, Month: time.January},
		domain.Period{Year: 9999, Month: time.December},
	)
	require.ErrorIs(t, err, domain.ErrInvalidPeriodRange)

	_, err = f.uc.GetPeriods(context.Background(), "ghost",
		domain.Period{Year: 2026, Month: time.January},
		domain.Period{Year: 2026, Month: time.February},
	)
	require.ErrorIs(t, err, domain.ErrFixedExpenseNotFound)
}

func TestScheduleUseCase_PayPeriod(t *testing.T) {
	f := newScheduleFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-1", Balance: decimal.NewFromInt(5000), IsActive: true})
	f.fixedRepo.SeedTemplate(&domain.FixedExpense{
		ID:            "fix-1",
		Name:          "rent",
		CategoryID:    "cat-rent",
		DefaultAmount: decimal.NewFromInt(2000),
		DueDay:        5,
	})
	f.fixedRepo.SeedPeriod(&domain.FixedExpensePeriod{
		ID:             "per-1",
		FixedExpenseID: "fix-1",
		Period:         domain.Period{Year: 2026, Month: time.August},
		Amount:         decimal.NewFromInt(2000),
		Status:         domain.PeriodPending,
	})

	period, entry, err := f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		PeriodID:  "per-1",
		AccountID: "acc-1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PeriodPaid, period.Status)
	assert.Equal(t, "acc-1", period.PaidAccountID)
	assert.Equal(t, domain.TypeFixedExpense, entry.Type)
	assert.Equal(t, "per-1", entry.ReferenceID)
	assert.Equal(t, "cat-rent", entry.CategoryID)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(2000)), "zero override falls back to the scheduled amount")
	assert.True(t, f.accountRepo.Stored("acc-1").Balance.Equal(decimal.NewFromInt(3000)))

	// Re-paying the period is a conflict and posts nothing new.
	_, _, err = f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		PeriodID:  "per-1",
		AccountID: "acc-1",
	})
	require.ErrorIs(t, err, domain.ErrPeriodAlreadyPaid)
	assert.Len(t, f.entryRepo.All(), 1)
}

func TestScheduleUseCase_PayPeriod_AmountOverride(t *testing.T) {
	f := newScheduleFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-1", Balance: decimal.NewFromInt(5000), IsActive: true})
	f.fixedRepo.SeedTemplate(&domain.FixedExpense{ID: "fix-1", Name: "electricity", DefaultAmount: decimal.NewFromInt(300), DueDay: 10})
	f.fixedRepo.SeedPeriod(&domain.FixedExpensePeriod{
		ID:             "per-1",
		FixedExpenseID: "fix-1",
		Period:         domain.Period{Year: 2026, Month: time.July},
		Amount:         decimal.NewFromInt(300),
		Status:         domain.PeriodPending,
	})

	// The bill came in higher than scheduled and was paid earlier in the
	// month; the ledger records reality.
	paidAt := time.Date(2026, time.July, 2, 0, 0, 0, 0, time.UTC)
	period, entry, err := f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		PeriodID:  "per-1",
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(340),
		PaidAt:    paidAt,
	})
	require.NoError(t, err)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(340)))
	assert.True(t, entry.OccurredAt.Equal(paidAt))

	stored := f.fixedRepo.StoredPeriod("per-1")
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(300)), "the scheduled amount stays on the period")
	require.NotNil(t, stored.PaidAt)
	assert.True(t, stored.PaidAt.Equal(paidAt))
	assert.True(t, stored.UpdatedAt.Equal(period.UpdatedAt), "stored row and returned record agree on updated_at")
	assert.False(t, stored.UpdatedAt.Equal(paidAt))
}

func TestScheduleUseCase_SkipPeriod(t *testing.T) {
	f := newScheduleFixture()
	f.fixedRepo.SeedTemplate(&domain.FixedExpense{ID: "fix-1", DefaultAmount: decimal.NewFromInt(1), DueDay: 1})
	f.fixedRepo.SeedPeriod(&domain.FixedExpensePeriod{
		ID:             "per-1",
		FixedExpenseID: "fix-1",
		Period:         domain.Period{Year: 2026, Month: time.June},
		Status:         domain.PeriodPending,
	})

	period, err := f.uc.SkipPeriod(context.Background(), "per-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodSkipped, period.Status)

	// A paid period cannot be skipped.
	f.fixedRepo.SeedPeriod(&domain.FixedExpensePeriod{
		ID:             "per-2",
		FixedExpenseID: "fix-1",
		Period:         domain.Period{Year: 2026, Month: time.July},
		Status:         domain.PeriodPaid,
	})
	_, err = f.uc.SkipPeriod(context.Background(), "per-2")
	require.ErrorIs(t, err, domain.ErrPeriodAlreadyPaid)
}
