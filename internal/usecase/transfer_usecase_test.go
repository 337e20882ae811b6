package usecase_test

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
	"github.com/backoffice/treasury/internal/usecase/mocks"
)

type transferFixture struct {
	uc          *usecase.TransferUseCase
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
}

func newTransferFixture() *transferFixture {
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	uc := usecase.NewTransferUseCase(
		mocks.NewMockTransactionManager(),
		accountRepo,
		entryRepo,
		mocks.NewMockIDGenerator(),
	)
	return &transferFixture{uc: uc, accountRepo: accountRepo, entryRepo: entryRepo}
}

func TestTransferUseCase_Transfer_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.TransferInput
		errorType error
	}{
		{
			name: "same account rejected",
			input: usecase.TransferInput{
				FromAccountID: "acc-1",
				ToAccountID:   "acc-1",
				Amount:        decimal.NewFromInt(100),
			},
			errorType: domain.ErrSameAccount,
		},
		{
			name: "non-positive amount rejected",
			input: usecase.TransferInput{
				FromAccountID: "acc-1",
				ToAccountID:   "acc-2",
				Amount:        decimal.Zero,
			},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "unknown destination rejected",
			input: usecase.TransferInput{
				FromAccountID: "acc-1",
				ToAccountID:   "ghost",
				Amount:        decimal.NewFromInt(100),
			},
			errorType: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransferFixture()
			f.accountRepo.Seed(&domain.Account{ID: "acc-1", Balance: decimal.NewFromInt(500), IsActive: true})
			f.accountRepo.Seed(&domain.Account{ID: "acc-2", Balance: decimal.Zero, IsActive: true})

			_, err := f.uc.Transfer(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.errorType)
			assert.Empty(t, f.entryRepo.All(), "a failed transfer must leave no leg behind")
		})
	}
}

func TestTransferUseCase_Transfer_MovesBothBalances(t *testing.T) {
	f := newTransferFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-a", Balance: decimal.NewFromInt(800), IsActive: true})
	f.accountRepo.Seed(&domain.Account{ID: "acc-b", Balance: decimal.Zero, IsActive: true})

	result, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.NewFromInt(300),
		Description:   "float top-up",
	})
	require.NoError(t, err)

	assert.True(t, f.accountRepo.Stored("acc-a").Balance.Equal(decimal.NewFromInt(500)))
	assert.True(t, f.accountRepo.Stored("acc-b").Balance.Equal(decimal.NewFromInt(300)))

	require.NotNil(t, result.OutEntry)
	require.NotNil(t, result.InEntry)
	assert.Equal(t, domain.DirectionOut, result.OutEntry.Direction)
	assert.Equal(t, "acc-a", result.OutEntry.AccountID)
	assert.Equal(t, domain.DirectionIn, result.InEntry.Direction)
	assert.Equal(t, "acc-b", result.InEntry.AccountID)

	// Both legs share the reference id and are equal in amount.
	assert.Equal(t, result.ReferenceID, result.OutEntry.ReferenceID)
	assert.Equal(t, result.ReferenceID, result.InEntry.ReferenceID)
	assert.True(t, result.OutEntry.Amount.Equal(result.InEntry.Amount))
	assert.Equal(t, result.OutEntry.OccurredAt, result.InEntry.OccurredAt)
	assert.Equal(t, domain.TypeTransfer, result.OutEntry.Type)

	entries, err := f.entryRepo.GetByReference(context.Background(), result.ReferenceID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTransferUseCase_Transfer_AllowsNegativeBalance(t *testing.T) {
	f := newTransferFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-a", Balance: decimal.NewFromInt(100), IsActive: true})
	f.accountRepo.Seed(&domain.Account{ID: "acc-b", Balance: decimal.Zero, IsActive: true})

	// Overdrafts are allowed; drawers get corrected via reconciliation.
	_, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.NewFromInt(250),
	})
	require.NoError(t, err)
	assert.True(t, f.accountRepo.Stored("acc-a").Balance.Equal(decimal.NewFromInt(-150)))
}

func TestTransferUseCase_Transfer_LocksAccountsInSortedOrder(t *testing.T) {
	f := newTransferFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-z", Balance: decimal.NewFromInt(100), IsActive: true})
	f.accountRepo.Seed(&domain.Account{ID: "acc-a", Balance: decimal.Zero, IsActive: true})

	var lockedIDs []string
	f.accountRepo.GetByIDsForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
		lockedIDs = append([]string{}, ids...)
		accounts := make([]*domain.Account, 0, len(ids))
		for _, id := range ids {
			if a := f.accountRepo.Stored(id); a != nil {
				accounts = append(accounts, a)
			}
		}
		return accounts, nil
	}

	// Transfer goes z -> a, but locks must still be taken a, z.
	_, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-z",
		ToAccountID:   "acc-a",
		Amount:        decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.True(t, sort.StringsAreSorted(lockedIDs))
}
