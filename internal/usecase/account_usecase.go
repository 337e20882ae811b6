package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
)

// AccountUseCase handles account registry operations.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name           string
	Type           domain.AccountType
	OpeningBalance decimal.Decimal
}

// CreateAccount creates a new account. The cached balance starts at the
// opening balance since no entries exist yet.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if !domain.ValidAccountType(input.Type) {
		return nil, domain.ErrInvalidAccountType
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		Type:           input.Type,
		OpeningBalance: input.OpeningBalance,
		Balance:        input.OpeningBalance,
		Version:        0,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateAccountInput carries optional field updates. Nil means "leave as is".
type UpdateAccountInput struct {
	Name           *string
	Type           *domain.AccountType
	OpeningBalance *decimal.Decimal
	IsActive       *bool
}

// UpdateAccount applies field updates to an account. Changing the opening
// balance shifts the cached balance by the delta between new and old opening
// balances; existing ledger entries are never touched.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
	}

	if input.Type != nil && !domain.ValidAccountType(*input.Type) {
		return nil, domain.ErrInvalidAccountType
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		account.Name = *input.Name
	}

	if input.Type != nil {
		account.Type = *input.Type
	}

	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}

	if input.OpeningBalance != nil {
		delta := input.OpeningBalance.Sub(account.OpeningBalance)
		account.OpeningBalance = *input.OpeningBalance
		account.Balance = account.Balance.Add(delta)
	}

	account.UpdatedAt = time.Now().UTC()
	account.Version++

	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetBalance returns the current balance of an account.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return account.Balance, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ListAccounts lists accounts with pagination. Deactivated accounts are
// hidden unless asked for; they are never physically deleted.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, input.IncludeInactive, limit, offset)
}
