package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
)

// LedgerUseCase handles direct ledger operations: posting single entries
// and querying the entry log. All other balance-affecting operations
// (transfers, expense/payroll postings, reconciliation) funnel through the
// same postEntry helper so the cached balance moves in lockstep with the
// entry stream.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
	}
}

// PostEntryInput represents input for posting a single ledger entry.
type PostEntryInput struct {
	AccountID   string
	Direction   domain.Direction
	Amount      decimal.Decimal
	Type        domain.TransactionType
	ReferenceID string
	CategoryID  string
	Description string
	OccurredAt  time.Time
}

// PostEntry appends one entry to the ledger and moves the account's cached
// balance, both inside one transaction under the account row lock.
func (uc *LedgerUseCase) PostEntry(ctx context.Context, input PostEntryInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if !domain.ValidDirection(input.Direction) {
		return nil, domain.ErrInvalidDirection
	}

	if !domain.ValidTransactionType(input.Type) {
		return nil, domain.ErrInvalidEntryType
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		Direction:   input.Direction,
		Amount:      input.Amount,
		Type:        input.Type,
		ReferenceID: input.ReferenceID,
		CategoryID:  input.CategoryID,
		Description: input.Description,
		OccurredAt:  occurredAt,
	}

	if err := postEntry(ctx, tx, uc.accountRepo, uc.entryRepo, account, entry, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// ListEntries lists ledger entries matching the filter, newest first by
// occurrence time.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.entryRepo.List(ctx, filter)
}

// GetEntry retrieves a single entry.
func (uc *LedgerUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// GetEntriesByReference lists the entries created by one originating record
// (a transfer, expense, period or payroll payment).
func (uc *LedgerUseCase) GetEntriesByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error) {
	return uc.entryRepo.GetByReference(ctx, referenceID)
}

// CheckConsistency verifies the derived-balance invariant across every
// account: balance == opening_balance + sum(signed entries).
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) ([]domain.BalanceDrift, error) {
	return uc.ledgerRepo.CheckConsistency(ctx)
}

// postEntry appends an entry for an already-locked account and advances the
// cached balance. Callers must hold the account row lock in tx.
func postEntry(
	ctx context.Context,
	tx Transaction,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	account *domain.Account,
	entry *domain.Entry,
	now time.Time,
) error {
	entry.PreviousBalance = account.Balance
	entry.CurrentBalance = account.ApplyEntry(entry.Direction, entry.Amount)
	entry.AccountVersion = account.Version + 1
	entry.CreatedAt = now

	if err := entryRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	if err := accountRepo.UpdateBalance(ctx, tx, account.ID, entry.CurrentBalance, now); err != nil {
		return err
	}

	account.Balance = entry.CurrentBalance
	account.Version++

	return nil
}
