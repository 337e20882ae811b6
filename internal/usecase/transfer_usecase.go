package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
)

// TransferUseCase moves money between two accounts by posting a matched
// pair of ledger entries (OUT at source, IN at destination) atomically.
// A transfer is not a stored entity of its own; the pair shares a
// reference id for traceability.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	OccurredAt    time.Time
	Description   string
}

// TransferResult is the pair of entries a transfer produced.
type TransferResult struct {
	ReferenceID string
	OutEntry    *domain.Entry
	InEntry     *domain.Entry
}

// Transfer posts the OUT and IN legs as a single atomic unit: either both
// entries are durably recorded or neither is.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	// Lock both accounts in sorted id order so two opposite transfers
	// between the same pair cannot deadlock.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	var from, to *domain.Account
	for _, a := range accounts {
		switch a.ID {
		case input.FromAccountID:
			from = a
		case input.ToAccountID:
			to = a
		}
	}

	if from == nil || to == nil {
		return nil, domain.ErrAccountNotFound
	}

	now := time.Now().UTC()

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	referenceID := uc.idGen.Generate()

	outEntry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   from.ID,
		Direction:   domain.DirectionOut,
		Amount:      input.Amount,
		Type:        domain.TypeTransfer,
		ReferenceID: referenceID,
		Description: input.Description,
		OccurredAt:  occurredAt,
	}

	if err := postEntry(ctx, tx, uc.accountRepo, uc.entryRepo, from, outEntry, now); err != nil {
		return nil, err
	}

	inEntry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   to.ID,
		Direction:   domain.DirectionIn,
		Amount:      input.Amount,
		Type:        domain.TypeTransfer,
		ReferenceID: referenceID,
		Description: input.Description,
		OccurredAt:  occurredAt,
	}

	if err := postEntry(ctx, tx, uc.accountRepo, uc.entryRepo, to, inEntry, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransferResult{
		ReferenceID: referenceID,
		OutEntry:    outEntry,
		InEntry:     inEntry,
	}, nil
}
