package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
)

// ReconciliationUseCase aligns an account's computed balance with a
// user-declared real balance by posting a single corrective entry.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	retrier     Retrier
	idGen       IDGenerator
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	retrier Retrier,
	idGen IDGenerator,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		retrier:     retrier,
		idGen:       idGen,
	}
}

// ReconcileInput represents input for a reconciliation.
type ReconcileInput struct {
	AccountID   string
	RealBalance decimal.Decimal
	OccurredAt  time.Time
	Description string
}

// ReconcileResult reports what the reconciliation did. Entry is nil when
// the balances already matched.
type ReconcileResult struct {
	AccountID       string
	PreviousBalance decimal.Decimal
	RealBalance     decimal.Decimal
	Delta           decimal.Decimal
	Entry           *domain.Entry
}

// Reconcile compares the declared real balance against the current balance
// and posts at most one corrective entry for the difference. The read,
// the delta computation and the write all happen under the account row
// lock, so the delta can never be applied against a stale balance; if the
// storage layer reports a serialization conflict the whole transaction is
// retried, recomputing the delta against the fresh balance.
//
// Postcondition: the account balance equals RealBalance exactly.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, input ReconcileInput) (*ReconcileResult, error) {
	var result *ReconcileResult

	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.reconcileOnce(ctx, input)
		if err != nil {
			return err
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *ReconciliationUseCase) reconcileOnce(ctx context.Context, input ReconcileInput) (*ReconcileResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	delta := input.RealBalance.Sub(account.Balance)

	result := &ReconcileResult{
		AccountID:       account.ID,
		PreviousBalance: account.Balance,
		RealBalance:     input.RealBalance,
		Delta:           delta,
	}

	if delta.IsZero() {
		// Nothing to correct; no entry is written.
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return result, nil
	}

	direction := domain.DirectionIn
	if delta.IsNegative() {
		direction = domain.DirectionOut
	}

	now := time.Now().UTC()

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	description := input.Description
	if description == "" {
		description = "balance reconciliation"
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		Direction:   direction,
		Amount:      delta.Abs(),
		Type:        domain.TypeReconciliation,
		Description: description,
		OccurredAt:  occurredAt,
	}

	if err := postEntry(ctx, tx, uc.accountRepo, uc.entryRepo, account, entry, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result.Entry = entry
	return result, nil
}
