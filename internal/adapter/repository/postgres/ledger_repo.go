package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/backoffice/treasury/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency compares every account's cached balance against
// opening_balance plus the signed sum of its entries, and returns the
// accounts that drifted.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) ([]domain.BalanceDrift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id,
		       a.balance,
		       a.opening_balance + COALESCE(SUM(
		           CASE WHEN e.direction = 'in' THEN e.amount ELSE -e.amount END
		       ), 0) AS derived
		FROM accounts a
		LEFT JOIN ledger_entries e ON e.account_id = a.id
		GROUP BY a.id, a.balance, a.opening_balance
		HAVING a.balance <> a.opening_balance + COALESCE(SUM(
		           CASE WHEN e.direction = 'in' THEN e.amount ELSE -e.amount END
		       ), 0)
		ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []domain.BalanceDrift

	for rows.Next() {
		var (
			drift            domain.BalanceDrift
			cached, derived pgtype.Numeric
		)

		if err := rows.Scan(&drift.AccountID, &cached, &derived); err != nil {
			return nil, err
		}

		drift.Cached = numericToDecimal(cached)
		drift.Derived = numericToDecimal(derived)
		drifts = append(drifts, drift)
	}

	return drifts, rows.Err()
}
