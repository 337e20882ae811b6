package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
)

const entryColumns = `id, account_id, direction, amount, type, reference_id, category_id,
	description, previous_balance, current_balance, account_version, occurred_at, created_at`

// EntryRepository implements usecase.EntryRepository. The ledger_entries
// table is append-only; there is no UPDATE or DELETE statement here.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends an entry inside the given transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO ledger_entries (id, account_id, direction, amount, type, reference_id, category_id,
			description, previous_balance, current_balance, account_version, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		entry.ID,
		entry.AccountID,
		string(entry.Direction),
		decimalToNumeric(entry.Amount),
		string(entry.Type),
		nullableText(entry.ReferenceID),
		nullableText(entry.CategoryID),
		entry.Description,
		decimalToNumeric(entry.PreviousBalance),
		decimalToNumeric(entry.CurrentBalance),
		entry.AccountVersion,
		timeToPgTimestamptz(entry.OccurredAt),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// GetByReference retrieves every entry sharing a reference ID, e.g. the
// two legs of a transfer.
func (r *EntryRepository) GetByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE reference_id = $1
		ORDER BY created_at, id`, referenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// List returns entries matching the filter, newest occurred_at first.
func (r *EntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.AccountID != "" {
		add("account_id = $%d", filter.AccountID)
	}
	if filter.CategoryID != "" {
		add("category_id = $%d", filter.CategoryID)
	}
	if filter.Direction != "" {
		add("direction = $%d", string(filter.Direction))
	}
	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if !filter.From.IsZero() {
		add("occurred_at >= $%d", timeToPgTimestamptz(filter.From))
	}
	if !filter.To.IsZero() {
		add("occurred_at <= $%d", timeToPgTimestamptz(filter.To))
	}
	if filter.Search != "" {
		add("description ILIKE '%%' || $%d || '%%'", filter.Search)
	}

	query := `SELECT ` + entryColumns + ` FROM ledger_entries`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	args = append(args, int32(filter.Limit), int32(filter.Offset))
	query += fmt.Sprintf(` ORDER BY occurred_at DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SumByAccount derives an account balance contribution from its entries.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'in' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE account_id = $1`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e                           domain.Entry
		direction, entryType        string
		referenceID, categoryID     pgtype.Text
		amount, previous, current   pgtype.Numeric
		occurred, created           pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.AccountID, &direction, &amount, &entryType,
		&referenceID, &categoryID, &e.Description, &previous, &current,
		&e.AccountVersion, &occurred, &created)
	if err != nil {
		return nil, err
	}

	e.Direction = domain.Direction(direction)
	e.Type = domain.TransactionType(entryType)
	e.ReferenceID = referenceID.String
	e.CategoryID = categoryID.String
	e.Amount = numericToDecimal(amount)
	e.PreviousBalance = numericToDecimal(previous)
	e.CurrentBalance = numericToDecimal(current)
	e.OccurredAt = occurred.Time
	e.CreatedAt = created.Time

	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func nullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
