package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
)

const periodColumns = `id, fixed_expense_id, period, amount, due_date, status, paid_at, paid_account_id, created_at, updated_at`

// FixedExpenseRepository implements usecase.FixedExpenseRepository.
//
// Periods are stored with a "YYYY-MM" text key and a UNIQUE constraint on
// (fixed_expense_id, period); lazy materialization relies on that
// constraint to stay race-free.
type FixedExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewFixedExpenseRepository creates a new FixedExpenseRepository.
func NewFixedExpenseRepository(pool *pgxpool.Pool) *FixedExpenseRepository {
	return &FixedExpenseRepository{pool: pool}
}

// CreateTemplate creates a recurring expense template.
func (r *FixedExpenseRepository) CreateTemplate(ctx context.Context, fe *domain.FixedExpense) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO fixed_expenses (id, name, category_id, default_amount, due_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		fe.ID,
		fe.Name,
		nullableText(fe.CategoryID),
		decimalToNumeric(fe.DefaultAmount),
		fe.DueDay,
		timeToPgTimestamptz(fe.CreatedAt),
		timeToPgTimestamptz(fe.UpdatedAt),
	)

	return err
}

// GetTemplate retrieves a template by ID.
func (r *FixedExpenseRepository) GetTemplate(ctx context.Context, id string) (*domain.FixedExpense, error) {
	var (
		fe               domain.FixedExpense
		categoryID       pgtype.Text
		amount           pgtype.Numeric
		created, updated pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, category_id, default_amount, due_day, created_at, updated_at
		FROM fixed_expenses WHERE id = $1`, id).
		Scan(&fe.ID, &fe.Name, &categoryID, &amount, &fe.DueDay, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFixedExpenseNotFound
		}

		return nil, err
	}

	fe.CategoryID = categoryID.String
	fe.DefaultAmount = numericToDecimal(amount)
	fe.CreatedAt = created.Time
	fe.UpdatedAt = updated.Time

	return &fe, nil
}

// ListTemplates lists templates with pagination.
func (r *FixedExpenseRepository) ListTemplates(ctx context.Context, limit, offset int) ([]*domain.FixedExpense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category_id, default_amount, due_day, created_at, updated_at
		FROM fixed_expenses
		ORDER BY created_at
		LIMIT $1 OFFSET $2`,
		int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.FixedExpense

	for rows.Next() {
		var (
			fe               domain.FixedExpense
			categoryID       pgtype.Text
			amount           pgtype.Numeric
			created, updated pgtype.Timestamptz
		)

		err := rows.Scan(&fe.ID, &fe.Name, &categoryID, &amount, &fe.DueDay, &created, &updated)
		if err != nil {
			return nil, err
		}

		fe.CategoryID = categoryID.String
		fe.DefaultAmount = numericToDecimal(amount)
		fe.CreatedAt = created.Time
		fe.UpdatedAt = updated.Time
		templates = append(templates, &fe)
	}

	return templates, rows.Err()
}

// InsertPeriodIfAbsent materializes one month of a template. If another
// request materialized the same month first, the stored row wins and no
// error is returned.
func (r *FixedExpenseRepository) InsertPeriodIfAbsent(ctx context.Context, period *domain.FixedExpensePeriod) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO fixed_expense_periods (id, fixed_expense_id, period, amount, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (fixed_expense_id, period) DO NOTHING`,
		period.ID,
		period.FixedExpenseID,
		period.Period.String(),
		decimalToNumeric(period.Amount),
		timeToPgTimestamptz(period.DueDate),
		string(period.Status),
		timeToPgTimestamptz(period.CreatedAt),
		timeToPgTimestamptz(period.UpdatedAt),
	)

	return err
}

// ListPeriods lists a template's periods inside [from, to], ascending.
func (r *FixedExpenseRepository) ListPeriods(ctx context.Context, fixedExpenseID string, from, to domain.Period) ([]*domain.FixedExpensePeriod, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+periodColumns+`
		FROM fixed_expense_periods
		WHERE fixed_expense_id = $1 AND period >= $2 AND period <= $3
		ORDER BY period`,
		fixedExpenseID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*domain.FixedExpensePeriod

	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}

		periods = append(periods, period)
	}

	return periods, rows.Err()
}

// GetPeriodByID retrieves a period by ID.
func (r *FixedExpenseRepository) GetPeriodByID(ctx context.Context, id string) (*domain.FixedExpensePeriod, error) {
	return scanPeriodRow(r.pool.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM fixed_expense_periods WHERE id = $1`, id))
}

// GetPeriodForUpdate retrieves a period with a FOR UPDATE lock.
func (r *FixedExpenseRepository) GetPeriodForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.FixedExpensePeriod, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return scanPeriodRow(pgxTx.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM fixed_expense_periods WHERE id = $1 FOR UPDATE`, id))
}

// MarkPeriodPaid transitions a period to paid. paidAt may lie in the past;
// updatedAt records when the row actually changed.
func (r *FixedExpenseRepository) MarkPeriodPaid(ctx context.Context, tx usecase.Transaction, id, accountID string, paidAt, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE fixed_expense_periods
		SET status = 'paid', paid_at = $2, paid_account_id = $3, updated_at = $4
		WHERE id = $1`,
		id, timeToPgTimestamptz(paidAt), accountID, timeToPgTimestamptz(updatedAt))

	return err
}

// MarkPeriodSkipped transitions a period to skipped.
func (r *FixedExpenseRepository) MarkPeriodSkipped(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE fixed_expense_periods
		SET status = 'skipped', updated_at = $2
		WHERE id = $1`,
		id, timeToPgTimestamptz(updatedAt))

	return err
}

func scanPeriodRow(row pgx.Row) (*domain.FixedExpensePeriod, error) {
	period, err := scanPeriod(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}

		return nil, err
	}

	return period, nil
}

func scanPeriod(row pgx.Row) (*domain.FixedExpensePeriod, error) {
	var (
		p                         domain.FixedExpensePeriod
		periodKey, status         string
		paidAccountID             pgtype.Text
		amount                    pgtype.Numeric
		dueDate, paidAt           pgtype.Timestamptz
		created, updated          pgtype.Timestamptz
	)

	err := row.Scan(&p.ID, &p.FixedExpenseID, &periodKey, &amount, &dueDate,
		&status, &paidAt, &paidAccountID, &created, &updated)
	if err != nil {
		return nil, err
	}

	p.Period, err = domain.ParsePeriod(periodKey)
	if err != nil {
		return nil, err
	}

	p.Amount = numericToDecimal(amount)
	p.DueDate = dueDate.Time
	p.Status = domain.PeriodStatus(status)
	p.PaidAt = pgTimestamptzToTimePtr(paidAt)
	p.PaidAccountID = paidAccountID.String
	p.CreatedAt = created.Time
	p.UpdatedAt = updated.Time

	return &p, nil
}
