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

const expenseColumns = `id, name, category_id, amount, due_date, status, paid_at, paid_account_id, created_at, updated_at`

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create creates a new expense.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO expenses (id, name, category_id, amount, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		expense.ID,
		expense.Name,
		nullableText(expense.CategoryID),
		decimalToNumeric(expense.Amount),
		timeToPgTimestamptz(expense.DueDate),
		string(expense.Status),
		timeToPgTimestamptz(expense.CreatedAt),
		timeToPgTimestamptz(expense.UpdatedAt),
	)

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	return scanExpense(r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves an expense with a FOR UPDATE lock, serializing
// concurrent pay attempts on the same bill.
func (r *ExpenseRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Expense, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return scanExpense(pgxTx.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 FOR UPDATE`, id))
}

// MarkPaid transitions an expense to paid. paidAt is the business time of
// the payment and may lie in the past; updatedAt records when the row
// actually changed.
func (r *ExpenseRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, id, accountID string, paidAt, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE expenses
		SET status = 'paid', paid_at = $2, paid_account_id = $3, updated_at = $4
		WHERE id = $1`,
		id, timeToPgTimestamptz(paidAt), accountID, timeToPgTimestamptz(updatedAt))

	return err
}

// List lists expenses, optionally filtered by status, newest due first.
func (r *ExpenseRepository) List(ctx context.Context, status domain.ExpenseStatus, limit, offset int) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE $1 = '' OR status = $1
		ORDER BY due_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`,
		string(status), int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense

	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e                         domain.Expense
		status                    string
		categoryID, paidAccountID pgtype.Text
		amount                    pgtype.Numeric
		dueDate, paidAt           pgtype.Timestamptz
		created, updated          pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.Name, &categoryID, &amount, &dueDate, &status,
		&paidAt, &paidAccountID, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	e.CategoryID = categoryID.String
	e.Amount = numericToDecimal(amount)
	e.DueDate = dueDate.Time
	e.Status = domain.ExpenseStatus(status)
	e.PaidAt = pgTimestamptzToTimePtr(paidAt)
	e.PaidAccountID = paidAccountID.String
	e.CreatedAt = created.Time
	e.UpdatedAt = updated.Time

	return &e, nil
}
