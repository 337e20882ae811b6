package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
)

// EmployeeRepository implements usecase.EmployeeRepository.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create creates a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO employees (id, name, role, salary, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		employee.ID,
		employee.Name,
		employee.Role,
		decimalToNumeric(employee.Salary),
		employee.IsActive,
		timeToPgTimestamptz(employee.CreatedAt),
		timeToPgTimestamptz(employee.UpdatedAt),
	)

	return err
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := scanEmployee(r.pool.QueryRow(ctx, `
		SELECT id, name, role, salary, is_active, created_at, updated_at
		FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}

		return nil, err
	}

	return employee, nil
}

// List lists employees with pagination.
func (r *EmployeeRepository) List(ctx context.Context, limit, offset int) ([]*domain.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, role, salary, is_active, created_at, updated_at
		FROM employees
		ORDER BY name
		LIMIT $1 OFFSET $2`,
		int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*domain.Employee

	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}

		employees = append(employees, employee)
	}

	return employees, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		e                domain.Employee
		salary           pgtype.Numeric
		created, updated pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.Name, &e.Role, &salary, &e.IsActive, &created, &updated)
	if err != nil {
		return nil, err
	}

	e.Salary = numericToDecimal(salary)
	e.CreatedAt = created.Time
	e.UpdatedAt = updated.Time

	return &e, nil
}

// PayrollRepository implements usecase.PayrollRepository.
type PayrollRepository struct {
	pool *pgxpool.Pool
}

// NewPayrollRepository creates a new PayrollRepository.
func NewPayrollRepository(pool *pgxpool.Pool) *PayrollRepository {
	return &PayrollRepository{pool: pool}
}

// CreatePayment records a payout inside the given transaction, atomically
// with its ledger entry.
func (r *PayrollRepository) CreatePayment(ctx context.Context, tx usecase.Transaction, payment *domain.PayrollPayment) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO payroll_payments (id, employee_id, account_id, amount, note, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payment.ID,
		payment.EmployeeID,
		payment.AccountID,
		decimalToNumeric(payment.Amount),
		payment.Note,
		timeToPgTimestamptz(payment.PaidAt),
		timeToPgTimestamptz(payment.CreatedAt),
	)

	return err
}

// ListPayments lists payouts, optionally for one employee, newest first.
func (r *PayrollRepository) ListPayments(ctx context.Context, employeeID string, limit, offset int) ([]*domain.PayrollPayment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, account_id, amount, note, paid_at, created_at
		FROM payroll_payments
		WHERE $1 = '' OR employee_id = $1
		ORDER BY paid_at DESC
		LIMIT $2 OFFSET $3`,
		employeeID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.PayrollPayment

	for rows.Next() {
		var (
			p              domain.PayrollPayment
			amount         pgtype.Numeric
			paidAt, create pgtype.Timestamptz
		)

		err := rows.Scan(&p.ID, &p.EmployeeID, &p.AccountID, &amount, &p.Note, &paidAt, &create)
		if err != nil {
			return nil, err
		}

		p.Amount = numericToDecimal(amount)
		p.PaidAt = paidAt.Time
		p.CreatedAt = create.Time
		payments = append(payments, &p)
	}

	return payments, rows.Err()
}
