package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections. Tests are skipped
// when DATABASE_URL is not set.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to the test database and applies migrations.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	migrationsPath := "../../migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "migrations"
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{Pool: pool, t: t}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE payroll_payments CASCADE;
		TRUNCATE TABLE employees CASCADE;
		TRUNCATE TABLE fixed_expense_periods CASCADE;
		TRUNCATE TABLE fixed_expenses CASCADE;
		TRUNCATE TABLE expenses CASCADE;
		TRUNCATE TABLE ledger_entries CASCADE;
		TRUNCATE TABLE categories CASCADE;
		TRUNCATE TABLE accounts CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestAccount inserts an account with the given opening balance.
func (db *TestDB) CreateTestAccount(ctx context.Context, name string, accountType domain.AccountType, opening decimal.Decimal) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()
	id := ulid.Make().String()

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO accounts (id, name, type, opening_balance, balance, version, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, 0, TRUE, $5, $5)`,
		id, name, string(accountType), opening.String(), now)
	if err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	return &domain.Account{
		ID:             id,
		Name:           name,
		Type:           accountType,
		OpeningBalance: opening,
		Balance:        opening,
		Version:        0,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CreateTestCategory inserts a category.
func (db *TestDB) CreateTestCategory(ctx context.Context, name string) *domain.Category {
	db.t.Helper()

	now := time.Now().UTC()
	id := ulid.Make().String()

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		id, name, now)
	if err != nil {
		db.t.Fatalf("failed to create test category: %v", err)
	}

	return &domain.Category{ID: id, Name: name, CreatedAt: now}
}

// CountEntries returns the number of ledger entries for an account.
func (db *TestDB) CountEntries(ctx context.Context, accountID string) int {
	db.t.Helper()

	var n int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`, accountID).Scan(&n)
	if err != nil {
		db.t.Fatalf("failed to count entries: %v", err)
	}

	return n
}
