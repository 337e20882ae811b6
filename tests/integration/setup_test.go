package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	adaptershttp "github.com/backoffice/treasury/internal/adapter/http"
	"github.com/backoffice/treasury/internal/adapter/http/handler"
	"github.com/backoffice/treasury/internal/adapter/repository/postgres"
	redisrepo "github.com/backoffice/treasury/internal/adapter/repository/redis"
	infraredis "github.com/backoffice/treasury/internal/infrastructure/redis"
	"github.com/backoffice/treasury/internal/usecase"
	"github.com/backoffice/treasury/tests/testutil"
)

// newTestRouter wires the full application stack over the test database.
// The idempotency store is attached only when REDIS_URL is set.
func newTestRouter(t *testing.T, testDB *testutil.TestDB) http.Handler {
	t.Helper()

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	fixedRepo := postgres.NewFixedExpenseRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	payrollRepo := postgres.NewPayrollRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	var idempotencyStore usecase.IdempotencyStore
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisClient, err := infraredis.NewClient(context.Background(), redisURL)
		if err != nil {
			t.Fatalf("failed to connect to redis: %v", err)
		}
		t.Cleanup(func() { redisClient.Close() })
		idempotencyStore = redisrepo.NewIdempotencyStore(redisClient)
	}

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, ledgerRepo, idGen)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, entryRepo, idGen)
	expenseUC := usecase.NewExpenseUseCase(txManager, accountRepo, entryRepo, expenseRepo, categoryRepo, idGen)
	scheduleUC := usecase.NewScheduleUseCase(txManager, accountRepo, entryRepo, fixedRepo, idGen)
	payrollUC := usecase.NewPayrollUseCase(txManager, accountRepo, entryRepo, employeeRepo, payrollRepo, idGen)
	reconcileUC := usecase.NewReconciliationUseCase(txManager, accountRepo, entryRepo, retrier, idGen)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, idGen)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC),
		EntryHandler:          handler.NewEntryHandler(ledgerUC),
		TransferHandler:       handler.NewTransferHandler(transferUC),
		ExpenseHandler:        handler.NewExpenseHandler(expenseUC),
		ScheduleHandler:       handler.NewScheduleHandler(scheduleUC),
		PayrollHandler:        handler.NewPayrollHandler(payrollUC),
		CategoryHandler:       handler.NewCategoryHandler(categoryUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconcileUC),
		HealthHandler:         handler.NewHealthHandler(pool, nil),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        time.Hour,
		Logger:                zerolog.Nop(),
	})
}

// doJSON issues a JSON request against the router and returns the recorder.
func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, body)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
}
