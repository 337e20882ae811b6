package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/adapter/http/dto"
	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/tests/testutil"
)

func TestTransfer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(t, testDB)

	t.Run("transfer posts paired entries and moves balances", func(t *testing.T) {
		from := testDB.CreateTestAccount(ctx, "checking", domain.AccountBank, decimal.NewFromInt(1000))
		to := testDB.CreateTestAccount(ctx, "register", domain.AccountCash, decimal.NewFromInt(50))

		req := dto.CreateTransferRequest{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        decimal.NewFromInt(300),
			Description:   "cash for the register",
		}

		w := doJSON(t, router, http.MethodPost, "/api/v1/transfers", req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		var resp dto.TransferResponse
		decodeResponse(t, w, &resp)

		if resp.ReferenceID == "" {
			t.Fatal("expected a reference id")
		}
		if resp.OutEntry.Direction != "out" || resp.InEntry.Direction != "in" {
			t.Errorf("expected out/in legs, got %s/%s", resp.OutEntry.Direction, resp.InEntry.Direction)
		}
		if resp.OutEntry.ReferenceID != resp.ReferenceID || resp.InEntry.ReferenceID != resp.ReferenceID {
			t.Error("expected both legs to share the transfer reference")
		}
		if !resp.OutEntry.Amount.Equal(req.Amount) || !resp.InEntry.Amount.Equal(req.Amount) {
			t.Error("expected both legs to carry the transfer amount")
		}

		assertBalance(t, router, from.ID, decimal.NewFromInt(700))
		assertBalance(t, router, to.ID, decimal.NewFromInt(350))
	})

	t.Run("both legs listable by reference", func(t *testing.T) {
		from := testDB.CreateTestAccount(ctx, "safe", domain.AccountCash, decimal.NewFromInt(500))
		to := testDB.CreateTestAccount(ctx, "deposit", domain.AccountBank, decimal.Zero)

		req := dto.CreateTransferRequest{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        decimal.NewFromInt(125),
		}

		w := doJSON(t, router, http.MethodPost, "/api/v1/transfers", req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		var resp dto.TransferResponse
		decodeResponse(t, w, &resp)

		w = doJSON(t, router, http.MethodGet, "/api/v1/entries/reference/"+resp.ReferenceID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var list dto.ListEntriesResponse
		decodeResponse(t, w, &list)
		if len(list.Entries) != 2 {
			t.Fatalf("expected 2 entries for reference, got %d", len(list.Entries))
		}
	})

	t.Run("transfer to same account rejected", func(t *testing.T) {
		account := testDB.CreateTestAccount(ctx, "loop", domain.AccountBank, decimal.NewFromInt(100))

		req := dto.CreateTransferRequest{
			FromAccountID: account.ID,
			ToAccountID:   account.ID,
			Amount:        decimal.NewFromInt(10),
		}

		w := doJSON(t, router, http.MethodPost, "/api/v1/transfers", req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
		}
	})

	t.Run("overdraft allowed", func(t *testing.T) {
		from := testDB.CreateTestAccount(ctx, "thin", domain.AccountBank, decimal.NewFromInt(10))
		to := testDB.CreateTestAccount(ctx, "fat", domain.AccountBank, decimal.Zero)

		req := dto.CreateTransferRequest{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        decimal.NewFromInt(100),
		}

		w := doJSON(t, router, http.MethodPost, "/api/v1/transfers", req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		assertBalance(t, router, from.ID, decimal.NewFromInt(-90))
	})
}

// TestConcurrentTransfers runs opposing transfers between two accounts from
// many goroutines. The sorted lock order must prevent deadlocks and the
// total across both accounts must not change.
func TestConcurrentTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(t, testDB)

	a := testDB.CreateTestAccount(ctx, "acct-a", domain.AccountBank, decimal.NewFromInt(10000))
	b := testDB.CreateTestAccount(ctx, "acct-b", domain.AccountBank, decimal.NewFromInt(10000))

	const workers = 10
	const transfersPerWorker = 5

	var wg sync.WaitGroup
	errs := make(chan string, workers*transfersPerWorker)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < transfersPerWorker; j++ {
				req := dto.CreateTransferRequest{
					FromAccountID: a.ID,
					ToAccountID:   b.ID,
					Amount:        decimal.NewFromInt(7),
				}
				// Half the workers push the other way.
				if worker%2 == 1 {
					req.FromAccountID, req.ToAccountID = req.ToAccountID, req.FromAccountID
				}

				w := doJSON(t, router, http.MethodPost, "/api/v1/transfers", req)
				if w.Code != http.StatusCreated {
					errs <- w.Body.String()
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Errorf("transfer failed: %s", msg)
	}

	balanceA := getBalance(t, router, a.ID)
	balanceB := getBalance(t, router, b.ID)

	total := balanceA.Add(balanceB)
	want := decimal.NewFromInt(20000)
	if !total.Equal(want) {
		t.Errorf("expected combined balance %s, got %s", want, total)
	}

	// Cached balances must agree with the entry sums.
	w := doJSON(t, router, http.MethodGet, "/api/v1/ledger/consistency", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var consistency dto.ConsistencyResponse
	decodeResponse(t, w, &consistency)
	if !consistency.Consistent {
		t.Errorf("expected a consistent ledger, got drifts: %+v", consistency.Drifts)
	}
}

func getBalance(t *testing.T, router http.Handler, accountID string) decimal.Decimal {
	t.Helper()

	w := doJSON(t, router, http.MethodGet, "/api/v1/accounts/"+accountID+"/balance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp dto.BalanceResponse
	decodeResponse(t, w, &resp)

	return resp.Balance
}

func assertBalance(t *testing.T, router http.Handler, accountID string, want decimal.Decimal) {
	t.Helper()

	got := getBalance(t, router, accountID)
	if !got.Equal(want) {
		t.Errorf("expected balance %s for account %s, got %s", want, accountID, got)
	}
}
