package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/adapter/http/dto"
	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/tests/testutil"
)

func TestReconciliation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(t, testDB)

	t.Run("shortfall posts one corrective out entry", func(t *testing.T) {
		account := testDB.CreateTestAccount(ctx, "till", domain.AccountCash, decimal.NewFromInt(400))

		req := dto.ReconcileRequest{
			RealBalance: decimal.NewFromInt(370),
			Description: "evening count",
		}
		w := doJSON(t, router, http.MethodPost, "/api/v1/accounts/"+account.ID+"/reconcile", req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp dto.ReconcileResponse
		decodeResponse(t, w, &resp)

		if !resp.PreviousBalance.Equal(decimal.NewFromInt(400)) {
			t.Errorf("expected previous balance 400, got %s", resp.PreviousBalance)
		}
		if !resp.Delta.Equal(decimal.NewFromInt(-30)) {
			t.Errorf("expected delta -30, got %s", resp.Delta)
		}
		if resp.Entry == nil {
			t.Fatal("expected a corrective entry")
		}
		if resp.Entry.Direction != "out" {
			t.Errorf("expected out entry, got %q", resp.Entry.Direction)
		}
		if !resp.Entry.Amount.Equal(decimal.NewFromInt(30)) {
			t.Errorf("expected entry amount 30, got %s", resp.Entry.Amount)
		}
		if resp.Entry.Type != "reconciliation" {
			t.Errorf("expected reconciliation entry, got %q", resp.Entry.Type)
		}

		assertBalance(t, router, account.ID, decimal.NewFromInt(370))

		if got := testDB.CountEntries(ctx, account.ID); got != 1 {
			t.Errorf("expected exactly 1 entry, got %d", got)
		}
	})

	t.Run("surplus posts one corrective in entry", func(t *testing.T) {
		account := testDB.CreateTestAccount(ctx, "drawer", domain.AccountCash, decimal.NewFromInt(100))

		req := dto.ReconcileRequest{RealBalance: decimal.NewFromInt(130)}
		w := doJSON(t, router, http.MethodPost, "/api/v1/accounts/"+account.ID+"/reconcile", req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp dto.ReconcileResponse
		decodeResponse(t, w, &resp)

		if resp.Entry == nil {
			t.Fatal("expected a corrective entry")
		}
		if resp.Entry.Direction != "in" {
			t.Errorf("expected in entry, got %q", resp.Entry.Direction)
		}

		assertBalance(t, router, account.ID, decimal.NewFromInt(130))
	})

	t.Run("matching balance posts nothing", func(t *testing.T) {
		account := testDB.CreateTestAccount(ctx, "exact", domain.AccountCash, decimal.NewFromInt(250))

		req := dto.ReconcileRequest{RealBalance: decimal.NewFromInt(250)}
		w := doJSON(t, router, http.MethodPost, "/api/v1/accounts/"+account.ID+"/reconcile", req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp dto.ReconcileResponse
		decodeResponse(t, w, &resp)

		if resp.Entry != nil {
			t.Error("expected no corrective entry")
		}
		if !resp.Delta.IsZero() {
			t.Errorf("expected zero delta, got %s", resp.Delta)
		}

		if got := testDB.CountEntries(ctx, account.ID); got != 0 {
			t.Errorf("expected no entries, got %d", got)
		}
	})

	t.Run("repeat reconciliation is a no-op", func(t *testing.T) {
		account := testDB.CreateTestAccount(ctx, "repeat", domain.AccountCash, decimal.NewFromInt(80))

		req := dto.ReconcileRequest{RealBalance: decimal.NewFromInt(50)}
		w := doJSON(t, router, http.MethodPost, "/api/v1/accounts/"+account.ID+"/reconcile", req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodPost, "/api/v1/accounts/"+account.ID+"/reconcile", req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp dto.ReconcileResponse
		decodeResponse(t, w, &resp)
		if resp.Entry != nil {
			t.Error("expected no corrective entry on repeat")
		}

		if got := testDB.CountEntries(ctx, account.ID); got != 1 {
			t.Errorf("expected exactly 1 entry, got %d", got)
		}
	})

	t.Run("unknown account returns 404", func(t *testing.T) {
		req := dto.ReconcileRequest{RealBalance: decimal.NewFromInt(10)}
		w := doJSON(t, router, http.MethodPost, "/api/v1/accounts/01JUNKJUNKJUNKJUNKJUNKJUNK/reconcile", req)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
		}
	})
}
