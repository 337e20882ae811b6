package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/adapter/http/dto"
	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
)

type expenseServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error)
	payFn    func(ctx context.Context, input usecase.PayExpenseInput) (*domain.Expense, *domain.Entry, error)
	getFn    func(ctx context.Context, id string) (*domain.Expense, error)
	listFn   func(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.Expense, error)
}

func (s *expenseServiceStub) CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
	return s.createFn(ctx, input)
}

func (s *expenseServiceStub) PayExpense(ctx context.Context, input usecase.PayExpenseInput) (*domain.Expense, *domain.Entry, error) {
	return s.payFn(ctx, input)
}

func (s *expenseServiceStub) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return s.getFn(ctx, id)
}

func (s *expenseServiceStub) ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.Expense, error) {
	return s.listFn(ctx, input)
}

func payRequest(t *testing.T, expenseID string, body any) *http.Request {
	t.Helper()

	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/expenses/"+expenseID+"/pay", bytes.NewReader(raw))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", expenseID)

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestExpenseHandler_Pay_Success(t *testing.T) {
	paidAt := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	expense := &domain.Expense{
		ID:            "exp-1",
		Name:          "rent",
		Amount:        decimal.RequireFromString("900"),
		Status:        domain.ExpensePaid,
		PaidAt:        &paidAt,
		PaidAccountID: "acc-1",
	}
	entry := &domain.Entry{
		ID:        "entry-1",
		AccountID: "acc-1",
		Direction: domain.DirectionOut,
		Amount:    decimal.RequireFromString("900"),
		Type:      domain.TypeExpense,
	}

	var captured usecase.PayExpenseInput
	handler := NewExpenseHandler(&expenseServiceStub{
		payFn: func(ctx context.Context, input usecase.PayExpenseInput) (*domain.Expense, *domain.Entry, error) {
			captured = input
			return expense, entry, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Pay(rec, payRequest(t, "exp-1", dto.PayExpenseRequest{AccountID: "acc-1"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ExpenseID != "exp-1" || captured.AccountID != "acc-1" {
		t.Fatalf("expected input to carry route and body params, got %+v", captured)
	}

	var resp dto.PaidExpenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Expense.Status != "paid" || resp.Entry.ID != "entry-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestExpenseHandler_Pay_AlreadyPaid(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		payFn: func(ctx context.Context, input usecase.PayExpenseInput) (*domain.Expense, *domain.Entry, error) {
			return nil, nil, domain.ErrExpenseAlreadyPaid
		},
	})

	rec := httptest.NewRecorder()
	handler.Pay(rec, payRequest(t, "exp-1", dto.PayExpenseRequest{AccountID: "acc-1"}))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestExpenseHandler_Pay_NotFound(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		payFn: func(ctx context.Context, input usecase.PayExpenseInput) (*domain.Expense, *domain.Entry, error) {
			return nil, nil, domain.ErrExpenseNotFound
		},
	})

	rec := httptest.NewRecorder()
	handler.Pay(rec, payRequest(t, "missing", dto.PayExpenseRequest{AccountID: "acc-1"}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExpenseHandler_Create_ValidationError(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			return nil, domain.ErrInvalidAmount
		},
	})

	body, _ := json.Marshal(dto.CreateExpenseRequest{Name: "rent"})
	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExpenseHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			t.Fatal("CreateExpense should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
