package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/backoffice/treasury/internal/adapter/http/dto"
	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/infrastructure/metrics"
	"github.com/backoffice/treasury/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error)
	PayExpense(ctx context.Context, input usecase.PayExpenseInput) (*domain.Expense, *domain.Entry, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.Expense, error)
}

// ExpenseHandler handles one-off expense HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// Create registers a pending expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.CreateExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to create expense")
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// Pay marks a pending expense paid, posting its ledger entry atomically.
// Paying an already-paid expense returns 409.
func (h *ExpenseHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.PayExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := usecase.PayExpenseInput{
		ExpenseID: chi.URLParam(r, "id"),
		AccountID: req.AccountID,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}

	expense, entry, err := h.expenseUC.PayExpense(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to pay expense")
		return
	}

	metrics.ExpensePaid()
	writeJSON(w, http.StatusOK, dto.PaidExpenseResponse{
		Expense: dto.ExpenseFromDomain(expense),
		Entry:   dto.EntryFromDomain(entry),
	})
}

// Get retrieves an expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.expenseUC.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to get expense")
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// List lists expenses, optionally filtered by status.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseUC.ListExpenses(r.Context(), usecase.ListExpensesInput{
		Status: domain.ExpenseStatus(r.URL.Query().Get("status")),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err, "failed to list expenses")
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromDomain(expenses))
}
