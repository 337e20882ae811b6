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

// ScheduleService defines the behavior needed by ScheduleHandler.
type ScheduleService interface {
	CreateFixedExpense(ctx context.Context, input usecase.CreateFixedExpenseInput) (*domain.FixedExpense, error)
	ListFixedExpenses(ctx context.Context, limit, offset int) ([]*domain.FixedExpense, error)
	GetPeriods(ctx context.Context, fixedExpenseID string, from, to domain.Period) ([]*domain.FixedExpensePeriod, error)
	PayPeriod(ctx context.Context, input usecase.PayPeriodInput) (*domain.FixedExpensePeriod, *domain.Entry, error)
	SkipPeriod(ctx context.Context, periodID string) (*domain.FixedExpensePeriod, error)
}

// ScheduleHandler handles recurring expense HTTP requests.
type ScheduleHandler struct {
	scheduleUC ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleUC ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleUC: scheduleUC}
}

// Create creates a recurring expense template.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFixedExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	fe, err := h.scheduleUC.CreateFixedExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to create fixed expense")
		return
	}

	writeJSON(w, http.StatusCreated, dto.FixedExpenseFromDomain(fe))
}

// List lists recurring expense templates.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.scheduleUC.ListFixedExpenses(r.Context(),
		parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, err, "failed to list fixed expenses")
		return
	}

	writeJSON(w, http.StatusOK, dto.FixedExpensesFromDomain(templates))
}

// Periods returns a template's periods inside ?from=YYYY-MM&to=YYYY-MM,
// materializing missing months on the way.
func (h *ScheduleHandler) Periods(w http.ResponseWriter, r *http.Request) {
	from, err := domain.ParsePeriod(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from period", err.Error())
		return
	}

	to, err := domain.ParsePeriod(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to period", err.Error())
		return
	}

	periods, err := h.scheduleUC.GetPeriods(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeDomainError(w, err, "failed to get periods")
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodsFromDomain(periods))
}

// PayPeriod marks one month paid, posting its ledger entry atomically.
// Re-paying a paid month returns 409.
func (h *ScheduleHandler) PayPeriod(w http.ResponseWriter, r *http.Request) {
	var req dto.PayPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := usecase.PayPeriodInput{
		PeriodID:  chi.URLParam(r, "id"),
		AccountID: req.AccountID,
		Amount:    req.Amount,
	}
	if req.PaidAt != nil {
		input.PaidAt = *req.PaidAt
	}

	period, entry, err := h.scheduleUC.PayPeriod(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to pay period")
		return
	}

	metrics.PeriodPaid()
	writeJSON(w, http.StatusOK, dto.PaidPeriodResponse{
		Period: dto.PeriodFromDomain(period),
		Entry:  dto.EntryFromDomain(entry),
	})
}

// SkipPeriod marks one month skipped. Skipping a paid month returns 409.
func (h *ScheduleHandler) SkipPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.scheduleUC.SkipPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to skip period")
		return
	}

	metrics.PeriodSkipped()
	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}
