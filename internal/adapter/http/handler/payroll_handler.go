package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/backoffice/treasury/internal/adapter/http/dto"
	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/infrastructure/metrics"
	"github.com/backoffice/treasury/internal/usecase"
)

// PayrollService defines the behavior needed by PayrollHandler.
type PayrollService interface {
	CreateEmployee(ctx context.Context, input usecase.CreateEmployeeInput) (*domain.Employee, error)
	ListEmployees(ctx context.Context, limit, offset int) ([]*domain.Employee, error)
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.PayrollPayment, *domain.Entry, error)
	ListPayments(ctx context.Context, employeeID string, limit, offset int) ([]*domain.PayrollPayment, error)
}

// PayrollHandler handles employee and payroll HTTP requests.
type PayrollHandler struct {
	payrollUC PayrollService
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(payrollUC PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollUC: payrollUC}
}

// CreateEmployee registers an employee.
func (h *PayrollHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	employee, err := h.payrollUC.CreateEmployee(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to create employee")
		return
	}

	writeJSON(w, http.StatusCreated, dto.EmployeeFromDomain(employee))
}

// ListEmployees lists employees.
func (h *PayrollHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.payrollUC.ListEmployees(r.Context(),
		parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, err, "failed to list employees")
		return
	}

	writeJSON(w, http.StatusOK, dto.EmployeesFromDomain(employees))
}

// RecordPayment records a salary payout and its ledger entry atomically.
func (h *PayrollHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, entry, err := h.payrollUC.RecordPayment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to record payment")
		return
	}

	metrics.PayrollPaymentRecorded()
	writeJSON(w, http.StatusCreated, dto.RecordedPaymentResponse{
		Payment: dto.PaymentFromDomain(payment),
		Entry:   dto.EntryFromDomain(entry),
	})
}

// ListPayments lists payouts, optionally filtered by ?employee_id=.
func (h *PayrollHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payrollUC.ListPayments(r.Context(),
		r.URL.Query().Get("employee_id"),
		parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, err, "failed to list payments")
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentsFromDomain(payments))
}
