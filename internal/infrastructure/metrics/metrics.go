// Package metrics exposes the treasury's Prometheus instruments. HTTP-level
// metrics live in the transport middleware; these track business events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treasury_ledger_entries_posted_total",
			Help: "Total ledger entries posted, by transaction type",
		},
		[]string{"type"},
	)

	transfersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_transfers_completed_total",
		Help: "Total transfers completed",
	})

	expensesPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_expenses_paid_total",
		Help: "Total one-off expenses paid",
	})

	periodsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_fixed_expense_periods_paid_total",
		Help: "Total fixed expense periods paid",
	})

	periodsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_fixed_expense_periods_skipped_total",
		Help: "Total fixed expense periods skipped",
	})

	payrollPayments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_payroll_payments_total",
		Help: "Total payroll payments recorded",
	})

	reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treasury_reconciliations_total",
			Help: "Total reconciliations, by outcome (corrected or exact)",
		},
		[]string{"outcome"},
	)

	balanceDrifts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "treasury_balance_drifts",
		Help: "Accounts with a cached/derived balance mismatch at last check",
	})
)

// EntryPosted counts one posted ledger entry.
func EntryPosted(entryType string) { entriesPosted.WithLabelValues(entryType).Inc() }

// TransferCompleted counts one completed transfer.
func TransferCompleted() { transfersCompleted.Inc() }

// ExpensePaid counts one paid expense.
func ExpensePaid() { expensesPaid.Inc() }

// PeriodPaid counts one paid fixed expense period.
func PeriodPaid() { periodsPaid.Inc() }

// PeriodSkipped counts one skipped fixed expense period.
func PeriodSkipped() { periodsSkipped.Inc() }

// PayrollPaymentRecorded counts one payroll payment.
func PayrollPaymentRecorded() { payrollPayments.Inc() }

// ReconciliationDone counts one reconciliation. corrected tells whether a
// corrective entry was posted.
func ReconciliationDone(corrected bool) {
	outcome := "exact"
	if corrected {
		outcome = "corrected"
	}
	reconciliations.WithLabelValues(outcome).Inc()
}

// DriftsObserved records the drift count from a consistency check.
func DriftsObserved(n int) { balanceDrifts.Set(float64(n)) }
