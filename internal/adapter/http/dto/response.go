package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Version        int64           `json:"version"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		Version:        a.Version,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse reports an account's current balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	Direction       string          `json:"direction"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	CategoryID      string          `json:"category_id,omitempty"`
	Description     string          `json:"description,omitempty"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	AccountVersion  int64           `json:"account_version"`
	OccurredAt      time.Time       `json:"occurred_at"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		AccountID:       e.AccountID,
		Direction:       string(e.Direction),
		Amount:          e.Amount,
		Type:            string(e.Type),
		ReferenceID:     e.ReferenceID,
		CategoryID:      e.CategoryID,
		Description:     e.Description,
		PreviousBalance: e.PreviousBalance,
		CurrentBalance:  e.CurrentBalance,
		AccountVersion:  e.AccountVersion,
		OccurredAt:      e.OccurredAt,
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// TransferResponse represents a completed transfer: the shared reference
// and both legs.
type TransferResponse struct {
	ReferenceID string         `json:"reference_id"`
	OutEntry    *EntryResponse `json:"out_entry"`
	InEntry     *EntryResponse `json:"in_entry"`
}

// TransferFromResult converts a transfer result to response.
func TransferFromResult(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		ReferenceID: r.ReferenceID,
		OutEntry:    EntryFromDomain(r.OutEntry),
		InEntry:     EntryFromDomain(r.InEntry),
	}
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PaidAccountID string          `json:"paid_account_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ExpenseFromDomain converts domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		Name:          e.Name,
		CategoryID:    e.CategoryID,
		Amount:        e.Amount,
		DueDate:       e.DueDate,
		Status:        string(e.Status),
		PaidAt:        e.PaidAt,
		PaidAccountID: e.PaidAccountID,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// PaidExpenseResponse pairs the paid expense with the entry it posted.
type PaidExpenseResponse struct {
	Expense *ExpenseResponse `json:"expense"`
	Entry   *EntryResponse   `json:"entry"`
}

// FixedExpenseResponse represents a recurring expense template.
type FixedExpenseResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id,omitempty"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	DueDay        int             `json:"due_day"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FixedExpenseFromDomain converts a domain template to response.
func FixedExpenseFromDomain(fe *domain.FixedExpense) *FixedExpenseResponse {
	return &FixedExpenseResponse{
		ID:            fe.ID,
		Name:          fe.Name,
		CategoryID:    fe.CategoryID,
		DefaultAmount: fe.DefaultAmount,
		DueDay:        fe.DueDay,
		CreatedAt:     fe.CreatedAt,
		UpdatedAt:     fe.UpdatedAt,
	}
}

// FixedExpensesFromDomain converts domain templates to responses.
func FixedExpensesFromDomain(templates []*domain.FixedExpense) []*FixedExpenseResponse {
	result := make([]*FixedExpenseResponse, len(templates))
	for i, fe := range templates {
		result[i] = FixedExpenseFromDomain(fe)
	}
	return result
}

// PeriodResponse represents one month of a fixed expense.
type PeriodResponse struct {
	ID             string          `json:"id"`
	FixedExpenseID string          `json:"fixed_expense_id"`
	Period         string          `json:"period"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        time.Time       `json:"due_date"`
	Status         string          `json:"status"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	PaidAccountID  string          `json:"paid_account_id,omitempty"`
}

// PeriodFromDomain converts a domain period to response.
func PeriodFromDomain(p *domain.FixedExpensePeriod) *PeriodResponse {
	return &PeriodResponse{
		ID:             p.ID,
		FixedExpenseID: p.FixedExpenseID,
		Period:         p.Period.String(),
		Amount:         p.Amount,
		DueDate:        p.DueDate,
		Status:         string(p.Status),
		PaidAt:         p.PaidAt,
		PaidAccountID:  p.PaidAccountID,
	}
}

// PeriodsFromDomain converts domain periods to responses.
func PeriodsFromDomain(periods []*domain.FixedExpensePeriod) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodFromDomain(p)
	}
	return result
}

// PaidPeriodResponse pairs the paid period with the entry it posted.
type PaidPeriodResponse struct {
	Period *PeriodResponse `json:"period"`
	Entry  *EntryResponse  `json:"entry"`
}

// EmployeeResponse represents an employee in API responses.
type EmployeeResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      string          `json:"role,omitempty"`
	Salary    decimal.Decimal `json:"salary"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// EmployeeFromDomain converts a domain employee to response.
func EmployeeFromDomain(e *domain.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Role:      e.Role,
		Salary:    e.Salary,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
}

// EmployeesFromDomain converts domain employees to responses.
func EmployeesFromDomain(employees []*domain.Employee) []*EmployeeResponse {
	result := make([]*EmployeeResponse, len(employees))
	for i, e := range employees {
		result[i] = EmployeeFromDomain(e)
	}
	return result
}

// PaymentResponse represents a payroll payment in API responses.
type PaymentResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	PaidAt     time.Time       `json:"paid_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PaymentFromDomain converts a domain payment to response.
func PaymentFromDomain(p *domain.PayrollPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		AccountID:  p.AccountID,
		Amount:     p.Amount,
		Note:       p.Note,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.PayrollPayment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// RecordedPaymentResponse pairs the payment with the entry it posted.
type RecordedPaymentResponse struct {
	Payment *PaymentResponse `json:"payment"`
	Entry   *EntryResponse   `json:"entry"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryFromDomain converts a domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// ReconcileResponse reports the outcome of a reconciliation. Entry is null
// when the balances already matched.
type ReconcileResponse struct {
	AccountID       string          `json:"account_id"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	RealBalance     decimal.Decimal `json:"real_balance"`
	Delta           decimal.Decimal `json:"delta"`
	Entry           *EntryResponse  `json:"entry,omitempty"`
}

// ReconcileFromResult converts a reconcile result to response.
func ReconcileFromResult(r *usecase.ReconcileResult) *ReconcileResponse {
	resp := &ReconcileResponse{
		AccountID:       r.AccountID,
		PreviousBalance: r.PreviousBalance,
		RealBalance:     r.RealBalance,
		Delta:           r.Delta,
	}
	if r.Entry != nil {
		resp.Entry = EntryFromDomain(r.Entry)
	}

	return resp
}

// DriftResponse reports one account whose cached balance drifted from the
// sum of its entries.
type DriftResponse struct {
	AccountID  string          `json:"account_id"`
	Cached     decimal.Decimal `json:"cached"`
	Derived    decimal.Decimal `json:"derived"`
	Difference decimal.Decimal `json:"difference"`
}

// ConsistencyResponse reports the outcome of a ledger-wide consistency
// check.
type ConsistencyResponse struct {
	Consistent bool             `json:"consistent"`
	Drifts     []*DriftResponse `json:"drifts,omitempty"`
}

// ConsistencyFromDrifts converts drift reports to a response.
func ConsistencyFromDrifts(drifts []domain.BalanceDrift) *ConsistencyResponse {
	resp := &ConsistencyResponse{Consistent: len(drifts) == 0}
	for _, d := range drifts {
		resp.Drifts = append(resp.Drifts, &DriftResponse{
			AccountID:  d.AccountID,
			Cached:     d.Cached,
			Derived:    d.Derived,
			Difference: d.Difference(),
		})
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
