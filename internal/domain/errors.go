package domain

import "errors"

// Validation errors: the request itself is malformed.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidDirection   = errors.New("invalid entry direction")
	ErrInvalidEntryType   = errors.New("invalid transaction type")
	ErrInvalidDueDay      = errors.New("due day must be between 1 and 31")
	ErrInvalidPeriodRange = errors.New("invalid period range")
	ErrEmptyName          = errors.New("name must not be empty")
	ErrSameAccount        = errors.New("cannot transfer to same account")
)

// Not-found errors: a referenced record does not exist.
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrEntryNotFound        = errors.New("ledger entry not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrFixedExpenseNotFound = errors.New("fixed expense not found")
	ErrPeriodNotFound       = errors.New("expense period not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
)

// Conflict errors: the record exists but is in a state that forbids the
// operation, or a concurrent writer got there first.
var (
	ErrExpenseAlreadyPaid = errors.New("expense was already paid")
	ErrPeriodAlreadyPaid  = errors.New("expense period was already paid")
	ErrConcurrentConflict = errors.New("conflicting concurrent update")
)

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrInvalidAccountName, ErrInvalidAccountType,
		ErrInvalidDirection, ErrInvalidEntryType, ErrInvalidDueDay,
		ErrInvalidPeriodRange, ErrEmptyName, ErrSameAccount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err belongs to the not-found class.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrAccountNotFound, ErrEntryNotFound, ErrCategoryNotFound,
		ErrExpenseNotFound, ErrFixedExpenseNotFound, ErrPeriodNotFound,
		ErrEmployeeNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err belongs to the conflict class.
func IsConflict(err error) bool {
	for _, target := range []error{
		ErrExpenseAlreadyPaid, ErrPeriodAlreadyPaid, ErrConcurrentConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
