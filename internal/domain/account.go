package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies where the money physically lives.
type AccountType string

const (
	AccountCash      AccountType = "cash"
	AccountBank      AccountType = "bank"
	AccountWallet    AccountType = "wallet"
	AccountCardFloat AccountType = "card_float"
	AccountOther     AccountType = "other"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountCash, AccountBank, AccountWallet, AccountCardFloat, AccountOther:
		return true
	}
	return false
}

// Account represents a treasury account holding a balance.
//
// Balance is a cached running total maintained transactionally with every
// ledger entry. The source of truth is always
// OpeningBalance + sum of signed entries; the two must never diverge.
type Account struct {
	ID             string
	Name           string
	Type           AccountType
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	Version        int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ApplyEntry returns the balance after applying a signed entry amount.
// Accounts may go negative; physical drawers are corrected later via
// reconciliation, so there is no overdraft check.
func (a *Account) ApplyEntry(direction Direction, amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(SignedAmount(direction, amount))
}
