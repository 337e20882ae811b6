package domain

import "github.com/shopspring/decimal"

// BalanceDrift reports an account whose cached balance disagrees with the
// sum of its ledger entries. A healthy ledger never produces one.
type BalanceDrift struct {
	AccountID string
	Cached    decimal.Decimal
	Derived   decimal.Decimal
}

// Difference returns cached minus derived.
func (d BalanceDrift) Difference() decimal.Decimal {
	return d.Cached.Sub(d.Derived)
}
