package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells which way money moved. Amounts are stored positive;
// the direction carries the sign.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ValidDirection reports whether d is a known direction.
func ValidDirection(d Direction) bool {
	return d == DirectionIn || d == DirectionOut
}

// TransactionType labels the business event behind an entry.
type TransactionType string

const (
	TypeTransfer       TransactionType = "transfer"
	TypeExpense        TransactionType = "expense"
	TypeFixedExpense   TransactionType = "fixed_expense"
	TypePayroll        TransactionType = "payroll"
	TypeSale           TransactionType = "sale"
	TypeReconciliation TransactionType = "reconciliation"
	TypeAdjustment     TransactionType = "adjustment"
	TypeOther          TransactionType = "other"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TypeTransfer, TypeExpense, TypeFixedExpense, TypePayroll,
		TypeSale, TypeReconciliation, TypeAdjustment, TypeOther:
		return true
	}
	return false
}

// Entry is one immutable row of the transaction ledger. Entries are
// append-only: corrections are new adjustment entries, never edits.
//
// PreviousBalance/CurrentBalance snapshot the account around this entry,
// so the full balance history is reconstructible from the entry stream.
type Entry struct {
	ID              string
	AccountID       string
	Direction       Direction
	Amount          decimal.Decimal
	Type            TransactionType
	ReferenceID     string
	CategoryID      string
	Description     string
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
	AccountVersion  int64
	OccurredAt      time.Time
	CreatedAt       time.Time
}

// SignedAmount maps a (direction, amount) pair onto the number it adds to
// the account balance.
func SignedAmount(direction Direction, amount decimal.Decimal) decimal.Decimal {
	if direction == DirectionOut {
		return amount.Neg()
	}
	return amount
}

// Signed returns the entry amount with its direction applied.
func (e *Entry) Signed() decimal.Decimal {
	return SignedAmount(e.Direction, e.Amount)
}

// EntryFilter narrows ListEntries. Zero values mean "no constraint".
type EntryFilter struct {
	AccountID  string
	CategoryID string
	Direction  Direction
	Type       TransactionType
	From       time.Time
	To         time.Time
	Search     string
	Limit      int
	Offset     int
}
