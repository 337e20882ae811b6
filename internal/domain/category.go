package domain

import "time"

// Category is reference data used to group expenses and ledger entries.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
