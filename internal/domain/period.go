package domain

import (
	"fmt"
	"time"
)

// Period identifies a calendar month, e.g. "2026-08".
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a "YYYY-MM" string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q is not a YYYY-MM period", ErrInvalidPeriodRange, s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// String formats the period as "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Next returns the following month.
func (p Period) Next() Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return Period{Year: t.Year(), Month: t.Month()}
}

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// DueDate anchors dueDay inside the period's month, clamping to the last
// day of short months (due day 31 in February lands on the 28th/29th).
func (p Period) DueDate(dueDay int) time.Time {
	last := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
	if dueDay > last {
		dueDay = last
	}
	return time.Date(p.Year, p.Month, dueDay, 0, 0, 0, 0, time.UTC)
}

// MaxPeriodRangeMonths bounds a single range read. Materialization is
// lazy so an oversized range would turn one request into one insert per
// month; ten years is far beyond any real back-office query.
const MaxPeriodRangeMonths = 120

// PeriodsBetween enumerates every month from from to to inclusive.
// The range is invalid if to precedes from or spans more than
// MaxPeriodRangeMonths months.
func PeriodsBetween(from, to Period) ([]Period, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidPeriodRange, from, to)
	}

	months := (to.Year-from.Year)*12 + int(to.Month) - int(from.Month) + 1
	if months > MaxPeriodRangeMonths {
		return nil, fmt.Errorf("%w: %s..%s spans %d months, limit is %d",
			ErrInvalidPeriodRange, from, to, months, MaxPeriodRangeMonths)
	}

	periods := make([]Period, 0, months)
	for p := from; !to.Before(p); p = p.Next() {
		periods = append(periods, p)
	}
	return periods, nil
}
