// Package testutil provides deterministic helpers for building periods
// and period trees in tests.
package testutil

import (
	"fmt"
	"math/big"
	"time"

	"github.com/roach88/dasha/internal/period"
)

// MustRat parses an exact rational, panicking on malformed input.
// Test-only convenience; production code uses period.ParseYears.
func MustRat(s string) *big.Rat {
	r, err := period.ParseYears(s)
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return r
}

// Date returns a UTC midnight instant.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// NewPeriod builds a period from a start instant and an exact rational
// duration, deriving the end through the engine's fixed convention.
func NewPeriod(body period.Body, start time.Time, years string) period.Period {
	y := MustRat(years)
	return period.Period{
		Body:     body,
		Start:    start,
		End:      period.AddYears(start, y),
		Years:    y,
		Children: period.NoChildren{},
	}
}

// WithExternal attaches children to a period as externally supplied data.
func WithExternal(p period.Period, children ...period.Period) period.Period {
	return p.WithChildren(period.External(children))
}
