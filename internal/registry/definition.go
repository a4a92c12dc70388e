// Package registry holds the cycle-system definitions the dasha engine
// subdivides against: for each supported system, the total cycle length,
// the canonical ordered body sequence, and each body's exact rational
// share of the cycle.
//
// Definitions are immutable after construction. Built-in systems are
// compiled in; additional systems can be declared in CUE files and
// registered at startup (see compile.go).
package registry

import (
	"fmt"
	"math/big"

	"github.com/roach88/dasha/internal/period"
)

// Share is one body's slot in a cycle: the body and its exact share of
// the cycle in years.
type Share struct {
	Body  period.Body
	Years *big.Rat
}

// CycleDefinition describes one period system.
//
// Invariant (enforced at construction): the shares in Order sum exactly
// to TotalYears. Shares are exact rationals, not rounded floats, so the
// invariant holds with no tolerance and proportional subdivision cannot
// accumulate error across nesting levels.
type CycleDefinition struct {
	// System is the registry identifier, e.g. "vimshottari".
	System string

	// TotalYears is the full cycle length.
	TotalYears *big.Rat

	// Order is the canonical body sequence with each body's share.
	Order []Share

	// MaxDepth is the deepest nesting level this system defines.
	MaxDepth int

	// index maps body -> position in Order, for O(1) rotation lookup.
	index map[period.Body]int
}

// NewDefinition validates and constructs a CycleDefinition.
//
// Validation failures return a *DefinitionError naming the offending
// field: empty order, non-positive total or share, duplicate body, or
// shares that do not sum exactly to the total.
func NewDefinition(system string, totalYears *big.Rat, maxDepth int, order []Share) (*CycleDefinition, error) {
	if system == "" {
		return nil, &DefinitionError{System: system, Field: "system", Message: "system name is required"}
	}
	if totalYears == nil || totalYears.Sign() <= 0 {
		return nil, &DefinitionError{System: system, Field: "total_years", Message: "total years must be positive"}
	}
	if maxDepth < 1 {
		return nil, &DefinitionError{System: system, Field: "max_depth", Message: "max depth must be at least 1"}
	}
	if len(order) == 0 {
		return nil, &DefinitionError{System: system, Field: "order", Message: "order must list at least one body"}
	}

	index := make(map[period.Body]int, len(order))
	sum := new(big.Rat)
	for i, s := range order {
		if s.Body == "" {
			return nil, &DefinitionError{System: system, Field: "order", Message: fmt.Sprintf("order[%d]: missing body", i)}
		}
		if s.Years == nil || s.Years.Sign() <= 0 {
			return nil, &DefinitionError{System: system, Field: "order", Message: fmt.Sprintf("order[%d] (%s): share must be positive", i, s.Body)}
		}
		if _, dup := index[s.Body]; dup {
			return nil, &DefinitionError{System: system, Field: "order", Message: fmt.Sprintf("order[%d]: duplicate body %s", i, s.Body)}
		}
		index[s.Body] = i
		sum.Add(sum, s.Years)
	}
	if sum.Cmp(totalYears) != 0 {
		return nil, &DefinitionError{
			System:  system,
			Field:   "order",
			Message: fmt.Sprintf("shares sum to %s, want %s", sum.RatString(), totalYears.RatString()),
		}
	}

	return &CycleDefinition{
		System:     system,
		TotalYears: totalYears,
		Order:      order,
		MaxDepth:   maxDepth,
		index:      index,
	}, nil
}

// Index returns the position of body in the canonical order.
func (d *CycleDefinition) Index(body period.Body) (int, bool) {
	i, ok := d.index[body]
	return i, ok
}

// Knows reports whether body owns a share of this cycle.
func (d *CycleDefinition) Knows(body period.Body) bool {
	_, ok := d.index[body]
	return ok
}

// Bodies returns the canonical body sequence.
func (d *CycleDefinition) Bodies() []period.Body {
	out := make([]period.Body, len(d.Order))
	for i, s := range d.Order {
		out[i] = s.Body
	}
	return out
}

// mustDefinition builds a built-in definition, panicking on invalid
// tables. Only used for the compiled-in systems below.
func mustDefinition(system string, totalYears int64, maxDepth int, order []Share) *CycleDefinition {
	def, err := NewDefinition(system, big.NewRat(totalYears, 1), maxDepth, order)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in definition %s: %v", system, err))
	}
	return def
}

// years is shorthand for an exact integer share.
func years(n int64) *big.Rat { return big.NewRat(n, 1) }
