// Package period defines the core value types of the dasha engine:
// bodies, periods, and the tagged children variant that distinguishes
// externally supplied subdivisions from locally computed ones.
//
// All values are ephemeral and immutable once constructed. A Period is
// never mutated in place; attaching synthesized children produces a copy.
// Durations are exact rationals (math/big.Rat) and are converted to
// calendar instants only at boundary-construction time, always through
// the single NanosPerYear constant, so boundary arithmetic never drifts
// between nesting levels.
package period

import (
	"fmt"
	"math/big"
	"time"
)

// Body identifies one of the celestial bodies that own a share of a
// period cycle. Values are short canonical identifiers ("Ve", "Su", ...).
type Body string

// The nine bodies of the classical dasha systems.
const (
	Sun     Body = "Su"
	Moon    Body = "Mo"
	Mars    Body = "Ma"
	Mercury Body = "Me"
	Jupiter Body = "Ju"
	Venus   Body = "Ve"
	Saturn  Body = "Sa"
	Rahu    Body = "Ra"
	Ketu    Body = "Ke"
)

// NanosPerYear is the fixed duration of one year in nanoseconds,
// using the 365.25 days/year convention (31,557,600 seconds).
//
// CRITICAL: every conversion from rational years to calendar instants in
// this module goes through this one constant. Mixing conventions between
// nesting levels would break the contiguity invariant (a child's end
// would no longer equal its sibling's start).
const NanosPerYear = int64(31_557_600) * int64(time.Second)

// Period is one node of a dasha tree: a body's span of time at some
// nesting level. Start and End are UTC instants; Years is the exact
// rational duration from which the instants were derived.
//
// End is authoritative: when a period is subdivided, the last child's
// end is pinned to the parent's End rather than re-derived from Years,
// absorbing any sub-nanosecond rounding residue.
type Period struct {
	Body     Body
	Start    time.Time
	End      time.Time
	Years    *big.Rat
	Children Children
}

// WithChildren returns a copy of p carrying the given children variant.
// The receiver is left untouched.
func (p Period) WithChildren(c Children) Period {
	p.Children = c
	return p
}

// YearsString renders the exact duration as "p/q" (or "p" when whole).
func (p Period) YearsString() string {
	if p.Years == nil {
		return "0"
	}
	return p.Years.RatString()
}

// String renders a compact human-readable form for diagnostics.
func (p Period) String() string {
	return fmt.Sprintf("%s[%s .. %s, %sy]",
		p.Body,
		p.Start.UTC().Format(time.RFC3339),
		p.End.UTC().Format(time.RFC3339),
		p.YearsString())
}

// Children is a sealed variant describing a period's subdivisions.
// Only NoChildren, External, and Computed implement it.
//
// The variant is attached uniformly to every Period, so the
// external/computed distinction is carried in the type rather than in
// per-level optional fields.
type Children interface {
	childrenVariant() // Sealed - only the three variants implement it
}

// NoChildren marks a period with no known subdivisions.
type NoChildren struct{}

func (NoChildren) childrenVariant() {}

// External carries subdivisions supplied by the upstream calculation
// service. Depth of external data is not guaranteed.
type External []Period

func (External) childrenVariant() {}

// Computed carries subdivisions synthesized locally by the subdivision
// calculator.
type Computed []Period

func (Computed) childrenVariant() {}

// Source labels where a resolved period's data came from.
type Source string

const (
	// SourceExternal marks data supplied by the upstream service.
	SourceExternal Source = "external"
	// SourceComputed marks data synthesized by local subdivision.
	SourceComputed Source = "computed"
)

// ChildPeriods returns the child list carried by a variant, or nil for
// NoChildren (and for a nil variant on a zero-value Period).
func ChildPeriods(c Children) []Period {
	switch v := c.(type) {
	case External:
		return v
	case Computed:
		return v
	default:
		return nil
	}
}

// ChildSource returns the source label for a variant and whether the
// variant carries children at all.
func ChildSource(c Children) (Source, bool) {
	switch c.(type) {
	case External:
		return SourceExternal, true
	case Computed:
		return SourceComputed, true
	default:
		return "", false
	}
}

// AddYears returns t advanced by the given rational number of years,
// converted through NanosPerYear and rounded half away from zero to the
// nearest nanosecond. Negative values move backward in time.
func AddYears(t time.Time, years *big.Rat) time.Time {
	return t.Add(time.Duration(yearsToNanos(years)))
}

// yearsToNanos converts exact rational years to integer nanoseconds.
// Rounding is half away from zero so that symmetric spans round
// symmetrically.
func yearsToNanos(years *big.Rat) int64 {
	ns := new(big.Rat).Mul(years, new(big.Rat).SetInt64(NanosPerYear))

	num := new(big.Int).Set(ns.Num())
	den := ns.Denom() // always > 0 for big.Rat

	neg := num.Sign() < 0
	if neg {
		num.Neg(num)
	}

	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	// half away from zero: bump when 2r >= den
	r.Lsh(r, 1)
	if r.Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if neg {
		q.Neg(q)
	}
	return q.Int64()
}

// ParseYears parses an exact rational duration from its string form.
// Accepts "20", "20/3", and exact decimal forms like "2.5".
func ParseYears(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid rational years %q", s)
	}
	return r, nil
}
