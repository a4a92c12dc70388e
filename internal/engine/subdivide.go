package engine

import (
	"math/big"
	"time"

	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

// Subdivide computes the ordered child periods that exactly and
// contiguously subdivide parent's span, one level deeper.
//
// Each child's share is parent.Years * (bodyYears / totalYears), kept as
// an exact rational. Boundary instants come from cumulative rational
// offsets off parent.Start (never from repeated instant addition, which
// would accumulate rounding drift), so:
//
//   - the first child starts exactly at parent.Start
//   - each child starts exactly where the previous one ends
//   - the last child ends exactly at parent.End, absorbing any
//     sub-nanosecond residual from instant rounding
//
// Fails with a degenerate-period error for a non-positive parent span
// and an unknown-body error when parent.Body is not in def's order.
func Subdivide(parent period.Period, def *registry.CycleDefinition) ([]period.Period, error) {
	if parent.Years == nil || parent.Years.Sign() <= 0 {
		return nil, &ComputeError{
			Code:    ErrCodeDegeneratePeriod,
			Message: "cannot subdivide a period with non-positive duration",
			System:  def.System,
			Body:    parent.Body,
		}
	}

	rot, err := newRotation(def, parent.Body)
	if err != nil {
		return nil, err
	}

	// scale converts a body's canonical share to this parent's child
	// duration: childYears = shareYears * parentYears / totalYears.
	scale := new(big.Rat).Quo(parent.Years, def.TotalYears)

	children := make([]period.Period, 0, rot.Len())
	cum := new(big.Rat)
	start := parent.Start
	for i := 0; i < rot.Len(); i++ {
		share := rot.At(i)
		childYears := new(big.Rat).Mul(share.Years, scale)
		cum = new(big.Rat).Add(cum, childYears)

		var end time.Time
		if i == rot.Len()-1 {
			end = parent.End
		} else {
			end = period.AddYears(parent.Start, cum)
		}

		children = append(children, period.Period{
			Body:     share.Body,
			Start:    start,
			End:      end,
			Years:    childYears,
			Children: period.NoChildren{},
		})
		start = end
	}
	return children, nil
}

// SubdivideDeep subdivides parent recursively down the given number of
// levels, attaching each level as Computed children. levels must be
// between 1 and def.MaxDepth.
func SubdivideDeep(parent period.Period, def *registry.CycleDefinition, levels int) (period.Period, error) {
	if levels < 1 || levels > def.MaxDepth {
		return period.Period{}, &ComputeError{
			Code:    ErrCodeInvalidDepth,
			Message: "levels must be between 1 and the system's maximum depth",
			System:  def.System,
			Level:   levels,
		}
	}
	return subdivideDeep(parent, def, levels)
}

func subdivideDeep(parent period.Period, def *registry.CycleDefinition, levels int) (period.Period, error) {
	children, err := Subdivide(parent, def)
	if err != nil {
		return period.Period{}, err
	}
	if levels > 1 {
		for i, c := range children {
			deep, err := subdivideDeep(c, def, levels-1)
			if err != nil {
				return period.Period{}, err
			}
			children[i] = deep
		}
	}
	return parent.WithChildren(period.Computed(children)), nil
}
