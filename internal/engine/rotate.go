package engine

import (
	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

// rotation is a cyclic view over a definition's canonical order,
// beginning at a chosen body and wrapping back to the body preceding it.
//
// Modeled as a start index plus modulo arithmetic over the definition's
// fixed order slice - no allocation per rotation. Every subdivision
// after the first level begins with the parent's own body (a period is
// always subdivided starting with itself), which is why this exists.
type rotation struct {
	order []registry.Share
	start int
}

// newRotation resolves the rotation of def's order beginning at startBody.
func newRotation(def *registry.CycleDefinition, startBody period.Body) (rotation, error) {
	i, ok := def.Index(startBody)
	if !ok {
		return rotation{}, &ComputeError{
			Code:    ErrCodeUnknownBody,
			Message: "body is not part of the cycle order",
			System:  def.System,
			Body:    startBody,
		}
	}
	return rotation{order: def.Order, start: i}, nil
}

// Len returns the number of bodies in the cycle.
func (r rotation) Len() int { return len(r.order) }

// At returns the i-th share of the rotated order.
func (r rotation) At(i int) registry.Share {
	return r.order[(r.start+i)%len(r.order)]
}

// Rotate returns def's body order rotated so iteration begins at
// startBody. Fails with an unknown-body error if startBody is not in
// the order.
func Rotate(def *registry.CycleDefinition, startBody period.Body) ([]period.Body, error) {
	rot, err := newRotation(def, startBody)
	if err != nil {
		return nil, err
	}
	out := make([]period.Body, rot.Len())
	for i := range out {
		out[i] = rot.At(i).Body
	}
	return out, nil
}
