// Package engine implements the hierarchical period-subdivision engine:
// cyclic order rotation, exact proportional subdivision, and hybrid
// external-then-computed traversal of dasha period trees.
//
// The engine is purely functional and stateless. Every operation is a
// deterministic, synchronous transformation of its inputs; there is no
// shared mutable state, so an Engine may be used concurrently from any
// number of goroutines without locking.
package engine

import (
	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

// Engine is the validation-wrapped facade over the subdivision and
// traversal operations, bound to a cycle-system registry.
type Engine struct {
	reg *registry.Registry
}

// New creates an engine over the given registry.
func New(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// ComputeChildren subdivides parent one level under the named system,
// returning the ordered, contiguous child periods.
func (e *Engine) ComputeChildren(parent period.Period, system string) ([]period.Period, error) {
	def, err := e.reg.Get(system)
	if err != nil {
		return nil, err
	}
	return Subdivide(parent, def)
}

// ComputeLevels subdivides parent recursively down the given number of
// levels under the named system, attaching each level as Computed
// children.
func (e *Engine) ComputeLevels(parent period.Period, system string, levels int) (period.Period, error) {
	def, err := e.reg.Get(system)
	if err != nil {
		return period.Period{}, err
	}
	return SubdivideDeep(parent, def, levels)
}

// ResolveRequest names the inputs of a path resolution.
type ResolveRequest struct {
	// Roots are the root periods of the (possibly shallow) external tree.
	Roots []period.Period

	// Path selects one body per nesting level.
	Path []period.Body

	// System identifies the cycle definition to subdivide against.
	System string

	// WithChildren requests the terminal period's flat next-level list
	// in addition to the resolved chain.
	WithChildren bool
}

// ResolvePath validates the request and resolves the selection path,
// walking external data as far as it goes and computing the rest.
func (e *Engine) ResolvePath(req ResolveRequest) (*Resolution, error) {
	def, err := e.reg.Get(req.System)
	if err != nil {
		return nil, err
	}
	if err := ValidatePath(req.Path, def); err != nil {
		return nil, err
	}
	return ResolvePath(req.Roots, req.Path, def, req.WithChildren)
}

// Rotation returns the named system's body order rotated to begin at
// startBody.
func (e *Engine) Rotation(system string, startBody period.Body) ([]period.Body, error) {
	def, err := e.reg.Get(system)
	if err != nil {
		return nil, err
	}
	return Rotate(def, startBody)
}
