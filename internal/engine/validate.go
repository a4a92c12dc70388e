package engine

import (
	"fmt"

	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

// ValidatePath bounds-checks a selection path against a cycle definition
// before traversal: the path must be non-empty, no longer than the
// system's maximum nesting depth, and name only bodies the definition
// knows. Failing fast here keeps traversal errors out of deep recursion.
func ValidatePath(path []period.Body, def *registry.CycleDefinition) error {
	if len(path) == 0 {
		return &ComputeError{
			Code:    ErrCodeInvalidDepth,
			Message: "selection path is empty",
			System:  def.System,
		}
	}
	if len(path) > def.MaxDepth {
		return &ComputeError{
			Code:    ErrCodeInvalidDepth,
			Message: fmt.Sprintf("selection path has %d levels, system allows %d", len(path), def.MaxDepth),
			System:  def.System,
			Level:   len(path),
		}
	}
	for i, b := range path {
		if !def.Knows(b) {
			return &ComputeError{
				Code:    ErrCodeUnknownBody,
				Message: "selection path names a body outside the cycle order",
				System:  def.System,
				Body:    b,
				Level:   i + 1,
			}
		}
	}
	return nil
}
