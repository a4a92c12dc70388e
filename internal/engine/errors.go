package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

// ComputeError represents an error detected during period computation.
//
// Compute errors include:
//   - Unknown body: a body not present in the active cycle definition
//   - Degenerate period: a non-positive span was asked to subdivide
//   - Invalid depth: requested nesting exceeds the system's maximum
//   - Path not found: the requested selection chain does not exist
//
// All compute errors are caller/input bugs local to a single call; the
// computation is pure and deterministic, so retrying reproduces the
// same error. None are recoverable internally.
type ComputeError struct {
	// Code identifies the error category.
	Code ComputeErrorCode

	// Message is a human-readable description.
	Message string

	// System identifies the period system, when known.
	System string

	// Body identifies the offending body, if any.
	Body period.Body

	// Level is the 1-based nesting level at which the error occurred,
	// or 0 when not level-specific.
	Level int
}

// ComputeErrorCode categorizes compute errors.
type ComputeErrorCode string

const (
	// ErrCodeUnknownBody indicates a body missing from the definition.
	ErrCodeUnknownBody ComputeErrorCode = "UNKNOWN_BODY"

	// ErrCodeDegeneratePeriod indicates a non-positive parent duration.
	ErrCodeDegeneratePeriod ComputeErrorCode = "DEGENERATE_PERIOD"

	// ErrCodeInvalidDepth indicates the path exceeds the system's
	// maximum nesting depth.
	ErrCodeInvalidDepth ComputeErrorCode = "INVALID_DEPTH"

	// ErrCodePathNotFound indicates the selection chain does not exist
	// in the available data at some level. Distinguished from running
	// out of supplied children, which is the expected fallback case and
	// never an error.
	ErrCodePathNotFound ComputeErrorCode = "PATH_NOT_FOUND"
)

// Error implements the error interface.
func (e *ComputeError) Error() string {
	switch {
	case e.Body != "" && e.Level > 0:
		return fmt.Sprintf("%s: %s (body=%s, level=%d)", e.Code, e.Message, e.Body, e.Level)
	case e.Body != "":
		return fmt.Sprintf("%s: %s (body=%s)", e.Code, e.Message, e.Body)
	case e.Level > 0:
		return fmt.Sprintf("%s: %s (level=%d)", e.Code, e.Message, e.Level)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsUnknownBodyError reports whether err is an unknown-body error.
// Uses errors.As to handle wrapped errors.
func IsUnknownBodyError(err error) bool { return hasCode(err, ErrCodeUnknownBody) }

// IsDegeneratePeriodError reports whether err is a degenerate-period error.
func IsDegeneratePeriodError(err error) bool { return hasCode(err, ErrCodeDegeneratePeriod) }

// IsInvalidDepthError reports whether err is an invalid-depth error.
func IsInvalidDepthError(err error) bool { return hasCode(err, ErrCodeInvalidDepth) }

// IsPathNotFoundError reports whether err is a path-not-found error.
func IsPathNotFoundError(err error) bool { return hasCode(err, ErrCodePathNotFound) }

// IsUnknownSystemError reports whether err is an unknown-system lookup
// failure from the registry.
func IsUnknownSystemError(err error) bool { return registry.IsUnknownSystem(err) }

func hasCode(err error, code ComputeErrorCode) bool {
	var ce *ComputeError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
