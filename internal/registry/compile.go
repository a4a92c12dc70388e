package registry

import (
	"errors"
	"fmt"
	"math/big"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/dasha/internal/period"
)

// CompileDefinition parses a CUE value into a validated CycleDefinition.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the system struct itself, keyed by the system
// name, e.g.:
//
//	system: chaturshiti: {
//		total_years: 84
//		max_depth:   4
//		order: [
//			{body: "Su", years: 6},
//			...
//		]
//	}
//
// Shares and totals are read as exact integers (floats are rejected -
// rounded shares would compound across nesting levels).
func CompileDefinition(v cue.Value) (*CycleDefinition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// System name comes from the struct label (the path selector).
	var name string
	if labels := v.Path().Selectors(); len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}

	totalVal := v.LookupPath(cue.ParsePath("total_years"))
	if !totalVal.Exists() {
		return nil, &CompileError{Field: "total_years", Message: "total_years is required", Pos: v.Pos()}
	}
	total, err := rationalFromCUE(totalVal, "total_years")
	if err != nil {
		return nil, err
	}

	maxDepth := defaultMaxDepth
	if depthVal := v.LookupPath(cue.ParsePath("max_depth")); depthVal.Exists() {
		d, err := depthVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		maxDepth = int(d)
	}

	orderVal := v.LookupPath(cue.ParsePath("order"))
	if !orderVal.Exists() {
		return nil, &CompileError{Field: "order", Message: "order is required", Pos: v.Pos()}
	}
	iter, err := orderVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var order []Share
	for i := 0; iter.Next(); i++ {
		share, err := parseShare(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		order = append(order, share)
	}

	def, err := NewDefinition(name, total, maxDepth, order)
	if err != nil {
		// Re-home validation failures on the CUE source position.
		var defErr *DefinitionError
		if errors.As(err, &defErr) {
			return nil, &CompileError{Field: defErr.Field, Message: defErr.Message, Pos: v.Pos()}
		}
		return nil, err
	}
	return def, nil
}

// parseShare parses a single {body, years} entry.
func parseShare(v cue.Value, index int) (Share, error) {
	bodyVal := v.LookupPath(cue.ParsePath("body"))
	if !bodyVal.Exists() {
		return Share{}, &CompileError{
			Field:   "order",
			Message: fmt.Sprintf("order[%d]: body is required", index),
			Pos:     v.Pos(),
		}
	}
	body, err := bodyVal.String()
	if err != nil {
		return Share{}, formatCUEError(err)
	}

	yearsVal := v.LookupPath(cue.ParsePath("years"))
	if !yearsVal.Exists() {
		return Share{}, &CompileError{
			Field:   "order",
			Message: fmt.Sprintf("order[%d] (%s): years is required", index, body),
			Pos:     v.Pos(),
		}
	}
	yrs, err := rationalFromCUE(yearsVal, fmt.Sprintf("order[%d].years", index))
	if err != nil {
		return Share{}, err
	}

	return Share{Body: period.Body(body), Years: yrs}, nil
}

// rationalFromCUE reads an exact integer CUE value as a big.Rat.
// Float kinds are rejected outright.
func rationalFromCUE(v cue.Value, field string) (*big.Rat, error) {
	if v.IncompleteKind() == cue.FloatKind {
		return nil, &CompileError{
			Field:   field,
			Message: "floats are forbidden in cycle definitions; use exact integers",
			Pos:     v.Pos(),
		}
	}
	n, err := v.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return big.NewRat(n, 1), nil
}

// CompileError represents a definition compilation error with source
// position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	if positions := cueerrors.Positions(firstErr); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
