package engine

import (
	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

// Step is one resolved level of a selection path, with the source that
// supplied its data.
type Step struct {
	Period period.Period
	Source period.Source
}

// Resolution is the result of resolving a selection path: the terminal
// period, where its data came from, and the full ancestry chain from
// the first level down to (and including) the terminal one.
//
// When terminal children were requested, Children carries the flat
// next-level list and ChildrenSource its origin.
type Resolution struct {
	Period         period.Period
	Source         period.Source
	Ancestry       []Step
	Children       []period.Period
	ChildrenSource period.Source
}

// ResolvePath walks a selection path against a root period tree,
// descending through externally supplied children as far as they exist
// and synthesizing the remaining levels by local subdivision.
//
// The traversal is monotonic: once a level falls back to local
// computation, deeper levels never probe the external tree again (the
// external tree, by construction, has no data below the point where it
// first ran out). A body missing from the current level's node set is a
// path-not-found error - the requested chain does not exist even as
// boundaries - never a fallback case.
//
// When withChildren is set, the terminal period's next-level list is
// returned as well: the externally supplied children when traversal is
// still on external data and the terminal node carries them, otherwise
// one further local subdivision.
//
// Callers are expected to have run ValidatePath first; ResolvePath
// assumes the path is non-empty and depth-checked.
func ResolvePath(roots []period.Period, path []period.Body, def *registry.CycleDefinition, withChildren bool) (*Resolution, error) {
	current := roots
	source := period.SourceExternal
	computing := false

	steps := make([]Step, 0, len(path))
	var resolved period.Period

	for level, want := range path {
		idx := matchBody(current, want)
		if idx < 0 {
			return nil, &ComputeError{
				Code:    ErrCodePathNotFound,
				Message: "no period for body at this level",
				System:  def.System,
				Body:    want,
				Level:   level + 1,
			}
		}
		resolved = current[idx]
		steps = append(steps, Step{Period: resolved, Source: source})

		if level == len(path)-1 {
			break
		}

		// Descend. Prefer supplied children while still on external
		// data; switch to local subdivision the first time a node has
		// none, and stay there.
		if !computing {
			if kids, ok := resolved.Children.(period.External); ok && len(kids) > 0 {
				current = kids
				continue
			}
			computing = true
			source = period.SourceComputed
		}
		kids, err := Subdivide(resolved, def)
		if err != nil {
			return nil, err
		}
		current = kids
	}

	res := &Resolution{
		Period:   resolved,
		Source:   steps[len(steps)-1].Source,
		Ancestry: steps,
	}

	if withChildren {
		if kids, ok := resolved.Children.(period.External); !computing && ok && len(kids) > 0 {
			res.Children = kids
			res.ChildrenSource = period.SourceExternal
		} else {
			kids, err := Subdivide(resolved, def)
			if err != nil {
				return nil, err
			}
			res.Children = kids
			res.ChildrenSource = period.SourceComputed
		}
	}
	return res, nil
}

// matchBody returns the index of the period whose body matches want,
// or -1 if the node set has none.
func matchBody(periods []period.Period, want period.Body) int {
	for i, p := range periods {
		if p.Body == want {
			return i
		}
	}
	return -1
}
