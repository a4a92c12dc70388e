package registry

import (
	"errors"
	"fmt"
	"sort"
)

// Registry is a read-only lookup from system identifier to cycle
// definition. Construct it once at startup (built-ins plus any compiled
// custom definitions); afterwards it is safe for concurrent readers.
type Registry struct {
	defs map[string]*CycleDefinition
}

// Builtin returns a registry holding only the compiled-in systems.
func Builtin() *Registry {
	r := &Registry{defs: make(map[string]*CycleDefinition, len(builtins))}
	for _, d := range builtins {
		r.defs[d.System] = d
	}
	return r
}

// Get looks up a cycle definition by system identifier.
// Returns *UnknownSystemError for an unrecognized identifier.
func (r *Registry) Get(system string) (*CycleDefinition, error) {
	def, ok := r.defs[system]
	if !ok {
		return nil, &UnknownSystemError{System: system}
	}
	return def, nil
}

// Register adds a definition to the registry. Registration happens
// during startup, before the registry is shared; re-registering an
// existing system is an error rather than a silent override.
func (r *Registry) Register(def *CycleDefinition) error {
	if _, exists := r.defs[def.System]; exists {
		return &DefinitionError{System: def.System, Field: "system", Message: "system already registered"}
	}
	r.defs[def.System] = def
	return nil
}

// Systems returns the registered system identifiers, sorted.
func (r *Registry) Systems() []string {
	out := make([]string, 0, len(r.defs))
	for s := range r.defs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// UnknownSystemError reports a lookup for a system identifier not
// present in the registry. Always a caller/config bug, never retried.
type UnknownSystemError struct {
	System string
}

func (e *UnknownSystemError) Error() string {
	return fmt.Sprintf("UNKNOWN_SYSTEM: no cycle definition for system %q", e.System)
}

// IsUnknownSystem reports whether err is (or wraps) an UnknownSystemError.
func IsUnknownSystem(err error) bool {
	var e *UnknownSystemError
	return errors.As(err, &e)
}

// DefinitionError reports an invalid cycle definition, naming the field
// that failed validation.
type DefinitionError struct {
	System  string
	Field   string
	Message string
}

func (e *DefinitionError) Error() string {
	if e.System != "" {
		return fmt.Sprintf("invalid definition %q: %s: %s", e.System, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid definition: %s: %s", e.Field, e.Message)
}
