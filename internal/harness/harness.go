// Package harness provides a conformance testing framework for the
// dasha engine.
//
// Scenarios are YAML files naming a period system, an optional
// externally supplied tree, and a sequence of resolve/compute steps
// with expected outcomes. The harness executes every step against the
// real engine, evaluates the expectations, and records a deterministic
// trace of each step's result for golden-file comparison.
package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/dasha/internal/engine"
	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

// Harness executes scenarios against an engine instance.
type Harness struct {
	eng    *engine.Engine
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the diagnostic logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithRegistry replaces the default built-in registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(h *Harness) { h.eng = engine.New(reg) }
}

// New creates a harness over the built-in registry.
func New(opts ...Option) *Harness {
	h := &Harness{
		eng:    engine.New(registry.Builtin()),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Result is the outcome of running one scenario.
type Result struct {
	// Trace records each step's deterministic outcome, in order.
	Trace []TraceEvent

	// Failures lists expectation violations. Empty means the scenario
	// passed.
	Failures []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// TraceEvent is the recorded outcome of one step.
type TraceEvent struct {
	Seq      int
	Op       string // "resolve" | "compute"
	Path     []string
	Source   string
	Ancestry []TracePeriod
	Children []TracePeriod
	Error    string // compute error code, if the step failed
}

// TracePeriod is the canonical record of one period in a trace.
type TracePeriod struct {
	Body   string
	Start  string
	End    string
	Years  string
	Source string // set for ancestry entries only
}

// Run executes a scenario and returns its result. Execution errors that
// a step expected are recorded in the trace, not returned; only
// scenario-level problems (bad tree, malformed step) surface as errors.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	roots, err := period.FromNodes(scenario.Tree)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := &Result{}
	for i, step := range scenario.Steps {
		h.logger.Info("running step", "scenario", scenario.Name, "seq", i+1)
		event, failures := h.runStep(scenario, roots, step, i+1)
		result.Trace = append(result.Trace, event)
		result.Failures = append(result.Failures, failures...)
	}
	return result, nil
}

func (h *Harness) runStep(scenario *Scenario, roots []period.Period, step Step, seq int) (TraceEvent, []string) {
	if step.Compute != nil {
		return h.runCompute(scenario, step, seq)
	}
	return h.runResolve(scenario, roots, step, seq)
}

func (h *Harness) runCompute(scenario *Scenario, step Step, seq int) (TraceEvent, []string) {
	event := TraceEvent{Seq: seq, Op: "compute"}

	parent, err := computeParent(step.Compute)
	if err != nil {
		event.Error = "E001"
		return event, []string{fmt.Sprintf("step %d: %v", seq, err)}
	}

	children, err := h.eng.ComputeChildren(parent, scenario.System)
	if err != nil {
		event.Error = errorCode(err)
		return event, checkError(step.Expect, event.Error, seq)
	}

	for _, c := range children {
		event.Children = append(event.Children, tracePeriod(c, ""))
	}
	event.Source = string(period.SourceComputed)
	return event, checkChildren(step.Expect, children, seq)
}

func (h *Harness) runResolve(scenario *Scenario, roots []period.Period, step Step, seq int) (TraceEvent, []string) {
	event := TraceEvent{Seq: seq, Op: "resolve", Path: step.Resolve}

	path := make([]period.Body, len(step.Resolve))
	for i, b := range step.Resolve {
		path[i] = period.Body(b)
	}

	res, err := h.eng.ResolvePath(engine.ResolveRequest{
		Roots:        roots,
		Path:         path,
		System:       scenario.System,
		WithChildren: step.Children,
	})
	if err != nil {
		event.Error = errorCode(err)
		return event, checkError(step.Expect, event.Error, seq)
	}

	event.Source = string(res.Source)
	for _, s := range res.Ancestry {
		event.Ancestry = append(event.Ancestry, tracePeriod(s.Period, string(s.Source)))
	}
	for _, c := range res.Children {
		event.Children = append(event.Children, tracePeriod(c, ""))
	}
	return event, checkResolution(step.Expect, res, seq)
}

// computeParent builds the parent period of a compute step.
func computeParent(cs *ComputeStep) (period.Period, error) {
	start, err := time.Parse(time.RFC3339, cs.Start)
	if err != nil {
		return period.Period{}, fmt.Errorf("invalid start %q: %w", cs.Start, err)
	}
	years, err := period.ParseYears(cs.Years)
	if err != nil {
		return period.Period{}, err
	}
	p := period.Period{
		Body:     period.Body(cs.Body),
		Start:    start.UTC(),
		Years:    years,
		Children: period.NoChildren{},
	}
	p.End = period.AddYears(p.Start, years)
	return p, nil
}

func tracePeriod(p period.Period, source string) TracePeriod {
	return TracePeriod{
		Body:   string(p.Body),
		Start:  period.CanonicalInstant(p.Start),
		End:    period.CanonicalInstant(p.End),
		Years:  p.YearsString(),
		Source: source,
	}
}

// errorCode maps an engine error to its stable trace code.
func errorCode(err error) string {
	switch {
	case engine.IsUnknownSystemError(err):
		return "UNKNOWN_SYSTEM"
	case engine.IsUnknownBodyError(err):
		return string(engine.ErrCodeUnknownBody)
	case engine.IsDegeneratePeriodError(err):
		return string(engine.ErrCodeDegeneratePeriod)
	case engine.IsInvalidDepthError(err):
		return string(engine.ErrCodeInvalidDepth)
	case engine.IsPathNotFoundError(err):
		return string(engine.ErrCodePathNotFound)
	default:
		return "E001"
	}
}
