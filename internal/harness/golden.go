package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/dasha/internal/period"
)

// RunWithGolden executes a scenario and compares its trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// The trace is serialized as canonical JSON, so golden comparison is
// byte-exact and deterministic. To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := New().Run(scenario)
	if err != nil {
		return nil, err
	}

	traceJSON, err := marshalTrace(scenario, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return result, nil
}

// marshalTrace produces the canonical JSON form of a scenario trace.
func marshalTrace(scenario *Scenario, result *Result) ([]byte, error) {
	events := make([]any, len(result.Trace))
	for i, e := range result.Trace {
		events[i] = traceEventMap(e)
	}
	return period.MarshalCanonical(map[string]any{
		"scenario": scenario.Name,
		"system":   scenario.System,
		"trace":    events,
	})
}

func traceEventMap(e TraceEvent) map[string]any {
	m := map[string]any{
		"seq": e.Seq,
		"op":  e.Op,
	}
	if len(e.Path) > 0 {
		path := make([]any, len(e.Path))
		for i, b := range e.Path {
			path[i] = b
		}
		m["path"] = path
	}
	if e.Source != "" {
		m["source"] = e.Source
	}
	if e.Error != "" {
		m["error"] = e.Error
	}
	if len(e.Ancestry) > 0 {
		m["ancestry"] = tracePeriodList(e.Ancestry)
	}
	if len(e.Children) > 0 {
		m["children"] = tracePeriodList(e.Children)
	}
	return m
}

func tracePeriodList(list []TracePeriod) []any {
	out := make([]any, len(list))
	for i, p := range list {
		m := map[string]any{
			"body":  p.Body,
			"start": p.Start,
			"end":   p.End,
			"years": p.Years,
		}
		if p.Source != "" {
			m["source"] = p.Source
		}
		out[i] = m
	}
	return out
}
