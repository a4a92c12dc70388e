package harness

import (
	"fmt"

	"github.com/roach88/dasha/internal/engine"
	"github.com/roach88/dasha/internal/period"
)

// checkError evaluates an expectation against a failed step.
func checkError(expect *Expect, code string, seq int) []string {
	if expect == nil {
		return []string{fmt.Sprintf("step %d: unexpected error %s", seq, code)}
	}
	if expect.Error == "" {
		return []string{fmt.Sprintf("step %d: unexpected error %s", seq, code)}
	}
	if expect.Error != code {
		return []string{fmt.Sprintf("step %d: expected error %s, got %s", seq, expect.Error, code)}
	}
	return nil
}

// checkChildren evaluates an expectation against a compute step's
// children.
func checkChildren(expect *Expect, children []period.Period, seq int) []string {
	if expect == nil {
		return nil
	}
	var failures []string
	if expect.Error != "" {
		failures = append(failures, fmt.Sprintf("step %d: expected error %s, step succeeded", seq, expect.Error))
	}
	failures = append(failures, checkBodies(expect.Bodies, children, seq)...)
	return failures
}

// checkResolution evaluates an expectation against a resolve step's
// resolution.
func checkResolution(expect *Expect, res *engine.Resolution, seq int) []string {
	if expect == nil {
		return nil
	}
	var failures []string
	if expect.Error != "" {
		failures = append(failures, fmt.Sprintf("step %d: expected error %s, step succeeded", seq, expect.Error))
	}
	if expect.Source != "" && expect.Source != string(res.Source) {
		failures = append(failures, fmt.Sprintf("step %d: expected source %s, got %s", seq, expect.Source, res.Source))
	}
	if expect.Body != "" && expect.Body != string(res.Period.Body) {
		failures = append(failures, fmt.Sprintf("step %d: expected terminal body %s, got %s", seq, expect.Body, res.Period.Body))
	}
	if expect.Years != "" && expect.Years != res.Period.YearsString() {
		failures = append(failures, fmt.Sprintf("step %d: expected terminal years %s, got %s", seq, expect.Years, res.Period.YearsString()))
	}
	if len(expect.Sources) > 0 {
		if len(expect.Sources) != len(res.Ancestry) {
			failures = append(failures, fmt.Sprintf("step %d: expected %d ancestry levels, got %d", seq, len(expect.Sources), len(res.Ancestry)))
		} else {
			for i, want := range expect.Sources {
				if want != string(res.Ancestry[i].Source) {
					failures = append(failures, fmt.Sprintf("step %d: level %d expected source %s, got %s", seq, i+1, want, res.Ancestry[i].Source))
				}
			}
		}
	}
	failures = append(failures, checkBodies(expect.Bodies, res.Children, seq)...)
	return failures
}

// checkBodies compares an expected child body order against a child list.
func checkBodies(want []string, children []period.Period, seq int) []string {
	if len(want) == 0 {
		return nil
	}
	if len(want) != len(children) {
		return []string{fmt.Sprintf("step %d: expected %d children, got %d", seq, len(want), len(children))}
	}
	var failures []string
	for i, b := range want {
		if b != string(children[i].Body) {
			failures = append(failures, fmt.Sprintf("step %d: child %d expected body %s, got %s", seq, i, b, children[i].Body))
		}
	}
	return failures
}
