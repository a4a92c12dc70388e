package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dasha/internal/period"
)

// Scenario defines a conformance test scenario: a period system, an
// optional externally-supplied tree, and a sequence of engine
// operations with expected outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// System is the period system the steps run against.
	System string `yaml:"system"`

	// Tree is the externally supplied period tree, if the scenario
	// exercises traversal. Same node shape as tree input files.
	Tree []period.TreeNode `yaml:"tree,omitempty"`

	// Steps are the operations to execute, in order.
	Steps []Step `yaml:"steps"`
}

// Step is one engine operation within a scenario.
// Exactly one of Resolve or Compute must be set.
type Step struct {
	// Resolve names a selection path to resolve against the tree.
	Resolve []string `yaml:"resolve,omitempty"`

	// Compute names a parent period to subdivide one level.
	Compute *ComputeStep `yaml:"compute,omitempty"`

	// Children requests the terminal period's next-level list
	// (resolve steps only).
	Children bool `yaml:"children,omitempty"`

	// Expect specifies the expected outcome. If nil, the step is only
	// required to succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// ComputeStep describes a parent period to subdivide.
type ComputeStep struct {
	Body  string `yaml:"body"`
	Start string `yaml:"start"`
	Years string `yaml:"years"`
}

// Expect specifies the expected outcome of a step. Unset fields are not
// checked.
type Expect struct {
	// Error is the expected error code (e.g. "PATH_NOT_FOUND"). When
	// set, the step must fail with that code and no other field applies.
	Error string `yaml:"error,omitempty"`

	// Source is the expected terminal source ("external" | "computed").
	Source string `yaml:"source,omitempty"`

	// Sources are the expected per-level sources of the ancestry chain.
	Sources []string `yaml:"sources,omitempty"`

	// Body is the expected terminal body.
	Body string `yaml:"body,omitempty"`

	// Years is the expected terminal duration, exact rational.
	Years string `yaml:"years,omitempty"`

	// Bodies is the expected child body order (compute steps and
	// resolve steps with children).
	Bodies []string `yaml:"bodies,omitempty"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadScenarioDir loads all *.yaml scenarios from a directory, sorted
// by filename.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validate checks structural requirements before execution.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.System == "" {
		return fmt.Errorf("scenario system is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	for i, step := range s.Steps {
		hasResolve := len(step.Resolve) > 0
		hasCompute := step.Compute != nil
		if hasResolve == hasCompute {
			return fmt.Errorf("step %d: exactly one of resolve or compute is required", i)
		}
	}
	return nil
}
