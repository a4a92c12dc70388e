package harness

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

// TestScenarios runs every scenario in testdata/scenarios against the
// engine and compares the recorded traces with their golden files.
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarioDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Passed(), "failures: %v", result.Failures)
		})
	}
}

func TestRunRecordsExpectationFailure(t *testing.T) {
	s := &Scenario{
		Name:   "wrong-body",
		System: "vimshottari",
		Steps: []Step{
			{
				Compute: &ComputeStep{Body: "Ve", Start: "2000-01-01T00:00:00Z", Years: "20"},
				Expect:  &Expect{Bodies: []string{"Su"}},
			},
		},
	}

	result, err := New().Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "expected 1 children, got 9")
}

func TestRunUnexpectedError(t *testing.T) {
	s := &Scenario{
		Name:   "surprise",
		System: "vimshottari",
		Steps: []Step{
			{Compute: &ComputeStep{Body: "Xx", Start: "2000-01-01T00:00:00Z", Years: "20"}},
		},
	}

	result, err := New().Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	assert.Contains(t, result.Failures[0], "unexpected error UNKNOWN_BODY")
	require.Len(t, result.Trace, 1)
	assert.Equal(t, "UNKNOWN_BODY", result.Trace[0].Error)
}

func TestRunExpectedErrorMismatch(t *testing.T) {
	s := &Scenario{
		Name:   "wrong-code",
		System: "vimshottari",
		Steps: []Step{
			{
				Compute: &ComputeStep{Body: "Xx", Start: "2000-01-01T00:00:00Z", Years: "20"},
				Expect:  &Expect{Error: "DEGENERATE_PERIOD"},
			},
		},
	}

	result, err := New().Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	assert.Contains(t, result.Failures[0], "expected error DEGENERATE_PERIOD, got UNKNOWN_BODY")
}

func TestRunUnknownSystem(t *testing.T) {
	s := &Scenario{
		Name:   "no-such-system",
		System: "nope",
		Steps: []Step{
			{
				Compute: &ComputeStep{Body: "Ve", Start: "2000-01-01T00:00:00Z", Years: "20"},
				Expect:  &Expect{Error: "UNKNOWN_SYSTEM"},
			},
		},
	}

	result, err := New().Run(s)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)
}

func TestRunBadTree(t *testing.T) {
	s := &Scenario{
		Name:   "bad-tree",
		System: "vimshottari",
		Tree: []period.TreeNode{
			{Body: "Ve", Start: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), Years: "banana"},
		},
		Steps: []Step{
			{Resolve: []string{"Ve"}},
		},
	}
	_, err := New().Run(s)
	require.Error(t, err)
}

func TestWithRegistry(t *testing.T) {
	def, err := registry.NewDefinition("tiny", big.NewRat(3, 1), 2, []registry.Share{
		{Body: "Su", Years: big.NewRat(1, 1)},
		{Body: "Mo", Years: big.NewRat(2, 1)},
	})
	require.NoError(t, err)

	reg := registry.Builtin()
	require.NoError(t, reg.Register(def))

	s := &Scenario{
		Name:   "custom",
		System: "tiny",
		Steps: []Step{
			{
				Compute: &ComputeStep{Body: "Mo", Start: "2000-01-01T00:00:00Z", Years: "3"},
				Expect:  &Expect{Bodies: []string{"Mo", "Su"}},
			},
		},
	}

	result, err := New(WithRegistry(reg)).Run(s)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)
}
