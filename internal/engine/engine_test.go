package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
	"github.com/roach88/dasha/internal/testutil"
)

func TestEngine_ComputeChildren(t *testing.T) {
	eng := New(registry.Builtin())
	parent := testutil.NewPeriod(period.Venus, testutil.Date(2000, 1, 1), "20")

	children, err := eng.ComputeChildren(parent, registry.SystemVimshottari)
	require.NoError(t, err)
	require.Len(t, children, 9)
	assert.Equal(t, period.Venus, children[0].Body)
}

func TestEngine_UnknownSystem(t *testing.T) {
	eng := New(registry.Builtin())
	parent := testutil.NewPeriod(period.Venus, testutil.Date(2000, 1, 1), "20")

	_, err := eng.ComputeChildren(parent, "tribhagi")
	require.Error(t, err)
	assert.True(t, IsUnknownSystemError(err))

	_, err = eng.ResolvePath(ResolveRequest{
		Roots:  []period.Period{parent},
		Path:   []period.Body{period.Venus},
		System: "tribhagi",
	})
	require.Error(t, err)
	assert.True(t, IsUnknownSystemError(err))
}

func TestEngine_ResolvePath_ValidatesBeforeTraversal(t *testing.T) {
	eng := New(registry.Builtin())
	roots := []period.Period{testutil.NewPeriod(period.Venus, testutil.Date(2000, 1, 1), "20")}

	// Depth 6 exceeds the maximum; the path would also dead-end at
	// level 1, but validation must win.
	_, err := eng.ResolvePath(ResolveRequest{
		Roots:  roots,
		Path:   []period.Body{period.Sun, period.Sun, period.Sun, period.Sun, period.Sun, period.Sun},
		System: registry.SystemVimshottari,
	})
	require.Error(t, err)
	assert.True(t, IsInvalidDepthError(err))
}

func TestEngine_Rotation(t *testing.T) {
	eng := New(registry.Builtin())

	got, err := eng.Rotation(registry.SystemYogini, period.Saturn)
	require.NoError(t, err)
	assert.Equal(t, []period.Body{
		period.Saturn, period.Venus, period.Rahu, period.Moon,
		period.Sun, period.Jupiter, period.Mars, period.Mercury,
	}, got)
}

// The engine is stateless: concurrent invocations over shared inputs
// must agree with a serial run.
func TestEngine_ConcurrentUse(t *testing.T) {
	eng := New(registry.Builtin())
	parent := testutil.NewPeriod(period.Venus, testutil.Date(2000, 1, 1), "20")

	serial, err := eng.ComputeChildren(parent, registry.SystemVimshottari)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]period.Period, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			children, err := eng.ComputeChildren(parent, registry.SystemVimshottari)
			assert.NoError(t, err)
			results[i] = children
		}(i)
	}
	wg.Wait()

	for _, children := range results {
		require.Len(t, children, len(serial))
		for j := range children {
			assert.Equal(t, serial[j].Body, children[j].Body)
			assert.True(t, serial[j].Start.Equal(children[j].Start))
			assert.True(t, serial[j].End.Equal(children[j].End))
		}
	}
}
