package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/engine"
	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
	"github.com/roach88/dasha/internal/testutil"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "memo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func testKey(parent period.Period) Key {
	return Key{
		System: registry.SystemVimshottari,
		Body:   parent.Body,
		Start:  parent.Start,
		Years:  parent.Years,
	}
}

func TestCache_MissThenHit(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	parent := testutil.NewPeriod(period.Venus, testutil.Date(2000, 1, 1), "20")
	key := testKey(parent)

	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	def, err := registry.Builtin().Get(registry.SystemVimshottari)
	require.NoError(t, err)
	children, err := engine.Subdivide(parent, def)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, key, children))

	got, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, len(children))

	// The round trip is exact: bodies, instants, and rational years.
	for i := range children {
		assert.Equal(t, children[i].Body, got[i].Body)
		assert.True(t, children[i].Start.Equal(got[i].Start), "child %d start", i)
		assert.True(t, children[i].End.Equal(got[i].End), "child %d end", i)
		assert.Zero(t, children[i].Years.Cmp(got[i].Years), "child %d years", i)
	}
}

func TestCache_PutIsIdempotent(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	parent := testutil.NewPeriod(period.Sun, testutil.Date(2010, 6, 1), "6")
	key := testKey(parent)
	children := []period.Period{testutil.NewPeriod(period.Sun, parent.Start, "1")}

	require.NoError(t, c.Put(ctx, key, children))
	// Second write with the same key is silently ignored (first wins).
	require.NoError(t, c.Put(ctx, key, children))

	got, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, got, 1)
}

// Duration is part of the key in exact rational form: same instants,
// different rational years memoize separately.
func TestCache_YearsDistinguishKeys(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	start := testutil.Date(2000, 1, 1)
	keyA := Key{System: "vimshottari", Body: period.Venus, Start: start, Years: testutil.MustRat("20")}
	keyB := Key{System: "vimshottari", Body: period.Venus, Start: start, Years: testutil.MustRat("10/3")}

	require.NoError(t, c.Put(ctx, keyA, []period.Period{testutil.NewPeriod(period.Venus, start, "10/3")}))

	_, hit, err := c.Get(ctx, keyB)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_SystemDistinguishesKeys(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	parent := testutil.NewPeriod(period.Venus, testutil.Date(2000, 1, 1), "20")
	keyVim := testKey(parent)
	keyYog := keyVim
	keyYog.System = registry.SystemYogini

	require.NoError(t, c.Put(ctx, keyVim, []period.Period{parent}))

	_, hit, err := c.Get(ctx, keyYog)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memo.db")
	ctx := context.Background()

	parent := testutil.NewPeriod(period.Moon, testutil.Date(2005, 5, 5), "10")
	key := testKey(parent)

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, key, []period.Period{parent}))
	require.NoError(t, c.Close())

	// Rows survive reopen; schema application is idempotent.
	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
}
