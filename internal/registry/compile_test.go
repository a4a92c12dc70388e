package registry

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/period"
)

func compileSystem(t *testing.T, src, path string) (*CycleDefinition, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileDefinition(v.LookupPath(cue.ParsePath(path)))
}

const validSystem = `
system: shattrimshat: {
	total_years: 36
	max_depth:   3
	order: [
		{body: "Mo", years: 1},
		{body: "Su", years: 2},
		{body: "Ju", years: 3},
		{body: "Ma", years: 4},
		{body: "Me", years: 5},
		{body: "Sa", years: 6},
		{body: "Ve", years: 7},
		{body: "Ra", years: 8},
	]
}
`

func TestCompileDefinition(t *testing.T) {
	def, err := compileSystem(t, validSystem, "system.shattrimshat")
	require.NoError(t, err)

	assert.Equal(t, "shattrimshat", def.System)
	assert.Equal(t, "36", def.TotalYears.RatString())
	assert.Equal(t, 3, def.MaxDepth)
	require.Len(t, def.Order, 8)
	assert.Equal(t, period.Moon, def.Order[0].Body)
	assert.Equal(t, "8", def.Order[7].Years.RatString())
}

func TestCompileDefinition_DefaultMaxDepth(t *testing.T) {
	const src = `
system: tiny: {
	total_years: 10
	order: [
		{body: "Su", years: 4},
		{body: "Mo", years: 6},
	]
}
`
	def, err := compileSystem(t, src, "system.tiny")
	require.NoError(t, err)
	assert.Equal(t, defaultMaxDepth, def.MaxDepth)
}

func TestCompileDefinition_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		path  string
		field string
	}{
		{
			name:  "missing total_years",
			src:   `system: x: {order: [{body: "Su", years: 1}]}`,
			path:  "system.x",
			field: "total_years",
		},
		{
			name:  "missing order",
			src:   `system: x: {total_years: 10}`,
			path:  "system.x",
			field: "order",
		},
		{
			name:  "missing share body",
			src:   `system: x: {total_years: 10, order: [{years: 10}]}`,
			path:  "system.x",
			field: "order",
		},
		{
			name:  "missing share years",
			src:   `system: x: {total_years: 10, order: [{body: "Su"}]}`,
			path:  "system.x",
			field: "order",
		},
		{
			name:  "float share",
			src:   `system: x: {total_years: 10, order: [{body: "Su", years: 2.5}, {body: "Mo", years: 7.5}]}`,
			path:  "system.x",
			field: "order[0].years",
		},
		{
			name:  "shares do not sum to total",
			src:   `system: x: {total_years: 10, order: [{body: "Su", years: 4}, {body: "Mo", years: 5}]}`,
			path:  "system.x",
			field: "order",
		},
		{
			name:  "duplicate body",
			src:   `system: x: {total_years: 10, order: [{body: "Su", years: 4}, {body: "Su", years: 6}]}`,
			path:  "system.x",
			field: "order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileSystem(t, tt.src, tt.path)
			require.Error(t, err)
			compileErr, ok := err.(*CompileError)
			require.True(t, ok, "want *CompileError, got %T: %v", err, err)
			assert.Equal(t, tt.field, compileErr.Field)
		})
	}
}
