package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/period"
)

func TestValidatePath(t *testing.T) {
	def := vimshottariDef(t)

	tests := []struct {
		name    string
		path    []period.Body
		wantErr func(error) bool
	}{
		{
			name: "single level",
			path: []period.Body{period.Venus},
		},
		{
			name: "maximum depth",
			path: []period.Body{period.Venus, period.Sun, period.Moon, period.Mars, period.Rahu},
		},
		{
			name:    "empty path",
			path:    nil,
			wantErr: IsInvalidDepthError,
		},
		{
			name:    "exceeds maximum depth",
			path:    []period.Body{period.Venus, period.Sun, period.Moon, period.Mars, period.Rahu, period.Jupiter},
			wantErr: IsInvalidDepthError,
		},
		{
			name:    "unknown body mid-path",
			path:    []period.Body{period.Venus, period.Body("Xx"), period.Moon},
			wantErr: IsUnknownBodyError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path, def)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, tt.wantErr(err))
		})
	}
}

func TestValidatePath_ReportsLevel(t *testing.T) {
	def := vimshottariDef(t)

	err := ValidatePath([]period.Body{period.Venus, period.Venus, period.Body("Xx")}, def)
	require.Error(t, err)

	ce, ok := err.(*ComputeError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUnknownBody, ce.Code)
	assert.Equal(t, period.Body("Xx"), ce.Body)
	assert.Equal(t, 3, ce.Level)
}
