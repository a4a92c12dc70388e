package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/period"
	"github.com/roach88/dasha/internal/registry"
)

func TestRotate_StartsAtBody(t *testing.T) {
	def := vimshottariDef(t)

	tests := []struct {
		start period.Body
		want  []period.Body
	}{
		{
			start: period.Ketu, // canonical first body: identity rotation
			want: []period.Body{period.Ketu, period.Venus, period.Sun, period.Moon,
				period.Mars, period.Rahu, period.Jupiter, period.Saturn, period.Mercury},
		},
		{
			start: period.Venus,
			want: []period.Body{period.Venus, period.Sun, period.Moon, period.Mars,
				period.Rahu, period.Jupiter, period.Saturn, period.Mercury, period.Ketu},
		},
		{
			start: period.Mercury, // canonical last body: full wrap
			want: []period.Body{period.Mercury, period.Ketu, period.Venus, period.Sun,
				period.Moon, period.Mars, period.Rahu, period.Jupiter, period.Saturn},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.start), func(t *testing.T) {
			got, err := Rotate(def, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRotate_UnknownBody(t *testing.T) {
	def := vimshottariDef(t)

	_, err := Rotate(def, period.Body("Pluto"))
	require.Error(t, err)
	assert.True(t, IsUnknownBodyError(err))
}

func TestRotation_NoAllocationView(t *testing.T) {
	def := vimshottariDef(t)

	rot, err := newRotation(def, period.Sun)
	require.NoError(t, err)
	require.Equal(t, len(def.Order), rot.Len())

	// The view wraps modulo the order length.
	assert.Equal(t, period.Sun, rot.At(0).Body)
	assert.Equal(t, period.Venus, rot.At(rot.Len()-1).Body, "wraps to the body preceding the start")
}

func TestRotate_EveryBodyOfEverySystem(t *testing.T) {
	reg := registry.Builtin()
	for _, system := range reg.Systems() {
		def, err := reg.Get(system)
		require.NoError(t, err)

		for _, share := range def.Order {
			got, err := Rotate(def, share.Body)
			require.NoError(t, err, "%s/%s", system, share.Body)
			require.Len(t, got, len(def.Order))
			assert.Equal(t, share.Body, got[0], "%s rotation starts at %s", system, share.Body)
		}
	}
}
