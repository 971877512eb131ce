package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceBounds(t *testing.T) {
	tests := []struct {
		name      string
		min, max  string
		wantMin   string
		wantMax   string // "" means unbounded
	}{
		{"unset", "", "", "0", ""},
		{"both set", "2.5", "10", "2.5", "10"},
		{"unparsable min", "abc", "10", "0", "10"},
		{"unparsable max", "1", "lots", "1", ""},
		{"zero max is unbounded", "0", "0", "0", ""},
		{"whitespace", " 3 ", " 4.75 ", "3", "4.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := ParsePriceBounds(tt.min, tt.max)
			assert.Equal(t, tt.wantMin, min.String())
			if tt.wantMax == "" {
				assert.False(t, max.Valid)
				return
			}
			require.True(t, max.Valid)
			assert.Equal(t, tt.wantMax, max.Decimal.String())
		})
	}
}

func TestParseSortMode(t *testing.T) {
	for _, m := range SortModes {
		got, err := ParseSortMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortDefault, got)

	_, err = ParseSortMode("popularity")
	assert.ErrorContains(t, err, "popularity")
}
