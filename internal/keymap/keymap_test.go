package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseKeyIdempotent(t *testing.T) {
	// Every character we know about, shifted or not.
	var all []rune
	for base := range adjacency {
		all = append(all, base)
	}
	for shifted := range shiftToBase {
		all = append(all, shifted)
	}

	for _, c := range all {
		base := BaseKey(c)
		assert.Equal(t, base, BaseKey(base), "BaseKey not idempotent for %q", c)
	}
}

func TestShiftSetConsistent(t *testing.T) {
	tests := []struct {
		shifted rune
		base    rune
	}{
		{'A', 'a'},
		{'Z', 'z'},
		{'!', '1'},
		{'@', '2'},
		{'~', '`'},
		{'"', '\''},
		{'?', '/'},
		{'_', '-'},
	}

	for _, tt := range tests {
		assert.True(t, RequiresShift(tt.shifted), "RequiresShift(%q)", tt.shifted)
		assert.Equal(t, tt.base, BaseKey(tt.shifted), "BaseKey(%q)", tt.shifted)
	}

	for _, c := range "abcxyz0159`-=[]\\;',./ \n\t" {
		assert.False(t, RequiresShift(c), "RequiresShift(%q)", c)
	}
}

func TestAdjacentKeysFixedOrder(t *testing.T) {
	assert.Equal(t, []rune{'3', '4', 'w', 'r', 's', 'd'}, AdjacentKeys('e'))
	assert.Equal(t, []rune{'q', 'w', 's', 'z'}, AdjacentKeys('a'))
	assert.Equal(t, []rune{'4', '6', 'r', 't'}, AdjacentKeys('5'))
	assert.Equal(t, []rune{'j', 'k', 'l', 'm', '.'}, AdjacentKeys(','))
	assert.Equal(t, []rune{'l', ';', '.'}, AdjacentKeys('/'))
}

func TestAdjacentKeysShiftTransform(t *testing.T) {
	lower := AdjacentKeys('e')
	upper := AdjacentKeys('E')
	require.Len(t, upper, len(lower))

	// Element-wise shift transform of the base neighbors.
	assert.Equal(t, []rune{'#', '$', 'W', 'R', 'S', 'D'}, upper)

	// Shifted symbol input yields shifted neighbors too.
	assert.Equal(t, []rune{'~', '@', 'Q'}, AdjacentKeys('!'))
}

func TestAdjacentKeysShiftedNeighborsRequireShift(t *testing.T) {
	for _, n := range AdjacentKeys('E') {
		assert.True(t, RequiresShift(n), "neighbor %q of 'E' should be shifted", n)
	}
}

func TestAdjacentKeysUnknownChar(t *testing.T) {
	assert.Empty(t, AdjacentKeys(' '))
	assert.Empty(t, AdjacentKeys('\n'))
	assert.Empty(t, AdjacentKeys('é'))
}

func TestAdjacencyCoversFullCharset(t *testing.T) {
	// Every printable base key on the main block has an entry, and every
	// neighbor is itself a known base key (the graph is closed).
	for base, neighbors := range adjacency {
		require.NotEmpty(t, neighbors, "key %q has no neighbors", base)
		for _, n := range neighbors {
			_, ok := adjacency[n]
			assert.True(t, ok, "neighbor %q of %q is not a mapped key", n, base)
		}
	}
}
