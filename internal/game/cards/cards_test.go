package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	pool := Pool()

	// A two-player game needs 16 sets; the shipped pool covers a full table.
	require.GreaterOrEqual(t, len(pool), 16)
	for i, set := range pool {
		assert.Len(t, set, 4, "set %d", i)
		for j, word := range set {
			assert.NotEmpty(t, word, "set %d word %d", i, j)
		}
	}
}

func TestParse(t *testing.T) {
	pool, err := Parse([]byte(`[["a","b","c","d"],["e","f","g","h"]]`))
	require.NoError(t, err)
	assert.Len(t, pool, 2)
}

func TestParse_RejectsWrongArity(t *testing.T) {
	_, err := Parse([]byte(`[["a","b","c"]]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}
