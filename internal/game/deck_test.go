package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(n int) [][]string {
	pool := make([][]string, n)
	for i := range pool {
		pool[i] = []string{"a", "b", "c", "d"}
	}
	return pool
}

func TestDrawStateless(t *testing.T) {
	rng := SeededRandom(1)
	pool := testPool(48)

	sets := drawStateless(rng, pool, 16)
	assert.Len(t, sets, 16)

	sets = drawStateless(rng, pool, 100)
	assert.Len(t, sets, 48, "clamped to pool size")
}

func TestDrawTracked_RecordsIndices(t *testing.T) {
	rng := SeededRandom(1)
	pool := testPool(48)

	sets, deck := drawTracked(rng, pool, nil, 16)

	require.Len(t, sets, 16)
	require.NotNil(t, deck)
	assert.Len(t, deck.UsedTileIndices, 16)
	assert.Equal(t, 48, deck.TotalTiles)
}

func TestDrawTracked_AvoidsUsedIndices(t *testing.T) {
	rng := SeededRandom(2)
	pool := testPool(48)

	_, first := drawTracked(rng, pool, nil, 16)
	_, second := drawTracked(rng, pool, first, 16)

	require.Len(t, second.UsedTileIndices, 32)
	seen := map[int]bool{}
	for _, i := range second.UsedTileIndices {
		assert.False(t, seen[i], "index %d drawn twice before exhaustion", i)
		seen[i] = true
	}
}

func TestDrawTracked_ResetsOnExhaustion(t *testing.T) {
	rng := SeededRandom(3)
	pool := testPool(48)

	// 40 of 48 used: only 8 remain, so a 16-set draw must start a fresh
	// cycle and record only the new indices.
	prev := &DeckState{TotalTiles: 48}
	for i := 0; i < 40; i++ {
		prev.UsedTileIndices = append(prev.UsedTileIndices, i)
	}

	sets, next := drawTracked(rng, pool, prev, 16)

	require.Len(t, sets, 16)
	assert.Len(t, next.UsedTileIndices, 16)
	assert.Equal(t, 48, next.TotalTiles)
}

func TestDrawTracked_IgnoresStaleState(t *testing.T) {
	rng := SeededRandom(4)
	pool := testPool(48)

	// State recorded against a differently sized pool is discarded.
	stale := &DeckState{UsedTileIndices: []int{0, 1, 2}, TotalTiles: 30}
	_, next := drawTracked(rng, pool, stale, 8)

	assert.Len(t, next.UsedTileIndices, 8)
	assert.Equal(t, 48, next.TotalTiles)
}

func TestDealOut_SplitsCluedAndDistractors(t *testing.T) {
	rng := SeededRandom(5)
	sets := make([][]string, 16)
	for i := range sets {
		sets[i] = []string{"w0", "w1", "w2", "w3"}
	}

	out := dealOut(rng, sets, []string{"alice", "bob"})

	require.Len(t, out, 2)
	for name, a := range out {
		assert.Len(t, a.clued, 4, "player %s", name)
		assert.Len(t, a.distractors, 4, "player %s", name)
		for _, set := range a.clued {
			// Clued sets get a cyclic rotation, so word content survives.
			assert.ElementsMatch(t, []string{"w0", "w1", "w2", "w3"}, set)
		}
	}
}

func TestDealOut_ShortDeal(t *testing.T) {
	rng := SeededRandom(6)
	out := dealOut(rng, testPool(8), []string{"alice", "bob"})

	// Only the first player can be served from 8 sets.
	assert.Len(t, out, 1)
}
