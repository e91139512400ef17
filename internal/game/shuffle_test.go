package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffle_IsPermutation(t *testing.T) {
	rng := SeededRandom(1)
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}

	out := Shuffle(rng, in)

	assert.ElementsMatch(t, in, out)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, in, "input must not be modified")
}

func TestShuffle_Empty(t *testing.T) {
	out := Shuffle(SeededRandom(1), []string{})
	assert.Empty(t, out)
}

func TestShuffle_RoughlyUniform(t *testing.T) {
	// Count how often each element lands in position 0 over many runs. With
	// 4 elements and 4000 trials each should land there ~1000 times; a biased
	// shuffle (e.g. naive swap with rng.Intn(len)) deviates far more than the
	// tolerance here.
	rng := SeededRandom(42)
	counts := map[int]int{}
	const trials = 4000
	for i := 0; i < trials; i++ {
		out := Shuffle(rng, []int{0, 1, 2, 3})
		counts[out[0]]++
	}
	for v, n := range counts {
		assert.InDelta(t, trials/4, n, trials/10, "element %d position-0 frequency", v)
	}
}

func TestRotateCyclic_PreservesAdjacency(t *testing.T) {
	rng := SeededRandom(7)
	in := []string{"a", "b", "c", "d"}

	for i := 0; i < 50; i++ {
		out := RotateCyclic(rng, in)
		require.Len(t, out, 4)

		// Find where "a" landed; the cyclic order must be unchanged.
		start := -1
		for i, v := range out {
			if v == "a" {
				start = i
				break
			}
		}
		require.NotEqual(t, -1, start)
		assert.Equal(t, "b", out[(start+1)%4])
		assert.Equal(t, "c", out[(start+2)%4])
		assert.Equal(t, "d", out[(start+3)%4])
	}
}

func TestRotateCyclic_Empty(t *testing.T) {
	out := RotateCyclic(SeededRandom(1), []int{})
	assert.Empty(t, out)
}

func TestSample_WithoutReplacement(t *testing.T) {
	rng := SeededRandom(3)
	in := []int{10, 20, 30, 40}

	out := Sample(rng, in, 2)

	require.Len(t, out, 2)
	assert.NotEqual(t, out[0], out[1])
	assert.Subset(t, in, out)
}

func TestSample_ClampsToLength(t *testing.T) {
	rng := SeededRandom(3)
	in := []int{1, 2}

	assert.Len(t, Sample(rng, in, 10), 2)
	assert.Empty(t, Sample(rng, in, 0))
	assert.Empty(t, Sample(rng, in, -1))
}
