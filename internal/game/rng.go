package game

import "math/rand"

// RandomSource is the randomness capability the deal engine draws from. Most
// of the time it is the platform RNG; the peer-replicated variant injects a
// seed-derived source so every peer recomputes the identical deck.
type RandomSource interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n). Panics if n <= 0.
	Intn(n int) int
}

type platformSource struct{}

func (platformSource) Float64() float64 { return rand.Float64() }
func (platformSource) Intn(n int) int   { return rand.Intn(n) }

// PlatformRandom returns a RandomSource backed by the global math/rand
// generator.
func PlatformRandom() RandomSource {
	return platformSource{}
}

// SeededRandom returns a deterministic RandomSource. Two sources built from
// the same seed produce identical streams.
func SeededRandom(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}
