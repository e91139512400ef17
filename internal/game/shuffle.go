package game

// Shuffle returns a uniform random permutation of s without modifying it.
// Fisher-Yates from the last element down to the second, swapping each with
// a uniformly chosen element at or before its own position, so every
// permutation is equally likely.
func Shuffle[T any](rng RandomSource, s []T) []T {
	out := append(make([]T, 0, len(s)), s...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// RotateCyclic returns s cyclically shifted by a uniformly random cut point
// in [0, len(s)). Adjacency is preserved: element i stays next to element
// i+1 mod len(s). Used to randomize which of a tile's four labels initially
// faces which board edge.
func RotateCyclic[T any](rng RandomSource, s []T) []T {
	if len(s) == 0 {
		return append(make([]T, 0), s...)
	}
	cut := rng.Intn(len(s))
	out := make([]T, 0, len(s))
	out = append(out, s[cut:]...)
	return append(out, s[:cut]...)
}

// Sample returns n elements drawn uniformly without replacement from s. If
// n exceeds len(s), the whole slice is returned (shuffled).
func Sample[T any](rng RandomSource, s []T, n int) []T {
	shuffled := Shuffle(rng, s)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	if n < 0 {
		n = 0
	}
	return shuffled[:n]
}
