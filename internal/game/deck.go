package game

// TileSetsPerPlayer is how many tile sets each player consumes per deal:
// four to write clues for plus four in the distractor pool.
const TileSetsPerPlayer = 8

// drawStateless shuffles the whole pool and takes the first n sets.
func drawStateless(rng RandomSource, pool [][]string, n int) [][]string {
	if n > len(pool) {
		n = len(pool)
	}
	return Shuffle(rng, pool)[:n]
}

// drawTracked draws n tile sets from the pool while avoiding indices already
// recorded in prev. If fewer than n unused indices remain, the history is
// discarded and the draw starts a fresh cycle over the full pool; only the
// newly drawn indices are recorded as used. Exhaustion is therefore never an
// error.
func drawTracked(rng RandomSource, pool [][]string, prev *DeckState, n int) ([][]string, *DeckState) {
	if n > len(pool) {
		n = len(pool)
	}

	used := make(map[int]bool)
	var carried []int
	if prev != nil && prev.TotalTiles == len(pool) {
		for _, i := range prev.UsedTileIndices {
			if i >= 0 && i < len(pool) && !used[i] {
				used[i] = true
				carried = append(carried, i)
			}
		}
	}

	if len(pool)-len(used) < n {
		// Full-deck reset: the unused remainder can't cover this deal.
		used = make(map[int]bool)
		carried = nil
	}

	unused := make([]int, 0, len(pool)-len(used))
	for i := range pool {
		if !used[i] {
			unused = append(unused, i)
		}
	}

	drawn := Sample(rng, unused, n)
	sets := make([][]string, len(drawn))
	for i, idx := range drawn {
		sets[i] = pool[idx]
	}

	next := &DeckState{
		UsedTileIndices: append(carried, drawn...),
		TotalTiles:      len(pool),
	}
	return sets, next
}

// assignment is one player's share of a deal.
type assignment struct {
	clued       [][]string
	distractors [][]string
}

// dealOut splits drawn tile sets into per-player assignments, applying an
// independent random quarter-turn rotation to each clued set's word order.
func dealOut(rng RandomSource, sets [][]string, players []string) map[string]assignment {
	out := make(map[string]assignment, len(players))
	for i, name := range players {
		base := i * TileSetsPerPlayer
		if base+TileSetsPerPlayer > len(sets) {
			break
		}
		a := assignment{
			clued:       make([][]string, 0, 4),
			distractors: make([][]string, 0, 4),
		}
		for _, set := range sets[base : base+4] {
			a.clued = append(a.clued, RotateCyclic(rng, set))
		}
		for _, set := range sets[base+4 : base+8] {
			a.distractors = append(a.distractors, append([]string(nil), set...))
		}
		out[name] = a
	}
	return out
}
