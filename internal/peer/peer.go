// Package peer implements the replication-free half of the peer-to-peer
// variant: every participant derives the same document identity, and from
// it the same numeric seed, and from that the identical shuffled deck —
// without ever exchanging the shuffle result over the network. The CRDT
// transport itself is an external substrate; this package only defines the
// narrow contract the engine needs from it.
package peer

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"time"

	"github.com/shamrock-game/shamrock/internal/game"
)

// DocumentGUID derives the shared document identity from the calendar date
// and the room name. Everyone who opens the same room on the same day lands
// on the same document.
func DocumentGUID(date time.Time, roomName string) string {
	return fmt.Sprintf("shamrock-%s-%s", date.Format("2006-01-02"), roomName)
}

// Seed folds the SHA-256 digest of the document GUID into a numeric seed,
// big-endian byte by byte. The fold wraps modulo 2^64; what matters is that
// every peer computes the same value.
func Seed(documentGUID string) int64 {
	digest := sha256.Sum256([]byte(documentGUID))
	var acc uint64
	for _, b := range digest {
		acc = acc*256 + uint64(b)
	}
	return int64(acc)
}

// Deck deterministically prepares the full tile-set pool for one document:
// a seeded shuffle of the pool, then a seeded cyclic shift of each tile's
// word order so initial facings differ per card. Recomputing with the same
// GUID and pool always yields the identical deck.
func Deck(documentGUID string, pool [][]string) [][]string {
	rng := game.SeededRandom(Seed(documentGUID))
	shuffled := game.Shuffle(rng, pool)
	out := make([][]string, len(shuffled))
	for i, set := range shuffled {
		out[i] = shiftCyclic(set, rng.Intn(4))
	}
	return out
}

func shiftCyclic(set []string, by int) []string {
	if len(set) == 0 {
		return []string{}
	}
	by = by % len(set)
	out := make([]string, 0, len(set))
	out = append(out, set[by:]...)
	return append(out, set[:by]...)
}

// SortedRoster returns the player names in the one ordering every peer
// agrees on.
func SortedRoster(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
