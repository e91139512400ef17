// Package cards ships the static tile-set content: a fixed pool of
// edge-labelings, each an ordered list of four words. The deal engine treats
// the pool as an opaque indexable list.
package cards

import (
	"encoding/json"
	"fmt"
	"sync"

	_ "embed"
)

//go:embed cards.json
var rawPool []byte

var (
	poolOnce sync.Once
	pool     [][]string
)

// Pool returns the embedded tile-set pool. The returned slice is shared;
// callers must not modify it.
func Pool() [][]string {
	poolOnce.Do(func() {
		if err := json.Unmarshal(rawPool, &pool); err != nil {
			panic(fmt.Sprintf("cards: embedded pool is corrupt: %v", err))
		}
		for i, set := range pool {
			if len(set) != 4 {
				panic(fmt.Sprintf("cards: tile set %d has %d words, want 4", i, len(set)))
			}
		}
	})
	return pool
}

// Parse decodes an external tile-set pool in the same format as the
// embedded asset. Every set must carry exactly four words.
func Parse(data []byte) ([][]string, error) {
	var p [][]string
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("cards: decode pool: %w", err)
	}
	for i, set := range p {
		if len(set) != 4 {
			return nil, fmt.Errorf("cards: tile set %d has %d words, want 4", i, len(set))
		}
	}
	return p, nil
}
