package board

import (
	"fmt"
	"math"

	"github.com/shamrock-game/shamrock/internal/game"
)

// Layout is the concrete game.Layouter. It carries no state; a value is
// injected into the engine so the state machine never does geometry itself.
type Layout struct{}

// Grid arranges tile sets in the staging grid below the board: three columns
// for up to six tiles, four otherwise, rotation zero. This is where a
// selected player's guess board is dealt out for the group to work with.
func (Layout) Grid(sets [][]string) []game.TileData {
	cols := 3
	if len(sets) > 6 {
		cols = 4
	}
	spacing := CanvasWidth / float64(cols)

	tiles := make([]game.TileData, len(sets))
	for i, words := range sets {
		col := float64(i % cols)
		row := math.Floor(float64(i) / float64(cols))
		tiles[i] = game.TileData{
			X:     spacing/2 + col*spacing,
			Y:     CenterY + Radius*1.6 + row*(spacing+10),
			Words: append([]string(nil), words...),
		}
	}
	return tiles
}

// Quadrants arranges a player's four clued tiles at the quadrant midpoints
// of the board circle, the starting layout for the cluing phase. Extra sets
// wrap around the same four positions.
func (Layout) Quadrants(sets [][]string) []game.TileData {
	tiles := make([]game.TileData, len(sets))
	for i, words := range sets {
		q := i % 4
		x := CenterX - Radius/2
		if q%2 == 1 {
			x = CenterX + Radius/2
		}
		y := CenterY - Radius/2
		if q >= 2 {
			y = CenterY + Radius/2
		}
		tiles[i] = game.TileData{X: x, Y: y, Words: append([]string(nil), words...)}
	}
	return tiles
}

// OverlayGuessWords re-labels laid-out tiles with the viewed player's
// committed guess sets, matched by index. Tiles beyond the guess set keep
// the words they already carry, so a stale or partial layout still renders.
func OverlayGuessWords(tiles []game.TileData, guessed [][]string) []game.TileData {
	out := make([]game.TileData, len(tiles))
	for i, t := range tiles {
		out[i] = t
		if i < len(guessed) {
			out[i].Words = append([]string(nil), guessed[i]...)
		} else {
			out[i].Words = append([]string(nil), t.Words...)
		}
	}
	return out
}

// EdgePlaceholders derives hint text for the four clue inputs around the
// board from the words facing each edge on a standard four-tile cluing
// layout. Returns empty strings unless at least four tiles are present.
func EdgePlaceholders(tiles []game.TileData) [4]string {
	var out [4]string
	if len(tiles) < 4 {
		return out
	}
	for _, t := range tiles[:4] {
		if len(t.Words) < 4 {
			return out
		}
	}
	out[0] = fmt.Sprintf("%s & %s", tiles[0].Words[0], tiles[1].Words[0])
	out[1] = fmt.Sprintf("%s & %s", tiles[1].Words[1], tiles[3].Words[1])
	out[2] = fmt.Sprintf("%s & %s", tiles[3].Words[2], tiles[2].Words[2])
	out[3] = fmt.Sprintf("%s & %s", tiles[2].Words[3], tiles[0].Words[3])
	return out
}
