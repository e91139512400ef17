// Package board holds the tile-layout and transform engine: the geometry
// that maps tile data onto the rotating circular board, the staging-grid
// layouts, the tap-vs-drag gesture machine, and the frame interpolator that
// animates between committed board states.
package board

import (
	"math"

	"github.com/shamrock-game/shamrock/internal/game"
)

// The board lives in a fixed virtual canvas. The circle sits near the top;
// everything below it is the staging grid ("dock") where freshly dealt
// guess tiles land.
const (
	CanvasWidth  = 1000.0
	CanvasHeight = 2000.0
	TopPadding   = 120.0

	Radius   = CanvasWidth/2 - 80
	CenterX  = CanvasWidth / 2
	CenterY  = Radius + TopPadding
	TileSize = CanvasWidth / 3

	// QuarterTurn is the fixed rotation increment for both single tiles and
	// the whole board.
	QuarterTurn = math.Pi / 2
)

// OnBoard reports whether a point lies on the circular board. Tiles outside
// the circle belong to the staging grid and are exempt from polar rotation.
func OnBoard(x, y float64) bool {
	dx := x - CenterX
	dy := y - CenterY
	return math.Sqrt(dx*dx+dy*dy) <= Radius
}

// SnapRightAngle snaps an angle to the nearest multiple of π/2. Every
// rotation is normalized this way before being published, so floating-point
// drift cannot accumulate across repeated increments and stored rotations
// are always exactly axis-aligned. Applying it twice equals applying it
// once, which also makes duplicate rotation events arriving out of order
// harmless.
func SnapRightAngle(angle float64) float64 {
	return math.Round(angle/QuarterTurn) * QuarterTurn
}

// NormalizeAngle maps an angle into [0, 2π).
func NormalizeAngle(angle float64) float64 {
	return angle - math.Floor(angle/(2*math.Pi))*2*math.Pi
}

// ClockwiseDelta returns the clockwise sweep from start to end, in [0, 2π).
func ClockwiseDelta(start, end float64) float64 {
	start = NormalizeAngle(start)
	end = NormalizeAngle(end)
	return math.Mod(end-start+2*math.Pi, 2*math.Pi)
}

// RotateBoard applies one quarter-turn of board rotation. On-board tiles
// sweep around the center as a rigid body: each converts to polar form,
// gains π/2 of angle with its radius untouched, and converts back. Their own
// rotations advance by the same increment so word orientation stays locked
// to the board frame. Off-board tiles are unaffected.
//
// The new accumulated board rotation is snapped to a right angle first and
// the actual increment applied to tiles is the snapped difference, so a
// slightly drifted stored rotation self-corrects instead of compounding.
func RotateBoard(tiles []game.TileData, boardRotation float64) ([]game.TileData, float64) {
	snapped := SnapRightAngle(boardRotation + QuarterTurn)
	increment := snapped - boardRotation

	out := make([]game.TileData, len(tiles))
	for i, t := range tiles {
		out[i] = t
		out[i].Words = append([]string(nil), t.Words...)
		if !OnBoard(t.X, t.Y) {
			continue
		}
		dx := t.X - CenterX
		dy := t.Y - CenterY
		dist := math.Sqrt(dx*dx + dy*dy)
		angle := math.Atan2(dy, dx) + increment

		out[i].X = CenterX + dist*math.Cos(angle)
		out[i].Y = CenterY + dist*math.Sin(angle)
		out[i].Rotation = SnapRightAngle(t.Rotation + increment)
	}
	return out, snapped
}

// RotateTile advances a single tile's own rotation by a quarter turn,
// independent of board rotation and of other tiles. Position is untouched
// and any dragging attribution is cleared. Out-of-range indices no-op.
func RotateTile(tiles []game.TileData, index int) []game.TileData {
	out := make([]game.TileData, len(tiles))
	for i, t := range tiles {
		out[i] = t
		out[i].Words = append([]string(nil), t.Words...)
	}
	if index < 0 || index >= len(out) {
		return out
	}
	out[index].Rotation = SnapRightAngle(out[index].Rotation + QuarterTurn)
	out[index].DraggingUser = ""
	return out
}

// SnapTiles returns the tiles with every rotation snapped to a right angle,
// ready to publish.
func SnapTiles(tiles []game.TileData) []game.TileData {
	out := make([]game.TileData, len(tiles))
	for i, t := range tiles {
		out[i] = t
		out[i].Words = append([]string(nil), t.Words...)
		out[i].Rotation = SnapRightAngle(t.Rotation)
	}
	return out
}
