package board

import (
	"math"
	"sync"

	"github.com/shamrock-game/shamrock/internal/game"
)

// TotalFrames is the fixed number of intermediate frames between two
// committed board states.
const TotalFrames = 10

// Scheduler drives the animation clock: ScheduleFrame runs f on the next
// rendering frame and returns a cancel function. Decouples the interpolator
// from any particular rendering loop.
type Scheduler interface {
	ScheduleFrame(f func()) (cancel func())
}

// FrameSink receives each interpolated frame, ending with the target state
// itself.
type FrameSink func(tiles []game.TileData, boardRotation float64)

// Animator interpolates between the last fully-applied board state and each
// newly received target. On-board tiles sweep along the circular arc (angle
// interpolated, radius preserved) so a quarter turn reads as a rotation
// rather than tiles cutting across the board; staging-grid tiles travel in
// a straight line.
//
// Position-only changes (someone dragging) skip animation and snap, keeping
// drag latency low. A target arriving mid-animation cancels the run and
// snaps, so partial frames never compound: the "previous" state is always a
// fully-applied one.
type Animator struct {
	sched Scheduler
	emit  FrameSink

	mu        sync.Mutex
	tiles     []game.TileData // last fully-applied state
	rotation  float64
	animating bool
	cancel    func()
}

func NewAnimator(sched Scheduler, emit FrameSink) *Animator {
	return &Animator{sched: sched, emit: emit}
}

// SetTarget feeds the animator a newly received committed state.
func (a *Animator) SetTarget(tiles []game.TileData, boardRotation float64) {
	a.mu.Lock()

	if a.animating {
		// Snap to the newest state rather than stacking interpolations.
		a.stopLocked()
		a.snapLocked(tiles, boardRotation)
		a.mu.Unlock()
		a.emit(cloneTiles(tiles), boardRotation)
		return
	}

	if !a.shouldAnimateLocked(tiles, boardRotation) {
		a.snapLocked(tiles, boardRotation)
		a.mu.Unlock()
		a.emit(cloneTiles(tiles), boardRotation)
		return
	}

	prevTiles := a.tiles
	prevRotation := a.rotation
	a.animating = true
	a.mu.Unlock()

	a.runFrame(1, prevTiles, prevRotation, cloneTiles(tiles), boardRotation)
}

// Stop cancels any in-flight animation. The last fully-applied state is
// untouched.
func (a *Animator) Stop() {
	a.mu.Lock()
	a.stopLocked()
	a.mu.Unlock()
}

func (a *Animator) stopLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.animating = false
}

func (a *Animator) snapLocked(tiles []game.TileData, rotation float64) {
	a.tiles = cloneTiles(tiles)
	a.rotation = rotation
}

// shouldAnimateLocked decides snap versus sweep: animate when the board
// rotation changed, or when tiles changed in some way beyond positions
// alone. Tile-count changes snap, since there is no per-tile correspondence
// to interpolate.
func (a *Animator) shouldAnimateLocked(tiles []game.TileData, rotation float64) bool {
	if len(tiles) != len(a.tiles) {
		return false
	}
	if rotation != a.rotation {
		return true
	}
	for i := range tiles {
		if tiles[i].Rotation != a.tiles[i].Rotation {
			return true
		}
		if !sameWords(tiles[i].Words, a.tiles[i].Words) {
			return true
		}
	}
	// At most positions moved: a drag in progress, snap.
	return false
}

func sameWords(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (a *Animator) runFrame(frame int, prevTiles []game.TileData, prevRotation float64, targetTiles []game.TileData, targetRotation float64) {
	a.mu.Lock()
	if !a.animating {
		a.mu.Unlock()
		return
	}

	if frame > TotalFrames {
		a.stopLocked()
		a.snapLocked(targetTiles, targetRotation)
		a.mu.Unlock()
		a.emit(cloneTiles(targetTiles), targetRotation)
		return
	}

	progress := float64(frame) / TotalFrames
	rotation := prevRotation + ClockwiseDelta(prevRotation, targetRotation)*progress
	tiles := interpolateTiles(prevTiles, targetTiles, progress)

	a.cancel = a.sched.ScheduleFrame(func() {
		a.runFrame(frame+1, prevTiles, prevRotation, targetTiles, targetRotation)
	})
	a.mu.Unlock()

	a.emit(tiles, rotation)
}

func interpolateTiles(prev, target []game.TileData, progress float64) []game.TileData {
	out := make([]game.TileData, len(target))
	for i := range target {
		p := prev[i]
		t := target[i]
		out[i] = t
		out[i].Words = append([]string(nil), t.Words...)
		out[i].Rotation = p.Rotation + ClockwiseDelta(p.Rotation, t.Rotation)*progress

		if OnBoard(p.X, p.Y) {
			startAngle := math.Atan2(p.Y-CenterY, p.X-CenterX)
			endAngle := math.Atan2(t.Y-CenterY, t.X-CenterX)
			angle := startAngle + ClockwiseDelta(startAngle, endAngle)*progress
			dist := math.Hypot(t.X-CenterX, t.Y-CenterY)
			out[i].X = CenterX + dist*math.Cos(angle)
			out[i].Y = CenterY + dist*math.Sin(angle)
		} else {
			out[i].X = p.X + (t.X-p.X)*progress
			out[i].Y = p.Y + (t.Y-p.Y)*progress
		}
	}
	return out
}
