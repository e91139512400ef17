package board

import (
	"sync"
	"time"

	"github.com/shamrock-game/shamrock/internal/game"
)

const (
	// TapWindow is how long after pointer-down a release still counts as a
	// tap rather than a drag.
	TapWindow = 200 * time.Millisecond

	// DragThreshold is how far (canvas units) the pointer must travel from
	// its down position before the gesture is confirmed as a drag.
	DragThreshold = 5.0
)

// Clock schedules the tap timer. Injected so tests can drive time by hand.
type Clock interface {
	// AfterFunc runs f after d on some other goroutine and returns a cancel
	// function. Cancel after fire is a no-op.
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// SystemClock returns a Clock backed by time.AfterFunc.
func SystemClock() Clock { return realClock{} }

// GestureSink receives the interpretation of raw pointer events. The tiles
// passed to TileMoved and TileReleased are fresh copies, already tagged and
// untagged with dragging attribution; the sink decides whether to publish
// them (guessing phase) or keep them local (cluing phase).
type GestureSink interface {
	TileMoved(index int, tiles []game.TileData)
	TileReleased(tiles []game.TileData)
	TileRotated(index int)
	BoardRotated()
}

// Controller is the per-pointer gesture machine: idle → pressed →
// (tap-as-rotate | drag → release). One instance serves one participant's
// pointer; it is not meant to multiplex devices.
type Controller struct {
	sink   GestureSink
	clock  Clock
	player string

	mu         sync.Mutex
	tiles      []game.TileData
	dragIndex  int // -1 when idle
	startX     float64
	startY     float64
	offsetX    float64
	offsetY    float64
	dragging   bool // threshold crossed, this is a drag
	pendingTap bool
	cancelTap  func()
}

func NewController(sink GestureSink, clock Clock, player string) *Controller {
	return &Controller{
		sink:      sink,
		clock:     clock,
		player:    player,
		dragIndex: -1,
	}
}

// SetTiles replaces the controller's working copy of the board, typically
// from the latest committed snapshot. Ignored mid-drag so a remote update
// cannot yank the tile out from under the pointer.
func (c *Controller) SetTiles(tiles []game.TileData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragIndex >= 0 {
		return
	}
	c.tiles = cloneTiles(tiles)
}

// PointerDown starts a gesture on the given tile: the tile's offset from
// the pointer is recorded and the tap timer armed.
func (c *Controller) PointerDown(index int, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.tiles) || c.dragIndex >= 0 {
		return
	}
	c.dragIndex = index
	c.startX, c.startY = x, y
	c.offsetX = c.tiles[index].X - x
	c.offsetY = c.tiles[index].Y - y
	c.dragging = false
	c.pendingTap = true
	c.cancelTap = c.clock.AfterFunc(TapWindow, c.tapExpired)
}

func (c *Controller) tapExpired() {
	c.mu.Lock()
	c.pendingTap = false
	c.mu.Unlock()
}

// PointerMove tracks the pointer. Moves inside the drag threshold are
// suppressed; the first move beyond it cancels the pending tap and confirms
// the drag, after which the tile follows the pointer (minus the original
// offset) and the sink hears about every move.
func (c *Controller) PointerMove(x, y float64) {
	c.mu.Lock()
	if c.dragIndex < 0 {
		c.mu.Unlock()
		return
	}
	if !c.dragging {
		dx := x - c.startX
		dy := y - c.startY
		if dx < DragThreshold && dx > -DragThreshold && dy < DragThreshold && dy > -DragThreshold {
			c.mu.Unlock()
			return
		}
		c.dragging = true
		if c.pendingTap {
			c.pendingTap = false
			c.cancelTap()
		}
	}

	i := c.dragIndex
	c.tiles[i].X = x + c.offsetX
	c.tiles[i].Y = y + c.offsetY
	c.tiles[i].DraggingUser = c.player
	tiles := cloneTiles(c.tiles)
	c.mu.Unlock()

	c.sink.TileMoved(i, tiles)
}

// PointerUp ends the gesture. A release inside the tap window rotates the
// tile instead of moving it; a drag release clears this player's dragging
// attribution and reports the final positions.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	if c.dragIndex < 0 {
		c.mu.Unlock()
		return
	}
	i := c.dragIndex
	wasTap := c.pendingTap
	wasDrag := c.dragging
	if c.cancelTap != nil {
		c.cancelTap()
	}
	c.dragIndex = -1
	c.dragging = false
	c.pendingTap = false

	if wasTap {
		c.mu.Unlock()
		c.sink.TileRotated(i)
		return
	}
	if !wasDrag {
		// Held past the tap window without moving: neither tap nor drag.
		c.mu.Unlock()
		return
	}
	for j := range c.tiles {
		if c.tiles[j].DraggingUser == c.player {
			c.tiles[j].DraggingUser = ""
		}
	}
	tiles := cloneTiles(c.tiles)
	c.mu.Unlock()

	c.sink.TileReleased(tiles)
}

// BoardTap reports a tap on empty board area, which rotates the whole
// board rather than any one tile.
func (c *Controller) BoardTap() {
	c.sink.BoardRotated()
}

func cloneTiles(tiles []game.TileData) []game.TileData {
	out := make([]game.TileData, len(tiles))
	for i, t := range tiles {
		out[i] = t
		out[i].Words = append([]string(nil), t.Words...)
	}
	return out
}
