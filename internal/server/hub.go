package server

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shamrock-game/shamrock/internal/board"
	"github.com/shamrock-game/shamrock/internal/game"
	"github.com/shamrock-game/shamrock/internal/store"
)

// hub serves one room name: it owns the subscription to the shared room
// document, fans snapshots out to connected clients, and turns client
// requests into engine transitions or board-geometry patches.
//
// All hub state is confined to the run goroutine; clients talk to it over
// the register/unregister/requests channels. A hub shuts down when its last
// member disconnects.
type hub struct {
	name   string
	store  *store.Mem
	engine *game.Engine
	log    zerolog.Logger

	members map[*client]struct{}

	// room is the last snapshot received from the store; nil until the
	// document exists.
	room *game.Room

	register   chan *client
	unregister chan *client
	requests   chan request

	// done is closed when run returns, so goroutines blocked on the
	// channels above can bail instead of leaking.
	done chan struct{}
}

func newHub(name string, st *store.Mem, eng *game.Engine, log zerolog.Logger) *hub {
	return &hub{
		name:       name,
		store:      st,
		engine:     eng,
		log:        log.With().Str("room", name).Logger(),
		members:    map[*client]struct{}{},
		register:   make(chan *client),
		unregister: make(chan *client),
		requests:   make(chan request, 100),
		done:       make(chan struct{}),
	}
}

// run processes subscription updates and client requests until the last
// member disconnects. Start it in its own goroutine as soon as the hub is
// created.
func (h *hub) run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.store.Subscribe(ctx, h.name)
	defer sub.Cancel()
	defer close(h.done)

	h.log.Debug().Msg("hub started")
	defer h.log.Debug().Msg("hub closed")

	// joined distinguishes "nobody has connected yet" from "everyone left";
	// only the latter shuts the hub down.
	joined := false

	for {
		select {
		case snap := <-sub.C:
			h.applySnapshot(snap)

		case c := <-h.register:
			joined = true
			h.members[c] = struct{}{}
			if c.player != "" {
				c.Send(encodeClaimState(c.player))
			}
			if h.room != nil {
				c.Send(encodeRoomState(h.room))
			}

		case c := <-h.unregister:
			if _, ok := h.members[c]; ok {
				delete(h.members, c)
				close(c.send)
			}

		case req := <-h.requests:
			h.handleRequest(req)
		}

		// Kicks during broadcasts can also empty the room, so the check
		// lives here rather than in the unregister case alone.
		if joined && len(h.members) == 0 {
			return
		}
	}
}

// dropMember kicks an unresponsive client. ONLY SAFE TO CALL FROM THE HUB
// GOROUTINE (it is called from client.Send during broadcasts).
func (h *hub) dropMember(c *client) {
	if _, ok := h.members[c]; ok {
		delete(h.members, c)
		close(c.send)
	}
}

func (h *hub) applySnapshot(snap store.Snapshot) {
	if snap.Err != nil {
		// Transport failure propagates to clients as an explicit error
		// value; retry is their concern, the live subscription continues.
		h.broadcast(encodeRoomError(snap.Err))
		return
	}
	if snap.Loading {
		return
	}
	if snap.Room == nil {
		// No document under this name yet: first hub to look creates it.
		// A double-create race is tolerated; first writer wins.
		h.store.CreateIfAbsent(h.name)
		return
	}

	h.room = snap.Room
	// Concurrent quarter-turns can arrive out of sequence; re-snapping on
	// receipt makes rotation idempotent regardless of arrival order.
	h.room.GuessingViewState.BoardRotation = board.SnapRightAngle(h.room.GuessingViewState.BoardRotation)
	h.room.GuessingViewState.Tiles = board.SnapTiles(h.room.GuessingViewState.Tiles)

	h.broadcast(encodeRoomState(h.room))
}

func (h *hub) broadcast(msg []byte) {
	for c := range h.members {
		c.Send(msg)
	}
}

// handleRequest is the boundary between the wire and the engine: it decodes
// the request, applies the engine op or geometry transform, and lets the
// resulting store notification fan the new state back out. Invalid or
// precondition-failing requests are ignored.
func (h *hub) handleRequest(req request) {
	cr, ok := decodeRequest(req.msg)
	if !ok {
		return
	}

	// Claims are per-connection state, legal even before the room exists.
	if cr.Type == reqClaim {
		req.src.player = cr.Name
		req.src.Send(encodeClaimState(cr.Name))
		return
	}

	r := h.room
	if r == nil {
		return
	}

	switch cr.Type {
	case reqJoin:
		h.engine.Join(r, cr.Name)

	case reqRemove:
		if h.engine.Remove(r, cr.Name) && cr.Name == req.src.player {
			// Self-removal releases the claim.
			req.src.player = ""
			req.src.Send(encodeClaimState(""))
		}

	case reqBegin:
		h.engine.BeginGame(r)

	case reqClues:
		h.engine.SetClues(r, req.src.player, cr.Clues)

	case reqReady:
		h.engine.MarkReady(r, req.src.player, cr.NumDistractors)

	case reqProceed:
		h.engine.Proceed(r)

	case reqSelect:
		h.engine.SelectPlayer(r, cr.Name)

	case reqRedeal:
		h.engine.Redeal(r)

	case reqReset:
		h.engine.ResetRoom(r)

	case reqRotateBoard:
		tiles, rotation := board.RotateBoard(r.GuessingViewState.Tiles, r.GuessingViewState.BoardRotation)
		h.publishView(r, tiles, rotation)

	case reqRotateTile:
		tiles := board.RotateTile(r.GuessingViewState.Tiles, cr.Tile)
		h.publishView(r, tiles, r.GuessingViewState.BoardRotation)

	case reqMoveTile:
		// The mover's working copy is taken as-is (drags snap, they don't
		// animate); the moving tile is attributed to the dragging player.
		tiles := cr.Tiles
		if cr.Tile < 0 || cr.Tile >= len(tiles) {
			return
		}
		tiles[cr.Tile].DraggingUser = req.src.player
		h.publishView(r, tiles, r.GuessingViewState.BoardRotation)

	case reqRelease:
		tiles := cr.Tiles
		for i := range tiles {
			if tiles[i].DraggingUser == req.src.player {
				tiles[i].DraggingUser = ""
			}
		}
		h.publishView(r, tiles, r.GuessingViewState.BoardRotation)
	}
}

// publishView publishes a new guessing-phase board layout. Rotations are
// snapped to right angles before anything reaches the shared document;
// cluing-phase boards are local-only and never pass through here.
func (h *hub) publishView(r *game.Room, tiles []game.TileData, rotation float64) {
	if r.Status != game.StatusGuessing {
		return
	}
	err := h.store.Patch(r.ID, game.RoomPatch{
		GuessingViewState: &game.GuessingViewState{
			PlayerName:    r.GuessingViewState.PlayerName,
			BoardRotation: board.SnapRightAngle(rotation),
			Tiles:         board.SnapTiles(tiles),
		},
	})
	if err != nil {
		h.log.Error().Err(err).Msg("publish view failed")
	}
}
