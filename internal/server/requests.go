package server

// This file contains the request vocabulary clients speak over the
// WebSocket. Requests are small JSON objects discriminated by "type";
// invalid requests are simply ignored, without error feedback — a client
// sending garbage is either buggy or hostile, and neither deserves a
// round-trip.

import (
	"encoding/json"

	"github.com/shamrock-game/shamrock/internal/game"
)

// request pairs a raw payload with the client it originated from.
type request struct {
	src *client
	msg []byte
}

const (
	// reqClaim marks this connection as acting for a roster name. Claiming
	// a new name releases the previous claim.
	reqClaim = "claim"

	reqJoin    = "join"
	reqRemove  = "remove"
	reqBegin   = "begin"
	reqClues   = "clues"
	reqReady   = "ready"
	reqProceed = "proceed"
	reqSelect  = "select"
	reqRedeal  = "redeal"
	reqReset   = "reset"

	// Board interaction, guessing phase only. Tile moves and releases come
	// with the client's full working copy of the layout; rotations are
	// computed server-side so every viewer converges on one geometry.
	reqRotateBoard = "rotate-board"
	reqRotateTile  = "rotate-tile"
	reqMoveTile    = "move-tile"
	reqRelease     = "release"
)

type clientRequest struct {
	Type string `json:"type"`

	// Name is the target player for join/remove/select/claim.
	Name string `json:"name,omitempty"`

	Clues          []string `json:"clues,omitempty"`
	NumDistractors int      `json:"numDistractors,omitempty"`

	Tile  int             `json:"tile,omitempty"`
	Tiles []game.TileData `json:"tiles,omitempty"`
}

func decodeRequest(msg []byte) (clientRequest, bool) {
	var req clientRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return clientRequest{}, false
	}
	if req.Type == "" {
		return clientRequest{}, false
	}
	return req, true
}
