package server

import "github.com/shamrock-game/shamrock/internal/game"

// Server-to-client events are a newline-delimited pair: an event name on the
// first line, a JSON payload after it. Clients switch on the first line
// without parsing the payload.

func encodeEvent(name string, payload any) []byte {
	msg := append([]byte(name), '\n')
	return append(msg, mustEncodeJSON(payload)...)
}

// encodeRoomState carries the full room document. Every store notification
// produces one of these; clients reconcile against it rather than applying
// deltas.
func encodeRoomState(r *game.Room) []byte {
	return encodeEvent("room-state", r)
}

// encodeClaimState tells a single connection which player it is acting as.
// An empty name means the claim was released.
func encodeClaimState(name string) []byte {
	return encodeEvent("claim-state", struct {
		Name string `json:"name"`
	}{name})
}

func encodeRoomError(err error) []byte {
	return encodeEvent("room-error", struct {
		Error string `json:"error"`
	}{err.Error()})
}
