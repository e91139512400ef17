package game

// This file defines the merge-patch vocabulary for the shared room document.
// The consistency model is deliberately simple and is the whole story of how
// concurrent edits converge:
//
//   - every scalar field resolves last-write-wins by arrival order at the
//     store, with no vector clocks or causal ordering;
//   - player map keys merge independently, so two players patching their own
//     entries concurrently compose without conflict;
//   - a nil entry in RoomPatch.Players is the explicit "absent" marker and
//     removes that key without clobbering siblings;
//   - GuessingViewState and DeckState are replaced as whole values (clients
//     always publish complete snapshots of them).
//
// Nil pointer fields mean "leave untouched."

// RoomPatch is a field-level merge-patch against a room document.
type RoomPatch struct {
	Status            *Status
	GuessingViewState *GuessingViewState
	DeckState         *DeckState
	Players           map[string]*PlayerPatch
}

// PlayerPatch is a merge-patch against one player's entry. Slice fields use
// nil as "leave untouched"; an empty non-nil slice overwrites.
type PlayerPatch struct {
	ReadyToGuess        *bool
	TilesAsClued        [][]string
	TilesForDistractors [][]string
	TilesAsGuessed      [][]string
	NumDistractors      *int
	Clues               []string
}

// RoomFields is a whole-document overwrite of every mutable field, used when
// collections must be cleared outright (e.g. Reset Room). Identity fields
// (ID, Name) are never replaced.
type RoomFields struct {
	Status            Status
	Players           map[string]*PlayerData
	GuessingViewState GuessingViewState
	DeckState         *DeckState
}

// Publisher is the write half of the shared document store as the engine
// sees it. Publishes are fire-and-forget; convergence is eventual.
type Publisher interface {
	Patch(roomID string, p RoomPatch) error
	Replace(roomID string, fields RoomFields) error
}

// Apply merges the patch into the room in place. The store calls this under
// its own lock; the engine and tests call it directly on private copies.
func (p RoomPatch) Apply(r *Room) {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.GuessingViewState != nil {
		r.GuessingViewState = GuessingViewState{
			PlayerName:    p.GuessingViewState.PlayerName,
			BoardRotation: p.GuessingViewState.BoardRotation,
			Tiles:         cloneTiles(p.GuessingViewState.Tiles),
		}
	}
	if p.DeckState != nil {
		r.DeckState = &DeckState{
			UsedTileIndices: append([]int(nil), p.DeckState.UsedTileIndices...),
			TotalTiles:      p.DeckState.TotalTiles,
		}
	}
	if len(p.Players) == 0 {
		return
	}
	if r.Players == nil {
		r.Players = map[string]*PlayerData{}
	}
	for name, pp := range p.Players {
		if pp == nil {
			delete(r.Players, name)
			continue
		}
		cur, ok := r.Players[name]
		if !ok || cur == nil {
			cur = &PlayerData{Clues: emptyClues()}
			r.Players[name] = cur
		}
		pp.apply(cur)
	}
}

func (pp PlayerPatch) apply(p *PlayerData) {
	if pp.ReadyToGuess != nil {
		p.ReadyToGuess = *pp.ReadyToGuess
	}
	if pp.TilesAsClued != nil {
		p.TilesAsClued = cloneTileSets(pp.TilesAsClued)
	}
	if pp.TilesForDistractors != nil {
		p.TilesForDistractors = cloneTileSets(pp.TilesForDistractors)
	}
	if pp.TilesAsGuessed != nil {
		p.TilesAsGuessed = cloneTileSets(pp.TilesAsGuessed)
	}
	if pp.NumDistractors != nil {
		p.NumDistractors = *pp.NumDistractors
	}
	if pp.Clues != nil {
		p.Clues = append([]string(nil), pp.Clues...)
	}
}

// Apply overwrites the room's mutable fields wholesale.
func (f RoomFields) Apply(r *Room) {
	r.Status = f.Status
	r.Players = make(map[string]*PlayerData, len(f.Players))
	for name, p := range f.Players {
		r.Players[name] = p.Clone()
	}
	r.GuessingViewState = GuessingViewState{
		PlayerName:    f.GuessingViewState.PlayerName,
		BoardRotation: f.GuessingViewState.BoardRotation,
		Tiles:         cloneTiles(f.GuessingViewState.Tiles),
	}
	if f.DeckState != nil {
		r.DeckState = &DeckState{
			UsedTileIndices: append([]int(nil), f.DeckState.UsedTileIndices...),
			TotalTiles:      f.DeckState.TotalTiles,
		}
	} else {
		r.DeckState = nil
	}
}
