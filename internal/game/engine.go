package game

import (
	"sort"

	"github.com/rs/zerolog"
)

// Layouter places tile sets onto the virtual canvas. Implemented by the
// board package; injected so this package stays free of geometry.
type Layouter interface {
	// Grid lays out tile sets in the staging grid below the board.
	Grid(sets [][]string) []TileData
}

// Engine owns the legal transitions of a room document. It never mutates a
// room directly: every transition is published as a merge-patch (or a full
// replace) through the Publisher, and all connected clients converge on the
// result through their subscriptions.
//
// Ops take the caller's latest room snapshot and return whether anything was
// published. A false return means a precondition failed; per the error
// policy this is a no-op, not an error. The CanXxx predicates expose the
// same preconditions so callers can disable actions up front.
type Engine struct {
	doc    Publisher
	rng    RandomSource
	pool   [][]string
	layout Layouter
	log    zerolog.Logger

	// TrackDeck enables the stateful deck policy: re-deals avoid tile sets
	// already drawn in this room until the pool is exhausted.
	TrackDeck bool
}

func NewEngine(doc Publisher, rng RandomSource, pool [][]string, layout Layouter, log zerolog.Logger) *Engine {
	return &Engine{
		doc:       doc,
		rng:       rng,
		pool:      pool,
		layout:    layout,
		log:       log,
		TrackDeck: true,
	}
}

func (e *Engine) publish(r *Room, p RoomPatch) {
	if err := e.doc.Patch(r.ID, p); err != nil {
		e.log.Error().Err(err).Str("room", r.Name).Msg("patch failed")
	}
}

// CanJoin reports whether the named player may join: only while gathering,
// only with a non-empty name, and only once.
func (e *Engine) CanJoin(r *Room, name string) bool {
	if r == nil || r.Status != StatusGathering || name == "" {
		return false
	}
	_, taken := r.Players[name]
	return !taken
}

// Join adds a zero-state roster entry for the named player.
func (e *Engine) Join(r *Room, name string) bool {
	if !e.CanJoin(r, name) {
		return false
	}
	ready := false
	e.publish(r, RoomPatch{
		Players: map[string]*PlayerPatch{
			name: {
				ReadyToGuess:        &ready,
				TilesAsClued:        [][]string{},
				TilesForDistractors: [][]string{},
				TilesAsGuessed:      [][]string{},
				Clues:               emptyClues(),
			},
		},
	})
	e.log.Debug().Str("room", r.Name).Str("player", name).Msg("player joined")
	return true
}

// CanRemove reports whether the named roster entry may be removed. Trust is
// cooperative: any client may remove any entry while gathering.
func (e *Engine) CanRemove(r *Room, name string) bool {
	if r == nil || r.Status != StatusGathering {
		return false
	}
	_, present := r.Players[name]
	return present
}

// Remove deletes a roster entry. The nil player patch is the explicit
// absent marker, so sibling entries are untouched.
func (e *Engine) Remove(r *Room, name string) bool {
	if !e.CanRemove(r, name) {
		return false
	}
	e.publish(r, RoomPatch{Players: map[string]*PlayerPatch{name: nil}})
	e.log.Debug().Str("room", r.Name).Str("player", name).Msg("player removed")
	return true
}

// CanBeginGame requires at least one player and a pool deep enough to deal
// eight tile sets to each.
func (e *Engine) CanBeginGame(r *Room) bool {
	return r != nil &&
		r.Status == StatusGathering &&
		len(r.Players) >= 1 &&
		len(e.pool) >= len(r.Players)*TileSetsPerPlayer
}

// BeginGame deals tiles and moves the room to the cluing phase in one
// atomic patch covering status, view state, and every player.
func (e *Engine) BeginGame(r *Room) bool {
	if !e.CanBeginGame(r) {
		return false
	}
	e.deal(r, StatusCluing, true)
	e.log.Info().Str("room", r.Name).Int("players", len(r.Players)).Msg("game started")
	return true
}

// CanRedeal is the guard for the "play again" edge out of guessing.
func (e *Engine) CanRedeal(r *Room) bool {
	return r != nil &&
		r.Status == StatusGuessing &&
		len(r.Players) >= 1 &&
		len(e.pool) >= len(r.Players)*TileSetsPerPlayer
}

// Redeal starts a fresh deal with the same roster, drawing from the deck
// tracker so tile sets do not repeat until the pool is exhausted. Each
// player's previously chosen distractor count is preserved.
func (e *Engine) Redeal(r *Room) bool {
	if !e.CanRedeal(r) {
		return false
	}
	e.deal(r, StatusCluing, false)
	e.log.Info().Str("room", r.Name).Msg("re-deal")
	return true
}

// deal draws 8 tile sets per player and publishes the transition. When
// resetDistractorChoice is false the players' NumDistractors preferences
// are left alone (re-deal semantics).
func (e *Engine) deal(r *Room, next Status, resetDistractorChoice bool) {
	names := rosterNames(r)

	var sets [][]string
	var deck *DeckState
	if e.TrackDeck {
		sets, deck = drawTracked(e.rng, e.pool, r.DeckState, len(names)*TileSetsPerPlayer)
	} else {
		sets = drawStateless(e.rng, e.pool, len(names)*TileSetsPerPlayer)
	}

	ready := false
	patch := RoomPatch{
		Status: &next,
		GuessingViewState: &GuessingViewState{
			PlayerName:    "",
			BoardRotation: 0,
			Tiles:         []TileData{},
		},
		DeckState: deck,
		Players:   make(map[string]*PlayerPatch, len(names)),
	}
	for name, a := range dealOut(e.rng, sets, names) {
		pp := &PlayerPatch{
			ReadyToGuess:        &ready,
			TilesAsClued:        a.clued,
			TilesForDistractors: a.distractors,
			TilesAsGuessed:      [][]string{},
			Clues:               emptyClues(),
		}
		if resetDistractorChoice {
			n := 0
			pp.NumDistractors = &n
		}
		patch.Players[name] = pp
	}
	e.publish(r, patch)
}

// SetClues stores a player's clue draft. Editing clues drops the player's
// ready flag: a committed guess set is never invalidated (it cannot exist
// yet if the player can still edit), but a stale ready state from a race is.
func (e *Engine) SetClues(r *Room, name string, clues []string) bool {
	if r == nil || r.Status != StatusCluing {
		return false
	}
	if _, present := r.Players[name]; !present {
		return false
	}
	fixed := emptyClues()
	copy(fixed, clues)
	ready := false
	e.publish(r, RoomPatch{
		Players: map[string]*PlayerPatch{
			name: {ReadyToGuess: &ready, Clues: fixed},
		},
	})
	return true
}

// CanMarkReady reports whether the named player may commit their board with
// the given distractor count. Re-clicking ready is disallowed so the guess
// set cannot be regenerated after commitment.
func (e *Engine) CanMarkReady(r *Room, name string, numDistractors int) bool {
	if r == nil || r.Status != StatusCluing {
		return false
	}
	p, present := r.Players[name]
	if !present || p == nil || p.ReadyToGuess {
		return false
	}
	return numDistractors >= 1 && numDistractors <= 4
}

// MarkReady generates the player's guess set — now, and never again. The
// chosen number of distractors is sampled from the player's pool, combined
// with their clued tiles, each independently quarter-rotated, and the whole
// list shuffled.
func (e *Engine) MarkReady(r *Room, name string, numDistractors int) bool {
	if !e.CanMarkReady(r, name, numDistractors) {
		return false
	}
	p := r.Player(name)

	decoys := Sample(e.rng, p.TilesForDistractors, numDistractors)
	combined := make([][]string, 0, len(p.TilesAsClued)+len(decoys))
	for _, set := range append(cloneTileSets(p.TilesAsClued), decoys...) {
		combined = append(combined, RotateCyclic(e.rng, set))
	}
	guessed := Shuffle(e.rng, combined)

	ready := true
	clues := emptyClues()
	copy(clues, p.Clues)
	e.publish(r, RoomPatch{
		Players: map[string]*PlayerPatch{
			name: {
				ReadyToGuess:   &ready,
				TilesAsGuessed: guessed,
				NumDistractors: &numDistractors,
				Clues:          clues,
			},
		},
	})
	e.log.Debug().Str("room", r.Name).Str("player", name).
		Int("distractors", numDistractors).Msg("player ready")
	return true
}

// CanProceed requires every player to have committed their board.
func (e *Engine) CanProceed(r *Room) bool {
	return r != nil && r.Status == StatusCluing && len(r.Players) > 0 && r.AllReady()
}

// Proceed moves the room to the guessing phase with an empty view: no
// player selected, no tiles, rotation zero. Player data is untouched.
func (e *Engine) Proceed(r *Room) bool {
	if !e.CanProceed(r) {
		return false
	}
	status := StatusGuessing
	e.publish(r, RoomPatch{
		Status: &status,
		GuessingViewState: &GuessingViewState{
			PlayerName:    "",
			BoardRotation: 0,
			Tiles:         []TileData{},
		},
	})
	e.log.Info().Str("room", r.Name).Msg("proceeding to guessing")
	return true
}

// SelectPlayer puts the named player's committed board on display, laid out
// in a fresh staging grid with rotation reset. The layout is recomputed on
// every selection, never persisted per player. A player with no committed
// guess set shows an empty board rather than failing.
func (e *Engine) SelectPlayer(r *Room, name string) bool {
	if r == nil || r.Status != StatusGuessing || name == "" {
		return false
	}
	p, present := r.Players[name]
	if !present || p == nil {
		return false
	}

	tiles := []TileData{}
	if len(p.TilesAsGuessed) > 0 {
		tiles = e.layout.Grid(p.TilesAsGuessed)
	}
	e.publish(r, RoomPatch{
		GuessingViewState: &GuessingViewState{
			PlayerName:    name,
			BoardRotation: 0,
			Tiles:         tiles,
		},
	})
	e.log.Debug().Str("room", r.Name).Str("viewing", name).Msg("player selected")
	return true
}

// ResetRoom returns the room to a clean gathering lobby. The roster, view
// state, and deck history are cleared wholesale; identity is kept. Legal
// from any phase.
func (e *Engine) ResetRoom(r *Room) bool {
	if r == nil {
		return false
	}
	err := e.doc.Replace(r.ID, RoomFields{
		Status:  StatusGathering,
		Players: map[string]*PlayerData{},
		GuessingViewState: GuessingViewState{
			PlayerName:    "",
			BoardRotation: 0,
			Tiles:         []TileData{},
		},
		DeckState: nil,
	})
	if err != nil {
		e.log.Error().Err(err).Str("room", r.Name).Msg("reset failed")
	}
	e.log.Info().Str("room", r.Name).Msg("room reset")
	return true
}

func rosterNames(r *Room) []string {
	names := make([]string, 0, len(r.Players))
	for name := range r.Players {
		names = append(names, name)
	}
	// Deterministic deal order regardless of map iteration.
	sort.Strings(names)
	return names
}
