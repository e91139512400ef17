package game

// Status is the phase a room is currently in. It drives which mutations are
// legal: players may only join or leave while gathering, clues may only be
// edited while cluing, and the shared board is only live while guessing.
type Status string

const (
	StatusGathering Status = "gathering"
	StatusCluing    Status = "cluing"
	StatusGuessing  Status = "guessing"
)

// TileData is a tile as laid out on the virtual canvas. Words are printed on
// the tile's four edges in order, fixed relative to the tile's own unrotated
// frame; Rotation is radians and is always a multiple of π/2 once published.
type TileData struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation float64  `json:"rotation"`
	Words    []string `json:"words"`

	// DraggingUser names the player currently moving this tile, so other
	// viewers can attribute the motion. Empty when the tile is at rest.
	DraggingUser string `json:"draggingUser,omitempty"`
}

// GuessingViewState is the board snapshot every participant sees during the
// guessing phase: whose tile set is on display, the accumulated board
// rotation, and where each tile currently sits.
type GuessingViewState struct {
	PlayerName    string     `json:"playerName"`
	BoardRotation float64    `json:"boardRotation"`
	Tiles         []TileData `json:"tiles"`
}

// PlayerData is the per-player slice of a room. It has no identity outside
// its room; the player's display name is the map key and acts as identity.
type PlayerData struct {
	ReadyToGuess bool `json:"readyToGuess"`

	// TilesAsClued are the four tile sets the player writes clues for,
	// fixed at deal time for the whole cluing phase.
	TilesAsClued [][]string `json:"tilesAsClued"`

	// TilesForDistractors is the pool of decoy tile sets that may be mixed
	// into this player's guess board.
	TilesForDistractors [][]string `json:"tilesForDistractors"`

	// TilesAsGuessed is the finalized board content shown to guessers.
	// Generated exactly once, when the player marks ready; never recomputed
	// afterwards, so the guess set cannot depend on later edits.
	TilesAsGuessed [][]string `json:"tilesAsGuessed"`

	NumDistractors int      `json:"numDistractors"`
	Clues          []string `json:"clues"`
}

// DeckState tracks which tile-set indices have been drawn across repeated
// re-deals within one room lifetime, so sets do not repeat until the pool is
// exhausted.
type DeckState struct {
	UsedTileIndices []int `json:"usedTileIndices"`
	TotalTiles      int   `json:"totalTiles"`
}

// Room is one game session's complete shared state. Every connected client
// may mutate any field through merge-patches; convergence is last-write-wins
// per field with independent merge per player key.
type Room struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Status            Status                 `json:"status"`
	Players           map[string]*PlayerData `json:"players"`
	GuessingViewState GuessingViewState      `json:"guessingViewState"`
	DeckState         *DeckState             `json:"deckState,omitempty"`
}

// NewRoom returns a fresh room in the gathering phase with an empty roster.
func NewRoom(id, name string) *Room {
	return &Room{
		ID:      id,
		Name:    name,
		Status:  StatusGathering,
		Players: map[string]*PlayerData{},
	}
}

// Player returns the named player's data, or an empty zero-state PlayerData
// if the name is unknown. Absent data is normalized to defaults at this
// boundary so callers never deal with missing values.
func (r *Room) Player(name string) *PlayerData {
	if p, ok := r.Players[name]; ok && p != nil {
		return p
	}
	return &PlayerData{Clues: emptyClues()}
}

// AllReady reports whether every player in the roster has marked ready.
// True for an empty roster.
func (r *Room) AllReady() bool {
	for _, p := range r.Players {
		if p == nil || !p.ReadyToGuess {
			return false
		}
	}
	return true
}

// ReadyFraction returns the fraction of players that have marked ready,
// in [0, 1]. Zero for an empty roster.
func (r *Room) ReadyFraction() float64 {
	if len(r.Players) == 0 {
		return 0
	}
	ready := 0
	for _, p := range r.Players {
		if p != nil && p.ReadyToGuess {
			ready++
		}
	}
	return float64(ready) / float64(len(r.Players))
}

// DeckStats are derived deck-tracker numbers for display.
type DeckStats struct {
	Used      int
	Remaining int
	Total     int
}

// DeckStats reports how much of the tile-set pool this room has consumed.
// A room without deck tracking reports all zeros.
func (r *Room) DeckStats() DeckStats {
	if r.DeckState == nil {
		return DeckStats{}
	}
	used := len(r.DeckState.UsedTileIndices)
	return DeckStats{
		Used:      used,
		Remaining: r.DeckState.TotalTiles - used,
		Total:     r.DeckState.TotalTiles,
	}
}

// Clone deep-copies the room so that snapshots handed to subscribers can
// never alias state owned by the store.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	cp := &Room{
		ID:     r.ID,
		Name:   r.Name,
		Status: r.Status,
		GuessingViewState: GuessingViewState{
			PlayerName:    r.GuessingViewState.PlayerName,
			BoardRotation: r.GuessingViewState.BoardRotation,
			Tiles:         cloneTiles(r.GuessingViewState.Tiles),
		},
		Players: make(map[string]*PlayerData, len(r.Players)),
	}
	for name, p := range r.Players {
		cp.Players[name] = p.Clone()
	}
	if r.DeckState != nil {
		cp.DeckState = &DeckState{
			UsedTileIndices: append([]int(nil), r.DeckState.UsedTileIndices...),
			TotalTiles:      r.DeckState.TotalTiles,
		}
	}
	return cp
}

// Clone deep-copies the player data.
func (p *PlayerData) Clone() *PlayerData {
	if p == nil {
		return nil
	}
	return &PlayerData{
		ReadyToGuess:        p.ReadyToGuess,
		TilesAsClued:        cloneTileSets(p.TilesAsClued),
		TilesForDistractors: cloneTileSets(p.TilesForDistractors),
		TilesAsGuessed:      cloneTileSets(p.TilesAsGuessed),
		NumDistractors:      p.NumDistractors,
		Clues:               append([]string(nil), p.Clues...),
	}
}

func cloneTiles(tiles []TileData) []TileData {
	if tiles == nil {
		return nil
	}
	cp := make([]TileData, len(tiles))
	for i, t := range tiles {
		cp[i] = t
		cp[i].Words = append([]string(nil), t.Words...)
	}
	return cp
}

func cloneTileSets(sets [][]string) [][]string {
	if sets == nil {
		return nil
	}
	cp := make([][]string, len(sets))
	for i, s := range sets {
		cp[i] = append([]string(nil), s...)
	}
	return cp
}

func emptyClues() []string {
	return []string{"", "", "", ""}
}
