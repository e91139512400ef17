package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamrock-game/shamrock/internal/game"
)

func recvSnapshot(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case s := <-sub.C:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestCreateIfAbsent(t *testing.T) {
	m := NewMem(zerolog.Nop())

	r := m.CreateIfAbsent("friday")

	require.NotNil(t, r)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "friday", r.Name)
	assert.Equal(t, game.StatusGathering, r.Status)
	assert.Empty(t, r.Players)
}

func TestCreateIfAbsent_FirstWriterWins(t *testing.T) {
	m := NewMem(zerolog.Nop())

	first := m.CreateIfAbsent("friday")
	second := m.CreateIfAbsent("friday")

	assert.Equal(t, first.ID, second.ID)
}

func TestGet(t *testing.T) {
	m := NewMem(zerolog.Nop())
	m.CreateIfAbsent("friday")

	r, ok := m.Get("friday")
	require.True(t, ok)
	assert.Equal(t, "friday", r.Name)

	_, ok = m.Get("nonexistent")
	assert.False(t, ok)
}

func TestList_SortedByName(t *testing.T) {
	m := NewMem(zerolog.Nop())
	m.CreateIfAbsent("saturday")
	m.CreateIfAbsent("friday")

	rooms := m.List()

	require.Len(t, rooms, 2)
	assert.Equal(t, "friday", rooms[0].Name)
	assert.Equal(t, "saturday", rooms[1].Name)
}

func TestPatch_UnknownRoom(t *testing.T) {
	m := NewMem(zerolog.Nop())
	err := m.Patch("no-such-id", game.RoomPatch{})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestPatch_DisjointPlayerKeysCompose(t *testing.T) {
	m := NewMem(zerolog.Nop())
	r := m.CreateIfAbsent("friday")

	aliceReady := true
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{
		Players: map[string]*game.PlayerPatch{
			"alice": {Clues: []string{"sun", "", "", ""}},
		},
	}))
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{
		Players: map[string]*game.PlayerPatch{
			"bob": {ReadyToGuess: &aliceReady},
		},
	}))

	cur, _ := m.Get("friday")
	assert.Equal(t, []string{"sun", "", "", ""}, cur.Player("alice").Clues)
	assert.True(t, cur.Player("bob").ReadyToGuess)
}

func TestPatch_LastWriteWinsPerField(t *testing.T) {
	m := NewMem(zerolog.Nop())
	r := m.CreateIfAbsent("friday")

	cluing := game.StatusCluing
	guessing := game.StatusGuessing
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{Status: &cluing}))
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{Status: &guessing}))

	cur, _ := m.Get("friday")
	assert.Equal(t, game.StatusGuessing, cur.Status)
}

func TestPatch_NilPlayerEntryDeletes(t *testing.T) {
	m := NewMem(zerolog.Nop())
	r := m.CreateIfAbsent("friday")

	require.NoError(t, m.Patch(r.ID, game.RoomPatch{
		Players: map[string]*game.PlayerPatch{
			"alice": {Clues: []string{"a", "", "", ""}},
			"bob":   {Clues: []string{"b", "", "", ""}},
		},
	}))
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{
		Players: map[string]*game.PlayerPatch{"alice": nil},
	}))

	cur, _ := m.Get("friday")
	assert.NotContains(t, cur.Players, "alice")
	assert.Contains(t, cur.Players, "bob", "siblings untouched by the absent marker")
}

func TestReplace_ClearsCollections(t *testing.T) {
	m := NewMem(zerolog.Nop())
	r := m.CreateIfAbsent("friday")
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{
		Players: map[string]*game.PlayerPatch{
			"alice": {Clues: []string{"a", "", "", ""}},
		},
		DeckState: &game.DeckState{UsedTileIndices: []int{1, 2}, TotalTiles: 48},
	}))

	require.NoError(t, m.Replace(r.ID, game.RoomFields{
		Status:  game.StatusGathering,
		Players: map[string]*game.PlayerData{},
	}))

	cur, _ := m.Get("friday")
	assert.Equal(t, r.ID, cur.ID, "identity survives replace")
	assert.Empty(t, cur.Players)
	assert.Nil(t, cur.DeckState)
}

func TestSubscribe_ImmediateFirstSnapshot(t *testing.T) {
	m := NewMem(zerolog.Nop())

	sub := m.Subscribe(context.Background(), "friday")
	defer sub.Cancel()

	snap := recvSnapshot(t, sub)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Room, "nil room signals the name does not exist yet")

	m.CreateIfAbsent("friday")
	snap = recvSnapshot(t, sub)
	require.NotNil(t, snap.Room)
	assert.Equal(t, "friday", snap.Room.Name)
}

func TestSubscribe_ObservesPatches(t *testing.T) {
	m := NewMem(zerolog.Nop())
	r := m.CreateIfAbsent("friday")

	sub := m.Subscribe(context.Background(), "friday")
	defer sub.Cancel()
	recvSnapshot(t, sub) // initial state

	cluing := game.StatusCluing
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{Status: &cluing}))

	snap := recvSnapshot(t, sub)
	assert.Equal(t, game.StatusCluing, snap.Room.Status)
}

func TestSubscribe_LatestWins(t *testing.T) {
	m := NewMem(zerolog.Nop())
	r := m.CreateIfAbsent("friday")

	sub := m.Subscribe(context.Background(), "friday")
	defer sub.Cancel()

	// Nothing consumed while three patches land: the channel must hold only
	// the newest state.
	cluing := game.StatusCluing
	guessing := game.StatusGuessing
	gathering := game.StatusGathering
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{Status: &cluing}))
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{Status: &guessing}))
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{Status: &gathering}))

	snap := recvSnapshot(t, sub)
	assert.Equal(t, game.StatusGathering, snap.Room.Status)

	select {
	case extra := <-sub.C:
		t.Fatalf("expected a single coalesced snapshot, got another: %+v", extra)
	default:
	}
}

func TestSubscribe_SnapshotsDoNotAlias(t *testing.T) {
	m := NewMem(zerolog.Nop())
	r := m.CreateIfAbsent("friday")
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{
		Players: map[string]*game.PlayerPatch{
			"alice": {Clues: []string{"sun", "", "", ""}},
		},
	}))

	cur, _ := m.Get("friday")
	cur.Players["alice"].Clues[0] = "tampered"

	again, _ := m.Get("friday")
	assert.Equal(t, "sun", again.Player("alice").Clues[0])
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	m := NewMem(zerolog.Nop())
	r := m.CreateIfAbsent("friday")

	sub := m.Subscribe(context.Background(), "friday")
	recvSnapshot(t, sub)
	sub.Cancel()
	sub.Cancel() // idempotent

	cluing := game.StatusCluing
	require.NoError(t, m.Patch(r.ID, game.RoomPatch{Status: &cluing}))

	select {
	case <-sub.C:
		t.Fatal("cancelled subscription still received a snapshot")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRestore(t *testing.T) {
	m := NewMem(zerolog.Nop())
	m.Restore([]*game.Room{
		game.NewRoom("id-1", "friday"),
		nil,
		game.NewRoom("id-2", ""),
	})

	r, ok := m.Get("friday")
	require.True(t, ok)
	assert.Equal(t, "id-1", r.ID)

	// Existing names win over restored ones.
	m.Restore([]*game.Room{game.NewRoom("id-3", "friday")})
	r, _ = m.Get("friday")
	assert.Equal(t, "id-1", r.ID)
}

type captureArchiver struct {
	mu    sync.Mutex
	saved []*game.Room
	done  chan struct{}
}

func (a *captureArchiver) SaveSnapshot(ctx context.Context, room *game.Room) error {
	a.mu.Lock()
	a.saved = append(a.saved, room)
	a.mu.Unlock()
	select {
	case a.done <- struct{}{}:
	default:
	}
	return nil
}

func TestArchive_CalledAfterMutations(t *testing.T) {
	arch := &captureArchiver{done: make(chan struct{}, 10)}
	m := NewMem(zerolog.Nop())
	m.SetArchive(arch)

	m.CreateIfAbsent("friday")

	select {
	case <-arch.done:
	case <-time.After(time.Second):
		t.Fatal("archiver was not called")
	}

	arch.mu.Lock()
	defer arch.mu.Unlock()
	require.NotEmpty(t, arch.saved)
	assert.Equal(t, "friday", arch.saved[0].Name)
}
