// Package store is the shared reactive document substrate: one logical room
// document per name, mutated through field-level merge-patches and observed
// through live subscriptions.
//
// Consistency model, stated plainly rather than hidden behind a "save" call:
// concurrent patches to disjoint fields or disjoint player keys compose;
// concurrent patches to the same scalar field resolve last-write-wins by
// arrival order at the store (lock acquisition order here). There are no
// vector clocks. Callers are expected to tolerate near-duplicate updates by
// making their operations idempotent (e.g. re-snapping rotations on
// receipt).
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shamrock-game/shamrock/internal/game"
)

// Snapshot is one update on a subscription: either the document is still
// loading, or an error occurred, or Room carries the current state. A nil
// Room with Loading false means no room with that name exists yet.
type Snapshot struct {
	Loading bool
	Err     error
	Room    *game.Room
}

// Subscription is a live view of one room by name. C delivers the current
// state immediately, then every change. The channel keeps only the newest
// snapshot: slow consumers skip intermediate states instead of lagging.
type Subscription struct {
	C      <-chan Snapshot
	cancel func()
}

// Cancel detaches the subscription. Idempotent.
func (s *Subscription) Cancel() { s.cancel() }

// Archiver persists room snapshots outside the store's own lifetime. The
// store calls it after every mutation, fire-and-forget.
type Archiver interface {
	SaveSnapshot(ctx context.Context, room *game.Room) error
}

type subscriber struct {
	name string
	ch   chan Snapshot
}

// push delivers a snapshot, displacing an unconsumed older one.
func (sub *subscriber) push(s Snapshot) {
	for {
		select {
		case sub.ch <- s:
			return
		default:
		}
		select {
		case <-sub.ch:
		default:
		}
	}
}

// Mem is the in-memory store implementation.
type Mem struct {
	mu     sync.Mutex
	byID   map[string]*game.Room
	byName map[string]string
	subs   map[*subscriber]struct{}
	arch   Archiver
	log    zerolog.Logger
}

func NewMem(log zerolog.Logger) *Mem {
	return &Mem{
		byID:   map[string]*game.Room{},
		byName: map[string]string{},
		subs:   map[*subscriber]struct{}{},
		log:    log,
	}
}

// SetArchive attaches snapshot persistence. Must be called before the store
// is shared between goroutines.
func (m *Mem) SetArchive(a Archiver) { m.arch = a }

// Restore seeds the store with previously archived rooms, e.g. at process
// start. Existing names win over restored ones.
func (m *Mem) Restore(rooms []*game.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rooms {
		if r == nil || r.Name == "" {
			continue
		}
		if _, taken := m.byName[r.Name]; taken {
			continue
		}
		cp := r.Clone()
		m.byID[cp.ID] = cp
		m.byName[cp.Name] = cp.ID
	}
}

// Subscribe returns a live view of the room with the given name. The first
// snapshot arrives immediately; a nil Room means the caller should
// CreateIfAbsent. The subscription dies with ctx.
func (m *Mem) Subscribe(ctx context.Context, name string) *Subscription {
	sub := &subscriber{name: name, ch: make(chan Snapshot, 1)}

	m.mu.Lock()
	m.subs[sub] = struct{}{}
	sub.push(Snapshot{Room: m.lookupLocked(name)})
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, sub)
			m.mu.Unlock()
		})
	}
	if ctx != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}
	return &Subscription{C: sub.ch, cancel: cancel}
}

func (m *Mem) lookupLocked(name string) *game.Room {
	id, ok := m.byName[name]
	if !ok {
		return nil
	}
	return m.byID[id].Clone()
}

// CreateIfAbsent creates a fresh gathering room under the given name, or
// returns the existing one. First writer wins on a creation race; the loser
// simply observes the winner's room.
func (m *Mem) CreateIfAbsent(name string) *game.Room {
	m.mu.Lock()
	if id, ok := m.byName[name]; ok {
		r := m.byID[id].Clone()
		m.mu.Unlock()
		return r
	}
	r := game.NewRoom(uuid.NewString(), name)
	m.byID[r.ID] = r
	m.byName[name] = r.ID
	m.notifyLocked(r)
	cp := r.Clone()
	m.mu.Unlock()

	m.log.Info().Str("room", name).Str("id", cp.ID).Msg("room created")
	m.archive(cp)
	return cp
}

// List returns a snapshot of every room, sorted by name.
func (m *Mem) List() []*game.Room {
	m.mu.Lock()
	rooms := make([]*game.Room, 0, len(m.byID))
	for _, r := range m.byID {
		rooms = append(rooms, r.Clone())
	}
	m.mu.Unlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms
}

// Get returns the current state of the room with the given name, if any.
func (m *Mem) Get(name string) (*game.Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.lookupLocked(name)
	return r, r != nil
}

// Patch applies a field-level merge-patch to the identified room and fans
// the new state out to subscribers.
func (m *Mem) Patch(roomID string, p game.RoomPatch) error {
	m.mu.Lock()
	r, ok := m.byID[roomID]
	if !ok {
		m.mu.Unlock()
		return ErrRoomNotFound
	}
	p.Apply(r)
	m.notifyLocked(r)
	cp := r.Clone()
	m.mu.Unlock()

	m.archive(cp)
	return nil
}

// Replace overwrites every mutable field of the identified room, used where
// collections must be cleared outright.
func (m *Mem) Replace(roomID string, fields game.RoomFields) error {
	m.mu.Lock()
	r, ok := m.byID[roomID]
	if !ok {
		m.mu.Unlock()
		return ErrRoomNotFound
	}
	fields.Apply(r)
	m.notifyLocked(r)
	cp := r.Clone()
	m.mu.Unlock()

	m.archive(cp)
	return nil
}

func (m *Mem) notifyLocked(r *game.Room) {
	for sub := range m.subs {
		if sub.name == r.Name {
			sub.push(Snapshot{Room: r.Clone()})
		}
	}
}

func (m *Mem) archive(r *game.Room) {
	if m.arch == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.arch.SaveSnapshot(ctx, r); err != nil {
			m.log.Error().Err(err).Str("room", r.Name).Msg("archive snapshot failed")
		}
	}()
}
