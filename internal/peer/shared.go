package peer

import "sync"

// SharedMap and SharedArray are the contract the engine expects from the
// peer replication substrate. Values are opaque whole entries; the engine
// never relies on conflict resolution finer than whole-entry replace.
type SharedMap interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	Keys() []string
	// Observe registers a callback invoked after any mutation, local or
	// replicated. The returned function unregisters it.
	Observe(func()) (unobserve func())
}

type SharedArray interface {
	Len() int
	Get(i int) any
	Append(values ...any)
	// Observe registers a callback invoked after any mutation, local or
	// replicated. The returned function unregisters it.
	Observe(func()) (unobserve func())
}

// Doc is a local, unreplicated implementation of the shared-document
// contract: named maps and arrays with observers. It stands in for the
// external CRDT provider in tests and single-process runs.
type Doc struct {
	mu     sync.Mutex
	guid   string
	maps   map[string]*memMap
	arrays map[string]*memArray
}

func NewDoc(guid string) *Doc {
	return &Doc{
		guid:   guid,
		maps:   map[string]*memMap{},
		arrays: map[string]*memArray{},
	}
}

func (d *Doc) GUID() string { return d.guid }

func (d *Doc) GetMap(name string) SharedMap {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.maps[name]
	if !ok {
		m = &memMap{entries: map[string]any{}, observers: map[int]func(){}}
		d.maps[name] = m
	}
	return m
}

func (d *Doc) GetArray(name string) SharedArray {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.arrays[name]
	if !ok {
		a = &memArray{observers: map[int]func(){}}
		d.arrays[name] = a
	}
	return a
}

type memMap struct {
	mu        sync.Mutex
	entries   map[string]any
	observers map[int]func()
	nextObs   int
}

func (m *memMap) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *memMap) Set(key string, value any) {
	m.mu.Lock()
	m.entries[key] = value
	obs := m.observerList()
	m.mu.Unlock()
	for _, f := range obs {
		f()
	}
}

func (m *memMap) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	obs := m.observerList()
	m.mu.Unlock()
	for _, f := range obs {
		f()
	}
}

func (m *memMap) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}

func (m *memMap) Observe(f func()) func() {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = f
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

func (m *memMap) observerList() []func() {
	obs := make([]func(), 0, len(m.observers))
	for _, f := range m.observers {
		obs = append(obs, f)
	}
	return obs
}

type memArray struct {
	mu        sync.Mutex
	entries   []any
	observers map[int]func()
	nextObs   int
}

func (a *memArray) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

func (a *memArray) Get(i int) any {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.entries) {
		return nil
	}
	return a.entries[i]
}

func (a *memArray) Append(values ...any) {
	a.mu.Lock()
	a.entries = append(a.entries, values...)
	obs := make([]func(), 0, len(a.observers))
	for _, f := range a.observers {
		obs = append(obs, f)
	}
	a.mu.Unlock()
	for _, f := range obs {
		f()
	}
}

func (a *memArray) Observe(f func()) func() {
	a.mu.Lock()
	id := a.nextObs
	a.nextObs++
	a.observers[id] = f
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.observers, id)
		a.mu.Unlock()
	}
}
