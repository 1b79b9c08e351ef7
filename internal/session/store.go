package session

import (
	"sync"

	"github.com/Fasscorp/FassimoV3/internal/logging"
)

// Store retrieves per-session state by id. Implementations must hand back the
// same *State for the same id until Reset is called for it.
type Store interface {
	// Get returns the state for a session, creating it empty on first access.
	Get(id string) *State
	// Reset reinitializes a session to no active flow and empty history.
	Reset(id string) *State
}

// MemoryStore is an in-memory keyed session store. With a TurnSink attached it
// restores history on first access and mirrors every mutation, so a process
// restart resumes where the conversation left off.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*State
	sink     TurnSink
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithSink attaches a durable turn mirror to every session the store creates.
func WithSink(sink TurnSink) Option {
	return func(m *MemoryStore) { m.sink = sink }
}

// NewMemoryStore creates an empty session store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{sessions: make(map[string]*State)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the state for id, creating it on first access. When a sink is
// attached, previously mirrored turns are loaded into the fresh state.
func (m *MemoryStore) Get(id string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.sessions[id]; ok {
		return st
	}

	st := &State{id: id, sink: m.sink}
	if m.sink != nil {
		turns, err := m.sink.Turns(id)
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("failed to restore history for session %s: %v", id, err)
		} else if len(turns) > 0 {
			st.history = turns
			logging.Store("Restored %d turns for session %s", len(turns), id)
		}
	}
	m.sessions[id] = st
	return st
}

// Reset reinitializes the session to its initial value and returns it.
func (m *MemoryStore) Reset(id string) *State {
	st := m.Get(id)
	st.Reset()
	return st
}
