package session

import (
	"sync"

	"github.com/Fasscorp/FassimoV3/internal/logging"
)

// TurnSink mirrors history mutations to a durable backend. All methods are
// best-effort from the session layer's point of view: failures are logged and
// the in-memory history remains authoritative for the running process.
type TurnSink interface {
	AppendTurn(sessionID string, t Turn) error
	Turns(sessionID string) ([]Turn, error)
	ClearTurns(sessionID string) error
}

// State is the per-session conversation state: which flow is active and the
// ordered history of turns. History is append-only; it is never mutated in
// place, only appended to or wholesale cleared.
type State struct {
	mu      sync.Mutex
	id      string
	flow    Flow
	history []Turn
	sink    TurnSink
}

// ID returns the session id this state belongs to.
func (s *State) ID() string {
	return s.id
}

// Flow returns the currently active flow.
func (s *State) Flow() Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow
}

// SetFlow switches the active flow.
func (s *State) SetFlow(f Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flow = f
}

// Append adds a turn to the history and mirrors it to the sink if one is set.
func (s *State) Append(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, t)
	if s.sink != nil {
		if err := s.sink.AppendTurn(s.id, t); err != nil {
			logging.Get(logging.CategoryStore).Warn("failed to mirror turn for session %s: %v", s.id, err)
		}
	}
}

// History returns a copy of the turn sequence in conversational order.
func (s *State) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of turns in history.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// ClearHistory drops all turns, e.g. when a fresh interview starts.
func (s *State) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	if s.sink != nil {
		if err := s.sink.ClearTurns(s.id); err != nil {
			logging.Get(logging.CategoryStore).Warn("failed to clear mirrored turns for session %s: %v", s.id, err)
		}
	}
}

// Reset returns the state to its initial value: no active flow, empty history.
func (s *State) Reset() {
	s.SetFlow(FlowNone)
	s.ClearHistory()
}
