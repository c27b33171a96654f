package calc

import "sync"

// Session owns one calculator state on behalf of concurrent callers.
//
// Actions are applied one at a time, so at most one Calculate is evaluating and readers only ever
// observe whole states.
type Session struct {
	m *Machine

	mu    sync.Mutex
	state State
	seq   uint64
}

// NewSession returns an empty session. A nil m uses NewMachine(nil).
func NewSession(m *Machine) *Session {
	if m == nil {
		m = NewMachine(nil)
	}
	return &Session{m: m}
}

// Dispatch applies a and returns a copy of the resulting state.
func (s *Session) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.m.Apply(s.state, a)
	s.seq++
	return s.state.Clone()
}

// DispatchAll applies actions in order without interleaving other callers.
func (s *Session) DispatchAll(actions []Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.m.ApplyAll(s.state, actions)
	s.seq += uint64(len(actions))
	return s.state.Clone()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Seq returns the number of actions applied so far.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset returns the session to the empty state.
func (s *Session) Reset() {
	s.Dispatch(Clear())
}
