package bridge

import "sync"

// SessionStore holds the identifier of the last completed session.
// The zero value is empty and ready to use. The lock is held only for a
// single read or write, never across a dispatch.
type SessionStore struct {
	mu sync.Mutex
	id string
	ok bool
}

// NewSessionStore returns a store seeded with id, or an empty store when id
// is "".
func NewSessionStore(id string) *SessionStore {
	s := &SessionStore{}
	if id != "" {
		s.Set(id)
	}
	return s
}

// Current returns the held identifier.
func (s *SessionStore) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.ok
}

// Set replaces the held identifier.
func (s *SessionStore) Set(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.ok = id, true
}

// Clear forgets the held identifier so the next dispatch starts fresh.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.ok = "", false
}
