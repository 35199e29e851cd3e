package calendar

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Sessions holds the dialog state of every user with an open dialog.
// It is safe for concurrent use.
type Sessions struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[int64]session
}

type session struct {
	state   State
	touched time.Time
}

// NewSessions creates an empty session table.
func NewSessions(clock clockwork.Clock) *Sessions {
	return &Sessions{clock: clock, entries: make(map[int64]session)}
}

// Get returns the state of userID, or nil when the user is idle.
func (s *Sessions) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[userID].state
}

// Set stores st for userID. A nil state clears the session.
func (s *Sessions) Set(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st == nil {
		delete(s.entries, userID)
		return
	}
	s.entries[userID] = session{state: st, touched: s.clock.Now()}
}

// Clear ends the dialog of userID and reports whether one was open.
func (s *Sessions) Clear(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[userID]
	delete(s.entries, userID)
	return ok
}

// PruneIdle removes sessions last touched before cutoff and returns how many were removed.
func (s *Sessions) PruneIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
