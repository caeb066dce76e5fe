// internal/orchestrator/sessions.go
package orchestrator

import (
	"sync"
	"time"
)

type sessionEntry struct {
	session  *Session
	lastUsed time.Time
}

// Sessions keeps conversations alive between queries so each one loads the
// customer record once. Idle sessions are evicted on access.
type Sessions struct {
	mu     sync.Mutex
	loader RecordLoader
	idle   time.Duration
	now    func() time.Time
	byID   map[string]*sessionEntry
}

func NewSessions(loader RecordLoader, idle time.Duration) *Sessions {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Sessions{
		loader: loader,
		idle:   idle,
		now:    time.Now,
		byID:   make(map[string]*sessionEntry),
	}
}

// Get returns the session for id, starting one when id is empty, unknown or
// expired. An id owned by a different customer gets a fresh session under a
// new id.
func (s *Sessions) Get(id, customerID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if e, ok := s.byID[id]; ok && id != "" {
		if e.session.CustomerID == customerID {
			e.lastUsed = now
			return e.session
		}
		// The id belongs to another customer; never replace their session.
		id = ""
	}

	sess := NewSession(id, customerID, s.loader)
	s.byID[sess.ID] = &sessionEntry{session: sess, lastUsed: now}
	return sess
}

// Lookup returns a live session without creating one.
func (s *Sessions) Lookup(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)
	e, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = now
	return e.session, true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *Sessions) evictLocked(now time.Time) {
	for id, e := range s.byID {
		if now.Sub(e.lastUsed) > s.idle {
			delete(s.byID, id)
		}
	}
}
