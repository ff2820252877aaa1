package handlers

import (
	"sync"
)

// SessionRegistry tracks active screen-guidance sessions. Each session's own
// loop inserts itself at start and removes itself at end; the only other
// consumer is the health check, which reads the count.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*ScreenSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*ScreenSession),
	}
}

// Add inserts a session, replacing any stale entry with the same id.
func (r *SessionRegistry) Add(session *ScreenSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

// Remove deletes a session by id. Removing an absent id is a no-op.
func (r *SessionRegistry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Get returns the session for an id, or nil.
func (r *SessionRegistry) Get(sessionID string) *ScreenSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[sessionID]
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
