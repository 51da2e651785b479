package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JonMunkholm/PropCompare/internal/metrics"
)

// SessionManager owns every live Session. Sessions expire after a period of
// inactivity; each Get extends the deadline.
type SessionManager struct {
	catalog  Catalog
	recorder ActivityRecorder
	sessions *cache.Cache
}

// NewSessionManager creates a manager whose sessions expire after ttl of
// inactivity, swept every cleanupInterval.
func NewSessionManager(catalog Catalog, recorder ActivityRecorder, ttl, cleanupInterval time.Duration) *SessionManager {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	sessions := cache.New(ttl, cleanupInterval)
	sessions.OnEvicted(func(string, interface{}) {
		metrics.ActiveSessions.Dec()
	})
	return &SessionManager{
		catalog:  catalog,
		recorder: recorder,
		sessions: sessions,
	}
}

// Create starts a new session with a random ID.
func (m *SessionManager) Create() *Session {
	s := NewSession(uuid.NewString(), m.catalog, m.recorder)
	m.sessions.Set(s.ID, s, cache.DefaultExpiration)
	metrics.ActiveSessions.Inc()
	return s
}

// Get returns a live session and extends its expiry.
func (m *SessionManager) Get(id string) (*Session, bool) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	m.sessions.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// Delete ends a session.
func (m *SessionManager) Delete(id string) {
	m.sessions.Delete(id)
}

// Count returns the number of sessions held, including expired ones not yet
// swept.
func (m *SessionManager) Count() int {
	return m.sessions.ItemCount()
}
