// ABOUTME: In-memory session store with TTL cleanup and capacity limits.
// ABOUTME: Thread-safe storage for viewer sessions keyed by uuid.
package viewer

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	builder     AutomatonBuilder
}

// NewStore creates a session store whose sessions use b.
func NewStore(maxSessions int, ttl time.Duration, b AutomatonBuilder) *Store {
	if b == nil {
		b = Passthrough{}
	}
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
		builder:     b,
	}
}

// Create builds a session from source text. Nothing is stored if the text
// does not build.
func (s *Store) Create(source string, opts Options) (*Session, error) {
	sess := NewSession(uuid.New().String(), s.builder, opts)
	if err := sess.Refresh(source); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldest()
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

// evictOldest drops the least recently used session. Callers hold the lock.
func (s *Store) evictOldest() {
	var oldestID string
	var oldestTime time.Time
	for id, sess := range s.sessions {
		if oldestTime.IsZero() || sess.LastAccess.Before(oldestTime) {
			oldestID = id
			oldestTime = sess.LastAccess
		}
	}
	delete(s.sessions, oldestID)
	log.Printf("component=viewer action=evict session=%s", oldestID)
}

// Get retrieves a session by ID and updates its LastAccess time.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.LastAccess = time.Now()
	return sess, true
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how many were removed.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanup starts a background cleanup goroutine and returns a stop function.
func (s *Store) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if n := s.Cleanup(); n > 0 {
					log.Printf("component=viewer action=cleanup removed=%d", n)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
