package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aircha/todo-web/internal/core/domain"
)

type sessionEntry struct {
	user      domain.SessionUser
	expiresAt time.Time
}

// SessionStore implements ports.SessionStore. Expired entries are dropped
// lazily on access.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]sessionEntry), now: time.Now}
}

func (s *SessionStore) Ping(context.Context) error { return nil }

func (s *SessionStore) Save(_ context.Context, sid string, user domain.SessionUser, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sid] = sessionEntry{user: user, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, sid string) (*domain.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sid]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, sid)
		return nil, domain.ErrSessionNotFound
	}
	user := entry.user
	return &user, nil
}

func (s *SessionStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sid)
	return nil
}

// PurgeExpired drops every expired session and reports how many were removed.
func (s *SessionStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for sid, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, sid)
			removed++
		}
	}
	return removed, nil
}
