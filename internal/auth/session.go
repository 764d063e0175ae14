package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harusports/teamsite/pkg/metrics"
)

const defaultSessionTTL = 12 * time.Hour

// SessionStore holds issued session tokens with a sliding expiry.
// Purely in-memory: a restart logs every admin out.
type SessionStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// SessionOption applies a configuration option to the SessionStore.
type SessionOption func(*SessionStore)

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) SessionOption {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSessionClock overrides the time source, used by tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionStore creates a session store with the given options.
func NewSessionStore(opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		expires: make(map[string]time.Time),
		ttl:     defaultSessionTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a new session token.
func (s *SessionStore) Issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.expires[token] = s.now().Add(s.ttl)
	metrics.UpdateActiveSessions(len(s.expires))
	return token
}

// Validate reports whether the token names a live session and extends
// its expiry on success.
func (s *SessionStore) Validate(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	exp, ok := s.expires[token]
	if !ok || s.now().After(exp) {
		return false
	}
	s.expires[token] = s.now().Add(s.ttl)
	return true
}

// Revoke forgets a session token. Unknown tokens are ignored.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.expires, token)
	metrics.UpdateActiveSessions(len(s.expires))
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	return len(s.expires)
}

func (s *SessionStore) pruneLocked() {
	now := s.now()
	for token, exp := range s.expires {
		if now.After(exp) {
			delete(s.expires, token)
		}
	}
	metrics.UpdateActiveSessions(len(s.expires))
}
