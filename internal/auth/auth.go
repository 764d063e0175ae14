package auth

import (
	"context"
	"errors"

	"github.com/harusports/teamsite/pkg/metrics"
)

// SessionCookie is the cookie carrying the admin session token.
const SessionCookie = "teamsite_session"

// ErrInvalidCredentials is returned for a wrong user or password. The
// two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator implements the identity seam: login/logout and the
// current-session check. With no credentials loaded it runs open, which
// is meant for local development only.
type Authenticator struct {
	creds    *Credentials
	sessions *SessionStore
}

// New creates an Authenticator. creds may be nil for open dev mode.
func New(creds *Credentials, sessions *SessionStore) *Authenticator {
	if sessions == nil {
		sessions = NewSessionStore()
	}
	return &Authenticator{creds: creds, sessions: sessions}
}

// Open reports whether the authenticator runs without credentials.
func (a *Authenticator) Open() bool { return a.creds == nil }

// Login verifies the credentials and issues a session token.
func (a *Authenticator) Login(ctx context.Context, user, password string) (string, error) {
	if a.Open() {
		return a.sessions.Issue(), nil
	}
	ok, err := VerifyPassword(password, a.creds.hash)
	if err != nil || !ok || user != a.creds.User {
		metrics.RecordLoginFailure()
		return "", ErrInvalidCredentials
	}
	return a.sessions.Issue(), nil
}

// Logout revokes the session token.
func (a *Authenticator) Logout(ctx context.Context, token string) {
	a.sessions.Revoke(token)
}

// Validate reports whether the token names a live session.
func (a *Authenticator) Validate(ctx context.Context, token string) bool {
	if a.Open() {
		return true
	}
	return a.sessions.Validate(token)
}

// Sessions exposes the session store for stats reporting.
func (a *Authenticator) Sessions() *SessionStore { return a.sessions }
