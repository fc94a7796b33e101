// Package session holds the gateway's per-browser sessions: the cached
// identity, the backend session credentials, and the in-progress booking
// draft. Sessions live in memory only; the backend owns all durable state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"equishare-gateway/internal/backend"
	"equishare-gateway/internal/booking"
	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
	"equishare-gateway/internal/security"
)

var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session has expired")
)

// Session is one authenticated browser session. The cached identity is read
// by request handlers while the revalidation job rewrites it, so access goes
// through User/SetUser under the session's own lock. The remaining fields are
// fixed at construction.
type Session struct {
	ID            string
	Draft         *booking.Draft
	CreatedAt     time.Time
	ExpiresAt     time.Time
	backendCookie string

	mu            sync.RWMutex
	user          *domain.User
	lastValidated time.Time
}

// User returns the cached backend identity.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser replaces the cached identity and stamps the validation time.
func (s *Session) SetUser(u *domain.User) {
	s.mu.Lock()
	s.user = u
	s.lastValidated = time.Now()
	s.mu.Unlock()
}

// Expired reports whether the session has passed its TTL.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Manager owns the session table. It is constructed once in main and
// injected wherever the current user is needed; there is no package-level
// singleton.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	backend *backend.Client
	tokens  security.TokenManager
	ttl     time.Duration
}

// NewManager creates a session manager backed by the given client.
func NewManager(client *backend.Client, tokens security.TokenManager, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		backend:  client,
		tokens:   tokens,
		ttl:      ttl,
	}
}

// Login authenticates against the backend, creates a session, and returns it
// together with the signed token for the gateway cookie.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, string, error) {
	user, cookie, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	sess := &Session{
		ID:            uuid.NewString(),
		Draft:         booking.NewDraft(),
		CreatedAt:     now,
		ExpiresAt:     now.Add(m.ttl),
		backendCookie: cookie,
		user:          user,
		lastValidated: now,
	}

	token, err := m.tokens.GenerateSessionToken(sess.ID, m.ttl)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	logger.Info("Session created", "session_id", sess.ID, "user_id", user.ID)
	return sess, token, nil
}

// Signup registers a new account; the user then logs in normally.
func (m *Manager) Signup(ctx context.Context, fullName, username, email, password string) error {
	return m.backend.Signup(ctx, fullName, username, email, password)
}

// Logout invalidates the session. The backend call is best-effort; local
// state is cleared either way so sign-out never strands the browser.
func (m *Manager) Logout(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}
	if err := m.backend.Logout(m.Context(ctx, sess)); err != nil {
		logger.Warn("Backend logout failed, dropping session anyway", "session_id", sess.ID, "error", err)
	}
	m.mu.Lock()
	delete(m.sessions, sess.ID)
	m.mu.Unlock()
	logger.Info("Session ended", "session_id", sess.ID)
}

// Resume looks up the session named by a gateway token. The identity is the
// cached one; RefreshIdentity re-checks it against the backend.
func (m *Manager) Resume(token string) (*Session, error) {
	sessionID, err := m.tokens.ValidateSessionToken(token)
	if err != nil {
		return nil, ErrNoSession
	}

	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}
	if sess.Expired(time.Now()) {
		m.mu.Lock()
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// RefreshIdentity performs the "who am I" check for a session. A backend
// rejection drops the session; an unreachable backend keeps the cached
// identity (advisory check, degrade rather than fail).
func (m *Manager) RefreshIdentity(ctx context.Context, sess *Session) error {
	user, err := m.backend.Me(m.Context(ctx, sess))
	if err != nil {
		if backend.IsUnauthorized(err) {
			m.mu.Lock()
			delete(m.sessions, sess.ID)
			m.mu.Unlock()
			logger.Info("Backend no longer recognizes session, dropped", "session_id", sess.ID)
			return ErrNoSession
		}
		logger.Warn("Identity check unavailable, keeping cached user", "session_id", sess.ID, "error", err)
		return nil
	}

	sess.SetUser(user)
	return nil
}

// Context returns a request context carrying the session's backend
// credentials.
func (m *Manager) Context(ctx context.Context, sess *Session) context.Context {
	return backend.WithCredentials(ctx, sess.backendCookie)
}

// SweepExpired drops expired sessions and returns how many were removed.
func (m *Manager) SweepExpired() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if sess.Expired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RevalidateAll re-checks every live session's identity against the backend.
func (m *Manager) RevalidateAll(ctx context.Context) {
	m.mu.RLock()
	live := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		live = append(live, sess)
	}
	m.mu.RUnlock()

	for _, sess := range live {
		_ = m.RefreshIdentity(ctx, sess)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
