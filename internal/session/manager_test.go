package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"equishare-gateway/internal/backend"
	"equishare-gateway/internal/security"
)

const testSecret = "session-manager-test-secret-0123456789"

// fakeBackend serves just enough of the backend API for session flows.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "backend-session"})
		w.Write([]byte(`{"user": {"id": 5, "fullName": "Ana", "username": "ana", "email": "ana@example.com"}}`))
	})
	mux.HandleFunc("/api/me/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Authentication credentials were not provided."}`))
			return
		}
		w.Write([]byte(`{"user": {"id": 5, "fullName": "Ana Updated", "username": "ana", "email": "ana@example.com"}}`))
	})
	mux.HandleFunc("/api/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	return httptest.NewServer(mux)
}

func newTestManager(t *testing.T, baseURL string, ttl time.Duration) *Manager {
	t.Helper()
	client := backend.NewClient(baseURL, 2*time.Second)
	return NewManager(client, security.NewTokenManager(testSecret), ttl)
}

func TestLoginAndResume(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	m := newTestManager(t, srv.URL, time.Hour)

	sess, token, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int32(5), sess.User().ID)
	assert.NotNil(t, sess.Draft)
	assert.Equal(t, 1, m.Count())

	resumed, err := m.Resume(token)
	assert.NoError(t, err)
	assert.Same(t, sess, resumed)
}

func TestResumeRejectsBadTokens(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	m := newTestManager(t, srv.URL, time.Hour)

	_, err := m.Resume("not-a-token")
	assert.Error(t, err)

	// Valid signature but no matching session in the table.
	orphan, err := security.NewTokenManager(testSecret).GenerateSessionToken("missing-id", time.Hour)
	assert.NoError(t, err)
	_, err = m.Resume(orphan)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestResumeDropsExpiredSession(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	m := newTestManager(t, srv.URL, -time.Minute) // already expired on creation

	sess, token, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	// The cookie token expired with the session.
	_, err = m.Resume(token)
	assert.ErrorIs(t, err, ErrNoSession)

	// Even a still-valid token cannot resume a session past its TTL; the
	// stale entry is dropped on the way out.
	fresh, err := security.NewTokenManager(testSecret).GenerateSessionToken(sess.ID, time.Hour)
	assert.NoError(t, err)
	_, err = m.Resume(fresh)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, m.Count())
}

func TestLogoutClearsSession(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	m := newTestManager(t, srv.URL, time.Hour)

	sess, token, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	m.Logout(context.Background(), sess)
	assert.Equal(t, 0, m.Count())

	_, err = m.Resume(token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogoutSurvivesBackendFailure(t *testing.T) {
	srv := fakeBackend(t)
	m := newTestManager(t, srv.URL, time.Hour)

	sess, _, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	srv.Close() // backend gone before logout
	m.Logout(context.Background(), sess)
	assert.Equal(t, 0, m.Count())
}

func TestRefreshIdentity(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	m := newTestManager(t, srv.URL, time.Hour)

	sess, _, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	err = m.RefreshIdentity(context.Background(), sess)
	assert.NoError(t, err)
	assert.Equal(t, "Ana Updated", sess.User().FullName)
}

func TestRefreshIdentityDropsRejectedSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user": {"id": 5, "username": "ana"}}`))
	})
	mux.HandleFunc("/api/me/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Session expired"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	m := newTestManager(t, srv.URL, time.Hour)

	sess, _, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	err = m.RefreshIdentity(context.Background(), sess)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, 0, m.Count())
}

func TestRefreshIdentityKeepsCachedUserWhenUnreachable(t *testing.T) {
	srv := fakeBackend(t)
	m := newTestManager(t, srv.URL, time.Hour)

	sess, _, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	srv.Close()
	err = m.RefreshIdentity(context.Background(), sess)
	assert.NoError(t, err)
	assert.Equal(t, "Ana", sess.User().FullName)
	assert.Equal(t, 1, m.Count())
}

func TestConcurrentIdentityRefresh(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	m := newTestManager(t, srv.URL, time.Hour)

	sess, _, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	// Handlers read the cached identity while the revalidation job rewrites
	// it. Run both sides at once so the race detector can catch any
	// unsynchronized access.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = m.RefreshIdentity(context.Background(), sess)
		}
	}()
	for i := 0; i < 200; i++ {
		assert.Equal(t, int32(5), sess.User().ID)
	}
	<-done
	assert.Equal(t, "Ana Updated", sess.User().FullName)
}

func TestSweepExpired(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()

	m := newTestManager(t, srv.URL, -time.Minute)
	_, _, err := m.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	live := newTestManager(t, srv.URL, time.Hour)
	_, _, err = live.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)

	assert.Equal(t, 1, m.SweepExpired())
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, 0, live.SweepExpired())
	assert.Equal(t, 1, live.Count())
}
