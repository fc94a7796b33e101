package server

import (
	"context"
	"net/http"

	"equishare-gateway/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "gateway_session"

// withSession resolves the gateway cookie into a live session and stores it
// on the request context. Requests without a valid session get a 401.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		sess, err := s.sessions.Resume(cookie.Value)
		if err != nil {
			s.clearSessionCookie(w)
			respondError(w, http.StatusUnauthorized, "Session expired. Please sign in again.")
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next(w, r.WithContext(ctx))
	}
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionContextKey).(*session.Session)
	return sess
}

// backendContext carries the session's backend credentials so client calls
// are made as the signed-in user.
func (s *Server) backendContext(r *http.Request) context.Context {
	return s.sessions.Context(r.Context(), sessionFrom(r))
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
