package server

import (
	"net/http"
	"strings"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	sess, token, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}

	s.setSessionCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]any{"user": sess.User()})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	if err := s.sessions.Signup(r.Context(), req.FullName, req.Username, req.Email, req.Password); err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Account created. Please sign in."})
}

// handleLogout tears down the session if one is attached; the cookie is
// cleared either way so a broken session does not strand the browser.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		if sess, err := s.sessions.Resume(cookie.Value); err == nil {
			s.sessions.Logout(r.Context(), sess)
		}
	}
	s.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

// handleMe re-verifies the cached identity against the backend. An expired
// backend session drops the gateway session; an unreachable backend keeps
// serving the cached user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.sessions.RefreshIdentity(r.Context(), sess); err != nil {
		s.clearSessionCookie(w)
		respondError(w, http.StatusUnauthorized, "Session expired. Please sign in again.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": sess.User()})
}
