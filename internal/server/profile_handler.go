package server

import (
	"net/http"
	"strings"
	"sync"

	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
	"equishare-gateway/internal/scoring"
)

// handleProfileStats fans out the three source fetches concurrently and
// derives the community score from whatever arrived. A failed fetch counts
// as an empty collection so the profile page always renders.
func (s *Server) handleProfileStats(w http.ResponseWriter, r *http.Request) {
	ctx := s.backendContext(r)
	sess := sessionFrom(r)

	var (
		wg        sync.WaitGroup
		tools     []domain.Tool
		rentals   []domain.RentalTransaction
		feedbacks []domain.Feedback
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if tools, err = s.backend.ListTools(ctx); err != nil {
			logger.Warn("Profile tool fetch failed", "error", err)
			tools = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if rentals, err = s.backend.ListRentals(ctx); err != nil {
			logger.Warn("Profile rental fetch failed", "error", err)
			rentals = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if feedbacks, err = s.backend.ListFeedbacks(ctx); err != nil {
			logger.Warn("Profile feedback fetch failed", "error", err)
			feedbacks = nil
		}
	}()
	wg.Wait()

	stats := scoring.BuildStats(sess.User().ID, tools, rentals, feedbacks)
	summary, err := scoring.Score(stats)
	if err != nil {
		logger.Error("Score derivation failed", "user_id", sess.User().ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Could not compute profile stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":  sess.User(),
		"stats": summary,
	})
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]any{}
	if v := strings.TrimSpace(req.FullName); v != "" {
		fields["fullName"] = v
	}
	if v := strings.TrimSpace(req.Username); v != "" {
		fields["username"] = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		fields["email"] = v
	}
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, "No updatable fields provided")
		return
	}

	sess := sessionFrom(r)
	updated, err := s.backend.UpdateUser(s.backendContext(r), sess.User().ID, fields)
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	sess.SetUser(updated)
	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}
