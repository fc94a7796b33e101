package server

import (
	"net/http"
	"strings"

	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
)

type feedbackRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// handleCreateFeedback leaves a rating on a tool, typically after completing
// a rental of it.
func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	toolID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tool id")
		return
	}
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	fb, err := s.backend.CreateFeedback(s.backendContext(r), toolID, req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, fb)
}

// handleListReviews returns reviews written about the session user.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	all, err := s.backend.ListUserReviews(s.backendContext(r))
	if err != nil {
		logger.Warn("User review listing unavailable, serving empty list", "error", err)
		respondJSON(w, http.StatusOK, map[string]any{"reviews": []domain.UserReview{}})
		return
	}

	reviews := make([]domain.UserReview, 0, len(all))
	for _, rv := range all {
		if rv.RevieweeID == sess.User().ID {
			reviews = append(reviews, rv)
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

type userReviewRequest struct {
	RevieweeID int32   `json:"reviewee_id"`
	Rating     float64 `json:"rating"`
	Comment    string  `json:"comment"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req userReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RevieweeID == 0 {
		respondError(w, http.StatusBadRequest, "Reviewee is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	if req.RevieweeID == sessionFrom(r).User().ID {
		respondError(w, http.StatusBadRequest, "You cannot review yourself")
		return
	}

	review, err := s.backend.CreateUserReview(s.backendContext(r), req.RevieweeID, req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}
