package server

import (
	"errors"
	"io"
	"net/http"

	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
)

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.backend.UserBorrowRequests(s.backendContext(r))
	if err != nil {
		logger.Warn("Borrow request listing unavailable, serving empty list", "error", err)
		respondJSON(w, http.StatusOK, map[string]any{"requests": []domain.BorrowRequest{}})
		return
	}
	if requests == nil {
		requests = []domain.BorrowRequest{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

type requestDecision struct {
	OwnerResponse string `json:"owner_response"`
}

func (s *Server) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request id")
		return
	}
	var body requestDecision
	if err := decodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.backend.ApproveBorrowRequest(s.backendContext(r), id, body.OwnerResponse); err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request id")
		return
	}
	var body requestDecision
	if err := decodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.backend.RejectBorrowRequest(s.backendContext(r), id, body.OwnerResponse); err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (s *Server) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request id")
		return
	}
	if err := s.backend.CancelBorrowRequest(s.backendContext(r), id); err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
