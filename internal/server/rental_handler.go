package server

import (
	"net/http"
	"sync"

	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
)

// handleListRentals returns the session user's rentals, optionally filtered
// by role (borrower, owner) and status. Rentals the backend returns without
// an embedded tool are enriched concurrently; a failed fetch leaves that row
// without tool details instead of failing the page.
func (s *Server) handleListRentals(w http.ResponseWriter, r *http.Request) {
	ctx := s.backendContext(r)
	sess := sessionFrom(r)

	all, err := s.backend.ListRentals(ctx)
	if err != nil {
		logger.Warn("Rental listing unavailable, serving empty history", "error", err)
		respondJSON(w, http.StatusOK, map[string]any{"rentals": []domain.RentalTransaction{}})
		return
	}

	role := r.URL.Query().Get("role")
	status := r.URL.Query().Get("status")

	rentals := make([]domain.RentalTransaction, 0, len(all))
	for _, rt := range all {
		switch role {
		case "borrower":
			if !rt.BorrowedBy(sess.User().ID) {
				continue
			}
		case "owner":
			if !rt.OwnedBy(sess.User().ID) {
				continue
			}
		default:
			if !rt.Involves(sess.User().ID) {
				continue
			}
		}
		if status != "" && string(rt.Status) != status {
			continue
		}
		rentals = append(rentals, rt)
	}

	var wg sync.WaitGroup
	for i := range rentals {
		if rentals[i].Tool != nil || rentals[i].ToolID == 0 {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tool, err := s.backend.GetTool(ctx, rentals[i].ToolID)
			if err != nil {
				logger.Debug("Tool enrichment failed", "tool_id", rentals[i].ToolID, "error", err)
				return
			}
			rentals[i].Tool = tool
		}(i)
	}
	wg.Wait()

	respondJSON(w, http.StatusOK, map[string]any{"rentals": rentals})
}

// handleReturnRental marks a rental completed and flips the tool back to
// available. Only a party to the rental may return it.
func (s *Server) handleReturnRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental id")
		return
	}

	ctx := s.backendContext(r)
	sess := sessionFrom(r)

	rental, err := s.backend.GetRental(ctx, id)
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	if !rental.Involves(sess.User().ID) {
		respondError(w, http.StatusForbidden, "You are not a party to this rental")
		return
	}
	if rental.Status != domain.RentalStatusActive && rental.Status != domain.RentalStatusOverdue {
		respondError(w, http.StatusBadRequest, "Only active rentals can be returned")
		return
	}

	updated, err := s.backend.UpdateRental(ctx, id, map[string]any{
		"status": string(domain.RentalStatusCompleted),
	})
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}

	toolID := rental.ToolID
	if toolID == 0 && rental.Tool != nil {
		toolID = rental.Tool.ID
	}
	if toolID != 0 {
		if _, err := s.backend.UpdateTool(ctx, toolID, map[string]any{"isAvailable": true}); err != nil {
			logger.Warn("Could not flip tool back to available", "tool_id", toolID, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, updated)
}
