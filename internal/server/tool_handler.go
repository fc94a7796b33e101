package server

import (
	"net/http"
	"strings"

	"equishare-gateway/internal/booking"
	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
)

// handleListTools degrades to an empty catalog when the backend cannot be
// reached; the browse page renders empty rather than erroring.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.backend.ListTools(s.backendContext(r))
	if err != nil {
		logger.Warn("Tool listing unavailable, serving empty catalog", "error", err)
		respondJSON(w, http.StatusOK, map[string]any{"tools": []domain.Tool{}})
		return
	}
	if tools == nil {
		tools = []domain.Tool{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tool id")
		return
	}
	tool, err := s.backend.GetTool(s.backendContext(r), id)
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tool)
}

type createToolRequest struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	ImageURL         string             `json:"imageUrl"`
	PricingType      domain.PricingType `json:"pricing_type"`
	PricePerHour     *domain.Decimal    `json:"price_per_hour"`
	PricePerDay      *domain.Decimal    `json:"price_per_day"`
	PricePerWeek     *domain.Decimal    `json:"price_per_week"`
	PricePerMonth    *domain.Decimal    `json:"price_per_month"`
	ReplacementValue *domain.Decimal    `json:"replacement_value"`
}

func (s *Server) handleCreateTool(w http.ResponseWriter, r *http.Request) {
	var req createToolRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Tool name is required")
		return
	}
	if !req.PricingType.Valid() {
		respondError(w, http.StatusBadRequest, "Pricing type must be hourly, daily, weekly, or monthly")
		return
	}

	tool := &domain.Tool{
		Name:             req.Name,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		PricingType:      req.PricingType,
		PricePerHour:     req.PricePerHour,
		PricePerDay:      req.PricePerDay,
		PricePerWeek:     req.PricePerWeek,
		PricePerMonth:    req.PricePerMonth,
		ReplacementValue: req.ReplacementValue,
		IsAvailable:      true,
		OwnerID:          sessionFrom(r).User().ID,
	}
	if _, ok := tool.Rate(); !ok {
		respondError(w, http.StatusBadRequest, "A positive rate is required for the selected pricing type")
		return
	}

	created, err := s.backend.CreateTool(s.backendContext(r), tool)
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// updatableToolFields is the whitelist of fields a PATCH may touch.
var updatableToolFields = map[string]bool{
	"name":              true,
	"description":       true,
	"imageUrl":          true,
	"pricing_type":      true,
	"price_per_hour":    true,
	"price_per_day":     true,
	"price_per_week":    true,
	"price_per_month":   true,
	"replacement_value": true,
	"isAvailable":       true,
}

func (s *Server) handleUpdateTool(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tool id")
		return
	}
	var raw map[string]any
	if err := decodeJSON(r, &raw); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if updatableToolFields[k] {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, "No updatable fields provided")
		return
	}

	updated, err := s.backend.UpdateTool(s.backendContext(r), id, fields)
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTool(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tool id")
		return
	}
	if err := s.backend.DeleteTool(s.backendContext(r), id); err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleToolAvailability returns the booked windows plus the expanded set of
// individual dates the picker must disable. Any backend failure, including a
// 404 for tools without availability records, yields an empty set.
func (s *Server) handleToolAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tool id")
		return
	}

	av, err := s.backend.ToolAvailability(s.backendContext(r), id)
	if err != nil {
		logger.Debug("Availability lookup failed, treating as unbooked", "tool_id", id, "error", err)
		respondJSON(w, http.StatusOK, map[string]any{
			"tool_id":        id,
			"booked_dates":   []domain.BookedWindow{},
			"disabled_dates": []string{},
		})
		return
	}

	windows := av.BookedDates
	if windows == nil {
		windows = []domain.BookedWindow{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"tool_id":        av.ToolID,
		"tool_name":      av.ToolName,
		"is_available":   av.IsAvailable,
		"booked_dates":   windows,
		"disabled_dates": booking.DisabledDates(windows).Strings(),
	})
}
