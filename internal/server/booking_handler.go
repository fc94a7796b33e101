package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"equishare-gateway/internal/backend"
	"equishare-gateway/internal/booking"
	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
)

type bookingRequest struct {
	ToolID            int32  `json:"tool_id"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	AgreementAccepted bool   `json:"agreement_accepted"`
}

func (br bookingRequest) selection() (booking.Selection, error) {
	from, err := time.Parse("2006-01-02", br.StartDate)
	if err != nil {
		return booking.Selection{}, err
	}
	to, err := time.Parse("2006-01-02", br.EndDate)
	if err != nil {
		return booking.Selection{}, err
	}
	return booking.Selection{
		From:      from,
		To:        to,
		StartTime: br.StartTime,
		EndTime:   br.EndTime,
	}, nil
}

// handleQuote prices a selection against the tool's pricing tier and records
// it on the session's draft. Out-of-order responses are resolved by the
// draft's generation counter: only the newest selection's result sticks.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sel, err := req.selection()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Dates must be in YYYY-MM-DD format")
		return
	}

	draft := sessionFrom(r).Draft
	gen := draft.Begin(sel)

	tool, err := s.backend.GetTool(s.backendContext(r), req.ToolID)
	if err != nil {
		draft.Fail(gen, err)
		s.respondBackendFailure(w, err)
		return
	}

	quote, err := booking.Compute(tool, sel)
	if err != nil {
		draft.Fail(gen, err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	current := draft.Complete(gen, quote)
	respondJSON(w, http.StatusOK, map[string]any{
		"quote":      quote,
		"superseded": !current,
	})
}

// handleConfirmBooking re-prices the selection server-side, checks for date
// conflicts, then creates the rental and its deposit. The conflict check is
// advisory; if it cannot run, the backend's own validation is the authority.
func (s *Server) handleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.AgreementAccepted {
		respondError(w, http.StatusBadRequest, "Please accept the rental agreement to continue")
		return
	}
	sel, err := req.selection()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Dates must be in YYYY-MM-DD format")
		return
	}

	ctx := s.backendContext(r)
	sess := sessionFrom(r)

	tool, err := s.backend.GetTool(ctx, req.ToolID)
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}
	if tool.OwnerID == sess.User().ID || (tool.Owner != nil && tool.Owner.ID == sess.User().ID) {
		respondError(w, http.StatusBadRequest, "You cannot rent your own tool")
		return
	}

	quote, err := booking.Compute(tool, sel)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	conflict, err := s.backend.CheckAvailabilityConflict(ctx, tool.ID, quote.StartDate, quote.EndDate)
	if err != nil {
		logger.Warn("Conflict check unavailable, deferring to backend validation", "tool_id", tool.ID, "error", err)
	} else if conflict {
		respondError(w, http.StatusConflict, "This tool is not available for the selected dates. Please choose different dates.")
		return
	}

	ownerID := tool.OwnerID
	if ownerID == 0 && tool.Owner != nil {
		ownerID = tool.Owner.ID
	}
	rental, err := s.backend.CreateRental(ctx, backend.CreateRentalInput{
		OwnerID:       ownerID,
		BorrowerID:    sess.User().ID,
		ToolID:        tool.ID,
		StartDate:     quote.StartDate,
		EndDate:       quote.EndDate,
		TotalPrice:    quote.RentalTotal,
		PaymentStatus: "pending",
		Status:        string(domain.RentalStatusActive),
	})
	if err != nil {
		s.respondBackendFailure(w, err)
		return
	}

	deposit, err := s.backend.CreateDeposit(ctx, rental.ID, quote.DepositAmount)
	if err != nil {
		logger.Warn("Deposit creation failed, rental stands", "rental_id", rental.ID, "error", err)
		deposit = nil
	}

	sess.Draft.Reset()
	respondJSON(w, http.StatusCreated, map[string]any{
		"rental":         rental,
		"deposit":        deposit,
		"quote":          quote,
		"transaction_id": "TXN-" + shortRef(),
		"package_id":     "PKG-" + shortRef(),
	})
}

func shortRef() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
