package domain

type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositPaid      DepositStatus = "paid"
	DepositHeld      DepositStatus = "held"
	DepositReturned  DepositStatus = "returned"
	DepositForfeited DepositStatus = "forfeited"
	DepositRefunded  DepositStatus = "refunded"
)

// Deposit tracks money held against a specific rental.
type Deposit struct {
	ID                int32              `json:"id"`
	RentalTransaction *RentalTransaction `json:"rental_transaction,omitempty"`
	Amount            Decimal            `json:"amount"`
	Status            DepositStatus      `json:"status"`
	PaymentDate       *string            `json:"payment_date,omitempty"`
	ReturnDate        *string            `json:"return_date,omitempty"`
}

// DepositSummary aggregates a user's deposits for the dashboard.
type DepositSummary struct {
	TotalDeposits  float64 `json:"total_deposits"`
	TotalRefunds   float64 `json:"total_refunds"`
	TotalForfeited float64 `json:"total_forfeited"`
	ActiveDeposits int     `json:"active_deposits"`
}
