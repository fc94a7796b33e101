package domain

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
	RentalStatusOverdue   RentalStatus = "overdue"
)

// RentalTransaction is a confirmed, priced booking. Directional: exactly one
// owner and one borrower.
type RentalTransaction struct {
	ID            int32        `json:"id"`
	Tool          *Tool        `json:"tool,omitempty"`
	ToolID        int32        `json:"tool_id"`
	Owner         *User        `json:"owner,omitempty"`
	OwnerID       int32        `json:"owner_id"`
	Borrower      *User        `json:"borrower,omitempty"`
	BorrowerID    int32        `json:"borrower_id"`
	StartDate     string       `json:"start_date"`
	EndDate       string       `json:"end_date"`
	TotalPrice    Decimal      `json:"total_price"`
	Status        RentalStatus `json:"status"`
	PaymentStatus string       `json:"payment_status"`
}

// Involves reports whether the user is a party to the rental, on either side.
func (r *RentalTransaction) Involves(userID int32) bool {
	if r.OwnerID == userID || r.BorrowerID == userID {
		return true
	}
	if r.Owner != nil && r.Owner.ID == userID {
		return true
	}
	if r.Borrower != nil && r.Borrower.ID == userID {
		return true
	}
	return false
}

// BorrowedBy reports whether the user is the borrower.
func (r *RentalTransaction) BorrowedBy(userID int32) bool {
	if r.BorrowerID == userID {
		return true
	}
	return r.Borrower != nil && r.Borrower.ID == userID
}

// OwnedBy reports whether the user is the owner.
func (r *RentalTransaction) OwnedBy(userID int32) bool {
	if r.OwnerID == userID {
		return true
	}
	return r.Owner != nil && r.Owner.ID == userID
}
