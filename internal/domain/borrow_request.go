package domain

type BorrowRequestStatus string

const (
	BorrowRequestPending   BorrowRequestStatus = "pending"
	BorrowRequestApproved  BorrowRequestStatus = "approved"
	BorrowRequestRejected  BorrowRequestStatus = "rejected"
	BorrowRequestCancelled BorrowRequestStatus = "cancelled"
	BorrowRequestExpired   BorrowRequestStatus = "expired"
)

// Terminal reports whether the status is final. A pending request transitions
// exactly once to a terminal state; there are no backward transitions.
func (s BorrowRequestStatus) Terminal() bool {
	switch s {
	case BorrowRequestApproved, BorrowRequestRejected, BorrowRequestCancelled, BorrowRequestExpired:
		return true
	}
	return false
}

// BorrowRequest is a proposal from a prospective borrower to rent a tool,
// requiring owner approval.
type BorrowRequest struct {
	ID            int32               `json:"id"`
	Tool          *Tool               `json:"tool,omitempty"`
	ToolID        int32               `json:"tool_id"`
	Borrower      *User               `json:"borrower,omitempty"`
	Owner         *User               `json:"owner,omitempty"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	Status        BorrowRequestStatus `json:"status"`
	Message       string              `json:"message"`
	OwnerResponse string              `json:"owner_response"`
}
