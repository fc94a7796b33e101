package domain

// Feedback is a rating left on a tool after a rental.
type Feedback struct {
	ID      int32   `json:"id"`
	ToolID  int32   `json:"tool"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// UserReview is a rating left on a user rather than a tool.
type UserReview struct {
	ID         int32   `json:"id"`
	ReviewerID int32   `json:"reviewer"`
	RevieweeID int32   `json:"reviewee"`
	Rating     float64 `json:"rating"`
	Comment    string  `json:"comment"`
}
