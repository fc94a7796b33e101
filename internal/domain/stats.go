package domain

// UserStats are the aggregate activity counts a profile is scored from.
// All fields are non-negative; AverageRating is 0-5 with one decimal.
type UserStats struct {
	ToolsListed      int     `json:"toolsListed"`
	ActiveRentals    int     `json:"activeRentals"`
	CompletedRentals int     `json:"completedRentals"`
	AverageRating    float64 `json:"averageRating"`
	TotalReviews     int     `json:"totalReviews"`
}

// ProfileSummary is the scored form of UserStats shown on the profile page.
type ProfileSummary struct {
	UserStats
	Points int      `json:"points"`
	Level  string   `json:"level"`
	Badges []string `json:"badges"`
}
