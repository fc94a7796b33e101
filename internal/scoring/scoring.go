// Package scoring converts a user's aggregate activity counts into the
// gamification points total, named level, and badge set shown on the profile.
package scoring

import (
	"fmt"
	"math"

	"equishare-gateway/internal/domain"
)

// Level thresholds are inclusive lower bounds, checked highest first.
const (
	LevelMaster       = "Master"
	LevelExpert       = "Expert"
	LevelAdvanced     = "Advanced"
	LevelIntermediate = "Intermediate"
	LevelBeginner     = "Beginner"
)

// Score computes points, level, and badges for the stats. Pure and
// deterministic; identical inputs always yield identical output. Negative or
// NaN inputs are a precondition violation and are rejected.
func Score(stats domain.UserStats) (domain.ProfileSummary, error) {
	if err := validate(stats); err != nil {
		return domain.ProfileSummary{}, err
	}
	points := Points(stats)
	return domain.ProfileSummary{
		UserStats: stats,
		Points:    points,
		Level:     Level(points),
		Badges:    Badges(stats),
	}, nil
}

// Points applies the additive, order-independent point formula.
func Points(stats domain.UserStats) int {
	points := 0

	// 10 points per tool listed
	points += stats.ToolsListed * 10

	// 5 points per completed rental
	points += stats.CompletedRentals * 5

	// 20 points per star of average rating
	points += int(math.Floor(stats.AverageRating * 20))

	// 2 points per review
	points += stats.TotalReviews * 2

	// Bonus points for high activity
	if stats.CompletedRentals >= 10 {
		points += 50
	}
	if stats.ToolsListed >= 5 {
		points += 30
	}
	if stats.AverageRating >= 4.5 {
		points += 100
	}

	return points
}

// Level maps a points total to its named tier.
func Level(points int) string {
	switch {
	case points >= 500:
		return LevelMaster
	case points >= 300:
		return LevelExpert
	case points >= 150:
		return LevelAdvanced
	case points >= 50:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// Badges evaluates each achievement independently; badges are cumulative and
// the insertion order is fixed.
func Badges(stats domain.UserStats) []string {
	badges := []string{}

	if stats.ToolsListed >= 1 {
		badges = append(badges, "Tool Lister")
	}
	if stats.ToolsListed >= 5 {
		badges = append(badges, "Tool Collector")
	}
	if stats.CompletedRentals >= 1 {
		badges = append(badges, "First Rental")
	}
	if stats.CompletedRentals >= 10 {
		badges = append(badges, "Rental Pro")
	}
	if stats.AverageRating >= 4.0 {
		badges = append(badges, "Highly Rated")
	}
	if stats.AverageRating >= 4.8 {
		badges = append(badges, "Perfect Score")
	}
	if stats.TotalReviews >= 5 {
		badges = append(badges, "Well Reviewed")
	}
	if stats.TotalReviews >= 20 {
		badges = append(badges, "Community Favorite")
	}

	return badges
}

func validate(stats domain.UserStats) error {
	if stats.ToolsListed < 0 || stats.CompletedRentals < 0 || stats.TotalReviews < 0 || stats.ActiveRentals < 0 {
		return fmt.Errorf("stats counts must be non-negative: %+v", stats)
	}
	if math.IsNaN(stats.AverageRating) || stats.AverageRating < 0 {
		return fmt.Errorf("average rating must be a non-negative number, got %v", stats.AverageRating)
	}
	return nil
}

// BuildStats derives a user's aggregate counts from freshly fetched lists.
// Tools are counted when owned by the user; rentals when the user is owner or
// borrower; reviews come from feedback on the user's own tools. The average
// rating is rounded to one decimal.
func BuildStats(userID int32, tools []domain.Tool, rentals []domain.RentalTransaction, feedbacks []domain.Feedback) domain.UserStats {
	ownedToolIDs := make(map[int32]struct{})
	toolsListed := 0
	for _, t := range tools {
		ownerID := t.OwnerID
		if t.Owner != nil {
			ownerID = t.Owner.ID
		}
		if ownerID == userID {
			toolsListed++
			ownedToolIDs[t.ID] = struct{}{}
		}
	}

	active, completed := 0, 0
	for i := range rentals {
		r := &rentals[i]
		if !r.Involves(userID) {
			continue
		}
		switch r.Status {
		case domain.RentalStatusActive:
			active++
		case domain.RentalStatusCompleted:
			completed++
		}
	}

	totalRating, reviews := 0.0, 0
	for _, f := range feedbacks {
		if _, ok := ownedToolIDs[f.ToolID]; ok {
			totalRating += f.Rating
			reviews++
		}
	}
	average := 0.0
	if reviews > 0 {
		average = math.Round(totalRating/float64(reviews)*10) / 10
	}

	return domain.UserStats{
		ToolsListed:      toolsListed,
		ActiveRentals:    active,
		CompletedRentals: completed,
		AverageRating:    average,
		TotalReviews:     reviews,
	}
}
