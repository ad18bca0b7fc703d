package entity

import "time"

// Ratings run from MinRating to MaxRating inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating of a product by a user; one per (user, product).
type Review struct {
	ID        uint
	UserID    uint
	ProductID uint
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ReviewStats aggregates the ratings of a product.
type ReviewStats struct {
	ProductID     uint
	TotalReviews  int64
	AverageRating float64

	// RatingBreakdown always carries the keys 1 through 5.
	RatingBreakdown map[int]int64
}

// NewReviewStats returns empty statistics for a product.
func NewReviewStats(productID uint) *ReviewStats {
	breakdown := make(map[int]int64, MaxRating-MinRating+1)
	for rating := MinRating; rating <= MaxRating; rating++ {
		breakdown[rating] = 0
	}

	return &ReviewStats{ProductID: productID, RatingBreakdown: breakdown}
}
