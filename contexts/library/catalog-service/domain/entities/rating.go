package entities

import "time"

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is one account's review of one resource; the pair is unique and
// re-rating replaces the previous score.
type Rating struct {
	RatingID   string
	ResourceID string
	AccountID  string
	Score      int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func IsValidRatingScore(score int) bool {
	return score >= MinRatingScore && score <= MaxRatingScore
}
