package domain

import "time"

// FeedbackCategory is one of the three mess feedback ratings.
type FeedbackCategory string

const (
	FeedbackGood    FeedbackCategory = "Good"
	FeedbackAverage FeedbackCategory = "Average"
	FeedbackPoor    FeedbackCategory = "Poor"
)

// ValidFeedbackCategory reports whether c is one of the known ratings.
func ValidFeedbackCategory(c FeedbackCategory) bool {
	switch c {
	case FeedbackGood, FeedbackAverage, FeedbackPoor:
		return true
	}
	return false
}

// FeedbackCounts are the shared aggregate counters, one per category.
type FeedbackCounts struct {
	Good    int64 `json:"Good"`
	Average int64 `json:"Average"`
	Poor    int64 `json:"Poor"`
}

// FeedbackEntry is one audit record of a submitted feedback.
type FeedbackEntry struct {
	Username  string           `json:"username"`
	Category  FeedbackCategory `json:"type"`
	CreatedAt time.Time        `json:"date"`
}
