package domain

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

// Review is a scored opinion on a title. One author holds at most one review per title.
type Review struct {
	ID             string
	TitleID        string
	AuthorID       string
	AuthorUsername string
	Text           string
	Score          int
	PubDate        time.Time
}

// Comment is a reply to a review.
type Comment struct {
	ID             string
	ReviewID       string
	AuthorID       string
	AuthorUsername string
	Text           string
	PubDate        time.Time
}

// ValidScore reports whether score lies within the accepted range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
