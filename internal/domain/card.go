package domain

import "time"

// Card is a user's flashcard as served by the flashcard API.
// Scheduling fields are owned by the server and never recomputed locally.
type Card struct {
	ID           int64
	Front        string
	Back         string
	Hint         string
	IsNew        bool
	Difficulty   float64 // observed domain [0, 10], lower is easier
	Stability    float64 // days
	NextReview   *time.Time
	LastReviewed *time.Time
}

// HasHint reports whether the card carries a non-empty hint.
func (c Card) HasHint() bool {
	return c.Hint != ""
}

// DueAt reports whether the card is due at the given instant.
// New cards and cards without a schedule are never due.
func (c Card) DueAt(now time.Time) bool {
	if c.IsNew || c.NextReview == nil {
		return false
	}
	return !c.NextReview.After(now)
}

// Tag marks which phase of a study session a queued card belongs to.
type Tag string

const (
	TagNone   Tag = ""
	TagLearn  Tag = "LEARN"
	TagReview Tag = "REVIEW"
)

// QueuedCard is a card returned by the study queue endpoint.
type QueuedCard struct {
	Card
	Tag Tag
}

// Learnable reports whether the card belongs in the learning pass.
// Untagged cards fall back to their IsNew flag.
func (q QueuedCard) Learnable() bool {
	if q.Tag == TagNone {
		return q.IsNew
	}
	return q.Tag == TagLearn
}

// Deck is a named collection of cards owned by a user.
type Deck struct {
	ID          int64
	Name        string
	Description string
	NewCount    int
	ReviewCount int
}

// Outcome is the result of a journaled session action.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

// ReviewLog records a single session action sent to the API:
// a grade or a learn confirmation.
type ReviewLog struct {
	DeckID    int64
	CardID    int64
	Action    Action
	Outcome   Outcome
	Error     string
	Timestamp time.Time
}
