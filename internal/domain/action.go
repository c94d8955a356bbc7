package domain

import (
	"fmt"
	"strings"
)

// Action is a session action sent to the API for a single card.
// The four grades are the recall-quality signal; Learn confirms that a new
// card has been shown once.
type Action string

const (
	Again Action = "AGAIN"
	Hard  Action = "HARD"
	Good  Action = "GOOD"
	Easy  Action = "EASY"
	Learn Action = "LEARN"
)

// Grades lists the grade actions in button order.
var Grades = []Action{Again, Hard, Good, Easy}

// IsGrade reports whether a is one of AGAIN, HARD, GOOD or EASY.
func (a Action) IsGrade() bool {
	switch a {
	case Again, Hard, Good, Easy:
		return true
	}
	return false
}

// ParseGrade converts a case-insensitive grade name into an Action.
func ParseGrade(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	if !a.IsGrade() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return a, nil
}

// StudyMode selects which cards the study queue endpoint returns.
type StudyMode string

const (
	ModeReviewOnly StudyMode = "review_only"
	ModeMixed      StudyMode = "mixed"
)

// ParseStudyMode validates a mode name. An empty name means ModeMixed.
func ParseStudyMode(s string) (StudyMode, error) {
	switch StudyMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeMixed:
		return ModeMixed, nil
	case ModeReviewOnly:
		return ModeReviewOnly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
