package session

import (
	"errors"
	"fmt"

	"github.com/conorfennell/recall/internal/domain"
)

var (
	// ErrBusy is returned while another call for the session is in flight.
	ErrBusy = errors.New("session: a request is already in flight")

	// ErrWrongPhase is returned for an action the current phase does not accept.
	ErrWrongPhase = errors.New("session: action not allowed in this phase")

	// ErrAnswerHidden is returned when grading a card whose answer was not revealed.
	ErrAnswerHidden = errors.New("session: reveal the answer before grading")

	// ErrNoHint is returned when toggling the hint of a card without one.
	ErrNoHint = errors.New("session: card has no hint")
)

// LoadError reports that the study queue could not be fetched.
// The session stays in PhaseLoading and may be loaded again.
type LoadError struct {
	DeckID int64
	Mode   domain.StudyMode
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s queue for deck %d: %v", e.Mode, e.DeckID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SubmitError reports that a grade or learn confirmation was not acknowledged.
// The session keeps its position and reveal state.
type SubmitError struct {
	CardID int64
	Action domain.Action
	Err    error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to submit %s for card %d: %v", e.Action, e.CardID, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }
