// Package session sequences a deck's cards through a review session.
//
// A session first walks new cards in a learning pass, with the answer shown
// and a single "next" action, then walks due cards in a reviewing pass where
// the answer stays hidden until revealed and each card is graded. The server
// owns all scheduling; the session only submits actions and advances once
// they are acknowledged.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

// Phase is the state of a session.
type Phase int

const (
	// PhaseLoading fetches the queue, or waits for a retry after a failed fetch.
	PhaseLoading Phase = iota
	// PhaseLearning walks new cards with the answer shown.
	PhaseLearning
	// PhaseReviewing walks due cards; the answer stays hidden until revealed.
	PhaseReviewing
	// PhaseDone is terminal.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLearning:
		return "learning"
	case PhaseReviewing:
		return "reviewing"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Collaborator is the remote API the session drives.
type Collaborator interface {
	FetchQueue(ctx context.Context, deckID int64, mode domain.StudyMode) ([]domain.QueuedCard, error)
	SubmitGrade(ctx context.Context, cardID int64, grade domain.Action) error
	ConfirmLearned(ctx context.Context, cardID int64) error
}

// Recorder journals session actions. Failures are logged and ignored.
type Recorder interface {
	Record(ctx context.Context, entry domain.ReviewLog) error
}

// State is a point-in-time copy of a session for rendering.
type State struct {
	Phase     Phase
	Card      *domain.Card // nil outside learning and reviewing
	Position  int
	Total     int // length of the current phase's queue
	Revealed  bool
	HintShown bool
	Busy      bool
	Err       string
	Empty     bool // finished on load because nothing was queued
}

// Session is a single study session over one deck. It is safe for concurrent
// use; mutating calls are serialized by an in-flight flag rather than by
// holding the lock across network calls.
type Session struct {
	deckID   int64
	mode     domain.StudyMode
	api      Collaborator
	rec      Recorder
	log      *slog.Logger
	onFinish func()
	now      func() time.Time

	mu        sync.Mutex
	phase     Phase
	learn     []domain.Card
	review    []domain.Card
	position  int
	revealed  bool
	hintShown bool
	busy      bool
	errMsg    string
	empty     bool
	finished  bool
}

// Option configures a Session.
type Option func(*Session)

// WithOnFinish registers a callback invoked exactly once when the session
// reaches PhaseDone.
func WithOnFinish(fn func()) Option {
	return func(s *Session) { s.onFinish = fn }
}

// WithRecorder journals every submitted action.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.rec = r }
}

// WithLogger sets the session's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock overrides the clock used for journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session for deckID in PhaseLoading. Call Load to start it.
func New(api Collaborator, deckID int64, mode domain.StudyMode, opts ...Option) *Session {
	s := &Session{
		deckID: deckID,
		mode:   mode,
		api:    api,
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("deck_id", deckID, "mode", string(mode))
	return s
}

// DeckID returns the deck under study.
func (s *Session) DeckID() int64 { return s.deckID }

// Mode returns the study mode the queue was requested with.
func (s *Session) Mode() domain.StudyMode { return s.mode }

// Load fetches the study queue and enters the first phase. An empty queue
// finishes the session immediately. On failure the session stays loading
// with its error set; calling Load again retries.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.phase != PhaseLoading {
		s.mu.Unlock()
		return fmt.Errorf("%w: load while %s", ErrWrongPhase, s.phase)
	}
	s.busy = true
	s.mu.Unlock()

	queued, err := s.api.FetchQueue(ctx, s.deckID, s.mode)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		lerr := &LoadError{DeckID: s.deckID, Mode: s.mode, Err: err}
		s.errMsg = lerr.Error()
		s.mu.Unlock()
		s.log.Error("Failed to load study queue", "error", err)
		return lerr
	}

	s.errMsg = ""
	s.learn, s.review = nil, nil
	for _, q := range queued {
		if q.Learnable() {
			s.learn = append(s.learn, q.Card)
		} else {
			s.review = append(s.review, q.Card)
		}
	}
	s.position = 0
	s.hintShown = false

	var finish func()
	switch {
	case len(s.learn) > 0:
		s.phase = PhaseLearning
		s.revealed = true
	case len(s.review) > 0:
		s.phase = PhaseReviewing
		s.revealed = false
	default:
		s.empty = true
		finish = s.finishLocked()
	}
	s.mu.Unlock()

	s.log.Info("Study queue loaded", "learn", len(s.learn), "review", len(s.review))
	if finish != nil {
		finish()
	}
	return nil
}

// Next confirms the current new card as learned and advances. When the
// learning pass is exhausted the session moves to reviewing, or finishes if
// nothing is due.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	if err := s.beginLocked(PhaseLearning); err != nil {
		s.mu.Unlock()
		return err
	}
	card := s.learn[s.position]
	s.mu.Unlock()

	err := s.api.ConfirmLearned(ctx, card.ID)
	s.record(ctx, card.ID, domain.Learn, err)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		return s.failLocked(card.ID, domain.Learn, err)
	}

	s.errMsg = ""
	s.learn[s.position].IsNew = false
	s.position++
	s.hintShown = false

	var finish func()
	if s.position >= len(s.learn) {
		if len(s.review) > 0 {
			s.phase = PhaseReviewing
			s.position = 0
			s.revealed = false
		} else {
			finish = s.finishLocked()
		}
	}
	s.mu.Unlock()

	if finish != nil {
		finish()
	}
	return nil
}

// Grade submits a grade for the current card and advances once the server
// acknowledges it. The answer must have been revealed.
func (s *Session) Grade(ctx context.Context, grade domain.Action) error {
	if !grade.IsGrade() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidGrade, grade)
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.phase == PhaseReviewing && !s.revealed {
		s.mu.Unlock()
		return ErrAnswerHidden
	}
	if err := s.beginLocked(PhaseReviewing); err != nil {
		s.mu.Unlock()
		return err
	}
	card := s.review[s.position]
	s.mu.Unlock()

	err := s.api.SubmitGrade(ctx, card.ID, grade)
	s.record(ctx, card.ID, grade, err)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		return s.failLocked(card.ID, grade, err)
	}

	s.errMsg = ""
	s.position++
	s.revealed = false
	s.hintShown = false

	var finish func()
	if s.position >= len(s.review) {
		finish = s.finishLocked()
	}
	s.mu.Unlock()

	if finish != nil {
		finish()
	}
	return nil
}

// Toggle shows or hides the answer of the current review card.
func (s *Session) Toggle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.phase != PhaseReviewing {
		return fmt.Errorf("%w: toggle while %s", ErrWrongPhase, s.phase)
	}
	s.revealed = !s.revealed
	return nil
}

// ToggleHint shows or hides the current card's hint.
func (s *Session) ToggleHint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	card := s.currentLocked()
	if card == nil {
		return fmt.Errorf("%w: hint while %s", ErrWrongPhase, s.phase)
	}
	if !card.HasHint() {
		return ErrNoHint
	}
	s.hintShown = !s.hintShown
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Phase:     s.phase,
		Position:  s.position,
		Revealed:  s.revealed,
		HintShown: s.hintShown,
		Busy:      s.busy,
		Err:       s.errMsg,
		Empty:     s.empty,
	}
	if q := s.queueLocked(); q != nil {
		st.Total = len(q)
	}
	if c := s.currentLocked(); c != nil {
		card := *c
		st.Card = &card
	}
	return st
}

func (s *Session) queueLocked() []domain.Card {
	switch s.phase {
	case PhaseLearning:
		return s.learn
	case PhaseReviewing:
		return s.review
	}
	return nil
}

func (s *Session) currentLocked() *domain.Card {
	q := s.queueLocked()
	if s.position < 0 || s.position >= len(q) {
		return nil
	}
	return &q[s.position]
}

// beginLocked checks that an action for phase may start and marks the
// session busy.
func (s *Session) beginLocked(phase Phase) error {
	if s.busy {
		return ErrBusy
	}
	if s.phase != phase {
		return fmt.Errorf("%w: expected %s, session is %s", ErrWrongPhase, phase, s.phase)
	}
	if s.currentLocked() == nil {
		return fmt.Errorf("%w: no current card", ErrWrongPhase)
	}
	s.busy = true
	return nil
}

// failLocked records a submit failure and releases the lock.
func (s *Session) failLocked(cardID int64, action domain.Action, err error) error {
	serr := &SubmitError{CardID: cardID, Action: action, Err: err}
	s.errMsg = serr.Error()
	s.mu.Unlock()
	s.log.Warn("Session action failed", "card_id", cardID, "action", string(action), "error", err)
	return serr
}

// finishLocked moves the session to PhaseDone and returns the finish
// callback to run once the lock is released.
func (s *Session) finishLocked() func() {
	s.phase = PhaseDone
	s.revealed = false
	s.hintShown = false
	if s.finished {
		return nil
	}
	s.finished = true
	s.log.Info("Session finished", "empty", s.empty)
	if s.onFinish == nil {
		return nil
	}
	return s.onFinish
}

func (s *Session) record(ctx context.Context, cardID int64, action domain.Action, err error) {
	if s.rec == nil {
		return
	}
	entry := domain.ReviewLog{
		DeckID:    s.deckID,
		CardID:    cardID,
		Action:    action,
		Outcome:   domain.OutcomeOK,
		Timestamp: s.now(),
	}
	if err != nil {
		entry.Outcome = domain.OutcomeFailed
		entry.Error = err.Error()
	}
	if rerr := s.rec.Record(ctx, entry); rerr != nil {
		s.log.Warn("Failed to journal session action", "card_id", cardID, "error", rerr)
	}
}
