package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/present"
	"github.com/conorfennell/recall/internal/session"
)

// sessionPage is the data behind the study page and its body fragment.
type sessionPage struct {
	ID     uuid.UUID
	DeckID int64
	Mode   domain.StudyMode
	State  session.State
	View   *present.CardView
	Grades []domain.Action
	Notice string
}

func (s *Server) sessionPage(id uuid.UUID, sess *session.Session, actionErr error) sessionPage {
	st := sess.Snapshot()
	page := sessionPage{
		ID:     id,
		DeckID: sess.DeckID(),
		Mode:   sess.Mode(),
		State:  st,
		Grades: domain.Grades,
	}
	if st.Card != nil {
		v := s.presenter.View(*st.Card)
		page.View = &v
	}
	// Load and submit failures already surface through State.Err.
	var lerr *session.LoadError
	var serr *session.SubmitError
	if actionErr != nil && !errors.As(actionErr, &lerr) && !errors.As(actionErr, &serr) {
		page.Notice = actionErr.Error()
	}
	return page
}

// entry is a registered session and when a request last used it.
type entry struct {
	sess    *session.Session
	touched time.Time
}

func (s *Server) register(sess *session.Session, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{sess: sess, touched: s.presenter.Now()}
}

func (s *Server) forget(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// forgetDeck drops every session studying deckID.
func (s *Server) forgetDeck(deckID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		if e.sess.DeckID() == deckID {
			delete(s.sessions, id)
		}
	}
}

// lookup finds the addressed session and marks it as used.
func (s *Server) lookup(r *http.Request) (uuid.UUID, *session.Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid session ID %q", r.PathValue("id"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return id, nil, fmt.Errorf("session %s not found", id)
	}
	e.touched = s.presenter.Now()
	return id, e.sess, nil
}

// sweep discards sessions untouched for longer than the session TTL as of
// now and reports how many it removed.
func (s *Server) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if now.Sub(e.touched) > s.sessionTTL {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// ExpireSessions sweeps idle sessions every interval until ctx is done.
func (s *Server) ExpireSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(s.presenter.Now()); n > 0 {
				s.log.Info("Expired idle sessions", "count", n)
			}
		}
	}
}

// handlePostSession starts a study session over a deck and loads its queue.
// A session that finishes on load is rendered in place since it is no
// longer registered.
func (s *Server) handlePostSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID, err := pathID(r, "deckID")
		if err != nil {
			http.Error(w, "Invalid deck ID", http.StatusBadRequest)
			return
		}
		mode, err := domain.ParseStudyMode(r.PostFormValue("mode"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id := uuid.New()
		opts := []session.Option{
			session.WithLogger(s.log.With("session_id", id.String())),
			session.WithOnFinish(func() { s.forget(id) }),
		}
		if s.journal != nil {
			opts = append(opts, session.WithRecorder(s.journal))
		}
		sess := session.New(s.api, deckID, mode, opts...)
		s.register(sess, id)

		// A load failure leaves the session registered for a retry.
		_ = sess.Load(r.Context())

		if sess.Snapshot().Phase == session.PhaseDone {
			s.render(w, "session", s.sessionPage(id, sess, nil))
			return
		}
		http.Redirect(w, r, "/sessions/"+id.String(), http.StatusSeeOther)
	}
}

func (s *Server) handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, sess, err := s.lookup(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.render(w, "session", s.sessionPage(id, sess, nil))
	}
}

// handleDeleteSession discards a session and sends the browser back to the deck.
func (s *Server) handleDeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, sess, err := s.lookup(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.forget(id)
		s.log.Info("Session discarded", "session_id", id.String())
		w.Header().Set("HX-Redirect", fmt.Sprintf("/decks/%d", sess.DeckID()))
		w.WriteHeader(http.StatusOK)
	}
}

// sessionAction runs act against the addressed session and re-renders the
// session body. A request that races one already in flight is refused with
// 409 so the page keeps showing the pending state.
func (s *Server) sessionAction(act func(context.Context, *session.Session, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, sess, err := s.lookup(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		err = act(r.Context(), sess, r)
		switch {
		case errors.Is(err, session.ErrBusy):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case errors.Is(err, domain.ErrInvalidGrade):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.render(w, "session_body", s.sessionPage(id, sess, err))
	}
}
