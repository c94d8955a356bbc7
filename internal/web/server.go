package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/recall/internal/api"
	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/present"
	"github.com/conorfennell/recall/internal/session"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Backend is the flashcard API as the web UI uses it.
type Backend interface {
	session.Collaborator
	ListDecks(ctx context.Context) ([]domain.Deck, error)
	CreateDeck(ctx context.Context, deck api.NewDeck) (domain.Deck, error)
	DeleteDeck(ctx context.Context, deckID int64) error
	ListCards(ctx context.Context, deckID int64) ([]domain.Card, error)
	CreateCard(ctx context.Context, card api.NewCard) (domain.Card, error)
	DeleteCard(ctx context.Context, cardID int64) error
}

// Journal records session actions and reports daily activity.
type Journal interface {
	session.Recorder
	CountSince(ctx context.Context, deckID int64, since time.Time) (int, error)
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	api       Backend
	journal   Journal
	presenter *present.Presenter
	router    *http.ServeMux
	templates *template.Template
	log       *slog.Logger

	sessionTTL time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

// Option configures a Server.
type Option func(*Server)

// WithSessionTTL sets how long a study session may sit untouched before
// ExpireSessions discards it.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// NewServer creates and configures a new server. journal may be nil.
func NewServer(backend Backend, journal Journal, presenter *present.Presenter, logger *slog.Logger, opts ...Option) (*Server, error) {
	tpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		api:       backend,
		journal:   journal,
		presenter: presenter,
		router:    http.NewServeMux(),
		templates: tpl,
		log:       logger,

		sessionTTL: 2 * time.Hour,
		sessions:   make(map[uuid.UUID]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create sub-filesystem for static assets: %w", err)
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /{$}", s.handleGetDecks())
	s.router.HandleFunc("POST /decks", s.handlePostDeck())
	s.router.HandleFunc("DELETE /decks/{deckID}", s.handleDeleteDeck())
	s.router.HandleFunc("GET /decks/{deckID}", s.handleGetDeck())
	s.router.HandleFunc("POST /decks/{deckID}/cards", s.handlePostCard())
	s.router.HandleFunc("DELETE /decks/{deckID}/cards/{cardID}", s.handleDeleteCard())

	// Study sessions
	s.router.HandleFunc("POST /decks/{deckID}/sessions", s.handlePostSession())
	s.router.HandleFunc("GET /sessions/{id}", s.handleGetSession())
	s.router.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession())
	s.router.HandleFunc("POST /sessions/{id}/load", s.sessionAction(func(ctx context.Context, sess *session.Session, _ *http.Request) error {
		return sess.Load(ctx)
	}))
	s.router.HandleFunc("POST /sessions/{id}/reveal", s.sessionAction(func(_ context.Context, sess *session.Session, _ *http.Request) error {
		return sess.Toggle()
	}))
	s.router.HandleFunc("POST /sessions/{id}/hint", s.sessionAction(func(_ context.Context, sess *session.Session, _ *http.Request) error {
		return sess.ToggleHint()
	}))
	s.router.HandleFunc("POST /sessions/{id}/next", s.sessionAction(func(ctx context.Context, sess *session.Session, _ *http.Request) error {
		return sess.Next(ctx)
	}))
	s.router.HandleFunc("POST /sessions/{id}/grade", s.sessionAction(func(ctx context.Context, sess *session.Session, r *http.Request) error {
		grade, err := domain.ParseGrade(r.PostFormValue("grade"))
		if err != nil {
			return err
		}
		return sess.Grade(ctx, grade)
	}))
	return nil
}

// render executes a named template, logging failures. Headers are already
// sent by then, so there is nothing else to do with the error.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("Error rendering template", "template", name, "error", err)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}
	return id, nil
}

// statusFor maps collaborator failures to a response code for full pages.
func statusFor(err error) int {
	var serr *api.StatusError
	if errors.As(err, &serr) && serr.Code == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"lower": func(a domain.Action) string {
		switch a {
		case domain.Again:
			return "again"
		case domain.Hard:
			return "hard"
		case domain.Good:
			return "good"
		case domain.Easy:
			return "easy"
		}
		return string(a)
	},
}
