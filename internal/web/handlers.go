package web

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conorfennell/recall/internal/api"
	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/present"
)

var (
	sortOptions   = []present.SortOption{present.SortNone, present.SortDifficulty, present.SortNextReview, present.SortStability}
	filterOptions = []present.FilterOption{present.FilterAll, present.FilterNew, present.FilterReview, present.FilterEasy, present.FilterMedium, present.FilterHard}
)

// deckListPage is the data behind the deck overview and its list fragment.
type deckListPage struct {
	Decks []domain.Deck
	Error string
}

// handleGetDecks renders the deck overview.
func (s *Server) handleGetDecks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decks, err := s.api.ListDecks(r.Context())
		if err != nil {
			s.log.Error("Error listing decks", "error", err)
			http.Error(w, "Failed to load decks", statusFor(err))
			return
		}
		s.render(w, "decks", deckListPage{Decks: decks})
	}
}

// handlePostDeck creates a deck from the new-deck form and re-renders the list.
func (s *Server) handlePostDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deck := api.NewDeck{
			Name:        r.PostFormValue("name"),
			Description: r.PostFormValue("description"),
		}

		var formErr string
		if created, err := s.api.CreateDeck(r.Context(), deck); err != nil {
			if !errors.Is(err, api.ErrInvalidDeck) {
				s.log.Error("Error creating deck", "error", err)
			}
			formErr = err.Error()
		} else {
			s.log.Info("Deck created", "deck_id", created.ID)
		}

		decks, err := s.api.ListDecks(r.Context())
		if err != nil {
			s.log.Error("Error listing decks", "error", err)
			http.Error(w, "Failed to load decks", statusFor(err))
			return
		}
		s.render(w, "deck_list", deckListPage{Decks: decks, Error: formErr})
	}
}

// handleDeleteDeck removes a deck, drops its study sessions and re-renders
// the list.
func (s *Server) handleDeleteDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID, err := pathID(r, "deckID")
		if err != nil {
			http.Error(w, "Invalid deck ID", http.StatusBadRequest)
			return
		}
		if err := s.api.DeleteDeck(r.Context(), deckID); err != nil {
			s.log.Error("Error deleting deck", "deck_id", deckID, "error", err)
			http.Error(w, "Failed to delete deck", statusFor(err))
			return
		}
		s.forgetDeck(deckID)
		s.log.Info("Deck deleted", "deck_id", deckID)

		decks, err := s.api.ListDecks(r.Context())
		if err != nil {
			s.log.Error("Error listing decks", "error", err)
			http.Error(w, "Failed to load decks", statusFor(err))
			return
		}
		s.render(w, "deck_list", deckListPage{Decks: decks})
	}
}

// deckPage is the data behind the deck page and its card list fragment.
type deckPage struct {
	Deck          domain.Deck
	Cards         []present.CardView
	Total         int
	Counts        present.Counts
	ReviewedToday int
	Sort          present.SortOption
	Filter        present.FilterOption
	Query         string
	SortOptions   []present.SortOption
	FilterOptions []present.FilterOption
	Error         string
}

// loadDeckPage fetches the deck, its cards and today's activity concurrently
// and applies the list controls from the request query.
func (s *Server) loadDeckPage(ctx context.Context, deckID int64, r *http.Request) (*deckPage, error) {
	var (
		decks    []domain.Deck
		cards    []domain.Card
		reviewed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		decks, err = s.api.ListDecks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.api.ListCards(gctx, deckID)
		return err
	})
	if s.journal != nil {
		g.Go(func() error {
			n, err := s.journal.CountSince(gctx, deckID, startOfDay(s.presenter.Now()))
			if err != nil {
				// Activity is informational only.
				s.log.Warn("Error counting today's reviews", "deck_id", deckID, "error", err)
				return nil
			}
			reviewed = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page := &deckPage{
		Deck:          domain.Deck{ID: deckID},
		Total:         len(cards),
		Counts:        present.Count(cards, s.presenter.Now()),
		ReviewedToday: reviewed,
		Sort:          present.SortOption(r.URL.Query().Get("sort")),
		Filter:        present.FilterOption(r.URL.Query().Get("filter")),
		Query:         r.URL.Query().Get("q"),
		SortOptions:   sortOptions,
		FilterOptions: filterOptions,
	}
	if page.Filter == "" {
		page.Filter = present.FilterAll
	}
	if i := slices.IndexFunc(decks, func(d domain.Deck) bool { return d.ID == deckID }); i >= 0 {
		page.Deck = decks[i]
	}

	shown := present.Filter(cards, page.Filter, s.presenter.Now())
	shown = present.Search(shown, page.Query)
	shown = present.Sort(shown, page.Sort)
	page.Cards = s.presenter.Views(shown)
	return page, nil
}

// handleGetDeck renders a deck's card list. htmx requests from the list
// controls only get the list fragment back.
func (s *Server) handleGetDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID, err := pathID(r, "deckID")
		if err != nil {
			http.Error(w, "Invalid deck ID", http.StatusBadRequest)
			return
		}
		page, err := s.loadDeckPage(r.Context(), deckID, r)
		if err != nil {
			s.log.Error("Error loading deck", "deck_id", deckID, "error", err)
			http.Error(w, "Failed to load deck", statusFor(err))
			return
		}
		if r.Header.Get("HX-Target") == "card-list" {
			s.render(w, "card_list", page)
			return
		}
		s.render(w, "deck", page)
	}
}

// handlePostCard creates a card from the add-card form.
func (s *Server) handlePostCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID, err := pathID(r, "deckID")
		if err != nil {
			http.Error(w, "Invalid deck ID", http.StatusBadRequest)
			return
		}
		card := api.NewCard{
			DeckID: deckID,
			Front:  r.PostFormValue("front"),
			Back:   r.PostFormValue("back"),
			Hint:   r.PostFormValue("hint"),
		}

		var formErr string
		if _, err := s.api.CreateCard(r.Context(), card); err != nil {
			if !errors.Is(err, api.ErrInvalidCard) {
				s.log.Error("Error creating card", "deck_id", deckID, "error", err)
			}
			formErr = err.Error()
		} else {
			s.log.Info("Card created", "deck_id", deckID)
		}

		page, err := s.loadDeckPage(r.Context(), deckID, r)
		if err != nil {
			s.log.Error("Error loading deck", "deck_id", deckID, "error", err)
			http.Error(w, "Failed to load deck", statusFor(err))
			return
		}
		page.Error = formErr
		s.render(w, "card_list", page)
	}
}

// handleDeleteCard removes a card and re-renders the list.
func (s *Server) handleDeleteCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID, err := pathID(r, "deckID")
		if err != nil {
			http.Error(w, "Invalid deck ID", http.StatusBadRequest)
			return
		}
		cardID, err := strconv.ParseInt(r.PathValue("cardID"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid card ID", http.StatusBadRequest)
			return
		}
		if err := s.api.DeleteCard(r.Context(), cardID); err != nil {
			s.log.Error("Error deleting card", "card_id", cardID, "error", err)
			http.Error(w, "Failed to delete card", statusFor(err))
			return
		}

		page, err := s.loadDeckPage(r.Context(), deckID, r)
		if err != nil {
			s.log.Error("Error loading deck", "deck_id", deckID, "error", err)
			http.Error(w, "Failed to load deck", statusFor(err))
			return
		}
		s.render(w, "card_list", page)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
