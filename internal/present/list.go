package present

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

// FilterOption narrows a deck's card list.
type FilterOption string

const (
	FilterAll    FilterOption = "all"
	FilterNew    FilterOption = "new"
	FilterReview FilterOption = "review"
	FilterEasy   FilterOption = "easy"
	FilterMedium FilterOption = "medium"
	FilterHard   FilterOption = "hard"
)

// SortOption orders a deck's card list.
type SortOption string

const (
	SortNone       SortOption = ""
	SortDifficulty SortOption = "difficulty"
	SortNextReview SortOption = "nextReview"
	SortStability  SortOption = "stability"
)

// Filter returns the cards matching f. Difficulty filters skip new cards,
// whose difficulty carries no information yet. Unknown options keep all cards.
func Filter(cards []domain.Card, f FilterOption, now time.Time) []domain.Card {
	keep := func(c domain.Card) bool {
		switch f {
		case FilterNew:
			return c.IsNew
		case FilterReview:
			return c.DueAt(now)
		case FilterEasy:
			return !c.IsNew && ClassifyDifficulty(c.Difficulty) == DifficultyEasy
		case FilterMedium:
			return !c.IsNew && ClassifyDifficulty(c.Difficulty) == DifficultyMedium
		case FilterHard:
			return !c.IsNew && ClassifyDifficulty(c.Difficulty) == DifficultyHard
		default:
			return true
		}
	}

	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Search keeps cards whose front, back or hint contains q, ignoring case.
func Search(cards []domain.Card, q string) []domain.Card {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return cards
	}
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if strings.Contains(strings.ToLower(c.Front), q) ||
			strings.Contains(strings.ToLower(c.Back), q) ||
			strings.Contains(strings.ToLower(c.Hint), q) {
			out = append(out, c)
		}
	}
	return out
}

// Sort orders a copy of cards ascending by the chosen field. Cards without a
// schedule sort after scheduled ones when ordering by next review.
func Sort(cards []domain.Card, by SortOption) []domain.Card {
	out := slices.Clone(cards)
	switch by {
	case SortDifficulty:
		slices.SortStableFunc(out, func(a, b domain.Card) int {
			return cmp.Compare(a.Difficulty, b.Difficulty)
		})
	case SortStability:
		slices.SortStableFunc(out, func(a, b domain.Card) int {
			return cmp.Compare(a.Stability, b.Stability)
		})
	case SortNextReview:
		slices.SortStableFunc(out, func(a, b domain.Card) int {
			as, bs := scheduled(a), scheduled(b)
			switch {
			case as && bs:
				return a.NextReview.Compare(*b.NextReview)
			case as:
				return -1
			case bs:
				return 1
			}
			return 0
		})
	}
	return out
}

func scheduled(c domain.Card) bool {
	return !c.IsNew && c.NextReview != nil
}

// Counts summarizes a card list for the deck navigation.
type Counts struct {
	New int
	Due int
}

// Count tallies new and due cards at now.
func Count(cards []domain.Card, now time.Time) Counts {
	var n Counts
	for _, c := range cards {
		switch {
		case c.IsNew:
			n.New++
		case c.DueAt(now):
			n.Due++
		}
	}
	return n
}
