package present

import (
	"testing"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

func deckFixture() []domain.Card {
	past := now.Add(-time.Hour)
	soon := now.Add(3 * time.Hour)
	later := now.Add(40 * day)
	return []domain.Card{
		{ID: 1, Front: "Capital of France", Back: "Paris", IsNew: true},
		{ID: 2, Front: "2+2", Back: "4", Difficulty: 0.2, Stability: 30, NextReview: &later},
		{ID: 3, Front: "Mitochondria", Back: "Powerhouse", Hint: "Cell biology", Difficulty: 1.5, Stability: 4, NextReview: &past},
		{ID: 4, Front: "Ephemeral", Back: "Short-lived", Difficulty: 7.9, Stability: 0.5, NextReview: &soon},
	}
}

func ids(cards []domain.Card) []int64 {
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	testCases := []struct {
		option   FilterOption
		expected []int64
	}{
		{FilterAll, []int64{1, 2, 3, 4}},
		{FilterNew, []int64{1}},
		{FilterReview, []int64{3}},
		{FilterEasy, []int64{2}},
		{FilterMedium, []int64{3}},
		{FilterHard, []int64{4}},
		{"bogus", []int64{1, 2, 3, 4}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.option), func(t *testing.T) {
			got := ids(Filter(deckFixture(), tc.option, now))
			if !equalIDs(got, tc.expected) {
				t.Errorf("Expected %v, but got %v", tc.expected, got)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	if got := ids(Search(deckFixture(), "  paris ")); !equalIDs(got, []int64{1}) {
		t.Errorf("Expected search on back to match card 1, got %v", got)
	}
	if got := ids(Search(deckFixture(), "CELL")); !equalIDs(got, []int64{3}) {
		t.Errorf("Expected search on hint to match card 3, got %v", got)
	}
	if got := Search(deckFixture(), ""); len(got) != 4 {
		t.Errorf("Expected empty query to keep all cards, got %d", len(got))
	}
}

func TestSort(t *testing.T) {
	cards := deckFixture()

	t.Run("difficulty", func(t *testing.T) {
		got := ids(Sort(cards, SortDifficulty))
		if !equalIDs(got, []int64{1, 2, 3, 4}) {
			t.Errorf("Unexpected order %v", got)
		}
	})

	t.Run("stability", func(t *testing.T) {
		got := ids(Sort(cards, SortStability))
		if !equalIDs(got, []int64{1, 4, 3, 2}) {
			t.Errorf("Unexpected order %v", got)
		}
	})

	t.Run("next review puts new cards last", func(t *testing.T) {
		got := ids(Sort(cards, SortNextReview))
		if !equalIDs(got, []int64{3, 4, 2, 1}) {
			t.Errorf("Unexpected order %v", got)
		}
	})

	t.Run("input is not mutated", func(t *testing.T) {
		Sort(cards, SortStability)
		if !equalIDs(ids(cards), []int64{1, 2, 3, 4}) {
			t.Errorf("Sort mutated its input: %v", ids(cards))
		}
	})
}

func TestCount(t *testing.T) {
	got := Count(deckFixture(), now)
	if got.New != 1 || got.Due != 1 {
		t.Errorf("Expected 1 new and 1 due, got %+v", got)
	}
}

func TestPresenterView(t *testing.T) {
	p := NewPresenter(English, func() time.Time { return now })
	views := p.Views(deckFixture())

	if views[0].Label.Kind != KindNew || views[0].ReviewTooltip != "New card" {
		t.Errorf("Unexpected view for new card: %+v", views[0])
	}
	if views[2].Label.Kind != KindOverdue {
		t.Errorf("Expected card 3 to be overdue, got %+v", views[2].Label)
	}
	if views[3].DifficultyName != "Hard" || views[3].StabilityName != "Low" {
		t.Errorf("Unexpected bands for card 4: %s / %s", views[3].DifficultyName, views[3].StabilityName)
	}
	if views[3].DifficultyTooltip != "Difficulty: Hard (7.9 of 10)" {
		t.Errorf("Unexpected difficulty tooltip %q", views[3].DifficultyTooltip)
	}
	if views[1].Label.Text != "In 40 days" {
		t.Errorf("Expected 'In 40 days', got %q", views[1].Label.Text)
	}
}
