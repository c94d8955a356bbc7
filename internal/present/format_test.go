package present

import (
	"math"
	"testing"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func scheduledIn(d time.Duration) domain.Card {
	t := now.Add(d)
	return domain.Card{ID: 1, NextReview: &t}
}

func TestClassifyDifficulty(t *testing.T) {
	testCases := []struct {
		d        float64
		expected DifficultyBand
	}{
		{math.Inf(-1), DifficultyEasy},
		{-1, DifficultyEasy},
		{0, DifficultyEasy},
		{0.599, DifficultyEasy},
		{0.6, DifficultyMedium},
		{1.7, DifficultyMedium},
		{2.5, DifficultyMedium},
		{2.5000001, DifficultyHard},
		{10, DifficultyHard},
		{math.Inf(1), DifficultyHard},
		{math.NaN(), DifficultyHard},
	}

	for _, tc := range testCases {
		if got := ClassifyDifficulty(tc.d); got != tc.expected {
			t.Errorf("ClassifyDifficulty(%v): expected %s, but got %s", tc.d, tc.expected, got)
		}
	}
}

func TestClassifyStability(t *testing.T) {
	testCases := []struct {
		s        float64
		expected StabilityBand
	}{
		{-3, StabilityLow},
		{0, StabilityLow},
		{1, StabilityLow},
		{1.0001, StabilityMedium},
		{15, StabilityMedium},
		{15.01, StabilityHigh},
		{365, StabilityHigh},
		{math.NaN(), StabilityHigh},
	}

	for _, tc := range testCases {
		if got := ClassifyStability(tc.s); got != tc.expected {
			t.Errorf("ClassifyStability(%v): expected %s, but got %s", tc.s, tc.expected, got)
		}
	}
}

func TestClassificationIsTotal(t *testing.T) {
	for i := -100; i <= 2000; i++ {
		v := float64(i) / 100

		var want DifficultyBand
		switch {
		case v < 0.6:
			want = DifficultyEasy
		case v > 2.5:
			want = DifficultyHard
		default:
			want = DifficultyMedium
		}
		if got := ClassifyDifficulty(v); got != want {
			t.Fatalf("difficulty %v: expected %s, got %s", v, want, got)
		}

		var wantS StabilityBand
		switch {
		case v <= 1:
			wantS = StabilityLow
		case v <= 15:
			wantS = StabilityMedium
		default:
			wantS = StabilityHigh
		}
		if got := ClassifyStability(v); got != wantS {
			t.Fatalf("stability %v: expected %s, got %s", v, wantS, got)
		}
	}
}

func TestFormatNextReviewEnglish(t *testing.T) {
	testCases := []struct {
		name     string
		in       time.Duration
		expected string
		kind     Kind
	}{
		{"overdue by a second", -time.Second, "Due for review", KindOverdue},
		{"overdue by a month", -31 * day, "Due for review", KindOverdue},
		{"due right now", 0, "Less than an hour", KindScheduled},
		{"half an hour", 30 * time.Minute, "Less than an hour", KindScheduled},
		{"exactly one hour", time.Hour, "In 1 hour", KindScheduled},
		{"one and a half hours", 90 * time.Minute, "In 1 hour", KindScheduled},
		{"three hours", 3 * time.Hour, "In 3 hours", KindScheduled},
		{"one day", day, "In 1 day", KindScheduled},
		{"one day three hours", 27 * time.Hour, "In 1 day 3 hours", KindScheduled},
		{"two days", 2 * day, "In 2 days", KindScheduled},
		{"just over two days", 2*day + time.Minute, "In 3 days", KindScheduled},
		{"ten days", 10 * day, "In 10 days", KindScheduled},
		{"fifty nine days", 59 * day, "In 59 days", KindScheduled},
		{"sixty days", 60 * day, "In 2 months", KindScheduled},
		{"just over fifty nine days", 59*day + time.Hour, "In 2 months", KindScheduled},
		{"seventy five days", 75 * day, "In 2 months", KindScheduled},
		{"four hundred days", 400 * day, "In 13 months", KindScheduled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatNextReview(scheduledIn(tc.in), now, English)
			if got.Text != tc.expected {
				t.Errorf("Expected text '%s', but got '%s'", tc.expected, got.Text)
			}
			if got.Kind != tc.kind {
				t.Errorf("Expected kind %s, but got %s", tc.kind, got.Kind)
			}
		})
	}
}

func TestFormatNextReviewRussian(t *testing.T) {
	testCases := []struct {
		in       time.Duration
		expected string
	}{
		{-time.Hour, "На повторение"},
		{20 * time.Minute, "Менее часа"},
		{time.Hour, "Через час"},
		{3 * time.Hour, "Через 3 часа"},
		{5 * time.Hour, "Через 5 часов"},
		{25 * time.Hour, "Через 1 день 1 час"},
		{26 * time.Hour, "Через 1 день 2 часа"},
		{2 * day, "Через 2 дня"},
		{3 * day, "Через 3 дня"},
		{5 * day, "Через 5 дней"},
		{75 * day, "Через 2 месяца"},
		{160 * day, "Через 5 месяцев"},
	}

	for _, tc := range testCases {
		got := FormatNextReview(scheduledIn(tc.in), now, Russian)
		if got.Text != tc.expected {
			t.Errorf("%v: expected '%s', but got '%s'", tc.in, tc.expected, got.Text)
		}
	}
}

func TestFormatNextReviewNewCard(t *testing.T) {
	past := now.Add(-10 * day)
	future := now.Add(10 * day)

	for _, next := range []*time.Time{nil, &past, &future} {
		c := domain.Card{IsNew: true, NextReview: next}
		got := FormatNextReview(c, now, English)
		if got.Kind != KindNew || got.Text != "Study now" {
			t.Errorf("Expected the study-now label for a new card, got %+v", got)
		}
	}
}

func TestFormatNextReviewMissingSchedule(t *testing.T) {
	var zero time.Time
	for _, c := range []domain.Card{{}, {NextReview: &zero}} {
		got := FormatNextReview(c, now, English)
		if got.Kind != KindUnknown || got.Text != "—" {
			t.Errorf("Expected placeholder for a card without a schedule, got %+v", got)
		}
	}
}

func TestPastNeverFormatsAsDuration(t *testing.T) {
	for _, d := range []time.Duration{-time.Nanosecond, -time.Minute, -day, -90 * day} {
		if got := FormatNextReview(scheduledIn(d), now, Russian); got.Kind != KindOverdue {
			t.Errorf("%v: expected overdue, got %+v", d, got)
		}
	}
}

func TestPluralRules(t *testing.T) {
	slavic := map[int]PluralForm{0: Many, 1: One, 2: Few, 4: Few, 5: Many, 11: Many, 21: Many, 22: Many}
	for n, want := range slavic {
		if got := SlavicPlural(n); got != want {
			t.Errorf("SlavicPlural(%d): expected %d, got %d", n, want, got)
		}
	}
	if SimplePlural(1) != One || SimplePlural(2) != Many || SimplePlural(0) != Many {
		t.Error("SimplePlural should only treat 1 as singular")
	}
}

func TestLookupLocale(t *testing.T) {
	testCases := map[string]*Locale{
		"ru":        Russian,
		"ru-RU":     Russian,
		"en":        English,
		"en-GB":     English,
		"":          English,
		"not a tag": English,
	}
	for tag, want := range testCases {
		if got := LookupLocale(tag); got != want {
			t.Errorf("LookupLocale(%q): expected %s, got %s", tag, want.Tag, got.Tag)
		}
	}
}
