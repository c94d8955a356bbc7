package present

import (
	"fmt"

	"golang.org/x/text/language"
)

// PluralForm is a grammatical number bucket.
type PluralForm int

const (
	One  PluralForm = iota // singular
	Few                    // small plural, 2-4 in Russian
	Many                   // everything else
)

// PluralRule picks the bucket for a count.
type PluralRule func(n int) PluralForm

// SlavicPlural is the three-bucket rule used by the Russian locale:
// exactly 1, exactly 2 to 4, and the rest.
func SlavicPlural(n int) PluralForm {
	switch {
	case n == 1:
		return One
	case n >= 2 && n <= 4:
		return Few
	default:
		return Many
	}
}

// SimplePlural collapses to singular and plural.
func SimplePlural(n int) PluralForm {
	if n == 1 {
		return One
	}
	return Many
}

type unit int

const (
	unitHour unit = iota
	unitDay
	unitMonth
)

// Locale holds the phrases and plural rule for one display language.
type Locale struct {
	Tag    language.Tag
	plural PluralRule

	studyNow     string
	overdue      string
	placeholder  string
	lessThanHour string
	inOneHour    string
	in           string // wraps a duration phrase, e.g. "In %s"
	nouns        [3][3]string
	difficulty   [3]string
	stability    [3]string

	newCardTooltip    string
	nextReviewTooltip string // formats the absolute next review time
	difficultyTooltip string // formats band name and value
	stabilityTooltip  string
	dateLayout        string
}

// English is the default locale.
var English = &Locale{
	Tag:          language.English,
	plural:       SimplePlural,
	studyNow:     "Study now",
	overdue:      "Due for review",
	placeholder:  "—",
	lessThanHour: "Less than an hour",
	inOneHour:    "In 1 hour",
	in:           "In %s",
	nouns: [3][3]string{
		unitHour:  {"hour", "hours", "hours"},
		unitDay:   {"day", "days", "days"},
		unitMonth: {"month", "months", "months"},
	},
	difficulty:        [3]string{"Easy", "Medium", "Hard"},
	stability:         [3]string{"Low", "Medium", "High"},
	newCardTooltip:    "New card",
	nextReviewTooltip: "Next review: %s",
	difficultyTooltip: "Difficulty: %s (%.1f of 10)",
	stabilityTooltip:  "Stability: %.1f",
	dateLayout:        "January 2, 2006 15:04",
}

// Russian uses Slavic plural buckets for hours, days and months.
var Russian = &Locale{
	Tag:          language.Russian,
	plural:       SlavicPlural,
	studyNow:     "Новая",
	overdue:      "На повторение",
	placeholder:  "—",
	lessThanHour: "Менее часа",
	inOneHour:    "Через час",
	in:           "Через %s",
	nouns: [3][3]string{
		unitHour:  {"час", "часа", "часов"},
		unitDay:   {"день", "дня", "дней"},
		unitMonth: {"месяц", "месяца", "месяцев"},
	},
	difficulty:        [3]string{"Легкая", "Средняя", "Сложная"},
	stability:         [3]string{"Низкая", "Средняя", "Высокая"},
	newCardTooltip:    "Новая карточка",
	nextReviewTooltip: "Следующее повторение: %s",
	difficultyTooltip: "Сложность: %s (%.1f из 10)",
	stabilityTooltip:  "Стабильность: %.1f",
	dateLayout:        "02.01.2006 15:04",
}

var (
	locales = []*Locale{English, Russian}
	matcher = language.NewMatcher([]language.Tag{English.Tag, Russian.Tag})
)

// LookupLocale resolves a BCP 47 tag such as "ru-RU" to the closest
// supported locale. Unknown or malformed tags resolve to English.
func LookupLocale(tag string) *Locale {
	_, idx := language.MatchStrings(matcher, tag)
	if idx < 0 || idx >= len(locales) {
		return English
	}
	return locales[idx]
}

// Plural returns the bucket for n under the locale's rule.
func (l *Locale) Plural(n int) PluralForm {
	return l.plural(n)
}

func (l *Locale) count(u unit, n int) string {
	return fmt.Sprintf("%d %s", n, l.nouns[u][l.plural(n)])
}

// DifficultyName returns the localized band name.
func (l *Locale) DifficultyName(b DifficultyBand) string {
	return l.difficulty[b]
}

// StabilityName returns the localized band name.
func (l *Locale) StabilityName(b StabilityBand) string {
	return l.stability[b]
}
