package present

import (
	"fmt"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

const (
	day          = 24 * time.Hour
	daysPerMonth = 30
)

// Kind tells templates how to style a next-review label.
type Kind int

const (
	KindScheduled Kind = iota
	KindNew
	KindOverdue
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNew:
		return "new"
	case KindOverdue:
		return "overdue"
	case KindUnknown:
		return "unknown"
	default:
		return "scheduled"
	}
}

// Label is the formatted time until a card's next review.
type Label struct {
	Text string
	Kind Kind
}

// FormatNextReview renders the time remaining until c is due, relative to now.
// Precision drops with distance: hours within two days, months from two
// months out, whole days in between.
func FormatNextReview(c domain.Card, now time.Time, loc *Locale) Label {
	if c.IsNew {
		return Label{Text: loc.studyNow, Kind: KindNew}
	}
	if c.NextReview == nil || c.NextReview.IsZero() {
		return Label{Text: loc.placeholder, Kind: KindUnknown}
	}

	diff := c.NextReview.Sub(now)
	if diff < 0 {
		return Label{Text: loc.overdue, Kind: KindOverdue}
	}

	days := int(ceilUnits(diff, day))
	if days <= 2 {
		return Label{Text: loc.hoursText(diff), Kind: KindScheduled}
	}
	// Months count whole 30-day blocks of the rounded-up day count.
	if months := days / daysPerMonth; months >= 2 {
		return Label{Text: fmt.Sprintf(loc.in, loc.count(unitMonth, months)), Kind: KindScheduled}
	}
	return Label{Text: fmt.Sprintf(loc.in, loc.count(unitDay, days)), Kind: KindScheduled}
}

// hoursText formats a non-negative duration of at most two days.
func (l *Locale) hoursText(diff time.Duration) string {
	days := int(diff / day)
	hours := int(diff % day / time.Hour)

	if days == 0 {
		switch hours {
		case 0:
			return l.lessThanHour
		case 1:
			return l.inOneHour
		default:
			return fmt.Sprintf(l.in, l.count(unitHour, hours))
		}
	}

	phrase := l.count(unitDay, days)
	if hours > 0 {
		phrase += " " + l.count(unitHour, hours)
	}
	return fmt.Sprintf(l.in, phrase)
}

func ceilUnits(d, u time.Duration) int64 {
	n := int64(d / u)
	if d%u != 0 {
		n++
	}
	return n
}
