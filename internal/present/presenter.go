package present

import (
	"fmt"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

// CardView is a card with every display value precomputed for templates.
type CardView struct {
	domain.Card
	Label             Label
	Difficulty        DifficultyBand
	DifficultyName    string
	DifficultyTooltip string
	Stability         StabilityBand
	StabilityName     string
	StabilityTooltip  string
	ReviewTooltip     string
}

// Presenter binds a locale and a clock.
type Presenter struct {
	loc *Locale
	now func() time.Time
}

// NewPresenter returns a presenter for loc. A nil clock means time.Now.
func NewPresenter(loc *Locale, now func() time.Time) *Presenter {
	if loc == nil {
		loc = English
	}
	if now == nil {
		now = time.Now
	}
	return &Presenter{loc: loc, now: now}
}

func (p *Presenter) Locale() *Locale { return p.loc }

func (p *Presenter) Now() time.Time { return p.now() }

// Label formats the time until c's next review.
func (p *Presenter) Label(c domain.Card) Label {
	return FormatNextReview(c, p.now(), p.loc)
}

// View renders a single card.
func (p *Presenter) View(c domain.Card) CardView {
	return p.view(c, p.now())
}

// Views renders cards against a single reading of the clock.
func (p *Presenter) Views(cards []domain.Card) []CardView {
	now := p.now()
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = p.view(c, now)
	}
	return out
}

func (p *Presenter) view(c domain.Card, now time.Time) CardView {
	d := ClassifyDifficulty(c.Difficulty)
	s := ClassifyStability(c.Stability)
	v := CardView{
		Card:              c,
		Label:             FormatNextReview(c, now, p.loc),
		Difficulty:        d,
		DifficultyName:    p.loc.DifficultyName(d),
		DifficultyTooltip: fmt.Sprintf(p.loc.difficultyTooltip, p.loc.DifficultyName(d), c.Difficulty),
		Stability:         s,
		StabilityName:     p.loc.StabilityName(s),
		StabilityTooltip:  fmt.Sprintf(p.loc.stabilityTooltip, c.Stability),
	}
	switch {
	case c.IsNew:
		v.ReviewTooltip = p.loc.newCardTooltip
	case c.NextReview != nil && !c.NextReview.IsZero():
		v.ReviewTooltip = fmt.Sprintf(p.loc.nextReviewTooltip, c.NextReview.Local().Format(p.loc.dateLayout))
	default:
		v.ReviewTooltip = p.loc.placeholder
	}
	return v
}
