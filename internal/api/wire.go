package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

type actionRequest struct {
	UserCardID int64  `json:"userCardId"`
	Action     string `json:"action"`
}

// cardDTO accepts both the study queue shape (cardId, isNew, mode) and the
// card list shape (id, new).
type cardDTO struct {
	CardID       int64           `json:"cardId"`
	ID           int64           `json:"id"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Hint         string          `json:"hint"`
	IsNew        *bool           `json:"isNew"`
	New          *bool           `json:"new"`
	Difficulty   float64         `json:"difficulty"`
	Stability    float64         `json:"stability"`
	NextReview   json.RawMessage `json:"nextReview"`
	LastReviewed json.RawMessage `json:"lastReviewed"`
	Mode         string          `json:"mode"`
}

func (d cardDTO) card(zone *time.Location) domain.Card {
	id := d.CardID
	if id == 0 {
		id = d.ID
	}
	return domain.Card{
		ID:           id,
		Front:        d.Front,
		Back:         d.Back,
		Hint:         d.Hint,
		IsNew:        (d.IsNew != nil && *d.IsNew) || (d.New != nil && *d.New),
		Difficulty:   d.Difficulty,
		Stability:    d.Stability,
		NextReview:   parseTime(d.NextReview, zone),
		LastReviewed: parseTime(d.LastReviewed, zone),
	}
}

type deckDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	NewCardsCount int    `json:"newCardsCount"`
	ReviewCount   int    `json:"reviewCount"`
}

func (d deckDTO) deck() domain.Deck {
	return domain.Deck{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		NewCount:    d.NewCardsCount,
		ReviewCount: d.ReviewCount,
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTime reads a timestamp sent as an ISO string (zone-less values are
// read in zone) or as epoch milliseconds. Anything else, null included,
// yields nil.
func parseTime(raw json.RawMessage, zone *time.Location) *time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, s, zone); err == nil {
				return &t
			}
		}
		return nil
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}
