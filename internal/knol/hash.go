// Package knol fingerprints card content so imports can skip cards a deck
// already holds.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/recall/internal/domain"
)

// Normalize concatenates the card's front, back and hint after cleaning
// each part: lowercased, trimmed, with CRLF line endings folded to LF.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	// Joined with newlines so "front"+"back" can't collide with "frontback".
	return strings.Join([]string{
		normalizePart(card.Front),
		normalizePart(card.Back),
		normalizePart(card.Hint),
	}, "\n")
}

// Hash returns the SHA-256 of the normalized card as a hex string.
func Hash(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}

// Set is a set of card hashes.
type Set map[string]struct{}

// NewSet hashes every card.
func NewSet(cards []domain.Card) Set {
	s := make(Set, len(cards))
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

// Add inserts a card and reports whether it was not already present.
func (s Set) Add(card domain.Card) bool {
	h := Hash(card)
	if _, ok := s[h]; ok {
		return false
	}
	s[h] = struct{}{}
	return true
}

// Has reports whether an equivalent card is in the set.
func (s Set) Has(card domain.Card) bool {
	_, ok := s[Hash(card)]
	return ok
}
