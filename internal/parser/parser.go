// Package parser extracts flashcards from markdown notes.
//
// A card starts with a "Q:" line and may carry "A:" (answer) and "H:" (hint)
// blocks; "C:" is accepted as an older spelling of the hint. Blocks run
// until the next prefix, a "---" separator, or the next "Q:".
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/recall/internal/domain"
)

type field int

const (
	seeking field = iota
	front
	back
	hint
)

var prefixes = []struct {
	prefix string
	field  field
}{
	{"Q:", front},
	{"A:", back},
	{"H:", hint},
	{"C:", hint},
}

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. Cards without an
// answer are dropped; the API rejects them.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var (
		cards   []domain.Card
		current domain.Card
		block   []string
		state   = seeking
	)

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(block, "\n"), "\n")
		switch state {
		case front:
			current.Front = content
		case back:
			current.Back = content
		case hint:
			current.Hint = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Front != "" && current.Back != "" {
			cards = append(cards, current)
		}
		current = domain.Card{}
		state = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == "---" {
			finishCard()
			continue
		}

		matched := false
		for _, p := range prefixes {
			if !strings.HasPrefix(line, p.prefix) {
				continue
			}
			if p.field == front && state != seeking {
				finishCard() // A new question always starts a new card
			} else {
				flushBlock()
			}
			state = p.field
			block = append(block, strings.TrimPrefix(line[len(p.prefix):], " "))
			matched = true
			break
		}

		if !matched && state != seeking {
			block = append(block, line)
		}
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}
