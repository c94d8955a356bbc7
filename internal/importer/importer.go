// Package importer loads markdown notes from a local directory or a git
// repository and creates the cards a deck does not already hold.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/conorfennell/recall/internal/api"
	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/gitsource"
	"github.com/conorfennell/recall/internal/knol"
	"github.com/conorfennell/recall/internal/parser"
)

// Backend is the part of the flashcard API an import needs.
type Backend interface {
	ListCards(ctx context.Context, deckID int64) ([]domain.Card, error)
	CreateCard(ctx context.Context, card api.NewCard) (domain.Card, error)
}

// Report summarizes one import run.
type Report struct {
	Files   int
	Parsed  int
	Created int
	Skipped int
	Errors  []error
}

// Importer creates cards from markdown sources.
type Importer struct {
	api         Backend
	reposDir    string
	concurrency int
	log         *slog.Logger
}

// New returns an importer that clones git sources under reposDir and
// uploads at most concurrency cards at a time.
func New(backend Backend, reposDir string, concurrency int, logger *slog.Logger) *Importer {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{api: backend, reposDir: reposDir, concurrency: concurrency, log: logger}
}

// Import reconciles source into deckID. Cards whose content already exists
// in the deck, or repeats earlier in the source, are skipped. Per-file and
// per-card failures are collected in the report; the returned error is set
// only when the run could not proceed at all.
func (im *Importer) Import(ctx context.Context, source string, deckID int64) (Report, error) {
	var report Report

	root := source
	if gitsource.IsGitURL(source) {
		local, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return report, err
		}
		if err := gitsource.Sync(ctx, source, local, im.log); err != nil {
			return report, err
		}
		root = local
	}

	existing, err := im.api.ListCards(ctx, deckID)
	if err != nil {
		return report, fmt.Errorf("failed to list cards of deck %d: %w", deckID, err)
	}
	seen := knol.NewSet(existing)

	var pending []domain.Card
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		report.Files++
		cards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		for _, card := range cards {
			report.Parsed++
			if !seen.Add(card) {
				report.Skipped++
				continue
			}
			pending = append(pending, card)
		}
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(im.concurrency)
	for _, card := range pending {
		g.Go(func() error {
			_, err := im.api.CreateCard(ctx, api.NewCard{
				DeckID: deckID,
				Front:  card.Front,
				Back:   card.Back,
				Hint:   card.Hint,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("creating %q: %w", card.Front, err))
				return nil
			}
			report.Created++
			return nil
		})
	}
	_ = g.Wait()

	im.log.Info("import complete",
		"source", source,
		"deck_id", deckID,
		"files", report.Files,
		"parsed_cards", report.Parsed,
		"created", report.Created,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)
	return report, nil
}
