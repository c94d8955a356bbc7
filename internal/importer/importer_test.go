package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/recall/internal/api"
	"github.com/conorfennell/recall/internal/domain"
)

type fakeBackend struct {
	mu       sync.Mutex
	existing []domain.Card
	listErr  error
	failOn   string
	created  []api.NewCard
}

func (f *fakeBackend) ListCards(context.Context, int64) ([]domain.Card, error) {
	return f.existing, f.listErr
}

func (f *fakeBackend) CreateCard(_ context.Context, n api.NewCard) (domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.Front == f.failOn {
		return domain.Card{}, errors.New("api: 500 Internal Server Error")
	}
	f.created = append(f.created, n)
	return domain.Card{ID: int64(len(f.created)), Front: n.Front, Back: n.Back, Hint: n.Hint}, nil
}

func writeNotes(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	return dir
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestImportCreatesOnlyNewCards(t *testing.T) {
	dir := writeNotes(t, map[string]string{
		"spanish.md":      "Q: hola\nA: hello\n\nQ: adiós\nA: goodbye\nH: parting\n",
		"nested/verbs.md": "Q: comer\nA: to eat\n---\nQ: Hola\nA: Hello\n",
		"README.txt":      "Q: ignored\nA: not markdown\n",
		".git/HEAD.md":    "Q: ignored\nA: git internals\n",
	})
	backend := &fakeBackend{existing: []domain.Card{{ID: 1, Front: "comer", Back: "to eat"}}}

	report, err := New(backend, t.TempDir(), 2, quiet()).Import(context.Background(), dir, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 4, report.Parsed)
	assert.Equal(t, 2, report.Skipped, "one card exists in the deck, one repeats within the source")
	assert.Equal(t, 2, report.Created)
	assert.Empty(t, report.Errors)

	fronts := []string{}
	for _, n := range backend.created {
		assert.Equal(t, int64(5), n.DeckID)
		fronts = append(fronts, n.Front)
	}
	sort.Strings(fronts)
	// nested/ is walked before spanish.md, so its spelling of the duplicate wins.
	assert.Equal(t, []string{"Hola", "adiós"}, fronts)
}

func TestImportCollectsCreateFailures(t *testing.T) {
	dir := writeNotes(t, map[string]string{"deck.md": "Q: one\nA: 1\n\nQ: two\nA: 2\n"})
	backend := &fakeBackend{failOn: "two"}

	report, err := New(backend, t.TempDir(), 4, quiet()).Import(context.Background(), dir, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Error(), `"two"`)
}

func TestImportFailsWhenDeckCannotBeListed(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("unauthorized")}
	_, err := New(backend, t.TempDir(), 1, quiet()).Import(context.Background(), t.TempDir(), 1)
	assert.ErrorContains(t, err, "unauthorized")
}

func TestImportMissingDirectory(t *testing.T) {
	_, err := New(&fakeBackend{}, t.TempDir(), 1, quiet()).Import(context.Background(), filepath.Join(t.TempDir(), "nope"), 1)
	assert.Error(t, err)
}
