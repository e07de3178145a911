package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcliao/tutor-engine/internal/model"
	"github.com/rcliao/tutor-engine/internal/store"
)

type captureStore struct {
	added []store.IndexedPassage
}

func (c *captureStore) AddPassages(ctx context.Context, ps []store.IndexedPassage) error {
	c.added = append(c.added, ps...)
	return nil
}
func (c *captureStore) PassageCount(ctx context.Context) (int, error) { return len(c.added), nil }
func (c *captureStore) AllPassages(ctx context.Context) ([]store.IndexedPassage, error) {
	return c.added, nil
}
func (c *captureStore) SearchPassages(ctx context.Context, query string, limit int) ([]model.Passage, error) {
	return nil, nil
}
func (c *captureStore) AppendTurn(ctx context.Context, turn model.ChatTurn) error { return nil }
func (c *captureStore) Turns(ctx context.Context, limit int) ([]model.ChatTurn, error) {
	return nil, nil
}
func (c *captureStore) Turn(ctx context.Context, id string) (*model.ChatTurn, error) {
	return nil, errors.New("not found")
}
func (c *captureStore) AppendWrong(ctx context.Context, item model.WrongItem) error { return nil }
func (c *captureStore) AllWrong(ctx context.Context) ([]model.WrongItem, error)     { return nil, nil }
func (c *captureStore) OverwriteWrong(ctx context.Context, items []model.WrongItem) error {
	return nil
}
func (c *captureStore) Close() error { return nil }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFile_Markdown(t *testing.T) {
	cs := &captureStore{}
	ing := &Ingestor{Store: cs}

	path := writeFile(t, "notes.md", "# Automata\n\nA DFA has finitely many states.")
	n, err := ing.File(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || len(cs.added) != 1 {
		t.Fatalf("n = %d, stored %d", n, len(cs.added))
	}
	if cs.added[0].Source != "notes.md" {
		t.Errorf("source = %q, want the base name", cs.added[0].Source)
	}
	if !strings.Contains(cs.added[0].Content, "DFA") {
		t.Errorf("content = %q", cs.added[0].Content)
	}
}

func TestFile_RejectsUnsupportedTypes(t *testing.T) {
	ing := &Ingestor{Store: &captureStore{}}
	path := writeFile(t, "slides.pdf", "%PDF-1.4")
	if _, err := ing.File(context.Background(), path); err == nil {
		t.Error("expected an error for a pdf (external parsers import via JSONL)")
	}
}

func TestFile_EmptyFile(t *testing.T) {
	cs := &captureStore{}
	ing := &Ingestor{Store: cs}
	path := writeFile(t, "empty.txt", "   \n")
	n, err := ing.File(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || len(cs.added) != 0 {
		t.Errorf("empty file indexed %d passages", n)
	}
}

func TestJSONL_Import(t *testing.T) {
	cs := &captureStore{}
	ing := &Ingestor{Store: cs}

	lines := []string{
		`{"content":"slide one text","source":"deck.pptx","slide":1}`,
		``,
		`not json`,
		`{"content":"","source":"deck.pptx","slide":2}`,
		`{"content":"page three text","source":"notes.pdf","page":3}`,
	}
	path := writeFile(t, "dump.jsonl", strings.Join(lines, "\n"))

	n, err := ing.JSONL(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2 (blank, malformed, and empty-content lines skipped)", n)
	}
	if cs.added[0].Slide != 1 || cs.added[1].Page != 3 {
		t.Errorf("provenance lost: %+v", cs.added)
	}
}
