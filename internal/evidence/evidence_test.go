package evidence

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rcliao/tutor-engine/internal/embedding"
	"github.com/rcliao/tutor-engine/internal/model"
	"github.com/rcliao/tutor-engine/internal/store"
)

// fakeBackend is an in-memory store.Store for search tests. Only the passage
// methods do anything.
type fakeBackend struct {
	passages []store.IndexedPassage
	keyword  []model.Passage // what SearchPassages returns
	searched bool
}

func (f *fakeBackend) AddPassages(ctx context.Context, ps []store.IndexedPassage) error {
	f.passages = append(f.passages, ps...)
	return nil
}

func (f *fakeBackend) PassageCount(ctx context.Context) (int, error) {
	return len(f.passages), nil
}

func (f *fakeBackend) AllPassages(ctx context.Context) ([]store.IndexedPassage, error) {
	return f.passages, nil
}

func (f *fakeBackend) SearchPassages(ctx context.Context, query string, limit int) ([]model.Passage, error) {
	f.searched = true
	if len(f.keyword) > limit {
		return f.keyword[:limit], nil
	}
	return f.keyword, nil
}

func (f *fakeBackend) AppendTurn(ctx context.Context, turn model.ChatTurn) error { return nil }
func (f *fakeBackend) Turns(ctx context.Context, limit int) ([]model.ChatTurn, error) {
	return nil, nil
}
func (f *fakeBackend) Turn(ctx context.Context, id string) (*model.ChatTurn, error) {
	return nil, errors.New("not found")
}
func (f *fakeBackend) AppendWrong(ctx context.Context, item model.WrongItem) error { return nil }
func (f *fakeBackend) AllWrong(ctx context.Context) ([]model.WrongItem, error)     { return nil, nil }
func (f *fakeBackend) OverwriteWrong(ctx context.Context, items []model.WrongItem) error {
	return nil
}
func (f *fakeBackend) Close() error { return nil }

// fixedEmbedder returns the same vector for every input.
type fixedEmbedder struct{ v embedding.Vector }

func (e fixedEmbedder) Embed(ctx context.Context, text string) (embedding.Vector, error) {
	return e.v, nil
}
func (e fixedEmbedder) Dims() int { return len(e.v) }

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, text string) (embedding.Vector, error) {
	return nil, errors.New("embedding service down")
}
func (failingEmbedder) Dims() int { return 0 }

func indexed(content string, v ...float32) store.IndexedPassage {
	return store.IndexedPassage{
		Passage: model.Passage{Content: content, Source: "notes.md"},
		Vector:  v,
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	s := New(&fakeBackend{}, nil)
	_, err := s.Search(context.Background(), "anything", 4)
	if !errors.Is(err, ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestSearch_CosineRanking(t *testing.T) {
	backend := &fakeBackend{passages: []store.IndexedPassage{
		indexed("orthogonal", 0, 1),
		indexed("exact match", 1, 0),
		indexed("close", 0.9, 0.1),
	}}
	s := New(backend, fixedEmbedder{v: embedding.Vector{1, 0}})

	got, err := s.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if got[0].Content != "exact match" || got[1].Content != "close" {
		t.Errorf("ranking wrong: %q, %q", got[0].Content, got[1].Content)
	}
	if backend.searched {
		t.Error("keyword search should not run when vectors rank")
	}
}

func TestSearch_FewerThanK(t *testing.T) {
	backend := &fakeBackend{passages: []store.IndexedPassage{indexed("only one", 1, 0)}}
	s := New(backend, fixedEmbedder{v: embedding.Vector{1, 0}})
	got, err := s.Search(context.Background(), "q", 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 passage, got %d", len(got))
	}
}

func TestSearch_NoEmbedderUsesKeyword(t *testing.T) {
	backend := &fakeBackend{
		passages: []store.IndexedPassage{indexed("p")},
		keyword:  []model.Passage{{Content: "kw hit"}},
	}
	s := New(backend, nil)
	got, err := s.Search(context.Background(), "q", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !backend.searched || len(got) != 1 || got[0].Content != "kw hit" {
		t.Errorf("expected keyword path, got %v (searched=%v)", got, backend.searched)
	}
}

func TestSearch_EmbedderFailureFallsBack(t *testing.T) {
	backend := &fakeBackend{
		passages: []store.IndexedPassage{indexed("p", 1, 0)},
		keyword:  []model.Passage{{Content: "kw hit"}},
	}
	s := New(backend, failingEmbedder{})
	got, err := s.Search(context.Background(), "q", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !backend.searched || len(got) != 1 {
		t.Error("embedding outage should fall back to keyword search")
	}
}

func TestSearch_VectorlessIndexFallsBack(t *testing.T) {
	backend := &fakeBackend{
		passages: []store.IndexedPassage{indexed("no vector")},
		keyword:  []model.Passage{{Content: "kw hit"}},
	}
	s := New(backend, fixedEmbedder{v: embedding.Vector{1, 0}})
	got, err := s.Search(context.Background(), "q", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !backend.searched || len(got) != 1 {
		t.Error("index built without embeddings should fall back to keyword search")
	}
}

func TestSearch_DefaultK(t *testing.T) {
	var ps []store.IndexedPassage
	for i := 0; i < 10; i++ {
		ps = append(ps, indexed("p", 1, 0))
	}
	s := New(&fakeBackend{passages: ps}, fixedEmbedder{v: embedding.Vector{1, 0}})
	got, err := s.Search(context.Background(), "q", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("k<=0 should default to 4, got %d", len(got))
	}
}

func TestFormat_SourceTags(t *testing.T) {
	got := Format([]model.Passage{
		{Content: "from a pdf", Source: "/data/notes.pdf", Page: 3},
		{Content: "from slides", Source: "deck.pptx", Slide: 2},
		{Content: "plain text", Source: "notes.md"},
	})
	for _, want := range []string{"[notes.pdf P3]", "[deck.pptx S2]", "[notes.md]"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing tag %q in %q", want, got)
		}
	}
	if !strings.Contains(got, "[notes.pdf P3]\nfrom a pdf") {
		t.Error("tag should directly precede its passage")
	}
	if strings.Count(got, "\n\n") != 2 {
		t.Errorf("passages should be separated by blank lines, got %q", got)
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("got %q", got)
	}
}
