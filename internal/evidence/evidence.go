// Package evidence retrieves ranked supporting passages from a project's
// semantic index.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rcliao/tutor-engine/internal/embedding"
	"github.com/rcliao/tutor-engine/internal/model"
	"github.com/rcliao/tutor-engine/internal/store"
)

// ErrIndexUnavailable is returned when the project has no indexed passages.
// It aborts the whole turn; callers must not retry.
var ErrIndexUnavailable = errors.New("evidence index unavailable")

// Store performs similarity search over the passage index. Read-only from
// the orchestration core's perspective.
type Store struct {
	backend  store.Store
	embedder embedding.Embedder // nil means keyword search only
}

// New creates an evidence store over the given backend. Embedder may be nil,
// in which case search degrades to keyword matching.
func New(backend store.Store, embedder embedding.Embedder) *Store {
	return &Store{backend: backend, embedder: embedder}
}

// Search returns up to k passages ranked by relevance, most relevant first.
// Fewer than k are returned when the index is smaller.
func (s *Store) Search(ctx context.Context, query string, k int) ([]model.Passage, error) {
	if k <= 0 {
		k = 4
	}

	n, err := s.backend.PassageCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("passage count: %w", err)
	}
	if n == 0 {
		return nil, ErrIndexUnavailable
	}

	if s.embedder == nil {
		return s.backend.SearchPassages(ctx, query, k)
	}

	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		// Embedding outage should not make an existing index useless.
		return s.backend.SearchPassages(ctx, query, k)
	}

	passages, err := s.backend.AllPassages(ctx)
	if err != nil {
		return nil, fmt.Errorf("load passages: %w", err)
	}

	type scored struct {
		passage model.Passage
		score   float64
	}
	ranked := make([]scored, 0, len(passages))
	for _, p := range passages {
		if len(p.Vector) == 0 {
			continue
		}
		ranked = append(ranked, scored{
			passage: p.Passage,
			score:   embedding.CosineSimilarity(qv, p.Vector),
		})
	}
	if len(ranked) == 0 {
		// Index was built without embeddings.
		return s.backend.SearchPassages(ctx, query, k)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	out := make([]model.Passage, len(ranked))
	for i, r := range ranked {
		out[i] = r.passage
	}
	return out, nil
}

// Format concatenates passages for prompt inclusion, each prefixed with a
// bracketed source tag like [notes.pdf P3] or [deck.pptx S2].
func Format(passages []model.Passage) string {
	var out []string
	for _, p := range passages {
		tag := "[" + filepath.Base(p.Source)
		if p.Page > 0 {
			tag += fmt.Sprintf(" P%d", p.Page)
		} else if p.Slide > 0 {
			tag += fmt.Sprintf(" S%d", p.Slide)
		}
		tag += "]"
		out = append(out, tag+"\n"+strings.TrimSpace(p.Content))
	}
	return strings.Join(out, "\n\n")
}
