// Package ingest builds a project's evidence index from plain-text or
// markdown study material, or from pre-parsed passage dumps.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcliao/tutor-engine/internal/chunker"
	"github.com/rcliao/tutor-engine/internal/embedding"
	"github.com/rcliao/tutor-engine/internal/model"
	"github.com/rcliao/tutor-engine/internal/store"
)

// Ingestor chunks, embeds, and stores study material.
type Ingestor struct {
	Store    store.Store
	Embedder embedding.Embedder // nil: index without vectors, keyword search only
}

// File ingests one .txt or .md file and returns the number of passages added.
func (ing *Ingestor) File(ctx context.Context, path string) (int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".md" {
		return 0, fmt.Errorf("unsupported file type %q (txt and md only; parse other formats externally and import with JSONL)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	chunks := chunker.Chunk(string(data), chunker.DefaultOptions())
	passages := make([]store.IndexedPassage, 0, len(chunks))
	for _, c := range chunks {
		p := store.IndexedPassage{
			Passage: model.Passage{Content: c.Text, Source: name},
		}
		if ing.Embedder != nil {
			v, err := ing.Embedder.Embed(ctx, c.Text)
			if err != nil {
				return 0, fmt.Errorf("embed chunk of %s: %w", name, err)
			}
			p.Vector = v
		}
		passages = append(passages, p)
	}

	if len(passages) == 0 {
		return 0, nil
	}
	if err := ing.Store.AddPassages(ctx, passages); err != nil {
		return 0, err
	}
	return len(passages), nil
}

// JSONL imports pre-parsed passages, one Passage JSON object per line.
// External parsers (PDF, PPTX, DOCX) hand their output over this way, with
// page or slide provenance intact.
func (ing *Ingestor) JSONL(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var passages []store.IndexedPassage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var p model.Passage
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			continue // skip malformed lines
		}
		if p.Content == "" {
			continue
		}
		ip := store.IndexedPassage{Passage: p}
		if ing.Embedder != nil {
			v, err := ing.Embedder.Embed(ctx, p.Content)
			if err != nil {
				return 0, fmt.Errorf("embed passage from %s: %w", path, err)
			}
			ip.Vector = v
		}
		passages = append(passages, ip)
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}

	if len(passages) == 0 {
		return 0, nil
	}
	if err := ing.Store.AddPassages(ctx, passages); err != nil {
		return 0, err
	}
	return len(passages), nil
}
