// Package store provides project persistence: the passage index, the chat
// log, and the wrong-answer log, all in one SQLite database per project.
package store

import (
	"context"

	"github.com/rcliao/tutor-engine/internal/model"
)

// IndexedPassage is a stored passage with its optional embedding vector.
type IndexedPassage struct {
	model.Passage
	Vector []float32
}

// Store defines the persistence interface the engine depends on.
type Store interface {
	// AddPassages appends passages (with optional embeddings) to the index.
	AddPassages(ctx context.Context, passages []IndexedPassage) error

	// PassageCount reports how many passages are indexed.
	PassageCount(ctx context.Context) (int, error)

	// AllPassages returns every indexed passage with its vector.
	AllPassages(ctx context.Context) ([]IndexedPassage, error)

	// SearchPassages finds passages by keyword match, most recent first.
	SearchPassages(ctx context.Context, query string, limit int) ([]model.Passage, error)

	// AppendTurn appends a chat turn to the chat log.
	AppendTurn(ctx context.Context, turn model.ChatTurn) error

	// Turns reads the most recent limit turns, oldest first.
	Turns(ctx context.Context, limit int) ([]model.ChatTurn, error)

	// Turn reads one turn by id.
	Turn(ctx context.Context, id string) (*model.ChatTurn, error)

	// AppendWrong appends a wrong-answer item.
	AppendWrong(ctx context.Context, item model.WrongItem) error

	// AllWrong reads every wrong-answer item, oldest first.
	AllWrong(ctx context.Context) ([]model.WrongItem, error)

	// OverwriteWrong replaces the wrong-answer log with items.
	OverwriteWrong(ctx context.Context, items []model.WrongItem) error

	// Close closes the store.
	Close() error
}
