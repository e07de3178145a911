package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rcliao/tutor-engine/internal/model"
)

func (s *SQLiteStore) AppendTurn(ctx context.Context, turn model.ChatTurn) error {
	if turn.ID == "" {
		turn.ID = s.NewID()
	}
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_turns (id, t, role, kind, payload) VALUES (?, ?, ?, ?, ?)`,
		turn.ID, turn.TS, turn.Role, turn.Kind, string(payload))
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// Turns reads the most recent limit turns, oldest first. limit <= 0 reads
// the whole log.
func (s *SQLiteStore) Turns(ctx context.Context, limit int) ([]model.ChatTurn, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM (
			SELECT t, payload FROM chat_turns ORDER BY t DESC, id DESC LIMIT ?
		 ) ORDER BY t ASC`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ChatTurn
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var turn model.ChatTurn
		if err := json.Unmarshal([]byte(payload), &turn); err != nil {
			continue // skip corrupt rows, matching the append-only log contract
		}
		out = append(out, turn)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Turn(ctx context.Context, id string) (*model.ChatTurn, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM chat_turns WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("turn not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	var turn model.ChatTurn
	if err := json.Unmarshal([]byte(payload), &turn); err != nil {
		return nil, fmt.Errorf("decode turn %s: %w", id, err)
	}
	return &turn, nil
}
