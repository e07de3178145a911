package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rcliao/tutor-engine/internal/model"
)

func (s *SQLiteStore) AppendWrong(ctx context.Context, item model.WrongItem) error {
	if item.ID == "" {
		item.ID = s.NewID()
	}
	if item.Box < 1 {
		item.Box = 1
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal wrong item: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO wrong_items (id, t, payload) VALUES (?, ?, ?)`,
		item.ID, item.TS, string(payload))
	if err != nil {
		return fmt.Errorf("insert wrong item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AllWrong(ctx context.Context) ([]model.WrongItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM wrong_items ORDER BY t ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WrongItem
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var item model.WrongItem
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// OverwriteWrong replaces the whole wrong-answer log. Review decisions and
// deletions are applied by rewriting the collection on next write.
func (s *SQLiteStore) OverwriteWrong(ctx context.Context, items []model.WrongItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wrong_items`); err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == "" {
			item.ID = s.NewID()
		}
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal wrong item: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO wrong_items (id, t, payload) VALUES (?, ?, ?)`,
			item.ID, item.TS, string(payload))
		if err != nil {
			return fmt.Errorf("insert wrong item: %w", err)
		}
	}
	return tx.Commit()
}
