package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/tutor-engine/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewID returns a fresh ULID string.
func (s *SQLiteStore) NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS passages (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		content   TEXT NOT NULL,
		source    TEXT NOT NULL,
		page      INTEGER NOT NULL DEFAULT 0,
		slide     INTEGER NOT NULL DEFAULT 0,
		embedding BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_passages_source ON passages(source);

	CREATE TABLE IF NOT EXISTS chat_turns (
		id      TEXT PRIMARY KEY,
		t       INTEGER NOT NULL,
		role    TEXT NOT NULL,
		kind    TEXT NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_turns_t ON chat_turns(t);

	CREATE TABLE IF NOT EXISTS wrong_items (
		id      TEXT PRIMARY KEY,
		t       INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_wrong_items_t ON wrong_items(t);

	CREATE VIRTUAL TABLE IF NOT EXISTS passages_fts USING fts5(
		content,
		content=passages,
		content_rowid=id
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS5 triggers for automatic sync
	s.db.Exec(`CREATE TRIGGER IF NOT EXISTS passages_ai AFTER INSERT ON passages BEGIN
		INSERT INTO passages_fts(rowid, content) VALUES (new.id, new.content);
	END`)
	s.db.Exec(`CREATE TRIGGER IF NOT EXISTS passages_ad AFTER DELETE ON passages BEGIN
		INSERT INTO passages_fts(passages_fts, rowid, content) VALUES('delete', old.id, old.content);
	END`)

	return nil
}

func (s *SQLiteStore) AddPassages(ctx context.Context, passages []IndexedPassage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range passages {
		var blob []byte
		if len(p.Vector) > 0 {
			blob = encodeVector(p.Vector)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO passages (content, source, page, slide, embedding) VALUES (?, ?, ?, ?, ?)`,
			p.Content, p.Source, p.Page, p.Slide, blob)
		if err != nil {
			return fmt.Errorf("insert passage: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) PassageCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) AllPassages(ctx context.Context) ([]IndexedPassage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content, source, page, slide, embedding FROM passages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IndexedPassage
	for rows.Next() {
		var p IndexedPassage
		var blob []byte
		if err := rows.Scan(&p.Content, &p.Source, &p.Page, &p.Slide, &blob); err != nil {
			return nil, err
		}
		if len(blob) > 0 {
			p.Vector = decodeVector(blob)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SearchPassages(ctx context.Context, query string, limit int) ([]model.Passage, error) {
	if limit <= 0 {
		limit = 10
	}

	// FTS5 first; queries with characters FTS rejects, or with no token
	// hits, fall back to a LIKE substring match that tolerates partial
	// CJK tokens.
	out, err := s.queryPassages(ctx,
		`SELECT p.content, p.source, p.page, p.slide
		 FROM passages_fts f JOIN passages p ON p.id = f.rowid
		 WHERE passages_fts MATCH ? ORDER BY rank LIMIT ?`,
		ftsQuery(query), limit)
	if err == nil && len(out) > 0 {
		return out, nil
	}

	return s.queryPassages(ctx,
		`SELECT content, source, page, slide FROM passages
		 WHERE content LIKE ? ORDER BY id LIMIT ?`,
		"%"+query+"%", limit)
}

func (s *SQLiteStore) queryPassages(ctx context.Context, q string, args ...any) ([]model.Passage, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Passage
	for rows.Next() {
		var p model.Passage
		if err := rows.Scan(&p.Content, &p.Source, &p.Page, &p.Slide); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ftsQuery quotes each term so FTS5 operators in user text cannot break the
// match expression.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeVector serializes a float32 vector as little-endian bytes.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector deserializes a little-endian float32 vector.
func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
