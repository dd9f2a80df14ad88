package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultRetention is how many entries Prune keeps by default; the
// popup shows at most 50 of them.
const DefaultRetention = 500

// ErrNotFound is returned when a delete targets an unknown id.
var ErrNotFound = errors.New("history: item not found")

// Store persists clipboard history in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and
// applies the schema. ":memory:" is accepted for tests.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// The store is hit from the capture poller and the UI loop; a
	// single connection sidesteps SQLITE_BUSY on the file-backed db.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS history (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	preview    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	thumbnail  BLOB,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS history_created_at ON history(created_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate history schema: %w", err)
	}
	return nil
}

// Insert stores a new item. Capturing the same content that is already
// newest just refreshes its timestamp, so re-copies bubble up without
// duplicating rows.
func (s *Store) Insert(ctx context.Context, item Item) error {
	var newestID, newestContent string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content FROM history ORDER BY created_at DESC, id LIMIT 1`,
	).Scan(&newestID, &newestContent)
	switch {
	case err == nil && newestContent == item.Content:
		_, err = s.db.ExecContext(ctx,
			`UPDATE history SET created_at = ? WHERE id = ?`,
			item.CreatedAt.UnixMilli(), newestID)
		if err != nil {
			return fmt.Errorf("touch history item: %w", err)
		}
		return nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("read newest history item: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history (id, content, preview, kind, thumbnail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Content, item.Preview, string(item.Kind), item.Thumbnail,
		item.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert history item: %w", err)
	}
	return nil
}

// Recent returns up to limit items, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, preview, kind, thumbnail, created_at
		 FROM history ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Delete removes the item with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete history item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete history item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Prune drops everything beyond the newest keep entries.
func (s *Store) Prune(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY created_at DESC, id LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var (
			item    Item
			kind    string
			created int64
		)
		if err := rows.Scan(&item.ID, &item.Content, &item.Preview, &kind,
			&item.Thumbnail, &created); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		item.Kind = Kind(kind)
		item.CreatedAt = time.UnixMilli(created)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return items, nil
}
