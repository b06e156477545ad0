// Package cache keeps the last successful fetch of every child list in a
// local sqlite file, so list commands still work offline and a failed fetch
// can fall back to the previous answer. Only option lists are cached;
// selections are ephemeral view state and never touch disk.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"worktrack-cli/internal/model"
)

// ErrMiss is returned when the cache has no usable entry for a key.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	db *sql.DB

	// TTL bounds how old an entry may be before Get treats it as a miss.
	// Zero means entries never expire.
	TTL time.Duration
}

// DefaultPath is ~/.worktrack/cache.sqlite.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".worktrack", "cache.sqlite"), nil
}

func Open(ctx context.Context, path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL: one writer + many readers; busy_timeout avoids "database is
	// locked" flakiness when a web view and a CLI run share the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS child_lists (
  level      TEXT NOT NULL,
  parent_id  TEXT NOT NULL,
  payload    TEXT NOT NULL,
  fetched_at INTEGER NOT NULL,
  PRIMARY KEY (level, parent_id)
);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Put stores the result of a successful fetch, replacing any previous entry
// for the same (level, parent) key. An empty list is a valid entry: zero
// children is an answer, not a miss.
func (c *Cache) Put(ctx context.Context, level model.Level, parentID string, ents []model.Entity) error {
	if ents == nil {
		ents = []model.Entity{}
	}
	payload, err := json.Marshal(ents)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
INSERT INTO child_lists (level, parent_id, payload, fetched_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (level, parent_id) DO UPDATE SET payload=excluded.payload, fetched_at=excluded.fetched_at;`,
		string(level), parentID, string(payload), time.Now().Unix())
	return err
}

// Get returns the cached child list, or ErrMiss when absent or expired.
func (c *Cache) Get(ctx context.Context, level model.Level, parentID string) ([]model.Entity, error) {
	var (
		payload   string
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM child_lists WHERE level = ? AND parent_id = ?;`,
		string(level), parentID).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	if c.TTL > 0 && time.Since(time.Unix(fetchedAt, 0)) > c.TTL {
		return nil, ErrMiss
	}
	var ents []model.Entity
	if err := json.Unmarshal([]byte(payload), &ents); err != nil {
		return nil, err
	}
	return ents, nil
}

// Purge drops every cached list.
func (c *Cache) Purge(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM child_lists;`)
	return err
}
