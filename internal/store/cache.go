package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	// modernc.org/sqlite driver name is "sqlite".
	_ "modernc.org/sqlite"

	"photos-cli/internal/metrics"
	"photos-cli/internal/model"
)

const (
	cacheEntryTree   = "tree"
	cacheEntryPeople = "people"
)

// Cache keeps the last fetched folder tree and people catalog so the TUI can start
// before the server answers and the tree stays browsable offline.
type Cache struct {
	db      *sql.DB
	metrics *metrics.Metrics
	now     func() time.Time
}

// Entry is a cached payload together with the time it was stored.
type Entry[T any] struct {
	Value    T
	StoredAt time.Time
}

func (s Store) OpenCache(ctx context.Context, m *metrics.Metrics) (*Cache, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", s.CachePath())
	if err != nil {
		return nil, err
	}
	// WAL: the CLI may read while the TUI writes.
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
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS cache_entries (
		k TEXT PRIMARY KEY,
		json TEXT NOT NULL,
		stored_at_unixms INTEGER NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db, metrics: m, now: time.Now}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries(k, json, stored_at_unixms) VALUES(?, ?, ?)`,
		key, string(b), c.now().UnixMilli())
	return err
}

func (c *Cache) get(ctx context.Context, key string, out any) (time.Time, bool, error) {
	var (
		raw string
		ms  int64
	)
	err := c.db.QueryRowContext(ctx, `SELECT json, stored_at_unixms FROM cache_entries WHERE k = ?`, key).Scan(&raw, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		c.metrics.RecordCache(key, false)
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// A row written by an incompatible version counts as a miss.
		c.metrics.RecordCache(key, false)
		return time.Time{}, false, nil
	}
	c.metrics.RecordCache(key, true)
	return time.UnixMilli(ms), true, nil
}

func (c *Cache) PutTree(ctx context.Context, roots []model.FolderNode) error {
	if c == nil {
		return nil
	}
	return c.put(ctx, cacheEntryTree, roots)
}

func (c *Cache) Tree(ctx context.Context) (Entry[[]model.FolderNode], bool, error) {
	var e Entry[[]model.FolderNode]
	if c == nil {
		return e, false, nil
	}
	at, ok, err := c.get(ctx, cacheEntryTree, &e.Value)
	e.StoredAt = at
	return e, ok, err
}

func (c *Cache) PutPeople(ctx context.Context, people []model.Person) error {
	if c == nil {
		return nil
	}
	return c.put(ctx, cacheEntryPeople, people)
}

func (c *Cache) People(ctx context.Context) (Entry[[]model.Person], bool, error) {
	var e Entry[[]model.Person]
	if c == nil {
		return e, false, nil
	}
	at, ok, err := c.get(ctx, cacheEntryPeople, &e.Value)
	e.StoredAt = at
	return e, ok, err
}

// Clear drops every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	if c == nil {
		return nil
	}
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	return err
}
