// Package cache provides a caller-level memoization store for computed
// subdivisions, keyed by the exact computation inputs
// (system, body, start instant, rational duration).
//
// The engine itself never sees this package: subdivision is pure and
// memoization belongs to callers. The CLI owns the cache and consults
// it before invoking the engine.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"math/big"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/dasha/internal/period"
)

//go:embed schema.sql
var schemaSQL string

// Cache is a SQLite-backed memo store. Uses WAL mode so concurrent
// readers are not blocked by the single writer.
type Cache struct {
	db *sql.DB
}

// Key identifies one memoized subdivision. Years is part of the key in
// its exact "p/q" form - two parents with the same instants but
// different rational durations memoize separately.
type Key struct {
	System string
	Body   period.Body
	Start  time.Time
	Years  *big.Rat
}

// Open creates or opens a memo database at the given path.
// Applies required pragmas and the schema automatically; safe to call
// on an existing database.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	// SQLite only supports one writer at a time; keep a single
	// connection to avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Put memoizes the computed children for a key. Uses ON CONFLICT DO
// NOTHING: the computation is deterministic, so the first write wins
// and duplicate writes are silently ignored (at-most-once per key).
func (c *Cache) Put(ctx context.Context, key Key, children []period.Period) error {
	payload, err := encodeChildren(children)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO memo (system, body, start_ns, years, children)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(system, body, start_ns, years) DO NOTHING
	`,
		key.System,
		string(key.Body),
		key.Start.UTC().UnixNano(),
		key.Years.RatString(),
		payload,
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Get looks up memoized children for a key. The second return value
// reports whether the key was present.
func (c *Cache) Get(ctx context.Context, key Key) ([]period.Period, bool, error) {
	var payload string
	err := c.db.QueryRowContext(ctx, `
		SELECT children FROM memo
		WHERE system = ? AND body = ? AND start_ns = ? AND years = ?
	`,
		key.System,
		string(key.Body),
		key.Start.UTC().UnixNano(),
		key.Years.RatString(),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	children, err := decodeChildren(payload)
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return children, true, nil
}
