package dedup

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a Tracker backed by an embedded sqlite database file, giving
// HasSeen/MarkSeen persistence across process restarts.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a sqlite-backed Tracker at path.
// Use ":memory:" for a non-persistent database with the same code path as
// the persistent case, useful in tests.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite dedup store: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply dedup schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) HasSeen(ctx context.Context, id string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM seen_ads WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query seen_ads: %w", err)
	}
	return true, nil
}

func (s *SQLite) MarkSeen(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seen_ads (id, seen_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert seen_ads: %w", err)
	}
	return nil
}

func (s *SQLite) LastRun(ctx context.Context) (time.Time, bool, error) {
	var lastRun time.Time
	err := s.db.QueryRowContext(ctx, `SELECT last_run FROM collection_runs WHERE id = 1`).Scan(&lastRun)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query collection_runs: %w", err)
	}
	return lastRun.UTC(), true, nil
}

func (s *SQLite) SetLastRun(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collection_runs (id, last_run) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET last_run = excluded.last_run`,
		t.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert collection_runs: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
