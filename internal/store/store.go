// Package store persists visited locations in SQLite so recent directories
// survive restarts.
package store

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

// Visit times are stored in UTC with a fixed width so that text ordering
// matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Location is a visited directory.
type Location struct {
	Path      string
	Visits    int
	LastVisit time.Time
}

// Store wraps the locations database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serialises
	// writers.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	ddl := `
CREATE TABLE IF NOT EXISTS locations (
	path           TEXT PRIMARY KEY,
	visits         INTEGER NOT NULL DEFAULT 0,
	last_visit_utc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_locations_last_visit ON locations(last_visit_utc);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordVisit bumps the visit count of path and stamps it with at.
func (s *Store) RecordVisit(ctx context.Context, path string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations(path, visits, last_visit_utc)
		VALUES(?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET
		  visits=locations.visits+1, last_visit_utc=excluded.last_visit_utc
	`, path, at.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("record visit %s: %w", path, err)
	}
	return nil
}

// Recent returns up to n locations, most recently visited first.
func (s *Store) Recent(ctx context.Context, n int) ([]Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, visits, last_visit_utc FROM locations
		ORDER BY last_visit_utc DESC, path ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var (
			loc   Location
			stamp string
		)
		if err := rows.Scan(&loc.Path, &loc.Visits, &stamp); err != nil {
			return nil, err
		}
		loc.LastVisit, err = time.Parse(timeLayout, stamp)
		if err != nil {
			return nil, fmt.Errorf("parse visit time of %s: %w", loc.Path, err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// Last returns the most recently visited location. ok is false when the
// store is empty.
func (s *Store) Last(ctx context.Context) (loc Location, ok bool, err error) {
	locs, err := s.Recent(ctx, 1)
	if err != nil || len(locs) == 0 {
		return Location{}, false, err
	}
	return locs[0], true, nil
}

// Forget removes path. Forgetting an unknown path is not an error.
func (s *Store) Forget(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE path = ?`, path)
	return err
}

// Prune removes locations that no longer exist on disk and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context) (int, error) {
	locs, err := s.Recent(ctx, -1)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, loc := range locs {
		if _, err := os.Stat(loc.Path); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := s.Forget(ctx, loc.Path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
