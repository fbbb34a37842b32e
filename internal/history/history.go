// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records a summary row for each matching or trend run in a
// local SQLite database. Only run metadata is stored, never fetched catalog
// data; recording is best-effort and a history failure never fails a run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run kinds.
const (
	KindMatch  = "match"
	KindTrends = "trends"
)

// Run is one recorded invocation.
type Run struct {
	ID        int64
	Kind      string
	Query     string
	Studies   int
	Results   int
	Duration  time.Duration
	CreatedAt time.Time
}

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		query TEXT NOT NULL,
		studies INTEGER NOT NULL,
		results INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record inserts one run row.
func (s *Store) Record(ctx context.Context, run Run) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (kind, query, studies, results, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Kind, run.Query, run.Studies, run.Results,
		run.Duration.Milliseconds(), createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, query, studies, results, duration_ms, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Kind, &r.Query, &r.Studies, &r.Results, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FormatTable writes runs as a human-readable table to w.
func FormatTable(runs []Run, w io.Writer) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-7s  %-40s  %-8s  %-8s  %-8s  %s\n",
		"ID", "Kind", "Query", "Studies", "Results", "Took", "When")
	fmt.Fprintln(w, strings.Repeat("-", 96))

	for _, r := range runs {
		query := r.Query
		if rs := []rune(query); len(rs) > 40 {
			// Cut on runes so multi-byte queries are not split mid-character.
			query = string(rs[:37]) + "..."
		}
		fmt.Fprintf(w, "%-4d  %-7s  %-40s  %-8d  %-8d  %-8s  %s\n",
			r.ID, r.Kind, query, r.Studies, r.Results,
			r.Duration.Round(time.Millisecond), r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
