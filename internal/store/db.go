// Package store maintains a queryable SQLite index of practice entries so
// totals and streaks don't require rescanning the log tree.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/benchantech/practice/internal/logbook"
)

const (
	// migration queries
	createEntriesTableSQL = `
  CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  slug TEXT NOT NULL,
  log_date TEXT NOT NULL,
  minutes INTEGER NOT NULL,
  source_path TEXT NOT NULL UNIQUE,
  indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP
  )`

	createSlugDateIndexSQL = `
  CREATE INDEX IF NOT EXISTS idx_entries_slug_date ON entries (slug, log_date)`

	// entry queries
	deleteAllEntriesSQL = `DELETE FROM entries`
	insertEntrySQL      = `INSERT INTO entries (slug, log_date, minutes, source_path) VALUES (?, ?, ?, ?)
  ON CONFLICT(source_path) DO UPDATE SET slug = excluded.slug, log_date = excluded.log_date, minutes = excluded.minutes`
	countEntriesSQL = `SELECT COUNT(*) FROM entries`
	totalsSQL       = `SELECT slug, SUM(minutes), COUNT(DISTINCT log_date) FROM entries
  WHERE log_date >= ? AND log_date <= ? GROUP BY slug ORDER BY slug`
	slugDatesDescSQL = `SELECT DISTINCT log_date FROM entries WHERE slug = ? ORDER BY log_date DESC`
)

// Entry is one indexed practice record.
type Entry struct {
	Slug       string
	Date       time.Time
	Minutes    int
	SourcePath string
}

// SlugTotal aggregates one slug over a date range.
type SlugTotal struct {
	Slug    string `json:"slug"`
	Minutes int    `json:"minutes"`
	Days    int    `json:"days"`
}

// Repo wraps the SQLite index.
type Repo struct {
	db *sql.DB
}

// Open opens (or creates) the index database and runs migrations.
func Open(dbPath string) (*Repo, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repo{db: db}
	if err := repo.runMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) runMigrations() error {
	for _, q := range []string{createEntriesTableSQL, createSlugDateIndexSQL} {
		if _, err := r.db.Exec(q); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// Reindex rebuilds the index from the log tree in a single transaction.
// Returns the number of entries indexed.
func (r *Repo) Reindex(ctx context.Context, book *logbook.Book) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(deleteAllEntriesSQL); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(insertEntrySQL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	count := 0
	err = book.Walk(ctx, func(slug string, date time.Time, e logbook.Entry, rel string) error {
		if _, err := stmt.Exec(slug, date.Format(time.DateOnly), e.Minutes, rel); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// Upsert inserts or updates a single entry, for incremental index updates
// after a write.
func (r *Repo) Upsert(e Entry) error {
	_, err := r.db.Exec(insertEntrySQL, e.Slug, e.Date.Format(time.DateOnly), e.Minutes, e.SourcePath)
	return err
}

// Count returns the number of indexed entries.
func (r *Repo) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(countEntriesSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
