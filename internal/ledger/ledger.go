// Package ledger records which documents have been structured, keyed by the
// SHA-256 of their bytes and their file name, so repeated batch runs can skip
// unchanged input.
//
// Usage:
//
//	l, err := ledger.Open("docoutline.db")
//	e, err := l.Lookup(ctx, hash, "report.docx") // ledger.ErrNotFound if new
package ledger

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

// ErrNotFound is returned by Lookup when no entry matches.
var ErrNotFound = errors.New("ledger: entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	content_hash       TEXT NOT NULL,
	filename           TEXT NOT NULL,
	output_path        TEXT NOT NULL,
	potentially_damage INTEGER NOT NULL,
	headings           INTEGER NOT NULL,
	processed_at       TEXT NOT NULL,
	PRIMARY KEY (content_hash, filename)
);
CREATE INDEX IF NOT EXISTS idx_documents_processed_at ON documents(processed_at);
`

// Entry is one processed document.
type Entry struct {
	ContentHash       string    `json:"content_hash"`
	Filename          string    `json:"filename"`
	OutputPath        string    `json:"output_path"`
	PotentiallyDamage bool      `json:"potentially_damage"`
	Headings          int       `json:"headings"`
	ProcessedAt       time.Time `json:"processed_at"`
}

// Ledger is a sqlite-backed processing log. It is safe for concurrent use.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path. Use ":memory:"
// for a throwaway ledger.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("ledger: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: exec schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Lookup returns the entry for a document name with the given content hash.
// The same bytes under another name are a different entry.
func (l *Ledger) Lookup(ctx context.Context, hash, filename string) (Entry, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT content_hash, filename, output_path, potentially_damage, headings, processed_at
		FROM documents WHERE content_hash = ? AND filename = ?`, hash, filename)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: lookup %s: %w", filename, err)
	}
	return e, nil
}

// Record inserts or replaces the entry for (e.ContentHash, e.Filename).
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO documents (content_hash, filename, output_path, potentially_damage, headings, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash, filename) DO UPDATE SET
			output_path = excluded.output_path,
			potentially_damage = excluded.potentially_damage,
			headings = excluded.headings,
			processed_at = excluded.processed_at`,
		e.ContentHash, e.Filename, e.OutputPath, boolToInt(e.PotentiallyDamage), e.Headings,
		e.ProcessedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("ledger: record %s: %w", e.Filename, err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (l *Ledger) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT content_hash, filename, output_path, potentially_damage, headings, processed_at
		FROM documents ORDER BY processed_at DESC, filename LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: list: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e         Entry
		damaged   int
		processed string
	)
	if err := s.Scan(&e.ContentHash, &e.Filename, &e.OutputPath, &damaged, &e.Headings, &processed); err != nil {
		return Entry{}, err
	}
	e.PotentiallyDamage = damaged != 0
	t, err := time.Parse(time.RFC3339Nano, processed)
	if err != nil {
		return Entry{}, fmt.Errorf("parse processed_at: %w", err)
	}
	e.ProcessedAt = t
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
