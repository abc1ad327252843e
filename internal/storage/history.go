// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists completed rewrites to a local SQLite database.
//
// The store is best-effort history, not a system of record: callers log and
// move on when an operation fails. Entries are capped and the oldest are
// pruned first.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jeranaias/govtext/internal/config"

	_ "modernc.org/sqlite"
)

// DefaultMaxEntries caps the history table. Oldest entries are pruned once
// the cap is exceeded.
const DefaultMaxEntries = 500

// historyFileName is the database file under the config directory.
const historyFileName = "history.db"

// Entry is one recorded rewrite.
type Entry struct {
	ID           string
	CreatedAt    time.Time
	Provider     string
	Model        string
	Mode         string
	Input        string
	Output       string
	InputTokens  int
	OutputTokens int
}

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed rewrite history.
type Store struct {
	db *sql.DB

	// MaxEntries caps stored rewrites (0 = unlimited).
	MaxEntries int
}

// Open opens (creating if needed) the history database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open history db: %w", err)
	}

	schema := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS rewrites (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			mode TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rewrites_created_at ON rewrites(created_at DESC);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply history schema: %w", err)
		}
	}

	return &Store{db: db, MaxEntries: DefaultMaxEntries}, nil
}

// OpenDefault opens the history database under the user config directory.
func OpenDefault() (*Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(dir, historyFileName))
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Record inserts one rewrite and prunes past the cap. A missing ID or
// timestamp is filled in.
func (s *Store) Record(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO rewrites(id, created_at, provider, model, mode, input, output, input_tokens, output_tokens)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.Unix(), e.Provider, e.Model, e.Mode,
		e.Input, e.Output, e.InputTokens, e.OutputTokens,
	)
	if err != nil {
		return fmt.Errorf("record rewrite: %w", err)
	}

	if s.MaxEntries > 0 {
		return s.prune()
	}
	return nil
}

// Recent returns up to limit rewrites, most recent first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, provider, model, mode, input, output, input_tokens, output_tokens
		 FROM rewrites ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list rewrites: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &created, &e.Provider, &e.Model, &e.Mode,
			&e.Input, &e.Output, &e.InputTokens, &e.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan rewrite: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rewrites: %w", err)
	}
	return entries, nil
}

// Count returns the number of stored rewrites.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM rewrites`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rewrites: %w", err)
	}
	return n, nil
}

// Clear removes all stored rewrites.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM rewrites`); err != nil {
		return fmt.Errorf("clear rewrites: %w", err)
	}
	return nil
}

// prune deletes oldest entries past MaxEntries.
func (s *Store) prune() error {
	n, err := s.Count()
	if err != nil {
		return err
	}
	excess := n - s.MaxEntries
	if excess <= 0 {
		return nil
	}
	_, err = s.db.Exec(
		`DELETE FROM rewrites WHERE rowid IN (
			SELECT rowid FROM rewrites ORDER BY created_at ASC, rowid ASC LIMIT ?
		)`, excess)
	if err != nil {
		return fmt.Errorf("prune rewrites: %w", err)
	}
	return nil
}
