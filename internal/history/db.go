// Package history persists the changes envbin has applied, one row per
// StateChange, for the `envbin history` command.
//
// The history database is purely informational: reconciliation never reads
// it. The bin directory itself remains the only source of truth for what is
// currently exposed.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotInitialized is returned when the history database exists but has no
// schema yet.
var ErrNotInitialized = errors.New("history database not initialized; run 'envbin sync' first")

// Store provides SQLite operations for the change history.
type Store struct {
	db *sql.DB
}

// New creates a Store backed by the database at dbPath. Use ":memory:" for
// tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSchema creates the history tables and indexes.
func (s *Store) CreateSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// asNotInitialized maps "no such table" failures to ErrNotInitialized so
// callers can distinguish a fresh database from real I/O errors.
func asNotInitialized(err error) error {
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w (%v)", ErrNotInitialized, err)
	}
	return err
}
