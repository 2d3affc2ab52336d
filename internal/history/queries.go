package history

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/envbin/internal/state"
)

// Entry is one applied change as stored in the history database.
type Entry struct {
	ID             int64
	Environment    string
	Kind           string
	ExposedName    string
	PackageName    string
	PackageVersion string
	AppliedAt      time.Time
}

// RecordChanges appends every change in the ledger to the history, stamped
// with appliedAt. The ledger should be recorded un-pruned so the history
// reflects what actually happened, not the coalesced report view.
func (s *Store) RecordChanges(changes *state.StateChanges, appliedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO changes (environment, kind, exposed_name, package_name, package_version, applied_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return asNotInitialized(fmt.Errorf("failed to prepare history insert: %w", err))
	}
	defer stmt.Close()

	stamp := appliedAt.UTC().Format(time.RFC3339)
	for _, env := range changes.Environments() {
		for _, change := range changes.Changes(env) {
			var pkgName, pkgVersion string
			if pkg := change.Package(); pkg != nil {
				pkgName, pkgVersion = pkg.Name, pkg.Version
			}
			if _, err := stmt.Exec(
				env.String(),
				change.Kind().String(),
				change.ExposedName().String(),
				pkgName,
				pkgVersion,
				stamp,
			); err != nil {
				return fmt.Errorf("failed to record change for %s: %w", env, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return nil
}

// List returns recorded changes, newest first. environment narrows the
// result when non-empty; limit caps the row count when positive.
func (s *Store) List(environment string, limit int) ([]Entry, error) {
	query := `
		SELECT id, environment, kind, exposed_name, package_name, package_version, applied_at
		FROM changes
	`
	var args []any
	if environment != "" {
		query += " WHERE environment = ?"
		args = append(args, environment)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, asNotInitialized(fmt.Errorf("failed to query history: %w", err))
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var appliedAt string
		if err := rows.Scan(
			&entry.ID,
			&entry.Environment,
			&entry.Kind,
			&entry.ExposedName,
			&entry.PackageName,
			&entry.PackageVersion,
			&appliedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.AppliedAt, err = time.Parse(time.RFC3339, appliedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse applied_at for change %d: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}
	return entries, nil
}
