package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// IncrementVisit atomically bumps the visit counter for a page path and
// returns the new count. Unknown paths start at zero.
func (db *DB) IncrementVisit(path string) (int64, error) {
	var count int64
	err := db.conn.QueryRow(`
		INSERT INTO visits (path, count) VALUES (?, 1)
		ON CONFLICT(path) DO UPDATE SET count = count + 1
		RETURNING count
	`, path).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: increment visit: %w", err)
	}
	return count, nil
}

// VisitCount returns the current counter for a path without incrementing.
func (db *DB) VisitCount(path string) (int64, error) {
	var count int64
	err := db.conn.QueryRow(`SELECT count FROM visits WHERE path = ?`, path).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil // unknown path reads as zero
	}
	if err != nil {
		return 0, fmt.Errorf("store: visit count: %w", err)
	}
	return count, nil
}

// AddRegistration records a registered user. Re-registering the same
// provider+subject pair is a no-op, so the count stays stable across repeat
// sign-ins.
func (db *DB) AddRegistration(provider, subject, email, name string) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO registrations (provider, subject, email, name)
		VALUES (?, ?, ?, ?)
	`, provider, subject, email, name)
	if err != nil {
		return fmt.Errorf("store: add registration: %w", err)
	}
	return nil
}

// CountUsers returns the number of registered users.
func (db *DB) CountUsers() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM registrations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count users: %w", err)
	}
	return n, nil
}
