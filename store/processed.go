package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_invoices (
	external_ref TEXT PRIMARY KEY,
	processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// ProcessedStore records Stripe invoice numbers that were already mirrored
// to Cebelca, so webhook redeliveries do not create duplicate invoice
// headers.
type ProcessedStore struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at the given path and applies
// the schema. Safe to call against an existing database.
func Open(path string) (*ProcessedStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports a single writer; keep one connection to avoid
	// SQLITE_BUSY under concurrent webhook deliveries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &ProcessedStore{db: db}, nil
}

// Seen reports whether the external reference was already processed.
func (s *ProcessedStore) Seen(externalRef string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM processed_invoices WHERE external_ref = ?", externalRef,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query processed invoices: %w", err)
	}
	return count > 0, nil
}

// Mark records the external reference as processed. Marking the same
// reference twice is a no-op.
func (s *ProcessedStore) Mark(externalRef string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO processed_invoices (external_ref) VALUES (?)", externalRef,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invoice processed: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *ProcessedStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
