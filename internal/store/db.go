// Package store caches loaded transaction datasets in SQLite so repeated
// queries do not re-fetch the source feed.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotInitialized is returned when the cache schema has not been created.
var ErrNotInitialized = errors.New("cache database not initialized (run 'retailmetrics load' first)")

// ErrNoSnapshot is returned when no dataset snapshot exists for a source.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Store provides SQLite database operations for the dataset cache.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the specified database path.
// Use ":memory:" for in-memory databases (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool defaults
	db.SetMaxOpenConns(1) // SQLite only allows one writer at a time
	db.SetMaxIdleConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrency
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

// CreateSchema creates all tables and indexes.
func (s *Store) CreateSchema() error {
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// wrapErr maps "no such table" failures to ErrNotInitialized.
func wrapErr(err error, format string, args ...interface{}) error {
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf(format+": %w", append(args, ErrNotInitialized)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
