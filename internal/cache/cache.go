// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache is a SQLite-backed TTL cache for raw registry responses.
// One row per cache key; staleness is judged at read time so entries for
// different callers can carry different TTLs.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "registry-cache.db"

// Store is a persistent response cache. It satisfies registry.Cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS entries (
		key       TEXT PRIMARY KEY,
		body      BLOB NOT NULL,
		stored_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached body for key when present and younger than ttl.
// Expired rows are deleted lazily on read.
func (s *Store) Get(key string, ttl time.Duration) ([]byte, bool) {
	var body []byte
	var storedAt int64
	err := s.db.QueryRow(`SELECT body, stored_at FROM entries WHERE key = ?`, key).
		Scan(&body, &storedAt)
	if err != nil {
		return nil, false
	}

	if ttl > 0 && time.Since(time.Unix(storedAt, 0)) > ttl {
		s.db.Exec(`DELETE FROM entries WHERE key = ?`, key)
		return nil, false
	}
	return body, true
}

// Set stores body under key, replacing any previous entry. Write failures
// are swallowed: a cache miss on the next read is the only consequence.
func (s *Store) Set(key string, body []byte) {
	s.db.Exec(
		`INSERT INTO entries (key, body, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, stored_at = excluded.stored_at`,
		key, body, time.Now().Unix(),
	)
}

// Invalidate removes one entry.
func (s *Store) Invalidate(key string) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE key = ?`, key)
	return err
}

// Clear removes all entries.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM entries`)
	return err
}

// Size returns the number of cached entries.
func (s *Store) Size() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM entries`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
