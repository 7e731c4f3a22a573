// Package duckdb provides a local cache of gene query results.
// Raw service hits are stored in DuckDB keyed by species, scopes, field
// list and query term, so repeated runs do not re-query the remote service.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for caching gene hits.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path ("" for in-memory).
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist. A hit table from an
// older layout without the scopes column is dropped and recreated.
func (s *Store) ensureSchema() error {
	var columns, scopes int
	if err := s.db.QueryRow(`SELECT COUNT(*), COUNT(*) FILTER (WHERE column_name = 'scopes')
		FROM information_schema.columns WHERE table_name = 'gene_hits'`).Scan(&columns, &scopes); err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if columns > 0 && scopes == 0 {
		if _, err := s.db.Exec(`DROP TABLE gene_hits`); err != nil {
			return fmt.Errorf("drop old hit table: %w", err)
		}
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS gene_hits (
		species VARCHAR,
		scopes VARCHAR,
		fields VARCHAR,
		query VARCHAR,
		not_found BOOLEAN,
		hit_json VARCHAR,
		symbol VARCHAR,
		fetched_at TIMESTAMP,
		PRIMARY KEY (species, scopes, fields, query)
	)`)
	return err
}
