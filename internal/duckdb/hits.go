package duckdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inodb/gene-annot/internal/mygene"
)

// lookupChunk bounds the number of placeholders in one IN (...) clause.
const lookupChunk = 500

// CachedHit is a stored hit with the time it was fetched.
type CachedHit struct {
	Hit       mygene.Hit
	FetchedAt time.Time
}

// WriteHits stores hits under the species, scopes and fields of opts,
// replacing any previous entry for the same query term. Empty options
// take the client defaults. Duplicate terms within hits keep the first
// occurrence.
func (s *Store) WriteHits(opts mygene.Options, hits []mygene.Hit) error {
	if len(hits) == 0 {
		return nil
	}
	opts = opts.WithDefaults()

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO gene_hits
		(species, scopes, fields, query, not_found, hit_json, symbol, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	seen := make(map[string]bool, len(hits))
	for _, h := range hits {
		if seen[h.Query] {
			continue
		}
		seen[h.Query] = true

		if _, err := stmt.Exec(opts.Species, opts.Scopes, opts.Fields, h.Query, h.NotFound, h.Raw,
			h.Field("symbol").String(), now); err != nil {
			return fmt.Errorf("insert hit %s: %w", h.Query, err)
		}
	}

	return tx.Commit()
}

// LookupHits returns the hits stored for terms under opts, keyed by query
// term. Entries older than maxAge are ignored; a zero maxAge accepts any age.
func (s *Store) LookupHits(opts mygene.Options, terms []string, maxAge time.Duration) (map[string]CachedHit, error) {
	opts = opts.WithDefaults()
	out := make(map[string]CachedHit, len(terms))
	for i := 0; i < len(terms); i += lookupChunk {
		end := min(i+lookupChunk, len(terms))
		if err := s.lookupChunk(opts, terms[i:end], maxAge, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) lookupChunk(opts mygene.Options, terms []string, maxAge time.Duration, out map[string]CachedHit) error {
	args := make([]any, 0, len(terms)+4)
	args = append(args, opts.Species, opts.Scopes, opts.Fields)
	for _, t := range terms {
		args = append(args, t)
	}

	query := `SELECT query, not_found, hit_json, fetched_at FROM gene_hits
		WHERE species=? AND scopes=? AND fields=? AND query IN (` + placeholders(len(terms)) + `)`
	if maxAge > 0 {
		query += ` AND fetched_at >= ?`
		args = append(args, time.Now().UTC().Add(-maxAge))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("query hits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ch CachedHit
		if err := rows.Scan(&ch.Hit.Query, &ch.Hit.NotFound, &ch.Hit.Raw, &ch.FetchedAt); err != nil {
			return fmt.Errorf("scan hit: %w", err)
		}
		out[ch.Hit.Query] = ch
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate hits: %w", err)
	}
	return nil
}

// SearchBySymbol returns every stored hit whose official symbol matches,
// regardless of the term it was queried with.
func (s *Store) SearchBySymbol(symbol string) ([]CachedHit, error) {
	rows, err := s.db.Query(`SELECT query, not_found, hit_json, fetched_at
		FROM gene_hits WHERE symbol=? ORDER BY query`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query by symbol: %w", err)
	}
	defer rows.Close()

	var hits []CachedHit
	for rows.Next() {
		var ch CachedHit
		if err := rows.Scan(&ch.Hit.Query, &ch.Hit.NotFound, &ch.Hit.Raw, &ch.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}
	return hits, nil
}

// HitCount returns the number of stored hits.
func (s *Store) HitCount() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gene_hits").Scan(&count); err != nil {
		return 0, fmt.Errorf("count hits: %w", err)
	}
	return count, nil
}

// ClearHits removes all cached hits.
func (s *Store) ClearHits() error {
	_, err := s.db.Exec("DELETE FROM gene_hits")
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
