package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Food kinds stored in the kind column.
const (
	KindAtomic    = "atomic"
	KindComposite = "composite"
)

// FoodRow represents a row in the foods table.
type FoodRow struct {
	Key        string
	Identifier string
	Kind       string
	Keywords   []string
	Components []string // identifiers of a composite's atomic components
	Calories   float64
	Checksum   string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Identifier string  `json:"identifier"`
	Kind       string  `json:"kind"`
	Calories   float64 `json:"calories_per_serving"`
	Snippet    string  `json:"snippet"`
}

// UpsertFood inserts or replaces a food and its FTS entry within a transaction.
func (db *DB) UpsertFood(f FoodRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	keywords := f.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, _ := json.Marshal(keywords)
	components := strings.Join(f.Components, " ")

	_, err = tx.Exec(`
		INSERT INTO foods (key, identifier, kind, keywords, components, calories, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			identifier = excluded.identifier,
			kind       = excluded.kind,
			keywords   = excluded.keywords,
			components = excluded.components,
			calories   = excluded.calories,
			checksum   = excluded.checksum
	`, f.Key, f.Identifier, f.Kind, string(keywordsJSON), components, f.Calories, f.Checksum)
	if err != nil {
		return fmt.Errorf("index: upsert food: %w", err)
	}

	if err := ftsUpsert(tx, f.Key, f.Identifier, strings.Join(keywords, " "), components); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteFood removes a food and its FTS entry.
func (db *DB) DeleteFood(key string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, key); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM foods WHERE key = ?`, key); err != nil {
		return fmt.Errorf("index: delete food: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a food, or empty string if not found.
func (db *DB) GetChecksum(key string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM foods WHERE key = ?`, key).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns key -> checksum for every indexed food.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT key, checksum FROM foods`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var k, cs string
		if err := rows.Scan(&k, &cs); err != nil {
			return nil, err
		}
		out[k] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed foods.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM foods`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
