//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS foods_fts USING fts5(
			key UNINDEXED,
			identifier,
			keywords,
			components,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, key, identifier, keywords, components string) error {
	_, _ = tx.Exec(`DELETE FROM foods_fts WHERE key = ?`, key)
	_, err := tx.Exec(`INSERT INTO foods_fts (key, identifier, keywords, components) VALUES (?, ?, ?, ?)`,
		key, identifier, keywords, components)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, key string) error {
	if _, err := tx.Exec(`DELETE FROM foods_fts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("index: delete fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search and returns matching foods with
// the matched keywords highlighted.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	rows, err := db.conn.Query(`
		SELECT f.identifier,
		       f.kind,
		       f.calories,
		       snippet(foods_fts, -1, '<b>', '</b>', '...', 16)
		FROM foods_fts
		JOIN foods f ON f.key = foods_fts.key
		WHERE foods_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Identifier, &r.Kind, &r.Calories, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ftsQuery turns free text into an FTS5 query of quoted terms, so operator
// characters in user input are matched literally.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}
