//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// likeEscaper escapes LIKE wildcards so the query matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on the foods table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _, _ string) error {
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) error { return nil }

// Search performs a LIKE-based substring search over identifiers, keywords
// and component names (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT identifier, kind, calories, keywords
		FROM foods
		WHERE identifier LIKE ? ESCAPE '\' OR keywords LIKE ? ESCAPE '\' OR components LIKE ? ESCAPE '\'
		ORDER BY identifier
		LIMIT ?
	`, like, like, like, limit)
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
