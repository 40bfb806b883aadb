// Package index provides a SQLite-backed mirror of the food catalog for
// substring and full-text search, with optional FTS5.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS foods (
	key        TEXT PRIMARY KEY,
	identifier TEXT NOT NULL,
	kind       TEXT NOT NULL,
	keywords   TEXT NOT NULL DEFAULT '[]',
	components TEXT NOT NULL DEFAULT '',
	calories   REAL NOT NULL DEFAULT 0,
	checksum   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_foods_kind ON foods(kind);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
