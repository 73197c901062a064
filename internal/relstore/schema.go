// Package relstore provides read access to the SQLite table of knowledge
// entries and loads consistent snapshots of it for a generation run.
package relstore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// The table is owned by the bot that records entries; this schema is only
// applied when the store is opened for writing (import, tests).
const schemaSQL = `
CREATE TABLE IF NOT EXISTS responses (
	entry        TEXT PRIMARY KEY,
	response     TEXT NOT NULL DEFAULT '',
	userid       TEXT,
	helpers      TEXT,
	related_cmds TEXT,
	call_count   INTEGER NOT NULL DEFAULT 0,
	up           TEXT,
	updated_at   TEXT
);
`

// DB wraps a sql.DB with relation store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the database for writing and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("relstore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("relstore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("relstore: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// OpenReadOnly opens an existing database without creating or altering it.
// A missing file is reported here, before any query runs.
func OpenReadOnly(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("relstore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("relstore: ping %s: %w", path, err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
