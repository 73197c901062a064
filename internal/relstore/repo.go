package relstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/vaultgen/internal/apperr"
	"github.com/starford/vaultgen/internal/models"
)

const selectColumns = `
	SELECT COALESCE(entry, ''), COALESCE(response, ''), COALESCE(userid, ''),
	       COALESCE(helpers, ''), COALESCE(related_cmds, ''),
	       COALESCE(CAST(call_count AS INTEGER), 0), COALESCE(up, ''),
	       COALESCE(CAST(updated_at AS TEXT), '')
	FROM responses`

type rawRow struct {
	entry                models.Entry
	helpers, related, up string
}

func scanRow(sc interface{ Scan(...any) error }) (rawRow, error) {
	var r rawRow
	err := sc.Scan(&r.entry.ID, &r.entry.Content, &r.entry.Author,
		&r.helpers, &r.related, &r.entry.CallCount, &r.up, &r.entry.LastModified)
	return r, err
}

// decode parses the relation columns, appending any degraded field to bad.
func (r rawRow) decode(bad *[]FieldError) models.Entry {
	e := r.entry
	fields := []struct {
		name string
		raw  string
		dst  *[]string
	}{
		{"helpers", r.helpers, &e.Helpers},
		{"related_cmds", r.related, &e.Related},
		{"up", r.up, &e.Up},
	}
	for _, f := range fields {
		list, ok := ParseList(f.raw)
		if !ok && bad != nil {
			*bad = append(*bad, FieldError{ID: e.ID, Field: f.name, Raw: f.raw})
		}
		*f.dst = list
	}
	return e
}

// Snapshot reads every entry in a single query.
func (db *DB) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := db.conn.QueryContext(ctx, selectColumns+` ORDER BY entry`)
	if err != nil {
		return nil, fmt.Errorf("relstore: snapshot: %w", err)
	}
	defer rows.Close()

	var (
		entries []models.Entry
		bad     []FieldError
	)
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("relstore: scan: %w", err)
		}
		if r.entry.ID == "" {
			continue
		}
		entries = append(entries, r.decode(&bad))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("relstore: snapshot: %w", err)
	}

	s := NewSnapshot(entries)
	s.malformed = bad
	return s, nil
}

// Get returns a single entry, or apperr.ErrNotFound.
func (db *DB) Get(ctx context.Context, id string) (*models.Entry, error) {
	r, err := scanRow(db.conn.QueryRowContext(ctx, selectColumns+` WHERE entry = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("relstore: get %s: %w", id, err)
	}
	e := r.decode(nil)
	return &e, nil
}

// Put replaces the row for e.ID. It is used by the import command and tests;
// generation itself never writes to the store.
func (db *DB) Put(ctx context.Context, e models.Entry) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("relstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.ExecContext(ctx, `DELETE FROM responses WHERE entry = ?`, e.ID); err != nil {
		return fmt.Errorf("relstore: put %s: %w", e.ID, err)
	}

	var author, updated any
	if e.Author != "" {
		author = e.Author
	}
	if e.LastModified != "" {
		updated = e.LastModified
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO responses (entry, response, userid, helpers, related_cmds, call_count, up, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Content, author, EncodeList(e.Helpers), EncodeList(e.Related), e.CallCount, EncodeList(e.Up), updated)
	if err != nil {
		return fmt.Errorf("relstore: put %s: %w", e.ID, err)
	}
	return tx.Commit()
}

// Load opens the database at path read-only, takes a snapshot and closes it.
func Load(ctx context.Context, path string) (*Snapshot, error) {
	db, err := OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Snapshot(ctx)
}
