// Package sqlite provides the embedded default regulation store, one row per
// catalog node in a single regulations table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"baukatalog/pkg/katalog"
)

// Compile-time contract assertion.
var _ katalog.Store = (*Store)(nil)

const schema = `CREATE TABLE IF NOT EXISTS regulations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entity_type TEXT NOT NULL,
	lg_nr TEXT NOT NULL,
	ulg_nr TEXT NOT NULL DEFAULT '',
	grundtext_nr TEXT NOT NULL DEFAULT '',
	position_nr TEXT NOT NULL DEFAULT '',
	full_nr TEXT NOT NULL DEFAULT '',
	short_text TEXT NOT NULL DEFAULT '',
	searchable_text TEXT NOT NULL DEFAULT '',
	entity_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS regulations_type_lg ON regulations(entity_type, lg_nr);
CREATE INDEX IF NOT EXISTS regulations_full_nr ON regulations(full_nr);`

// Store is the SQLite-backed regulation store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (and if needed creates) the database at path; empty path
// falls back to baukatalog.db in the working directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "baukatalog.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create regulations table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// PutRecords inserts a batch of rows inside one transaction.
func (s *Store) PutRecords(ctx context.Context, records []katalog.Record) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO regulations
		(entity_type, lg_nr, ulg_nr, grundtext_nr, position_nr, full_nr, short_text, searchable_text, entity_json)
		VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		retErr = fmt.Errorf("prepare insert: %w", err)
		return retErr
	}
	defer func() { _ = stmt.Close() }()
	for _, rec := range records {
		doc, err := encodeDocument(rec.Document)
		if err != nil {
			retErr = fmt.Errorf("encode document %s: %w", rec.FullNumber, err)
			return retErr
		}
		if _, err := stmt.ExecContext(ctx,
			string(rec.Type), rec.LG, rec.ULG, rec.Grundtext, rec.Position,
			rec.FullNumber, rec.ShortText, rec.SearchText, doc); err != nil {
			retErr = fmt.Errorf("insert %s: %w", rec.FullNumber, err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByFullNumber returns the first row with the given full number.
func (s *Store) GetByFullNumber(ctx context.Context, fullNumber string) (katalog.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM regulations WHERE full_nr = ? ORDER BY id LIMIT 1`, fullNumber)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return katalog.Record{}, false, nil
	}
	if err != nil {
		return katalog.Record{}, false, err
	}
	return rec, true, nil
}

// List returns matching rows ordered by full number.
func (s *Store) List(ctx context.Context, q katalog.RecordQuery) ([]katalog.Record, error) {
	where, args := buildWhere(q)
	query := selectColumns + ` FROM regulations` + where + ` ORDER BY full_nr, id`
	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset)
	} else if q.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, q.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select regulations: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []katalog.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regulations: %w", err)
	}
	return out, nil
}

// Count returns the number of matching rows, ignoring pagination.
func (s *Store) Count(ctx context.Context, q katalog.RecordQuery) (int, error) {
	where, args := buildWhere(q)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM regulations`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count regulations: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

const selectColumns = `SELECT entity_type, lg_nr, ulg_nr, grundtext_nr, position_nr, full_nr, short_text, searchable_text, entity_json`

func buildWhere(q katalog.RecordQuery) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if q.Type != katalog.EntityUnknown {
		clauses = append(clauses, `entity_type = ?`)
		args = append(args, string(q.Type))
	}
	if len(q.LGNumbers) > 0 {
		placeholders := strings.Repeat("?,", len(q.LGNumbers))
		clauses = append(clauses, `lg_nr IN (`+placeholders[:len(placeholders)-1]+`)`)
		for _, lg := range q.LGNumbers {
			args = append(args, lg)
		}
	}
	if q.ULG != "" {
		clauses = append(clauses, `ulg_nr = ?`)
		args = append(args, q.ULG)
	}
	if q.Grundtext != "" {
		clauses = append(clauses, `grundtext_nr = ?`)
		args = append(args, q.Grundtext)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(clauses, ` AND `), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (katalog.Record, error) {
	var (
		rec katalog.Record
		typ string
		doc []byte
	)
	if err := row.Scan(&typ, &rec.LG, &rec.ULG, &rec.Grundtext, &rec.Position,
		&rec.FullNumber, &rec.ShortText, &rec.SearchText, &doc); err != nil {
		return katalog.Record{}, err
	}
	rec.Type = katalog.EntityType(typ)
	document, err := katalog.DecodeDocument(doc)
	if err != nil {
		return katalog.Record{}, fmt.Errorf("decode document %s: %w", rec.FullNumber, err)
	}
	rec.Document = document
	return rec, nil
}

func encodeDocument(doc *katalog.Object) ([]byte, error) {
	if doc == nil {
		doc = katalog.NewObject()
	}
	return doc.MarshalJSON()
}
