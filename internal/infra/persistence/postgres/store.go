// Package postgres provides a Postgres-backed regulation store mirroring the
// sqlite schema, with bulk reads keyed by LG number sets.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"baukatalog/pkg/katalog"
)

// Compile-time contract assertion.
var _ katalog.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	// Default DSN keeps parity with OpenPersistentStore defaults while allowing overrides via env.
	defaultDSN = "postgres://localhost/baukatalog?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// entity_json is json, not jsonb: jsonb normalizes member order and the
// documents are order-sensitive.
const schema = `CREATE TABLE IF NOT EXISTS regulations (
	id BIGSERIAL PRIMARY KEY,
	entity_type TEXT NOT NULL,
	lg_nr TEXT NOT NULL,
	ulg_nr TEXT NOT NULL DEFAULT '',
	grundtext_nr TEXT NOT NULL DEFAULT '',
	position_nr TEXT NOT NULL DEFAULT '',
	full_nr TEXT NOT NULL DEFAULT '',
	short_text TEXT NOT NULL DEFAULT '',
	searchable_text TEXT NOT NULL DEFAULT '',
	entity_json JSON NOT NULL
);
CREATE INDEX IF NOT EXISTS regulations_type_lg ON regulations(entity_type, lg_nr);
CREATE INDEX IF NOT EXISTS regulations_full_nr ON regulations(full_nr)`

// Store is the Postgres-backed regulation store.
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN) and ensures the regulations table exists.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("ensure regulations table: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// PutRecords inserts a batch of rows inside one transaction.
func (s *Store) PutRecords(ctx context.Context, records []katalog.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, rec := range records {
		doc, err := encodeDocument(rec.Document)
		if err != nil {
			return fmt.Errorf("encode document %s: %w", rec.FullNumber, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO regulations
			(entity_type, lg_nr, ulg_nr, grundtext_nr, position_nr, full_nr, short_text, searchable_text, entity_json)
			VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			string(rec.Type), rec.LG, rec.ULG, rec.Grundtext, rec.Position,
			rec.FullNumber, rec.ShortText, rec.SearchText, doc); err != nil {
			return fmt.Errorf("insert %s: %w", rec.FullNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// GetByFullNumber returns the first row with the given full number.
func (s *Store) GetByFullNumber(ctx context.Context, fullNumber string) (katalog.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM regulations WHERE full_nr = $1 ORDER BY id LIMIT 1`, fullNumber)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return katalog.Record{}, false, nil
	}
	if err != nil {
		return katalog.Record{}, false, err
	}
	return rec, true, nil
}

// List returns matching rows ordered by full number. LG number sets are bound
// as a single array parameter.
func (s *Store) List(ctx context.Context, q katalog.RecordQuery) ([]katalog.Record, error) {
	where, args := buildWhere(q)
	query := selectColumns + ` FROM regulations` + where + ` ORDER BY full_nr, id`
	if q.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, q.Limit, q.Offset)
	} else if q.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, len(args)+1)
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

const selectColumns = `SELECT entity_type, lg_nr, ulg_nr, grundtext_nr, position_nr, full_nr, short_text, searchable_text, entity_json`

func buildWhere(q katalog.RecordQuery) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	next := func() int { return len(args) + 1 }
	if q.Type != katalog.EntityUnknown {
		clauses = append(clauses, fmt.Sprintf(`entity_type = $%d`, next()))
		args = append(args, string(q.Type))
	}
	if len(q.LGNumbers) > 0 {
		clauses = append(clauses, fmt.Sprintf(`lg_nr = ANY($%d)`, next()))
		args = append(args, q.LGNumbers)
	}
	if q.ULG != "" {
		clauses = append(clauses, fmt.Sprintf(`ulg_nr = $%d`, next()))
		args = append(args, q.ULG)
	}
	if q.Grundtext != "" {
		clauses = append(clauses, fmt.Sprintf(`grundtext_nr = $%d`, next()))
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

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
