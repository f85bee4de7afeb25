// internal/store/store.go
//
// SQL-backed lookups over the record store.
//
// Context
// -------
// Records live as JSON documents in `records_metadata`, addressed by
// persistent identifiers in `pidstore_pid`:
//
//	records_metadata (id PK, json, created, updated)
//	pidstore_pid     (pid_type, pid_value, object_uuid, status)
//
// The validation core needs two answers from that store:
//  1. Which stored records hold an item with property = value inside list
//     field?                                     → `Matching()`
//  2. What is the record behind (pid_type, recid)? → `Record()`
//
// Both Postgres (json_array_elements) and MySQL 8 (JSON_TABLE) are
// supported; the dialect follows the sqlx driver name.  Values are always
// bound parameters.  Field and property names come from the rule catalog
// and are checked against an identifier pattern before they reach SQL.
//
// Notes
// -----
// • The store never caches; wrap it with internal/lookup for that.
// • Errors are returned verbatim so the orchestrator can treat them as
//   infrastructure failures.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/recordeditor/internal/validation"
)

var (
	// ErrNotFound means no persistent identifier matches.
	ErrNotFound = errors.New("record not found")
	// ErrNotResolvable means the identifier exists but does not lead to a
	// usable record (deleted, redirected, or unparsable).
	ErrNotResolvable = errors.New("record not resolvable")
)

// Dialect selects the JSON query flavour.
type Dialect int

const (
	Postgres Dialect = iota
	MySQL
)

// DialectFor maps a database/sql driver name to a Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return 0, fmt.Errorf("store: unsupported driver %q", driver)
}

var ident = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store answers lookups against one record database.  Safe for concurrent
// use.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

// New wraps db, deriving the dialect from its driver name.
func New(db *sqlx.DB) (*Store, error) {
	d, err := DialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &Store{db: db, dialect: d}, nil
}

// Compile-time assertion: *Store satisfies validation.Lookup.
var _ validation.Lookup = (*Store)(nil)

// Matching returns the ids of records whose q.Field list holds an item
// with q.Property equal to q.Value, ordered by id.
func (s *Store) Matching(ctx context.Context, q validation.Query) ([]string, error) {
	query, err := s.matchingQuery(q.Field, q.Property)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, 2)
	if err := s.db.SelectContext(ctx, &ids, query, q.Value); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) matchingQuery(field, property string) (string, error) {
	if !ident.MatchString(field) || !ident.MatchString(property) {
		return "", fmt.Errorf("store: illegal field %q or property %q", field, property)
	}
	var q string
	switch s.dialect {
	case MySQL:
		q = `SELECT r.id FROM records_metadata AS r, ` +
			`JSON_TABLE(r.json, '$.` + field + `[*]' COLUMNS (v VARCHAR(1024) PATH '$.` + property + `')) AS elem ` +
			`WHERE elem.v = ? ORDER BY r.id`
	default:
		q = `SELECT r.id FROM records_metadata AS r, ` +
			`json_array_elements(r.json -> '` + field + `') AS elem ` +
			`WHERE elem ->> '` + property + `' = ? ORDER BY r.id`
	}
	return s.db.Rebind(q), nil
}

// pidRow mirrors the columns of `pidstore_pid` we read.
type pidRow struct {
	ObjectUUID sql.NullString `db:"object_uuid"`
	Status     string         `db:"status"`
}

// statusRegistered is the pidstore status of a live identifier.
const statusRegistered = "R"

// Record resolves (pidType, pidValue) to the stored record and its id.
// It returns ErrNotFound when no identifier matches and ErrNotResolvable
// when the identifier exists but its record cannot be used.
func (s *Store) Record(ctx context.Context, pidType, pidValue string) (validation.Record, string, error) {
	var pid pidRow
	err := s.db.GetContext(ctx, &pid, s.db.Rebind(
		`SELECT object_uuid, status FROM pidstore_pid WHERE pid_type = ? AND pid_value = ? LIMIT 1`),
		pidType, pidValue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if pid.Status != statusRegistered || !pid.ObjectUUID.Valid {
		return nil, "", fmt.Errorf("%s:%s status %q: %w", pidType, pidValue, pid.Status, ErrNotResolvable)
	}

	var raw []byte
	err = s.db.GetContext(ctx, &raw, s.db.Rebind(
		`SELECT json FROM records_metadata WHERE id = ? LIMIT 1`), pid.ObjectUUID.String)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%s:%s object %s missing: %w", pidType, pidValue, pid.ObjectUUID.String, ErrNotResolvable)
	}
	if err != nil {
		return nil, "", err
	}
	rec, err := validation.ParseRecord(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%s: %v: %w", pidType, pidValue, err, ErrNotResolvable)
	}
	return rec, pid.ObjectUUID.String, nil
}
