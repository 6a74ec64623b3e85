package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// sqlitePragmas are applied through the DSN so every pooled connection
// gets them, not only the first.
var sqlitePragmas = []string{
	"busy_timeout(10000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(path)
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// OpenSQLite opens (and creates if needed) the database at path. Writes are
// serialized over a single connection.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	raw_description TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs(source);
`)
	return err
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Fetch returns records ordered by id.
func (s *SQLite) Fetch(ctx context.Context, q Query) ([]Record, error) {
	query := `SELECT id, source, description, raw_description, updated_at FROM jobs`
	var args []any
	if q.Source != "" {
		query += ` WHERE source = ?`
		args = append(args, q.Source)
	}
	query += ` ORDER BY id`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		r, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one record.
func (s *SQLite) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, source, description, raw_description, updated_at FROM jobs WHERE id = ?`, id)
	r, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

// Insert stores a new record and returns its id. A missing id is generated.
func (s *SQLite) Insert(ctx context.Context, r Record) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = nowUTC()
	}
	ts := r.UpdatedAt.UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO jobs (id, source, description, raw_description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`, r.ID, r.Source, r.Description, nullString(r.RawDescription), ts, ts)
	if err != nil {
		return "", fmt.Errorf("insert job %s: %w", r.ID, err)
	}
	return r.ID, nil
}

// Save writes a new description. An existing raw_description is kept.
func (s *SQLite) Save(ctx context.Context, u Update) error {
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = nowUTC()
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE jobs
SET description = ?, raw_description = COALESCE(raw_description, ?), updated_at = ?
WHERE id = ?`, u.Description, nullString(u.RawDescription), u.UpdatedAt.UTC().Format(time.RFC3339Nano), u.ID)
	if err != nil {
		return fmt.Errorf("update job %s: %w", u.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update job %s: %w", u.ID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (Record, error) {
	var r Record
	var raw sql.NullString
	var updated string
	if err := row.Scan(&r.ID, &r.Source, &r.Description, &raw, &updated); err != nil {
		return Record{}, err
	}
	if raw.Valid {
		v := raw.String
		r.RawDescription = &v
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		r.UpdatedAt = t
	}
	return r, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
