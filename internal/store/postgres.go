package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pool, pings it and makes sure the jobs table exists.
func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	raw_description TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs(source);
`)
	return err
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Fetch returns records ordered by id.
func (p *Postgres) Fetch(ctx context.Context, q Query) ([]Record, error) {
	query := `SELECT id, source, description, raw_description, updated_at FROM jobs`
	var args []any
	if q.Source != "" {
		args = append(args, q.Source)
		query += fmt.Sprintf(` WHERE source = $%d`, len(args))
	}
	query += ` ORDER BY id`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		r, err := scanPostgres(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one record.
func (p *Postgres) Get(ctx context.Context, id string) (Record, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, source, description, raw_description, updated_at FROM jobs WHERE id = $1`, id)
	r, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

// Insert stores a new record and returns its id. A missing id is generated.
func (p *Postgres) Insert(ctx context.Context, r Record) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = nowUTC()
	}
	_, err := p.pool.Exec(ctx, `
INSERT INTO jobs (id, source, description, raw_description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`, r.ID, r.Source, r.Description, r.RawDescription, r.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("insert job %s: %w", r.ID, err)
	}
	return r.ID, nil
}

// Save writes a new description. An existing raw_description is kept.
func (p *Postgres) Save(ctx context.Context, u Update) error {
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = nowUTC()
	}
	tag, err := p.pool.Exec(ctx, `
UPDATE jobs
SET description = $1, raw_description = COALESCE(raw_description, $2), updated_at = $3
WHERE id = $4`, u.Description, u.RawDescription, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("update job %s: %w", u.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update job %s: %w", u.ID, ErrNotFound)
	}
	return nil
}

func scanPostgres(row pgx.Row) (Record, error) {
	var r Record
	var updated time.Time
	if err := row.Scan(&r.ID, &r.Source, &r.Description, &r.RawDescription, &updated); err != nil {
		return Record{}, err
	}
	r.UpdatedAt = updated.UTC()
	return r, nil
}
