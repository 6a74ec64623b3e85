// Package store persists job descriptions for the maintenance runs. It holds
// the three durable fields the pipeline needs: description, raw_description
// and updated_at.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is one stored job description.
type Record struct {
	ID          string
	Source      string
	Description string
	// RawDescription is the original text kept for audit. Nil means no
	// transformation has ever been required.
	RawDescription *string
	UpdatedAt      time.Time
}

// Query selects records for a run. Zero Limit means no limit; empty Source
// means every source.
type Query struct {
	Limit  int
	Source string
}

// Update replaces a record's description. RawDescription is written only
// when the stored record has none yet, so the first captured original is
// never overwritten.
type Update struct {
	ID             string
	Description    string
	RawDescription *string
	UpdatedAt      time.Time
}

// Store is the storage collaborator used by the batch runner and the CLI.
type Store interface {
	Fetch(ctx context.Context, q Query) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Insert(ctx context.Context, r Record) (string, error)
	Save(ctx context.Context, u Update) error
	Close() error
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the store selected by driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite, "sqlite3":
		if dsn == "" {
			return nil, errors.New("sqlite: empty database path")
		}
		return OpenSQLite(ctx, dsn)
	case DriverPostgres, "postgresql", "pgx":
		return ConnectPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func nowUTC() time.Time { return time.Now().UTC() }
