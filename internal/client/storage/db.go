// Package storage opens the client database, applies migrations and
// bundles the repositories built on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TravisBumgarner/just-recordings/internal/client/migrations"
	"github.com/TravisBumgarner/just-recordings/internal/client/repositories/metadata"
	"github.com/TravisBumgarner/just-recordings/internal/client/repositories/recordings"
	"github.com/pressly/goose/v3"
)

type Repositories struct {
	Recordings recordings.Repository
	Metadata   metadata.Repository
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) the SQLite database at dsn, runs
// migrations and returns the database handle plus ready repositories.
func Open(ctx context.Context, dsn string) (*sql.DB, *Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	// A single connection sidesteps SQLITE_BUSY between the upload
	// worker and interactive commands.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	repos := &Repositories{
		Recordings: recordings.NewSQLiteRepository(db),
		Metadata:   metadata.NewSQLiteRepository(db),
	}
	return db, repos, nil
}
