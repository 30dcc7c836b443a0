package db

import (
	"context"
	"embed"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	_ "caredash/internal/db/migrations"
)

// The migration sources are embedded so goose finds the migrations
// directory at runtime; the migrations themselves are the registered Go
// functions compiled into the binary.
//
//go:embed migrations/*.go
var migrationsFS embed.FS

// Migrate runs all registered Go migrations against the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return goose.UpContext(ctx, sqlDB, "migrations")
}
