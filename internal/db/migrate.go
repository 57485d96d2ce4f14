package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const migrationsDir = "migrations"

func withMigrator(ctx context.Context, connectionURL string, op func(db *sql.DB) error) (err error) {
	db, err := goose.OpenDBWithDriver("pgx", connectionURL)
	if err != nil {
		return fmt.Errorf("failed to connect with database: %w", err)
	}

	defer func() {
		dbErr := db.Close()
		if dbErr != nil {
			if err == nil {
				err = fmt.Errorf("failed to close database connection: %w", dbErr)
			} else {
				err = fmt.Errorf("multiple errors occurred: %w, %s", err, dbErr)
			}
		}
	}()

	goose.SetBaseFS(Migrations)
	err = goose.SetDialect("postgres")
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return op(db)
}

// MigrateTo applies migrations up to version, which is either "latest" or a
// migration number.
func MigrateTo(ctx context.Context, connectionURL string, version string) error {
	target := int64(-1)
	if version != "latest" {
		var err error
		target, err = strconv.ParseInt(version, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}
	}
	return withMigrator(ctx, connectionURL, func(db *sql.DB) error {
		if target < 0 {
			return goose.UpContext(ctx, db, migrationsDir)
		}
		return goose.UpToContext(ctx, db, migrationsDir, target)
	})
}

// Status logs the applied state of every known migration and returns the
// current schema version.
func Status(ctx context.Context, connectionURL string) (version int64, err error) {
	err = withMigrator(ctx, connectionURL, func(db *sql.DB) error {
		if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		var err error
		version, err = goose.GetDBVersionContext(ctx, db)
		return err
	})
	return
}
