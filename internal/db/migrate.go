package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending migrations (Up) for driver ("postgres" or "sqlite").
// Returns nil if already at the latest version. The migrator is not closed because
// that would close db as well.
func Migrate(db *sql.DB, driver string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}

	var dbDriver database.Driver
	switch driver {
	case "postgres":
		dbDriver, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	case "sqlite":
		dbDriver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, dbDriver)
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
