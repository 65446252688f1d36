package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies the embedded migrations for driver. It opens its own
// connection because closing the migrate instance closes the database handle.
func Migrate(driver Driver, dsn string) error {
	sqlDriver := "sqlite"
	if driver == DriverPostgres {
		sqlDriver = "pgx"
	}

	migrateDB, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return fmt.Errorf("opening migration database: %w", err)
	}
	defer migrateDB.Close()

	var (
		instance migratedb.Driver
		name     string
	)

	switch driver {
	case DriverPostgres:
		instance, err = pgx.WithInstance(migrateDB, &pgx.Config{})
		name = "pgx5"
	case DriverSQLite:
		instance, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
		name = "sqlite"
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	if err != nil {
		return fmt.Errorf("creating %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(driver))
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, instance)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
