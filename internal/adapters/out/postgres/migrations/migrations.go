// Package migrations embeds the database schema and applies it with golang-migrate.
// Production startup and the integration test suites use the same migrations.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratePgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationsTable stores the applied schema version.
const MigrationsTable = "schema_migrations"

//go:embed sql/*.sql
var files embed.FS

// Up applies all pending migrations to the database behind db. Running it against an
// up-to-date schema is a no-op.
//
// Example:
//
//	sqlDB, _ := gormDB.DB()
//	if err := migrations.Up(sqlDB, "dispatch"); err != nil {
//	    return err
//	}
func Up(db *sql.DB, dbName string) error {
	m, err := newMigrate(db, dbName)
	if err != nil {
		return err
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to up migrations: %w", err)
	}
	return nil
}

// Down reverts all applied migrations.
func Down(db *sql.DB, dbName string) error {
	m, err := newMigrate(db, dbName)
	if err != nil {
		return err
	}

	if err = m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to down migrations: %w", err)
	}
	return nil
}

func newMigrate(db *sql.DB, dbName string) (*migrate.Migrate, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := migratePgx.WithInstance(db, &migratePgx.Config{
		MigrationsTable: MigrationsTable,
		DatabaseName:    dbName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}
