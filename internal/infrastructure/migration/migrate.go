// Package migration wraps golang-migrate for schema management against
// PostgreSQL, plus helpers for scaffolding new migration files.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies versioned SQL migrations from a directory.
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New builds a Migrator on top of an existing database handle.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{m: m, log: logger}, nil
}

// NewFromURL builds a Migrator that opens its own connection from a
// database URL. Used by tooling that runs outside the server process.
func NewFromURL(databaseURL, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{m: m, log: logger}, nil
}

// Up applies all pending migrations.
func (mg *Migrator) Up() error {
	mg.log.Info("applying pending migrations")
	if err := mg.run(mg.m.Up()); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	mg.log.Info("rolling back all migrations")
	if err := mg.run(mg.m.Down()); err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Steps applies n migrations, negative n rolls back.
func (mg *Migrator) Steps(n int) error {
	mg.log.Info("applying migration steps", zap.Int("steps", n))
	if err := mg.run(mg.m.Steps(n)); err != nil {
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return nil
}

// GoTo migrates up or down to an exact version.
func (mg *Migrator) GoTo(version uint) error {
	mg.log.Info("migrating to version", zap.Uint("target_version", version))
	if err := mg.run(mg.m.Migrate(version)); err != nil {
		return fmt.Errorf("migration to version %d failed: %w", version, err)
	}
	return nil
}

// run normalizes ErrNoChange and logs the resulting schema version.
func (mg *Migrator) run(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("schema already up to date")
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, verr := mg.m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", verr)
	}
	mg.log.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Version reports the current schema version. A database with no applied
// migrations reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL. Only for
// repairing a dirty state.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("forcing migration version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop destroys everything in the target database.
func (mg *Migrator) Drop() error {
	mg.log.Warn("dropping database, all data will be lost")
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close migration database: %w", dbErr)
	}
	return nil
}
