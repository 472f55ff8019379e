package postgres

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// SourceURL turns a migrations directory into a golang-migrate source URL.
// Values that already carry a scheme are returned unchanged.
func SourceURL(migrationsDir string) (string, error) {
	if strings.Contains(migrationsDir, "://") {
		return migrationsDir, nil
	}
	abs, err := filepath.Abs(migrationsDir)
	if err != nil {
		return "", fmt.Errorf("postgres: resolve migrations dir: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// RunMigrations runs all pending database migrations from the given directory.
// If there are no new migrations to apply the function returns nil.
func RunMigrations(dsn string, migrationsDir string) error {
	m, err := newMigrator(dsn, migrationsDir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations up: %w", err)
	}

	return nil
}

// RunMigrationsDown rolls back all database migrations.
// If there are no migrations to roll back the function returns nil.
func RunMigrationsDown(dsn string, migrationsDir string) error {
	m, err := newMigrator(dsn, migrationsDir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations down: %w", err)
	}

	return nil
}

func newMigrator(dsn, migrationsDir string) (*migrate.Migrate, error) {
	source, err := SourceURL(migrationsDir)
	if err != nil {
		return nil, err
	}
	m, err := migrate.New(source, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: create migrator: %w", err)
	}
	return m, nil
}
