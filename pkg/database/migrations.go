package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx" for migrations
	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/migrations"
)

// OpenMigrationDB opens a database/sql handle suited to RunMigrations. The
// migrator closes it when done, so it must not be shared with a session.
func OpenMigrationDB(dialect Dialect, dsn string) (*sql.DB, error) {
	driver := "pgx"
	if dialect == SQLite {
		driver = "sqlite"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration database: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded schema for dialect. It is idempotent and
// safe to call multiple times - only pending migrations will be executed.
func RunMigrations(db *sql.DB, dialect Dialect, logger *zap.Logger) error {
	var (
		driver migratedb.Driver
		source fs.FS
		err    error
	)
	switch dialect {
	case Postgres:
		source, err = fs.Sub(migrations.FS, "postgres")
		if err == nil {
			driver, err = postgres.WithInstance(db, &postgres.Config{})
		}
	case SQLite:
		source, err = fs.Sub(migrations.FS, "sqlite")
		if err == nil {
			driver, err = sqlite.WithInstance(db, &sqlite.Config{})
		}
	default:
		return fmt.Errorf("no migrations for dialect %q", dialect.Name())
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	src, err := iofs.New(source, ".")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect.Name(), driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Failed to close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("Failed to close migration database", zap.Error(dbErr))
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No migrations to apply (database up-to-date)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, _ := m.Version()
	logger.Info("Applied migrations successfully", zap.Uint("version", newVersion))
	return nil
}
