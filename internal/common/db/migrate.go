package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"

	"github.com/bienestar-institucional/backend/internal/observability/metrics"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrateSQLite applies pending migrations on conn. conn stays open for the
// caller; the migrator is not closed because that would close conn too.
func MigrateSQLite(conn *sql.DB) error {
	dbDriver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		return recordMigration("sqlite", fmt.Errorf("create migration db driver: %w", err))
	}

	m, err := newMigrator("migrations/sqlite", "sqlite", dbDriver)
	if err != nil {
		return recordMigration("sqlite", err)
	}

	return recordMigration("sqlite", up(m))
}

// MigratePostgres applies pending migrations through a short-lived
// database/sql handle built from the pool's connection config.
func MigratePostgres(cfg *pgxpool.Config) error {
	conn := stdlib.OpenDB(*cfg.ConnConfig)

	dbDriver, err := migratepgx.WithInstance(conn, &migratepgx.Config{})
	if err != nil {
		_ = conn.Close()
		return recordMigration("postgres", fmt.Errorf("create migration db driver: %w", err))
	}

	m, err := newMigrator("migrations/postgres", "pgx", dbDriver)
	if err != nil {
		_ = dbDriver.Close()
		return recordMigration("postgres", err)
	}
	defer func() { _, _ = m.Close() }()

	return recordMigration("postgres", up(m))
}

func newMigrator(dir, driverName string, dbDriver database.Driver) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, driverName, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func recordMigration(driver string, err error) error {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.DBMigrationRuns.WithLabelValues(driver, result).Inc()
	return err
}
