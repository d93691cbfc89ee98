// Package sqldb implements user and post storage on top of database/sql
// with SQLite (modernc.org/sqlite) and PostgreSQL (pgx) drivers.
package sqldb

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations
var embedMigrations embed.FS

// Supported driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Storage represents SQL storage implementation
type Storage struct {
	db      *sqlx.DB
	dialect string
}

// New opens a database, applies migrations and returns the storage.
// driver is "sqlite" (dsn is a file path, ":memory:" for tests) or "postgres"/"pgx".
func New(ctx context.Context, driver, dsn string) (*Storage, error) {
	sqlDriver, dialect, err := resolveDriver(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if dialect == "sqlite3" {
		if err := configureSQLite(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	storage := &Storage{db: db, dialect: dialect}

	if err := storage.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

func resolveDriver(driver string) (sqlDriver, dialect string, err error) {
	switch driver {
	case DriverSQLite, "":
		return DriverSQLite, "sqlite3", nil
	case DriverPostgres, DriverPgx:
		return DriverPgx, "postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// configureSQLite sets connection limits and pragmas
func configureSQLite(ctx context.Context, db *sqlx.DB) error {
	// SQLite с WAL mode поддерживает несколько читателей, но только одного писателя;
	// одно соединение также нужно, чтобы ":memory:" была одной базой
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	return nil
}

// Migrate applies pending migrations for the storage's dialect
func (s *Storage) Migrate(ctx context.Context) error {
	dir := "migrations/postgres"
	if s.dialect == "sqlite3" {
		dir = "migrations/sqlite"
	}

	migrations, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.Dialect(s.dialect), s.db.DB, migrations,
		goose.WithSlog(slog.Default()),
		goose.WithVerbose(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for testing purposes
func (s *Storage) DB() *sqlx.DB {
	return s.db
}
