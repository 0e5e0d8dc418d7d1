package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// DB wraps sqlx.DB for either SQLite (default) or Postgres via pgx.
type DB struct {
	Client *sqlx.DB
	Driver string
}

// Open connects, pings and migrates the schema. Any failure here means
// storage is unavailable and the caller should stop.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	client, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == DriverPostgres {
		client.SetMaxOpenConns(10)
		client.SetMaxIdleConns(5)
		client.SetConnMaxLifetime(time.Hour)
	}

	db := &DB{Client: client, Driver: driver}
	if err := client.PingContext(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := db.migrate(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// sqliteDSN creates the parent directory and turns on the pragmas the
// schema relies on. Foreign keys are off by default in SQLite.
func sqliteDSN(path string) string {
	file := strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(file, '?'); i >= 0 {
		file = file[:i]
	}
	if dir := filepath.Dir(file); dir != "." && file != ":memory:" {
		os.MkdirAll(dir, 0o755)
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

func (d *DB) migrate(ctx context.Context) error {
	schema := sqliteSchema
	if d.Driver == DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		student_id  TEXT PRIMARY KEY,
		name        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id  TEXT NOT NULL REFERENCES students(student_id),
		date        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT '',
		reason      TEXT NOT NULL DEFAULT '',
		justified   INTEGER NOT NULL DEFAULT 0 CHECK (justified IN (0, 1)),
		UNIQUE (student_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		student_id  TEXT PRIMARY KEY,
		name        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id          BIGSERIAL PRIMARY KEY,
		student_id  TEXT NOT NULL REFERENCES students(student_id),
		date        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT '',
		reason      TEXT NOT NULL DEFAULT '',
		justified   INTEGER NOT NULL DEFAULT 0 CHECK (justified IN (0, 1)),
		UNIQUE (student_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date)`,
}

// Healthy verifies database connectivity.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	return d.Client.PingContext(ctx) == nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
