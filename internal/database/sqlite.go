package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// TimeLayout is the fixed-width UTC layout used for SQLite timestamps so that
// text comparison orders them chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteDB wraps a database/sql handle on the embedded store
type SQLiteDB struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the SQLite file at path and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		// Each connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(4)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	db := &SQLiteDB{conn: conn, path: path}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if path != MemoryPath {
		if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	if err := db.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the export tables when missing
func (db *SQLiteDB) Migrate(ctx context.Context) error {
	for i, stmt := range sqliteSchema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Conn returns the underlying handle
func (db *SQLiteDB) Conn() *sql.DB {
	return db.conn
}

// Path returns the file the store was opened from
func (db *SQLiteDB) Path() string {
	return db.path
}

// Ping verifies the handle
func (db *SQLiteDB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// WithTransaction runs fn inside a transaction, rolling back when it fails
func (db *SQLiteDB) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the handle
func (db *SQLiteDB) Close() error {
	return db.conn.Close()
}

// FormatTime renders t in TimeLayout
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout timestamp
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
