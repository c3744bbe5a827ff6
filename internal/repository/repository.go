// Package repository persists rating snapshots and value bets to Postgres or
// the embedded SQLite store, and writes the CSV rating export.
package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/database"
)

// Repositories holds the configured repository implementations. Both fields
// are nil when storage is disabled.
type Repositories struct {
	Ratings   RatingRepository
	ValueBets ValueBetRepository
	ping      func(ctx context.Context) error
	close     func() error
}

// NewRepositories opens the store selected by storage.driver
func NewRepositories(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case "", "none":
		return &Repositories{close: func() error { return nil }}, nil
	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Ratings:   NewPostgresRatingRepository(db),
			ValueBets: NewPostgresValueBetRepository(db),
			ping:      db.Ping,
			close:     db.Close,
		}, nil
	case "sqlite":
		db, err := database.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteRepositories(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// NewSQLiteRepositories builds repositories over an open SQLite store
func NewSQLiteRepositories(db *database.SQLiteDB) *Repositories {
	return &Repositories{
		Ratings:   NewSQLiteRatingRepository(db),
		ValueBets: NewSQLiteValueBetRepository(db),
		ping:      db.Ping,
		close:     db.Close,
	}
}

// Enabled reports whether a store is configured
func (r *Repositories) Enabled() bool {
	return r.ping != nil
}

// Ping checks the underlying store. It succeeds when storage is disabled.
func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// Close releases the underlying store
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}
