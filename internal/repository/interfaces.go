package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/tennis-edge/internal/models"
)

// SnapshotInfo describes one stored rating export
type SnapshotInfo struct {
	ID          uuid.UUID
	PublishedAt time.Time
	Players     int
}

// RatingRepository stores exported rating snapshots
type RatingRepository interface {
	// SaveAll stores rows as the export of one snapshot, replacing any
	// earlier export with the same id.
	SaveAll(ctx context.Context, snapshot SnapshotInfo, rows []models.PlayerRating) error
	// List returns the rows of the most recently published snapshot
	List(ctx context.Context) (SnapshotInfo, []models.PlayerRating, error)
}

// ValueBetRepository stores value-bet recommendations
type ValueBetRepository interface {
	SaveBatch(ctx context.Context, strategy string, bets []models.ValueBet) error
	ListSince(ctx context.Context, since time.Time) ([]StoredValueBet, error)
}

// StoredValueBet is a persisted recommendation with the strategy that selected it
type StoredValueBet struct {
	models.ValueBet
	Strategy string
}
