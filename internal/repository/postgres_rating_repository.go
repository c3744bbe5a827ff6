package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *database.PostgresDB
}

// NewPostgresRatingRepository creates a new rating repository
func NewPostgresRatingRepository(db *database.PostgresDB) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// SaveAll bulk-copies rows inside one transaction
func (r *PostgresRatingRepository) SaveAll(ctx context.Context, snapshot SnapshotInfo, rows []models.PlayerRating) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM rating_snapshots WHERE id = $1`, snapshot.ID); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO rating_snapshots (id, published_at, players) VALUES ($1, $2, $3)`,
			snapshot.ID, snapshot.PublishedAt, len(rows),
		); err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		columns := []string{"snapshot_id", "player", "elo_hard", "elo_clay", "elo_grass", "elo_overall", "matches_played", "last_updated"}
		source := make([][]interface{}, len(rows))
		for i, p := range rows {
			source[i] = []interface{}{
				snapshot.ID, p.Player, p.EloHard, p.EloClay, p.EloGrass, p.EloOverall, p.MatchesPlayed, p.LastUpdated,
			}
		}

		count, err := tx.CopyFrom(ctx, pgx.Identifier{"player_ratings"}, columns, pgx.CopyFromRows(source))
		if err != nil {
			return fmt.Errorf("failed to batch insert ratings: %w", err)
		}
		if count != int64(len(rows)) {
			return fmt.Errorf("inserted %d rows, expected %d", count, len(rows))
		}
		return nil
	})
}

// List returns the latest snapshot's rows ordered by overall rating
func (r *PostgresRatingRepository) List(ctx context.Context) (SnapshotInfo, []models.PlayerRating, error) {
	var info SnapshotInfo
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, published_at, players FROM rating_snapshots ORDER BY published_at DESC LIMIT 1`,
	).Scan(&info.ID, &info.PublishedAt, &info.Players)
	if errors.Is(err, pgx.ErrNoRows) {
		return info, nil, models.ErrNotFound
	}
	if err != nil {
		return info, nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	rows, err := r.db.Pool().Query(ctx, `
		SELECT player, elo_hard, elo_clay, elo_grass, elo_overall, matches_played, last_updated
		FROM player_ratings
		WHERE snapshot_id = $1
		ORDER BY elo_overall DESC, player ASC
	`, info.ID)
	if err != nil {
		return info, nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.PlayerRating
	for rows.Next() {
		var p models.PlayerRating
		if err := rows.Scan(&p.Player, &p.EloHard, &p.EloClay, &p.EloGrass, &p.EloOverall, &p.MatchesPlayed, &p.LastUpdated); err != nil {
			return info, nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, p)
	}
	return info, ratings, rows.Err()
}
