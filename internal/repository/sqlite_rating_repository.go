package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

// SQLiteRatingRepository implements RatingRepository on the embedded store
type SQLiteRatingRepository struct {
	db *database.SQLiteDB
}

// NewSQLiteRatingRepository creates a new rating repository
func NewSQLiteRatingRepository(db *database.SQLiteDB) RatingRepository {
	return &SQLiteRatingRepository{db: db}
}

// SaveAll replaces the snapshot's rows in one transaction
func (r *SQLiteRatingRepository) SaveAll(ctx context.Context, snapshot SnapshotInfo, rows []models.PlayerRating) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		id := snapshot.ID.String()
		if _, err := tx.ExecContext(ctx, `DELETE FROM player_ratings WHERE snapshot_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear ratings: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM rating_snapshots WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rating_snapshots (id, published_at, players) VALUES (?, ?, ?)`,
			id, database.FormatTime(snapshot.PublishedAt), len(rows),
		); err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO player_ratings (snapshot_id, player, elo_hard, elo_clay, elo_grass, elo_overall, matches_played, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare rating insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range rows {
			if _, err := stmt.ExecContext(ctx, id, p.Player, p.EloHard, p.EloClay, p.EloGrass, p.EloOverall,
				p.MatchesPlayed, database.FormatTime(p.LastUpdated)); err != nil {
				return fmt.Errorf("failed to insert rating for %s: %w", p.Player, err)
			}
		}
		return nil
	})
}

// List returns the latest snapshot's rows ordered by overall rating
func (r *SQLiteRatingRepository) List(ctx context.Context) (SnapshotInfo, []models.PlayerRating, error) {
	var (
		info        SnapshotInfo
		id          string
		publishedAt string
	)
	err := r.db.Conn().QueryRowContext(ctx,
		`SELECT id, published_at, players FROM rating_snapshots ORDER BY published_at DESC LIMIT 1`,
	).Scan(&id, &publishedAt, &info.Players)
	if errors.Is(err, sql.ErrNoRows) {
		return info, nil, models.ErrNotFound
	}
	if err != nil {
		return info, nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	if info.ID, err = uuid.Parse(id); err != nil {
		return info, nil, fmt.Errorf("invalid snapshot id %q: %w", id, err)
	}
	if info.PublishedAt, err = database.ParseTime(publishedAt); err != nil {
		return info, nil, fmt.Errorf("invalid published_at %q: %w", publishedAt, err)
	}

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT player, elo_hard, elo_clay, elo_grass, elo_overall, matches_played, last_updated
		FROM player_ratings
		WHERE snapshot_id = ?
		ORDER BY elo_overall DESC, player ASC
	`, id)
	if err != nil {
		return info, nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.PlayerRating
	for rows.Next() {
		var (
			p           models.PlayerRating
			lastUpdated string
		)
		if err := rows.Scan(&p.Player, &p.EloHard, &p.EloClay, &p.EloGrass, &p.EloOverall, &p.MatchesPlayed, &lastUpdated); err != nil {
			return info, nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		if p.LastUpdated, err = database.ParseTime(lastUpdated); err != nil {
			return info, nil, fmt.Errorf("invalid last_updated for %s: %w", p.Player, err)
		}
		ratings = append(ratings, p)
	}
	return info, ratings, rows.Err()
}
