package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

var valueBetColumns = []string{
	"id", "snapshot_id", "strategy", "match_id", "player1", "player2", "tournament", "surface", "start_time",
	"side", "player", "opponent", "odds", "fair_probability", "market_probability", "edge",
	"kelly_fraction", "recommended_stake", "confidence_score", "created_at",
}

// PostgresValueBetRepository implements ValueBetRepository for PostgreSQL
type PostgresValueBetRepository struct {
	db *database.PostgresDB
}

// NewPostgresValueBetRepository creates a new value-bet repository
func NewPostgresValueBetRepository(db *database.PostgresDB) ValueBetRepository {
	return &PostgresValueBetRepository{db: db}
}

// SaveBatch inserts bets using COPY
func (r *PostgresValueBetRepository) SaveBatch(ctx context.Context, strategy string, bets []models.ValueBet) error {
	if len(bets) == 0 {
		return nil
	}

	source := make([][]interface{}, len(bets))
	for i, b := range bets {
		source[i] = []interface{}{
			b.ID, b.SnapshotID, strategy, b.Match.ID, b.Match.Player1, b.Match.Player2, b.Match.Tournament,
			string(b.Match.Surface), b.Match.StartTime, int16(b.Side), b.Player, b.Opponent, b.Odds,
			b.FairProbability, b.MarketProbability, b.Edge, b.KellyFraction,
			b.StakeDecimal().InexactFloat64(), b.ConfidenceScore, b.CreatedAt,
		}
	}

	count, err := r.db.Pool().CopyFrom(ctx, pgx.Identifier{"value_bets"}, valueBetColumns, pgx.CopyFromRows(source))
	if err != nil {
		return fmt.Errorf("failed to batch insert value bets: %w", err)
	}
	if count != int64(len(bets)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(bets))
	}
	return nil
}

// ListSince returns bets created at or after since, newest first
func (r *PostgresValueBetRepository) ListSince(ctx context.Context, since time.Time) ([]StoredValueBet, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT id, snapshot_id, strategy, match_id, player1, player2, tournament, surface, start_time,
		       side, player, opponent, odds, fair_probability, market_probability, edge,
		       kelly_fraction, recommended_stake, confidence_score, created_at
		FROM value_bets
		WHERE created_at >= $1
		ORDER BY created_at DESC, edge DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query value bets: %w", err)
	}
	defer rows.Close()

	var bets []StoredValueBet
	for rows.Next() {
		var (
			b       StoredValueBet
			surface string
			side    int16
		)
		err := rows.Scan(
			&b.ID, &b.SnapshotID, &b.Strategy, &b.Match.ID, &b.Match.Player1, &b.Match.Player2,
			&b.Match.Tournament, &surface, &b.Match.StartTime, &side, &b.Player, &b.Opponent, &b.Odds,
			&b.FairProbability, &b.MarketProbability, &b.Edge, &b.KellyFraction, &b.RecommendedStake,
			&b.ConfidenceScore, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan value bet: %w", err)
		}
		b.Match.Surface = models.Surface(surface)
		b.Side = models.BetSide(side)
		bets = append(bets, b)
	}
	return bets, rows.Err()
}
