package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

// SQLiteValueBetRepository implements ValueBetRepository on the embedded store
type SQLiteValueBetRepository struct {
	db *database.SQLiteDB
}

// NewSQLiteValueBetRepository creates a new value-bet repository
func NewSQLiteValueBetRepository(db *database.SQLiteDB) ValueBetRepository {
	return &SQLiteValueBetRepository{db: db}
}

// SaveBatch inserts bets in one transaction. Stakes are stored as cent-rounded decimals.
func (r *SQLiteValueBetRepository) SaveBatch(ctx context.Context, strategy string, bets []models.ValueBet) error {
	if len(bets) == 0 {
		return nil
	}
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO value_bets (id, snapshot_id, strategy, match_id, player1, player2, tournament, surface, start_time,
			                        side, player, opponent, odds, fair_probability, market_probability, edge,
			                        kelly_fraction, recommended_stake, confidence_score, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare value bet insert: %w", err)
		}
		defer stmt.Close()

		for _, b := range bets {
			_, err := stmt.ExecContext(ctx,
				b.ID.String(), b.SnapshotID.String(), strategy, b.Match.ID.String(), b.Match.Player1, b.Match.Player2,
				b.Match.Tournament, string(b.Match.Surface), b.Match.StartTime, int(b.Side), b.Player, b.Opponent,
				b.Odds, b.FairProbability, b.MarketProbability, b.Edge, b.KellyFraction,
				b.StakeDecimal().StringFixed(2), b.ConfidenceScore, database.FormatTime(b.CreatedAt),
			)
			if err != nil {
				return fmt.Errorf("failed to insert value bet %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

// ListSince returns bets created at or after since, newest first
func (r *SQLiteValueBetRepository) ListSince(ctx context.Context, since time.Time) ([]StoredValueBet, error) {
	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, snapshot_id, strategy, match_id, player1, player2, tournament, surface, start_time,
		       side, player, opponent, odds, fair_probability, market_probability, edge,
		       kelly_fraction, recommended_stake, confidence_score, created_at
		FROM value_bets
		WHERE created_at >= ?
		ORDER BY created_at DESC, edge DESC
	`, database.FormatTime(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query value bets: %w", err)
	}
	defer rows.Close()

	var bets []StoredValueBet
	for rows.Next() {
		var (
			b                         StoredValueBet
			id, snapshotID, matchID   string
			surface, stake, createdAt string
			side                      int
		)
		err := rows.Scan(
			&id, &snapshotID, &b.Strategy, &matchID, &b.Match.Player1, &b.Match.Player2,
			&b.Match.Tournament, &surface, &b.Match.StartTime, &side, &b.Player, &b.Opponent, &b.Odds,
			&b.FairProbability, &b.MarketProbability, &b.Edge, &b.KellyFraction, &stake,
			&b.ConfidenceScore, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan value bet: %w", err)
		}
		if err := decodeSQLiteBet(&b, id, snapshotID, matchID, surface, stake, createdAt, side); err != nil {
			return nil, err
		}
		bets = append(bets, b)
	}
	return bets, rows.Err()
}

func decodeSQLiteBet(b *StoredValueBet, id, snapshotID, matchID, surface, stake, createdAt string, side int) error {
	var err error
	if b.ID, err = uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid value bet id %q: %w", id, err)
	}
	if b.SnapshotID, err = uuid.Parse(snapshotID); err != nil {
		return fmt.Errorf("invalid snapshot id %q: %w", snapshotID, err)
	}
	if b.Match.ID, err = uuid.Parse(matchID); err != nil {
		return fmt.Errorf("invalid match id %q: %w", matchID, err)
	}
	amount, err := decimal.NewFromString(stake)
	if err != nil {
		return fmt.Errorf("invalid stake %q: %w", stake, err)
	}
	b.RecommendedStake = amount.InexactFloat64()
	if b.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	b.Match.Surface = models.Surface(surface)
	b.Side = models.BetSide(side)
	return nil
}
