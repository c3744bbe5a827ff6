package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetSide identifies which player of a LiveMatch a ValueBet backs
type BetSide int

const (
	SidePlayer1 BetSide = 1
	SidePlayer2 BetSide = 2
)

// ValueBet is the evaluation of one side of a LiveMatch
type ValueBet struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Match             LiveMatch `db:"-" json:"match"`
	Side              BetSide   `db:"side" json:"side"`
	Player            string    `db:"player" json:"player"`
	Opponent          string    `db:"opponent" json:"opponent"`
	Odds              float64   `db:"odds" json:"odds"`
	FairProbability   float64   `db:"fair_probability" json:"fair_probability"`
	MarketProbability float64   `db:"market_probability" json:"market_probability"`
	Edge              float64   `db:"edge" json:"edge"`
	KellyFraction     float64   `db:"kelly_fraction" json:"kelly_fraction"`
	RecommendedStake  float64   `db:"recommended_stake" json:"recommended_stake"`
	ConfidenceScore   float64   `db:"confidence_score" json:"confidence_score"`
	SnapshotID        uuid.UUID `db:"snapshot_id" json:"snapshot_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// ExpectedValue returns the expected profit of the recommended stake
func (v ValueBet) ExpectedValue() float64 {
	if v.RecommendedStake <= 0 {
		return 0
	}
	return v.RecommendedStake * (v.FairProbability*v.Odds - 1.0)
}

// StakeDecimal returns the recommended stake rounded to cents
func (v ValueBet) StakeDecimal() decimal.Decimal {
	return decimal.NewFromFloat(v.RecommendedStake).Round(2)
}

// PotentialReturn returns stake times odds rounded to cents
func (v ValueBet) PotentialReturn() decimal.Decimal {
	return v.StakeDecimal().Mul(decimal.NewFromFloat(v.Odds)).Round(2)
}
