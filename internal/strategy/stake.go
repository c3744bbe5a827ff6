package strategy

import (
	"fmt"
	"math"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Stake sizing defaults
const (
	DefaultKellyFraction = 0.25
	DefaultMaxFraction   = 0.05
)

// StakeSizer converts a probability and decimal odds into a bankroll
// allocation using fractional Kelly with a hard ceiling. It holds no state.
type StakeSizer struct {
	KellyFraction float64
	MaxFraction   float64
}

// NewStakeSizer creates a sizer; non-positive arguments select the defaults
func NewStakeSizer(kellyFraction, maxFraction float64) StakeSizer {
	if kellyFraction <= 0 {
		kellyFraction = DefaultKellyFraction
	}
	if maxFraction <= 0 {
		maxFraction = DefaultMaxFraction
	}
	return StakeSizer{KellyFraction: kellyFraction, MaxFraction: maxFraction}
}

// Fraction returns the fractional Kelly share of bankroll before the cap.
// A negative full Kelly is clamped to zero.
func (s StakeSizer) Fraction(probability, odds float64) (float64, error) {
	if !models.ValidOdds(odds) {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidOdds, odds)
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return 0, fmt.Errorf("%w: probability %v outside [0,1]", models.ErrInvalidRecord, probability)
	}

	b := odds - 1.0
	q := 1.0 - probability
	kelly := (probability*b - q) / b
	if kelly <= 0 {
		return 0, nil
	}
	return kelly * s.KellyFraction, nil
}

// Size returns the stake for bankroll, capped at MaxFraction of it
func (s StakeSizer) Size(probability, odds, bankroll float64) (float64, error) {
	if math.IsNaN(bankroll) || bankroll < 0 {
		return 0, fmt.Errorf("%w: bankroll %v", models.ErrInvalidRecord, bankroll)
	}
	f, err := s.Fraction(probability, odds)
	if err != nil {
		return 0, err
	}
	return bankroll * math.Min(f, s.MaxFraction), nil
}
