// Package market turns bookmaker decimal odds into margin-free probabilities.
package market

import (
	"fmt"

	"github.com/yourusername/tennis-edge/internal/models"
)

// ImpliedProbability returns 1/odds
func ImpliedProbability(odds float64) (float64, error) {
	if !models.ValidOdds(odds) {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidOdds, odds)
	}
	return 1 / odds, nil
}

// Overround returns the bookmaker margin m = 1/odds1 + 1/odds2.
func Overround(odds1, odds2 float64) (float64, error) {
	i1, err := ImpliedProbability(odds1)
	if err != nil {
		return 0, err
	}
	i2, err := ImpliedProbability(odds2)
	if err != nil {
		return 0, err
	}
	return i1 + i2, nil
}

// Devig removes the margin from a two-way market by proportional
// normalisation. The returned probabilities sum to 1.
func Devig(odds1, odds2 float64) (p1, p2 float64, err error) {
	m, err := Overround(odds1, odds2)
	if err != nil {
		return 0, 0, err
	}
	p1 = (1 / odds1) / m
	return p1, 1 - p1, nil
}
