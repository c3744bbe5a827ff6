// Package backtest measures how well the rating model would have predicted
// historical results. Each match is scored with the ratings as they stood
// before it was played, then applied, so no prediction sees its own outcome.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/rating"
)

// Prediction is the pre-match probability assigned to the eventual winner
type Prediction struct {
	Date          time.Time      `json:"date"`
	Surface       models.Surface `json:"surface"`
	Winner        string         `json:"winner"`
	Loser         string         `json:"loser"`
	WinnerElo     float64        `json:"winner_elo"`
	LoserElo      float64        `json:"loser_elo"`
	WinnerProb    float64        `json:"winner_prob"`
	MinPriorMatch int            `json:"min_prior_matches"`
}

// Favourite returns the favourite's probability and whether the favourite won
func (p Prediction) Favourite() (float64, bool) {
	if p.WinnerProb >= 0.5 {
		return p.WinnerProb, true
	}
	return 1 - p.WinnerProb, false
}

// Result is the outcome of one backtest run
type Result struct {
	Config      Config             `json:"config"`
	Overall     Metrics            `json:"overall"`
	BySurface   map[string]Metrics `json:"by_surface"`
	Windows     []Window           `json:"windows"`
	Calibration []CalibrationBin   `json:"calibration"`
	Excluded    int                `json:"excluded"`
	Diagnostics models.Diagnostics `json:"diagnostics"`
	Duration    time.Duration      `json:"duration"`
}

// Engine replays history through a rating engine and scores predictions
type Engine struct {
	ratings *rating.Engine
	logger  *logrus.Logger
}

// NewEngine creates a backtest engine
func NewEngine(ratings *rating.Engine, logger *logrus.Logger) *Engine {
	return &Engine{ratings: ratings, logger: logger}
}

// Run replays matches and scores every prediction cfg selects
func (e *Engine) Run(ctx context.Context, matches []models.MatchResult, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	base := e.ratings.Config().BaseRating
	excluded := 0
	var predictions []Prediction

	observe := func(b *rating.Builder, m models.MatchResult, winner, loser string) {
		if !cfg.scores(m.Date) {
			return
		}
		w, wok := b.Lookup(winner)
		l, lok := b.Lookup(loser)
		rw, rl := base, base
		if wok {
			rw = w.SurfaceRating(m.Surface)
		}
		if lok {
			rl = l.SurfaceRating(m.Surface)
		}
		prior := w.MatchesPlayed
		if l.MatchesPlayed < prior {
			prior = l.MatchesPlayed
		}
		if prior < cfg.MinMatches {
			excluded++
			return
		}
		predictions = append(predictions, Prediction{
			Date:          m.Date,
			Surface:       m.Surface,
			Winner:        winner,
			Loser:         loser,
			WinnerElo:     rw,
			LoserElo:      rl,
			WinnerProb:    rating.ExpectedScore(rw, rl),
			MinPriorMatch: prior,
		})
	}

	_, diag, err := e.ratings.Replay(ctx, matches, observe)
	if err != nil {
		return nil, fmt.Errorf("backtest replay failed: %w", err)
	}

	result := &Result{
		Config:      cfg,
		Overall:     CalculateMetrics(predictions),
		BySurface:   make(map[string]Metrics, len(models.Surfaces)),
		Windows:     YearlyWindows(predictions),
		Calibration: Calibrate(predictions, cfg.Bins),
		Excluded:    excluded,
		Diagnostics: diag,
		Duration:    time.Since(start),
	}
	for _, s := range models.Surfaces {
		var subset []Prediction
		for _, p := range predictions {
			if p.Surface == s {
				subset = append(subset, p)
			}
		}
		if len(subset) > 0 {
			result.BySurface[s.String()] = CalculateMetrics(subset)
		}
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"predictions": result.Overall.Predictions,
			"excluded":    excluded,
			"accuracy":    result.Overall.Accuracy,
			"brier":       result.Overall.BrierScore,
			"log_loss":    result.Overall.LogLoss,
			"duration_ms": result.Duration.Milliseconds(),
		}).Info("Backtest completed")
	}

	return result, nil
}
