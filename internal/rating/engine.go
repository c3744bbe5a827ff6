// Package rating maintains per-surface Elo ratings. An Engine replays a
// chronological match history into a Builder, the Builder is frozen into an
// immutable Snapshot, and a Store publishes snapshots to concurrent readers.
package rating

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/names"
)

// DefaultBaseRating is the rating every new player starts from
const DefaultBaseRating = 1500.0

// Config holds engine parameters
type Config struct {
	BaseRating    float64
	KFactor       KFactor
	Weights       models.SurfaceWeights
	SampleLimit   int
	SortUnordered bool
}

// DefaultConfig returns base 1500, adaptive K=32 and the 0.5/0.3/0.2 blend
func DefaultConfig() Config {
	return Config{
		BaseRating:  DefaultBaseRating,
		KFactor:     DefaultKFactor(),
		Weights:     models.DefaultSurfaceWeights(),
		SampleLimit: models.DefaultSampleLimit,
	}
}

// Engine replays match results into ratings
type Engine struct {
	cfg    Config
	logger *logrus.Logger
	now    func() time.Time
}

// NewEngine creates an engine; a nil logger discards output
func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Engine{cfg: cfg, logger: logger, now: time.Now}
}

// Config returns the engine parameters
func (e *Engine) Config() Config {
	return e.cfg
}

// ExpectedScore is the probability that a player rated ra beats one rated rb
func ExpectedScore(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// Observer sees each valid match, with canonical player names, before its
// rating update is applied to b
type Observer func(b *Builder, m models.MatchResult, winner, loser string)

// Build replays matches into a fresh working set and freezes it. The input
// must be sorted ascending by date unless SortUnordered is set; ordering is
// checked before any rating is touched. Bad records are skipped and counted
// in the returned diagnostics.
func (e *Engine) Build(ctx context.Context, matches []models.MatchResult) (*Snapshot, models.Diagnostics, error) {
	start := time.Now()
	b, diag, err := e.Replay(ctx, matches, nil)
	if err != nil {
		return nil, diag, err
	}

	snap := b.Freeze(e.now())
	e.logger.WithFields(logrus.Fields{
		"matches_applied": snap.MatchesApplied(),
		"matches_skipped": diag.Skipped,
		"players":         snap.Len(),
		"last_match":      snap.LastMatchDate().Format("2006-01-02"),
		"duration_ms":     time.Since(start).Milliseconds(),
	}).Info("Rating snapshot built")

	return snap, diag, nil
}

// Replay applies matches to a fresh working set in date order, calling
// observe (if non-nil) ahead of every update. It fails like Build on empty,
// unordered or entirely invalid input.
func (e *Engine) Replay(ctx context.Context, matches []models.MatchResult, observe Observer) (*Builder, models.Diagnostics, error) {
	diag := models.NewDiagnostics(e.cfg.SampleLimit)
	if len(matches) == 0 {
		return nil, *diag, models.ErrEmptyHistorySource
	}

	ordered, err := e.chronological(matches)
	if err != nil {
		return nil, *diag, err
	}

	b := NewBuilder(e.cfg.BaseRating, e.cfg.Weights)
	for i, m := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, *diag, fmt.Errorf("rebuild interrupted after %d matches: %w", i, err)
		}
		winner, loser, err := checkRecord(m)
		if err == nil {
			if observe != nil {
				observe(b, m, winner, loser)
			}
			err = e.update(b, m, winner, loser)
		}
		if err != nil {
			diag.RecordSkip(i, m.String(), err)
			continue
		}
		diag.RecordSuccess()
	}

	if diag.Succeeded == 0 {
		return nil, *diag, fmt.Errorf("%w: all %d records were skipped", models.ErrEmptyHistorySource, diag.Processed)
	}
	return b, *diag, nil
}

func (e *Engine) chronological(matches []models.MatchResult) ([]models.MatchResult, error) {
	for i := 1; i < len(matches); i++ {
		if !matches[i].Date.Before(matches[i-1].Date) {
			continue
		}
		if !e.cfg.SortUnordered {
			return nil, fmt.Errorf("%w: record %d (%s) precedes record %d (%s)",
				models.ErrNonChronologicalInput,
				i, matches[i].Date.Format("2006-01-02"),
				i-1, matches[i-1].Date.Format("2006-01-02"))
		}
		sorted := make([]models.MatchResult, len(matches))
		copy(sorted, matches)
		sort.SliceStable(sorted, func(a, b int) bool {
			return sorted[a].Date.Before(sorted[b].Date)
		})
		e.logger.WithField("matches", len(matches)).Warn("Match history out of order, sorted by date")
		return sorted, nil
	}
	return matches, nil
}

// Apply performs a single Elo update on the builder. Invalid records return
// an error and leave the builder untouched.
func (e *Engine) Apply(b *Builder, m models.MatchResult) error {
	winner, loser, err := checkRecord(m)
	if err != nil {
		return err
	}
	return e.update(b, m, winner, loser)
}

// checkRecord validates m and returns the canonical winner and loser names
func checkRecord(m models.MatchResult) (string, string, error) {
	if !m.Surface.IsValid() {
		return "", "", fmt.Errorf("%w: %q", models.ErrInvalidSurface, string(m.Surface))
	}
	if m.Date.IsZero() {
		return "", "", fmt.Errorf("%w: missing date", models.ErrInvalidRecord)
	}
	winner := names.Canonicalize(m.Winner)
	loser := names.Canonicalize(m.Loser)
	if winner == "" || loser == "" {
		return "", "", fmt.Errorf("%w: empty player name", models.ErrInvalidRecord)
	}
	if winner == loser {
		return "", "", fmt.Errorf("%w: %s cannot play themself", models.ErrInvalidRecord, winner)
	}
	return winner, loser, nil
}

func (e *Engine) update(b *Builder, m models.MatchResult, winner, loser string) error {
	w := b.Player(winner, m.Date)
	l := b.Player(loser, m.Date)

	rw := w.SurfaceRating(m.Surface)
	rl := l.SurfaceRating(m.Surface)
	expected := ExpectedScore(rw, rl)
	kw := e.cfg.KFactor.For(w.MatchesPlayed, rw)
	kl := e.cfg.KFactor.For(l.MatchesPlayed, rl)

	if err := w.SetSurfaceRating(m.Surface, rw+kw*(1-expected), e.cfg.Weights); err != nil {
		return err
	}
	if err := l.SetSurfaceRating(m.Surface, rl-kl*(1-expected), e.cfg.Weights); err != nil {
		return err
	}

	w.MatchesPlayed++
	l.MatchesPlayed++
	w.LastUpdated = m.Date
	l.LastUpdated = m.Date
	b.markApplied(m.Date)
	return nil
}
