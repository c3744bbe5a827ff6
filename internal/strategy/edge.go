package strategy

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/market"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/names"
	"github.com/yourusername/tennis-edge/internal/rating"
)

// EdgeEvaluator prices both sides of a live match against a rating snapshot
type EdgeEvaluator struct {
	resolver *names.Resolver
	sizer    StakeSizer
	logger   *logrus.Logger
	now      func() time.Time
}

// NewEdgeEvaluator creates an evaluator; a nil logger discards output
func NewEdgeEvaluator(resolver *names.Resolver, sizer StakeSizer, logger *logrus.Logger) *EdgeEvaluator {
	if resolver == nil {
		resolver = names.NewResolver(names.DefaultAcceptanceThreshold)
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &EdgeEvaluator{resolver: resolver, sizer: sizer, logger: logger, now: time.Now}
}

// Evaluate returns the ValueBet for player 1 and player 2 of match, in that
// order. Either name failing to resolve skips the whole match.
func (e *EdgeEvaluator) Evaluate(snap *rating.Snapshot, match models.LiveMatch, bankroll float64) ([2]models.ValueBet, error) {
	if snap == nil {
		return [2]models.ValueBet{}, models.ErrNoSnapshot
	}
	return e.evaluate(snap, names.NewIndex(snap.Names()), match, bankroll)
}

func (e *EdgeEvaluator) evaluate(snap *rating.Snapshot, idx *names.Index, match models.LiveMatch, bankroll float64) ([2]models.ValueBet, error) {
	var bets [2]models.ValueBet

	if err := match.Validate(); err != nil {
		return bets, err
	}

	resA, err := e.resolver.Resolve(match.Player1, idx)
	if err != nil {
		return bets, fmt.Errorf("player 1: %w", err)
	}
	resB, err := e.resolver.Resolve(match.Player2, idx)
	if err != nil {
		return bets, fmt.Errorf("player 2: %w", err)
	}
	if resA.Name == resB.Name {
		return bets, fmt.Errorf("%w: %q and %q both resolve to %s",
			models.ErrAmbiguousNameMatch, match.Player1, match.Player2, resA.Name)
	}

	ratingA, _ := snap.Get(resA.Name)
	ratingB, _ := snap.Get(resB.Name)
	eloA := ratingA.SurfaceRating(match.Surface)
	eloB := ratingB.SurfaceRating(match.Surface)

	fairA := rating.ExpectedScore(eloA, eloB)
	fairB := 1 - fairA

	marketA, marketB, err := market.Devig(match.Odds1, match.Odds2)
	if err != nil {
		return bets, err
	}

	confidence := Confidence(match, eloA, eloB)
	createdAt := e.now().UTC()

	sides := [2]struct {
		side     models.BetSide
		player   string
		opponent string
		odds     float64
		fair     float64
		market   float64
	}{
		{models.SidePlayer1, resA.Name, resB.Name, match.Odds1, fairA, marketA},
		{models.SidePlayer2, resB.Name, resA.Name, match.Odds2, fairB, marketB},
	}

	for i, s := range sides {
		fraction, err := e.sizer.Fraction(s.fair, s.odds)
		if err != nil {
			return [2]models.ValueBet{}, err
		}
		stake, err := e.sizer.Size(s.fair, s.odds, bankroll)
		if err != nil {
			return [2]models.ValueBet{}, err
		}
		bets[i] = models.ValueBet{
			ID:                uuid.New(),
			Match:             match,
			Side:              s.side,
			Player:            s.player,
			Opponent:          s.opponent,
			Odds:              s.odds,
			FairProbability:   s.fair,
			MarketProbability: s.market,
			Edge:              s.fair - s.market,
			KellyFraction:     fraction,
			RecommendedStake:  stake,
			ConfidenceScore:   confidence,
			SnapshotID:        snap.ID(),
			CreatedAt:         createdAt,
		}
	}

	return bets, nil
}

// Qualifies reports whether bet clears minValue. A zero threshold lets
// every evaluated side through.
func Qualifies(bet models.ValueBet, minValue float64) bool {
	if minValue == 0 {
		return true
	}
	return bet.Edge >= minValue
}

// EvaluateAll prices every match and returns the qualifying sides ordered by
// edge descending, then match ID and side. Matches that cannot be priced are
// counted in the diagnostics and skipped.
func (e *EdgeEvaluator) EvaluateAll(snap *rating.Snapshot, matches []models.LiveMatch, minValue, bankroll float64) ([]models.ValueBet, models.Diagnostics, error) {
	diag := models.NewDiagnostics(models.DefaultSampleLimit)
	if snap == nil {
		return nil, *diag, models.ErrNoSnapshot
	}

	idx := names.NewIndex(snap.Names())
	var out []models.ValueBet
	for i, m := range matches {
		bets, err := e.evaluate(snap, idx, m, bankroll)
		if err != nil {
			diag.RecordSkip(i, m.String(), err)
			e.logger.WithFields(logrus.Fields{
				"match":  m.String(),
				"reason": models.SkipReason(err),
			}).Debug("Match skipped")
			continue
		}
		diag.RecordSuccess()
		for _, b := range bets {
			if Qualifies(b, minValue) {
				out = append(out, b)
			}
		}
	}

	SortByEdge(out)

	e.logger.WithFields(logrus.Fields{
		"matches":    len(matches),
		"priced":     diag.Succeeded,
		"skipped":    diag.Skipped,
		"value_bets": len(out),
		"min_value":  minValue,
	}).Info("Match analysis complete")

	return out, *diag, nil
}

// SortByEdge orders bets by edge descending with a total tie-break
func SortByEdge(bets []models.ValueBet) {
	sort.SliceStable(bets, func(i, j int) bool {
		if bets[i].Edge != bets[j].Edge {
			return bets[i].Edge > bets[j].Edge
		}
		if bets[i].Match.ID != bets[j].Match.ID {
			return bets[i].Match.ID.String() < bets[j].Match.ID.String()
		}
		return bets[i].Side < bets[j].Side
	})
}
