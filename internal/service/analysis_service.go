package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/datasource"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/names"
	"github.com/yourusername/tennis-edge/internal/rating"
	"github.com/yourusername/tennis-edge/internal/repository"
	"github.com/yourusername/tennis-edge/internal/strategy"
)

// ErrNoHistorySource is returned by Rebuild when the service was built without a history source
var ErrNoHistorySource = errors.New("no history source configured")

// ErrNoOddsSource is returned by Analyze when the service was built without an odds source
var ErrNoOddsSource = errors.New("no odds source configured")

// BankrollProvider supplies the bankroll stakes are sized against
type BankrollProvider interface {
	Bankroll(ctx context.Context) (float64, error)
}

// StaticBankroll is a fixed bankroll, usually taken from configuration
type StaticBankroll float64

// Bankroll returns the fixed amount
func (b StaticBankroll) Bankroll(context.Context) (float64, error) {
	if b <= 0 {
		return 0, fmt.Errorf("bankroll must be positive, got %v", float64(b))
	}
	return float64(b), nil
}

// Broadcaster pushes results to connected dashboard clients
type Broadcaster interface {
	BroadcastValueBets(payload interface{})
	BroadcastSnapshot(payload interface{})
}

// SnapshotSummary describes a published snapshot
type SnapshotSummary struct {
	SnapshotID     uuid.UUID `json:"snapshot_id"`
	PublishedAt    time.Time `json:"published_at"`
	Players        int       `json:"players"`
	MatchesApplied int       `json:"matches_applied"`
	LastMatchDate  time.Time `json:"last_match_date"`
}

// RebuildResult is the outcome of a successful rebuild
type RebuildResult struct {
	Snapshot           SnapshotSummary    `json:"snapshot"`
	HistoryDiagnostics models.Diagnostics `json:"history_diagnostics"`
	Diagnostics        models.Diagnostics `json:"diagnostics"`
	Duration           time.Duration      `json:"duration"`
}

// AnalysisResult is the outcome of one analysis cycle
type AnalysisResult struct {
	SnapshotID       uuid.UUID                `json:"snapshot_id"`
	Strategy         string                   `json:"strategy"`
	Bankroll         float64                  `json:"bankroll"`
	Bets             []models.ValueBet        `json:"bets"`
	Summary          strategy.StrategySummary `json:"summary"`
	FetchDiagnostics models.Diagnostics       `json:"fetch_diagnostics"`
	Diagnostics      models.Diagnostics       `json:"diagnostics"`
	Duration         time.Duration            `json:"duration"`
}

// Options wires the collaborators of an AnalysisService
type Options struct {
	History        datasource.HistorySource
	Odds           datasource.OddsSource
	Store          *rating.Store
	Engine         *rating.Engine
	Evaluator      *strategy.EdgeEvaluator
	Selector       strategy.Selector
	Strategy       string
	MinValue       float64
	Bankroll       BankrollProvider
	Ratings        repository.RatingRepository
	ValueBets      repository.ValueBetRepository
	RatingsCSVPath string
	Broadcaster    Broadcaster
	Logger         *logrus.Logger
}

// AnalysisService runs rating rebuilds and value-bet analysis cycles
type AnalysisService struct {
	history        datasource.HistorySource
	odds           datasource.OddsSource
	store          *rating.Store
	engine         *rating.Engine
	evaluator      *strategy.EdgeEvaluator
	selector       strategy.Selector
	strategy       string
	minValue       float64
	bankroll       BankrollProvider
	ratings        repository.RatingRepository
	valueBets      repository.ValueBetRepository
	ratingsCSVPath string
	broadcaster    Broadcaster
	logger         *logrus.Logger
	audit          *logger.AuditLogger
	analysisLog    *logger.AnalysisLogger
}

// NewAnalysisService creates a service from explicit collaborators
func NewAnalysisService(opts Options) (*AnalysisService, error) {
	if opts.Store == nil {
		return nil, errors.New("rating store is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("rating engine is required")
	}
	if opts.Evaluator == nil {
		return nil, errors.New("edge evaluator is required")
	}
	if opts.Selector == nil {
		opts.Selector = strategy.ThresholdSelector{MinValue: opts.MinValue}
	}
	if opts.Strategy == "" {
		opts.Strategy = strategy.SelectorThreshold
	}
	if opts.Bankroll == nil {
		return nil, errors.New("bankroll provider is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	return &AnalysisService{
		history:        opts.History,
		odds:           opts.Odds,
		store:          opts.Store,
		engine:         opts.Engine,
		evaluator:      opts.Evaluator,
		selector:       opts.Selector,
		strategy:       opts.Strategy,
		minValue:       opts.MinValue,
		bankroll:       opts.Bankroll,
		ratings:        opts.Ratings,
		valueBets:      opts.ValueBets,
		ratingsCSVPath: opts.RatingsCSVPath,
		broadcaster:    opts.Broadcaster,
		logger:         opts.Logger,
		audit:          logger.NewAuditLogger(opts.Logger),
		analysisLog:    logger.NewAnalysisLogger(opts.Logger),
	}, nil
}

// NewFromConfig builds the engine, evaluator and selector described by cfg
// around the given store and adapters. Any adapter may be nil.
func NewFromConfig(cfg *config.Config, store *rating.Store, history datasource.HistorySource, odds datasource.OddsSource, repos *repository.Repositories, broadcaster Broadcaster, log *logrus.Logger) (*AnalysisService, error) {
	selector, err := strategy.NewSelector(cfg.Betting.Strategy, cfg.Betting.MinValueThreshold, cfg.Betting.TopPercent)
	if err != nil {
		return nil, fmt.Errorf("failed to build selector: %w", err)
	}

	sizer := strategy.NewStakeSizer(cfg.Betting.KellyFraction, cfg.Betting.MaxStakeFraction)
	evaluator := strategy.NewEdgeEvaluator(names.NewResolver(cfg.Resolver.AcceptanceThreshold), sizer, log)

	opts := Options{
		History:        history,
		Odds:           odds,
		Store:          store,
		Engine:         rating.NewEngine(cfg.Elo.EngineConfig(), log),
		Evaluator:      evaluator,
		Selector:       selector,
		Strategy:       cfg.Betting.Strategy,
		MinValue:       cfg.Betting.MinValueThreshold,
		Bankroll:       StaticBankroll(cfg.Betting.Bankroll),
		RatingsCSVPath: cfg.Storage.RatingsCSVPath,
		Broadcaster:    broadcaster,
		Logger:         log,
	}
	if repos != nil {
		opts.Ratings = repos.Ratings
		opts.ValueBets = repos.ValueBets
	}
	return NewAnalysisService(opts)
}

// Store returns the rating store the service publishes into
func (s *AnalysisService) Store() *rating.Store {
	return s.store
}

// Strategy returns the configured selection strategy name
func (s *AnalysisService) Strategy() string {
	return s.strategy
}

// Rebuild loads the full match history, replays it and publishes the
// resulting snapshot. On failure the previously published snapshot stays in
// place. Persistence and broadcast happen after publication; an export error
// is returned alongside the result.
func (s *AnalysisService) Rebuild(ctx context.Context) (*RebuildResult, error) {
	if s.history == nil {
		return nil, ErrNoHistorySource
	}
	start := time.Now()

	matches, historyDiag, err := s.history.LoadMatches(ctx)
	if err != nil {
		metrics.RecordRebuild(false, time.Since(start).Seconds())
		s.audit.LogRebuildRejected(rejectReason(err), err)
		return nil, fmt.Errorf("failed to load history from %s: %w", s.history.Name(), err)
	}
	metrics.RecordHistorySkipped(historyDiag.SkipsByReason)
	s.analysisLog.LogSkipSamples("history", historyDiag)

	snap, diag, err := s.store.RebuildFrom(ctx, s.engine, matches)
	if err != nil {
		if errors.Is(err, rating.ErrRebuildInProgress) {
			metrics.RecordRebuildSkipped()
		} else {
			metrics.RecordRebuild(false, time.Since(start).Seconds())
		}
		s.audit.LogRebuildRejected(rejectReason(err), err)
		return nil, fmt.Errorf("rating rebuild failed: %w", err)
	}

	duration := time.Since(start)
	metrics.RecordRebuild(true, duration.Seconds())
	metrics.RecordMatchesSkipped(diag.SkipsByReason)
	metrics.UpdateSnapshot(snap.Len(), snap.MatchesApplied(), float64(snap.PublishedAt().Unix()))

	s.audit.LogSnapshotPublished(snap.ID().String(), snap.Len(), snap.MatchesApplied(), diag.Skipped,
		snap.LastMatchDate(), snap.PublishedAt())
	s.analysisLog.LogRebuild(s.history.Name(), diag, float64(duration.Milliseconds()))
	s.analysisLog.LogSkipSamples("rebuild", diag)

	result := &RebuildResult{
		Snapshot:           summarize(snap),
		HistoryDiagnostics: historyDiag,
		Diagnostics:        diag,
		Duration:           duration,
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSnapshot(result.Snapshot)
	}

	if err := s.exportRatings(ctx, snap); err != nil {
		return result, err
	}
	return result, nil
}

func (s *AnalysisService) exportRatings(ctx context.Context, snap *rating.Snapshot) error {
	rows := snap.Ratings()

	if s.ratings != nil {
		info := repository.SnapshotInfo{ID: snap.ID(), PublishedAt: snap.PublishedAt(), Players: len(rows)}
		if err := s.ratings.SaveAll(ctx, info, rows); err != nil {
			s.logger.WithError(err).WithField("snapshot_id", snap.ID().String()).Error("Failed to persist ratings")
			return fmt.Errorf("failed to persist ratings: %w", err)
		}
	}

	if s.ratingsCSVPath != "" {
		if err := repository.ExportRatingsCSV(s.ratingsCSVPath, rows); err != nil {
			s.logger.WithError(err).WithField("path", s.ratingsCSVPath).Error("Failed to export ratings CSV")
			return fmt.Errorf("failed to export ratings csv: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"path":    s.ratingsCSVPath,
			"players": len(rows),
		}).Info("Ratings exported")
	}
	return nil
}

// WarmStart publishes the most recently persisted snapshot so analysis can
// run before the first rebuild completes. It is a no-op without a rating
// repository or when a snapshot is already published.
func (s *AnalysisService) WarmStart(ctx context.Context) (bool, error) {
	if s.ratings == nil || s.store.Ready() {
		return false, nil
	}

	info, rows, err := s.ratings.List(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load persisted ratings: %w", err)
	}

	snap := rating.NewSnapshot(rows, info.PublishedAt).WithID(info.ID)
	if err := s.store.Publish(snap); err != nil {
		return false, err
	}
	metrics.UpdateSnapshot(snap.Len(), snap.MatchesApplied(), float64(snap.PublishedAt().Unix()))

	s.logger.WithFields(logrus.Fields{
		"snapshot_id":  info.ID.String(),
		"players":      len(rows),
		"published_at": info.PublishedAt.Format(time.RFC3339),
	}).Info("Warm-started from persisted ratings")
	return true, nil
}

// Analyze prices every live match against the current snapshot and returns
// the bets picked by the configured selection strategy.
func (s *AnalysisService) Analyze(ctx context.Context) (*AnalysisResult, error) {
	start := time.Now()
	fail := func(err error) (*AnalysisResult, error) {
		metrics.RecordAnalysis(false, time.Since(start).Seconds())
		return nil, err
	}

	snap, err := s.store.Current()
	if err != nil {
		return fail(err)
	}
	if s.odds == nil {
		return fail(ErrNoOddsSource)
	}

	bankroll, err := s.bankroll.Bankroll(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to get bankroll: %w", err))
	}

	matches, fetchDiag, err := s.odds.FetchMatches(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch live matches from %s: %w", s.odds.Name(), err))
	}

	qualifying, diag, err := s.evaluator.EvaluateAll(snap, matches, s.minValue, bankroll)
	if err != nil {
		return fail(err)
	}
	metrics.RecordEvaluation(diag.Succeeded, diag.SkipsByReason)

	selected := s.selector.Select(qualifying)
	summary := strategy.Summarize(s.strategy, selected)

	for _, bet := range selected {
		metrics.RecordValueBet(s.strategy, bet.Match.Surface.String(), bet.Edge, bet.ConfidenceScore, bet.RecommendedStake)
		s.audit.LogValueBet(bet, s.strategy)
	}

	result := &AnalysisResult{
		SnapshotID:       snap.ID(),
		Strategy:         s.strategy,
		Bankroll:         bankroll,
		Bets:             selected,
		Summary:          summary,
		FetchDiagnostics: fetchDiag,
		Diagnostics:      diag,
	}

	if s.valueBets != nil && len(selected) > 0 {
		if err := s.valueBets.SaveBatch(ctx, s.strategy, selected); err != nil {
			return fail(fmt.Errorf("failed to persist value bets: %w", err))
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastValueBets(result)
	}

	result.Duration = time.Since(start)
	metrics.RecordAnalysis(true, result.Duration.Seconds())
	s.analysisLog.LogAnalysisCycle(snap.ID().String(), s.strategy, len(matches), diag.Succeeded, diag.Skipped,
		len(selected), float64(result.Duration.Milliseconds()))
	s.analysisLog.LogSkipSamples("fetch", fetchDiag)
	s.analysisLog.LogSkipSamples("evaluate", diag)

	return result, nil
}

// TopRatings returns the highest rated players of the current snapshot on
// surface, or by overall rating when surface is empty.
func (s *AnalysisService) TopRatings(surface models.Surface, limit int) (SnapshotSummary, []models.PlayerRating, error) {
	snap, err := s.store.Current()
	if err != nil {
		return SnapshotSummary{}, nil, err
	}
	return summarize(snap), snap.Top(surface, limit), nil
}

// RecentValueBets returns persisted recommendations created at or after since
func (s *AnalysisService) RecentValueBets(ctx context.Context, since time.Time) ([]repository.StoredValueBet, error) {
	if s.valueBets == nil {
		return nil, nil
	}
	return s.valueBets.ListSince(ctx, since)
}

func summarize(snap *rating.Snapshot) SnapshotSummary {
	return SnapshotSummary{
		SnapshotID:     snap.ID(),
		PublishedAt:    snap.PublishedAt(),
		Players:        snap.Len(),
		MatchesApplied: snap.MatchesApplied(),
		LastMatchDate:  snap.LastMatchDate(),
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, rating.ErrRebuildInProgress):
		return "rebuild_in_progress"
	case errors.Is(err, models.ErrEmptyHistorySource):
		return "empty_history"
	case errors.Is(err, models.ErrNonChronologicalInput):
		return "non_chronological"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
