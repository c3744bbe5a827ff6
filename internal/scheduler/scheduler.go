package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/rating"
	"github.com/yourusername/tennis-edge/internal/service"
)

// Runner is the work the scheduler triggers
type Runner interface {
	Rebuild(ctx context.Context) (*service.RebuildResult, error)
	Analyze(ctx context.Context) (*service.AnalysisResult, error)
}

// Scheduler runs rating rebuilds and analysis cycles on cron expressions
type Scheduler struct {
	cron            *cron.Cron
	runner          Runner
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	rebuildTimeout  time.Duration
	analysisTimeout time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(runner Runner, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		runner:          runner,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		rebuildTimeout:  30 * time.Minute,
		analysisTimeout: 2 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRebuild schedules a full rating rebuild
func (s *Scheduler) ScheduleRebuild(cronExpression string) error {
	return s.schedule("rebuild", cronExpression, s.RunRebuild)
}

// ScheduleAnalysis schedules an odds fetch and value-bet analysis
func (s *Scheduler) ScheduleAnalysis(cronExpression string) error {
	return s.schedule("analysis", cronExpression, s.RunAnalysis)
}

func (s *Scheduler) schedule(job, cronExpression string, run func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, run)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", job, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  job,
		"cron": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// RunRebuild executes one rebuild. A rebuild already in flight is logged and
// skipped.
func (s *Scheduler) RunRebuild() {
	ctx, cancel := context.WithTimeout(context.Background(), s.rebuildTimeout)
	defer cancel()

	res, err := s.runner.Rebuild(ctx)
	switch {
	case errors.Is(err, rating.ErrRebuildInProgress):
		s.logger.Warn("Skipping scheduled rebuild, another rebuild is in progress")
	case err != nil && res == nil:
		s.logger.WithError(err).Error("Scheduled rebuild failed")
	case err != nil:
		s.logger.WithError(err).WithField("snapshot_id", res.Snapshot.SnapshotID.String()).
			Warn("Scheduled rebuild published but export failed")
	default:
		s.logger.WithFields(logrus.Fields{
			"snapshot_id": res.Snapshot.SnapshotID.String(),
			"players":     res.Snapshot.Players,
			"duration":    res.Duration.String(),
		}).Info("Scheduled rebuild completed")
	}
}

// RunAnalysis executes one analysis cycle
func (s *Scheduler) RunAnalysis() {
	ctx, cancel := context.WithTimeout(context.Background(), s.analysisTimeout)
	defer cancel()

	res, err := s.runner.Analyze(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled analysis failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"snapshot_id": res.SnapshotID.String(),
		"bets":        len(res.Bets),
		"total_stake": res.Summary.TotalStake,
	}).Info("Scheduled analysis completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs up to the graceful timeout and stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
