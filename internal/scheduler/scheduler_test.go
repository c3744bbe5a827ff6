package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/rating"
	"github.com/yourusername/tennis-edge/internal/service"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Rebuild(ctx context.Context) (*service.RebuildResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*service.RebuildResult)
	return res, args.Error(1)
}

func (m *mockRunner) Analyze(ctx context.Context) (*service.AnalysisResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*service.AnalysisResult)
	return res, args.Error(1)
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := NewScheduler(new(mockRunner), logger.Discard())

	assert.Error(t, s.ScheduleRebuild("not a cron"))
	assert.Empty(t, s.Entries())
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(new(mockRunner), logger.Discard())
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(new(mockRunner), logger.Discard())
	require.NoError(t, s.ScheduleRebuild("0 6 * * *"))
	require.NoError(t, s.ScheduleAnalysis("*/15 * * * *"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Len(t, s.Entries(), 2)
	assert.False(t, s.GetNextRun().IsZero())

	assert.Error(t, s.Start(), "already running")
	assert.Error(t, s.ScheduleAnalysis("@every 1m"), "cannot schedule while running")

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
	require.NoError(t, s.Stop())
}

func TestRunRebuildOutcomes(t *testing.T) {
	tests := []struct {
		name string
		res  *service.RebuildResult
		err  error
	}{
		{"success", &service.RebuildResult{Snapshot: service.SnapshotSummary{SnapshotID: uuid.New(), Players: 3}}, nil},
		{"in progress", nil, rating.ErrRebuildInProgress},
		{"failure", nil, errors.New("boom")},
		{"export failure", &service.RebuildResult{Snapshot: service.SnapshotSummary{SnapshotID: uuid.New()}}, errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mockRunner)
			runner.On("Rebuild", mock.Anything).Return(tt.res, tt.err).Once()

			s := NewScheduler(runner, logger.Discard())
			s.RunRebuild()

			runner.AssertExpectations(t)
		})
	}
}

func TestRunAnalysis(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Analyze", mock.Anything).Return(&service.AnalysisResult{SnapshotID: uuid.New()}, nil).Once()
	runner.On("Analyze", mock.Anything).Return(nil, errors.New("no snapshot")).Once()

	s := NewScheduler(runner, logger.Discard())
	s.RunAnalysis()
	s.RunAnalysis()

	runner.AssertNumberOfCalls(t, "Analyze", 2)
}
