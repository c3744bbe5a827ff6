package backtest

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/rating"
)

var day0 = time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC)

func match(winner, loser string, surface models.Surface, day int) models.MatchResult {
	return models.MatchResult{Winner: winner, Loser: loser, Surface: surface, Date: day0.AddDate(0, 0, day)}
}

// Alcaraz beats Sinner on consecutive days either side of new year
func rivalry(n int) []models.MatchResult {
	out := make([]models.MatchResult, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, match("Alcaraz C.", "Sinner J.", models.SurfaceHard, i))
	}
	return out
}

func newEngine() *Engine {
	return NewEngine(rating.NewEngine(rating.DefaultConfig(), logger.Discard()), logger.Discard())
}

func TestCalculateMetrics(t *testing.T) {
	preds := []Prediction{
		{Date: day0, WinnerProb: 0.8, WinnerElo: 1600, LoserElo: 1400},
		{Date: day0.AddDate(0, 0, 2), WinnerProb: 0.5, WinnerElo: 1500, LoserElo: 1500},
		{Date: day0.AddDate(0, 0, 1), WinnerProb: 0.2, WinnerElo: 1400, LoserElo: 1600},
	}

	m := CalculateMetrics(preds)
	assert.Equal(t, 3, m.Predictions)
	assert.InDelta(t, 1.5, m.Correct, 1e-9)
	assert.InDelta(t, 0.5, m.Accuracy, 1e-9)
	assert.InDelta(t, 0.31, m.BrierScore, 1e-9)
	assert.InDelta(t, 1-0.31/0.25, m.BrierSkill, 1e-9)
	assert.InDelta(t, -(math.Log(0.8)+math.Log(0.5)+math.Log(0.2))/3, m.LogLoss, 1e-9)
	assert.InDelta(t, 2.0/3, m.FavouriteWinRate, 1e-9)
	assert.Equal(t, day0, m.StartDate)
	assert.Equal(t, day0.AddDate(0, 0, 2), m.EndDate)
}

func TestCalculateMetricsEmpty(t *testing.T) {
	m := CalculateMetrics(nil)
	assert.Zero(t, m.Predictions)
	assert.Zero(t, m.Accuracy)
}

func TestCalculateMetricsCertainMiss(t *testing.T) {
	m := CalculateMetrics([]Prediction{{WinnerProb: 0}})
	assert.False(t, math.IsInf(m.LogLoss, 0))
	assert.InDelta(t, -math.Log(minProb), m.LogLoss, 1e-9)
}

func TestCalibrate(t *testing.T) {
	preds := []Prediction{
		{WinnerProb: 0.55},
		{WinnerProb: 0.25},
		{WinnerProb: 0.95},
		{WinnerProb: 1.0},
	}

	bins := Calibrate(preds, 5)
	require.Len(t, bins, 5)
	assert.InDelta(t, 0.5, bins[0].Lower, 1e-9)
	assert.InDelta(t, 1.0, bins[4].Upper, 1e-9)

	assert.Equal(t, 1, bins[0].Count)
	assert.InDelta(t, 1.0, bins[0].ObservedRate, 1e-9)

	assert.Equal(t, 1, bins[2].Count)
	assert.InDelta(t, 0.75, bins[2].MeanPredicted, 1e-9)
	assert.Zero(t, bins[2].ObservedRate)

	assert.Equal(t, 2, bins[4].Count)
	assert.InDelta(t, 0.975, bins[4].MeanPredicted, 1e-9)
	assert.Zero(t, bins[1].Count)
}

func TestYearlyWindows(t *testing.T) {
	preds := []Prediction{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), WinnerProb: 0.7},
		{Date: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), WinnerProb: 0.4},
		{Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), WinnerProb: 0.6},
	}

	windows := YearlyWindows(preds)
	require.Len(t, windows, 2)
	assert.Equal(t, "2023", windows[0].Label)
	assert.Equal(t, 1, windows[0].Metrics.Predictions)
	assert.Equal(t, "2024", windows[1].Label)
	assert.Equal(t, 2, windows[1].Metrics.Predictions)
	assert.InDelta(t, 0.5, CalculateConsistency(windows), 1e-9)
	assert.Zero(t, CalculateConsistency(nil))
}

func TestRunScoresPreMatchRatings(t *testing.T) {
	res, err := newEngine().Run(context.Background(), rivalry(6), Config{})
	require.NoError(t, err)

	// the opening match is a coin flip, every later one favours Alcaraz
	assert.Equal(t, 6, res.Overall.Predictions)
	assert.InDelta(t, 5.5, res.Overall.Correct, 1e-9)
	assert.Zero(t, res.Excluded)
	assert.Equal(t, 6, res.Diagnostics.Succeeded)
	assert.Equal(t, defaultBins, res.Config.Bins)
	assert.Len(t, res.Calibration, defaultBins)

	require.Contains(t, res.BySurface, "Hard")
	assert.NotContains(t, res.BySurface, "Clay")

	require.Len(t, res.Windows, 2)
	assert.Equal(t, "2023", res.Windows[0].Label)
	assert.Equal(t, 4, res.Windows[0].Metrics.Predictions)
	assert.Equal(t, "2024", res.Windows[1].Label)
}

func TestRunFilters(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		wantScored   int
		wantExcluded int
	}{
		{"min matches", Config{MinMatches: 2}, 4, 2},
		{"start date", Config{StartDate: day0.AddDate(0, 0, 4)}, 2, 0},
		{"end date", Config{EndDate: day0.AddDate(0, 0, 1)}, 2, 0},
		{"window and min matches", Config{StartDate: day0.AddDate(0, 0, 1), EndDate: day0.AddDate(0, 0, 3), MinMatches: 2}, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newEngine().Run(context.Background(), rivalry(6), tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScored, res.Overall.Predictions)
			assert.Equal(t, tt.wantExcluded, res.Excluded)
			// unscored matches still move the ratings
			assert.Equal(t, 6, res.Diagnostics.Succeeded)
		})
	}
}

func TestRunErrors(t *testing.T) {
	_, err := newEngine().Run(context.Background(), nil, Config{})
	assert.ErrorIs(t, err, models.ErrEmptyHistorySource)

	unordered := []models.MatchResult{
		match("Alcaraz C.", "Sinner J.", models.SurfaceHard, 3),
		match("Alcaraz C.", "Sinner J.", models.SurfaceHard, 1),
	}
	_, err = newEngine().Run(context.Background(), unordered, Config{})
	assert.ErrorIs(t, err, models.ErrNonChronologicalInput)

	_, err = newEngine().Run(context.Background(), rivalry(2), Config{Bins: 100})
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		min     int
		bins    int
		wantErr bool
	}{
		{"open", "", "", 0, 0, false},
		{"window", "2023-01-01", "2023-12-31", 10, 10, false},
		{"bad date", "01/01/2023", "", 0, 0, true},
		{"reversed", "2024-01-01", "2023-01-01", 0, 0, true},
		{"negative min", "", "", -1, 0, true},
		{"too many bins", "", "", 0, 51, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig(tt.start, tt.end, tt.min, tt.bins)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, cfg.Bins)
		})
	}
}

func TestReports(t *testing.T) {
	res, err := newEngine().Run(context.Background(), rivalry(6), Config{})
	require.NoError(t, err)

	report := GenerateConsoleReport(res)
	assert.Contains(t, report, "Accuracy: 91.67%")
	assert.Contains(t, report, "Hard")
	assert.Contains(t, report, "2024")

	path := filepath.Join(t.TempDir(), "out", "calibration.csv")
	require.NoError(t, GenerateCSVExport(res, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lower,upper,count,mean_predicted,observed_rate\n")
}
