package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

var testDay = time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)

func ratingRows() []models.PlayerRating {
	return []models.PlayerRating{
		{Player: "Sinner J.", EloHard: 1540.25, EloClay: 1500, EloGrass: 1500, EloOverall: 1520.125, MatchesPlayed: 3, LastUpdated: testDay},
		{Player: "Alcaraz C.", EloHard: 1500, EloClay: 1560, EloGrass: 1510, EloOverall: 1520.125, MatchesPlayed: 4, LastUpdated: testDay},
		{Player: "Ruud C.", EloHard: 1480, EloClay: 1490, EloGrass: 1470, EloOverall: 1481, MatchesPlayed: 2, LastUpdated: testDay.AddDate(0, 0, -3)},
	}
}

func valueBet(t *testing.T, edge float64, created time.Time) models.ValueBet {
	t.Helper()
	match, err := models.NewLiveMatch("Alcaraz C.", "Sinner J.", models.SurfaceClay, 2.1, 1.8, "Roland Garros", "2024-06-09T13:00:00")
	require.NoError(t, err)
	return models.ValueBet{
		ID:                uuid.New(),
		Match:             match,
		Side:              models.SidePlayer1,
		Player:            "Alcaraz C.",
		Opponent:          "Sinner J.",
		Odds:              2.1,
		FairProbability:   0.55,
		MarketProbability: 0.4615,
		Edge:              edge,
		KellyFraction:     0.0425,
		RecommendedStake:  42.499,
		ConfidenceScore:   0.8,
		SnapshotID:        uuid.New(),
		CreatedAt:         created,
	}
}

func TestSQLiteRatingRepositoryRoundTrip(t *testing.T) {
	repos := NewSQLiteRepositories(database.SetupTestSQLite(t))
	ctx := context.Background()

	_, _, err := repos.Ratings.List(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	older := SnapshotInfo{ID: uuid.New(), PublishedAt: testDay.Add(-time.Hour)}
	require.NoError(t, repos.Ratings.SaveAll(ctx, older, ratingRows()[:1]))

	latest := SnapshotInfo{ID: uuid.New(), PublishedAt: testDay}
	require.NoError(t, repos.Ratings.SaveAll(ctx, latest, ratingRows()))
	// Saving the same snapshot twice replaces it.
	require.NoError(t, repos.Ratings.SaveAll(ctx, latest, ratingRows()))

	info, rows, err := repos.Ratings.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, info.ID)
	assert.True(t, latest.PublishedAt.Equal(info.PublishedAt))
	assert.Equal(t, 3, info.Players)
	require.Len(t, rows, 3)

	assert.Equal(t, "Alcaraz C.", rows[0].Player, "ties on overall break by name")
	assert.Equal(t, "Sinner J.", rows[1].Player)
	assert.Equal(t, "Ruud C.", rows[2].Player)
	assert.Equal(t, 1540.25, rows[1].EloHard)
	assert.True(t, testDay.Equal(rows[1].LastUpdated))
}

func TestSQLiteValueBetRepository(t *testing.T) {
	repos := NewSQLiteRepositories(database.SetupTestSQLite(t))
	ctx := context.Background()

	require.NoError(t, repos.ValueBets.SaveBatch(ctx, "threshold", nil))

	old := valueBet(t, 0.2, testDay.Add(-48*time.Hour))
	recentLow := valueBet(t, 0.06, testDay.Add(time.Hour))
	recentHigh := valueBet(t, 0.12, testDay.Add(time.Hour))
	require.NoError(t, repos.ValueBets.SaveBatch(ctx, "threshold", []models.ValueBet{old, recentLow, recentHigh}))

	got, err := repos.ValueBets.ListSince(ctx, testDay)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, recentHigh.ID, got[0].ID)
	assert.Equal(t, recentLow.ID, got[1].ID)

	b := got[0]
	assert.Equal(t, "threshold", b.Strategy)
	assert.Equal(t, 42.5, b.RecommendedStake, "stake stored rounded to cents")
	assert.Equal(t, models.SurfaceClay, b.Match.Surface)
	assert.Equal(t, models.SidePlayer1, b.Side)
	assert.Equal(t, recentHigh.Match.ID, b.Match.ID)
	assert.Equal(t, recentHigh.SnapshotID, b.SnapshotID)
	assert.Equal(t, "Roland Garros", b.Match.Tournament)
	assert.True(t, recentHigh.CreatedAt.Equal(b.CreatedAt))
}

func TestSQLiteValueBetDuplicateRollsBack(t *testing.T) {
	repos := NewSQLiteRepositories(database.SetupTestSQLite(t))
	ctx := context.Background()

	bet := valueBet(t, 0.1, testDay)
	err := repos.ValueBets.SaveBatch(ctx, "all", []models.ValueBet{valueBet(t, 0.1, testDay), bet, bet})
	require.Error(t, err)

	got, err := repos.ValueBets.ListSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteRatingsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRatingsCSV(&buf, ratingRows()[:1]))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, RatingsCSVHeader, records[0])
	assert.Equal(t, []string{"Sinner J.", "1540.2", "1500.0", "1500.0", "1520.1", "3", "2024-06-09"}, records[1])
}

func TestExportRatingsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ratings.csv")
	require.NoError(t, ExportRatingsCSV(path, ratingRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestNewRepositories(t *testing.T) {
	ctx := context.Background()

	repos, err := NewRepositories(ctx, &config.Config{Storage: config.StorageConfig{Driver: "none"}}, nil)
	require.NoError(t, err)
	assert.Nil(t, repos.Ratings)
	assert.NoError(t, repos.Close())

	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "edge.db")}}
	repos, err = NewRepositories(ctx, cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, repos.Ratings)
	assert.NotNil(t, repos.ValueBets)
	assert.NoError(t, repos.Close())

	_, err = NewRepositories(ctx, &config.Config{Storage: config.StorageConfig{Driver: "mysql"}}, nil)
	assert.Error(t, err)
}
