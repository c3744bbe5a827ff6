package datasource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/models"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"2024-03-05", false},
		{"05/03/2024", false},
		{"5/3/2024", false},
		{"20240305", false},
		{"2024-03-05 00:00:00", false},
		{"", true},
		{"March 5th", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidRecord)
				return
			}
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}
}

func TestParseHistoryCSV(t *testing.T) {
	input := strings.Join([]string{
		"ATP,Location,Tournament,Date,Surface,Winner,Loser",
		"1,Paris,Roland Garros,2024-06-01,Clay,Alcaraz C.,Sinner J.",
		"2,London,Wimbledon,2024-07-01,,Djokovic N.,Alcaraz C.",
		"3,Paris,Paris Masters,2024-11-01,Carpet,Sinner J.,Zverev A.",
		"4,Nowhere,Unknown Open,not-a-date,Hard,A B.,C D.",
		"5,Nowhere,Unknown Open,2024-08-01,Hard,,C D.",
		"6,Nowhere,Unknown Open,2024-08-02,Hard,Same P.,Same P.",
	}, "\n")

	diag := models.NewDiagnostics(10)
	matches, err := ParseHistoryCSV(strings.NewReader(input), "test.csv", diag)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, models.SurfaceClay, matches[0].Surface)
	assert.Equal(t, models.SurfaceGrass, matches[1].Surface, "blank surface detected from tournament")
	assert.Equal(t, models.SurfaceHard, matches[2].Surface, "carpet falls back to detection")
	assert.Equal(t, "Roland Garros", matches[0].Tournament)

	assert.Equal(t, 6, diag.Processed)
	assert.Equal(t, 3, diag.Skipped)
	assert.Equal(t, 3, diag.SkipsByReason["invalid_record"])
	require.Len(t, diag.Samples, 3)
	assert.Equal(t, "test.csv:5", diag.Samples[0].Record)
}

func TestParseHistoryCSVHeaderCaseAndOrder(t *testing.T) {
	input := "loser,WINNER,date\nSinner J.,Alcaraz C.,2024-04-10\n"
	diag := models.NewDiagnostics(5)
	matches, err := ParseHistoryCSV(strings.NewReader(input), "x", diag)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Alcaraz C.", matches[0].Winner)
	assert.Equal(t, "Sinner J.", matches[0].Loser)
	assert.Equal(t, models.SurfaceHard, matches[0].Surface)
}

func TestParseHistoryCSVMissingColumns(t *testing.T) {
	_, err := ParseHistoryCSV(strings.NewReader("Date,Winner\n2024-01-01,A\n"), "x", models.NewDiagnostics(5))
	assert.ErrorIs(t, err, models.ErrInvalidRecord)
}

func TestCSVHistorySourceLoadMatches(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "atp_2024.csv", "Date,Tournament,Winner,Loser\n2024-01-20,Australian Open,Sinner J.,Medvedev D.\n2024-01-10,Adelaide,B P.,C Q.\n")
	writeCSV(t, dir, "atp_2023.csv", "Date,Tournament,Winner,Loser\n2023-07-16,Wimbledon,Alcaraz C.,Djokovic N.\n2024-01-10,Brisbane,A P.,D Q.\n")

	src := NewCSVHistorySource([]string{filepath.Join(dir, "atp_*.csv")}, nil)
	assert.Equal(t, "csv_history", src.Name())

	matches, diag, err := src.LoadMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 4)
	assert.Equal(t, 4, diag.Succeeded)

	for i := 1; i < len(matches); i++ {
		assert.False(t, matches[i].Date.Before(matches[i-1].Date), "matches must be sorted by date")
	}
	// Same-day matches keep file order: atp_2023.csv sorts before atp_2024.csv.
	assert.Equal(t, "A P.", matches[1].Winner)
	assert.Equal(t, "B P.", matches[2].Winner)
}

func TestCSVHistorySourceEmpty(t *testing.T) {
	dir := t.TempDir()

	_, _, err := NewCSVHistorySource([]string{filepath.Join(dir, "*.csv")}, nil).LoadMatches(context.Background())
	assert.ErrorIs(t, err, models.ErrEmptyHistorySource)

	writeCSV(t, dir, "bad.csv", "Date,Winner,Loser\nnope,A,B\n")
	_, diag, err := NewCSVHistorySource([]string{filepath.Join(dir, "*.csv")}, nil).LoadMatches(context.Background())
	assert.ErrorIs(t, err, models.ErrEmptyHistorySource)
	assert.Equal(t, 1, diag.Skipped)
}

func TestCSVHistorySourceCancelled(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "Date,Winner,Loser\n2024-01-01,A B.,C D.\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewCSVHistorySource([]string{filepath.Join(dir, "*.csv")}, nil).LoadMatches(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
