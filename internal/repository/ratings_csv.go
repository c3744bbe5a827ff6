package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yourusername/tennis-edge/internal/models"
)

// RatingsCSVHeader is the column order of the rating export
var RatingsCSVHeader = []string{
	"player", "elo_hard", "elo_clay", "elo_grass", "elo_overall", "matches_played", "last_updated",
}

// WriteRatingsCSV writes rows with RatingsCSVHeader. Ratings keep one decimal
// place and dates are written as YYYY-MM-DD.
func WriteRatingsCSV(w io.Writer, rows []models.PlayerRating) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RatingsCSVHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range rows {
		record := []string{
			p.Player,
			formatRating(p.EloHard),
			formatRating(p.EloClay),
			formatRating(p.EloGrass),
			formatRating(p.EloOverall),
			strconv.Itoa(p.MatchesPlayed),
			p.LastUpdated.Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write rating for %s: %w", p.Player, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportRatingsCSV writes rows to path via a temporary file and rename
func ExportRatingsCSV(path string, rows []models.PlayerRating) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ratings-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteRatingsCSV(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
