package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/surface"
)

const csvSourceName = "csv_history"

// dateLayouts are tried in order; day-first forms follow the tennis-data files.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"20060102",
}

// CSVHistorySource loads completed matches from tennis-data style CSV files.
// Required columns are Date, Winner and Loser; Tournament and Surface are
// optional. Header matching is case-insensitive and column order is free.
type CSVHistorySource struct {
	patterns    []string
	sampleLimit int
	logger      *logrus.Logger
}

// NewCSVHistorySource creates a loader over the given paths or glob patterns
func NewCSVHistorySource(patterns []string, log *logrus.Logger) *CSVHistorySource {
	if log == nil {
		log = logger.Discard()
	}
	return &CSVHistorySource{
		patterns:    patterns,
		sampleLimit: models.DefaultSampleLimit,
		logger:      log,
	}
}

// Name returns the source name
func (s *CSVHistorySource) Name() string {
	return csvSourceName
}

// Files expands the configured patterns into a sorted, de-duplicated file list
func (s *CSVHistorySource) Files() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range s.patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid history pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadMatches reads every file and returns matches sorted ascending by date.
// Rows that cannot be parsed are counted in the diagnostics.
func (s *CSVHistorySource) LoadMatches(ctx context.Context) ([]models.MatchResult, models.Diagnostics, error) {
	diag := models.NewDiagnostics(s.sampleLimit)

	files, err := s.Files()
	if err != nil {
		return nil, *diag, err
	}
	if len(files) == 0 {
		return nil, *diag, fmt.Errorf("%w: no files match %v", models.ErrEmptyHistorySource, s.patterns)
	}

	var matches []models.MatchResult
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, *diag, err
		}
		loaded, err := s.loadFile(path, diag)
		if err != nil {
			return nil, *diag, err
		}
		s.logger.WithFields(logrus.Fields{
			"file":    filepath.Base(path),
			"matches": len(loaded),
		}).Debug("Loaded history file")
		matches = append(matches, loaded...)
	}

	if len(matches) == 0 {
		return nil, *diag, fmt.Errorf("%w: %d rows read, none usable", models.ErrEmptyHistorySource, diag.Processed)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})

	s.logger.WithFields(logrus.Fields{
		"files":   len(files),
		"matches": len(matches),
		"skipped": diag.Skipped,
	}).Info("Match history loaded")

	return matches, *diag, nil
}

func (s *CSVHistorySource) loadFile(path string, diag *models.Diagnostics) ([]models.MatchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	matches, err := ParseHistoryCSV(f, filepath.Base(path), diag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return matches, nil
}

type columnIndex struct {
	date, winner, loser, tournament, surface int
}

// ParseHistoryCSV parses one CSV stream. label prefixes diagnostic records.
func ParseHistoryCSV(r io.Reader, label string, diag *models.Diagnostics) ([]models.MatchResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var matches []models.MatchResult
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			diag.RecordSkip(line, fmt.Sprintf("%s:%d", label, line), fmt.Errorf("%w: %v", models.ErrInvalidRecord, err))
			continue
		}

		m, err := parseRow(record, cols)
		if err != nil {
			diag.RecordSkip(line, fmt.Sprintf("%s:%d", label, line), err)
			continue
		}
		diag.RecordSuccess()
		matches = append(matches, m)
	}
	return matches, nil
}

func indexColumns(header []string) (columnIndex, error) {
	cols := columnIndex{date: -1, winner: -1, loser: -1, tournament: -1, surface: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "date", "tourney_date":
			cols.date = i
		case "winner", "winner_name":
			cols.winner = i
		case "loser", "loser_name":
			cols.loser = i
		case "tournament", "tourney_name":
			cols.tournament = i
		case "surface":
			cols.surface = i
		}
	}
	if cols.date < 0 || cols.winner < 0 || cols.loser < 0 {
		return cols, fmt.Errorf("%w: header must contain Date, Winner and Loser, got %v", models.ErrInvalidRecord, header)
	}
	return cols, nil
}

func parseRow(record []string, cols columnIndex) (models.MatchResult, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := ParseDate(field(cols.date))
	if err != nil {
		return models.MatchResult{}, err
	}

	tournament := field(cols.tournament)
	// Blank, Carpet and other unrated surfaces fall back to detection.
	surf, err := models.ParseSurface(field(cols.surface))
	if err != nil {
		surf = surface.Detect(tournament, int(date.Month()))
	}

	return models.NewMatchResult(field(cols.winner), field(cols.loser), surf, date, tournament)
}

// ParseDate accepts ISO, day-first slash and compact date forms
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", models.ErrInvalidRecord)
	}
	// Timestamp exports carry a time component.
	if i := strings.IndexAny(raw, " T"); i > 0 {
		raw = raw[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", models.ErrInvalidRecord, raw)
}
