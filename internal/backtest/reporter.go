package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// GenerateConsoleReport formats a result for terminal output
func GenerateConsoleReport(result *Result) string {
	var builder strings.Builder
	o := result.Overall
	builder.WriteString("Rating Backtest Report\n")
	builder.WriteString("======================\n")
	builder.WriteString(fmt.Sprintf("Period: %s to %s\n", o.StartDate.Format("2006-01-02"), o.EndDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Predictions: %d (excluded %d)\n", o.Predictions, result.Excluded))
	builder.WriteString(fmt.Sprintf("Accuracy: %.2f%%\n", o.Accuracy*100))
	builder.WriteString(fmt.Sprintf("Brier Score: %.4f (skill %.3f)\n", o.BrierScore, o.BrierSkill))
	builder.WriteString(fmt.Sprintf("Log Loss: %.4f\n", o.LogLoss))
	builder.WriteString(fmt.Sprintf("Favourite Win Rate: %.2f%% (mean predicted %.2f%%)\n", o.FavouriteWinRate*100, o.MeanFavourite*100))

	if len(result.BySurface) > 0 {
		builder.WriteString("\nBy surface:\n")
		for _, s := range []string{"Hard", "Clay", "Grass"} {
			m, ok := result.BySurface[s]
			if !ok {
				continue
			}
			builder.WriteString(fmt.Sprintf("  %-6s %6d  acc %.2f%%  brier %.4f\n", s, m.Predictions, m.Accuracy*100, m.BrierScore))
		}
	}

	if len(result.Windows) > 0 {
		builder.WriteString("\nBy year:\n")
		for _, w := range result.Windows {
			builder.WriteString(fmt.Sprintf("  %s %6d  acc %.2f%%  brier %.4f\n", w.Label, w.Metrics.Predictions, w.Metrics.Accuracy*100, w.Metrics.BrierScore))
		}
		builder.WriteString(fmt.Sprintf("  Consistency: %.0f%% of years beat a coin flip\n", CalculateConsistency(result.Windows)*100))
	}

	builder.WriteString("\nCalibration:\n")
	for _, b := range result.Calibration {
		if b.Count == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("  %.2f-%.2f %6d  predicted %.3f  observed %.3f\n", b.Lower, b.Upper, b.Count, b.MeanPredicted, b.ObservedRate))
	}
	return builder.String()
}

// GenerateCSVExport writes the calibration table for spreadsheets
func GenerateCSVExport(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"lower", "upper", "count", "mean_predicted", "observed_rate"}); err != nil {
		return err
	}
	for _, b := range result.Calibration {
		row := []string{
			strconv.FormatFloat(b.Lower, 'f', 4, 64),
			strconv.FormatFloat(b.Upper, 'f', 4, 64),
			strconv.Itoa(b.Count),
			strconv.FormatFloat(b.MeanPredicted, 'f', 4, 64),
			strconv.FormatFloat(b.ObservedRate, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
