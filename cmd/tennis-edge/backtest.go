package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/tennis-edge/internal/backtest"
	"github.com/yourusername/tennis-edge/internal/datasource"
	"github.com/yourusername/tennis-edge/internal/rating"
)

var (
	backtestFrom       string
	backtestTo         string
	backtestMinMatches int
	backtestBins       int
	backtestCSV        string
)

func init() {
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "First match date to score (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "Last match date to score (YYYY-MM-DD)")
	backtestCmd.Flags().IntVar(&backtestMinMatches, "min-matches", 0, "Skip predictions where either player has fewer prior matches")
	backtestCmd.Flags().IntVar(&backtestBins, "bins", 0, "Number of calibration buckets (default 5)")
	backtestCmd.Flags().StringVar(&backtestCSV, "csv", "", "Also write the calibration table to this path")
	backtestCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Score the rating model's pre-match predictions against history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		btCfg, err := backtest.ParseConfig(backtestFrom, backtestTo, backtestMinMatches, backtestBins)
		if err != nil {
			return err
		}

		history, err := datasource.NewFactory(cfg, appLogger).NewHistorySource()
		if err != nil {
			return fmt.Errorf("failed to create history source: %w", err)
		}
		matches, loadDiag, err := history.LoadMatches(ctx)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		appLogger.WithFields(logrus.Fields{
			"source":  history.Name(),
			"matches": len(matches),
			"skipped": loadDiag.Skipped,
		}).Info("Starting backtest")

		engine := backtest.NewEngine(rating.NewEngine(cfg.Elo.EngineConfig(), appLogger), appLogger)
		res, err := engine.Run(ctx, matches, btCfg)
		if err != nil {
			return err
		}

		if backtestCSV != "" {
			if err := backtest.GenerateCSVExport(res, backtestCSV); err != nil {
				return fmt.Errorf("failed to write calibration csv: %w", err)
			}
		}
		if jsonOutput {
			return printJSON(res)
		}
		fmt.Print(backtest.GenerateConsoleReport(res))
		return nil
	},
}
