package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/service"
)

var (
	jsonOutput    bool
	forceRebuild  bool
	ratingSurface string
	ratingLimit   int
	betsSince     time.Duration
)

func init() {
	for _, c := range []*cobra.Command{rebuildCmd, analyzeCmd, ratingsCmd, betsCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	}
	analyzeCmd.Flags().BoolVar(&forceRebuild, "rebuild", false, "Rebuild ratings from history instead of using the last persisted snapshot")
	ratingsCmd.Flags().StringVar(&ratingSurface, "surface", "", "Rank by Hard, Clay or Grass rating (default overall)")
	ratingsCmd.Flags().IntVar(&ratingLimit, "limit", 20, "Number of players to list")
	betsCmd.Flags().DurationVar(&betsSince, "since", 24*time.Hour, "List value bets recorded within this window")
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild ratings from the historical match files",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setupDependencies(cmd.Context(), false, nil)
		if err != nil {
			return err
		}
		defer d.close()

		res, err := d.svc.Rebuild(cmd.Context())
		if res == nil {
			return err
		}
		if jsonOutput {
			if printErr := printJSON(res); printErr != nil {
				return printErr
			}
			return err
		}

		fmt.Println("\n=== Rating Rebuild ===")
		fmt.Printf("Snapshot:        %s\n", res.Snapshot.SnapshotID)
		fmt.Printf("Players rated:   %d\n", res.Snapshot.Players)
		fmt.Printf("Matches applied: %d\n", res.Snapshot.MatchesApplied)
		fmt.Printf("Last match:      %s\n", res.Snapshot.LastMatchDate.Format("2006-01-02"))
		fmt.Printf("History rows:    %s\n", res.HistoryDiagnostics.String())
		fmt.Printf("Replay:          %s\n", res.Diagnostics.String())
		fmt.Printf("Duration:        %v\n", res.Duration)
		return err
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch live odds and list value bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := setupDependencies(ctx, true, nil)
		if err != nil {
			return err
		}
		defer d.close()

		if err := ensureSnapshot(ctx, d.svc, forceRebuild); err != nil {
			return err
		}

		res, err := d.svc.Analyze(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}

		fmt.Println("\n=== Value Bets ===")
		fmt.Printf("Snapshot: %s  Strategy: %s  Bankroll: %.2f\n", res.SnapshotID, res.Strategy, res.Bankroll)
		fmt.Printf("Matches:  %s\n\n", res.Diagnostics.String())
		if len(res.Bets) == 0 {
			fmt.Println("No value bets found")
			return nil
		}
		for i, b := range res.Bets {
			fmt.Printf("%2d. %-22s vs %-22s %-6s odds %5.2f  fair %5.1f%%  market %5.1f%%  edge %+5.1f%%  stake %s  conf %.2f\n",
				i+1, b.Player, b.Opponent, b.Match.Surface, b.Odds,
				b.FairProbability*100, b.MarketProbability*100, b.Edge*100,
				b.StakeDecimal().StringFixed(2), b.ConfidenceScore)
		}
		s := res.Summary
		fmt.Printf("\nBets: %d  Total stake: %.2f  Avg edge: %.1f%%  Expected return: %.2f  Expected ROI: %.1f%%\n",
			s.BetCount, s.TotalStake, s.AverageEdge*100, s.ExpectedReturn, s.ExpectedROI*100)
		return nil
	},
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "List the top rated players",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var surface models.Surface
		if ratingSurface != "" {
			parsed, err := models.ParseSurface(ratingSurface)
			if err != nil {
				return err
			}
			surface = parsed
		}

		d, err := setupDependencies(ctx, false, nil)
		if err != nil {
			return err
		}
		defer d.close()

		if err := ensureSnapshot(ctx, d.svc, false); err != nil {
			return err
		}

		summary, rows, err := d.svc.TopRatings(surface, ratingLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]interface{}{"snapshot": summary, "ratings": rows})
		}

		fmt.Printf("\nSnapshot %s (%d players, published %s)\n\n", summary.SnapshotID, summary.Players,
			summary.PublishedAt.Format(time.RFC3339))
		fmt.Printf("%4s  %-26s %8s %8s %8s %8s %7s\n", "#", "Player", "Hard", "Clay", "Grass", "Overall", "Played")
		for i, r := range rows {
			fmt.Printf("%4d  %-26s %8.1f %8.1f %8.1f %8.1f %7d\n",
				i+1, r.Player, r.EloHard, r.EloClay, r.EloGrass, r.EloOverall, r.MatchesPlayed)
		}
		return nil
	},
}

var betsCmd = &cobra.Command{
	Use:   "bets",
	Short: "List persisted value bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := setupDependencies(ctx, false, nil)
		if err != nil {
			return err
		}
		defer d.close()

		if !d.repos.Enabled() {
			return fmt.Errorf("storage is disabled; set storage.driver to sqlite or postgres")
		}

		bets, err := d.svc.RecentValueBets(ctx, time.Now().UTC().Add(-betsSince))
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(bets)
		}

		if len(bets) == 0 {
			fmt.Println("No value bets recorded")
			return nil
		}
		for _, b := range bets {
			fmt.Printf("%s  %-12s %-22s vs %-22s odds %5.2f  edge %+5.1f%%  stake %s\n",
				b.CreatedAt.Format("2006-01-02 15:04"), b.Strategy, b.Player, b.Opponent,
				b.Odds, b.Edge*100, b.StakeDecimal().StringFixed(2))
		}
		return nil
	},
}

// ensureSnapshot publishes the persisted snapshot, or rebuilds from history
// when none exists or force is set
func ensureSnapshot(ctx context.Context, svc *service.AnalysisService, force bool) error {
	if !force {
		ok, err := svc.WarmStart(ctx)
		if err != nil {
			appLogger.WithError(err).Warn("Warm start failed, rebuilding")
		}
		if ok {
			return nil
		}
	}
	res, err := svc.Rebuild(ctx)
	if res == nil {
		return err
	}
	if err != nil {
		appLogger.WithError(err).Warn("Ratings rebuilt but not exported")
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
