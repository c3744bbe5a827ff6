package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/datasource"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/rating"
	"github.com/yourusername/tennis-edge/internal/repository"
	"github.com/yourusername/tennis-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLogger  *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.AddCommand(rebuildCmd, analyzeCmd, ratingsCmd, betsCmd, backtestCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "tennis-edge",
	Short: "Surface-aware Elo ratings and value-bet detection for ATP tennis",
	Long: `Maintains per-surface Elo ratings from historical ATP results, prices
upcoming matches against margin-free bookmaker odds and sizes stakes with
fractional Kelly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogging()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tennis-edge %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}
	if err := config.ApplySecrets(ctx, loaded, nil); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func setupLogging() {
	appLogger = logger.New(logger.Options{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})
	metrics.InitRegistry()

	appLogger.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
		"storage":     cfg.Storage.Driver,
	}).Debug("Configuration loaded")
}

// deps bundles everything a command needs; close releases it in reverse order
type deps struct {
	store      *rating.Store
	repos      *repository.Repositories
	httpClient *datasource.RateLimitedHTTPClient
	svc        *service.AnalysisService
}

func (d *deps) close() {
	if d.httpClient != nil {
		d.httpClient.Close()
	}
	if d.repos != nil {
		if err := d.repos.Close(); err != nil {
			appLogger.WithError(err).Warn("Failed to close storage")
		}
	}
}

// setupDependencies wires the analysis service. Without odds the service can
// still rebuild and report ratings.
func setupDependencies(ctx context.Context, needOdds bool, broadcaster service.Broadcaster) (*deps, error) {
	d := &deps{store: rating.NewStore()}
	factory := datasource.NewFactory(cfg, appLogger)

	history, err := factory.NewHistorySource()
	if err != nil {
		return nil, fmt.Errorf("failed to create history source: %w", err)
	}

	var odds datasource.OddsSource
	if cfg.API.Enabled {
		d.httpClient = factory.NewHTTPClient()
		odds, err = factory.NewOddsSource(d.httpClient)
		if err != nil {
			d.close()
			return nil, fmt.Errorf("failed to create odds source: %w", err)
		}
	} else if needOdds {
		return nil, fmt.Errorf("odds API is disabled; set api.enabled to analyze live matches")
	}

	d.repos, err = repository.NewRepositories(ctx, cfg, appLogger)
	if err != nil {
		d.close()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	d.svc, err = service.NewFromConfig(cfg, d.store, history, odds, d.repos, broadcaster, appLogger)
	if err != nil {
		d.close()
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}
	return d, nil
}
