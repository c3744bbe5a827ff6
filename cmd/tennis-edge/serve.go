package main

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/tennis-edge/internal/health"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/scheduler"
	"github.com/yourusername/tennis-edge/internal/stream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled rebuilds and analyses and serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := stream.NewHub(appLogger)
	go hub.Run(ctx)

	d, err := setupDependencies(ctx, false, hub)
	if err != nil {
		return err
	}
	defer d.close()

	server := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Server.Port),
		Logger:      appLogger,
		DB:          d.repos,
		Snapshots:   d.store,
	})
	server.Handle(cfg.Server.StreamPath, hub)
	server.Handle("/api/ratings", health.RatingsHandler(d.svc))
	server.Handle("/api/value-bets", health.ValueBetsHandler(d.svc))
	if cfg.Metrics.Enabled {
		server.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	if err := server.Start(ctx); err != nil {
		return err
	}

	if ok, err := d.svc.WarmStart(ctx); err != nil {
		appLogger.WithError(err).Warn("Warm start failed")
	} else if ok {
		appLogger.Info("Serving persisted ratings until the first rebuild completes")
	}

	sched := scheduler.NewScheduler(d.svc, appLogger)
	if err := sched.ScheduleRebuild(cfg.Schedule.Rebuild); err != nil {
		return err
	}
	if cfg.API.Enabled {
		if err := sched.ScheduleAnalysis(cfg.Schedule.Analysis); err != nil {
			return err
		}
	} else {
		appLogger.Warn("Odds API disabled, analysis job not scheduled")
	}

	// initial rebuild runs in the background so health checks answer immediately
	go sched.RunRebuild()

	if err := sched.Start(); err != nil {
		return err
	}
	server.SetReady(true)

	appLogger.WithFields(logrus.Fields{
		"port":     cfg.Server.Port,
		"stream":   cfg.Server.StreamPath,
		"rebuild":  cfg.Schedule.Rebuild,
		"analysis": cfg.Schedule.Analysis,
	}).Info("tennis-edge serving")

	<-ctx.Done()
	appLogger.Info("Shutting down")

	server.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLogger.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	return server.Shutdown()
}
