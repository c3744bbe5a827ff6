// Package metrics provides the centralized Prometheus registry for tennis-edge.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tennis_edge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RebuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rating_rebuilds_total",
		Help:      "Total number of rating rebuilds by outcome",
	}, []string{"outcome"})
	MatchesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rating_matches_skipped_total",
		Help:      "Historical matches skipped during rebuilds by reason",
	}, []string{"reason"})
	HistoryRecordsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_records_skipped_total",
		Help:      "Historical file rows rejected while loading by reason",
	}, []string{"reason"})
)

// Gauge metrics
var (
	PlayersRated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "players_rated",
		Help:      "Number of players in the published rating snapshot",
	})
	MatchesApplied = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "matches_applied",
		Help:      "Matches replayed into the published rating snapshot",
	})
	SnapshotPublishedTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_published_timestamp_seconds",
		Help:      "Unix time the current rating snapshot was published",
	})
)

// Histogram metrics
var (
	RebuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rating_rebuild_duration_seconds",
		Help:      "Duration of rating rebuilds in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RebuildsTotal)
		registry.MustRegister(MatchesSkippedTotal)
		registry.MustRegister(HistoryRecordsSkippedTotal)

		registry.MustRegister(PlayersRated)
		registry.MustRegister(MatchesApplied)
		registry.MustRegister(SnapshotPublishedTimestamp)

		registry.MustRegister(RebuildDuration)

		// analysis metrics
		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(LiveMatchesEvaluated)
		registry.MustRegister(EvaluationSkipsTotal)
		registry.MustRegister(ValueBetsFoundTotal)
		registry.MustRegister(ValueBetEdge)
		registry.MustRegister(ConfidenceScore)
		registry.MustRegister(RecommendedStakeTotal)
		registry.MustRegister(AnalysisDuration)

		// datasource metrics
		registry.MustRegister(ExternalRequestsTotal)
		registry.MustRegister(ExternalRequestDuration)
		registry.MustRegister(CircuitBreakerState)
		registry.MustRegister(OddsCacheHitRatio)
		registry.MustRegister(StreamClients)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRebuild records a finished rebuild attempt.
func RecordRebuild(success bool, durationSeconds float64) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	RebuildsTotal.WithLabelValues(outcome).Inc()
	RebuildDuration.Observe(durationSeconds)
}

// RecordRebuildSkipped records a rebuild rejected because another was running.
func RecordRebuildSkipped() {
	RebuildsTotal.WithLabelValues("skipped").Inc()
}

// RecordMatchesSkipped adds per-reason skip counts from a rebuild.
func RecordMatchesSkipped(byReason map[string]int) {
	for reason, n := range byReason {
		MatchesSkippedTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordHistorySkipped adds per-reason skip counts from a history load.
func RecordHistorySkipped(byReason map[string]int) {
	for reason, n := range byReason {
		HistoryRecordsSkippedTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// UpdateSnapshot records the shape of a newly published snapshot.
func UpdateSnapshot(players, matches int, publishedUnix float64) {
	PlayersRated.Set(float64(players))
	MatchesApplied.Set(float64(matches))
	SnapshotPublishedTimestamp.Set(publishedUnix)
}
