package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analysis counters
var (
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of value-bet analysis cycles by outcome",
	}, []string{"outcome"})

	LiveMatchesEvaluated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_matches_evaluated_total",
		Help:      "Live matches priced against the rating snapshot",
	})

	EvaluationSkipsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluation_skips_total",
		Help:      "Live matches skipped during evaluation by reason",
	}, []string{"reason"})

	ValueBetsFoundTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bets_found_total",
		Help:      "Value bets recommended by selection strategy and surface",
	}, []string{"strategy", "surface"})

	RecommendedStakeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommended_stake_total",
		Help:      "Sum of recommended stakes in bankroll currency units",
	})
)

// Analysis histograms
var (
	ValueBetEdge = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "value_bet_edge",
		Help:      "Edge of recommended value bets",
		Buckets:   []float64{0.01, 0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5},
	})

	ConfidenceScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "value_bet_confidence_score",
		Help:      "Confidence scores of recommended value bets",
		Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})

	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of analysis cycles in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordAnalysis records a finished analysis cycle.
func RecordAnalysis(success bool, durationSeconds float64) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	AnalysesTotal.WithLabelValues(outcome).Inc()
	AnalysisDuration.Observe(durationSeconds)
}

// RecordEvaluation records how many live matches were priced and why others were skipped.
func RecordEvaluation(priced int, skipsByReason map[string]int) {
	LiveMatchesEvaluated.Add(float64(priced))
	for reason, n := range skipsByReason {
		EvaluationSkipsTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordValueBet records one recommended bet.
func RecordValueBet(strategy, surface string, edge, confidence, stake float64) {
	ValueBetsFoundTotal.WithLabelValues(strategy, surface).Inc()
	ValueBetEdge.Observe(edge)
	ConfidenceScore.Observe(confidence)
	if stake > 0 {
		RecommendedStakeTotal.Add(stake)
	}
}
