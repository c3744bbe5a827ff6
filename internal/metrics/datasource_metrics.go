package metrics

import "github.com/prometheus/client_golang/prometheus"

// External data source metrics
var (
	ExternalRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "external_requests_total",
		Help:      "Requests to external odds providers by source and status class",
	}, []string{"source", "status"})

	ExternalRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "external_request_duration_seconds",
		Help:      "Latency of external odds provider requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state per client (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})

	OddsCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "odds_cache_hit_ratio",
		Help:      "Hit ratio of the live odds cache",
	})

	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_clients",
		Help:      "Connected value-bet stream clients",
	})
)

// RecordExternalRequest records one provider request.
func RecordExternalRequest(source, status string, durationSeconds float64) {
	ExternalRequestsTotal.WithLabelValues(source, status).Inc()
	ExternalRequestDuration.WithLabelValues(source).Observe(durationSeconds)
}

// UpdateCircuitBreakerState records a breaker transition.
func UpdateCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// UpdateOddsCacheHitRatio sets the cache hit ratio gauge.
func UpdateOddsCacheHitRatio(ratio float64) {
	OddsCacheHitRatio.Set(ratio)
}

// UpdateStreamClients sets the connected client gauge.
func UpdateStreamClients(n int) {
	StreamClients.Set(float64(n))
}
