package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Name              string
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // consecutive failures before the breaker opens
	BreakerTimeout    time.Duration
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Name:              "odds-api",
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      time.Second,
		RetryWaitMax:      8 * time.Second,
		RateLimit:         1.0,
		CircuitBreakerMax: 5,
		BreakerTimeout:    time.Minute,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with a token bucket and a
// circuit breaker. Retries happen inside one breaker call.
type RateLimitedHTTPClient struct {
	name    string
	client  *retryablehttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, log *logrus.Logger) *RateLimitedHTTPClient {
	if log == nil {
		log = logger.Discard()
	}
	defaults := DefaultHTTPClientConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.CircuitBreakerMax <= 0 {
		cfg.CircuitBreakerMax = defaults.CircuitBreakerMax
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaults.RateLimit
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = retryLogger{log.WithField("client", cfg.Name)}

	audit := logger.NewAuditLogger(log)
	maxFailures := uint32(cfg.CircuitBreakerMax)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateCircuitBreakerState(name, int(to))
			audit.LogCircuitBreakerEvent(name, from.String(), to.String())
		},
	})
	metrics.UpdateCircuitBreakerState(cfg.Name, int(gobreaker.StateClosed))

	return &RateLimitedHTTPClient{
		name:    cfg.Name,
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		breaker: breaker,
		logger:  log,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaker. A 5xx
// response that survives retries counts as a breaker failure but is still
// returned to the caller.
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	start := time.Now()
	var serverResp *http.Response
	out, err := c.breaker.Execute(func() (interface{}, error) {
		rreq, err := retryablehttp.FromRequest(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(rreq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			serverResp = resp
			return nil, fmt.Errorf("%w: status %d", ErrServerError, resp.StatusCode)
		}
		return resp, nil
	})
	elapsed := time.Since(start).Seconds()

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordExternalRequest(c.name, "circuit_open", elapsed)
		return nil, NewDataSourceError(c.name, ErrCodeCircuitOpen, "circuit breaker open", err)
	case serverResp != nil:
		metrics.RecordExternalRequest(c.name, statusClass(serverResp.StatusCode), elapsed)
		return serverResp, nil
	case err != nil:
		metrics.RecordExternalRequest(c.name, "error", elapsed)
		return nil, err
	}

	resp := out.(*http.Response)
	metrics.RecordExternalRequest(c.name, statusClass(resp.StatusCode), elapsed)
	return resp, nil
}

// Get executes a GET request with the given headers
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}

// retryLogger adapts logrus to retryablehttp.LeveledLogger
type retryLogger struct {
	entry *logrus.Entry
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.with(kv).Error(msg) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.with(kv).Debug(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.with(kv).Debug(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.with(kv).Warn(msg) }

func (l retryLogger) with(kv []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return l.entry.WithFields(fields)
}
