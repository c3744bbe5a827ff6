package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/tennis-edge/internal/config"
)

// Factory creates the history and odds sources from configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewHistorySource builds the CSV history loader
func (f *Factory) NewHistorySource() (HistorySource, error) {
	if len(f.config.History.Paths) == 0 {
		return nil, fmt.Errorf("no history paths configured")
	}
	return NewCSVHistorySource(f.config.History.Paths, f.logger), nil
}

// NewHTTPClient builds the rate-limited client for the odds API
func (f *Factory) NewHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	api := f.config.API
	if api.RequestTimeout > 0 {
		cfg.Timeout = api.RequestTimeout
	}
	cfg.MaxRetries = api.MaxRetries
	if api.RateLimit > 0 {
		cfg.RateLimit = api.RateLimit
	}
	if api.BreakerFailures > 0 {
		cfg.CircuitBreakerMax = api.BreakerFailures
	}
	return NewRateLimitedHTTPClient(cfg, f.logger)
}

// NewOddsSource builds the Pinnacle source, wrapped in a cache when a cache
// duration is configured. It returns an error when the API is disabled.
func (f *Factory) NewOddsSource(httpClient *RateLimitedHTTPClient) (OddsSource, error) {
	api := f.config.API
	if !api.Enabled {
		return nil, NewDataSourceError(pinnacleSourceName, ErrCodeUnknown, "odds API disabled in configuration", ErrSourceDisabled)
	}
	if api.APIKey == "" {
		return nil, fmt.Errorf("odds API key is required")
	}
	if httpClient == nil {
		httpClient = f.NewHTTPClient()
	}

	source := NewPinnacleSource(httpClient, PinnacleConfig{
		BaseURL: api.BaseURL,
		Host:    api.Host,
		APIKey:  api.APIKey,
		SportID: api.SportID,
		Enabled: true,
	}, f.logger)

	if api.CacheDuration <= 0 {
		return source, nil
	}
	if f.logger != nil {
		f.logger.WithFields(logrus.Fields{
			"source": source.Name(),
			"ttl":    api.CacheDuration.String(),
		}).Debug("Caching live odds")
	}
	return NewCachedOddsSource(source, NewOddsCache(api.CacheDuration)), nil
}
