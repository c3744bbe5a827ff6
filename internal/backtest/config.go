package backtest

import (
	"fmt"
	"time"
)

const defaultBins = 5

// Config selects which replayed matches are scored
type Config struct {
	// StartDate is the first match date whose pre-match prediction is scored.
	// Earlier matches only warm up the ratings.
	StartDate time.Time
	// EndDate, when set, is the last scored match date
	EndDate time.Time
	// MinMatches excludes predictions where either player has fewer prior matches
	MinMatches int
	// Bins is the number of calibration buckets over the favourite probability
	Bins int
}

// ParseConfig builds a Config from YYYY-MM-DD dates; empty dates are open
func ParseConfig(start, end string, minMatches, bins int) (Config, error) {
	cfg := Config{MinMatches: minMatches, Bins: bins}
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return Config{}, fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartDate = t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return Config{}, fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndDate = t
	}
	cfg = cfg.withDefaults()
	return cfg, cfg.Validate()
}

// Validate validates backtest config parameters
func (c Config) Validate() error {
	if !c.EndDate.IsZero() && c.StartDate.After(c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	if c.MinMatches < 0 {
		return fmt.Errorf("min matches cannot be negative")
	}
	if c.Bins < 1 || c.Bins > 50 {
		return fmt.Errorf("bins must be between 1 and 50")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Bins == 0 {
		c.Bins = defaultBins
	}
	return c
}

func (c Config) scores(date time.Time) bool {
	if !c.StartDate.IsZero() && date.Before(c.StartDate) {
		return false
	}
	if !c.EndDate.IsZero() && date.After(c.EndDate) {
		return false
	}
	return true
}
