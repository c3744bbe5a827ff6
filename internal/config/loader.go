package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is used when no --config flag is given
	DefaultConfigPath = "config/config.yaml"
	envPrefix         = "TENNIS_EDGE"
)

// Load reads the configuration file, expands ${VAR} placeholders and
// overlays TENNIS_EDGE_* environment variables. The file must exist.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults behaves like Load but tolerates a missing file, falling
// back to defaults and environment variables.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tennis-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("elo.base_rating", 1500.0)
	v.SetDefault("elo.k_factor.base", 32.0)
	v.SetDefault("elo.k_factor.new_player_matches", 30)
	v.SetDefault("elo.k_factor.new_player_multiplier", 1.5)
	v.SetDefault("elo.k_factor.developing_matches", 100)
	v.SetDefault("elo.k_factor.developing_multiplier", 1.2)
	v.SetDefault("elo.k_factor.elite_rating", 2000.0)
	v.SetDefault("elo.k_factor.elite_multiplier", 0.8)
	v.SetDefault("elo.k_factor.strong_rating", 1800.0)
	v.SetDefault("elo.k_factor.strong_multiplier", 0.9)
	v.SetDefault("elo.surface_weights.hard", 0.5)
	v.SetDefault("elo.surface_weights.clay", 0.3)
	v.SetDefault("elo.surface_weights.grass", 0.2)
	v.SetDefault("elo.sample_limit", 5)

	v.SetDefault("betting.kelly_fraction", 0.25)
	v.SetDefault("betting.max_stake_fraction", 0.05)
	v.SetDefault("betting.min_value_threshold", 0.05)
	v.SetDefault("betting.bankroll", 1000.0)
	v.SetDefault("betting.strategy", "threshold")
	v.SetDefault("betting.top_percent", 30.0)

	v.SetDefault("resolver.acceptance_threshold", 0.8)

	v.SetDefault("history.paths", []string{"data/atp_matches_*.csv"})

	v.SetDefault("api.base_url", "https://pinnacle-odds.p.rapidapi.com")
	v.SetDefault("api.host", "pinnacle-odds.p.rapidapi.com")
	v.SetDefault("api.sport_id", 2)
	v.SetDefault("api.cache_duration", "5m")
	v.SetDefault("api.request_timeout", "30s")
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.rate_limit", 1.0)
	v.SetDefault("api.breaker_failures", 5)

	v.SetDefault("storage.driver", "none")
	v.SetDefault("storage.sqlite_path", "data/tennis_edge.db")
	v.SetDefault("storage.ratings_csv_path", "")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.stream_path", "/ws")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.rebuild", "0 6 * * *")
	v.SetDefault("schedule.analysis", "*/15 * * * *")
}
