// Package config provides configuration management for tennis-edge.
package config

import (
	"net/url"
	"strconv"
	"time"

	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/rating"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Elo      EloConfig      `mapstructure:"elo" validate:"required"`
	Betting  BettingConfig  `mapstructure:"betting" validate:"required"`
	Resolver ResolverConfig `mapstructure:"resolver" validate:"required"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
	API      APIConfig      `mapstructure:"api"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
}

// EloConfig represents rating engine parameters
type EloConfig struct {
	BaseRating     float64              `mapstructure:"base_rating" validate:"required,gt=0"`
	KFactor        KFactorConfig        `mapstructure:"k_factor" validate:"required"`
	SurfaceWeights SurfaceWeightsConfig `mapstructure:"surface_weights" validate:"required"`
	SortUnordered  bool                 `mapstructure:"sort_unordered"`
	SampleLimit    int                  `mapstructure:"sample_limit" validate:"gte=0"`
}

// KFactorConfig represents the adaptive K-factor tiers
type KFactorConfig struct {
	Base                 float64 `mapstructure:"base" validate:"required,gt=0"`
	NewPlayerMatches     int     `mapstructure:"new_player_matches" validate:"gte=0"`
	NewPlayerMultiplier  float64 `mapstructure:"new_player_multiplier" validate:"gt=0"`
	DevelopingMatches    int     `mapstructure:"developing_matches" validate:"gte=0"`
	DevelopingMultiplier float64 `mapstructure:"developing_multiplier" validate:"gt=0"`
	EliteRating          float64 `mapstructure:"elite_rating" validate:"gt=0"`
	EliteMultiplier      float64 `mapstructure:"elite_multiplier" validate:"gt=0"`
	StrongRating         float64 `mapstructure:"strong_rating" validate:"gt=0"`
	StrongMultiplier     float64 `mapstructure:"strong_multiplier" validate:"gt=0"`
}

// SurfaceWeightsConfig represents the overall-rating blend
type SurfaceWeightsConfig struct {
	Hard  float64 `mapstructure:"hard" validate:"gte=0,lte=1"`
	Clay  float64 `mapstructure:"clay" validate:"gte=0,lte=1"`
	Grass float64 `mapstructure:"grass" validate:"gte=0,lte=1"`
}

// BettingConfig represents stake sizing and bet selection
type BettingConfig struct {
	KellyFraction     float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MaxStakeFraction  float64 `mapstructure:"max_stake_fraction" validate:"required,gt=0,lte=1"`
	MinValueThreshold float64 `mapstructure:"min_value_threshold" validate:"gte=0,lt=1"`
	Bankroll          float64 `mapstructure:"bankroll" validate:"gte=0"`
	Strategy          string  `mapstructure:"strategy" validate:"required,strategy"`
	TopPercent        float64 `mapstructure:"top_percent" validate:"gt=0,lte=100"`
}

// ResolverConfig represents name resolution
type ResolverConfig struct {
	AcceptanceThreshold float64 `mapstructure:"acceptance_threshold" validate:"required,gt=0,lte=1"`
}

// HistoryConfig represents the historical results input
type HistoryConfig struct {
	Paths []string `mapstructure:"paths" validate:"required,min=1,dive,required"`
}

// APIConfig represents the live odds provider
type APIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	BaseURL         string        `mapstructure:"base_url" validate:"omitempty,url"`
	Host            string        `mapstructure:"host"`
	APIKey          string        `mapstructure:"api_key"`
	SportID         int           `mapstructure:"sport_id" validate:"gte=0"`
	CacheDuration   time.Duration `mapstructure:"cache_duration" validate:"gte=0"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	MaxRetries      int           `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit       float64       `mapstructure:"rate_limit" validate:"gte=0"`
	BreakerFailures int           `mapstructure:"breaker_failures" validate:"gte=0"`
}

// StorageConfig selects where ratings and value bets are exported
type StorageConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,oneof=none sqlite postgres"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	RatingsCSVPath string `mapstructure:"ratings_csv_path"`
}

// DatabaseConfig represents PostgreSQL connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// ServerConfig represents the HTTP server exposing health, metrics and the stream
type ServerConfig struct {
	Port       int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	StreamPath string `mapstructure:"stream_path" validate:"required,startswith=/"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// ScheduleConfig represents cron schedules for background jobs
type ScheduleConfig struct {
	Rebuild  string `mapstructure:"rebuild" validate:"required,cron"`
	Analysis string `mapstructure:"analysis" validate:"required,cron"`
}

// SecretsConfig represents the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// DSN renders the connection settings as a postgres:// URL
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}
	return u.String()
}

// Weights converts the configured blend
func (e EloConfig) Weights() models.SurfaceWeights {
	return models.SurfaceWeights{
		Hard:  e.SurfaceWeights.Hard,
		Clay:  e.SurfaceWeights.Clay,
		Grass: e.SurfaceWeights.Grass,
	}
}

// EngineConfig converts the Elo section into rating engine parameters
func (e EloConfig) EngineConfig() rating.Config {
	return rating.Config{
		BaseRating: e.BaseRating,
		KFactor: rating.KFactor{
			Base:                 e.KFactor.Base,
			NewPlayerMatches:     e.KFactor.NewPlayerMatches,
			NewPlayerMultiplier:  e.KFactor.NewPlayerMultiplier,
			DevelopingMatches:    e.KFactor.DevelopingMatches,
			DevelopingMultiplier: e.KFactor.DevelopingMultiplier,
			EliteRating:          e.KFactor.EliteRating,
			EliteMultiplier:      e.KFactor.EliteMultiplier,
			StrongRating:         e.KFactor.StrongRating,
			StrongMultiplier:     e.KFactor.StrongMultiplier,
		},
		Weights:       e.Weights(),
		SampleLimit:   e.SampleLimit,
		SortUnordered: e.SortUnordered,
	}
}
