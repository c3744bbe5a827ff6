package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/tennis-edge/internal/strategy"
)

// weightTolerance bounds rounding drift in configured surface weights.
const weightTolerance = 1e-6

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("strategy", validateStrategy)
	_ = v.RegisterValidation("cron", validateCron)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateStrategy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case strategy.SelectorThreshold, strategy.SelectorTopPercent, strategy.SelectorAll:
		return true
	default:
		return false
	}
}

func validateCron(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

func validateCrossField(cfg *Config) error {
	w := cfg.Elo.SurfaceWeights
	if math.Abs(w.Hard+w.Clay+w.Grass-1) > weightTolerance {
		return fmt.Errorf("elo surface weights must sum to 1, got %.4f", w.Hard+w.Clay+w.Grass)
	}

	k := cfg.Elo.KFactor
	if k.NewPlayerMatches > k.DevelopingMatches {
		return fmt.Errorf("k_factor new_player_matches cannot exceed developing_matches")
	}
	if k.StrongRating > k.EliteRating {
		return fmt.Errorf("k_factor strong_rating cannot exceed elite_rating")
	}

	switch cfg.Storage.Driver {
	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("postgres storage requires database host and name")
		}
	case "sqlite":
		if strings.TrimSpace(cfg.Storage.SQLitePath) == "" {
			return fmt.Errorf("sqlite storage requires storage.sqlite_path")
		}
	}

	if cfg.API.Enabled && cfg.API.APIKey == "" && !cfg.Secrets.Enabled {
		return fmt.Errorf("api.api_key is required when the odds API is enabled")
	}

	if cfg.IsProduction() && cfg.Storage.Driver == "postgres" && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "strategy":
			fmt.Fprintf(&b, "- Field '%s' must be one of: threshold, top_percent, all\n", field)
		case "cron":
			fmt.Fprintf(&b, "- Field '%s' is not a valid cron expression: '%v'\n", field, value)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
