// Package datasource adapts external match history and live odds feeds into
// typed records.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/tennis-edge/internal/models"
)

// HistorySource loads completed matches for a rating rebuild. Implementations
// return matches sorted ascending by date.
type HistorySource interface {
	LoadMatches(ctx context.Context) ([]models.MatchResult, models.Diagnostics, error)
	Name() string
}

// OddsSource fetches upcoming matches with two-way decimal odds.
type OddsSource interface {
	FetchMatches(ctx context.Context) ([]models.LiveMatch, models.Diagnostics, error)
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying error to errors.Is/As
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeCircuitOpen          = "circuit_open"
	ErrCodeUnknown              = "unknown"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrServerError          = errors.New("server error")
	ErrSourceDisabled       = errors.New("data source disabled")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
