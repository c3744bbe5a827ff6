package models

import "errors"

// Custom errors
var (
	ErrInvalidOdds           = errors.New("invalid odds")
	ErrPlayerUnresolved      = errors.New("player unresolved")
	ErrAmbiguousNameMatch    = errors.New("ambiguous name match")
	ErrNonChronologicalInput = errors.New("non-chronological input")
	ErrEmptyHistorySource    = errors.New("empty history source")
	ErrInvalidRecord         = errors.New("invalid record")
	ErrInvalidSurface        = errors.New("invalid surface")
	ErrNoSnapshot            = errors.New("no rating snapshot published")
	ErrNotFound              = errors.New("record not found")
)

// SkipReason maps a per-record error onto the diagnostic bucket it is counted under.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidOdds):
		return "invalid_odds"
	case errors.Is(err, ErrAmbiguousNameMatch):
		return "ambiguous_name"
	case errors.Is(err, ErrPlayerUnresolved):
		return "player_unresolved"
	case errors.Is(err, ErrInvalidSurface):
		return "invalid_surface"
	case errors.Is(err, ErrInvalidRecord):
		return "invalid_record"
	default:
		return "other"
	}
}
