package models

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	recordValidator     *validator.Validate
	recordValidatorOnce sync.Once
)

func validate() *validator.Validate {
	recordValidatorOnce.Do(func() {
		recordValidator = validator.New()
	})
	return recordValidator
}

// MatchResult is one completed historical match
type MatchResult struct {
	Winner     string    `json:"winner" validate:"required"`
	Loser      string    `json:"loser" validate:"required,nefield=Winner"`
	Surface    Surface   `json:"surface" validate:"required,oneof=Hard Clay Grass"`
	Date       time.Time `json:"date" validate:"required"`
	Tournament string    `json:"tournament,omitempty"`
}

// NewMatchResult builds a validated MatchResult
func NewMatchResult(winner, loser string, surface Surface, date time.Time, tournament string) (MatchResult, error) {
	m := MatchResult{
		Winner:     strings.TrimSpace(winner),
		Loser:      strings.TrimSpace(loser),
		Surface:    surface,
		Date:       date,
		Tournament: strings.TrimSpace(tournament),
	}
	if err := m.Validate(); err != nil {
		return MatchResult{}, err
	}
	return m, nil
}

// Validate checks required fields
func (m MatchResult) Validate() error {
	if err := validate().Struct(m); err != nil {
		return fmt.Errorf("%w: match result %s vs %s: %v", ErrInvalidRecord, m.Winner, m.Loser, err)
	}
	return nil
}

// String returns a short description used in diagnostics
func (m MatchResult) String() string {
	return fmt.Sprintf("%s d. %s (%s, %s)", m.Winner, m.Loser, m.Surface, m.Date.Format("2006-01-02"))
}

// LiveMatch is an upcoming match with two-way decimal odds
type LiveMatch struct {
	ID         uuid.UUID `json:"id"`
	Player1    string    `json:"player1" validate:"required"`
	Player2    string    `json:"player2" validate:"required,nefield=Player1"`
	Surface    Surface   `json:"surface" validate:"required,oneof=Hard Clay Grass"`
	Odds1      float64   `json:"odds1"`
	Odds2      float64   `json:"odds2"`
	Tournament string    `json:"tournament"`
	StartTime  string    `json:"start_time,omitempty"`
}

// NewLiveMatch builds a validated LiveMatch with a fresh ID
func NewLiveMatch(player1, player2 string, surface Surface, odds1, odds2 float64, tournament, startTime string) (LiveMatch, error) {
	m := LiveMatch{
		ID:         uuid.New(),
		Player1:    strings.TrimSpace(player1),
		Player2:    strings.TrimSpace(player2),
		Surface:    surface,
		Odds1:      odds1,
		Odds2:      odds2,
		Tournament: strings.TrimSpace(tournament),
		StartTime:  startTime,
	}
	if err := m.Validate(); err != nil {
		return LiveMatch{}, err
	}
	return m, nil
}

// Validate checks names, surface and odds
func (m LiveMatch) Validate() error {
	if err := validate().Struct(m); err != nil {
		return fmt.Errorf("%w: live match %s vs %s: %v", ErrInvalidRecord, m.Player1, m.Player2, err)
	}
	if !ValidOdds(m.Odds1) || !ValidOdds(m.Odds2) {
		return fmt.Errorf("%w: %s vs %s has odds %v/%v", ErrInvalidOdds, m.Player1, m.Player2, m.Odds1, m.Odds2)
	}
	return nil
}

// String returns "P1 vs P2 (Tournament)"
func (m LiveMatch) String() string {
	return fmt.Sprintf("%s vs %s (%s)", m.Player1, m.Player2, m.Tournament)
}

// ValidOdds reports whether decimal odds are finite and greater than 1
func ValidOdds(odds float64) bool {
	return !math.IsNaN(odds) && !math.IsInf(odds, 0) && odds > 1.0
}
