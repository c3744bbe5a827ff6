package models

import (
	"fmt"
	"time"
)

// PlayerRating is the rating record held for one canonical player name.
// EloOverall is derived from the three surface ratings and is only ever
// written by SetSurfaceRating and NewPlayerRating.
type PlayerRating struct {
	Player        string    `db:"player" json:"player"`
	EloHard       float64   `db:"elo_hard" json:"elo_hard"`
	EloClay       float64   `db:"elo_clay" json:"elo_clay"`
	EloGrass      float64   `db:"elo_grass" json:"elo_grass"`
	EloOverall    float64   `db:"elo_overall" json:"elo_overall"`
	MatchesPlayed int       `db:"matches_played" json:"matches_played"`
	LastUpdated   time.Time `db:"last_updated" json:"last_updated"`
}

// NewPlayerRating creates a rating with every surface at base
func NewPlayerRating(player string, base float64, weights SurfaceWeights, at time.Time) PlayerRating {
	return PlayerRating{
		Player:      player,
		EloHard:     base,
		EloClay:     base,
		EloGrass:    base,
		EloOverall:  weights.Blend(base, base, base),
		LastUpdated: at,
	}
}

// SurfaceRating returns the rating for the given surface
func (p PlayerRating) SurfaceRating(s Surface) float64 {
	switch s {
	case SurfaceHard:
		return p.EloHard
	case SurfaceClay:
		return p.EloClay
	case SurfaceGrass:
		return p.EloGrass
	default:
		return p.EloOverall
	}
}

// SetSurfaceRating writes one surface rating and recomputes the overall blend
func (p *PlayerRating) SetSurfaceRating(s Surface, rating float64, weights SurfaceWeights) error {
	switch s {
	case SurfaceHard:
		p.EloHard = rating
	case SurfaceClay:
		p.EloClay = rating
	case SurfaceGrass:
		p.EloGrass = rating
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSurface, string(s))
	}
	p.EloOverall = weights.Blend(p.EloHard, p.EloClay, p.EloGrass)
	return nil
}
