package strategy

import (
	"math"
	"strings"

	"github.com/yourusername/tennis-edge/internal/models"
)

var grandSlams = []string{"wimbledon", "us open", "australian open", "french open", "roland garros"}

// Confidence scores how much weight a recommendation deserves. It is a
// heuristic in [0.5, 1.0] built from the rating gap, the surface and the
// tournament tier, not a calibrated probability.
func Confidence(match models.LiveMatch, eloA, eloB float64) float64 {
	score := 0.5

	gap := math.Abs(eloA - eloB)
	switch {
	case gap > 200:
		score += 0.3
	case gap > 100:
		score += 0.2
	case gap > 50:
		score += 0.1
	}

	if match.Surface == models.SurfaceClay || match.Surface == models.SurfaceGrass {
		score += 0.1
	} else {
		score += 0.05
	}

	score += tierBonus(match.Tournament)

	return math.Min(1.0, score)
}

func tierBonus(tournament string) float64 {
	t := strings.ToLower(tournament)
	for _, slam := range grandSlams {
		if strings.Contains(t, slam) {
			return 0.2
		}
	}
	switch {
	case strings.Contains(t, "masters") || strings.Contains(t, "1000"):
		return 0.15
	case strings.Contains(t, "500"):
		return 0.1
	default:
		return 0
	}
}
