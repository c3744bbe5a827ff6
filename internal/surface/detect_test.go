package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/tennis-edge/internal/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		tournament string
		month      int
		expected   models.Surface
		source     Source
	}{
		{"grand slam clay", "Roland Garros", 5, models.SurfaceClay, SourceKnownEvent},
		{"grand slam grass", "Wimbledon", 7, models.SurfaceGrass, SourceKnownEvent},
		{"grand slam hard", "Australian Open", 1, models.SurfaceHard, SourceKnownEvent},
		{"known event beats month", "ATP Halle", 3, models.SurfaceGrass, SourceKnownEvent},
		{"case and whitespace", "  MONTE CARLO Masters ", 0, models.SurfaceClay, SourceKnownEvent},
		{"clay indicator", "Copa Polvo de Ladrillo", 9, models.SurfaceClay, SourceIndicator},
		{"grass indicator", "Lawn Tennis Classic", 2, models.SurfaceGrass, SourceIndicator},
		{"hard indicator", "Indoor Championships", 5, models.SurfaceHard, SourceIndicator},
		{"seasonal clay", "Open Somewhere", 4, models.SurfaceClay, SourceSeasonal},
		{"seasonal grass", "Open Somewhere", 7, models.SurfaceGrass, SourceSeasonal},
		{"seasonal hard", "Open Somewhere", 10, models.SurfaceHard, SourceSeasonal},
		{"no month", "Open Somewhere", 0, models.SurfaceHard, SourceDefault},
		{"month out of range", "Open Somewhere", 13, models.SurfaceHard, SourceDefault},
		{"empty name", "", 5, models.SurfaceHard, SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, src := DetectWithSource(tt.tournament, tt.month)
			assert.Equal(t, tt.expected, s)
			assert.Equal(t, tt.source, src)
			assert.Equal(t, tt.expected, Detect(tt.tournament, tt.month))
		})
	}
}

func TestSeasonal(t *testing.T) {
	for m := 1; m <= 12; m++ {
		assert.True(t, Seasonal(m).IsValid(), "month %d", m)
	}
	assert.Equal(t, models.SurfaceClay, Seasonal(5))
	assert.Equal(t, models.SurfaceHard, Seasonal(-1))
}
