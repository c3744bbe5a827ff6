// Package surface infers the court surface of a tournament from its name,
// falling back to the calendar when the name carries no hint.
package surface

import (
	"strings"

	"github.com/yourusername/tennis-edge/internal/models"
)

type keywordSet struct {
	surface  models.Surface
	keywords []string
}

// Known events are checked in this order; the first hit wins.
var knownEvents = []keywordSet{
	{models.SurfaceClay, []string{
		"roland garros", "french open", "monte carlo", "rome", "madrid",
		"barcelona", "hamburg", "munich", "geneva", "estoril", "bucharest",
		"casablanca", "marrakech", "houston", "charleston", "strasbourg",
	}},
	{models.SurfaceGrass, []string{
		"wimbledon", "queens", "eastbourne", "s-hertogenbosch", "halle",
		"stuttgart", "mallorca", "newport",
	}},
	{models.SurfaceHard, []string{
		"australian open", "us open", "indian wells", "miami", "canada",
		"cincinnati", "washington", "atlanta", "los cabos", "winston-salem",
		"new york", "tokyo", "beijing", "shanghai", "paris masters", "atp finals",
	}},
}

// Generic indicator words, multilingual.
var indicators = []keywordSet{
	{models.SurfaceClay, []string{"clay", "terre", "polvo", "battue"}},
	{models.SurfaceGrass, []string{"grass", "lawn", "rasen"}},
	{models.SurfaceHard, []string{"hard", "indoor", "outdoor"}},
}

// seasonal maps a calendar month to the surface most of the tour plays on.
var seasonal = [13]models.Surface{
	1:  models.SurfaceHard,
	2:  models.SurfaceHard,
	3:  models.SurfaceHard,
	4:  models.SurfaceClay,
	5:  models.SurfaceClay,
	6:  models.SurfaceClay,
	7:  models.SurfaceGrass,
	8:  models.SurfaceHard,
	9:  models.SurfaceHard,
	10: models.SurfaceHard,
	11: models.SurfaceHard,
	12: models.SurfaceHard,
}

// Source tells how a surface was decided
type Source string

const (
	SourceKnownEvent Source = "known_event"
	SourceIndicator  Source = "indicator"
	SourceSeasonal   Source = "seasonal"
	SourceDefault    Source = "default"
)

// Detect returns the surface for a tournament name. month is 1-12, anything
// else disables the seasonal fallback.
func Detect(tournament string, month int) models.Surface {
	s, _ := DetectWithSource(tournament, month)
	return s
}

// DetectWithSource is Detect plus the rule that decided
func DetectWithSource(tournament string, month int) (models.Surface, Source) {
	name := strings.ToLower(strings.TrimSpace(tournament))
	if name == "" {
		return models.SurfaceHard, SourceDefault
	}

	if s, ok := lookup(knownEvents, name); ok {
		return s, SourceKnownEvent
	}
	if s, ok := lookup(indicators, name); ok {
		return s, SourceIndicator
	}
	if month >= 1 && month <= 12 {
		return seasonal[month], SourceSeasonal
	}
	return models.SurfaceHard, SourceDefault
}

func lookup(sets []keywordSet, name string) (models.Surface, bool) {
	for _, set := range sets {
		for _, kw := range set.keywords {
			if strings.Contains(name, kw) {
				return set.surface, true
			}
		}
	}
	return "", false
}

// Seasonal returns the calendar default for month, or Hard when month is out of range
func Seasonal(month int) models.Surface {
	if month >= 1 && month <= 12 {
		return seasonal[month]
	}
	return models.SurfaceHard
}
