package models

import (
	"fmt"
	"strings"
)

// Surface is a tennis court type
type Surface string

const (
	SurfaceHard  Surface = "Hard"
	SurfaceClay  Surface = "Clay"
	SurfaceGrass Surface = "Grass"
)

// Surfaces lists every rated surface in export order
var Surfaces = []Surface{SurfaceHard, SurfaceClay, SurfaceGrass}

// ParseSurface converts a free-form surface label into a Surface
func ParseSurface(s string) (Surface, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hard":
		return SurfaceHard, nil
	case "clay":
		return SurfaceClay, nil
	case "grass":
		return SurfaceGrass, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSurface, s)
	}
}

// IsValid reports whether s is one of the rated surfaces
func (s Surface) IsValid() bool {
	return s == SurfaceHard || s == SurfaceClay || s == SurfaceGrass
}

// String returns the surface label
func (s Surface) String() string {
	return string(s)
}

// SurfaceWeights blends surface ratings into the overall rating
type SurfaceWeights struct {
	Hard  float64 `json:"hard"`
	Clay  float64 `json:"clay"`
	Grass float64 `json:"grass"`
}

// DefaultSurfaceWeights returns the 0.5/0.3/0.2 blend
func DefaultSurfaceWeights() SurfaceWeights {
	return SurfaceWeights{Hard: 0.5, Clay: 0.3, Grass: 0.2}
}

// Blend computes the weighted overall rating
func (w SurfaceWeights) Blend(hard, clay, grass float64) float64 {
	return w.Hard*hard + w.Clay*clay + w.Grass*grass
}
