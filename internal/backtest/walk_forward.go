package backtest

import (
	"sort"
	"strconv"
	"time"
)

// Window is the scored slice of one calendar year
type Window struct {
	Label   string    `json:"label"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Metrics Metrics   `json:"metrics"`
}

// YearlyWindows groups predictions by calendar year, oldest first. Ratings
// carry over between windows, so each year is an out-of-sample test of the
// ratings built from everything before it.
func YearlyWindows(predictions []Prediction) []Window {
	byYear := make(map[int][]Prediction)
	for _, p := range predictions {
		byYear[p.Date.Year()] = append(byYear[p.Date.Year()], p)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	windows := make([]Window, 0, len(years))
	for _, y := range years {
		windows = append(windows, Window{
			Label:   strconv.Itoa(y),
			Start:   time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC),
			Metrics: CalculateMetrics(byYear[y]),
		})
	}
	return windows
}

// CalculateConsistency returns the share of windows whose accuracy beats a
// coin flip
func CalculateConsistency(windows []Window) float64 {
	if len(windows) == 0 {
		return 0
	}
	better := 0
	for _, w := range windows {
		if w.Metrics.Accuracy > 0.5 {
			better++
		}
	}
	return float64(better) / float64(len(windows))
}
