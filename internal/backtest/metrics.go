package backtest

import (
	"math"
	"time"
)

// probability floor for log loss
const minProb = 1e-15

// Metrics summarises the quality of a set of predictions
type Metrics struct {
	Predictions      int       `json:"predictions"`
	Correct          float64   `json:"correct"`
	Accuracy         float64   `json:"accuracy"`
	BrierScore       float64   `json:"brier_score"`
	BrierSkill       float64   `json:"brier_skill"`
	LogLoss          float64   `json:"log_loss"`
	MeanFavourite    float64   `json:"mean_favourite_prob"`
	FavouriteWinRate float64   `json:"favourite_win_rate"`
	EloGapStddev     float64   `json:"elo_gap_stddev"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
}

// CalculateMetrics scores predictions. A coin-flip prediction counts as half
// correct. BrierSkill compares against always predicting 50%.
func CalculateMetrics(predictions []Prediction) Metrics {
	m := Metrics{Predictions: len(predictions)}
	if len(predictions) == 0 {
		return m
	}

	brier := make([]float64, 0, len(predictions))
	logLoss := make([]float64, 0, len(predictions))
	favourites := make([]float64, 0, len(predictions))
	gaps := make([]float64, 0, len(predictions))
	favouriteWins := 0

	m.StartDate = predictions[0].Date
	m.EndDate = predictions[0].Date
	for _, p := range predictions {
		switch {
		case p.WinnerProb > 0.5:
			m.Correct++
		case p.WinnerProb == 0.5:
			m.Correct += 0.5
		}

		miss := 1 - p.WinnerProb
		brier = append(brier, miss*miss)
		logLoss = append(logLoss, -math.Log(math.Max(p.WinnerProb, minProb)))

		fav, won := p.Favourite()
		favourites = append(favourites, fav)
		if won {
			favouriteWins++
		}
		gaps = append(gaps, p.WinnerElo-p.LoserElo)

		if p.Date.Before(m.StartDate) {
			m.StartDate = p.Date
		}
		if p.Date.After(m.EndDate) {
			m.EndDate = p.Date
		}
	}

	n := float64(len(predictions))
	m.Accuracy = m.Correct / n
	m.BrierScore = average(brier)
	m.BrierSkill = 1 - m.BrierScore/0.25
	m.LogLoss = average(logLoss)
	m.MeanFavourite = average(favourites)
	m.FavouriteWinRate = float64(favouriteWins) / n
	m.EloGapStddev = stddev(gaps)
	return m
}

// CalibrationBin compares predicted and observed favourite win rates over
// one probability range
type CalibrationBin struct {
	Lower         float64 `json:"lower"`
	Upper         float64 `json:"upper"`
	Count         int     `json:"count"`
	MeanPredicted float64 `json:"mean_predicted"`
	ObservedRate  float64 `json:"observed_rate"`
}

// Calibrate buckets the favourite probability of each prediction into bins
// equal-width bins over [0.5, 1]
func Calibrate(predictions []Prediction, bins int) []CalibrationBin {
	if bins < 1 {
		bins = defaultBins
	}
	width := 0.5 / float64(bins)
	out := make([]CalibrationBin, bins)
	sums := make([]float64, bins)
	wins := make([]int, bins)
	for i := range out {
		out[i].Lower = 0.5 + float64(i)*width
		out[i].Upper = 0.5 + float64(i+1)*width
	}

	for _, p := range predictions {
		fav, won := p.Favourite()
		idx := int((fav - 0.5) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
		sums[idx] += fav
		if won {
			wins[idx]++
		}
	}

	for i := range out {
		if out[i].Count == 0 {
			continue
		}
		out[i].MeanPredicted = sums[i] / float64(out[i].Count)
		out[i].ObservedRate = float64(wins[i]) / float64(out[i].Count)
	}
	return out
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
