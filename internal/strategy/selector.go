package strategy

import (
	"fmt"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Selector names
const (
	SelectorThreshold  = "threshold"
	SelectorTopPercent = "top_percent"
	SelectorAll        = "all"
)

// Selector picks the bets to recommend out of the qualifying set
type Selector interface {
	Name() string
	Select(bets []models.ValueBet) []models.ValueBet
	GetParameters() map[string]interface{}
}

// StrategySummary aggregates a selection for reporting
type StrategySummary struct {
	Strategy          string  `json:"strategy"`
	BetCount          int     `json:"bet_count"`
	TotalStake        float64 `json:"total_stake"`
	AverageEdge       float64 `json:"average_edge"`
	AverageConfidence float64 `json:"average_confidence"`
	ExpectedReturn    float64 `json:"expected_return"`
	ExpectedROI       float64 `json:"expected_roi"`
}

// NewSelector builds a selector from its configured name
func NewSelector(name string, minValue, topPercent float64) (Selector, error) {
	switch name {
	case SelectorThreshold, "":
		return ThresholdSelector{MinValue: minValue}, nil
	case SelectorTopPercent:
		if topPercent <= 0 || topPercent > 100 {
			return nil, fmt.Errorf("top_percent must be in (0, 100], got %v", topPercent)
		}
		return TopPercentSelector{Percent: topPercent}, nil
	case SelectorAll:
		return AllSelector{}, nil
	default:
		return nil, fmt.Errorf("unknown selection strategy: %s", name)
	}
}

// ThresholdSelector keeps bets whose edge reaches a fixed value. A zero
// MinValue keeps everything, matching Qualifies.
type ThresholdSelector struct {
	MinValue float64
}

func (s ThresholdSelector) Name() string {
	return fmt.Sprintf("Fixed Threshold (%.1f%%)", s.MinValue*100)
}

func (s ThresholdSelector) Select(bets []models.ValueBet) []models.ValueBet {
	out := make([]models.ValueBet, 0, len(bets))
	for _, b := range bets {
		if Qualifies(b, s.MinValue) {
			out = append(out, b)
		}
	}
	return out
}

func (s ThresholdSelector) GetParameters() map[string]interface{} {
	return map[string]interface{}{"min_value": s.MinValue}
}

// TopPercentSelector keeps the best Percent of bets by edge, at least one
type TopPercentSelector struct {
	Percent float64
}

func (s TopPercentSelector) Name() string {
	return fmt.Sprintf("Top %.0f%%", s.Percent)
}

func (s TopPercentSelector) Select(bets []models.ValueBet) []models.ValueBet {
	if len(bets) == 0 {
		return []models.ValueBet{}
	}
	sorted := make([]models.ValueBet, len(bets))
	copy(sorted, bets)
	SortByEdge(sorted)

	count := int(float64(len(sorted)) * s.Percent / 100)
	if count < 1 {
		count = 1
	}
	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count]
}

func (s TopPercentSelector) GetParameters() map[string]interface{} {
	return map[string]interface{}{"top_percent": s.Percent}
}

// AllSelector passes every bet through
type AllSelector struct{}

func (AllSelector) Name() string { return "All Bets" }

func (AllSelector) Select(bets []models.ValueBet) []models.ValueBet {
	out := make([]models.ValueBet, len(bets))
	copy(out, bets)
	return out
}

func (AllSelector) GetParameters() map[string]interface{} {
	return map[string]interface{}{}
}

// Summarize computes totals and averages over bets
func Summarize(strategy string, bets []models.ValueBet) StrategySummary {
	sum := StrategySummary{Strategy: strategy, BetCount: len(bets)}
	if len(bets) == 0 {
		return sum
	}

	var edge, confidence float64
	for _, b := range bets {
		sum.TotalStake += b.RecommendedStake
		sum.ExpectedReturn += b.ExpectedValue()
		edge += b.Edge
		confidence += b.ConfidenceScore
	}
	sum.AverageEdge = edge / float64(len(bets))
	sum.AverageConfidence = confidence / float64(len(bets))
	if sum.TotalStake > 0 {
		sum.ExpectedROI = sum.ExpectedReturn / sum.TotalStake
	}
	return sum
}
