package sentiment

import (
	"fmt"

	"github.com/nubro999/AutoTrading/models"
)

// Fear/greed thresholds partition [0,100] into five ordered bands.
const (
	ExtremeFearThreshold = 25
	FearThreshold        = 45
	NeutralThreshold     = 55
	GreedThreshold       = 75
)

// Classify maps a fear/greed value to its band.
func Classify(value int) models.SentimentBand {
	switch {
	case value <= ExtremeFearThreshold:
		return models.BandExtremeFear
	case value <= FearThreshold:
		return models.BandFear
	case value <= NeutralThreshold:
		return models.BandNeutral
	case value <= GreedThreshold:
		return models.BandGreed
	default:
		return models.BandExtremeGreed
	}
}

// Analyze builds a SentimentSnapshot from index values ordered newest first.
// The rolling average covers every value supplied (the gateway fetches a
// fixed trailing window). Trend needs at least 3 samples.
func Analyze(values []int) (*models.SentimentSnapshot, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no fear/greed samples")
	}
	for _, v := range values {
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("fear/greed value out of range: %d", v)
		}
	}

	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))

	trend := models.TrendInsufficient
	if len(values) >= 3 {
		switch {
		case values[0] > values[2]:
			trend = models.TrendRising
		case values[0] < values[2]:
			trend = models.TrendFalling
		default:
			trend = models.TrendFlat
		}
	}

	return &models.SentimentSnapshot{
		CurrentValue:   values[0],
		RollingAverage: avg,
		Trend:          trend,
		Classification: Classify(values[0]),
	}, nil
}

// TradeFactor converts the current index value into a threshold shift used
// by the fallback heuristic. Positive values favor buying, negative favor
// selling. Extreme greed only triggers at the greed threshold plus 25.
func TradeFactor(s *models.SentimentSnapshot) float64 {
	if s == nil {
		return 0
	}
	v := s.CurrentValue
	switch {
	case v <= ExtremeFearThreshold:
		return 0.05
	case v <= FearThreshold:
		return 0.02
	case v >= GreedThreshold+25:
		return -0.05
	case v >= NeutralThreshold:
		return -0.02
	default:
		return 0
	}
}
