package recommend

import (
	"fmt"
	"math"

	"github.com/nubro999/AutoTrading/internal/sentiment"
	"github.com/nubro999/AutoTrading/models"
)

// FallbackWindow is how many trailing closes the heuristic averages.
const FallbackWindow = 5

// Fallback is the deterministic technical-plus-sentiment rule used when
// the advisor is unavailable or returns malformed output. Its output
// always satisfies the validator's invariants. The caller must supply at
// least FallbackWindow closes; use SafeHold when it cannot.
func Fallback(recentCloses []float64, currentPrice float64, s *models.SentimentSnapshot) (*models.Recommendation, error) {
	if len(recentCloses) < FallbackWindow {
		return nil, fmt.Errorf("need at least %d closes, got %d", FallbackWindow, len(recentCloses))
	}
	if currentPrice <= 0 {
		return nil, fmt.Errorf("invalid current price: %f", currentPrice)
	}

	window := recentCloses[len(recentCloses)-FallbackWindow:]
	sum := 0.0
	for _, c := range window {
		sum += c
	}
	avg := sum / FallbackWindow
	if avg <= 0 {
		return nil, fmt.Errorf("invalid average close: %f", avg)
	}

	factor := sentiment.TradeFactor(s)
	buyThreshold := 0.98 + factor
	sellThreshold := 1.05 - factor
	ratio := currentPrice / avg

	confidence := 5
	if math.Abs(factor) > 0.03 {
		confidence = 6
	}

	switch {
	case ratio < buyThreshold:
		return &models.Recommendation{
			Action:        models.ActionBuy,
			Confidence:    confidence,
			RiskLevel:     models.RiskMedium,
			Justification: "Price is below the 5-day average, considering the Fear & Greed Index.",
			NewsImpact:    "none",
			KeyFactors:    []string{},
		}, nil
	case ratio > sellThreshold:
		return &models.Recommendation{
			Action:        models.ActionSell,
			Confidence:    confidence,
			RiskLevel:     models.RiskMedium,
			Justification: "Price is above the 5-day average, considering the Fear & Greed Index.",
			NewsImpact:    "none",
			KeyFactors:    []string{},
		}, nil
	default:
		return &models.Recommendation{
			Action:        models.ActionHold,
			Confidence:    6,
			RiskLevel:     models.RiskLow,
			Justification: "Price is within a stable range.",
			NewsImpact:    "none",
			KeyFactors:    []string{},
		}, nil
	}
}

// SafeHold is the guaranteed-valid floor when even the fallback's
// preconditions cannot be met.
func SafeHold(reason string) *models.Recommendation {
	return &models.Recommendation{
		Action:        models.ActionHold,
		Confidence:    3,
		RiskLevel:     models.RiskHigh,
		Justification: "Safe hold recommended due to: " + reason,
		NewsImpact:    "none",
		KeyFactors:    []string{},
	}
}
