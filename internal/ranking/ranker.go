package ranking

import (
	"sort"

	"github.com/nubro999/AutoTrading/models"
)

// Scoring constants. These are tuned empirically; keep them in sync with
// the documented thresholds before changing anything.
const (
	momentum1DMultiplier = 2.0
	momentum1DCap        = 25.0
	momentum1DDecayRate  = 1.5

	momentum7DCap = 15.0

	volumeRatioFloor = 1.5
	volumeMultiplier = 10.0
	volumeCap        = 20.0

	volatilityLow      = 2.0
	volatilityHigh     = 8.0
	volatilityBonus    = 20.0
	volatilityDecay    = 2.0

	majorTierBonus    = 20.0
	largeCapTierBonus = 10.0

	trendingWeight = 0.5
)

// Stability tiers. Unlisted symbols get no bonus.
var (
	majorTier    = map[string]bool{"KRW-BTC": true, "KRW-ETH": true}
	largeCapTier = map[string]bool{"KRW-XRP": true, "KRW-ADA": true, "KRW-SOL": true}
)

// Rank scores every candidate and returns them ordered by final score
// descending, ties broken by symbol. Deterministic for identical input.
// An empty candidate list yields an empty result; the caller supplies its
// own default symbol in that case.
func Rank(candidates []models.AssetSnapshot, trends []models.TrendMention) []models.RankedCandidate {
	trendBySymbol := make(map[string]models.TrendMention, len(trends))
	for _, t := range trends {
		trendBySymbol[t.Symbol] = t
	}

	ranked := make([]models.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		base := baseScore(c)
		bonus := 0.0
		if t, ok := trendBySymbol[c.Symbol]; ok {
			bonus = t.TrendingScore * trendingWeight
			if bonus < 0 {
				bonus = 0
			}
		}
		ranked = append(ranked, models.RankedCandidate{
			Symbol:        c.Symbol,
			BaseScore:     base,
			TrendingBonus: bonus,
			FinalScore:    base + bonus,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	return ranked
}

// Select returns the top-ranked symbol, or fallback when the candidate
// list is empty.
func Select(ranked []models.RankedCandidate, fallback string) string {
	if len(ranked) == 0 {
		return fallback
	}
	return ranked[0].Symbol
}

func baseScore(c models.AssetSnapshot) float64 {
	score := momentumScore(c.PriceChange1D, c.PriceChange7D)
	score += volumeScore(c.Volume24H, c.AvgVolume)
	score += volatilityScore(c.Volatility)
	score += stabilityScore(c.Symbol)
	return score
}

// momentumScore rewards gains harder than it penalizes losses.
func momentumScore(change1d, change7d float64) float64 {
	score := 0.0
	if change1d > 0 {
		score += min(change1d*momentum1DMultiplier, momentum1DCap)
	} else {
		score += change1d * momentum1DDecayRate
	}
	if change7d > 0 {
		score += min(change7d, momentum7DCap)
	} else {
		score += change7d
	}
	return score
}

func volumeScore(volume24h, avgVolume float64) float64 {
	if avgVolume == 0 {
		return 0
	}
	ratio := volume24h / avgVolume
	if ratio > volumeRatioFloor {
		return min((ratio-volumeRatioFloor)*volumeMultiplier, volumeCap)
	}
	return 0
}

// volatilityScore pays the full bonus inside the moderate band (2%, 8%)
// exclusive, then decays 2 points per percent above 8. Exactly 8 lands in
// the decay branch and still yields the full bonus; exactly 2 yields none.
func volatilityScore(volatility float64) float64 {
	switch {
	case volatility > volatilityLow && volatility < volatilityHigh:
		return volatilityBonus
	case volatility >= volatilityHigh:
		return max(0, volatilityBonus-volatilityDecay*(volatility-volatilityHigh))
	default:
		return 0
	}
}

func stabilityScore(symbol string) float64 {
	switch {
	case majorTier[symbol]:
		return majorTierBonus
	case largeCapTier[symbol]:
		return largeCapTierBonus
	default:
		return 0
	}
}
