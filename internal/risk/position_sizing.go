package risk

import (
	"github.com/nubro999/AutoTrading/models"
)

// Risk tier to trade-ratio table. A low-risk recommendation implies a
// higher safety margin, so the system commits more capital to it.
var tradeRatios = map[models.RiskLevel]float64{
	models.RiskHigh:   0.10,
	models.RiskMedium: 0.20,
	models.RiskLow:    0.30,
}

// TradeSize holds position sizing calculation results.
type TradeSize struct {
	MaxBuyAmount  float64 `json:"max_buy_krw"`   // KRW
	MaxSellAmount float64 `json:"max_sell_coin"` // coin quantity
	Ratio         float64 `json:"trade_ratio"`
}

// Ratio returns the capital-allocation ratio for a risk tier. Unknown
// tiers fall back to the most conservative ratio.
func Ratio(level models.RiskLevel) float64 {
	if r, ok := tradeRatios[level]; ok {
		return r
	}
	return tradeRatios[models.RiskHigh]
}

// Size computes the bounded order size for the given balances. Pure
// function: balances scale both amounts linearly.
func Size(level models.RiskLevel, status *models.InvestmentStatus) TradeSize {
	ratio := Ratio(level)
	return TradeSize{
		MaxBuyAmount:  status.KRWBalance * ratio,
		MaxSellAmount: status.CoinBalance * ratio,
		Ratio:         ratio,
	}
}
