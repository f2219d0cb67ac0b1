package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nubro999/AutoTrading/models"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		level    models.RiskLevel
		expected float64
	}{
		{name: "high risk trades smallest", level: models.RiskHigh, expected: 0.10},
		{name: "medium risk", level: models.RiskMedium, expected: 0.20},
		{name: "low risk trades largest", level: models.RiskLow, expected: 0.30},
		{name: "unknown level treated as high risk", level: models.RiskLevel("extreme"), expected: 0.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Ratio(tt.level), 1e-9)
		})
	}
}

func TestSize(t *testing.T) {
	status := &models.InvestmentStatus{
		KRWBalance:  1_000_000,
		CoinBalance: 0.5,
	}

	size := Size(models.RiskMedium, status)
	assert.InDelta(t, 200_000, size.MaxBuyAmount, 1e-9)
	assert.InDelta(t, 0.1, size.MaxSellAmount, 1e-9)
	assert.InDelta(t, 0.20, size.Ratio, 1e-9)

	size = Size(models.RiskLow, status)
	assert.InDelta(t, 300_000, size.MaxBuyAmount, 1e-9)
	assert.InDelta(t, 0.15, size.MaxSellAmount, 1e-9)

	size = Size(models.RiskHigh, status)
	assert.InDelta(t, 100_000, size.MaxBuyAmount, 1e-9)
	assert.InDelta(t, 0.05, size.MaxSellAmount, 1e-9)
}

func TestSizeEmptyBalances(t *testing.T) {
	size := Size(models.RiskLow, &models.InvestmentStatus{})
	assert.Zero(t, size.MaxBuyAmount)
	assert.Zero(t, size.MaxSellAmount)
}
