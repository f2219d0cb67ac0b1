package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nubro999/AutoTrading/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		value    int
		expected models.SentimentBand
	}{
		{value: 0, expected: models.BandExtremeFear},
		{value: 25, expected: models.BandExtremeFear},
		{value: 26, expected: models.BandFear},
		{value: 45, expected: models.BandFear},
		{value: 46, expected: models.BandNeutral},
		{value: 55, expected: models.BandNeutral},
		{value: 56, expected: models.BandGreed},
		{value: 75, expected: models.BandGreed},
		{value: 76, expected: models.BandExtremeGreed},
		{value: 100, expected: models.BandExtremeGreed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.value), "value %d", tt.value)
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		values    []int
		wantTrend models.SentimentTrend
		wantAvg   float64
	}{
		{name: "rising", values: []int{60, 55, 50}, wantTrend: models.TrendRising, wantAvg: 55},
		{name: "falling", values: []int{30, 35, 40}, wantTrend: models.TrendFalling, wantAvg: 35},
		{name: "flat", values: []int{50, 45, 50}, wantTrend: models.TrendFlat, wantAvg: 48.333333},
		{name: "too few for trend", values: []int{50, 40}, wantTrend: models.TrendInsufficient, wantAvg: 45},
		{name: "single sample", values: []int{70}, wantTrend: models.TrendInsufficient, wantAvg: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Analyze(tt.values)
			require.NoError(t, err)

			assert.Equal(t, tt.values[0], snap.CurrentValue)
			assert.Equal(t, tt.wantTrend, snap.Trend)
			assert.InDelta(t, tt.wantAvg, snap.RollingAverage, 1e-5)
			assert.Equal(t, Classify(tt.values[0]), snap.Classification)
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(nil)
	assert.Error(t, err)

	_, err = Analyze([]int{50, 101})
	assert.Error(t, err)

	_, err = Analyze([]int{-1})
	assert.Error(t, err)
}

func TestTradeFactor(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		expected float64
	}{
		{name: "extreme fear favors buying", value: 10, expected: 0.05},
		{name: "extreme fear boundary", value: 25, expected: 0.05},
		{name: "fear", value: 40, expected: 0.02},
		{name: "neutral band is silent", value: 50, expected: 0},
		{name: "greed dampens buying", value: 60, expected: -0.02},
		{name: "high greed still mild", value: 90, expected: -0.02},
		{name: "index pegged at maximum", value: 100, expected: -0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &models.SentimentSnapshot{CurrentValue: tt.value}
			assert.InDelta(t, tt.expected, TradeFactor(s), 1e-9)
		})
	}
}

func TestTradeFactorNilSnapshot(t *testing.T) {
	assert.Zero(t, TradeFactor(nil))
}
