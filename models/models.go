package models

import (
	"time"
)

// Candle represents a single OHLCV candle from the exchange.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// AssetSnapshot holds the per-cycle market statistics for one candidate coin.
// Snapshots are produced fresh each ranking cycle and never mutated.
type AssetSnapshot struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price"`
	PriceChange1D float64 `json:"price_change_1d"` // signed percent
	PriceChange7D float64 `json:"price_change_7d"` // signed percent
	Volatility    float64 `json:"volatility"`      // std-dev of daily returns, percent
	Volume24H     float64 `json:"volume_24h"`
	AvgVolume     float64 `json:"avg_volume"`
}

// SentimentTrend describes the recent direction of the fear/greed index.
type SentimentTrend string

const (
	TrendRising       SentimentTrend = "rising"
	TrendFalling      SentimentTrend = "falling"
	TrendFlat         SentimentTrend = "flat"
	TrendInsufficient SentimentTrend = "insufficient"
)

// SentimentBand is the classification bucket of a fear/greed value.
type SentimentBand string

const (
	BandExtremeFear  SentimentBand = "extreme_fear"
	BandFear         SentimentBand = "fear"
	BandNeutral      SentimentBand = "neutral"
	BandGreed        SentimentBand = "greed"
	BandExtremeGreed SentimentBand = "extreme_greed"
)

// SentimentSnapshot is the analyzed fear/greed index state for one cycle.
type SentimentSnapshot struct {
	CurrentValue   int            `json:"current_value"` // 0-100
	RollingAverage float64        `json:"rolling_average"`
	Trend          SentimentTrend `json:"trend"`
	Classification SentimentBand  `json:"classification"`
}

// TrendMention is a news-derived trending signal for one coin.
type TrendMention struct {
	Symbol        string  `json:"symbol"`
	MentionCount  int     `json:"mention_count"`
	AvgSentiment  float64 `json:"avg_sentiment"`  // clamped to [-1, 1]
	TrendingScore float64 `json:"trending_score"` // mention_count * (1 + avg_sentiment)
}

// RankedCandidate is one scored entry in a ranking cycle's output.
type RankedCandidate struct {
	Symbol        string  `json:"symbol"`
	BaseScore     float64 `json:"base_score"`
	TrendingBonus float64 `json:"trending_bonus"`
	FinalScore    float64 `json:"final_score"`
}

// Action is a validated trade recommendation action.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// RiskLevel is the coarse risk tier attached to a recommendation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Recommendation is a validated trading recommendation, either from the
// advisor or from the fallback heuristic. Instances produced by the
// validator always satisfy the field domains.
type Recommendation struct {
	Action        Action    `json:"recommendation"`
	Confidence    int       `json:"confidence"` // 1-10
	RiskLevel     RiskLevel `json:"risk_level"`
	Justification string    `json:"justification"`
	NewsImpact    string    `json:"news_impact"`
	KeyFactors    []string  `json:"key_factors"`
}

// InvestmentStatus is a read-only balance snapshot for the active coin.
// AvgBuyPrice is zero when the exchange reports no position.
type InvestmentStatus struct {
	KRWBalance       float64 `json:"krw_balance"`
	CoinBalance      float64 `json:"coin_balance"`
	CoinCurrentPrice float64 `json:"coin_current_price"`
	CoinValue        float64 `json:"coin_value"`
	AvgBuyPrice      float64 `json:"avg_buy_price,omitempty"`
	TotalAsset       float64 `json:"total_asset"`
}

// IntentState is the terminal state of one execution cycle.
type IntentState string

const (
	IntentExecuted IntentState = "executed"
	IntentSkipped  IntentState = "skipped"
	IntentRejected IntentState = "rejected"
)

// TradeIntent is the sole output of the trade executor. Amount is KRW for
// buys and coin quantity for sells. The intent does not place the order;
// submitting it to the exchange is the caller's job.
type TradeIntent struct {
	ID           string      `json:"id"`
	Action       Action      `json:"action"`
	Symbol       string      `json:"symbol"`
	Amount       float64     `json:"amount"`
	RatioApplied float64     `json:"ratio_applied"`
	State        IntentState `json:"state"`
	Reason       string      `json:"reason"`
	CreatedAt    time.Time   `json:"created_at"`
}

// OrderResult is the exchange's acknowledgement of a submitted order.
type OrderResult struct {
	UUID      string    `json:"uuid"`
	Side      string    `json:"side"`
	Market    string    `json:"market"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderbookUnit is one bid/ask level.
type OrderbookUnit struct {
	BidPrice float64 `json:"bid_price"`
	BidSize  float64 `json:"bid_size"`
	AskPrice float64 `json:"ask_price"`
	AskSize  float64 `json:"ask_size"`
}

// Orderbook is the current top-of-book state for a market.
type Orderbook struct {
	Market       string          `json:"market"`
	TotalBidSize float64         `json:"total_bid_size"`
	TotalAskSize float64         `json:"total_ask_size"`
	Units        []OrderbookUnit `json:"orderbook_units"`
}

// NewsHeadline is a single news item used for trending analysis and
// included in the advisor payload.
type NewsHeadline struct {
	Title          string  `json:"title"`
	Snippet        string  `json:"snippet,omitempty"`
	Source         string  `json:"source,omitempty"`
	SentimentScore float64 `json:"sentiment_score"`
}

// AdvisorContext is the full market context handed to the advisor for one
// decision cycle. Optional fields are omitted when the upstream fetch failed.
type AdvisorContext struct {
	Symbol           string             `json:"selected_coin"`
	CurrentPrice     float64            `json:"current_price"`
	DailyCandles     []Candle           `json:"daily_candles,omitempty"`
	HourlyCandles    []Candle           `json:"hourly_candles,omitempty"`
	Orderbook        *Orderbook         `json:"orderbook,omitempty"`
	FearGreed        *SentimentSnapshot `json:"fear_greed,omitempty"`
	InvestmentStatus *InvestmentStatus  `json:"investment_status"`
	NewsHeadlines    []NewsHeadline     `json:"news_headlines,omitempty"`
}
