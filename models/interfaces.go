package models

import "context"

// MarketGateway is the exchange-facing capability consumed by the core.
// Implementations own their retry policy; the decision core never retries.
type MarketGateway interface {
	GetSnapshot(ctx context.Context, symbol string) (*AssetSnapshot, error)
	GetCandles(ctx context.Context, symbol, interval string, count int) ([]Candle, error)
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
	GetOrderbook(ctx context.Context, symbol string) (*Orderbook, error)
	GetBalances(ctx context.Context, symbol string) (*InvestmentStatus, error)
	SubmitOrder(ctx context.Context, intent *TradeIntent) (*OrderResult, error)
}

// AdvisorGateway produces a raw recommendation object from the external
// reasoning service. The returned map must still pass validation.
type AdvisorGateway interface {
	Recommend(ctx context.Context, payload any) (map[string]any, error)
}

// SentimentGateway supplies the fear/greed index and news-derived
// trending signals.
type SentimentGateway interface {
	GetFearGreed(ctx context.Context) (*SentimentSnapshot, error)
	GetTrendMentions(ctx context.Context, symbols []string) ([]TrendMention, error)
}
