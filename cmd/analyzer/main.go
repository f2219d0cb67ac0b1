// Command analyzer runs one ranking and recommendation pass and prints the
// result. It never submits orders, so it is safe to run against live keys.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nubro999/AutoTrading/internal/api/feargreed"
	"github.com/nubro999/AutoTrading/internal/api/upbit"
	"github.com/nubro999/AutoTrading/internal/news"
	"github.com/nubro999/AutoTrading/internal/ranking"
	"github.com/nubro999/AutoTrading/internal/recommend"
	"github.com/nubro999/AutoTrading/internal/sentiment"
	"github.com/nubro999/AutoTrading/internal/signal"
	"github.com/nubro999/AutoTrading/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	var cfg models.Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to parse configuration")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	requestTimeout := time.Duration(cfg.RequestTimeout) * time.Second
	market := upbit.NewClient(upbit.ClientOptions{
		AccessKey:      cfg.UpbitAccessKey,
		SecretKey:      cfg.UpbitSecretKey,
		RequestTimeout: requestTimeout,
	})
	fng := feargreed.NewClient(feargreed.ClientOptions{
		Limit:          cfg.FearGreedLimit,
		RequestTimeout: requestTimeout,
	})

	ctx := context.Background()
	aggregator := signal.NewAggregator(market, fngOnly{fng}, cfg.SignalWorkers)

	universe := news.SupportedSymbols()
	snapshots := aggregator.CollectSnapshots(ctx, universe)
	if len(snapshots) == 0 {
		log.Fatal().Msg("no market snapshots collected")
	}

	ranked := ranking.Rank(snapshots, nil)

	fmt.Println("===== COIN RANKING =====")
	for i, c := range ranked {
		fmt.Printf("%2d. %-10s base=%7.2f trending=%6.2f final=%7.2f\n",
			i+1, c.Symbol, c.BaseScore, c.TrendingBonus, c.FinalScore)
	}

	fngSnap := aggregator.CollectSentiment(ctx)
	if fngSnap != nil {
		fmt.Printf("\nFear/Greed: %d (%s, trend %s, avg %.1f, trade factor %+.2f)\n",
			fngSnap.CurrentValue, fngSnap.Classification, fngSnap.Trend,
			fngSnap.RollingAverage, sentiment.TradeFactor(fngSnap))
	}

	symbol := ranking.Select(ranked, "KRW-BTC")
	candles, err := market.GetCandles(ctx, symbol, "day", cfg.DailyCandleCount)
	if err != nil {
		log.Fatal().Err(err).Str("symbol", symbol).Msg("candle fetch failed")
	}
	price, err := market.GetCurrentPrice(ctx, symbol)
	if err != nil {
		log.Fatal().Err(err).Str("symbol", symbol).Msg("price fetch failed")
	}

	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
	}

	rec, err := recommend.Fallback(closes, price, fngSnap)
	if err != nil {
		log.Fatal().Err(err).Msg("heuristic recommendation failed")
	}

	fmt.Printf("\n===== HEURISTIC RECOMMENDATION (%s) =====\n", symbol)
	fmt.Printf("Action:     %s\n", rec.Action)
	fmt.Printf("Confidence: %d/10\n", rec.Confidence)
	fmt.Printf("Risk:       %s\n", rec.RiskLevel)
	fmt.Printf("Reason:     %s\n", rec.Justification)
}

// fngOnly adapts the fear/greed client to the sentiment gateway without a
// news source.
type fngOnly struct {
	fng *feargreed.Client
}

func (g fngOnly) GetFearGreed(ctx context.Context) (*models.SentimentSnapshot, error) {
	return g.fng.GetFearGreed(ctx)
}

func (g fngOnly) GetTrendMentions(context.Context, []string) ([]models.TrendMention, error) {
	return nil, nil
}
