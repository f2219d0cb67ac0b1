package signal

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nubro999/AutoTrading/models"
)

// DefaultWorkers bounds concurrent snapshot fetches per cycle.
const DefaultWorkers = 10

// Aggregator collects the per-cycle market and sentiment signals the
// ranker consumes. Snapshot fetches are independent reads, so they run on
// a bounded worker pool; a candidate whose fetch fails is dropped from
// this cycle and reconsidered on the next one.
type Aggregator struct {
	market    models.MarketGateway
	sentiment models.SentimentGateway
	workers   int
	logger    zerolog.Logger
}

// NewAggregator creates an Aggregator. workers <= 0 selects the default
// pool size.
func NewAggregator(market models.MarketGateway, sentiment models.SentimentGateway, workers int) *Aggregator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Aggregator{
		market:    market,
		sentiment: sentiment,
		workers:   workers,
		logger:    log.With().Str("component", "signal_aggregator").Logger(),
	}
}

// CollectSnapshots fetches an AssetSnapshot for every symbol, tolerating
// partial failures. Results come back sorted by symbol so downstream
// scoring sees a reproducible order.
func (a *Aggregator) CollectSnapshots(ctx context.Context, symbols []string) []models.AssetSnapshot {
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		snapshots []models.AssetSnapshot
	)
	sem := make(chan struct{}, a.workers)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			snap, err := a.market.GetSnapshot(ctx, symbol)
			if err != nil {
				a.logger.Warn().Err(err).Str("symbol", symbol).Msg("dropping candidate: snapshot fetch failed")
				return
			}
			mu.Lock()
			snapshots = append(snapshots, *snap)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Symbol < snapshots[j].Symbol
	})

	a.logger.Debug().
		Int("requested", len(symbols)).
		Int("collected", len(snapshots)).
		Msg("collected candidate snapshots")
	return snapshots
}

// CollectSentiment fetches the fear/greed snapshot. A failure is not
// fatal; callers treat a nil snapshot as "no sentiment signal".
func (a *Aggregator) CollectSentiment(ctx context.Context) *models.SentimentSnapshot {
	snap, err := a.sentiment.GetFearGreed(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("fear/greed fetch failed, continuing without sentiment")
		return nil
	}
	return snap
}

// CollectTrends fetches news-derived trending signals. Absence of a trend
// entry for a symbol is neutral, so failures degrade to an empty list.
func (a *Aggregator) CollectTrends(ctx context.Context, symbols []string) []models.TrendMention {
	if a.sentiment == nil {
		return nil
	}
	mentions, err := a.sentiment.GetTrendMentions(ctx, symbols)
	if err != nil {
		a.logger.Warn().Err(err).Msg("trend mention fetch failed, continuing without news signal")
		return nil
	}
	return mentions
}
