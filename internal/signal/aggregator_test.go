package signal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nubro999/AutoTrading/models"
)

type fakeMarket struct {
	mu       sync.Mutex
	failing  map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeMarket) GetSnapshot(ctx context.Context, symbol string) (*models.AssetSnapshot, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if cur <= seen || f.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	fail := f.failing[symbol]
	f.mu.Unlock()
	if fail {
		return nil, errors.New("snapshot unavailable")
	}
	return &models.AssetSnapshot{Symbol: symbol, CurrentPrice: 100}, nil
}

func (f *fakeMarket) GetCandles(context.Context, string, string, int) ([]models.Candle, error) {
	return nil, nil
}

func (f *fakeMarket) GetCurrentPrice(context.Context, string) (float64, error) { return 0, nil }

func (f *fakeMarket) GetOrderbook(context.Context, string) (*models.Orderbook, error) {
	return nil, nil
}

func (f *fakeMarket) GetBalances(context.Context, string) (*models.InvestmentStatus, error) {
	return nil, nil
}

func (f *fakeMarket) SubmitOrder(context.Context, *models.TradeIntent) (*models.OrderResult, error) {
	return nil, nil
}

type fakeSentiment struct {
	snapshot *models.SentimentSnapshot
	mentions []models.TrendMention
	err      error
}

func (f *fakeSentiment) GetFearGreed(context.Context) (*models.SentimentSnapshot, error) {
	return f.snapshot, f.err
}

func (f *fakeSentiment) GetTrendMentions(context.Context, []string) ([]models.TrendMention, error) {
	return f.mentions, f.err
}

func TestCollectSnapshotsToleratesPartialFailure(t *testing.T) {
	market := &fakeMarket{failing: map[string]bool{"KRW-ETH": true}}
	a := NewAggregator(market, &fakeSentiment{}, 4)

	snapshots := a.CollectSnapshots(context.Background(), []string{"KRW-BTC", "KRW-ETH", "KRW-SOL"})
	require.Len(t, snapshots, 2)

	assert.Equal(t, "KRW-BTC", snapshots[0].Symbol)
	assert.Equal(t, "KRW-SOL", snapshots[1].Symbol)
}

func TestCollectSnapshotsSortsBySymbol(t *testing.T) {
	market := &fakeMarket{}
	a := NewAggregator(market, &fakeSentiment{}, 4)

	snapshots := a.CollectSnapshots(context.Background(), []string{"KRW-SOL", "KRW-ADA", "KRW-BTC"})
	require.Len(t, snapshots, 3)
	assert.Equal(t, "KRW-ADA", snapshots[0].Symbol)
	assert.Equal(t, "KRW-BTC", snapshots[1].Symbol)
	assert.Equal(t, "KRW-SOL", snapshots[2].Symbol)
}

func TestCollectSnapshotsBoundsConcurrency(t *testing.T) {
	market := &fakeMarket{delay: 20 * time.Millisecond}
	a := NewAggregator(market, &fakeSentiment{}, 3)

	symbols := make([]string, 12)
	for i := range symbols {
		symbols[i] = string(rune('A'+i)) + "-COIN"
	}

	snapshots := a.CollectSnapshots(context.Background(), symbols)
	assert.Len(t, snapshots, 12)
	assert.LessOrEqual(t, market.maxSeen.Load(), int32(3))
}

func TestCollectSnapshotsRespectsCancellation(t *testing.T) {
	market := &fakeMarket{delay: 50 * time.Millisecond}
	a := NewAggregator(market, &fakeSentiment{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		a.CollectSnapshots(ctx, []string{"KRW-BTC", "KRW-ETH", "KRW-SOL"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("aggregator did not return after cancellation")
	}
}

func TestCollectSentiment(t *testing.T) {
	snap := &models.SentimentSnapshot{CurrentValue: 30}
	a := NewAggregator(&fakeMarket{}, &fakeSentiment{snapshot: snap}, 1)
	assert.Equal(t, snap, a.CollectSentiment(context.Background()))
}

func TestCollectSentimentDegradesOnFailure(t *testing.T) {
	a := NewAggregator(&fakeMarket{}, &fakeSentiment{err: errors.New("fng down")}, 1)
	assert.Nil(t, a.CollectSentiment(context.Background()))
}

func TestCollectTrendsDegradesOnFailure(t *testing.T) {
	a := NewAggregator(&fakeMarket{}, &fakeSentiment{err: errors.New("news down")}, 1)
	assert.Nil(t, a.CollectTrends(context.Background(), []string{"KRW-BTC"}))
}

func TestDefaultWorkerCount(t *testing.T) {
	a := NewAggregator(&fakeMarket{}, &fakeSentiment{}, 0)
	assert.Equal(t, DefaultWorkers, a.workers)
}
