package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nubro999/AutoTrading/internal/api/feargreed"
	"github.com/nubro999/AutoTrading/internal/api/openai"
	"github.com/nubro999/AutoTrading/internal/api/serpapi"
	"github.com/nubro999/AutoTrading/internal/api/upbit"
	"github.com/nubro999/AutoTrading/internal/database"
	"github.com/nubro999/AutoTrading/internal/execution"
	"github.com/nubro999/AutoTrading/internal/news"
	"github.com/nubro999/AutoTrading/internal/notify"
	"github.com/nubro999/AutoTrading/internal/portfolio"
	"github.com/nubro999/AutoTrading/internal/ranking"
	"github.com/nubro999/AutoTrading/internal/recommend"
	"github.com/nubro999/AutoTrading/internal/signal"
	"github.com/nubro999/AutoTrading/models"
)

// defaultMarket is traded when auto-selection cannot produce a candidate.
const defaultMarket = "KRW-BTC"

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
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	if cfg.UpbitAccessKey == "" || cfg.UpbitSecretKey == "" {
		log.Fatal().Msg("UPBIT_ACCESS_KEY and UPBIT_SECRET_KEY are required")
	}

	t, err := newTrader(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize trader")
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t.run(ctx)
}

// sentimentGateway combines the fear/greed index and the optional news
// trending source behind one interface. A nil news client disables the
// trending signal without disabling sentiment.
type sentimentGateway struct {
	fng  *feargreed.Client
	news *serpapi.Client
}

func (g *sentimentGateway) GetFearGreed(ctx context.Context) (*models.SentimentSnapshot, error) {
	return g.fng.GetFearGreed(ctx)
}

func (g *sentimentGateway) GetTrendMentions(ctx context.Context, symbols []string) ([]models.TrendMention, error) {
	if g.news == nil {
		return nil, nil
	}
	headlines, err := g.news.CryptoHeadlines(ctx)
	if err != nil {
		return nil, err
	}
	return news.Mentions(headlines, symbols), nil
}

type trader struct {
	cfg        models.Config
	market     models.MarketGateway
	advisor    models.AdvisorGateway
	aggregator *signal.Aggregator
	executor   *execution.Executor
	portfolio  *portfolio.Manager
	newsClient *serpapi.Client
	store      *database.DB
	notifier   *notify.Notifier
	logger     zerolog.Logger

	symbol       string
	lastSelected time.Time
	summaryDay   time.Time
}

func newTrader(cfg models.Config) (*trader, error) {
	requestTimeout := time.Duration(cfg.RequestTimeout) * time.Second

	market := upbit.NewClient(upbit.ClientOptions{
		AccessKey:      cfg.UpbitAccessKey,
		SecretKey:      cfg.UpbitSecretKey,
		RequestTimeout: requestTimeout,
	})

	advisor := openai.NewClient(openai.ClientOptions{
		APIKey:  cfg.OpenAIAPIKey,
		Timeout: time.Duration(cfg.AdvisorTimeout) * time.Second,
	})

	fng := feargreed.NewClient(feargreed.ClientOptions{
		Limit:          cfg.FearGreedLimit,
		RequestTimeout: requestTimeout,
	})

	var newsClient *serpapi.Client
	if cfg.NewsAnalysisEnabled && cfg.SerpAPIKey != "" {
		newsClient = serpapi.NewClient(serpapi.ClientOptions{
			APIKey:         cfg.SerpAPIKey,
			RequestTimeout: requestTimeout,
		})
	}

	sentiments := &sentimentGateway{fng: fng, news: newsClient}

	var store *database.DB
	if cfg.DatabaseURL != "" {
		var err error
		store, err = database.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
	}

	var notifier *notify.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		var err error
		notifier, err = notify.New(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
	}

	return &trader{
		cfg:        cfg,
		market:     market,
		advisor:    advisor,
		aggregator: signal.NewAggregator(market, sentiments, cfg.SignalWorkers),
		executor:   execution.New(cfg.MinConfidence, cfg.MinTradeAmount),
		portfolio:  portfolio.NewManager(market),
		newsClient: newsClient,
		store:      store,
		notifier:   notifier,
		logger:     log.With().Str("component", "trader").Logger(),
	}, nil
}

// run executes decision cycles until the context is cancelled.
func (t *trader) run(ctx context.Context) {
	interval := time.Duration(t.cfg.TradeInterval) * time.Second
	t.logger.Info().
		Dur("interval", interval).
		Bool("dry_run", t.cfg.DryRun).
		Str("target_coin", t.cfg.TargetCoin).
		Msg("starting trading loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := t.cycle(ctx); err != nil {
			t.logger.Error().Err(err).Str("symbol", t.symbol).Msg("decision cycle failed")
			t.notifier.CycleError(t.symbol, err)
		}
		t.maybeSendSummary()

		select {
		case <-ctx.Done():
			t.logger.Info().Msg("shutting down")
			return
		case <-ticker.C:
		}
	}
}

// cycle runs one full decision pass: select a coin, gather context, obtain
// a recommendation, evaluate it, and submit the order when feasible.
func (t *trader) cycle(ctx context.Context) error {
	if err := t.selectCoin(ctx); err != nil {
		return err
	}

	status, err := t.portfolio.Status(ctx, t.symbol)
	if err != nil {
		return fmt.Errorf("fetch investment status: %w", err)
	}
	t.portfolio.LogStatus(status)

	payload := t.gatherContext(ctx, status)

	rec, source := t.advise(ctx, payload)

	intent, err := t.executor.Evaluate(t.symbol, rec, status)
	if err != nil {
		return fmt.Errorf("evaluate recommendation: %w", err)
	}

	var result *models.OrderResult
	if intent.State == models.IntentExecuted {
		if t.cfg.DryRun {
			t.logger.Info().
				Str("action", string(intent.Action)).
				Float64("amount", intent.Amount).
				Msg("dry run: order not submitted")
		} else {
			result, err = t.market.SubmitOrder(ctx, intent)
			if err != nil {
				return fmt.Errorf("submit order: %w", err)
			}
			t.notifier.TradeExecuted(intent, result)
		}
	}

	t.persist(rec, source, intent, result, payload)
	return nil
}

// selectCoin resolves the active market. A pinned TARGET_COIN short-circuits
// ranking; otherwise the ranked universe is re-evaluated on the selection
// cadence.
func (t *trader) selectCoin(ctx context.Context) error {
	if t.cfg.TargetCoin != "" && t.cfg.TargetCoin != "AUTO" {
		t.symbol = t.cfg.TargetCoin
		return nil
	}

	cadence := time.Duration(t.cfg.CoinSelectionInterval) * time.Second
	if t.symbol != "" && time.Since(t.lastSelected) < cadence {
		return nil
	}

	universe := news.SupportedSymbols()
	snapshots := t.aggregator.CollectSnapshots(ctx, universe)
	if len(snapshots) == 0 {
		// Cycle-fatal: selection state stays untouched so the next cycle
		// retries against a hopefully recovered exchange.
		return fmt.Errorf("no tradable candidates: every snapshot fetch failed")
	}
	trends := t.aggregator.CollectTrends(ctx, universe)

	ranked := ranking.Rank(snapshots, trends)
	previous := t.symbol
	t.symbol = ranking.Select(ranked, defaultMarket)
	t.lastSelected = time.Now()

	t.logger.Info().
		Str("symbol", t.symbol).
		Float64("score", ranked[0].FinalScore).
		Int("candidates", len(ranked)).
		Msg("selected coin")
	if previous != "" && previous != t.symbol {
		t.logger.Info().Str("from", previous).Str("to", t.symbol).Msg("switched active market")
	}
	return nil
}

// gatherContext collects everything the advisor sees. Every field besides
// the current price and balances is optional; failed fetches degrade to
// omitted fields rather than aborting the cycle.
func (t *trader) gatherContext(ctx context.Context, status *models.InvestmentStatus) *models.AdvisorContext {
	payload := &models.AdvisorContext{
		Symbol:           t.symbol,
		CurrentPrice:     status.CoinCurrentPrice,
		InvestmentStatus: status,
	}

	if daily, err := t.market.GetCandles(ctx, t.symbol, "day", t.cfg.DailyCandleCount); err != nil {
		t.logger.Warn().Err(err).Msg("daily candle fetch failed")
	} else {
		payload.DailyCandles = daily
	}

	if hourly, err := t.market.GetCandles(ctx, t.symbol, "minute60", t.cfg.HourlyCandleCount); err != nil {
		t.logger.Warn().Err(err).Msg("hourly candle fetch failed")
	} else {
		payload.HourlyCandles = hourly
	}

	if ob, err := t.market.GetOrderbook(ctx, t.symbol); err != nil {
		t.logger.Warn().Err(err).Msg("orderbook fetch failed")
	} else {
		payload.Orderbook = ob
	}

	payload.FearGreed = t.aggregator.CollectSentiment(ctx)

	if t.newsClient != nil {
		if headlines, err := t.newsClient.CryptoHeadlines(ctx); err != nil {
			t.logger.Warn().Err(err).Msg("news headline fetch failed")
		} else {
			payload.NewsHeadlines = headlines
		}
	}

	return payload
}

// advise asks the advisor first and falls back to the local heuristic when
// the advisor fails, times out, or returns an invalid object. The returned
// source is "advisor", "fallback" or "safe_hold".
func (t *trader) advise(ctx context.Context, payload *models.AdvisorContext) (*models.Recommendation, string) {
	raw, err := t.advisor.Recommend(ctx, payload)
	if err != nil {
		t.logger.Warn().Err(err).Msg("advisor unavailable, using fallback heuristic")
	} else {
		rec, verr := recommend.Validate(raw)
		if verr == nil {
			return rec, "advisor"
		}
		t.logger.Warn().Err(verr).Msg("advisor response invalid, using fallback heuristic")
	}

	closes := make([]float64, 0, len(payload.DailyCandles))
	for _, c := range payload.DailyCandles {
		closes = append(closes, c.Close)
	}

	rec, err := recommend.Fallback(closes, payload.CurrentPrice, payload.FearGreed)
	if err != nil {
		t.logger.Warn().Err(err).Msg("fallback heuristic unavailable")
		return recommend.SafeHold("no usable market data"), "safe_hold"
	}
	return rec, "fallback"
}

// persist writes the cycle outcome to the decision log, if configured.
func (t *trader) persist(rec *models.Recommendation, source string, intent *models.TradeIntent, result *models.OrderResult, payload *models.AdvisorContext) {
	if t.store == nil {
		return
	}

	fng := 0
	if payload.FearGreed != nil {
		fng = payload.FearGreed.CurrentValue
	}

	err := t.store.RecordDecision(database.DecisionRecord{
		Symbol:        t.symbol,
		Action:        rec.Action,
		Confidence:    rec.Confidence,
		RiskLevel:     rec.RiskLevel,
		Justification: rec.Justification,
		Source:        source,
		FearGreed:     fng,
		CurrentPrice:  payload.CurrentPrice,
		IntentState:   intent.State,
		IntentReason:  intent.Reason,
		Amount:        intent.Amount,
	})
	if err != nil {
		t.logger.Warn().Err(err).Msg("failed to record decision")
	}

	if result != nil {
		if err := t.store.RecordOrder(intent, result); err != nil {
			t.logger.Warn().Err(err).Msg("failed to record order")
		}
	}
}

// maybeSendSummary pushes a daily stats digest once per calendar day.
func (t *trader) maybeSendSummary() {
	if t.store == nil || t.notifier == nil {
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	if !today.After(t.summaryDay) {
		return
	}
	if t.summaryDay.IsZero() {
		// first cycle after startup, nothing to summarize yet
		t.summaryDay = today
		return
	}

	summary, err := t.store.Summary(t.summaryDay)
	if err != nil {
		t.logger.Warn().Err(err).Msg("failed to build daily summary")
		t.summaryDay = today
		return
	}
	if summary != nil {
		t.notifier.DailySummary(fmt.Sprintf(
			"📊 %s\nDecisions: %d (buy %d / sell %d / hold %d)\nExecuted: %d",
			summary.Day.Format("2006-01-02"),
			summary.Decisions, summary.Buys, summary.Sells, summary.Holds, summary.Executed,
		))
	}
	t.summaryDay = today
}
