package upbit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/nubro999/AutoTrading/internal/platform/http"
	"github.com/nubro999/AutoTrading/models"
)

// snapshotDays is the daily-candle window used to derive an AssetSnapshot.
const snapshotDays = 7

// Client is the Upbit exchange gateway. It implements models.MarketGateway
// and owns all retry policy for exchange traffic.
type Client struct {
	accessKey  string
	secretKey  string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Upbit client.
type ClientOptions struct {
	AccessKey      string
	SecretKey      string
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerSec int
}

// NewClient creates a new Upbit API client with rate limiting.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = "https://api.upbit.com"
	}
	if options.RequestTimeout == 0 {
		options.RequestTimeout = 10 * time.Second
	}
	if options.RequestsPerSec == 0 {
		options.RequestsPerSec = 5
	}

	return &Client{
		accessKey: options.AccessKey,
		secretKey: options.SecretKey,
		baseURL:   options.BaseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:        options.RequestTimeout,
			RequestsPerSec: options.RequestsPerSec,
		}),
		logger: log.With().Str("component", "upbit_client").Logger(),
	}
}

type candleResponse struct {
	CandleDateTimeUTC    string  `json:"candle_date_time_utc"`
	OpeningPrice         float64 `json:"opening_price"`
	HighPrice            float64 `json:"high_price"`
	LowPrice             float64 `json:"low_price"`
	TradePrice           float64 `json:"trade_price"`
	CandleAccTradeVolume float64 `json:"candle_acc_trade_volume"`
	Timestamp            int64   `json:"timestamp"`
}

type tickerResponse struct {
	Market     string  `json:"market"`
	TradePrice float64 `json:"trade_price"`
}

type accountResponse struct {
	Currency    string `json:"currency"`
	Balance     string `json:"balance"`
	Locked      string `json:"locked"`
	AvgBuyPrice string `json:"avg_buy_price"`
}

type orderResponse struct {
	UUID      string `json:"uuid"`
	Side      string `json:"side"`
	Market    string `json:"market"`
	Price     string `json:"price"`
	Volume    string `json:"volume"`
	CreatedAt string `json:"created_at"`
}

// GetCandles fetches OHLCV candles, oldest first. interval is "day" or
// "minute60".
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error) {
	var path string
	switch interval {
	case "day":
		path = "/v1/candles/days"
	case "minute60":
		path = "/v1/candles/minutes/60"
	default:
		return nil, fmt.Errorf("unsupported interval: %s", interval)
	}

	endpoint := fmt.Sprintf("%s%s?market=%s&count=%d", c.baseURL, path, symbol, count)

	var data []candleResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, nil, &data); err != nil {
		return nil, fmt.Errorf("fetching candles for %s: %w", symbol, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty candle data for %s", symbol)
	}

	// Upbit returns newest first; sort oldest first for calculations.
	sort.Slice(data, func(i, j int) bool {
		return data[i].Timestamp < data[j].Timestamp
	})

	candles := make([]models.Candle, 0, len(data))
	for _, v := range data {
		ts, _ := time.Parse("2006-01-02T15:04:05", v.CandleDateTimeUTC)
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      v.OpeningPrice,
			High:      v.HighPrice,
			Low:       v.LowPrice,
			Close:     v.TradePrice,
			Volume:    v.CandleAccTradeVolume,
		})
	}

	c.logger.Debug().Str("symbol", symbol).Int("count", len(candles)).Msg("fetched candles")
	return candles, nil
}

// GetCurrentPrice fetches the last trade price for a market.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v1/ticker?markets=%s", c.baseURL, symbol)

	var data []tickerResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, nil, &data); err != nil {
		return 0, fmt.Errorf("fetching ticker for %s: %w", symbol, err)
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("empty ticker data for %s", symbol)
	}
	return data[0].TradePrice, nil
}

// GetOrderbook fetches the current top-of-book state for a market.
func (c *Client) GetOrderbook(ctx context.Context, symbol string) (*models.Orderbook, error) {
	endpoint := fmt.Sprintf("%s/v1/orderbook?markets=%s", c.baseURL, symbol)

	var data []struct {
		Market       string  `json:"market"`
		TotalAskSize float64 `json:"total_ask_size"`
		TotalBidSize float64 `json:"total_bid_size"`
		Units        []struct {
			AskPrice float64 `json:"ask_price"`
			BidPrice float64 `json:"bid_price"`
			AskSize  float64 `json:"ask_size"`
			BidSize  float64 `json:"bid_size"`
		} `json:"orderbook_units"`
	}
	if err := c.httpClient.GetJSON(ctx, endpoint, nil, &data); err != nil {
		return nil, fmt.Errorf("fetching orderbook for %s: %w", symbol, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty orderbook data for %s", symbol)
	}

	book := &models.Orderbook{
		Market:       data[0].Market,
		TotalBidSize: data[0].TotalBidSize,
		TotalAskSize: data[0].TotalAskSize,
	}
	for _, u := range data[0].Units {
		book.Units = append(book.Units, models.OrderbookUnit{
			BidPrice: u.BidPrice,
			BidSize:  u.BidSize,
			AskPrice: u.AskPrice,
			AskSize:  u.AskSize,
		})
	}
	return book, nil
}

// GetSnapshot derives the per-cycle ranking statistics for one market
// from a week of daily candles plus the current price.
func (c *Client) GetSnapshot(ctx context.Context, symbol string) (*models.AssetSnapshot, error) {
	candles, err := c.GetCandles(ctx, symbol, "day", snapshotDays)
	if err != nil {
		return nil, err
	}
	if len(candles) < snapshotDays {
		return nil, fmt.Errorf("insufficient history for %s: %d candles", symbol, len(candles))
	}

	currentPrice, err := c.GetCurrentPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if currentPrice <= 0 {
		return nil, fmt.Errorf("invalid current price for %s: %f", symbol, currentPrice)
	}

	oldest := candles[0].Close
	prevDay := candles[len(candles)-2].Close

	change7d := 0.0
	if oldest > 0 {
		change7d = (currentPrice - oldest) / oldest * 100
	}
	change1d := 0.0
	if prevDay > 0 {
		change1d = (currentPrice - prevDay) / prevDay * 100
	}

	volumeSum := 0.0
	for _, candle := range candles {
		volumeSum += candle.Volume
	}

	return &models.AssetSnapshot{
		Symbol:        symbol,
		CurrentPrice:  currentPrice,
		PriceChange1D: change1d,
		PriceChange7D: change7d,
		Volatility:    dailyReturnStdDev(candles),
		Volume24H:     candles[len(candles)-1].Volume,
		AvgVolume:     volumeSum / float64(len(candles)),
	}, nil
}

// dailyReturnStdDev is the sample standard deviation of day-over-day
// close returns, in percent.
func dailyReturnStdDev(candles []models.Candle) float64 {
	var returns []float64
	for i := 1; i < len(candles); i++ {
		if candles[i-1].Close > 0 {
			returns = append(returns, (candles[i].Close-candles[i-1].Close)/candles[i-1].Close)
		}
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * 100
}

// GetBalances assembles the investment status for the given market.
func (c *Client) GetBalances(ctx context.Context, symbol string) (*models.InvestmentStatus, error) {
	token, err := c.authToken("")
	if err != nil {
		return nil, err
	}

	var accounts []accountResponse
	endpoint := c.baseURL + "/v1/accounts"
	if err := c.httpClient.GetJSON(ctx, endpoint, map[string]string{"Authorization": token}, &accounts); err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}

	currency := strings.TrimPrefix(symbol, "KRW-")
	status := &models.InvestmentStatus{}
	for _, acct := range accounts {
		balance, _ := strconv.ParseFloat(acct.Balance, 64)
		switch acct.Currency {
		case "KRW":
			status.KRWBalance = balance
		case currency:
			status.CoinBalance = balance
			status.AvgBuyPrice, _ = strconv.ParseFloat(acct.AvgBuyPrice, 64)
		}
	}

	price, err := c.GetCurrentPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	status.CoinCurrentPrice = price
	status.CoinValue = status.CoinBalance * price
	status.TotalAsset = status.KRWBalance + status.CoinValue

	return status, nil
}

// SubmitOrder places a market order for an executed trade intent. Buys
// spend Amount KRW; sells dispose Amount coin quantity.
func (c *Client) SubmitOrder(ctx context.Context, intent *models.TradeIntent) (*models.OrderResult, error) {
	if intent == nil || intent.State != models.IntentExecuted {
		return nil, fmt.Errorf("intent is not executable")
	}

	params := url.Values{}
	params.Set("market", intent.Symbol)
	switch intent.Action {
	case models.ActionBuy:
		params.Set("side", "bid")
		params.Set("ord_type", "price")
		params.Set("price", strconv.FormatFloat(intent.Amount, 'f', -1, 64))
	case models.ActionSell:
		params.Set("side", "ask")
		params.Set("ord_type", "market")
		params.Set("volume", strconv.FormatFloat(intent.Amount, 'f', -1, 64))
	default:
		return nil, fmt.Errorf("unsupported order action: %s", intent.Action)
	}

	token, err := c.authToken(params.Encode())
	if err != nil {
		return nil, err
	}

	bodyFields := make(map[string]string, len(params))
	for k := range params {
		bodyFields[k] = params.Get(k)
	}
	body, err := json.Marshal(bodyFields)
	if err != nil {
		return nil, fmt.Errorf("encoding order body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating order request: %w", err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submitting order: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading order response: %w", err)
	}

	var order orderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("parsing order response: %w", err)
	}

	price, _ := strconv.ParseFloat(order.Price, 64)
	volume, _ := strconv.ParseFloat(order.Volume, 64)
	createdAt, _ := time.Parse(time.RFC3339, order.CreatedAt)

	c.logger.Info().
		Str("uuid", order.UUID).
		Str("market", order.Market).
		Str("side", order.Side).
		Msg("order submitted")

	return &models.OrderResult{
		UUID:      order.UUID,
		Side:      order.Side,
		Market:    order.Market,
		Price:     price,
		Volume:    volume,
		CreatedAt: createdAt,
	}, nil
}
