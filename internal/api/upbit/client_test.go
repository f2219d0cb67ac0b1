package upbit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nubro999/AutoTrading/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientOptions{
		AccessKey:      "test-access",
		SecretKey:      "test-secret",
		BaseURL:        srv.URL,
		RequestsPerSec: 1000,
	})
}

func TestGetCandlesSortsOldestFirst(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/candles/days", r.URL.Path)
		assert.Equal(t, "KRW-BTC", r.URL.Query().Get("market"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))

		// Upbit responds newest first.
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"candle_date_time_utc": "2026-08-30T00:00:00", "trade_price": 103.0, "timestamp": 3000},
			{"candle_date_time_utc": "2026-08-29T00:00:00", "trade_price": 102.0, "timestamp": 2000},
			{"candle_date_time_utc": "2026-08-28T00:00:00", "trade_price": 101.0, "timestamp": 1000},
		})
	})

	candles, err := client.GetCandles(context.Background(), "KRW-BTC", "day", 3)
	require.NoError(t, err)
	require.Len(t, candles, 3)

	assert.Equal(t, 101.0, candles[0].Close)
	assert.Equal(t, 103.0, candles[2].Close)
	assert.True(t, candles[0].Timestamp.Before(candles[2].Timestamp))
}

func TestGetCandlesUnsupportedInterval(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.GetCandles(context.Background(), "KRW-BTC", "minute5", 10)
	assert.Error(t, err)
}

func TestGetCandlesEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	_, err := client.GetCandles(context.Background(), "KRW-BTC", "day", 10)
	assert.Error(t, err)
}

func TestGetCurrentPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ticker", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"market": "KRW-BTC", "trade_price": 84000000.0},
		})
	})

	price, err := client.GetCurrentPrice(context.Background(), "KRW-BTC")
	require.NoError(t, err)
	assert.Equal(t, 84000000.0, price)
}

func TestGetBalances(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/accounts":
			auth := r.Header.Get("Authorization")
			assert.True(t, strings.HasPrefix(auth, "Bearer "))
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"currency": "KRW", "balance": "500000", "avg_buy_price": "0"},
				{"currency": "BTC", "balance": "0.01", "avg_buy_price": "80000000"},
				{"currency": "ETH", "balance": "3", "avg_buy_price": "4000000"},
			})
		case "/v1/ticker":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"market": "KRW-BTC", "trade_price": 84000000.0},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	status, err := client.GetBalances(context.Background(), "KRW-BTC")
	require.NoError(t, err)

	assert.Equal(t, 500000.0, status.KRWBalance)
	assert.Equal(t, 0.01, status.CoinBalance)
	assert.Equal(t, 80000000.0, status.AvgBuyPrice)
	assert.Equal(t, 84000000.0, status.CoinCurrentPrice)
	assert.InDelta(t, 840000.0, status.CoinValue, 1e-6)
	assert.InDelta(t, 1340000.0, status.TotalAsset, 1e-6)
}

func TestSubmitOrderBuy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "KRW-BTC", body["market"])
		assert.Equal(t, "bid", body["side"])
		assert.Equal(t, "price", body["ord_type"])
		assert.Equal(t, "100000", body["price"])
		assert.Empty(t, body["volume"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"uuid": "order-1", "side": "bid", "market": "KRW-BTC",
			"price": "100000", "created_at": "2026-08-30T10:00:00+09:00",
		})
	})

	intent := &models.TradeIntent{
		Action: models.ActionBuy,
		Symbol: "KRW-BTC",
		Amount: 100000,
		State:  models.IntentExecuted,
	}

	result, err := client.SubmitOrder(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, "order-1", result.UUID)
	assert.Equal(t, "bid", result.Side)
	assert.Equal(t, 100000.0, result.Price)
}

func TestSubmitOrderSell(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ask", body["side"])
		assert.Equal(t, "market", body["ord_type"])
		assert.Equal(t, "0.005", body["volume"])
		assert.Empty(t, body["price"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"uuid": "order-2", "side": "ask", "market": "KRW-BTC", "volume": "0.005",
		})
	})

	intent := &models.TradeIntent{
		Action: models.ActionSell,
		Symbol: "KRW-BTC",
		Amount: 0.005,
		State:  models.IntentExecuted,
	}

	result, err := client.SubmitOrder(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, 0.005, result.Volume)
}

func TestSubmitOrderRejectsNonExecutableIntents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.SubmitOrder(context.Background(), nil)
	assert.Error(t, err)

	_, err = client.SubmitOrder(context.Background(), &models.TradeIntent{
		Action: models.ActionBuy,
		State:  models.IntentRejected,
	})
	assert.Error(t, err)
}

func TestAuthTokenClaims(t *testing.T) {
	client := NewClient(ClientOptions{AccessKey: "ak", SecretKey: "sk"})

	token, err := client.authToken("market=KRW-BTC&side=bid")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "Bearer "))

	parts := strings.Split(strings.TrimPrefix(token, "Bearer "), ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	assert.Equal(t, "ak", claims["access_key"])
	assert.NotEmpty(t, claims["nonce"])
	assert.NotEmpty(t, claims["query_hash"])
	assert.Equal(t, "SHA512", claims["query_hash_alg"])
}

func TestAuthTokenOmitsQueryHashWithoutQuery(t *testing.T) {
	client := NewClient(ClientOptions{AccessKey: "ak", SecretKey: "sk"})

	token, err := client.authToken("")
	require.NoError(t, err)

	parts := strings.Split(strings.TrimPrefix(token, "Bearer "), ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	_, hasHash := claims["query_hash"]
	assert.False(t, hasHash)
}

func TestDailyReturnStdDev(t *testing.T) {
	flat := []models.Candle{{Close: 100}, {Close: 100}, {Close: 100}}
	assert.Zero(t, dailyReturnStdDev(flat))

	short := []models.Candle{{Close: 100}, {Close: 105}}
	assert.Zero(t, dailyReturnStdDev(short))

	moving := []models.Candle{{Close: 100}, {Close: 110}, {Close: 99}}
	assert.Greater(t, dailyReturnStdDev(moving), 0.0)
}
