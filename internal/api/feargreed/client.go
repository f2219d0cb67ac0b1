package feargreed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/nubro999/AutoTrading/internal/platform/http"
	"github.com/nubro999/AutoTrading/internal/sentiment"
	"github.com/nubro999/AutoTrading/models"
)

// Client fetches the fear/greed index from alternative.me.
type Client struct {
	baseURL    string
	limit      int
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new fear/greed client.
type ClientOptions struct {
	BaseURL        string
	Limit          int // trailing window, in days
	RequestTimeout time.Duration
}

// NewClient creates a new fear/greed index client.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = "https://api.alternative.me/fng/"
	}
	if options.Limit == 0 {
		options.Limit = 7
	}
	if options.RequestTimeout == 0 {
		options.RequestTimeout = 10 * time.Second
	}

	return &Client{
		baseURL: options.BaseURL,
		limit:   options.Limit,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout: options.RequestTimeout,
		}),
		logger: log.With().Str("component", "feargreed_client").Logger(),
	}
}

type fngResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
		Timestamp           string `json:"timestamp"`
	} `json:"data"`
	Metadata struct {
		Error any `json:"error"`
	} `json:"metadata"`
}

// GetFearGreed fetches the trailing index window and returns the analyzed
// snapshot. Values arrive newest first.
func (c *Client) GetFearGreed(ctx context.Context) (*models.SentimentSnapshot, error) {
	endpoint := fmt.Sprintf("%s?limit=%d", c.baseURL, c.limit)

	var data fngResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, nil, &data); err != nil {
		return nil, fmt.Errorf("fetching fear/greed index: %w", err)
	}
	if data.Metadata.Error != nil {
		return nil, fmt.Errorf("fear/greed API error: %v", data.Metadata.Error)
	}
	if len(data.Data) == 0 {
		return nil, fmt.Errorf("empty fear/greed data")
	}

	values := make([]int, 0, len(data.Data))
	for _, item := range data.Data {
		v, err := strconv.Atoi(item.Value)
		if err != nil {
			return nil, fmt.Errorf("parsing fear/greed value %q: %w", item.Value, err)
		}
		values = append(values, v)
	}

	snap, err := sentiment.Analyze(values)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("current", snap.CurrentValue).
		Str("band", string(snap.Classification)).
		Str("trend", string(snap.Trend)).
		Msg("fetched fear/greed index")
	return snap, nil
}
