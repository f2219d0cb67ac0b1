package serpapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/nubro999/AutoTrading/internal/platform/http"
	"github.com/nubro999/AutoTrading/internal/news"
	"github.com/nubro999/AutoTrading/models"
)

// cryptoFilter keeps only technology headlines that actually talk about
// cryptocurrency.
var cryptoFilter = []string{"crypto", "bitcoin", "ethereum", "blockchain", "defi", "nft"}

// Client fetches news headlines through the SerpAPI Google News engine.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new SerpAPI client.
type ClientOptions struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
}

// NewClient creates a new SerpAPI news client.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = "https://serpapi.com/search.json"
	}
	if options.RequestTimeout == 0 {
		options.RequestTimeout = 10 * time.Second
	}

	return &Client{
		apiKey:  options.APIKey,
		baseURL: options.BaseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout: options.RequestTimeout,
		}),
		logger: log.With().Str("component", "serpapi_client").Logger(),
	}
}

type searchResponse struct {
	NewsResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Source  struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"news_results"`
}

// GetHeadlines runs one news search and scores each headline.
func (c *Client) GetHeadlines(ctx context.Context, query string, limit int) ([]models.NewsHeadline, error) {
	params := url.Values{}
	params.Set("engine", "google_news")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)

	var data searchResponse
	endpoint := c.baseURL + "?" + params.Encode()
	if err := c.httpClient.GetJSON(ctx, endpoint, nil, &data); err != nil {
		return nil, fmt.Errorf("fetching news for %q: %w", query, err)
	}

	headlines := make([]models.NewsHeadline, 0, limit)
	for _, item := range data.NewsResults {
		if len(headlines) >= limit {
			break
		}
		if item.Title == "" {
			continue
		}
		headlines = append(headlines, models.NewsHeadline{
			Title:          item.Title,
			Snippet:        item.Snippet,
			Source:         item.Source.Name,
			SentimentScore: news.SentimentScore(item.Title + " " + item.Snippet),
		})
	}

	c.logger.Debug().Str("query", query).Int("count", len(headlines)).Msg("fetched headlines")
	return headlines, nil
}

// CryptoHeadlines gathers the bitcoin news feed plus crypto-related
// technology headlines, mirroring the two-query collection the trending
// analysis is tuned for.
func (c *Client) CryptoHeadlines(ctx context.Context) ([]models.NewsHeadline, error) {
	bitcoinNews, err := c.GetHeadlines(ctx, "bitcoin cryptocurrency", 20)
	if err != nil {
		return nil, err
	}

	techNews, err := c.GetHeadlines(ctx, "technology news", 10)
	if err != nil {
		// Bitcoin headlines alone are still a usable signal.
		c.logger.Warn().Err(err).Msg("technology news fetch failed")
		techNews = nil
	}

	all := bitcoinNews
	for _, h := range techNews {
		text := strings.ToLower(h.Title + " " + h.Snippet)
		for _, keyword := range cryptoFilter {
			if strings.Contains(text, keyword) {
				all = append(all, h)
				break
			}
		}
	}
	return all, nil
}
