// Package openai implements the advisor gateway on top of the OpenAI
// chat completion API. Responses are requested in JSON mode and returned
// raw; validation is the caller's responsibility.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// ErrTimeout reports that the advisor did not answer within the configured
// deadline. Callers should fall back to the local heuristic.
var ErrTimeout = errors.New("advisor request timed out")

const systemPrompt = `You are a professional cryptocurrency trading advisor.
Analyze the provided market data, order book, fear/greed sentiment, news
headlines and current investment status, then decide whether to buy, sell
or hold.

Respond with a single JSON object containing exactly these fields:
- "recommendation": one of "buy", "sell", "hold"
- "confidence": integer from 1 (lowest) to 10 (highest)
- "justification": short explanation of the decision
- "risk_level": one of "low", "medium", "high"
- "news_impact": how recent news affects the decision, or "none"
- "key_factors": array of the most important factors considered

Base the decision only on the supplied data. Be conservative when signals
conflict.`

// ClientOptions configures the advisor client.
type ClientOptions struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

// Client talks to the OpenAI chat completion endpoint in JSON mode.
type Client struct {
	api    *openai.Client
	opts   ClientOptions
	logger zerolog.Logger
}

// NewClient builds an advisor client. Zero option fields get defaults.
func NewClient(opts ClientOptions) *Client {
	if opts.Model == "" {
		opts.Model = openai.GPT4Turbo
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}
	return &Client{
		api:    openai.NewClient(opts.APIKey),
		opts:   opts,
		logger: log.With().Str("component", "openai_client").Logger(),
	}
}

// Recommend sends the market context to the model and returns the parsed
// JSON object it answered with. The payload is marshaled as-is, so passing
// a models.AdvisorContext gives the model the full cycle context.
func (c *Client) Recommend(ctx context.Context, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal advisor payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(body)},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn().Dur("elapsed", time.Since(start)).Msg("advisor timed out")
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("advisor returned non-JSON content: %w", err)
	}

	c.logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("tokens", resp.Usage.TotalTokens).
		Msg("advisor responded")
	return raw, nil
}
