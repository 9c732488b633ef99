// Package gemini provides the answer-generation client backed by Google's
// Gemini models via langchaingo.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"golang.org/x/time/rate"
)

// Client generates answer text from prompts. It treats the model as an
// opaque text generator.
type Client struct {
	llm         llms.Model
	limiter     *rate.Limiter
	timeout     time.Duration
	temperature float64
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each generation request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit caps generation calls at r per second with the given burst.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(r), burst) }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Gemini client for the given API key and model.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	c := &Client{
		llm:         llm,
		limiter:     rate.NewLimiter(rate.Limit(2), 4),
		timeout:     60 * time.Second,
		temperature: 0.3,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate produces completion text for prompt. It blocks for a rate-limit
// token first and bounds the provider call with the configured timeout.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gemini: rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("gemini: empty completion")
	}

	c.logger.Debug("generation done", "prompt_len", len(prompt), "duration", time.Since(start))
	return text, nil
}
