// Package ollama provides an embedding client backed by Ollama's HTTP API
// with a memo cache keyed on the exact input text.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/cache"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/fn"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/resilience"
)

// Client embeds text via Ollama. Successful embeddings are cached forever
// under the exact literal input text; failures are never cached, so a later
// call with the same text retries the provider.
type Client struct {
	baseURL string
	model   string
	dims    int
	timeout time.Duration
	retry   fn.RetryOpts
	http    *http.Client
	breaker *resilience.Breaker
	cache   *cache.Cache[[]float32]
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each provider request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets the per-Embed retry policy. The default is a single
// attempt; retry policy belongs here, never in the orchestrator.
func WithRetry(opts fn.RetryOpts) Option {
	return func(c *Client) { c.retry = opts }
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates an embedding client. dims is the contracted vector
// dimensionality; a response with any other length is treated as malformed
// and not cached.
func New(baseURL, model string, dims int, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		model:   model,
		dims:    dims,
		timeout: 15 * time.Second,
		retry:   fn.NoRetry,
		http:    &http.Client{},
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		cache:   cache.New[[]float32](),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for text. A cache hit returns with no
// network call. On a miss it issues one provider request (plus the
// configured retries) and caches the vector only on success.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v, nil
	}

	result := fn.Retry(ctx, c.retry, func(ctx context.Context) fn.Result[[]float32] {
		var vec []float32
		err := c.breaker.Call(ctx, func(ctx context.Context) error {
			var callErr error
			vec, callErr = c.embed(ctx, text)
			return callErr
		})
		return fn.FromPair(vec, err)
	})

	vec, err := result.Unwrap()
	if err != nil {
		c.logger.Warn("embedding failed", "model", c.model, "err", err)
		return nil, err
	}

	c.cache.Put(text, vec)
	return vec, nil
}

// embed performs one provider request.
func (c *Client) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, _ := json.Marshal(embedRequest{Model: c.model, Prompt: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed: status %d", resp.StatusCode)
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ollama embed decode: %w", err)
	}
	if len(result.Embedding) != c.dims {
		return nil, fmt.Errorf("ollama embed: got %d dims, want %d", len(result.Embedding), c.dims)
	}

	out := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}

// ClearCache empties the embedding cache.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// CachedCount returns the number of cached embeddings.
func (c *Client) CachedCount() int {
	return c.cache.Len()
}
