package hybrid

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/cache"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/metrics"
)

// Generator abstracts the answer-generation provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbeddingCache is the clear/size surface of the embedding client's
// cache, needed so ClearCaches can empty both caches together.
type EmbeddingCache interface {
	ClearCache()
	CachedCount() int
}

// apologyMessage is returned when the generation provider fails after a
// valid context was built. The retrieval core never raises; this is the
// entire user-visible failure surface.
const apologyMessage = "I apologize, but I encountered an error generating the response. Please try again."

const systemPrompt = `You are an expert Vietnam travel assistant with deep knowledge of Vietnamese culture, destinations, and travel planning.

Your task is to provide comprehensive, accurate, and personalized travel recommendations based on:
1. Semantic search results from a vector database (most relevant destinations)
2. Knowledge graph connections (related places, activities, accommodations)

Guidelines:
- Use BOTH the semantic search results AND the knowledge graph context
- Create detailed, day-by-day itineraries when requested
- Include practical details: activities, accommodations, restaurants, transportation
- Consider connections between places (nearby attractions, related activities)
- Mention best times to visit when available
- Be specific and actionable
- Use a warm, enthusiastic tone
- If creating multi-day itineraries, ensure logical flow and realistic pacing`

// Answer is the result of one chat call.
type Answer struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
	Cached   bool     `json:"cached"`
}

// AnswerEvent is the telemetry record published after each non-cached
// answer.
type AnswerEvent struct {
	Query              string   `json:"query"`
	VectorResultsCount int      `json:"vector_results_count"`
	GraphResultsCount  int      `json:"graph_results_count"`
	Locations          []string `json:"locations"`
	GenerationFailed   bool     `json:"generation_failed"`
	DurationMS         int64    `json:"duration_ms"`
}

// Stats reports cache sizes, mirroring the original assistant's stats
// surface.
type Stats struct {
	CachedEmbeddings int `json:"cached_embeddings"`
	CachedQueries    int `json:"cached_queries"`
}

// Assistant is the top-level chat surface: context building, answer
// generation, and the query result cache.
type Assistant struct {
	engine     *Engine
	gen        Generator
	embedCache EmbeddingCache
	answers    *cache.Cache[string]
	publish    func(ctx context.Context, ev AnswerEvent)
	logger     *slog.Logger
	reg        *metrics.Registry

	// clearMu serializes full cache clears so no caller can observe one
	// cache empty and the other still populated.
	clearMu sync.Mutex
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithEventPublisher registers a publisher for answer telemetry events.
func WithEventPublisher(publish func(ctx context.Context, ev AnswerEvent)) AssistantOption {
	return func(a *Assistant) { a.publish = publish }
}

// NewAssistant creates an Assistant. embedCache is the embedding client's
// cache surface; it is cleared together with the query cache.
func NewAssistant(engine *Engine, gen Generator, embedCache EmbeddingCache, logger *slog.Logger, reg *metrics.Registry, opts ...AssistantOption) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	a := &Assistant{
		engine:     engine,
		gen:        gen,
		embedCache: embedCache,
		answers:    cache.New[string](),
		logger:     logger,
		reg:        reg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Chat answers a travel question. A cache hit (exact string match against
// a prior query) returns the stored answer with no further work. On a miss
// it builds the hybrid context, calls the generation provider, and caches
// the result. Generation failure yields the fixed apology message, which
// is not cached.
func (a *Assistant) Chat(ctx context.Context, query string) Answer {
	start := time.Now()
	a.reg.Counter("assistant_queries_total").Inc()

	if text, ok := a.answers.Get(query); ok {
		a.reg.Counter("assistant_query_cache_hits_total").Inc()
		return Answer{Text: text, Cached: true}
	}

	contextText, meta := a.engine.BuildContext(ctx, query)

	text, err := a.gen.Generate(ctx, buildPrompt(query, contextText))
	if err != nil {
		a.reg.Counter("assistant_generation_errors_total").Inc()
		a.logger.Error("answer generation failed", "err", err)
		a.publishEvent(ctx, query, meta, true, start)
		return Answer{Text: apologyMessage, Metadata: meta}
	}

	text += answerFooter(meta)
	a.answers.Put(query, text)
	a.reg.Histogram("assistant_chat_seconds", nil).Since(start)
	a.publishEvent(ctx, query, meta, false, start)

	return Answer{Text: text, Metadata: meta}
}

// ClearCaches empties the query result cache and the embedding cache.
// Clears are serialized so partial-clear states are not observable to
// other clear callers.
func (a *Assistant) ClearCaches() {
	a.clearMu.Lock()
	defer a.clearMu.Unlock()
	a.answers.Clear()
	if a.embedCache != nil {
		a.embedCache.ClearCache()
	}
}

// Stats returns current cache sizes.
func (a *Assistant) Stats() Stats {
	s := Stats{CachedQueries: a.answers.Len()}
	if a.embedCache != nil {
		s.CachedEmbeddings = a.embedCache.CachedCount()
	}
	return s
}

func (a *Assistant) publishEvent(ctx context.Context, query string, meta Metadata, failed bool, start time.Time) {
	if a.publish == nil {
		return
	}
	a.publish(ctx, AnswerEvent{
		Query:              query,
		VectorResultsCount: meta.VectorResultsCount,
		GraphResultsCount:  meta.GraphResultsCount,
		Locations:          meta.Locations,
		GenerationFailed:   failed,
		DurationMS:         time.Since(start).Milliseconds(),
	})
}

// buildPrompt assembles the full generation prompt from the system
// persona, the retrieval context, and the user query.
func buildPrompt(query, contextText string) string {
	return fmt.Sprintf(`%s

User Query: %s

Available Context:
%s

Based on the above context, please provide a comprehensive answer to the user's query.
Use specific information from both the semantic search results and the knowledge graph connections.`,
		systemPrompt, query, contextText)
}

// answerFooter is the metadata trailer appended to every generated answer.
func answerFooter(meta Metadata) string {
	return fmt.Sprintf("\n\n---\nAnswer generated using %d semantic matches and %d graph connections.",
		meta.VectorResultsCount, meta.GraphResultsCount)
}
