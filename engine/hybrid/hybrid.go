// Package hybrid fuses dense vector search and knowledge-graph traversal
// into a single retrieval context for the travel assistant. It owns the
// two-phase orchestration plan, the merge rules, and the context format
// handed to the generation provider.
package hybrid

import (
	"context"
	"log/slog"
	"time"

	"github.com/VietVoyageAI/vietvoyage-mvp/engine/graph"
	"github.com/VietVoyageAI/vietvoyage-mvp/engine/semantic"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/fn"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/metrics"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/places"
	"go.opentelemetry.io/otel"
)

const tracerName = "engine/hybrid"

// Embedder maps text to a fixed-dimensionality vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher abstracts the vector index provider.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, topK int) ([]semantic.Match, error)
}

// GraphSearcher abstracts the knowledge-graph store.
type GraphSearcher interface {
	Search(ctx context.Context, locations []string, limit int) ([]graph.Node, error)
}

// Options configures the orchestration plan.
type Options struct {
	TopK          int
	GraphLimit    int
	SearchTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		TopK:          5,
		GraphLimit:    graph.DefaultLimit,
		SearchTimeout: 10 * time.Second,
	}
}

// Metadata summarizes one built context.
type Metadata struct {
	VectorResultsCount int      `json:"vector_results_count"`
	GraphResultsCount  int      `json:"graph_results_count"`
	Locations          []string `json:"locations"`
	TopResultScore     float64  `json:"top_result_score"`
}

// Engine is the hybrid retrieval orchestrator. It never fails: every
// provider error degrades to an empty result for that branch and the
// context is built from whatever evidence remains.
type Engine struct {
	embed     Embedder
	vectors   VectorSearcher
	graph     GraphSearcher
	extractor *places.Extractor
	opts      Options
	logger    *slog.Logger
	reg       *metrics.Registry
}

// New creates an Engine.
func New(embed Embedder, vectors VectorSearcher, graphSearcher GraphSearcher, opts Options, logger *slog.Logger, reg *metrics.Registry) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.GraphLimit <= 0 {
		opts.GraphLimit = DefaultOptions().GraphLimit
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = DefaultOptions().SearchTimeout
	}
	return &Engine{
		embed:     embed,
		vectors:   vectors,
		graph:     graphSearcher,
		extractor: places.NewExtractor(),
		opts:      opts,
		logger:    logger,
		reg:       reg,
	}
}

// phase1 carries the results of one phase-1 branch.
type phase1 struct {
	matches []semantic.Match
	prelim  *places.Set
	nodes   []graph.Node
}

// BuildContext runs the two-phase retrieval plan for query and returns the
// formatted context string with its metadata.
//
// Phase 1 runs the vector branch (embed, then k-NN search) and the
// preliminary graph branch (locations from the query text alone, then
// graph search) concurrently, joining before anything else proceeds.
// Phase 2 extends the location set with city/region attributes from the
// vector matches; if the set grew, one additional graph search runs over
// the extended set and its nodes are merged in, deduplicated by name with
// the phase-1 position winning.
func (e *Engine) BuildContext(ctx context.Context, query string) (string, Metadata) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "hybrid.build_context")
	defer span.End()

	branches := fn.FanOut(
		func() phase1 {
			return phase1{matches: e.vectorSearch(ctx, query)}
		},
		func() phase1 {
			prelim := e.extractor.Extract(query, nil)
			return phase1{prelim: prelim, nodes: e.graphSearch(ctx, prelim.Names())}
		},
	)
	matches := branches[0].matches
	locations := branches[1].prelim
	nodes := dedupeNodes(nil, branches[1].nodes)

	if e.extractor.Extend(locations, matchAttrs(matches)) {
		extra := e.graphSearch(ctx, locations.Names())
		nodes = dedupeNodes(nodes, extra)
	}

	e.logger.Info("hybrid context built",
		"query_len", len(query),
		"vector_results", len(matches),
		"graph_results", len(nodes),
		"locations", locations.Names(),
	)

	meta := Metadata{
		VectorResultsCount: len(matches),
		GraphResultsCount:  len(nodes),
		Locations:          locations.Names(),
	}
	if len(matches) > 0 {
		// Provider order is trusted to be descending by score; the first
		// match is the top result.
		meta.TopResultScore = matches[0].Score
	}

	return FormatContext(matches, nodes), meta
}

// vectorSearch embeds the query and searches the vector index. Both steps
// fail soft: any error yields an empty match list.
func (e *Engine) vectorSearch(ctx context.Context, query string) []semantic.Match {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "hybrid.vector_search")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, e.opts.SearchTimeout)
	defer cancel()

	vector, err := e.embed.Embed(ctx, query)
	if err != nil {
		e.reg.Counter(metrics.WithLabels("hybrid_provider_errors_total", "provider", "embedding")).Inc()
		e.logger.Warn("embedding failed, continuing without vector results", "err", err)
		return nil
	}

	matches, err := e.vectors.Search(ctx, vector, e.opts.TopK)
	if err != nil {
		e.reg.Counter(metrics.WithLabels("hybrid_provider_errors_total", "provider", "vector")).Inc()
		e.logger.Warn("vector search failed, continuing without vector results", "err", err)
		return nil
	}
	return matches
}

// graphSearch queries the knowledge graph. Any error yields no nodes for
// that phase without aborting the rest of the call.
func (e *Engine) graphSearch(ctx context.Context, locations []string) []graph.Node {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "hybrid.graph_search")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, e.opts.SearchTimeout)
	defer cancel()

	nodes, err := e.graph.Search(ctx, locations, e.opts.GraphLimit)
	if err != nil {
		e.reg.Counter(metrics.WithLabels("hybrid_provider_errors_total", "provider", "graph")).Inc()
		e.logger.Warn("graph search failed, continuing without graph results", "err", err)
		return nil
	}
	return nodes
}

// matchAttrs projects the location-bearing attributes out of the matches.
func matchAttrs(matches []semantic.Match) []places.MatchAttrs {
	attrs := make([]places.MatchAttrs, len(matches))
	for i, m := range matches {
		attrs[i] = places.MatchAttrs{City: m.Attrs.City, Region: m.Attrs.Region}
	}
	return attrs
}

// dedupeNodes appends extra onto nodes, skipping any node whose name is
// already present. The first occurrence keeps its position.
func dedupeNodes(nodes []graph.Node, extra []graph.Node) []graph.Node {
	seen := make(map[string]struct{}, len(nodes)+len(extra))
	out := make([]graph.Node, 0, len(nodes)+len(extra))
	for _, n := range nodes {
		if _, ok := seen[n.Name]; ok {
			continue
		}
		seen[n.Name] = struct{}{}
		out = append(out, n)
	}
	for _, n := range extra {
		if _, ok := seen[n.Name]; ok {
			continue
		}
		seen[n.Name] = struct{}{}
		out = append(out, n)
	}
	return out
}
