// Package main implements the VietVoyage API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/VietVoyageAI/vietvoyage-mvp/engine/graph"
	"github.com/VietVoyageAI/vietvoyage-mvp/engine/hybrid"
	"github.com/VietVoyageAI/vietvoyage-mvp/engine/semantic"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/gemini"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/metrics"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/mid"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/natsutil"
	"github.com/VietVoyageAI/vietvoyage-mvp/pkg/ollama"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/time/rate"
)

// Config holds all environment-based configuration.
type Config struct {
	Port         string
	OllamaURL    string
	EmbedModel   string
	EmbedDims    int
	QdrantURL    string
	Collection   string
	Neo4jURL     string
	Neo4jUser    string
	Neo4jPass    string
	GeminiAPIKey string
	GeminiModel  string
	NATSURL      string
	EventSubject string
	CORSOrigin   string
	RateRPS      int
}

func loadConfig() Config {
	return Config{
		Port:         envOr("PORT", "8080"),
		OllamaURL:    envOr("OLLAMA_URL", "http://localhost:11434"),
		EmbedModel:   envOr("EMBED_MODEL", "nomic-embed-text"),
		EmbedDims:    envInt("EMBED_DIMS", 768),
		QdrantURL:    envOr("QDRANT_URL", "localhost:6334"),
		Collection:   envOr("QDRANT_COLLECTION", "vietnam-travel-768"),
		Neo4jURL:     envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:    envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:    envOr("NEO4J_PASS", "password"),
		GeminiAPIKey: envOr("GEMINI_API_KEY", ""),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		NATSURL:      envOr("NATS_URL", ""),
		EventSubject: envOr("EVENT_SUBJECT", "vietvoyage.chat.answered"),
		CORSOrigin:   envOr("CORS_ORIGIN", "*"),
		RateRPS:      envInt("RATE_LIMIT_RPS", 10),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	reg := metrics.New()

	// --- Embedding provider (Ollama) ---
	embedClient := ollama.New(cfg.OllamaURL, cfg.EmbedModel, cfg.EmbedDims, ollama.WithLogger(logger))

	// --- Connect to Qdrant ---
	vectorStore, err := semantic.New(cfg.QdrantURL, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	// --- Connect to Neo4j ---
	neo4jDriver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer neo4jDriver.Close(ctx)

	graphStore := graph.New(neo4jDriver)

	// --- Generation provider (Gemini) ---
	genClient, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, gemini.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}

	// --- Build hybrid engine and assistant ---
	engine := hybrid.New(embedClient, vectorStore, graphStore, hybrid.DefaultOptions(), logger, reg)

	var assistantOpts []hybrid.AssistantOption
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("vietvoyage-api"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()
		assistantOpts = append(assistantOpts, hybrid.WithEventPublisher(func(ctx context.Context, ev hybrid.AnswerEvent) {
			if err := natsutil.Publish(ctx, nc, cfg.EventSubject, ev); err != nil {
				logger.Warn("event publish failed", "subject", cfg.EventSubject, "err", err)
			}
		}))
		logger.Info("event publishing enabled", "subject", cfg.EventSubject)
	}

	assistant := hybrid.NewAssistant(engine, genClient, embedClient, logger, reg, assistantOpts...)

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth(assistant))
	mux.HandleFunc("POST /api/chat", handleChat(assistant, logger))
	mux.HandleFunc("POST /api/cache/clear", handleCacheClear(assistant, logger))
	mux.Handle("GET /metrics", reg.Handler())

	limiter := rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateRPS*2)
	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.OTel("vietvoyage-api"),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(limiter),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

// HealthResponse is the JSON response for GET /api/health.
type HealthResponse struct {
	Status string       `json:"status"`
	Stats  hybrid.Stats `json:"stats"`
}

func handleHealth(assistant *hybrid.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Stats: assistant.Stats()})
	}
}

// ChatRequest is the JSON body for POST /api/chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the JSON response for POST /api/chat.
type ChatResponse struct {
	Answer   string          `json:"answer"`
	Metadata hybrid.Metadata `json:"metadata"`
	Cached   bool            `json:"cached"`
}

func handleChat(assistant *hybrid.Assistant, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}

		answer := assistant.Chat(r.Context(), req.Query)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatResponse{
			Answer:   answer.Text,
			Metadata: answer.Metadata,
			Cached:   answer.Cached,
		})
	}
}

func handleCacheClear(assistant *hybrid.Assistant, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		assistant.ClearCaches()
		logger.Info("caches cleared")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "cleared"})
	}
}
