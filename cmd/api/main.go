package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"ragbot/internal/chat"
	"ragbot/internal/config"
	"ragbot/internal/http"
	"ragbot/internal/provider"
	"ragbot/internal/retrieval"
	"ragbot/internal/storage"
	"ragbot/internal/threshold"
	"ragbot/internal/vectorstore"
	"ragbot/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	botRepo := storage.NewBotRepo(db)
	userRepo := storage.NewUserRepo(db)
	convRepo := storage.NewConversationRepo(db)
	metricsRepo := storage.NewMetricsRepo(db)

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	slog.Info("Vector store ready", "url", cfg.QdrantURL, "vector_size", cfg.QdrantVectorSize)

	providers := provider.NewRegistry(cfg.LocalProviderURL)
	thresholds := threshold.NewManager(metricsRepo)

	coordinator := retrieval.NewCoordinator(
		providers,
		userRepo,
		botRepo,
		vectorStore,
		thresholds,
		cfg.MaxRetrievedChunks,
	)

	// Notification hub is an explicit registry, constructed once here and
	// passed by reference into the orchestrator.
	hub := ws.NewHub(userRepo)

	orchestrator := chat.NewOrchestrator(
		userRepo,
		userRepo,
		convRepo,
		botRepo,
		coordinator,
		hub,
		providers,
		chat.Config{
			HistoryWindow:    cfg.HistoryWindow,
			MaxPromptLength:  cfg.MaxPromptLength,
			DefaultMaxTokens: cfg.DefaultMaxTokens,
		},
	)
	slog.Info("Chat orchestrator initialized")

	router := http.NewRouter(&http.Deps{
		Orchestrator: orchestrator,
		Hub:          hub,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
