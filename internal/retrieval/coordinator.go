// Package retrieval orchestrates embedding generation, threshold selection
// and vector search into a best-effort "relevant chunks" result. Retrieval is
// an optimization, not a correctness requirement: Retrieve never returns an
// error, and every negative outcome degrades to an empty result so the chat
// flow can always proceed without context.
package retrieval

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks ragbot/internal/retrieval Providers,KeyStore,BotStore

import (
	"context"
	"errors"
	"time"

	"ragbot/internal/contextutil"
	"ragbot/internal/provider"
	"ragbot/internal/storage"
	"ragbot/internal/threshold"
	"ragbot/internal/vectorstore"
)

// Skip reasons retained for telemetry when retrieval short-circuits.
const (
	SkipNoDocuments     = "no_documents"
	SkipNoNamespace     = "no_namespace"
	SkipNoCredential    = "no_credential"
	SkipProviderInvalid = "provider_invalid"
	SkipEmbeddingFailed = "embedding_failed"
	SkipSearchFailed    = "search_failed"
)

// Result is the outcome of one retrieval. Either Chunks were searched for
// (possibly finding none) or the attempt was skipped with a reason. The
// orchestrator collapses Result to a chunk list; the skip reason feeds
// telemetry only.
type Result struct {
	Chunks []vectorstore.Chunk
	// Skipped names why retrieval short-circuited; empty when a search ran.
	Skipped string
	// ThresholdUsed is the ladder rung that produced the final result.
	// Nil when the accept-all rung was reached or no search ran.
	ThresholdUsed *float32
	// Attempts counts the ladder rungs tried.
	Attempts int
}

// Providers resolves a provider kind to its dispatcher variant.
type Providers interface {
	Resolve(kind provider.Kind) (provider.Provider, error)
}

// KeyStore resolves a user's credential for a provider.
type KeyStore interface {
	APIKey(ctx context.Context, userID, providerName string) (string, error)
}

// BotStore persists the self-healing embedding model correction.
type BotStore interface {
	UpdateEmbeddingModel(ctx context.Context, botID, model string) error
}

// Coordinator runs the retrieval pipeline for chat requests.
type Coordinator struct {
	providers  Providers
	keys       KeyStore
	bots       BotStore
	store      vectorstore.Store
	thresholds *threshold.Manager
	maxChunks  int
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(providers Providers, keys KeyStore, bots BotStore, store vectorstore.Store, thresholds *threshold.Manager, maxChunks int) *Coordinator {
	if maxChunks <= 0 {
		maxChunks = 5
	}
	return &Coordinator{
		providers:  providers,
		keys:       keys,
		bots:       bots,
		store:      store,
		thresholds: thresholds,
		maxChunks:  maxChunks,
	}
}

// Retrieve returns the chunks most relevant to queryText from the bot's
// knowledge base, embedding the query with the requesting user's credential
// and falling back to the bot owner's. It never returns an error; see the
// package comment.
func (c *Coordinator) Retrieve(ctx context.Context, bot *storage.Bot, userID, queryText string) Result {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	// Fast path: a bot with no ingested documents needs no network call.
	if bot.DocumentCount == 0 {
		return Result{Skipped: SkipNoDocuments}
	}

	tenantID := bot.ID
	exists, err := c.store.NamespaceExists(ctx, tenantID)
	if err != nil || !exists {
		if err != nil {
			logger.WarnContext(ctx, "namespace check failed, skipping retrieval", "tenant_id", tenantID, "error", err)
		}
		return Result{Skipped: SkipNoNamespace}
	}

	kind := provider.Kind(bot.EmbeddingProvider)
	p, err := c.providers.Resolve(kind)
	if err != nil {
		logger.WarnContext(ctx, "embedding provider unresolved, skipping retrieval", "provider", bot.EmbeddingProvider, "error", err)
		return Result{Skipped: SkipProviderInvalid}
	}

	key, err := c.keys.APIKey(ctx, userID, bot.EmbeddingProvider)
	if errors.Is(err, storage.ErrNotFound) {
		key, err = c.keys.APIKey(ctx, bot.OwnerID, bot.EmbeddingProvider)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(ctx, "credential lookup failed, skipping retrieval", "provider", bot.EmbeddingProvider, "error", err)
		}
		return Result{Skipped: SkipNoCredential}
	}

	model := c.resolveModel(ctx, p, key, bot)

	embeddings, err := p.Embed(ctx, key, model, []string{queryText})
	if err != nil || len(embeddings) == 0 {
		logger.WarnContext(ctx, "query embedding failed, skipping retrieval", "provider", bot.EmbeddingProvider, "model", model, "error", err)
		return Result{Skipped: SkipEmbeddingFailed}
	}
	queryVector := embeddings[0]

	rctx := threshold.RetrievalContext{
		TenantID:          tenantID,
		QueryText:         queryText,
		ContentType:       bot.ContentType,
		DocumentCount:     bot.DocumentCount,
		AvgDocumentLength: bot.AvgDocumentLength,
	}

	result, reason := c.searchWithLadder(ctx, kind, model, tenantID, queryVector, rctx)

	c.thresholds.TrackPerformance(ctx, buildMetric(
		tenantID, bot.EmbeddingProvider, model, queryText, reason,
		result, time.Since(started),
	))

	return result
}

// resolveModel validates the configured embedding model against the provider
// and self-heals the bot config when it is no longer offered. A failed model
// listing is advisory only: the configured model is kept and the embed call
// decides.
func (c *Coordinator) resolveModel(ctx context.Context, p provider.Provider, key string, bot *storage.Bot) string {
	logger := contextutil.LoggerFromContext(ctx)

	models, err := p.Models(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "model listing failed, keeping configured model", "provider", bot.EmbeddingProvider, "error", err)
		return bot.EmbeddingModel
	}
	if len(models) == 0 {
		return bot.EmbeddingModel
	}
	for _, m := range models {
		if m == bot.EmbeddingModel {
			return bot.EmbeddingModel
		}
	}

	substitute := models[0]
	logger.InfoContext(ctx, "configured embedding model unavailable, substituting",
		"bot_id", bot.ID, "configured", bot.EmbeddingModel, "substitute", substitute)
	if err := c.bots.UpdateEmbeddingModel(ctx, bot.ID, substitute); err != nil {
		logger.WarnContext(ctx, "failed to persist embedding model correction", "bot_id", bot.ID, "error", err)
	}
	bot.EmbeddingModel = substitute
	return substitute
}

// searchWithLadder walks the retry ladder from the contextually optimal
// threshold down to the accept-all sentinel, stopping at the first rung that
// yields results.
func (c *Coordinator) searchWithLadder(ctx context.Context, kind provider.Kind, model, tenantID string, queryVector []float32, rctx threshold.RetrievalContext) (Result, string) {
	logger := contextutil.LoggerFromContext(ctx)

	initial, reason, err := c.thresholds.OptimalThreshold(kind, model, rctx)
	var ladder []*float32
	if err != nil {
		logger.WarnContext(ctx, "no threshold policy for provider, searching unfiltered", "provider", kind, "error", err)
		ladder = []*float32{nil}
		reason = "no_policy"
	} else {
		ladder, err = c.thresholds.RetryLadder(kind, model, &initial)
		if err != nil {
			ladder = []*float32{nil}
		}
	}

	var result Result
	for _, rung := range ladder {
		result.Attempts++
		chunks, err := c.store.Search(ctx, tenantID, queryVector, c.maxChunks, rung, nil)
		if err != nil {
			if errors.Is(err, vectorstore.ErrNamespaceNotFound) {
				return Result{Skipped: SkipNoNamespace, Attempts: result.Attempts}, reason
			}
			logger.WarnContext(ctx, "vector search failed, skipping retrieval", "tenant_id", tenantID, "error", err)
			return Result{Skipped: SkipSearchFailed, Attempts: result.Attempts}, reason
		}
		if len(chunks) > 0 {
			result.Chunks = chunks
			result.ThresholdUsed = rung
			return result, reason
		}
	}

	// Every rung came back empty, including accept-all: the namespace simply
	// has nothing relevant. That is a successful search with zero results.
	return result, reason
}
