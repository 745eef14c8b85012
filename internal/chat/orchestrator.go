// Package chat sequences a chat request end to end: permission gate, session
// resolution, retrieval, prompt assembly, generation, persistence and
// best-effort notification. Failures on the mandatory path (permissions,
// sessions, persistence, generation) are fatal and surface to the caller;
// failures on the optional path (retrieval, telemetry, notification) are
// logged and absorbed.
package chat

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks ragbot/internal/chat PermissionService,UserService,ConversationService,BotService,Retriever,Notifier,Providers

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"ragbot/internal/contextutil"
	"ragbot/internal/prompt"
	"ragbot/internal/provider"
	"ragbot/internal/retrieval"
	"ragbot/internal/storage"
)

const chatAction = "chat"

// PermissionService gates access to bots.
type PermissionService interface {
	HasPermission(ctx context.Context, userID, botID, action string) (bool, error)
}

// UserService resolves per-user provider credentials.
type UserService interface {
	APIKey(ctx context.Context, userID, providerName string) (string, error)
}

// ConversationService owns session and message persistence.
type ConversationService interface {
	GetOrCreateSession(ctx context.Context, botID, userID, sessionID, title string) (*storage.Session, error)
	CreateSession(ctx context.Context, botID, userID, title string) (*storage.Session, error)
	AddMessage(ctx context.Context, msg *storage.Message) (*storage.Message, error)
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]storage.Message, error)
}

// BotService resolves bot configurations.
type BotService interface {
	GetByID(ctx context.Context, id string) (*storage.Bot, error)
}

// Retriever produces relevant chunks, best effort. userID identifies the
// requesting user so retrieval can prefer their embedding credential.
type Retriever interface {
	Retrieve(ctx context.Context, bot *storage.Bot, userID, queryText string) retrieval.Result
}

// Notifier fans a message out to a bot's collaborators, fire and forget.
type Notifier interface {
	BroadcastToCollaborators(ctx context.Context, botID, message, excludeUser string)
}

// Providers resolves a provider kind to its dispatcher variant.
type Providers interface {
	Resolve(kind provider.Kind) (provider.Provider, error)
}

// ProcessRequest is one incoming chat turn.
type ProcessRequest struct {
	Message   string
	SessionID string
}

// ChunkPreview is a short view of a chunk that informed the reply.
type ChunkPreview struct {
	DocumentID string  `json:"document_id,omitempty"`
	Preview    string  `json:"preview"`
	Score      float32 `json:"score"`
}

// ProcessResponse is the result of one processed chat turn.
type ProcessResponse struct {
	Message        string
	SessionID      string
	ChunksUsed     []ChunkPreview
	ProcessingTime time.Duration
	Metadata       map[string]any
}

// Config tunes the orchestrator.
type Config struct {
	HistoryWindow   int
	MaxPromptLength int
	// DefaultMaxTokens is the sentinel: a bot configured with exactly this
	// value has its true limit resolved from the provider per model.
	DefaultMaxTokens int
}

// Orchestrator implements the chat pipeline.
type Orchestrator struct {
	permissions PermissionService
	users       UserService
	convs       ConversationService
	bots        BotService
	retriever   Retriever
	notifier    Notifier
	providers   Providers
	assembler   *prompt.Assembler
	cfg         Config
}

// NewOrchestrator creates an Orchestrator. The notifier registry is passed in
// by reference from process start; it is never global state.
func NewOrchestrator(
	permissions PermissionService,
	users UserService,
	convs ConversationService,
	bots BotService,
	retriever Retriever,
	notifier Notifier,
	providers Providers,
	cfg Config,
) *Orchestrator {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 10
	}
	if cfg.MaxPromptLength <= 0 {
		cfg.MaxPromptLength = 12000
	}
	return &Orchestrator{
		permissions: permissions,
		users:       users,
		convs:       convs,
		bots:        bots,
		retriever:   retriever,
		notifier:    notifier,
		providers:   providers,
		assembler:   prompt.NewAssembler(cfg.HistoryWindow),
		cfg:         cfg,
	}
}

// ProcessMessage runs one chat turn. See the package comment for the
// fatal/best-effort split.
func (o *Orchestrator) ProcessMessage(ctx context.Context, botID, userID string, req ProcessRequest) (*ProcessResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	if req.Message == "" {
		return nil, &ValidationError{Field: "message", Message: "cannot be empty"}
	}

	bot, err := o.bots.GetByID(ctx, botID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBotNotFound
		}
		return nil, WrapError(err, "failed to load bot")
	}

	allowed, err := o.permissions.HasPermission(ctx, userID, botID, chatAction)
	if err != nil {
		return nil, WrapError(err, "failed to check permission")
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	session, err := o.convs.GetOrCreateSession(ctx, botID, userID, req.SessionID, sessionTitle(req.Message))
	if err != nil {
		return nil, WrapError(err, "failed to resolve session")
	}

	if _, err := o.convs.AddMessage(ctx, &storage.Message{
		SessionID: session.ID,
		Role:      "user",
		Content:   req.Message,
	}); err != nil {
		return nil, WrapError(err, "failed to persist user message")
	}

	// Optional from here until generation: retrieval and history degrade to
	// empty rather than failing the turn.
	result := o.retriever.Retrieve(ctx, bot, userID, req.Message)
	if result.Skipped != "" {
		logger.DebugContext(ctx, "retrieval skipped", "bot_id", botID, "reason", result.Skipped)
	}

	// One extra slot: the just-persisted current turn occupies the newest
	// position and the assembler drops it again.
	var history []prompt.Message
	messages, err := o.convs.RecentMessages(ctx, session.ID, o.cfg.HistoryWindow+1)
	if err != nil {
		logger.WarnContext(ctx, "failed to fetch history, continuing without it", "session_id", session.ID, "error", err)
	} else {
		history = make([]prompt.Message, 0, len(messages))
		for _, msg := range messages {
			history = append(history, prompt.Message{Role: msg.Role, Content: msg.Content})
		}
	}

	assembled := o.assembler.Build(bot.SystemPrompt, history, result.Chunks, req.Message, o.cfg.MaxPromptLength)

	reply, err := o.generate(ctx, bot, userID, assembled)
	if err != nil {
		return nil, err
	}

	chunkPreviews := previewChunks(result)
	metadata := map[string]any{
		"chunks_used":        len(result.Chunks),
		"retrieval_attempts": result.Attempts,
	}
	if result.Skipped != "" {
		metadata["retrieval_skipped"] = result.Skipped
	}
	metadataJSON, _ := json.Marshal(metadata)

	if _, err := o.convs.AddMessage(ctx, &storage.Message{
		SessionID: session.ID,
		Role:      "assistant",
		Content:   reply,
		Metadata:  string(metadataJSON),
	}); err != nil {
		return nil, WrapError(err, "failed to persist assistant message")
	}

	// Fire-and-forget: the notification must never block or fail the
	// response. WithoutCancel keeps it alive past response completion.
	go o.notifier.BroadcastToCollaborators(context.WithoutCancel(ctx), botID, reply, userID)

	elapsed := time.Since(started)
	logger.InfoContext(ctx, "chat turn processed",
		"bot_id", botID, "session_id", session.ID,
		"chunks_used", len(result.Chunks), "elapsed_ms", elapsed.Milliseconds())

	return &ProcessResponse{
		Message:        reply,
		SessionID:      session.ID,
		ChunksUsed:     chunkPreviews,
		ProcessingTime: elapsed,
		Metadata:       metadata,
	}, nil
}

// CreateSession creates a new conversation session after the permission gate.
func (o *Orchestrator) CreateSession(ctx context.Context, botID, userID, title string) (*storage.Session, error) {
	if _, err := o.bots.GetByID(ctx, botID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBotNotFound
		}
		return nil, WrapError(err, "failed to load bot")
	}

	allowed, err := o.permissions.HasPermission(ctx, userID, botID, chatAction)
	if err != nil {
		return nil, WrapError(err, "failed to check permission")
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	session, err := o.convs.CreateSession(ctx, botID, userID, title)
	if err != nil {
		return nil, WrapError(err, "failed to create session")
	}
	return session, nil
}

// generate resolves the LLM provider, credential and token budget, then calls
// the provider. Everything here is mandatory: without a generated reply there
// is no useful response.
func (o *Orchestrator) generate(ctx context.Context, bot *storage.Bot, userID, assembled string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	kind := provider.Kind(bot.LLMProvider)
	p, err := o.providers.Resolve(kind)
	if err != nil {
		return "", WrapError(err, "failed to resolve LLM provider")
	}

	key, err := o.users.APIKey(ctx, userID, bot.LLMProvider)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Fall back to the owner's credential before giving up.
			key, err = o.users.APIKey(ctx, bot.OwnerID, bot.LLMProvider)
		}
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return "", ErrMissingCredential
			}
			return "", WrapError(err, "failed to resolve credential")
		}
	}

	maxTokens := bot.MaxTokens
	if maxTokens == o.cfg.DefaultMaxTokens {
		// The sentinel means "use the model's true maximum". A failed lookup
		// falls back to the configured value.
		if resolved, err := p.ModelMaxTokens(ctx, key, bot.LLMModel); err == nil && resolved > 0 {
			maxTokens = resolved
		} else if err != nil {
			logger.DebugContext(ctx, "model max tokens lookup failed, using configured value",
				"provider", bot.LLMProvider, "model", bot.LLMModel, "error", err)
		}
	}

	reply, err := p.Generate(ctx, key, bot.LLMModel, assembled, provider.GenerationParams{
		Temperature:      bot.Temperature,
		MaxTokens:        maxTokens,
		TopP:             bot.TopP,
		FrequencyPenalty: bot.FrequencyPenalty,
		PresencePenalty:  bot.PresencePenalty,
	})
	if err != nil {
		logger.ErrorContext(ctx, "generation failed", "provider", bot.LLMProvider, "model", bot.LLMModel, "error", err)
		return "", WrapError(err, "failed to generate response")
	}
	return reply, nil
}

const previewLength = 120

func previewChunks(result retrieval.Result) []ChunkPreview {
	previews := make([]ChunkPreview, 0, len(result.Chunks))
	for _, chunk := range result.Chunks {
		docID, _ := chunk.Metadata["document_id"].(string)
		previews = append(previews, ChunkPreview{
			DocumentID: docID,
			Preview:    truncateRunes(chunk.Text, previewLength),
			Score:      chunk.Score,
		})
	}
	return previews
}

const titleLength = 48

func sessionTitle(message string) string {
	return truncateRunes(message, titleLength)
}

// truncateRunes cuts s to at most max bytes, backing up to a rune boundary
// so multi-byte characters are never split, and appends an ellipsis.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
