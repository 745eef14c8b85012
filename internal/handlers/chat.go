package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ragbot/internal/chat"
	"ragbot/internal/contextutil"
	"ragbot/internal/provider"
	"ragbot/internal/storage"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_orchestrator.go -package=mocks ragbot/internal/handlers Orchestrator

// Orchestrator is the part of the chat pipeline the HTTP layer needs.
type Orchestrator interface {
	ProcessMessage(ctx context.Context, botID, userID string, req chat.ProcessRequest) (*chat.ProcessResponse, error)
	CreateSession(ctx context.Context, botID, userID, title string) (*storage.Session, error)
}

// ChatHandler handles HTTP requests for chat turns.
type ChatHandler struct {
	orchestrator Orchestrator
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(orchestrator Orchestrator) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator}
}

// ChatRequest represents the HTTP request payload for a chat turn.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse represents the HTTP response payload for a chat turn.
type ChatResponse struct {
	Message          string             `json:"message"`
	SessionID        string             `json:"session_id"`
	ChunksUsed       []chat.ChunkPreview `json:"chunks_used"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
	Metadata         map[string]any     `json:"metadata,omitempty"`
}

// ServeHTTP handles POST /api/bots/{botID}/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	botID := chi.URLParam(r, "botID")
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.orchestrator.ProcessMessage(ctx, botID, userID, chat.ProcessRequest{
		Message:   req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		handleChatError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ChatResponse{
		Message:          resp.Message,
		SessionID:        resp.SessionID,
		ChunksUsed:       resp.ChunksUsed,
		ProcessingTimeMs: resp.ProcessingTime.Milliseconds(),
		Metadata:         resp.Metadata,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleChatError maps orchestrator errors onto HTTP statuses.
func handleChatError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *chat.ValidationError
	var upstreamErr *provider.UpstreamError
	var configErr *provider.ConfigurationError
	var authErr *provider.AuthError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, chat.ErrBotNotFound):
		writeError(w, http.StatusNotFound, "Bot not found")
	case errors.Is(err, chat.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, chat.ErrMissingCredential), errors.As(err, &authErr):
		writeError(w, http.StatusBadRequest, "No valid credential for the bot's LLM provider")
	case errors.As(err, &configErr):
		writeError(w, http.StatusBadRequest, "Bot provider configuration is invalid")
	case errors.As(err, &upstreamErr):
		logger.ErrorContext(ctx, "upstream provider failure", "error", err)
		writeError(w, http.StatusBadGateway, "LLM provider request failed")
	default:
		logger.ErrorContext(ctx, "chat request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process chat request")
	}
}
