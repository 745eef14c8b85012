package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ragbot/internal/chat"
	"ragbot/internal/contextutil"
)

// SessionHandler handles HTTP requests for session creation.
type SessionHandler struct {
	orchestrator Orchestrator
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(orchestrator Orchestrator) *SessionHandler {
	return &SessionHandler{orchestrator: orchestrator}
}

// SessionRequest represents the HTTP request payload for session creation.
type SessionRequest struct {
	Title string `json:"title,omitempty"`
}

// SessionResponse represents a created session.
type SessionResponse struct {
	ID        string    `json:"id"`
	BotID     string    `json:"bot_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ServeHTTP handles POST /api/bots/{botID}/sessions.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	botID := chi.URLParam(r, "botID")
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}

	var req SessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	session, err := h.orchestrator.CreateSession(ctx, botID, userID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrBotNotFound):
			writeError(w, http.StatusNotFound, "Bot not found")
		case errors.Is(err, chat.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "Permission denied")
		default:
			logger.ErrorContext(ctx, "session creation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create session")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SessionResponse{
		ID:        session.ID,
		BotID:     session.BotID,
		UserID:    session.UserID,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
