// Package ws fans chat events out to a bot's collaborators over WebSocket.
// The hub is an explicit registry constructed once at process start and
// passed by reference into the orchestrator; there is no package-level
// singleton. Delivery is fire and forget: a slow or dead connection is
// dropped, never waited on, and no delivery guarantee is made.
package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yuin/goldmark"

	"ragbot/internal/contextutil"
)

const writeTimeout = 5 * time.Second

// Collaborators lists the user IDs entitled to a bot's events.
type Collaborators interface {
	Collaborators(ctx context.Context, botID string) ([]string, error)
}

// Event is one broadcast payload. HTML carries the markdown-rendered message
// for web clients; Message is the raw text.
type Event struct {
	BotID   string `json:"bot_id"`
	Message string `json:"message"`
	HTML    string `json:"html,omitempty"`
	SentAt  string `json:"sent_at"`
}

// client wraps a connection with a write lock. gorilla/websocket allows one
// concurrent writer per connection, and broadcasts run on goroutines spawned
// per chat turn, so unserialized writes would panic the process.
type client struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks live connections per user and broadcasts bot events.
type Hub struct {
	collaborators Collaborators
	markdown      goldmark.Markdown
	upgrader      websocket.Upgrader

	mu    sync.RWMutex
	conns map[string][]*client
}

// NewHub creates a Hub.
func NewHub(collaborators Collaborators) *Hub {
	return &Hub{
		collaborators: collaborators,
		markdown:      goldmark.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin browsers are allowed; auth happens upstream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[string][]*client),
	}
}

// ServeHTTP upgrades the request and registers the connection for the user.
// The user ID is taken from the query string; authentication is the outer
// layer's concern.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(ctx, "websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	h.register(userID, c)
	logger.InfoContext(ctx, "websocket connected", "user_id", userID)

	// Reader loop only detects close; inbound frames are discarded.
	go func() {
		defer h.unregister(userID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// BroadcastToCollaborators sends the message to every connected collaborator
// of the bot except excludeUser. Failures are logged and discarded.
func (h *Hub) BroadcastToCollaborators(ctx context.Context, botID, message, excludeUser string) {
	logger := contextutil.LoggerFromContext(ctx)

	userIDs, err := h.collaborators.Collaborators(ctx, botID)
	if err != nil {
		logger.WarnContext(ctx, "failed to list collaborators for broadcast", "bot_id", botID, "error", err)
		return
	}

	event := Event{
		BotID:   botID,
		Message: message,
		HTML:    h.renderHTML(message),
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.WarnContext(ctx, "failed to marshal broadcast event", "bot_id", botID, "error", err)
		return
	}

	for _, userID := range userIDs {
		if userID == excludeUser {
			continue
		}
		for _, c := range h.connections(userID) {
			if err := c.write(payload); err != nil {
				logger.DebugContext(ctx, "dropping dead websocket connection", "user_id", userID, "error", err)
				h.unregister(userID, c)
			}
		}
	}
}

func (h *Hub) renderHTML(message string) string {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(message), &buf); err != nil {
		return ""
	}
	return buf.String()
}

func (h *Hub) register(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], c)
}

func (h *Hub) unregister(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.conns[userID]
	for i, existing := range conns {
		if existing == c {
			h.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	_ = c.conn.Close()
}

func (h *Hub) connections(userID string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := make([]*client, len(h.conns[userID]))
	copy(conns, h.conns[userID])
	return conns
}
