package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ragbot/internal/chat"
	"ragbot/internal/handlers"
	"ragbot/internal/ws"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Orchestrator *chat.Orchestrator
	Hub          *ws.Hub
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.Orchestrator)
	sessionHandler := handlers.NewSessionHandler(deps.Orchestrator)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/bots/{botID}/chat", chatHandler)
		r.Method(http.MethodPost, "/bots/{botID}/sessions", sessionHandler)
		r.Method(http.MethodGet, "/ws", deps.Hub)
	})

	r.Get("/healthz", handlers.Health)

	return r
}
