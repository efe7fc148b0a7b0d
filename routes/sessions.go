package routes

import (
	"net/http"

	"clementus360/wellness-sessions/handlers"
)

// RegisterSessionRoutes registers all session-related routes. auth wraps the
// routes that need a resolved caller.
func RegisterSessionRoutes(mux *http.ServeMux, h *handlers.Handler, auth func(http.Handler) http.Handler) {
	// Public listing
	mux.HandleFunc("GET /sessions", h.GetPublicSessionsHandler)

	// Owner-scoped operations
	mux.Handle("GET /sessions/mine", auth(http.HandlerFunc(h.GetMySessionsHandler)))
	mux.Handle("GET /sessions/mine/{id}", auth(http.HandlerFunc(h.GetMySessionHandler)))
	mux.Handle("POST /sessions/draft", auth(http.HandlerFunc(h.SaveDraftHandler)))
	mux.Handle("POST /sessions/publish", auth(http.HandlerFunc(h.PublishSessionHandler)))
	mux.Handle("DELETE /sessions/mine/{id}", auth(http.HandlerFunc(h.DeleteSessionHandler)))
}
