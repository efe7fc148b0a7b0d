package routes

import (
	"net/http"

	"clementus360/wellness-sessions/config"
	"clementus360/wellness-sessions/handlers"
	"clementus360/wellness-sessions/middleware"
)

// RegisterAllRoutes registers all application routes
func RegisterAllRoutes(mux *http.ServeMux, h *handlers.Handler, auth func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /health", h.HealthHandler)
	mux.Handle("GET /me", auth(http.HandlerFunc(h.MeHandler)))
	RegisterSessionRoutes(mux, h, auth)
	mux.HandleFunc("/", h.NotFoundHandler)
}

// NewRouter builds the full HTTP handler: routes plus the middleware stack.
func NewRouter(cfg *config.Config, h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()
	RegisterAllRoutes(mux, h, middleware.AuthMiddleware(cfg.SupabaseJWTSecret))

	return middleware.Chain(
		middleware.RecoverMiddleware,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware(cfg.CORSOrigin),
	)(mux)
}
