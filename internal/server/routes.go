package server

import (
	"net/http"

	"github.com/LeninZapata/factory-saas-sub002/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("/api/auth/login", s.withRateLimit(s.app.AuthHandler.HandleLogin))
	mux.HandleFunc("/api/auth/logout", s.app.AuthHandler.HandleLogout)
	mux.HandleFunc("/api/auth/session", s.requireAuth(s.app.AuthHandler.HandleSession))

	// Users (self or admin)
	mux.HandleFunc("/api/users/", s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, s.app.UsersHandler.HandleGet, s.app.UsersHandler.HandleUpdate)
	}))

	// Service
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "not_found", "the requested endpoint does not exist")
}
