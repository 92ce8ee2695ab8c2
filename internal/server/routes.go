package server

import (
	"net/http"

	"github.com/bobmcallan/mcpforge/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (streamable HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/validate", s.app.GeneratorHandler.Validate)
	mux.HandleFunc("/api/generate", s.app.GeneratorHandler.Generate)
	mux.HandleFunc("/api/manifest", s.app.GeneratorHandler.Manifest)
	mux.HandleFunc("/api/package", s.app.GeneratorHandler.Package)

	// JSON 404 for everything else
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "The requested endpoint does not exist")
}
