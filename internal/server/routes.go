package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Substances
	// GET /api/substances        - search/list with q/category/status/limit
	// GET /api/substances/{id}   - single document, verbatim
	// GET /api/status            - cache statistics
	mux.HandleFunc("/api/substances", s.app.SubstanceHandler.SearchHandler)
	mux.HandleFunc("/api/substances/", s.app.SubstanceHandler.GetSubstanceHandler)
	mux.HandleFunc("/api/status", s.app.SubstanceHandler.StatusHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
