package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/interfaces"
)

// SubstanceHandler handles substance search and lookup HTTP requests
type SubstanceHandler struct {
	service interfaces.SubstanceService
	logger  arbor.ILogger
}

// NewSubstanceHandler creates a new substance handler with dependencies
func NewSubstanceHandler(service interfaces.SubstanceService, logger arbor.ILogger) *SubstanceHandler {
	return &SubstanceHandler{
		service: service,
		logger:  logger,
	}
}

// SearchHandler handles GET /api/substances requests.
// Parameters (all optional): q, category (comma-separated), status, limit.
func (h *SubstanceHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	params := r.URL.Query()

	// Default rather than reject on bad input: this is a read-only search
	// surface, best effort wins over strict validation.
	limit := -1
	if limitStr := params.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed >= 0 {
			limit = parsed
		}
	}

	query := interfaces.SubstanceQuery{
		Text:     params.Get("q"),
		Category: params.Get("category"),
		Status:   params.Get("status"),
		Limit:    limit,
	}

	result, err := h.service.Query(r.Context(), query)
	if err != nil {
		if h.logger != nil {
			h.logger.Error().
				Err(err).
				Str("q", query.Text).
				Msg("Substance query failed")
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// GetSubstanceHandler handles GET /api/substances/{id} requests, returning
// the stored document verbatim.
func (h *SubstanceHandler) GetSubstanceHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/substances/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing substance id")
		return
	}

	doc, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrSubstanceNotFound) {
			WriteError(w, http.StatusNotFound, "Substance not found: "+id)
			return
		}
		if h.logger != nil {
			h.logger.Error().Err(err).Str("id", id).Msg("Failed to read substance")
		}
		WriteError(w, http.StatusInternalServerError, "Failed to read substance")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(doc)
}

// StatusHandler handles GET /api/status requests with cache statistics.
func (h *SubstanceHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats := h.service.Stats()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents":     stats.DocumentCount,
		"index_built":   !stats.BuiltAt.IsZero(),
		"built_at":      stats.BuiltAt,
		"cache_age_sec": int(stats.Age.Seconds()),
	})
}
