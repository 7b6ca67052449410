package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/models"
)

// ErrSubstanceNotFound is returned by GetByID when no readable document
// exists for the requested id.
var ErrSubstanceNotFound = errors.New("substance not found")

// SubstanceQuery carries the raw, caller-supplied query parameters. The
// service normalizes them; handlers pass them through untouched.
type SubstanceQuery struct {
	// Text is the free-text query; empty means listing mode.
	Text string
	// Category is a comma-separated list of category tags.
	Category string
	// Status is a single jurisdiction status label.
	Status string
	// Limit is the requested result limit; negative means unspecified.
	Limit int
}

// SubstanceQueryResult is the query response. The echoed parameters are the
// normalized forms, for client-side display and debugging.
type SubstanceQueryResult struct {
	Total    int                       `json:"total"`
	Q        string                    `json:"q,omitempty"`
	Category string                    `json:"category,omitempty"`
	Status   string                    `json:"status,omitempty"`
	Results  []models.SubstanceSummary `json:"results"`
}

// SubstanceStats describes the current cache generation for status
// reporting.
type SubstanceStats struct {
	DocumentCount int           `json:"document_count"`
	BuiltAt       time.Time     `json:"built_at"`
	Age           time.Duration `json:"age"`
}

// SubstanceService is the substance search and lookup contract consumed by
// the HTTP handlers.
type SubstanceService interface {
	// Query runs a search or listing over the cached corpus.
	Query(ctx context.Context, q SubstanceQuery) (*SubstanceQueryResult, error)

	// GetByID returns one document's raw JSON verbatim, or
	// ErrSubstanceNotFound when absent or unparsable. Shares the storage
	// layout with the loader but not its cache.
	GetByID(ctx context.Context, id string) (json.RawMessage, error)

	// Warm forces the cache to hold a fresh snapshot.
	Warm(ctx context.Context) error

	// Stats reports on the currently-built snapshot, if any.
	Stats() SubstanceStats
}
