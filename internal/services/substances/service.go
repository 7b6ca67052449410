package substances

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/common"
	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/interfaces"
	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/models"
)

const (
	// DefaultQueryLimit applies when the caller does not specify a limit
	// and the config does not override it.
	DefaultQueryLimit = 200
	// MaxQueryLimit caps the result count regardless of the requested value.
	MaxQueryLimit = 500

	// Over-fetch for fuzzy search to compensate for post-filter attrition
	overFetchFactor = 10
	overFetchCap    = 2000
)

// Service composes the cache, index and filters into the public substance
// query contract. It implements interfaces.SubstanceService.
type Service struct {
	dir          string
	cache        *Cache
	logger       arbor.ILogger
	defaultLimit int
	maxLimit     int
}

// NewService creates the substance service from the application config.
func NewService(cfg *common.Config, logger arbor.ILogger) *Service {
	ttl, err := cfg.CacheTTL()
	if err != nil {
		// Config is validated at startup; an error here means a programmatic
		// config, so fall back rather than fail.
		ttl = DefaultCacheTTL
	}

	defaultLimit := cfg.Search.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultQueryLimit
	}
	maxLimit := cfg.Search.MaxLimit
	if maxLimit <= 0 {
		maxLimit = MaxQueryLimit
	}

	dir := cfg.Content.SubstancesDir
	return &Service{
		dir:          dir,
		cache:        NewCache(dir, ttl, logger),
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Query answers a search or listing request against the cached snapshot.
func (s *Service) Query(ctx context.Context, q interfaces.SubstanceQuery) (*interfaces.SubstanceQueryResult, error) {
	text := Normalize(q.Text)
	categories := SplitList(q.Category)
	status := Normalize(q.Status)
	limit := s.clampLimit(q.Limit)

	snap, err := s.cache.Snapshot()
	if err != nil {
		return nil, err
	}

	pass := func(doc *models.IndexedSubstance) bool {
		if len(categories) > 0 && !doc.HasCategory(categories) {
			return false
		}
		if status != "" && doc.StatusNorm != status {
			return false
		}
		return true
	}

	var results []models.SubstanceSummary
	if text == "" {
		results = s.listFiltered(snap, pass, limit)
	} else {
		results = s.searchFiltered(snap, text, pass, limit)
	}

	res := &interfaces.SubstanceQueryResult{
		Total:    len(results),
		Q:        text,
		Category: strings.Join(categories, ","),
		Status:   status,
		Results:  results,
	}

	if s.logger != nil {
		s.logger.Debug().
			Str("q", text).
			Str("category", res.Category).
			Str("status", status).
			Int("limit", limit).
			Int("total", res.Total).
			Msg("Substance query completed")
	}

	return res, nil
}

// listFiltered is the no-free-text path: all documents passing the filters,
// ordered by primary display name with Japanese collation.
func (s *Service) listFiltered(snap *Snapshot, pass func(*models.IndexedSubstance) bool, limit int) []models.SubstanceSummary {
	kept := make([]*models.IndexedSubstance, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		if pass(doc) {
			kept = append(kept, doc)
		}
	}

	coll := collate.New(language.Japanese)
	sort.SliceStable(kept, func(i, j int) bool {
		return coll.CompareString(kept[i].DisplayName(), kept[j].DisplayName()) < 0
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]models.SubstanceSummary, 0, len(kept))
	for _, doc := range kept {
		out = append(out, doc.ToSummary())
	}
	return out
}

// searchFiltered is the free-text path: fuzzy search with an over-fetch,
// then post-filter and truncate. The index already returns ascending score.
func (s *Service) searchFiltered(snap *Snapshot, text string, pass func(*models.IndexedSubstance) bool, limit int) []models.SubstanceSummary {
	if limit <= 0 {
		return []models.SubstanceSummary{}
	}
	preLimit := limit * overFetchFactor
	if preLimit > overFetchCap {
		preLimit = overFetchCap
	}

	out := make([]models.SubstanceSummary, 0, limit)
	for _, m := range snap.Index.Search(text, preLimit) {
		if !pass(m.Doc) {
			continue
		}
		out = append(out, m.Doc.ToSummary())
		if len(out) >= limit {
			break
		}
	}
	return out
}

// GetByID reads one document file from the shared storage layout and
// returns its contents verbatim. It bypasses the cache and index on purpose:
// the detail page wants the whole document, including fields the index never
// looks at.
func (s *Service) GetByID(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, interfaces.ErrSubstanceNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrSubstanceNotFound, id)
	}
	if !json.Valid(data) {
		if s.logger != nil {
			s.logger.Warn().Str("id", id).Msg("Substance file exists but is not valid JSON")
		}
		return nil, fmt.Errorf("%w: %s", interfaces.ErrSubstanceNotFound, id)
	}
	return json.RawMessage(data), nil
}

// Warm forces a fresh snapshot so the next query hits a built index.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.cache.Snapshot()
	return err
}

// Stats reports the current cache generation without triggering a rebuild.
func (s *Service) Stats() interfaces.SubstanceStats {
	snap := s.cache.Peek()
	if snap == nil {
		return interfaces.SubstanceStats{}
	}
	return interfaces.SubstanceStats{
		DocumentCount: len(snap.Documents),
		BuiltAt:       snap.BuiltAt,
		Age:           time.Since(snap.BuiltAt),
	}
}

func (s *Service) clampLimit(limit int) int {
	if limit < 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}
