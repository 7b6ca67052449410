package substances

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/models"
)

// LoadDirectory reads every substance document under dir and returns the
// indexable ones with their derived search fields populated.
//
// Individual bad files never fail the batch: parse failures are logged and
// skipped, and documents missing an id or a primary name are skipped
// silently. A missing directory is a deployment problem and is surfaced as
// an error.
func LoadDirectory(dir string, logger arbor.ILogger) ([]*models.IndexedSubstance, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("substances directory not found: %s: %w", dir, err)
	}

	docs := make([]*models.IndexedSubstance, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		// Schema/template markers and hidden files are not content
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if logger != nil {
				logger.Warn().Err(err).Str("file", name).Msg("Failed to read substance file, skipping")
			}
			continue
		}

		sub, err := models.ParseSubstance(data)
		if err != nil {
			if logger != nil {
				logger.Warn().Err(err).Str("file", name).Msg("Malformed substance file, skipping")
			}
			continue
		}

		// Not indexable without an id and a primary name
		if sub.ID == "" || sub.Name.JA == "" {
			continue
		}

		docs = append(docs, enrich(sub))
	}

	return docs, nil
}

// enrich computes the derived search-support fields for a parsed document.
func enrich(sub *models.Substance) *models.IndexedSubstance {
	parts := make([]string, 0, 6+len(sub.Aliases)+len(sub.Effects)+len(sub.Warnings))
	parts = append(parts, sub.ID, sub.Name.JA, sub.Name.EN)
	parts = append(parts, sub.Aliases...)
	parts = append(parts, sub.Summary)
	parts = append(parts, sub.Effects...)
	parts = append(parts, sub.Warnings...)

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	norm := make([]string, 0, len(sub.Categories))
	for _, c := range sub.Categories {
		if t := Normalize(c); t != "" {
			norm = append(norm, t)
		}
	}

	return &models.IndexedSubstance{
		Substance:      *sub,
		SearchText:     Normalize(strings.Join(nonEmpty, " / ")),
		CategoriesNorm: norm,
		StatusNorm:     Normalize(sub.JPStatus()),
	}
}
