// Package substances implements the substance search core: loading the
// per-substance JSON documents, normalizing their text, building the fuzzy
// search index, caching the built index, and answering queries.
package substances

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// Normalize canonicalizes free text for indexing and matching. Applies, in
// order: NFKC compatibility normalization (so full-width and half-width
// forms compare equal), Unicode case folding, whitespace-run collapsing and
// surrounding trim. Total and idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = foldCaser.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// SplitList splits a comma-separated multi-value parameter (such as the
// category filter) into normalized, non-empty tokens.
func SplitList(s string) []string {
	s = Normalize(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
