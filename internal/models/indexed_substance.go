package models

// IndexedSubstance is a Substance enriched with derived search-support
// fields. The derived fields are computed once when the document is loaded
// and never mutated afterwards; they belong to exactly one cache generation
// and are never serialized to callers.
type IndexedSubstance struct {
	Substance

	// SearchText is the normalized concatenation of id, names, aliases,
	// summary, effects and warnings. It is the lowest-weight fallback
	// matching surface of the search index.
	SearchText string `json:"-"`

	// CategoriesNorm holds the normalized category tokens used for exact
	// filter matching.
	CategoriesNorm []string `json:"-"`

	// StatusNorm is the normalized Japanese legal status, "" when absent.
	StatusNorm string `json:"-"`
}

// HasCategory reports whether any of the given normalized tokens is present
// in the document's normalized category set.
func (s *IndexedSubstance) HasCategory(tokens []string) bool {
	for _, want := range tokens {
		for _, have := range s.CategoriesNorm {
			if have == want {
				return true
			}
		}
	}
	return false
}
