package substances

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/models"
)

const (
	// MinMatchLength is the minimum query length (in runes) the index will
	// match; shorter queries produce only noise in a dictionary lookup.
	MinMatchLength = 2

	// ScoreCutoff is the maximum score (lower = better) a candidate may
	// have and still be returned. Tuned for precision over recall.
	ScoreCutoff = 0.35

	// containmentScale bounds the score of substring matches so that a
	// containment anywhere in a field always beats a typo-distance match.
	containmentScale = 0.1
)

// searchFields is the weight table for multi-field matching, highest-trust
// field first. The normalized full search text is the safety net below all
// structured fields.
var searchFields = []struct {
	name    string
	weight  float64
	extract func(*models.IndexedSubstance) []string
}{
	{"name_ja", 5, func(d *models.IndexedSubstance) []string { return []string{d.Name.JA} }},
	{"aliases", 4, func(d *models.IndexedSubstance) []string { return d.Aliases }},
	{"name_en", 3, func(d *models.IndexedSubstance) []string { return []string{d.Name.EN} }},
	{"id", 3, func(d *models.IndexedSubstance) []string { return []string{d.ID} }},
	{"summary", 2, func(d *models.IndexedSubstance) []string { return []string{d.Summary} }},
	{"effects", 1, func(d *models.IndexedSubstance) []string { return d.Effects }},
	{"warnings", 1, func(d *models.IndexedSubstance) []string { return d.Warnings }},
	{"search_text", 0.8, func(d *models.IndexedSubstance) []string { return []string{d.SearchText} }},
}

// Match is a single search hit. Lower score = better match; scores never
// exceed ScoreCutoff.
type Match struct {
	Doc   *models.IndexedSubstance
	Score float64
}

// indexedField holds one document field's normalized matching terms.
type indexedField struct {
	weight float64
	terms  []string
}

type indexEntry struct {
	doc    *models.IndexedSubstance
	fields []indexedField
}

// Index is an immutable fuzzy full-text index over a document snapshot.
// Query-time filtering happens outside the index; it is never mutated after
// Build returns.
type Index struct {
	entries []indexEntry
}

// BuildIndex constructs the index, normalizing and tokenizing every weighted
// field once up front.
func BuildIndex(docs []*models.IndexedSubstance) *Index {
	ix := &Index{entries: make([]indexEntry, 0, len(docs))}
	for _, doc := range docs {
		entry := indexEntry{doc: doc, fields: make([]indexedField, 0, len(searchFields))}
		for _, f := range searchFields {
			terms := fieldTerms(f.extract(doc))
			if len(terms) == 0 {
				continue
			}
			entry.fields = append(entry.fields, indexedField{weight: f.weight, terms: terms})
		}
		ix.entries = append(ix.entries, entry)
	}
	return ix
}

// fieldTerms normalizes the field values and adds their individual tokens,
// so a match anywhere inside a multi-word field counts.
func fieldTerms(values []string) []string {
	var terms []string
	seen := map[string]bool{}
	add := func(t string) {
		if t != "" && t != "/" && !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	for _, v := range values {
		v = Normalize(v)
		add(v)
		for _, tok := range strings.Fields(v) {
			add(tok)
		}
	}
	return terms
}

// Search returns the documents matching query, best first. A field counts
// only when its raw similarity is within ScoreCutoff; the field score is its
// raw similarity divided by the field weight, and the document score is the
// best field score. limit <= 0 means unlimited.
func (ix *Index) Search(query string, limit int) []Match {
	query = Normalize(query)
	if utf8.RuneCountInString(query) < MinMatchLength {
		return nil
	}

	matches := make([]Match, 0, 16)
	for i := range ix.entries {
		entry := &ix.entries[i]
		best := -1.0
		for _, f := range entry.fields {
			raw := bestSimilarity(query, f.terms)
			if raw > ScoreCutoff {
				continue
			}
			if score := raw / f.weight; best < 0 || score < best {
				best = score
			}
		}
		if best >= 0 && best <= ScoreCutoff {
			matches = append(matches, Match{Doc: entry.doc, Score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score < matches[j].Score
		}
		return matches[i].Doc.DisplayName() < matches[j].Doc.DisplayName()
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func bestSimilarity(query string, terms []string) float64 {
	best := 1.0
	for _, t := range terms {
		if s := similarity(query, t); s < best {
			best = s
			if best == 0 {
				break
			}
		}
	}
	return best
}

// similarity scores a normalized query against a normalized term in [0,1],
// lower = better. Exact match is 0, containment scales with how much of the
// term the query covers, anything else is Levenshtein distance over the
// longer length.
func similarity(query, term string) float64 {
	if query == term {
		return 0
	}
	if term == "" {
		return 1
	}
	lq := utf8.RuneCountInString(query)
	lt := utf8.RuneCountInString(term)
	if strings.Contains(term, query) {
		return containmentScale * (1 - float64(lq)/float64(lt))
	}
	longer := lq
	if lt > longer {
		longer = lt
	}
	return float64(fuzzy.LevenshteinDistance(query, term)) / float64(longer)
}
