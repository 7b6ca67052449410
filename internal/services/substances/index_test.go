package substances

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/models"
)

func testCorpus() []*models.IndexedSubstance {
	mdma := &models.Substance{
		ID:         "mdma",
		Name:       models.Name{JA: "MDMA", EN: "MDMA"},
		Aliases:    []string{"ecstasy", "molly", "エクスタシー"},
		Summary:    "Synthetic stimulant and empathogen.",
		Categories: []string{"Stimulant", "Empathogen"},
		Legal:      &models.Legal{JP: &models.Jurisdiction{Status: "麻薬"}},
	}
	lsd := &models.Substance{
		ID:         "lsd",
		Name:       models.Name{JA: "LSD", EN: "LSD"},
		Aliases:    []string{"acid"},
		Summary:    "Potent psychedelic.",
		Categories: []string{"Psychedelic"},
		Legal:      &models.Legal{JP: &models.Jurisdiction{Status: "麻薬"}},
	}
	meth := &models.Substance{
		ID:         "methamphetamine",
		Name:       models.Name{JA: "メタンフェタミン", EN: "Methamphetamine"},
		Aliases:    []string{"覚醒剤"},
		Summary:    "Strong central nervous system stimulant.",
		Categories: []string{"Stimulant"},
		Legal:      &models.Legal{JP: &models.Jurisdiction{Status: "覚醒剤"}},
	}
	return []*models.IndexedSubstance{enrich(mdma), enrich(lsd), enrich(meth)}
}

func TestIndexSearch_ExactAlias(t *testing.T) {
	ix := BuildIndex(testCorpus())

	matches := ix.Search("ecstasy", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "mdma", matches[0].Doc.ID)
	assert.Equal(t, 0.0, matches[0].Score)
}

func TestIndexSearch_FullWidthQuery(t *testing.T) {
	ix := BuildIndex(testCorpus())

	// Full-width query must hit the same documents as the ASCII form
	matches := ix.Search("ＭＤＭＡ", 0)
	require.NotEmpty(t, matches)
	assert.Equal(t, "mdma", matches[0].Doc.ID)
	assert.Equal(t, 0.0, matches[0].Score)
}

func TestIndexSearch_TypoTolerance(t *testing.T) {
	ix := BuildIndex(testCorpus())

	// One edit away from "mdma"
	matches := ix.Search("mdna", 0)
	require.NotEmpty(t, matches)
	assert.Equal(t, "mdma", matches[0].Doc.ID)
	assert.Greater(t, matches[0].Score, 0.0)
}

func TestIndexSearch_Containment(t *testing.T) {
	ix := BuildIndex(testCorpus())

	matches := ix.Search("amphet", 0)
	require.NotEmpty(t, matches)
	assert.Equal(t, "methamphetamine", matches[0].Doc.ID)
}

func TestIndexSearch_JapaneseAlias(t *testing.T) {
	ix := BuildIndex(testCorpus())

	matches := ix.Search("覚醒剤", 0)
	require.NotEmpty(t, matches)
	assert.Equal(t, "methamphetamine", matches[0].Doc.ID)
	assert.Equal(t, 0.0, matches[0].Score)
}

func TestIndexSearch_MinLength(t *testing.T) {
	ix := BuildIndex(testCorpus())

	assert.Empty(t, ix.Search("m", 0))
	assert.Empty(t, ix.Search("", 0))
	assert.Empty(t, ix.Search("  ", 0))
}

func TestIndexSearch_ScoresWithinCutoff(t *testing.T) {
	ix := BuildIndex(testCorpus())

	for _, q := range []string{"mdma", "acid", "stimulant", "psychedelic", "覚醒剤"} {
		for _, m := range ix.Search(q, 0) {
			assert.LessOrEqual(t, m.Score, ScoreCutoff, "query %q doc %s", q, m.Doc.ID)
		}
	}
}

func TestIndexSearch_NoDistantMatches(t *testing.T) {
	ix := BuildIndex(testCorpus())

	for _, m := range ix.Search("ecstasy", 0) {
		assert.NotEqual(t, "lsd", m.Doc.ID)
	}
	assert.Empty(t, ix.Search("zzqqxx", 0))
}

func TestIndexSearch_OrderingAndLimit(t *testing.T) {
	ix := BuildIndex(testCorpus())

	// Both mdma and meth carry the stimulant category word in their text;
	// results come back best score first
	matches := ix.Search("stimulant", 0)
	require.GreaterOrEqual(t, len(matches), 2)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].Score, matches[i].Score)
	}

	limited := ix.Search("stimulant", 1)
	require.Len(t, limited, 1)
	assert.Equal(t, matches[0].Doc.ID, limited[0].Doc.ID)
}
