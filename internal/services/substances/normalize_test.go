package substances

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_FullWidthLatin(t *testing.T) {
	// Full-width forms must compare equal to their ASCII counterparts
	assert.Equal(t, "mdma", Normalize("ＭＤＭＡ"))
	assert.Equal(t, "mdma", Normalize("MDMA"))
}

func TestNormalize_HalfWidthKatakana(t *testing.T) {
	assert.Equal(t, "カフェイン", Normalize("ｶﾌｪｲﾝ"))
}

func TestNormalize_Whitespace(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a \t b\n\nc  "))
	// Ideographic space collapses too
	assert.Equal(t, "覚醒 剤", Normalize("覚醒　剤"))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"ＭＤＭＡ", "ｶﾌｪｲﾝ", "  Mixed　Ｃase ", "リゼルグ酸", ""}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList("A, b ,,"))
	assert.Equal(t, []string{"stimulant"}, SplitList("Stimulant"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , , "))
}

func TestSplitList_NormalizesTokens(t *testing.T) {
	assert.Equal(t, []string{"オピオイド", "stimulant"}, SplitList("ｵピオイド,ＳＴＩＭＵＬＡＮＴ"))
}
