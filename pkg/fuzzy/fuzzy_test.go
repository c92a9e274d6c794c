package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_ExactMatch(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("invoice", "invoice"))
	assert.Equal(t, 1.0, Similarity("Invoice", "invoice"), "matching is case insensitive")
	assert.Equal(t, 1.0, Similarity("  Hello   World ", "hello world"), "whitespace is collapsed")
}

func TestSimilarity_Substring(t *testing.T) {
	assert.Equal(t, 0.9, Similarity("Invoice #42 from Acme", "invoice"))
	assert.Equal(t, 0.9, Similarity("Re: meeting notes", "meeting"))
}

func TestSimilarity_TypoWithinEditDistance(t *testing.T) {
	// "invioce" vs "invoice": distance 2, allowed 2 for len > 5.
	score := Similarity("invoice due next week", "invioce")
	assert.InDelta(t, 1.0-2.0/7.0, score, 0.001)

	// "cofee" vs "coffee": distance 1, allowed 1 for len <= 5.
	score = Similarity("free coffee friday", "cofee")
	assert.InDelta(t, 1.0-1.0/6.0, score, 0.001)

	// "recieve" vs "receive": the classic transposition costs 2.
	score = Similarity("did you receive this", "recieve")
	assert.InDelta(t, 1.0-2.0/7.0, score, 0.001)
}

func TestSimilarity_TypoBeyondEditDistance(t *testing.T) {
	// Short queries only get one typo.
	assert.Equal(t, 0.0, Similarity("cart", "cbrz"))
}

func TestSimilarity_MultiWordQuery(t *testing.T) {
	// One of two query words matches a text word.
	score := Similarity("weekly project status", "project update")
	assert.Equal(t, 0.5, score)

	// Both words match.
	score = Similarity("weekly project update report", "project update")
	assert.GreaterOrEqual(t, score, 0.9, "full phrase is a substring")
}

func TestSimilarity_NoMatch(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("quarterly report", "zebra"))
	assert.Equal(t, 0.0, Similarity("", "query"))
	assert.Equal(t, 0.0, Similarity("text", ""))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("same", "same"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 3, LevenshteinDistance("", "abc"))
	assert.Equal(t, 3, LevenshteinDistance("abc", ""))
	assert.Equal(t, 1, LevenshteinDistance("coffee", "cofee"))
	assert.Equal(t, 2, LevenshteinDistance("invoice", "invioce"))
}

func TestNgramOverlap(t *testing.T) {
	assert.Equal(t, 1.0, ngramOverlap("invoice", "invoice", 3))
	assert.Equal(t, 0.0, ngramOverlap("abc", "xyz", 3))

	// Strings shorter than n match as whole units.
	assert.Equal(t, 1.0, ngramOverlap("ab", "ab", 3))

	// Grams are built over runes, not bytes: 3 of the query's 4 trigrams
	// appear in the text.
	assert.InDelta(t, 0.75, ngramOverlap("チョコレート", "チョコレータ", 3), 1e-9)
}

func TestSimilarity_MultibyteRunes(t *testing.T) {
	// 4 runes, within one edit: 1 - 1/4.
	assert.InDelta(t, 0.75, Similarity("Café Latte", "cafè"), 1e-9)

	// "münze" is 5 runes (6 bytes): only one edit is allowed, so a
	// two-edit variant must not match on the edit-distance tier.
	assert.Equal(t, 0.0, levenshteinWordScore("mönzä", "münze"))

	// Long queries with accents still tolerate two edits.
	assert.InDelta(t, 1.0-1.0/16.0, Similarity("Rechnungsprüfung fällig", "rechnungsprufung"), 1e-9)
}
