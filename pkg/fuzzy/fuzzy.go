// Package fuzzy implements the string similarity scoring used by the board
// search: a ladder of matching tiers (exact, substring, word prefix, bounded
// edit distance, 3-gram overlap, word-level) tried in order, the first
// decisive tier winning.
package fuzzy

import (
	"strings"
	"unicode/utf8"
)

const (
	// minLevSimilarity is the floor under which an edit-distance match is
	// discarded instead of returned.
	minLevSimilarity = 0.5

	// minNgramOverlap is the minimum 3-gram overlap ratio for the n-gram
	// tier to apply.
	minNgramOverlap = 0.6

	// maxLevDistance caps the allowed edit distance for longer queries.
	maxLevDistance = 2

	// minWordScore is the floor for the multi-word tier.
	minWordScore = 0.5

	ngramSize = 3
)

// tierFunc evaluates one similarity tier. ok=false means the tier does not
// apply and the next one should be tried.
type tierFunc func(text, query string) (score float64, ok bool)

// decisiveTiers are tried in order; the first hit is returned as-is.
var decisiveTiers = []tierFunc{
	exactTier,
	substringTier,
	wordPrefixTier,
}

// Similarity scores how well query matches text, in [0,1]. Both inputs are
// normalized to lower case. The decisive tiers are tried in order; if none
// applies, the best of the approximate tiers (edit distance, 3-gram overlap,
// word-level) that clears its own floor is returned, else 0.
func Similarity(text, query string) float64 {
	text = normalize(text)
	query = normalize(query)
	if text == "" || query == "" {
		return 0
	}

	for _, tier := range decisiveTiers {
		if score, ok := tier(text, query); ok {
			return score
		}
	}

	best := 0.0
	if score := levenshteinWordScore(text, query); score >= minLevSimilarity {
		best = score
	}
	if overlap := ngramOverlap(text, query, ngramSize); overlap >= minNgramOverlap {
		if score := overlap * 0.7; score > best {
			best = score
		}
	}
	if strings.Contains(query, " ") {
		if score := wordMatchScore(text, query); score >= minWordScore && score > best {
			best = score
		}
	}
	return best
}

func exactTier(text, query string) (float64, bool) {
	if text == query {
		return 1.0, true
	}
	return 0, false
}

func substringTier(text, query string) (float64, bool) {
	if strings.Contains(text, query) {
		return 0.9, true
	}
	return 0, false
}

// wordPrefixTier matches a query of at least 3 chars against the start of
// any whitespace-delimited word of the text.
func wordPrefixTier(text, query string) (float64, bool) {
	if utf8.RuneCountInString(query) < 3 {
		return 0, false
	}
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) {
			return 0.85, true
		}
	}
	return 0, false
}

// levenshteinWordScore checks each word of the text against the query with a
// bounded edit distance: one typo for queries up to 5 chars, two beyond.
// Words and queries shorter than 3 chars are skipped to avoid false
// positives. Returns the best similarity found, 0 if none is within bound.
func levenshteinWordScore(text, query string) float64 {
	queryLen := utf8.RuneCountInString(query)
	if queryLen < 3 {
		return 0
	}
	allowed := 1
	if queryLen > 5 {
		allowed = maxLevDistance
	}

	best := 0.0
	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if wordLen < 3 {
			continue
		}
		distance := LevenshteinDistance(word, query)
		if distance > allowed {
			continue
		}
		maxLen := wordLen
		if queryLen > maxLen {
			maxLen = queryLen
		}
		similarity := 1.0 - float64(distance)/float64(maxLen)
		if similarity > best {
			best = similarity
		}
	}
	return best
}

// ngramOverlap is |text n-grams ∩ query n-grams| / |query n-grams|. A string
// shorter than n contributes itself as its only n-gram.
func ngramOverlap(text, query string, n int) float64 {
	queryGrams := ngrams(query, n)
	if len(queryGrams) == 0 {
		return 0
	}
	textGrams := ngrams(text, n)
	matched := 0
	for gram := range queryGrams {
		if _, ok := textGrams[gram]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryGrams))
}

func ngrams(s string, n int) map[string]struct{} {
	grams := make(map[string]struct{})
	runes := []rune(s)
	if len(runes) < n {
		grams[s] = struct{}{}
		return grams
	}
	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])] = struct{}{}
	}
	return grams
}

// wordMatchScore handles multi-word queries: the fraction of query words (of
// length >= 3) that match some text word exactly, as a substantial substring
// (the query word covering at least half the text word), or within the
// bounded edit distance.
func wordMatchScore(text, query string) float64 {
	queryWords := strings.Fields(query)
	textWords := strings.Fields(text)
	if len(queryWords) == 0 {
		return 0
	}

	matched := 0
	for _, qWord := range queryWords {
		qLen := utf8.RuneCountInString(qWord)
		if qLen < 3 {
			continue
		}
		allowed := 1
		if qLen > 5 {
			allowed = maxLevDistance
		}
		for _, tWord := range textWords {
			tLen := utf8.RuneCountInString(tWord)
			if tLen < 3 {
				continue
			}
			if tWord == qWord ||
				(strings.Contains(tWord, qWord) && qLen >= tLen/2) {
				matched++
				break
			}
			if LevenshteinDistance(tWord, qWord) <= allowed {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryWords))
}

// LevenshteinDistance calculates the edit distance between two strings: the
// number of single-character insertions, deletions, or substitutions needed
// to turn one into the other.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}
	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}
	return d[m][n]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalize lowercases and collapses whitespace.
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
