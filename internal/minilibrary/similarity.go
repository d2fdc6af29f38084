package minilibrary

import (
	"strings"

	"bookdroplist/internal/books"
	"bookdroplist/internal/catalog"
)

// Similarity scores how likely two records describe the same physical
// book, in [0, 1]. Matching title and author scores highest, title-only
// agreement next, then a discounted token overlap for partial readings.
func Similarity(a, b books.Book) float64 {
	titleA := catalog.Normalize(a.Title)
	titleB := catalog.Normalize(b.Title)
	if titleA == "" || titleB == "" {
		return 0
	}
	authorA := catalog.Normalize(a.Author)
	authorB := catalog.Normalize(b.Author)

	if fieldsMatch(titleA, titleB) {
		if fieldsMatch(authorA, authorB) {
			return 0.95
		}
		return 0.7
	}

	overlap := tokenOverlap(titleA, titleB)
	if overlap > 0.5 {
		return overlap * 0.8
	}
	return 0
}

// fieldsMatch treats one normalized field containing the other as a
// match, so a truncated spine reading still lines up with the full
// record. Empty fields never match.
func fieldsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// tokenOverlap measures shared title words against the longer title,
// ignoring short filler words. Dividing by the longer side keeps a
// two-word fragment from claiming a seven-word title.
func tokenOverlap(a, b string) float64 {
	tokensA := significantTokens(a)
	tokensB := significantTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(tokensA))
	for _, token := range tokensA {
		set[token] = struct{}{}
	}
	shared := 0
	for _, token := range tokensB {
		if _, ok := set[token]; ok {
			shared++
		}
	}
	larger := len(tokensA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}
	return float64(shared) / float64(larger)
}

func significantTokens(s string) []string {
	var tokens []string
	for _, token := range strings.Fields(s) {
		if len(token) > 2 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
