package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks strips diacritics so "Gabriel García Márquez" and its ASCII
// spelling normalize to the same key.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold removes combining marks from s. On transform failure the input is
// returned unchanged; a missed fold only weakens dedup, it never corrupts.
func Fold(s string) string {
	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		return s
	}
	return folded
}

// Normalize lowercases, folds diacritics, strips punctuation, and
// collapses whitespace. Used both as a query rewrite and as the dedup key
// ingredient.
func Normalize(s string) string {
	s = strings.ToLower(Fold(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || r == '-' || r == ':':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Key builds the dedup key for a hit. Two catalog records describing the
// same physical book must collide here regardless of casing, accents, or
// punctuation drift between catalogs.
func Key(title, author string) string {
	return Normalize(title) + "_" + strings.ToLower(strings.TrimSpace(Fold(author)))
}
