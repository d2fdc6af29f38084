package catalog

import (
	"sort"
	"strings"
)

// hit pairs a catalog result with its combined score.
type hit struct {
	result Result
	score  float64
	order  int
}

// Score combines the weight of the strategy that found a result with the
// richness of the record itself. A complete record found by an aggressive
// rewrite can outrank a bare record found by the literal query.
func Score(r Result, weight int) float64 {
	return float64(weight) + Preference(r)
}

// Preference scores a record's metadata richness.
func Preference(r Result) float64 {
	var score float64
	if r.Rich {
		score += 2
	}
	if r.Book.Description != "" {
		score++
	}
	if r.Book.CoverURL != "" {
		score++
	}
	if r.Book.PublicationYear > 0 {
		score += 0.5
	}
	if r.Book.ISBN != "" {
		score += 0.5
	}
	return score
}

// placeholderTitle reports catalog filler that should never reach users.
func placeholderTitle(title string) bool {
	title = strings.TrimSpace(title)
	if len(title) <= 1 {
		return true
	}
	return strings.EqualFold(title, "unknown title") || strings.EqualFold(title, "untitled")
}

// cleanAuthor blanks placeholder author strings.
func cleanAuthor(author string) string {
	author = strings.TrimSpace(author)
	if strings.EqualFold(author, "unknown author") || strings.EqualFold(author, "unknown") {
		return ""
	}
	return author
}

// merger accumulates weighted hits and produces the final ranked set.
type merger struct {
	byKey map[string]*hit
	next  int
}

func newMerger() *merger {
	return &merger{byKey: make(map[string]*hit)}
}

// add folds a batch of results found at the given strategy weight into the
// merge. Duplicates keep the hit with the higher combined score; score
// ties keep the first-seen hit.
func (m *merger) add(results []Result, weight int) {
	for _, r := range results {
		if placeholderTitle(r.Book.Title) {
			continue
		}
		r.Book.Author = cleanAuthor(r.Book.Author)

		key := Key(r.Book.Title, r.Book.Author)
		score := Score(r, weight)
		existing, ok := m.byKey[key]
		if !ok {
			m.byKey[key] = &hit{result: r, score: score, order: m.next}
			m.next++
			continue
		}
		if score > existing.score {
			existing.result = r
			existing.score = score
		}
	}
}

// ranked returns up to limit results ordered by combined score, then
// first-seen order so the output is stable across runs.
func (m *merger) ranked(limit int) []Result {
	hits := make([]*hit, 0, len(m.byKey))
	for _, h := range m.byKey {
		hits = append(hits, h)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].order < hits[j].order
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = h.result
	}
	return results
}
