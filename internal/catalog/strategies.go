package catalog

import "strings"

// Strategy weights. A hit found by the user's literal query outranks one
// only reachable through a rewrite.
const (
	WeightOriginal   = 3
	WeightQuoted     = 2
	WeightNormalized = 1
)

// Query is one rewritten search string plus the weight its hits inherit.
type Query struct {
	Text   string
	Weight int
}

// Queries expands a raw search string into the rewrite strategies:
// the string as given, the string with its leading two-word phrase
// quoted, and a punctuation-free normalized form with any leading
// article stripped. Rewrites that collapse into an earlier one are
// dropped.
func Queries(raw string) []Query {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	queries := []Query{{Text: raw, Weight: WeightOriginal}}

	if quoted := quoteTitle(raw); quoted != raw {
		queries = append(queries, Query{Text: quoted, Weight: WeightQuoted})
	}
	if normalized := stripLeadingArticle(Normalize(raw)); normalized != "" && normalized != raw {
		queries = append(queries, Query{Text: normalized, Weight: WeightNormalized})
	}
	return queries
}

// quoteTitle wraps the first two whitespace tokens in quotes and appends
// the remaining tokens unquoted, approximating "quoted title, unquoted
// rest" for catalogs that support phrase search.
func quoteTitle(raw string) string {
	if strings.ContainsRune(raw, '"') {
		return raw
	}
	tokens := strings.Fields(raw)
	if len(tokens) < 2 {
		return raw
	}
	quoted := `"` + tokens[0] + " " + tokens[1] + `"`
	if len(tokens) > 2 {
		quoted += " " + strings.Join(tokens[2:], " ")
	}
	return quoted
}

// articles lists the definite and indefinite articles the normalized
// rewrite strips when they lead the query.
var articles = map[string]struct{}{
	"the": {}, "de": {}, "la": {}, "le": {},
	"el": {}, "das": {}, "der": {}, "die": {},
}

func stripLeadingArticle(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return s
	}
	if _, ok := articles[tokens[0]]; ok {
		return strings.Join(tokens[1:], " ")
	}
	return s
}

// guideSeries lists publisher series whose spines rarely show an author.
// Mentions from these series search better with the series name attached.
var guideSeries = []string{
	"lonely planet",
	"dk eyewitness",
	"eyewitness",
	"rough guide",
	"rick steves",
	"fodor",
	"frommer",
	"insight guides",
	"moon travel",
	"bradt",
}

// GuideSeries returns the matched series name when s looks like a travel
// guide series or its publisher, or "" otherwise.
func GuideSeries(s string) string {
	lower := strings.ToLower(s)
	for _, series := range guideSeries {
		if strings.Contains(lower, series) {
			return series
		}
	}
	return ""
}

// MentionQuery builds the search string for a detected spine. Author
// beats publisher as the qualifier; series-style guides carry the series
// name because their spines identify the publisher, not a person.
func MentionQuery(title, author, publisher, series string) string {
	title = strings.TrimSpace(title)
	switch {
	case strings.TrimSpace(author) != "":
		return title + " " + strings.TrimSpace(author)
	case GuideSeries(series) != "":
		return title + " " + strings.TrimSpace(series)
	case GuideSeries(publisher) != "":
		return title + " " + strings.TrimSpace(publisher)
	case strings.TrimSpace(publisher) != "":
		return title + " " + strings.TrimSpace(publisher)
	default:
		return title
	}
}
