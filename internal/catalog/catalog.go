package catalog

import (
	"context"

	"bookdroplist/internal/books"
)

// Result is a single catalog hit plus the provenance the ranker needs.
type Result struct {
	Book books.Book

	// Source names the catalog that produced the hit.
	Source string

	// Rich marks hits from the rich-metadata catalog; they win ties over
	// broad-coverage hits with otherwise equal records.
	Rich bool
}

// Catalog is one external book search backend.
type Catalog interface {
	// Name identifies the catalog in logs and provenance.
	Name() string

	// Rich reports whether this catalog carries full metadata (description,
	// ratings, page counts) rather than bare bibliographic records.
	Rich() bool

	// Search returns up to limit hits for the query. An empty result is not
	// an error; unavailability is.
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}
