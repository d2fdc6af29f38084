package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"bookdroplist/internal/books"
	"bookdroplist/internal/logging"
	"bookdroplist/internal/services"
)

// Searcher fans a query out across every catalog and rewrite strategy and
// merges the hits into one ranked list.
type Searcher struct {
	catalogs []Catalog
	limit    int
	logger   *slog.Logger
}

// NewSearcher builds a Searcher over the supplied catalogs. limit caps the
// merged result count.
func NewSearcher(catalogs []Catalog, limit int, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Searcher{
		catalogs: catalogs,
		limit:    limit,
		logger:   logging.WithComponent(logger, "catalog"),
	}
}

// Search runs the full fan-out for one raw query. Individual catalog
// failures are logged and skipped; the search fails only when every probe
// fails, so one flaky backend cannot blank the results.
func (s *Searcher) Search(ctx context.Context, raw string) ([]books.Book, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "search", "query must not be empty", nil)
	}
	queries := Queries(raw)

	type probe struct {
		results []Result
		weight  int
		err     error
		catalog string
	}

	probes := make([]probe, len(queries)*len(s.catalogs))
	var wg sync.WaitGroup
	for qi, q := range queries {
		for ci, c := range s.catalogs {
			wg.Add(1)
			go func(slot int, c Catalog, q Query) {
				defer wg.Done()
				results, err := c.Search(ctx, q.Text, s.limit)
				probes[slot] = probe{results: results, weight: q.Weight, err: err, catalog: c.Name()}
			}(qi*len(s.catalogs)+ci, c, q)
		}
	}
	wg.Wait()

	merge := newMerger()
	attempted, failed := 0, 0
	for _, p := range probes {
		attempted++
		if p.err != nil {
			failed++
			s.logger.Warn("catalog probe failed",
				logging.String("catalog", p.catalog),
				logging.Error(p.err))
			continue
		}
		merge.add(p.results, p.weight)
	}
	if attempted > 0 && failed == attempted {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "catalog", "search", "all catalog probes failed", nil)
	}

	ranked := merge.ranked(s.limit)
	found := make([]books.Book, len(ranked))
	for i, r := range ranked {
		found[i] = r.Book
	}
	s.logger.Debug("search merged",
		logging.String("query", raw),
		logging.Int("strategies", len(queries)),
		logging.Int("results", len(found)))
	return found, nil
}
