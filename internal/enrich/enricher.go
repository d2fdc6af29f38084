package enrich

import (
	"context"
	"log/slog"
	"strings"

	"bookdroplist/internal/books"
	"bookdroplist/internal/catalog"
	"bookdroplist/internal/logging"
)

// Searcher is the ranked multi-catalog search the enricher draws
// candidates from.
type Searcher interface {
	Search(ctx context.Context, raw string) ([]books.Book, error)
}

// ISBNFetcher resolves a book directly by ISBN. A miss returns (nil, nil).
type ISBNFetcher interface {
	FetchByISBN(ctx context.Context, number string) (*books.Book, error)
}

// RichCatalog is the richer catalog's direct surface: ISBN lookup plus
// free-text search, used for the secondary-metadata pass that fills the
// long-tail fields the broad catalog rarely carries.
type RichCatalog interface {
	ISBNFetcher
	Search(ctx context.Context, query string, limit int) ([]catalog.Result, error)
}

// CoverResolver looks up jacket images. Misses return "" without error.
type CoverResolver interface {
	ByISBN(ctx context.Context, number string) (string, error)
	ByTitleAuthor(ctx context.Context, title, author string) (string, error)
}

// Enricher orchestrates per-mention metadata resolution.
type Enricher struct {
	searcher Searcher
	rich     RichCatalog
	broad    ISBNFetcher
	covers   CoverResolver
	logger   *slog.Logger
}

// New builds an Enricher. rich, broad, and covers may be nil; the
// corresponding steps are skipped.
func New(searcher Searcher, rich RichCatalog, broad ISBNFetcher, covers CoverResolver, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Enricher{
		searcher: searcher,
		rich:     rich,
		broad:    broad,
		covers:   covers,
		logger:   logging.WithComponent(logger, "enrich"),
	}
}

// Enrich resolves one mention to a book. The returned book always has at
// least the mention's title; catalog data fills in everything it can.
func (e *Enricher) Enrich(ctx context.Context, mention books.RawMention) books.Book {
	book, confirmed := e.resolve(ctx, mention)
	book = mergeMention(book, mention)
	book = e.mergeSecondary(ctx, book)
	book.CoverURL = e.resolveCover(ctx, book)
	if !confirmed {
		e.logger.Debug("mention unconfirmed by catalogs",
			logging.String("title", mention.Title),
			logging.String("author", mention.Author))
	}
	return book
}

// EnrichAll resolves mentions in order. Mentions are processed one at a
// time; the concurrency lives inside the searcher's catalog fan-out.
func (e *Enricher) EnrichAll(ctx context.Context, mentions []books.RawMention) []books.Book {
	result := make([]books.Book, 0, len(mentions))
	for _, mention := range mentions {
		if ctx.Err() != nil {
			break
		}
		result = append(result, e.Enrich(ctx, mention))
	}
	return result
}

func (e *Enricher) resolve(ctx context.Context, mention books.RawMention) (books.Book, bool) {
	if mention.ISBN != "" {
		if hit := e.fetchByISBN(ctx, mention.ISBN); hit != nil {
			book := *hit
			// ISBN data wins for the identifying fields, but a hit
			// missing its cover or publisher still gets the search pass
			// to fill those gaps.
			if book.CoverURL == "" || book.Publisher == "" {
				if found, ok := e.search(ctx, mention); ok {
					book = fillGaps(book, found)
				}
			}
			return book, true
		}
	}
	return e.search(ctx, mention)
}

// fetchByISBN tries the richer catalog first, then the broad catalog.
func (e *Enricher) fetchByISBN(ctx context.Context, number string) *books.Book {
	fetchers := make([]ISBNFetcher, 0, 2)
	if e.rich != nil {
		fetchers = append(fetchers, e.rich)
	}
	if e.broad != nil {
		fetchers = append(fetchers, e.broad)
	}
	for _, fetcher := range fetchers {
		book, err := fetcher.FetchByISBN(ctx, number)
		if err != nil {
			e.logger.Warn("isbn lookup failed",
				logging.String("isbn", number), logging.Error(err))
			continue
		}
		if book != nil {
			return book
		}
	}
	return nil
}

func (e *Enricher) search(ctx context.Context, mention books.RawMention) (books.Book, bool) {
	query := catalog.MentionQuery(mention.Title, mention.Author, mention.Publisher, mention.Series)
	found, err := e.searcher.Search(ctx, query)
	if err != nil {
		e.logger.Warn("catalog search failed",
			logging.String("query", query), logging.Error(err))
		return books.Book{}, false
	}
	if len(found) == 0 {
		return books.Book{}, false
	}
	return found[0], true
}

// mergeSecondary queries the richer catalog for the fields the broad
// catalog rarely carries and fills them in, never overwriting anything
// already resolved. Runs on every path; skipped only when nothing is
// missing.
func (e *Enricher) mergeSecondary(ctx context.Context, book books.Book) books.Book {
	if e.rich == nil || !missingSecondary(book) {
		return book
	}
	hit := e.secondaryLookup(ctx, book)
	if hit == nil {
		return book
	}
	return fillGaps(book, *hit)
}

func (e *Enricher) secondaryLookup(ctx context.Context, book books.Book) *books.Book {
	if book.ISBN != "" {
		hit, err := e.rich.FetchByISBN(ctx, book.ISBN)
		if err != nil {
			e.logger.Warn("secondary isbn lookup failed",
				logging.String("isbn", book.ISBN), logging.Error(err))
		} else if hit != nil {
			return hit
		}
	}
	query := strings.TrimSpace(book.Title + " " + book.Author)
	if query == "" {
		return nil
	}
	results, err := e.rich.Search(ctx, query, 1)
	if err != nil {
		e.logger.Warn("secondary search failed",
			logging.String("query", query), logging.Error(err))
		return nil
	}
	if len(results) == 0 {
		return nil
	}
	return &results[0].Book
}

func missingSecondary(book books.Book) bool {
	return book.Description == "" ||
		book.AverageRating == 0 ||
		book.PageCount == 0 ||
		book.Language == "" ||
		len(book.Categories) == 0
}

// fillGaps copies every field src has that dst lacks. dst is never
// overwritten.
func fillGaps(dst, src books.Book) books.Book {
	if dst.Author == "" {
		dst.Author = src.Author
	}
	if dst.CoverURL == "" {
		dst.CoverURL = src.CoverURL
	}
	if dst.ISBN == "" {
		dst.ISBN = src.ISBN
	}
	if dst.PublicationYear == 0 {
		dst.PublicationYear = src.PublicationYear
	}
	if dst.Publisher == "" {
		dst.Publisher = src.Publisher
	}
	if dst.Genre == "" {
		dst.Genre = src.Genre
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.AverageRating == 0 {
		dst.AverageRating = src.AverageRating
	}
	if dst.RatingsCount == 0 {
		dst.RatingsCount = src.RatingsCount
	}
	if dst.PageCount == 0 {
		dst.PageCount = src.PageCount
	}
	if dst.Language == "" {
		dst.Language = src.Language
	}
	if len(dst.Categories) == 0 {
		dst.Categories = src.Categories
	}
	if dst.MaturityRating == "" {
		dst.MaturityRating = src.MaturityRating
	}
	return dst
}

// mergeMention fills catalog gaps from the spine reading. The catalog
// record wins every field it has; the mention only supplies what the
// catalogs could not.
func mergeMention(book books.Book, mention books.RawMention) books.Book {
	if strings.TrimSpace(book.Title) == "" {
		book.Title = mention.Title
	}
	if book.Author == "" {
		book.Author = mention.Author
	}
	if book.Publisher == "" {
		book.Publisher = mention.Publisher
	}
	if book.ISBN == "" {
		book.ISBN = mention.ISBN
	}
	return book
}

// resolveCover runs the jacket ladder: cover service by ISBN, cover
// service by title/author, then whatever the catalog hits carried.
func (e *Enricher) resolveCover(ctx context.Context, book books.Book) string {
	if e.covers == nil {
		return book.CoverURL
	}
	if book.ISBN != "" {
		if cover, err := e.covers.ByISBN(ctx, book.ISBN); err == nil && cover != "" {
			return cover
		}
	}
	if book.Title != "" && book.Author != "" {
		if cover, err := e.covers.ByTitleAuthor(ctx, book.Title, book.Author); err == nil && cover != "" {
			return cover
		}
	}
	return book.CoverURL
}
