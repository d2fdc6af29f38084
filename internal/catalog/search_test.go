package catalog

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"bookdroplist/internal/books"
	"bookdroplist/internal/services"
)

type fakeCatalog struct {
	name    string
	rich    bool
	results map[string][]Result
	err     error
	calls   atomic.Int64
}

func (f *fakeCatalog) Name() string { return f.name }
func (f *fakeCatalog) Rich() bool   { return f.rich }

func (f *fakeCatalog) Search(_ context.Context, query string, _ int) ([]Result, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func TestSearchFansOutAllStrategies(t *testing.T) {
	fake := &fakeCatalog{name: "fake", results: map[string][]Result{
		"The Hobbit by J.R.R. Tolkien": {bareHit("The Hobbit", "J.R.R. Tolkien")},
	}}
	s := NewSearcher([]Catalog{fake}, 8, nil)

	got, err := s.Search(context.Background(), "The Hobbit by J.R.R. Tolkien")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if fake.calls.Load() != 3 {
		t.Errorf("expected one probe per strategy, got %d", fake.calls.Load())
	}
	if len(got) != 1 || got[0].Title != "The Hobbit" {
		t.Errorf("results = %v", got)
	}
}

func TestSearchMergesAcrossCatalogs(t *testing.T) {
	broad := &fakeCatalog{name: "broad", results: map[string][]Result{
		"dune frank herbert": {bareHit("Dune", "Frank Herbert"), bareHit("Dune Messiah", "Frank Herbert")},
	}}
	rich := &fakeCatalog{name: "rich", rich: true, results: map[string][]Result{
		"dune frank herbert": {richHit("Dune", "Frank Herbert")},
	}}
	s := NewSearcher([]Catalog{broad, rich}, 8, nil)

	got, err := s.Search(context.Background(), "dune frank herbert")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected merged dedup to 2 books, got %d: %v", len(got), got)
	}
	var dune books.Book
	for _, b := range got {
		if b.Title == "Dune" {
			dune = b
		}
	}
	if dune.Description == "" {
		t.Error("rich record should survive the merge for the duplicate")
	}
}

func TestSearchRanksCompleteRecordAboveLiteralHit(t *testing.T) {
	// The bare record answers the literal query; the complete record is
	// only reachable through the normalized rewrite. Combined scoring
	// must still put the complete record first (6 vs 3).
	broad := &fakeCatalog{name: "broad", results: map[string][]Result{
		"The Left Hand of Darkness": {bareHit("Bare Record", "A")},
	}}
	rich := &fakeCatalog{name: "rich", rich: true, results: map[string][]Result{
		"left hand of darkness": {richHit("Rich Record", "B")},
	}}
	s := NewSearcher([]Catalog{broad, rich}, 8, nil)

	got, err := s.Search(context.Background(), "The Left Hand of Darkness")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %v", got)
	}
	if got[0].Title != "Rich Record" || got[1].Title != "Bare Record" {
		t.Errorf("order = [%s, %s]", got[0].Title, got[1].Title)
	}
}

func TestSearchToleratesOneFailingCatalog(t *testing.T) {
	working := &fakeCatalog{name: "working", results: map[string][]Result{
		"dune": {bareHit("Dune", "Frank Herbert")},
	}}
	broken := &fakeCatalog{name: "broken", err: errors.New("upstream down")}
	s := NewSearcher([]Catalog{working, broken}, 8, nil)

	got, err := s.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("one healthy catalog should be enough: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("results = %v", got)
	}
}

func TestSearchFailsWhenAllProbesFail(t *testing.T) {
	s := NewSearcher([]Catalog{
		&fakeCatalog{name: "a", err: errors.New("down")},
		&fakeCatalog{name: "b", err: errors.New("down")},
	}, 8, nil)

	_, err := s.Search(context.Background(), "dune")
	if !errors.Is(err, services.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable, got %v", err)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	s := NewSearcher(nil, 8, nil)
	_, err := s.Search(context.Background(), "  ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "query") {
		t.Errorf("error should mention the query: %v", err)
	}
}
