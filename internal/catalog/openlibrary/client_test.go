package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const searchPayload = `{
  "numFound": 2,
  "docs": [
    {
      "title": "The Left Hand of Darkness",
      "author_name": ["Ursula K. Le Guin"],
      "first_publish_year": 1969,
      "publisher": ["Ace Books", "Gollancz"],
      "subject": ["Science fiction", "Gender"],
      "isbn": ["0441478123", "9780441478125"],
      "cover_i": 12364437
    },
    {
      "title": "",
      "author_name": ["Nobody"]
    }
  ]
}`

func TestSearchMapsDocs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "8" {
			t.Errorf("limit = %q", got)
		}
		if got := r.URL.Query().Get("fields"); got != searchFields {
			t.Errorf("fields = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	client, err := New(server.URL, "https://covers.example", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	results, err := client.Search(context.Background(), "left hand of darkness", 8)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("untitled doc should be dropped, got %d results", len(results))
	}

	book := results[0].Book
	if book.Title != "The Left Hand of Darkness" || book.Author != "Ursula K. Le Guin" {
		t.Errorf("book = %+v", book)
	}
	if book.PublicationYear != 1969 {
		t.Errorf("year = %d", book.PublicationYear)
	}
	if book.ISBN != "9780441478125" {
		t.Errorf("isbn should prefer the 13-digit form, got %q", book.ISBN)
	}
	if book.Publisher != "Ace Books" {
		t.Errorf("publisher = %q", book.Publisher)
	}
	if book.CoverURL != "https://covers.example/b/id/12364437-L.jpg" {
		t.Errorf("cover = %q", book.CoverURL)
	}
	if results[0].Rich {
		t.Error("openlibrary hits are not rich")
	}
}

func TestSearchReportsUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New(server.URL, server.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Search(context.Background(), "dune", 8); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client, err := New("https://openlibrary.example", "https://covers.example", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Search(context.Background(), " ", 8); err == nil {
		t.Fatal("expected error for empty query")
	}
}
