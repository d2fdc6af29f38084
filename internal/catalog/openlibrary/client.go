package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookdroplist/internal/books"
	"bookdroplist/internal/catalog"
	"bookdroplist/internal/isbn"
)

// SourceName identifies this catalog in provenance and logs.
const SourceName = "openlibrary"

// doc is one work in a search response.
type doc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	Publisher        []string `json:"publisher"`
	Subject          []string `json:"subject"`
	ISBN             []string `json:"isbn"`
	CoverID          int64    `json:"cover_i"`
}

// response models the search.json payload.
type response struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

// Client provides access to the Open Library search API.
type Client struct {
	baseURL       string
	coversBaseURL string
	httpClient    *http.Client
}

var _ catalog.Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an Open Library client. coversBaseURL serves cover images by
// cover id.
func New(baseURL, coversBaseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("openlibrary base url required")
	}
	coversBaseURL = strings.TrimSpace(coversBaseURL)
	if coversBaseURL == "" {
		return nil, errors.New("openlibrary covers base url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		coversBaseURL: strings.TrimRight(coversBaseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name implements catalog.Catalog.
func (c *Client) Name() string { return SourceName }

// Rich implements catalog.Catalog.
func (c *Client) Rich() bool { return false }

// searchFields trims the payload to the fields toBook reads; full docs run
// to hundreds of keys.
const searchFields = "title,author_name,first_publish_year,publisher,subject,isbn,cover_i"

// Search queries search.json and maps the docs to catalog results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]catalog.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("parse openlibrary url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", searchFields)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openlibrary search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode openlibrary response: %w", err)
	}

	results := make([]catalog.Result, 0, len(payload.Docs))
	for _, d := range payload.Docs {
		book := c.toBook(d)
		if book.Title == "" {
			continue
		}
		results = append(results, catalog.Result{Book: book, Source: SourceName})
	}
	return results, nil
}

// FetchByISBN resolves one book through the search endpoint's isbn
// qualifier. Returns nil without error when the catalog has no record.
func (c *Client) FetchByISBN(ctx context.Context, number string) (*books.Book, error) {
	number = isbn.Normalize(number)
	if number == "" {
		return nil, errors.New("isbn must not be empty")
	}
	results, err := c.Search(ctx, "isbn:"+number, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	book := results[0].Book
	if book.ISBN == "" {
		book.ISBN = isbn.Clean(number)
	}
	return &book, nil
}

func (c *Client) toBook(d doc) books.Book {
	book := books.Book{
		Title:           strings.TrimSpace(d.Title),
		PublicationYear: d.FirstPublishYear,
	}
	if len(d.AuthorName) > 0 {
		book.Author = strings.TrimSpace(strings.Join(d.AuthorName, ", "))
	}
	if len(d.Publisher) > 0 {
		book.Publisher = strings.TrimSpace(d.Publisher[0])
	}
	if len(d.Subject) > 0 {
		book.Genre = strings.TrimSpace(d.Subject[0])
	}
	for _, candidate := range d.ISBN {
		if cleaned := isbn.Clean(candidate); len(cleaned) == 13 {
			book.ISBN = cleaned
			break
		}
		if book.ISBN == "" {
			book.ISBN = isbn.Clean(candidate)
		}
	}
	if d.CoverID > 0 {
		book.CoverURL = c.CoverURL(d.CoverID)
	}
	return book
}

// CoverURL builds the large cover image URL for a cover id.
func (c *Client) CoverURL(coverID int64) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversBaseURL, coverID)
}
