package googlebooks

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
const SourceName = "googlebooks"

// volumeInfo models the metadata block of one Google Books volume.
type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	PageCount           int      `json:"pageCount"`
	Categories          []string `json:"categories"`
	AverageRating       float64  `json:"averageRating"`
	RatingsCount        int      `json:"ratingsCount"`
	Language            string   `json:"language"`
	MaturityRating      string   `json:"maturityRating"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		SmallThumbnail string `json:"smallThumbnail"`
		Thumbnail      string `json:"thumbnail"`
		Small          string `json:"small"`
		Medium         string `json:"medium"`
		Large          string `json:"large"`
		ExtraLarge     string `json:"extraLarge"`
	} `json:"imageLinks"`
}

// volume is one item in a volumes response.
type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

// response models the paginated volumes payload.
type response struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// Client provides access to the Google Books volumes API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
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

// New creates a Google Books client. The API key is optional;
// unauthenticated requests work against a lower quota.
func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("googlebooks base url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name implements catalog.Catalog.
func (c *Client) Name() string { return SourceName }

// Rich implements catalog.Catalog.
func (c *Client) Rich() bool { return true }

// Search queries the volumes endpoint and maps the hits to catalog results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]catalog.Result, error) {
	payload, err := c.volumes(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	results := make([]catalog.Result, 0, len(payload.Items))
	for _, item := range payload.Items {
		book := toBook(item.VolumeInfo)
		if book.Title == "" {
			continue
		}
		results = append(results, catalog.Result{Book: book, Source: SourceName, Rich: true})
	}
	return results, nil
}

// FetchByISBN looks a volume up by ISBN. Returns nil without error when the
// catalog has no record for the number.
func (c *Client) FetchByISBN(ctx context.Context, number string) (*books.Book, error) {
	number = isbn.Normalize(number)
	if number == "" {
		return nil, errors.New("isbn must not be empty")
	}
	payload, err := c.volumes(ctx, "isbn:"+number, 1)
	if err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}
	book := toBook(payload.Items[0].VolumeInfo)
	if book.Title == "" {
		return nil, nil
	}
	return &book, nil
}

func (c *Client) volumes(ctx context.Context, query string, limit int) (*response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/volumes")
	if err != nil {
		return nil, fmt.Errorf("parse googlebooks url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("printType", "books")
	if limit > 0 {
		if limit > 40 {
			limit = 40
		}
		params.Set("maxResults", strconv.Itoa(limit))
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
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
		return nil, fmt.Errorf("googlebooks search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode googlebooks response: %w", err)
	}
	return &payload, nil
}

func toBook(info volumeInfo) books.Book {
	book := books.Book{
		Title:          strings.TrimSpace(info.Title),
		Publisher:      strings.TrimSpace(info.Publisher),
		Description:    strings.TrimSpace(info.Description),
		PageCount:      info.PageCount,
		AverageRating:  info.AverageRating,
		RatingsCount:   info.RatingsCount,
		Language:       info.Language,
		MaturityRating: info.MaturityRating,
		Categories:     info.Categories,
	}
	if len(info.Authors) > 0 {
		book.Author = strings.TrimSpace(strings.Join(info.Authors, ", "))
	}
	if len(info.Categories) > 0 {
		book.Genre = strings.TrimSpace(info.Categories[0])
	}
	book.PublicationYear = parseYear(info.PublishedDate)
	book.ISBN = pickISBN(info)
	book.CoverURL = BestImage(info.ImageLinks.ExtraLarge, info.ImageLinks.Large,
		info.ImageLinks.Medium, info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail)
	return book
}

// parseYear extracts the year from a publishedDate, which may be "2006",
// "2006-07", or "2006-07-14".
func parseYear(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < 1000 {
		return 0
	}
	return year
}

// pickISBN prefers the ISBN-13 identifier and falls back to ISBN-10,
// accepting only checksum-valid numbers.
func pickISBN(info volumeInfo) string {
	var ten string
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			if cleaned := isbn.Clean(id.Identifier); cleaned != "" {
				return cleaned
			}
		case "ISBN_10":
			if ten == "" {
				ten = isbn.Clean(id.Identifier)
			}
		}
	}
	return ten
}

// BestImage picks the largest available image link, upgrades it to https,
// and strips the page-curl effect Google appends to thumbnails.
func BestImage(candidates ...string) string {
	for _, link := range candidates {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		link = strings.Replace(link, "http://", "https://", 1)
		link = strings.ReplaceAll(link, "&edge=curl", "")
		return link
	}
	return ""
}
