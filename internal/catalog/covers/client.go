package covers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookdroplist/internal/isbn"
)

// payload models the lookup response.
type payload struct {
	URL string `json:"url"`
}

// Client provides access to the cover lookup service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

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

// New creates a cover lookup client.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("covers base url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ByTitleAuthor resolves a cover URL by title and author. A miss returns
// "" without error; only transport failures are errors.
func (c *Client) ByTitleAuthor(ctx context.Context, title, author string) (string, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" {
		return "", errors.New("title and author required")
	}
	endpoint, err := url.Parse(c.baseURL + "/bookcover")
	if err != nil {
		return "", fmt.Errorf("parse covers url: %w", err)
	}
	params := url.Values{}
	params.Set("book_title", title)
	params.Set("author_name", author)
	endpoint.RawQuery = params.Encode()
	return c.fetch(ctx, endpoint.String())
}

// ByISBN resolves a cover URL by ISBN. A miss returns "" without error.
func (c *Client) ByISBN(ctx context.Context, number string) (string, error) {
	number = isbn.Normalize(number)
	if number == "" {
		return "", errors.New("isbn required")
	}
	return c.fetch(ctx, c.baseURL+"/bookcover/"+url.PathEscape(number))
}

func (c *Client) fetch(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	// The service reports a miss as 404.
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cover lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode cover response: %w", err)
	}
	return strings.TrimSpace(body.URL), nil
}
