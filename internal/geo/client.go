package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookdroplist/internal/books"
	"bookdroplist/internal/services"
)

// Client wraps the geocoding API for address and coordinate resolution.
type Client struct {
	apiKey     string
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

// New creates a geocoding client. A missing API key is not rejected here;
// calls report it so lists without locations keep working unconfigured.
func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("geocoding base url required")
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

// Configured reports whether the client has credentials to run.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress  string `json:"formatted_address"`
		Geometry          struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}

// Forward resolves an address to a location with coordinates, city, and
// country filled in. A miss is ErrNotFound.
func (c *Client) Forward(ctx context.Context, address string) (books.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return books.Location{}, services.Wrap(services.ErrValidation, "geo", "forward", "address must not be empty", nil)
	}
	params := url.Values{}
	params.Set("address", address)
	return c.geocode(ctx, params, "no match for address "+address)
}

// Reverse resolves coordinates to a named place. A miss is ErrNotFound.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (books.Location, error) {
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	location, err := c.geocode(ctx, params, "no place at coordinates")
	if err != nil {
		return books.Location{}, err
	}
	// Keep the caller's exact coordinates; the geocoder snaps to rooftops.
	location.ExactLatitude = lat
	location.ExactLongitude = lng
	return location, nil
}

func (c *Client) geocode(ctx context.Context, params url.Values, missing string) (books.Location, error) {
	if !c.Configured() {
		return books.Location{}, services.Wrap(services.ErrConfiguration, "geo", "geocode", "geocoding not configured", nil)
	}
	params.Set("key", c.apiKey)

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return books.Location{}, fmt.Errorf("parse geocoding url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return books.Location{}, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return books.Location{}, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return books.Location{}, fmt.Errorf("geocoding returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return books.Location{}, fmt.Errorf("decode geocoding response: %w", err)
	}
	if payload.Status == "ZERO_RESULTS" || len(payload.Results) == 0 {
		return books.Location{}, services.Wrap(services.ErrNotFound, "geo", "geocode", missing, nil)
	}
	if payload.Status != "OK" {
		return books.Location{}, fmt.Errorf("geocoding status %s", payload.Status)
	}

	best := payload.Results[0]
	location := books.Location{
		ExactLatitude:  best.Geometry.Location.Lat,
		ExactLongitude: best.Geometry.Location.Lng,
		Name:           best.FormattedAddress,
	}
	for _, component := range best.AddressComponents {
		for _, kind := range component.Types {
			switch kind {
			case "locality", "postal_town":
				if location.City == "" {
					location.City = component.LongName
				}
			case "country":
				location.Country = component.LongName
			}
		}
	}
	return location, nil
}
