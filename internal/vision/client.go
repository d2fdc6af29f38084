package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookdroplist/internal/books"
	"bookdroplist/internal/isbn"
	"bookdroplist/internal/services"
)

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings required to talk to the extraction
// model.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client wraps the generateContent endpoint of the extraction model API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a vision client using the supplied configuration.
// A missing API key is not rejected here; Extract reports it per call so
// the rest of the system can run without vision configured.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether the client has the credentials to run.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.BaseURL != "" && c.cfg.Model != ""
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract reads book spines from an image. The returned mentions have
// passed the usability filter: a title plus at least one corroborating
// field, with claimed ISBNs checksum-validated or discarded.
func (c *Client) Extract(ctx context.Context, image []byte, mimeType string) ([]books.RawMention, error) {
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "vision", "extract", "extraction model not configured", nil)
	}
	if len(image) == 0 {
		return nil, services.Wrap(services.ErrValidation, "vision", "extract", "image must not be empty", nil)
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{
			{Text: extractionPrompt},
			{InlineData: &inlineData{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(image),
			}},
		}}},
		GenerationConfig: generationConfig{
			Temperature:      0,
			ResponseMimeType: "application/json",
		},
	}

	text, err := c.generate(ctx, payload)
	if err != nil {
		return nil, err
	}

	var mentions []books.RawMention
	if err := decodeModelJSON(text, &mentions); err != nil {
		return nil, services.Wrap(services.ErrExtractionParse, "vision", "extract", "model payload is not a mention array", err)
	}
	return filterMentions(mentions), nil
}

func (c *Client) generate(ctx context.Context, payload generateRequest) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIKey))

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("vision request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("vision request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("vision request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision request: http %d: %s", resp.StatusCode, summarizeSnippet(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("vision request: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("vision request: api error %d: %s", parsed.Error.Code, strings.TrimSpace(parsed.Error.Message))
	}
	for _, candidate := range parsed.Candidates {
		for _, p := range candidate.Content.Parts {
			if text := strings.TrimSpace(p.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", services.Wrap(services.ErrExtractionParse, "vision", "extract", "model returned no content", nil)
}

// filterMentions keeps only mentions a catalog search could plausibly
// confirm. An invalid ISBN is stripped rather than failing the mention;
// spine OCR mangles numbers routinely.
func filterMentions(mentions []books.RawMention) []books.RawMention {
	kept := make([]books.RawMention, 0, len(mentions))
	for _, m := range mentions {
		m.Title = strings.TrimSpace(m.Title)
		m.Author = strings.TrimSpace(m.Author)
		m.Publisher = strings.TrimSpace(m.Publisher)
		m.Series = strings.TrimSpace(m.Series)
		m.ISBN = isbn.Clean(m.ISBN)
		if !m.Usable() {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
