package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"conductor/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// Config captures the runtime settings for the classification service.
type Config struct {
	URL            string
	Model          string
	TimeoutSeconds int
}

// Classification is the service's judgment about one document.
type Classification struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Confidence  float64  `json:"confidence"`
	Entities    []string `json:"entities"`
	Tags        []string `json:"tags"`
}

// Entity returns the leading extracted entity, or empty when the
// classifier found none.
func (c *Classification) Entity() string {
	if c == nil || len(c.Entities) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Entities[0])
}

// Client wraps the classification HTTP service.
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

// NewClient constructs a classification client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			URL:            strings.TrimSpace(cfg.URL),
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

type classifyRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Model    string `json:"model,omitempty"`
}

// Classify submits text and filename for categorization.
func (c *Client) Classify(ctx context.Context, text, filename string) (*Classification, error) {
	if c.cfg.URL == "" {
		return nil, services.Wrap(services.ErrUnavailable, "classifier", "classify", "no classification endpoint configured", nil)
	}
	body, err := json.Marshal(classifyRequest{Text: text, Filename: filename, Model: c.cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "classifier", "classify", "classification request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read classify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrUnavailable, "classifier", "classify",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))), nil)
	}

	var result Classification
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}
	return &result, nil
}
