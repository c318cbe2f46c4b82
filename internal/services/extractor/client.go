package extractor

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

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings for the text extraction services.
type Config struct {
	PrimaryURL     string
	SecondaryURL   string
	TimeoutSeconds int
}

// Result is one extraction attempt's output.
type Result struct {
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// Client talks to the primary extraction service with a secondary
// fallback. Both endpoints accept the same request shape.
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

// NewClient constructs an extraction client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			PrimaryURL:     strings.TrimSpace(cfg.PrimaryURL),
			SecondaryURL:   strings.TrimSpace(cfg.SecondaryURL),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type extractRequest struct {
	Path     string `json:"path"`
	MIMEType string `json:"mime_type,omitempty"`
}

// Extract requests text for the file at path, trying the primary service
// first and the secondary on any primary failure. An error is returned
// only when every configured endpoint fails; callers are expected to
// degrade to empty text in that case rather than abort.
func (c *Client) Extract(ctx context.Context, path, mimeType string) (*Result, error) {
	endpoints := make([]string, 0, 2)
	if c.cfg.PrimaryURL != "" {
		endpoints = append(endpoints, c.cfg.PrimaryURL)
	}
	if c.cfg.SecondaryURL != "" {
		endpoints = append(endpoints, c.cfg.SecondaryURL)
	}
	if len(endpoints) == 0 {
		return nil, services.Wrap(services.ErrUnavailable, "extractor", "extract", "no extraction endpoint configured", nil)
	}

	var lastErr error
	for _, endpoint := range endpoints {
		result, err := c.post(ctx, endpoint, extractRequest{Path: path, MIMEType: mimeType})
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, services.Wrap(services.ErrUnavailable, "extractor", "extract", "all extraction endpoints failed", lastErr)
}

func (c *Client) post(ctx context.Context, endpoint string, payload extractRequest) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal extract request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read extract response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extract request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode extract response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("extract service error: %s", result.Error)
	}
	return &result, nil
}
