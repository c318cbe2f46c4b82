package embedder

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

// Config captures the runtime settings for the embedding and vector
// store collaborators.
type Config struct {
	Enabled        bool
	URL            string
	VectorStoreURL string
	Collection     string
	TimeoutSeconds int
}

// Client wraps the embedding service and the vector store it feeds.
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

// NewClient constructs an embedding client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			Enabled:        cfg.Enabled,
			URL:            strings.TrimSpace(cfg.URL),
			VectorStoreURL: strings.TrimSpace(cfg.VectorStoreURL),
			Collection:     strings.TrimSpace(cfg.Collection),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Enabled reports whether indexing is configured at all. Callers skip the
// embed step entirely when false.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.URL != ""
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Vector []float32 `json:"vector"`
	Error  string    `json:"error,omitempty"`
}

// Embed turns text into a vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if !c.Enabled() {
		return nil, services.Wrap(services.ErrUnavailable, "embedder", "embed", "embedding disabled", nil)
	}
	raw, err := c.postJSON(ctx, c.cfg.URL, embedRequest{Text: text})
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "embedder", "embed", "embedding request failed", err)
	}
	var resp embedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("embed service error: %s", resp.Error)
	}
	if len(resp.Vector) == 0 {
		return nil, fmt.Errorf("embed service returned empty vector")
	}
	return resp.Vector, nil
}

type upsertRequest struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Vector     []float32      `json:"vector"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Upsert writes a vector with its payload into the configured collection.
func (c *Client) Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error {
	if c.cfg.VectorStoreURL == "" {
		return services.Wrap(services.ErrUnavailable, "embedder", "upsert", "no vector store configured", nil)
	}
	_, err := c.postJSON(ctx, c.cfg.VectorStoreURL, upsertRequest{
		Collection: c.cfg.Collection,
		ID:         id,
		Vector:     vector,
		Payload:    payload,
	})
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "embedder", "upsert", "vector store request failed", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
