package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client is the vault API client.
type Client struct {
	baseURL string
	httpc   *http.Client
	apiKey  string
}

// New creates a vault API client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	httpc := cfg.httpClient
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		apiKey:  cfg.apiKey,
	}
}

// PrecisionSearch runs a keyword search and returns the formatted hits.
func (c *Client) PrecisionSearch(ctx context.Context, query string) ([]SearchResult, error) {
	var out []SearchResult
	if err := c.post(ctx, "/search/precision", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsightSearch runs a hybrid search plus generation and returns the answer
// with its cited sources.
func (c *Client) InsightSearch(ctx context.Context, query string) (InsightResponse, error) {
	var out InsightResponse
	if err := c.post(ctx, "/search/insight", query, &out); err != nil {
		return InsightResponse{}, err
	}
	return out, nil
}

// Health reports backend reachability and credential state.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("vault: build request: %w", err)
	}

	var out HealthStatus
	if err := c.do(req, &out); err != nil {
		return HealthStatus{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path, query string, out any) error {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return fmt.Errorf("vault: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("vault: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("vault: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFromResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("vault: decode response: %w", err)
	}
	return nil
}

// apiErrorFromResponse extracts the detail field; a body that is not the
// error shape falls back to raw text.
func apiErrorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed struct {
		Detail string `json:"detail"`
	}
	detail := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &parsed) == nil && parsed.Detail != "" {
		detail = parsed.Detail
	}

	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}
