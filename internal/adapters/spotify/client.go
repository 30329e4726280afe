package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/musicdna/internal/core/ports"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
	// batchEvery paces consecutive audio-feature batches within one call.
	batchEvery time.Duration
}

// compile-time interface assertion
var _ ports.MusicProvider = (*Client)(nil)

// NewClient constructs a new Spotify client. An empty baseURL targets the public API.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxRetries, backoff := getRetryConfig()
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  maxRetries,
		baseBackoff: backoff,
		batchEvery:  defaultBatchEvery,
	}
}

// defaultBatchEvery spaces audio-feature batches for one listener.
const defaultBatchEvery = 100 * time.Millisecond

// WithBatchRate replaces the pacing between audio-feature batches.
func (c *Client) WithBatchRate(every time.Duration) *Client {
	c.batchEvery = every
	return c
}

// batchLimiter paces a single listener's batch sequence. Each call gets its
// own limiter, so listeners never wait on each other.
func (c *Client) batchLimiter() *rate.Limiter {
	if c.batchEvery <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(c.batchEvery), 1)
}

// getJSON issues an authenticated GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, token string, endpoint string, query url.Values, out any) error {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return fmt.Errorf("spotify adapter: %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spotify adapter: %w", ports.UpstreamStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: %s decode error: %w", endpoint, err)
	}
	return nil
}
