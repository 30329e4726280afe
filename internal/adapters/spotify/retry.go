package spotify

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBackoffMs  = 500
	// maxRetryAfter bounds how long a Retry-After header can stall a request.
	maxRetryAfter = 30 * time.Second
)

func getRetryConfig() (int, time.Duration) {
	maxRetries := envPositiveInt("SPOTIFY_MAX_RETRIES", defaultMaxRetries)
	backoffMs := envPositiveInt("SPOTIFY_RETRY_BACKOFF_MS", defaultBackoffMs)
	return maxRetries, time.Duration(backoffMs) * time.Millisecond
}

func envPositiveInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		log.Printf("WARN spotify adapter: ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return parsed
}

// doRequestWithRetry sends a body-less request, retrying transport errors,
// 429 and 5xx with exponential backoff. A Retry-After header overrides the backoff.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	maxRetries := c.maxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	baseBackoff := c.baseBackoff
	if baseBackoff <= 0 {
		baseBackoff = time.Duration(defaultBackoffMs) * time.Millisecond
	}

	ctx := req.Context()
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("request canceled: %w", err)
		}

		// #nosec G107 -- URL constructed from the configured Spotify API base URL
		resp, err := c.httpClient.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		attemptNum := attempt + 1
		if err != nil {
			lastErr = err
			log.Printf("WARN spotify adapter: retry attempt %d/%d for %s after error: %v", attemptNum, maxRetries, req.URL.Path, err) // #nosec G706 -- error value is from trusted internal HTTP operation
		} else {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			log.Printf("WARN spotify adapter: retry attempt %d/%d for %s after status %d", attemptNum, maxRetries, req.URL.Path, resp.StatusCode) // #nosec G706 -- status code is numeric from trusted HTTP response
			_ = resp.Body.Close()
		}

		if attemptNum == maxRetries {
			break
		}

		backoff := baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = min(retryAfter, maxRetryAfter)
		}

		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}

	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
