package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/grocerylens/backend/internal/domain"
)

const (
	maxAttempts     = 3
	maxResponseSize = 4 << 20 // 4MB
)

// Client fetches the store catalog from a remote JSON resource
type Client struct {
	httpClient  *http.Client
	url         string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a catalog client. requestsPerMinute <= 0 disables the limiter.
func NewClient(url string, timeout time.Duration, requestsPerMinute int) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 5)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         url,
		rateLimiter: limiter,
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Debug().Str("component", "catalog").Msgf(format, args...)
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes, failing when the body is larger
func readLimitedBody(body io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}

// newRequest builds the catalog GET request with proper headers
func (c *Client) newRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "GroceryLens/1.0")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// FetchStores downloads and decodes the catalog. Transport failures, 429 and
// 5xx responses are retried; other non-200 responses fail immediately.
func (c *Client) FetchStores(ctx context.Context) ([]domain.Store, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: no catalog url configured", domain.ErrCatalogUnavailable)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := c.newRequest(ctx)
		if err != nil {
			return nil, err
		}

		c.debugLog("GET %s (attempt %d)", c.url, attempt)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Int("attempt", attempt).Msg("catalog request failed")
			lastErr = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
			continue
		}

		body, readErr := readLimitedBody(resp.Body, maxResponseSize)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("catalog returned retryable status")
			continue
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, readErr)
		}

		stores, err := decodeStores(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		c.debugLog("decoded %d stores", len(stores))
		return stores, nil
	}

	log.Error().Err(lastErr).Str("url", c.url).Msg("catalog fetch failed after retries")
	return nil, lastErr
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
