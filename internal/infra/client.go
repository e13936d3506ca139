package infra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// retryAfter is how long to back off when EDGAR answers 429 before the
// single retry.
const retryAfter = 2 * time.Second

// Client is a rate-gated HTTP client for EDGAR. All requests carry the
// configured User-Agent (required by SEC policy) and pass through the
// shared spacing gate.
type Client struct {
	http      *http.Client
	gate      *Gate
	clk       clock.Clock
	userAgent string
	log       *zap.Logger
}

// NewClient builds a client with the given inter-request spacing and
// per-request timeout.
func NewClient(clk clock.Clock, userAgent string, spacing, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		gate:      NewGate(clk, spacing),
		clk:       clk,
		userAgent: userAgent,
		log:       log,
	}
}

// Get fetches url and returns the response body. Non-2xx statuses are
// returned as *ErrHTTP. A 429 is retried exactly once after a short sleep.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, status, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, &ErrHTTP{StatusCode: status, Status: http.StatusText(status), URL: url}
	}
	return body, nil
}

// GetMaybe fetches url but treats 404, 403 and 503 as a soft miss,
// returning (nil, nil) so document-lookup strategies can fall through.
// Other non-2xx statuses are still errors.
func (c *Client) GetMaybe(ctx context.Context, url string) ([]byte, error) {
	body, status, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusNotFound, http.StatusForbidden, http.StatusServiceUnavailable:
		return nil, nil
	}
	if status >= 300 {
		return nil, &ErrHTTP{StatusCode: status, Status: http.StatusText(status), URL: url}
	}
	return body, nil
}

// do performs one gated request, retrying a single time on 429.
func (c *Client) do(ctx context.Context, url string) ([]byte, int, error) {
	body, status, err := c.once(ctx, url)
	if err == nil && status == http.StatusTooManyRequests {
		c.log.Warn("EDGAR rate limit hit, backing off", zap.String("url", url))
		c.clk.Sleep(retryAfter)
		body, status, err = c.once(ctx, url)
	}
	return body, status, err
}

func (c *Client) once(ctx context.Context, url string) ([]byte, int, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", url, err)
	}
	return body, resp.StatusCode, nil
}
