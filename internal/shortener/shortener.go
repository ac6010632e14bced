// Package shortener wraps a git.io style URL shortening service: the long
// URL is posted as a form field and the short URL comes back in the
// Location header.
package shortener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nahidhasan98/webhook-shunt/internal/errors"
	"github.com/nahidhasan98/webhook-shunt/internal/logger"
)

// Client is a best-effort shortening client, safe for concurrent use
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a client for endpoint. An empty endpoint disables shortening
// and a zero timeout leaves calls unbounded.
func New(endpoint string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			// The answer is the redirect itself, never follow it
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log,
	}
}

// Shorten returns the shortened form of longURL, or longURL unchanged when
// the service cannot produce one. Failures are logged, never returned.
func (c *Client) Shorten(ctx context.Context, longURL string) string {
	if c.endpoint == "" {
		return longURL
	}

	short, err := c.shorten(ctx, longURL)
	if err != nil {
		c.log.With("url", longURL).Warn(fmt.Sprintf("Failed to shorten URL %s", longURL), err)
		return longURL
	}

	return short
}

func (c *Client) shorten(ctx context.Context, longURL string) (string, error) {
	form := url.Values{"url": {longURL}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.ShorteningFailed(longURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.ShorteningFailed(longURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return "", errors.ShorteningFailed(longURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	location, err := resp.Location()
	if err != nil {
		return "", errors.ShorteningFailed(longURL, err)
	}

	return location.String(), nil
}
