// Package edhrec fetches commander-specific card recommendations from the
// EDHREC JSON API and normalizes them into synergy-scored entries for the
// deck building engine.
package edhrec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

const (
	defaultBaseURL = "https://json.edhrec.com/pages"
	rateLimitDelay = 500 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// APIError represents a failed EDHREC request.
type APIError struct {
	Commander string
	Status    int
	Reason    string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("EDHREC request for %q failed (HTTP %d): %s", e.Commander, e.Status, e.Reason)
	}
	return fmt.Sprintf("EDHREC request for %q failed: %s", e.Commander, e.Reason)
}

// Client is a rate-limited EDHREC API client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates an EDHREC API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:     defaultBaseURL,
		userAgent:   "edh-builder/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recommendations fetches and parses the recommendation page for a
// commander. The returned slice preserves EDHREC's section order.
func (c *Client) Recommendations(ctx context.Context, commander string) ([]deckbuilder.Recommendation, error) {
	url := fmt.Sprintf("%s/commanders/%s.json", c.baseURL, Slug(commander))

	var page page
	if err := c.doRequest(ctx, url, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations for %q: %w", commander, err)
	}
	return parsePage(&page), nil
}

// doRequest performs a GET with rate limiting and exponential backoff.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			lastErr = &APIError{Status: resp.StatusCode, Reason: "transient failure"}
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		default:
			return &APIError{Status: resp.StatusCode, Reason: strings.TrimSpace(string(body))}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Slug converts a commander name into its EDHREC page slug: the front face
// only, lowercased, punctuation dropped, spaces as dashes.
func Slug(commander string) string {
	name := commander
	if front, _, ok := strings.Cut(name, "//"); ok {
		name = front
	}
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
