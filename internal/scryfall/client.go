// Package scryfall is a rate-limited client for the Scryfall card API,
// providing the card facts the deck building engine needs: type lines, mana
// costs, color identities and Commander legality.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.scryfall.com"
	rateLimitDelay = 100 * time.Millisecond // 10 req/sec, per Scryfall's guidance
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client is a Scryfall API client with rate limiting and retries.
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

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Scryfall API client.
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

// GetCardByName retrieves a card by exact name via /cards/named.
func (c *Client) GetCardByName(ctx context.Context, name string) (*Card, error) {
	u := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, u, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}
	return &card, nil
}

// GetCardFuzzy retrieves a card by fuzzy name match.
func (c *Client) GetCardFuzzy(ctx context.Context, name string) (*Card, error) {
	u := fmt.Sprintf("%s/cards/named?fuzzy=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, u, &card); err != nil {
		return nil, fmt.Errorf("failed to fuzzy-match card %q: %w", name, err)
	}
	return &card, nil
}

// doRequest performs a GET with rate limiting and retry logic.
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

		done, err := c.handleResponse(resp, url, result, &backoff, attempt)
		if done {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse consumes one HTTP response. done is false when the caller
// should retry.
func (c *Client) handleResponse(resp *http.Response, url string, result interface{}, backoff *time.Duration, attempt int) (done bool, err error) {
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return true, fmt.Errorf("failed to read response body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return true, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return true, nil

	case http.StatusTooManyRequests:
		err = fmt.Errorf("rate limited (HTTP 429)")
		if attempt >= maxRetries {
			return true, err
		}
		// Honor Retry-After when the server provides it.
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if d, perr := time.ParseDuration(retryAfter + "s"); perr == nil {
				time.Sleep(d)
			} else {
				time.Sleep(*backoff)
			}
		} else {
			time.Sleep(*backoff)
		}
		*backoff = minDuration(*backoff*2, maxBackoff)
		return false, err

	case http.StatusNotFound:
		return true, &NotFoundError{URL: url}

	default:
		body, _ := io.ReadAll(resp.Body)
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return true, &apiErr
		}
		return true, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
