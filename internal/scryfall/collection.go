package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxBatchSize is the maximum number of identifiers per /cards/collection
// request (Scryfall's limit is 75).
const MaxBatchSize = 75

// cardIdentifier is one entry of a /cards/collection request body.
type cardIdentifier struct {
	Name string `json:"name,omitempty"`
}

type collectionRequest struct {
	Identifiers []cardIdentifier `json:"identifiers"`
}

type collectionResponse struct {
	Object   string           `json:"object"`
	NotFound []cardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// GetCardsByNames fetches cards in bulk by name through the batch
// /cards/collection endpoint, splitting into requests of MaxBatchSize. It
// returns the resolved cards and the names Scryfall did not recognize.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return []Card{}, nil, nil
	}

	var allCards []Card
	var allNotFound []string

	for i := 0; i < len(names); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(names) {
			end = len(names)
		}

		cards, notFound, err := c.fetchBatch(ctx, names[i:end])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch batch %d-%d: %w", i, end, err)
		}
		allCards = append(allCards, cards...)
		allNotFound = append(allNotFound, notFound...)
	}

	return allCards, allNotFound, nil
}

func (c *Client) fetchBatch(ctx context.Context, names []string) ([]Card, []string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter error: %w", err)
	}

	identifiers := make([]cardIdentifier, len(names))
	for i, name := range names {
		identifiers[i] = cardIdentifier{Name: name}
	}
	jsonBody, err := json.Marshal(collectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards/collection", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch cards from Scryfall: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("scryfall API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var collResp collectionResponse
	if err := json.Unmarshal(body, &collResp); err != nil {
		return nil, nil, fmt.Errorf("failed to parse Scryfall response: %w", err)
	}

	notFound := make([]string, 0, len(collResp.NotFound))
	for _, id := range collResp.NotFound {
		if id.Name != "" {
			notFound = append(notFound, id.Name)
		}
	}
	return collResp.Data, notFound, nil
}
