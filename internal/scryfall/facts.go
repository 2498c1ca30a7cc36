package scryfall

import (
	"context"
	"strings"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// FetchFacts resolves card facts for the given names in bulk and keys the
// result by the requested names, so callers can join facts directly against
// their collection. Scryfall reports double-faced cards under their full
// "Front // Back" name even when queried by front face, so matching falls
// back to the front face.
func (c *Client) FetchFacts(ctx context.Context, names []string) (map[string]deckbuilder.CardFact, []string, error) {
	cards, notFound, err := c.GetCardsByNames(ctx, names)
	if err != nil {
		return nil, nil, err
	}

	byName := make(map[string]*Card, len(cards)*2)
	for i := range cards {
		card := &cards[i]
		byName[strings.ToLower(card.Name)] = card
		if front, _, ok := strings.Cut(card.Name, " // "); ok {
			key := strings.ToLower(strings.TrimSpace(front))
			if _, exists := byName[key]; !exists {
				byName[key] = card
			}
		}
	}

	facts := make(map[string]deckbuilder.CardFact, len(cards))
	for _, name := range names {
		card, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		fact := card.Fact()
		fact.Name = name
		facts[name] = fact
	}
	return facts, notFound, nil
}
