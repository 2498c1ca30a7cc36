package edhrec

import (
	"context"
	"log"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// FallbackRecommendations returns a static list of format staples used when
// EDHREC is unreachable, so a build can still rank the collection instead of
// failing outright.
func FallbackRecommendations() []deckbuilder.Recommendation {
	entries := []struct {
		name      string
		score     float64
		role      deckbuilder.Role
		inclusion float64
	}{
		{"Sol Ring", 0.95, deckbuilder.RoleStaple, 85},
		{"Command Tower", 0.90, deckbuilder.RoleStaple, 80},
		{"Arcane Signet", 0.85, deckbuilder.RoleStaple, 75},
		{"Lightning Greaves", 0.85, deckbuilder.RoleProtection, 70},
		{"Swiftfoot Boots", 0.80, deckbuilder.RoleProtection, 65},
		{"Cultivate", 0.75, deckbuilder.RoleRamp, 60},
		{"Kodama's Reach", 0.75, deckbuilder.RoleRamp, 58},
		{"Swords to Plowshares", 0.80, deckbuilder.RoleRemoval, 55},
		{"Path to Exile", 0.78, deckbuilder.RoleRemoval, 52},
		{"Counterspell", 0.70, deckbuilder.RoleUnclassified, 45},
		{"Rhystic Study", 0.88, deckbuilder.RoleDraw, 68},
		{"Mystic Remora", 0.82, deckbuilder.RoleDraw, 62},
	}

	recs := make([]deckbuilder.Recommendation, len(entries))
	for i, e := range entries {
		recs[i] = deckbuilder.Recommendation{
			Name:                e.name,
			SynergyScore:        e.score,
			Role:                e.role,
			InclusionPercentage: e.inclusion,
		}
	}
	return recs
}

// RecommendationsWithFallback tries the API and degrades to the static
// staples list when it fails, logging the degradation instead of aborting
// the build.
func (c *Client) RecommendationsWithFallback(ctx context.Context, commander string) []deckbuilder.Recommendation {
	recs, err := c.Recommendations(ctx, commander)
	if err != nil {
		log.Printf("[EDHREC] Falling back to static staples for %q: %v", commander, err)
		return FallbackRecommendations()
	}
	return recs
}
