package deckbuilder

import "strings"

// Category is the closed set of functional buckets the categorizer assigns.
// Every candidate lands in exactly one bucket; cards whose type cannot be
// resolved fall into CategoryUnclassified so they stay eligible without
// counting toward strict type quotas.
type Category string

const (
	CategoryCreature     Category = "creature"
	CategoryInstant      Category = "instant"
	CategorySorcery      Category = "sorcery"
	CategoryArtifact     Category = "artifact"
	CategoryEnchantment  Category = "enchantment"
	CategoryPlaneswalker Category = "planeswalker"
	CategoryLand         Category = "land"
	CategoryUnclassified Category = "unclassified-spell"
)

// spellCategories lists the non-land buckets in a fixed order used for
// deterministic iteration during selection and reporting.
var spellCategories = []Category{
	CategoryCreature,
	CategoryInstant,
	CategorySorcery,
	CategoryArtifact,
	CategoryEnchantment,
	CategoryPlaneswalker,
	CategoryUnclassified,
}

// Role is the closed synergy/role tag attached to recommendations. Unknown
// provider tags map to RoleUnclassified rather than failing.
type Role string

const (
	RoleStaple       Role = "staple"
	RoleSynergy      Role = "synergy"
	RoleRemoval      Role = "removal"
	RoleRamp         Role = "ramp"
	RoleDraw         Role = "draw"
	RoleProtection   Role = "protection"
	RoleBudget       Role = "budget"
	RoleUnclassified Role = "unclassified"
)

// ParseRole maps a free-form provider tag onto the closed Role set.
func ParseRole(tag string) Role {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "staple", "staples", "top cards":
		return RoleStaple
	case "synergy", "high synergy":
		return RoleSynergy
	case "removal", "targeted removal", "board wipes":
		return RoleRemoval
	case "ramp", "mana ramp", "mana acceleration":
		return RoleRamp
	case "draw", "card draw", "card advantage":
		return RoleDraw
	case "protection":
		return RoleProtection
	case "budget":
		return RoleBudget
	default:
		return RoleUnclassified
	}
}

// categorize assigns exactly one Category from a card's type line. The
// precedence mirrors how Magic type lines are read for deck-slot purposes:
// a land is a land no matter what else the line says, an artifact creature
// is a creature. Same input always yields the same bucket.
func categorize(typeLine string) Category {
	line := strings.ToLower(typeLine)
	switch {
	case line == "":
		return CategoryUnclassified
	case strings.Contains(line, "land"):
		return CategoryLand
	case strings.Contains(line, "creature"):
		return CategoryCreature
	case strings.Contains(line, "planeswalker"):
		return CategoryPlaneswalker
	case strings.Contains(line, "instant"):
		return CategoryInstant
	case strings.Contains(line, "sorcery"):
		return CategorySorcery
	case strings.Contains(line, "artifact"):
		return CategoryArtifact
	case strings.Contains(line, "enchantment"):
		return CategoryEnchantment
	default:
		return CategoryUnclassified
	}
}
