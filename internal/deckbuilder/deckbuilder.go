// Package deckbuilder implements the Commander deck building engine.
//
// The engine is a stateless, single-pass pipeline: it takes an owned-card
// collection, a commander, and ranked card recommendations, and produces a
// format-legal 100-card deck (or a partial deck with a shortfall report when
// the collection cannot fill every slot). All stages operate on one in-memory
// candidate pool built per invocation; the engine performs no I/O and holds
// no state between calls, so independent builds may run concurrently.
package deckbuilder

import (
	"fmt"
	"strings"
)

// Color symbols used in Commander color identities.
const (
	ColorWhite = "W"
	ColorBlue  = "U"
	ColorBlack = "B"
	ColorRed   = "R"
	ColorGreen = "G"
)

// colorOrder is the canonical WUBRG ordering used for deterministic output.
var colorOrder = []string{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen}

// OwnedCard represents a single card from the player's collection.
// Keyed by canonical name; immutable once produced by the collection loader.
type OwnedCard struct {
	Name     string // canonical card name (unique key)
	Quantity int
	SetCode  string
}

// Commander holds the commander facts supplied by the legality provider.
type Commander struct {
	Name          string
	ColorIdentity []string // subset of {W,U,B,R,G}; empty means colorless
	ManaValue     float64
}

// Recommendation is a single ranked card suggestion for a commander.
type Recommendation struct {
	Name                string
	SynergyScore        float64 // clamped to [0,1]
	Role                Role
	InclusionPercentage float64 // clamped to [0,100]
}

// CardFact carries the per-card data the engine consumes but never computes:
// color identity, type line, mana cost and format legality. Facts come from
// the legality provider; a missing fact means the card is treated as
// colorless and legal (documented leniency, not an error).
type CardFact struct {
	Name          string
	TypeLine      string
	ManaCost      string // e.g. "{2}{G}{G}"
	CMC           float64
	ColorIdentity []string
	OracleText    string
	Banned        bool // true when the card is not legal in Commander
}

// Input bundles everything a single build needs. The engine treats all
// fields as read-only.
type Input struct {
	Commander       Commander
	Collection      map[string]OwnedCard
	Recommendations []Recommendation
	Facts           map[string]CardFact
}

// Deck is the engine output. It is constructed once at the end of the
// pipeline and never mutated afterwards.
type Deck struct {
	Commander     string
	Spells        []string // unique non-land card names, sorted
	Lands         []string // land names; basics may repeat; sorted
	ColorIdentity []string
	TotalCMC      float64
	Partial       bool
	Shortfall     *ShortfallReport // non-nil only when Partial
}

// TotalCards returns the deck size including the commander.
func (d *Deck) TotalCards() int {
	return 1 + len(d.Spells) + len(d.Lands)
}

// Exclusion records a card removed from the candidate pool and why, so the
// shortfall report can explain what the collection could not contribute.
type Exclusion struct {
	Name   string
	Reason string
}

// ShortfallReport describes an incomplete build: per-category slots
// requested versus filled, plus every card excluded before selection.
type ShortfallReport struct {
	Requested       map[Category]int
	Filled          map[Category]int
	MissingTotal    int
	ExcludedByColor []Exclusion
}

// InputError reports malformed collection or commander data reaching the
// engine. It is surfaced to the caller immediately and never retried.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// ColorIdentityViolationError indicates the defensive post-assembly check
// found a selected card outside the commander's color identity. This should
// be unreachable given the pool filter; the engine fails loudly rather than
// shipping an illegal deck.
type ColorIdentityViolationError struct {
	Card           string
	CardColors     []string
	CommanderColor []string
}

func (e *ColorIdentityViolationError) Error() string {
	return fmt.Sprintf("color identity violation: %q has colors %v outside commander identity %v",
		e.Card, e.CardColors, e.CommanderColor)
}

// validColor reports whether s is one of the five color symbols.
func validColor(s string) bool {
	switch s {
	case ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen:
		return true
	}
	return false
}

// sortColors returns the colors in canonical WUBRG order, deduplicated.
func sortColors(colors []string) []string {
	present := make(map[string]bool, len(colors))
	for _, c := range colors {
		present[c] = true
	}
	out := make([]string, 0, len(present))
	for _, c := range colorOrder {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

// subsetOf reports whether every color in colors is in identity.
func subsetOf(colors, identity []string) bool {
	for _, c := range colors {
		found := false
		for _, ic := range identity {
			if c == ic {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// basicLandColors maps basic land names to the color they produce. Basics
// are exempt from the singleton rule and may occupy multiple land slots.
var basicLandColors = map[string]string{
	"plains":                ColorWhite,
	"island":                ColorBlue,
	"swamp":                 ColorBlack,
	"mountain":              ColorRed,
	"forest":                ColorGreen,
	"wastes":                "",
	"snow-covered plains":   ColorWhite,
	"snow-covered island":   ColorBlue,
	"snow-covered swamp":    ColorBlack,
	"snow-covered mountain": ColorRed,
	"snow-covered forest":   ColorGreen,
}

// IsBasicLand reports whether name is a basic land (singleton-exempt).
func IsBasicLand(name string) bool {
	_, ok := basicLandColors[strings.ToLower(name)]
	return ok
}

// basicColor returns the color a basic land produces ("" for Wastes).
func basicColor(name string) string {
	return basicLandColors[strings.ToLower(name)]
}

// BasicLandFor returns the basic land name for a color symbol.
func BasicLandFor(color string) string {
	switch color {
	case ColorWhite:
		return "Plains"
	case ColorBlue:
		return "Island"
	case ColorBlack:
		return "Swamp"
	case ColorRed:
		return "Mountain"
	case ColorGreen:
		return "Forest"
	}
	return "Wastes"
}

// countPips counts colored mana symbols in a mana cost string such as
// "{2}{G}{G}" or "{W/U}{W/U}". Hybrid symbols count toward each color.
func countPips(manaCost string, pips map[string]int) {
	for _, r := range manaCost {
		switch string(r) {
		case ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen:
			pips[string(r)]++
		}
	}
}
