package deckbuilder

import (
	"fmt"
	"reflect"
	"testing"
)

// testCard is a compact fixture row: one owned card with its facts and an
// optional synergy score (negative means not recommended).
type testCard struct {
	name     string
	qty      int
	typeLine string
	cmc      float64
	colors   []string
	manaCost string
	synergy  float64
}

func testInput(cmd Commander, cards []testCard) Input {
	in := Input{
		Commander:  cmd,
		Collection: make(map[string]OwnedCard, len(cards)),
		Facts:      make(map[string]CardFact, len(cards)),
	}
	for _, c := range cards {
		in.Collection[c.name] = OwnedCard{Name: c.name, Quantity: c.qty}
		in.Facts[c.name] = CardFact{
			Name:          c.name,
			TypeLine:      c.typeLine,
			CMC:           c.cmc,
			ColorIdentity: c.colors,
			ManaCost:      c.manaCost,
		}
		if c.synergy >= 0 {
			in.Recommendations = append(in.Recommendations, Recommendation{
				Name:         c.name,
				SynergyScore: c.synergy,
			})
		}
	}
	return in
}

// generateSpells returns n distinct mono-blue spells with a spread of CMCs
// and synergy scores.
func generateSpells(n int) []testCard {
	types := []string{"Creature — Wizard", "Instant", "Sorcery", "Artifact", "Enchantment"}
	cards := make([]testCard, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, testCard{
			name:     fmt.Sprintf("Test Spell %03d", i),
			qty:      1,
			typeLine: types[i%len(types)],
			cmc:      float64(i%7 + 1),
			colors:   []string{ColorBlue},
			manaCost: fmt.Sprintf("{%d}{U}", i%7),
			synergy:  float64(i%10) / 10.0,
		})
	}
	return cards
}

func blueCommander() Commander {
	return Commander{Name: "Talrand, Sky Summoner", ColorIdentity: []string{ColorBlue}, ManaValue: 4}
}

func TestBuildCompleteDeck(t *testing.T) {
	cards := generateSpells(70)
	cards = append(cards, testCard{name: "Island", qty: 40, typeLine: "Basic Land — Island", synergy: -1})

	deck, err := Build(testInput(blueCommander(), cards), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if deck.Partial {
		t.Errorf("expected complete deck, got partial with shortfall %+v", deck.Shortfall)
	}
	if got := deck.TotalCards(); got != 100 {
		t.Errorf("TotalCards() = %d, want 100", got)
	}
	opts := DefaultOptions()
	if len(deck.Lands) < opts.MinLands || len(deck.Lands) > opts.MaxLands {
		t.Errorf("land count %d outside [%d, %d]", len(deck.Lands), opts.MinLands, opts.MaxLands)
	}
	assertSingleton(t, deck)
}

func TestBuildExactlyNinetyNineCards(t *testing.T) {
	cards := generateSpells(59)
	cards = append(cards, testCard{name: "Island", qty: 40, typeLine: "Basic Land — Island", synergy: -1})

	deck, err := Build(testInput(blueCommander(), cards), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if deck.Partial {
		t.Fatalf("expected complete deck, got partial: %+v", deck.Shortfall)
	}
	if got := deck.TotalCards(); got != 100 {
		t.Errorf("TotalCards() = %d, want 100", got)
	}
	if deck.Shortfall != nil {
		t.Errorf("expected nil shortfall, got %+v", deck.Shortfall)
	}
}

func TestBuildPartialDeck(t *testing.T) {
	// 40 color-legal spells and no lands: commander + 40 = 41 cards.
	deck, err := Build(testInput(blueCommander(), generateSpells(40)), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if !deck.Partial {
		t.Fatal("expected partial deck")
	}
	if got := deck.TotalCards(); got != 41 {
		t.Errorf("TotalCards() = %d, want 41", got)
	}
	if deck.Shortfall == nil {
		t.Fatal("expected shortfall report")
	}
	if deck.Shortfall.MissingTotal != 59 {
		t.Errorf("MissingTotal = %d, want 59", deck.Shortfall.MissingTotal)
	}

	unmet := 0
	for cat, req := range deck.Shortfall.Requested {
		if d := req - deck.Shortfall.Filled[cat]; d > 0 {
			unmet += d
		}
	}
	if unmet != 59 {
		t.Errorf("unmet category counts sum to %d, want 59", unmet)
	}
	assertSingleton(t, deck)
}

func TestBuildEmptyCollection(t *testing.T) {
	deck, err := Build(testInput(blueCommander(), nil), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !deck.Partial {
		t.Error("expected partial deck for empty collection")
	}
	if got := deck.TotalCards(); got != 1 {
		t.Errorf("TotalCards() = %d, want 1 (commander only)", got)
	}
	if deck.Shortfall.MissingTotal != 99 {
		t.Errorf("MissingTotal = %d, want 99", deck.Shortfall.MissingTotal)
	}
}

func TestBuildEmptyRecommendations(t *testing.T) {
	// Availability-only ranking must still produce a complete deck.
	cards := generateSpells(70)
	for i := range cards {
		cards[i].synergy = -1
	}
	cards = append(cards, testCard{name: "Island", qty: 40, typeLine: "Basic Land — Island", synergy: -1})

	in := testInput(blueCommander(), cards)
	if len(in.Recommendations) != 0 {
		t.Fatalf("fixture error: expected no recommendations, got %d", len(in.Recommendations))
	}

	deck, err := Build(in, DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if deck.Partial || deck.TotalCards() != 100 {
		t.Errorf("expected complete 100-card deck, got %d cards (partial=%v)", deck.TotalCards(), deck.Partial)
	}
}

func TestBuildQuantityIsSingleSlot(t *testing.T) {
	cards := generateSpells(70)
	cards = append(cards,
		testCard{name: "Arcane Signet", qty: 3, typeLine: "Artifact", cmc: 2, manaCost: "{2}", synergy: 1.0},
		testCard{name: "Island", qty: 40, typeLine: "Basic Land — Island", synergy: -1},
	)

	deck, err := Build(testInput(blueCommander(), cards), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	n := 0
	for _, name := range deck.Spells {
		if name == "Arcane Signet" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("Arcane Signet occupies %d slots, want exactly 1", n)
	}
}

func TestBuildColorlessCommander(t *testing.T) {
	cmd := Commander{Name: "Kozilek, the Great Distortion", ManaValue: 10}
	cards := make([]testCard, 0, 65)
	for i := 0; i < 64; i++ {
		cards = append(cards, testCard{
			name:     fmt.Sprintf("Colorless Relic %03d", i),
			qty:      1,
			typeLine: "Artifact",
			cmc:      float64(i%7 + 1),
			manaCost: fmt.Sprintf("{%d}", i%7+1),
			synergy:  float64(i%10) / 10.0,
		})
	}
	cards = append(cards, testCard{name: "Wastes", qty: 40, typeLine: "Basic Land", synergy: -1})

	deck, err := Build(testInput(cmd, cards), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if deck.Partial {
		t.Fatalf("expected complete deck, got partial with shortfall %+v", deck.Shortfall)
	}
	if got := deck.TotalCards(); got != 100 {
		t.Errorf("TotalCards() = %d, want 100", got)
	}
	opts := DefaultOptions()
	if len(deck.Lands) < opts.MinLands || len(deck.Lands) > opts.MaxLands {
		t.Fatalf("land count %d outside [%d, %d]", len(deck.Lands), opts.MinLands, opts.MaxLands)
	}
	for _, name := range deck.Lands {
		if name != "Wastes" {
			t.Errorf("unexpected land %q in a colorless deck", name)
		}
	}
}

func TestBuildColorIdentityFilter(t *testing.T) {
	cards := generateSpells(40)
	cards = append(cards, testCard{
		name: "Shivan Dragon", qty: 1, typeLine: "Creature — Dragon",
		cmc: 6, colors: []string{ColorRed}, manaCost: "{4}{R}{R}", synergy: 0.9,
	})

	deck, err := Build(testInput(blueCommander(), cards), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for _, name := range deck.Spells {
		if name == "Shivan Dragon" {
			t.Error("off-color card selected despite identity filter")
		}
	}
	if deck.Shortfall == nil {
		t.Fatal("expected shortfall report")
	}
	found := false
	for _, excl := range deck.Shortfall.ExcludedByColor {
		if excl.Name == "Shivan Dragon" {
			found = true
		}
	}
	if !found {
		t.Error("excluded card missing from shortfall report")
	}
}

func TestBuildDeterminism(t *testing.T) {
	cards := generateSpells(80)
	cards = append(cards, testCard{name: "Island", qty: 40, typeLine: "Basic Land — Island", synergy: -1})
	in := testInput(blueCommander(), cards)
	opts := DefaultOptions()

	first, err := Build(in, opts)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	second, err := Build(in, opts)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two builds from identical input differ")
	}
}

func TestBuildNegativeQuantity(t *testing.T) {
	in := testInput(blueCommander(), []testCard{
		{name: "Broken Entry", qty: -2, typeLine: "Instant", synergy: -1},
	})

	_, err := Build(in, DefaultOptions())
	if err == nil {
		t.Fatal("expected error for negative quantity")
	}
	if _, ok := err.(*InputError); !ok {
		t.Errorf("expected *InputError, got %T", err)
	}
}

func TestBuildEmptyCommanderName(t *testing.T) {
	_, err := Build(Input{Commander: Commander{Name: "  "}}, DefaultOptions())
	if err == nil {
		t.Fatal("expected error for empty commander name")
	}
}

func TestBuildCommanderExcludedFromPool(t *testing.T) {
	cmd := blueCommander()
	cards := generateSpells(50)
	cards = append(cards, testCard{
		name: cmd.Name, qty: 1, typeLine: "Legendary Creature — Merfolk Wizard",
		cmc: 4, colors: []string{ColorBlue}, manaCost: "{2}{U}{U}", synergy: 1.0,
	})

	deck, err := Build(testInput(cmd, cards), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	for _, name := range deck.Spells {
		if name == cmd.Name {
			t.Error("commander appears in the spell list")
		}
	}
}

// assertSingleton verifies the singleton invariant over spells and
// non-basic lands.
func assertSingleton(t *testing.T, deck *Deck) {
	t.Helper()
	seen := make(map[string]int)
	for _, name := range deck.Spells {
		seen[name]++
	}
	for _, name := range deck.Lands {
		if IsBasicLand(name) {
			continue
		}
		seen[name]++
	}
	for name, n := range seen {
		if n > 1 {
			t.Errorf("card %q appears %d times", name, n)
		}
	}
}
