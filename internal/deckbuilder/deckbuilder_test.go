package deckbuilder

import (
	"reflect"
	"testing"
)

func TestSortColors(t *testing.T) {
	tests := []struct {
		name   string
		colors []string
		want   []string
	}{
		{"already canonical", []string{"W", "U"}, []string{"W", "U"}},
		{"reordered", []string{"G", "W", "B"}, []string{"W", "B", "G"}},
		{"deduplicated", []string{"R", "R", "U"}, []string{"U", "R"}},
		{"empty", nil, []string{}},
		{"five color", []string{"G", "R", "B", "U", "W"}, []string{"W", "U", "B", "R", "G"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sortColors(tt.colors); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sortColors(%v) = %v, want %v", tt.colors, got, tt.want)
			}
		})
	}
}

func TestSubsetOf(t *testing.T) {
	tests := []struct {
		name     string
		colors   []string
		identity []string
		want     bool
	}{
		{"exact match", []string{"U", "R"}, []string{"U", "R"}, true},
		{"proper subset", []string{"U"}, []string{"U", "R"}, true},
		{"colorless in anything", nil, []string{"G"}, true},
		{"colorless in colorless", nil, nil, true},
		{"off color", []string{"B"}, []string{"U", "R"}, false},
		{"colored in colorless", []string{"W"}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := subsetOf(tt.colors, tt.identity); got != tt.want {
				t.Errorf("subsetOf(%v, %v) = %v, want %v", tt.colors, tt.identity, got, tt.want)
			}
		})
	}
}

func TestIsBasicLand(t *testing.T) {
	basics := []string{"Plains", "Island", "Swamp", "Mountain", "Forest", "Wastes", "Snow-Covered Island", "snow-covered forest"}
	for _, name := range basics {
		if !IsBasicLand(name) {
			t.Errorf("IsBasicLand(%q) = false, want true", name)
		}
	}
	nonBasics := []string{"Command Tower", "Steam Vents", "Islandhome", ""}
	for _, name := range nonBasics {
		if IsBasicLand(name) {
			t.Errorf("IsBasicLand(%q) = true, want false", name)
		}
	}
}

func TestBasicLandFor(t *testing.T) {
	tests := []struct {
		color string
		want  string
	}{
		{"W", "Plains"},
		{"U", "Island"},
		{"B", "Swamp"},
		{"R", "Mountain"},
		{"G", "Forest"},
		{"", "Wastes"},
	}
	for _, tt := range tests {
		if got := BasicLandFor(tt.color); got != tt.want {
			t.Errorf("BasicLandFor(%q) = %q, want %q", tt.color, got, tt.want)
		}
	}
}

func TestCountPips(t *testing.T) {
	tests := []struct {
		manaCost string
		want     map[string]int
	}{
		{"{2}{G}{G}", map[string]int{"G": 2}},
		{"{W}{U}{B}{R}{G}", map[string]int{"W": 1, "U": 1, "B": 1, "R": 1, "G": 1}},
		{"{W/U}{W/U}", map[string]int{"W": 2, "U": 2}},
		{"{5}", map[string]int{}},
		{"", map[string]int{}},
	}
	for _, tt := range tests {
		pips := map[string]int{}
		countPips(tt.manaCost, pips)
		if !reflect.DeepEqual(pips, tt.want) {
			t.Errorf("countPips(%q) = %v, want %v", tt.manaCost, pips, tt.want)
		}
	}
}

func TestDeckTotalCards(t *testing.T) {
	deck := &Deck{
		Commander: "Talrand, Sky Summoner",
		Spells:    []string{"Opt", "Ponder"},
		Lands:     []string{"Island", "Island", "Island"},
	}
	if got := deck.TotalCards(); got != 6 {
		t.Errorf("TotalCards() = %d, want 6", got)
	}
}

func TestErrorStrings(t *testing.T) {
	inputErr := &InputError{Field: "collection", Reason: "bad quantity"}
	if inputErr.Error() == "" {
		t.Error("InputError.Error() is empty")
	}
	colorErr := &ColorIdentityViolationError{
		Card:           "Shivan Dragon",
		CardColors:     []string{"R"},
		CommanderColor: []string{"U"},
	}
	if colorErr.Error() == "" {
		t.Error("ColorIdentityViolationError.Error() is empty")
	}
}
