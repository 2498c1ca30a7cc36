package deckbuilder

import "testing"

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(o *Options) {}, false},
		{"min above max", func(o *Options) { o.MinLands = 41 }, true},
		{"negative min", func(o *Options) { o.MinLands = -1 }, true},
		{"max beyond slots", func(o *Options) { o.MaxLands = 100 }, true},
		{"negative synergy weight", func(o *Options) { o.SynergyWeight = -0.1 }, true},
		{"negative availability weight", func(o *Options) { o.AvailabilityWeight = -1 }, true},
		{"negative swap cap", func(o *Options) { o.MaxSwapAttempts = -1 }, true},
		{"inverted anchors", func(o *Options) { o.LowCMCAnchor = 5; o.HighCMCAnchor = 3 }, true},
		{"zero weights allowed", func(o *Options) { o.SynergyWeight = 0; o.AvailabilityWeight = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTargetCounts(t *testing.T) {
	opts := DefaultOptions()
	targets := opts.targetCounts(61)

	sum := 0
	for _, cat := range spellCategories {
		if targets[cat] < 0 {
			t.Errorf("target for %s is negative: %d", cat, targets[cat])
		}
		sum += targets[cat]
	}
	if sum > 61 {
		t.Errorf("targets sum to %d, exceeding budget 61", sum)
	}
	if targets[CategoryCreature] <= targets[CategoryEnchantment] {
		t.Errorf("balanced strategy should weight creatures (%d) above enchantments (%d)",
			targets[CategoryCreature], targets[CategoryEnchantment])
	}
}

func TestTargetCountsOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetCounts = map[Category]int{CategoryCreature: 40}

	targets := opts.targetCounts(61)
	if targets[CategoryCreature] != 40 {
		t.Errorf("creature override = %d, want 40", targets[CategoryCreature])
	}

	rest := 0
	for _, cat := range spellCategories {
		if cat == CategoryCreature {
			continue
		}
		rest += targets[cat]
	}
	if rest > 21 {
		t.Errorf("non-override targets sum to %d, exceeding remaining budget 21", rest)
	}
}

func TestTargetCountsUnknownStrategy(t *testing.T) {
	opts := DefaultOptions()
	opts.Strategy = Strategy("nonsense")

	// Unknown strategies fall back to balanced rather than failing.
	got := opts.targetCounts(61)
	opts.Strategy = StrategyBalanced
	want := opts.targetCounts(61)
	for _, cat := range spellCategories {
		if got[cat] != want[cat] {
			t.Errorf("target for %s = %d, want balanced fallback %d", cat, got[cat], want[cat])
		}
	}
}

func TestLandTarget(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		avgCMC float64
		want   int
	}{
		{0, 35},
		{2.5, 35},
		{4.0, 40},
		{6.0, 40},
		{3.25, 38}, // midpoint rounds half-up
	}
	for _, tt := range tests {
		if got := opts.landTarget(tt.avgCMC); got != tt.want {
			t.Errorf("landTarget(%.2f) = %d, want %d", tt.avgCMC, got, tt.want)
		}
	}
}
