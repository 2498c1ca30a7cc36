package deckbuilder

import "fmt"

// Strategy selects a card-type ratio profile for the non-land targets.
type Strategy string

const (
	StrategyBalanced Strategy = "balanced"
	StrategyAggro    Strategy = "aggro"
	StrategyControl  Strategy = "control"
	StrategyCombo    Strategy = "combo"
	StrategyRamp     Strategy = "ramp"
)

// nonCommanderSlots is the number of cards a complete deck holds besides
// the commander.
const nonCommanderSlots = 99

// Options carries every engine tunable as an explicit value passed in at
// call time. Concurrent builds cannot interfere through shared defaults;
// the zero value is not usable, start from DefaultOptions.
type Options struct {
	MinLands int
	MaxLands int

	SynergyWeight      float64
	AvailabilityWeight float64

	Strategy Strategy

	// TargetCounts overrides the strategy-derived target for specific
	// categories. Lands cannot be overridden here; use MinLands/MaxLands.
	TargetCounts map[Category]int

	// CurveShape is the target CMC histogram shape, bucket 0..7 where 7
	// aggregates everything at 7+ CMC. The balancer scales the shape to
	// the actual spell count.
	CurveShape     map[int]int
	CurveTolerance int

	// MaxSwapAttempts bounds the curve balancer so it always terminates.
	MaxSwapAttempts int

	// LowCMCAnchor and HighCMCAnchor bound the average-CMC interpolation
	// that scales the land target from MinLands toward MaxLands.
	LowCMCAnchor  float64
	HighCMCAnchor float64
}

// DefaultOptions returns the tunables the engine uses with zero explicit
// configuration.
func DefaultOptions() Options {
	return Options{
		MinLands:           35,
		MaxLands:           40,
		SynergyWeight:      0.7,
		AvailabilityWeight: 0.3,
		Strategy:           StrategyBalanced,
		CurveShape: map[int]int{
			0: 2,
			1: 4,
			2: 8,
			3: 12,
			4: 10,
			5: 8,
			6: 6,
			7: 8,
		},
		CurveTolerance:  2,
		MaxSwapAttempts: 20,
		LowCMCAnchor:    2.5,
		HighCMCAnchor:   4.0,
	}
}

// Validate checks the option values for internal consistency.
func (o Options) Validate() error {
	if o.MinLands < 0 || o.MaxLands < o.MinLands {
		return fmt.Errorf("land bounds [%d, %d] are invalid", o.MinLands, o.MaxLands)
	}
	if o.MaxLands > nonCommanderSlots {
		return fmt.Errorf("max lands %d exceeds available slots", o.MaxLands)
	}
	if o.SynergyWeight < 0 || o.AvailabilityWeight < 0 {
		return fmt.Errorf("scoring weights cannot be negative")
	}
	if o.MaxSwapAttempts < 0 {
		return fmt.Errorf("max swap attempts cannot be negative")
	}
	if o.HighCMCAnchor < o.LowCMCAnchor {
		return fmt.Errorf("CMC anchors [%.2f, %.2f] are invalid", o.LowCMCAnchor, o.HighCMCAnchor)
	}
	return nil
}

// strategyRatios maps each strategy to its non-land card-type ratios. The
// ratios are normalized over the non-land spell budget during target
// computation, so they do not need to sum to 1.
var strategyRatios = map[Strategy]map[Category]float64{
	StrategyBalanced: {
		CategoryCreature:    0.30,
		CategoryInstant:     0.12,
		CategorySorcery:     0.12,
		CategoryArtifact:    0.15,
		CategoryEnchantment: 0.08,
	},
	StrategyAggro: {
		CategoryCreature:    0.45,
		CategoryInstant:     0.15,
		CategorySorcery:     0.08,
		CategoryArtifact:    0.10,
		CategoryEnchantment: 0.05,
	},
	StrategyControl: {
		CategoryCreature:    0.15,
		CategoryInstant:     0.25,
		CategorySorcery:     0.20,
		CategoryArtifact:    0.12,
		CategoryEnchantment: 0.10,
	},
	StrategyCombo: {
		CategoryCreature:    0.20,
		CategoryInstant:     0.20,
		CategorySorcery:     0.18,
		CategoryArtifact:    0.15,
		CategoryEnchantment: 0.12,
	},
	StrategyRamp: {
		CategoryCreature:    0.25,
		CategoryInstant:     0.10,
		CategorySorcery:     0.15,
		CategoryArtifact:    0.20,
		CategoryEnchantment: 0.08,
	},
}

// targetCounts computes per-category targets for the given spell budget.
// Explicit overrides win; remaining categories share the leftover budget
// proportionally to the strategy ratios. Planeswalkers and unclassified
// spells carry no quota of their own and are filled by overflow.
func (o Options) targetCounts(spellBudget int) map[Category]int {
	ratios, ok := strategyRatios[o.Strategy]
	if !ok {
		ratios = strategyRatios[StrategyBalanced]
	}

	targets := make(map[Category]int, len(spellCategories))
	budget := spellBudget

	// Overrides come off the top of the budget.
	var ratioSum float64
	for _, cat := range spellCategories {
		if n, ok := o.TargetCounts[cat]; ok {
			if n < 0 {
				n = 0
			}
			targets[cat] = n
			budget -= n
			continue
		}
		ratioSum += ratios[cat]
	}
	if budget < 0 {
		budget = 0
	}

	for _, cat := range spellCategories {
		if _, ok := targets[cat]; ok {
			continue
		}
		if ratioSum <= 0 {
			targets[cat] = 0
			continue
		}
		targets[cat] = int(float64(budget) * ratios[cat] / ratioSum)
	}
	return targets
}

// landTarget interpolates the land count between MinLands and MaxLands based
// on the average CMC of the selected spells relative to the anchors.
func (o Options) landTarget(avgCMC float64) int {
	if avgCMC <= o.LowCMCAnchor {
		return o.MinLands
	}
	if avgCMC >= o.HighCMCAnchor {
		return o.MaxLands
	}
	span := o.HighCMCAnchor - o.LowCMCAnchor
	if span <= 0 {
		return o.MinLands
	}
	frac := (avgCMC - o.LowCMCAnchor) / span
	return o.MinLands + int(frac*float64(o.MaxLands-o.MinLands)+0.5)
}
