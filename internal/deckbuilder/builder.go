package deckbuilder

import "sort"

// Build runs the deck building pipeline: color identity filter, categorizer,
// synergy-ranked selection, mana base, curve balancing, singleton
// enforcement, and shortfall handling. It is a single synchronous
// computation with no side effects; callers may run independent builds
// concurrently.
func Build(in Input, opts Options) (*Deck, error) {
	if err := opts.Validate(); err != nil {
		return nil, &InputError{Field: "options", Reason: err.Error()}
	}

	p, err := buildPool(in, opts)
	if err != nil {
		return nil, err
	}

	identity := sortColors(in.Commander.ColorIdentity)

	// First pass assumes the minimum land count; the budget tightens once
	// the selection's average CMC fixes the real land target.
	spellBudget := nonCommanderSlots - opts.MinLands
	targets := opts.targetCounts(spellBudget)
	sel := selectSpells(p, spellBudget, targets)

	landGoal := opts.landTarget(averageCMC(p, sel))
	spellBudget = nonCommanderSlots - landGoal
	trimSpells(p, sel, spellBudget)

	// Spells the collection could not supply free slots for extra lands,
	// up to the configured maximum.
	if sel.count() < spellBudget {
		landGoal = nonCommanderSlots - sel.count()
		if landGoal > opts.MaxLands {
			landGoal = opts.MaxLands
		}
	}

	mb := selectLands(p, sel, identity, landGoal)

	balanceCurve(p, sel, opts)

	// Top-up: while slots remain, pull the best leftover spells, then any
	// leftover lands within the land band. No slot stays empty while an
	// eligible card remains anywhere.
	for _, name := range p.rankedSpells(sel.spells) {
		if 1+sel.count()+mb.count() >= deckSize {
			break
		}
		sel.add(name, p.candidates[name].category)
	}
	if 1+sel.count()+mb.count() < deckSize && mb.count() < opts.MaxLands {
		goal := deckSize - 1 - sel.count()
		if goal > opts.MaxLands {
			goal = opts.MaxLands
		}
		if goal > mb.count() {
			mb = selectLands(p, sel, identity, goal)
		}
	}

	enforceSingleton(p, sel, mb)

	deck := assembleDeck(in.Commander, p, sel, mb, identity)

	if err := verifyColorIdentity(p, deck, identity); err != nil {
		return nil, err
	}

	if deck.TotalCards() < deckSize {
		deck.Partial = true
		deck.Shortfall = shortfallReport(p, sel, mb, targets, landGoal, deck.TotalCards())
	}
	return deck, nil
}

// deckSize is the total card count of a complete Commander deck.
const deckSize = 100

// assembleDeck constructs the immutable output value.
func assembleDeck(cmd Commander, p *pool, sel *selection, mb *manaBase, identity []string) *Deck {
	spells := make([]string, 0, sel.count())
	totalCMC := cmd.ManaValue
	for name := range sel.spells {
		spells = append(spells, name)
		totalCMC += p.candidates[name].cmc
	}
	sort.Strings(spells)

	lands := append([]string{}, mb.lands...)
	sort.Strings(lands)

	return &Deck{
		Commander:     cmd.Name,
		Spells:        spells,
		Lands:         lands,
		ColorIdentity: identity,
		TotalCMC:      totalCMC,
	}
}

// verifyColorIdentity is the defensive post-assembly check: every selected
// card must sit inside the commander's identity. Unreachable given the pool
// filter, but a silent legality violation would be worse than a hard
// failure.
func verifyColorIdentity(p *pool, deck *Deck, identity []string) error {
	check := func(name string) error {
		cand, ok := p.candidates[name]
		if !ok {
			return nil // basics resolved below
		}
		if !subsetOf(cand.colors, identity) {
			return &ColorIdentityViolationError{
				Card:           name,
				CardColors:     cand.colors,
				CommanderColor: identity,
			}
		}
		return nil
	}
	for _, name := range deck.Spells {
		if err := check(name); err != nil {
			return err
		}
	}
	for _, name := range deck.Lands {
		if err := check(name); err != nil {
			return err
		}
	}
	return nil
}

// shortfallReport explains an incomplete build. Requested counts are the
// post-overflow demand per category, so the unmet counts across categories
// always sum to the number of missing slots.
func shortfallReport(p *pool, sel *selection, mb *manaBase, targets map[Category]int, landGoal, total int) *ShortfallReport {
	missing := deckSize - total

	filled := make(map[Category]int, len(spellCategories)+1)
	for _, cat := range spellCategories {
		filled[cat] = sel.filled[cat]
	}
	filled[CategoryLand] = mb.count()

	unmet := make(map[Category]int, len(targets)+1)
	budgeted := 0
	for _, cat := range spellCategories {
		if d := targets[cat] - filled[cat]; d > 0 {
			unmet[cat] = d
			budgeted += d
		}
	}
	if d := landGoal - filled[CategoryLand]; d > 0 {
		unmet[CategoryLand] = d
		budgeted += d
	}

	// Overflow may have shifted demand between categories; reconcile so
	// the unmet counts account for exactly the missing slots.
	switch {
	case budgeted < missing:
		unmet[CategoryUnclassified] += missing - budgeted
	case budgeted > missing:
		excess := budgeted - missing
		cats := append(append([]Category{}, spellCategories...), CategoryLand)
		for _, cat := range cats {
			if excess == 0 {
				break
			}
			take := unmet[cat]
			if take > excess {
				take = excess
			}
			unmet[cat] -= take
			excess -= take
		}
	}

	requested := make(map[Category]int, len(filled))
	for cat, n := range filled {
		requested[cat] = n + unmet[cat]
	}
	if n := unmet[CategoryUnclassified]; n > 0 {
		requested[CategoryUnclassified] = filled[CategoryUnclassified] + n
	}

	return &ShortfallReport{
		Requested:       requested,
		Filled:          filled,
		MissingTotal:    missing,
		ExcludedByColor: p.excluded,
	}
}
