package deckbuilder

import "strings"

// enforceSingleton is the final legality pass over the assembled deck: any
// canonical name appearing more than once (basics excepted) keeps only its
// highest-ranked instance and the freed slots are backfilled from the
// next-best unselected candidates of the same category. The pass is
// idempotent: duplicates cannot survive it, so a second run is a no-op.
func enforceSingleton(p *pool, sel *selection, mb *manaBase) {
	seen := make(map[string]bool, sel.count()+mb.count())
	for name := range sel.spells {
		seen[strings.ToLower(name)] = true
	}

	// Spells are a set by construction; duplicates can only appear when a
	// name also landed in the mana base, or as repeated non-basic lands.
	kept := mb.lands[:0]
	freedLands := 0
	for _, name := range mb.lands {
		if IsBasicLand(name) {
			kept = append(kept, name)
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			freedLands++
			continue
		}
		seen[key] = true
		kept = append(kept, name)
	}
	mb.lands = kept

	// Backfill freed land slots from unselected lands of the same category.
	for _, name := range p.byCategory[CategoryLand] {
		if freedLands == 0 {
			break
		}
		if IsBasicLand(name) || seen[strings.ToLower(name)] {
			continue
		}
		mb.lands = append(mb.lands, name)
		seen[strings.ToLower(name)] = true
		freedLands--
	}

	// Remaining slots fall back to owned basic copies not already in the
	// deck, so a freed slot never stays empty while stock remains.
	if freedLands > 0 {
		inDeck := make(map[string]int)
		for _, name := range mb.lands {
			inDeck[name]++
		}
		for _, name := range p.byCategory[CategoryLand] {
			if freedLands == 0 {
				break
			}
			if !IsBasicLand(name) {
				continue
			}
			for inDeck[name] < p.candidates[name].owned.Quantity && freedLands > 0 {
				mb.lands = append(mb.lands, name)
				inDeck[name]++
				freedLands--
			}
		}
	}
}
