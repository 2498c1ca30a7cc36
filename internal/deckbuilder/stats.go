package deckbuilder

import "strings"

// DeckStatistics is derived data for the output and charting collaborators.
// It carries no behavior and is computed once from a finished deck.
type DeckStatistics struct {
	CategoryCounts map[Category]int
	ManaCurve      map[int]int // CMC bucket -> card count, spells only
	ColorCounts    map[string]int
	AverageCMC     float64
	AverageSynergy float64
	TotalCards     int
}

// Statistics computes summary statistics for a deck built from the given
// input. The same input and deck always produce the same statistics.
func Statistics(deck *Deck, in Input) *DeckStatistics {
	stats := &DeckStatistics{
		CategoryCounts: make(map[Category]int),
		ManaCurve:      make(map[int]int),
		ColorCounts:    make(map[string]int),
		TotalCards:     deck.TotalCards(),
	}

	// Keyed case-insensitively, matching how recommendations are joined to
	// owned cards during selection.
	recByName := make(map[string]float64, len(in.Recommendations))
	for _, rec := range in.Recommendations {
		recByName[strings.ToLower(rec.Name)] = rec.SynergyScore
	}

	var cmcTotal, synergyTotal float64
	spellCount := 0
	for _, name := range deck.Spells {
		fact, ok := in.Facts[name]
		if ok {
			stats.CategoryCounts[categorize(fact.TypeLine)]++
			stats.ManaCurve[curveBucket(fact.CMC)]++
			cmcTotal += fact.CMC
			for _, c := range sortColors(fact.ColorIdentity) {
				stats.ColorCounts[c]++
			}
		} else {
			stats.CategoryCounts[CategoryUnclassified]++
			stats.ManaCurve[0]++
		}
		synergyTotal += recByName[strings.ToLower(name)]
		spellCount++
	}
	stats.CategoryCounts[CategoryLand] = len(deck.Lands)

	if spellCount > 0 {
		stats.AverageCMC = cmcTotal / float64(spellCount)
		stats.AverageSynergy = synergyTotal / float64(spellCount)
	}
	return stats
}
