package deckbuilder

import "sort"

// manaBase is the land portion of a deck: unique non-basic lands plus basic
// land copies, each copy occupying one slot.
type manaBase struct {
	lands []string
}

func (m *manaBase) count() int { return len(m.lands) }

// selectLands chooses lands for up to goal slots in three tiers:
// recommended utility lands by synergy rank, then owned fixing lands by how
// many commander colors they cover, then basics distributed proportionally
// to the colored pip counts of the selected spells.
func selectLands(p *pool, sel *selection, identity []string, goal int) *manaBase {
	mb := &manaBase{}
	if goal <= 0 {
		return mb
	}

	used := make(map[string]bool)

	// Tier (a): recommended lands, already rank-sorted within the category.
	for _, name := range p.byCategory[CategoryLand] {
		if mb.count() >= goal {
			return mb
		}
		if IsBasicLand(name) || !p.candidates[name].recommended {
			continue
		}
		mb.lands = append(mb.lands, name)
		used[name] = true
	}

	// Tier (b): unrecommended non-basics by commander-color coverage.
	var fixing []string
	for _, name := range p.byCategory[CategoryLand] {
		if used[name] || IsBasicLand(name) || p.candidates[name].recommended {
			continue
		}
		fixing = append(fixing, name)
	}
	sort.SliceStable(fixing, func(i, j int) bool {
		ci := colorCoverage(p.candidates[fixing[i]].colors, identity)
		cj := colorCoverage(p.candidates[fixing[j]].colors, identity)
		if ci != cj {
			return ci > cj
		}
		return fixing[i] < fixing[j]
	})
	for _, name := range fixing {
		if mb.count() >= goal {
			return mb
		}
		mb.lands = append(mb.lands, name)
		used[name] = true
	}

	// Tier (c): basics split by the pip shares of the selected spells.
	remaining := goal - mb.count()
	if remaining > 0 {
		mb.lands = append(mb.lands, selectBasics(p, sel, identity, remaining)...)
	}
	return mb
}

// colorCoverage counts how many of the commander's colors a land can
// contribute to.
func colorCoverage(colors, identity []string) int {
	n := 0
	for _, c := range colors {
		for _, ic := range identity {
			if c == ic {
				n++
				break
			}
		}
	}
	return n
}

// selectBasics distributes slots across the owned basic lands proportionally
// to the colored pip counts of the selected spells. The rounding remainder
// goes to the color with the most pips. Copies are capped at the owned
// quantity; slots a capped color cannot absorb roll over to the next color.
func selectBasics(p *pool, sel *selection, identity []string, slots int) []string {
	pips := make(map[string]int, len(identity))
	for name := range sel.spells {
		countPips(p.candidates[name].manaCost, pips)
	}

	// Owned basic copies available per color, keyed by the basic name so
	// snow-covered variants stay distinct entries in the pool.
	type basicStock struct {
		name     string
		color    string
		quantity int
	}
	var stock []basicStock
	for _, name := range p.byCategory[CategoryLand] {
		if !IsBasicLand(name) {
			continue
		}
		stock = append(stock, basicStock{
			name:     name,
			color:    basicColor(name),
			quantity: p.candidates[name].owned.Quantity,
		})
	}
	if len(stock) == 0 {
		return nil
	}

	// Colors ordered by pip count descending, WUBRG order breaking ties;
	// colorless stock (Wastes) is a final fallback.
	colors := append([]string{}, identity...)
	sort.SliceStable(colors, func(i, j int) bool {
		if pips[colors[i]] != pips[colors[j]] {
			return pips[colors[i]] > pips[colors[j]]
		}
		return colorIndex(colors[i]) < colorIndex(colors[j])
	})

	totalPips := 0
	for _, c := range colors {
		totalPips += pips[c]
	}

	quota := make(map[string]int, len(colors))
	assigned := 0
	for _, c := range colors {
		var share int
		if totalPips > 0 {
			share = slots * pips[c] / totalPips
		} else if len(colors) > 0 {
			share = slots / len(colors)
		}
		quota[c] = share
		assigned += share
	}
	if len(colors) > 0 {
		quota[colors[0]] += slots - assigned // remainder to the heaviest color
	}

	var out []string
	take := func(color string, want int) int {
		taken := 0
		for i := range stock {
			if stock[i].color != color {
				continue
			}
			for stock[i].quantity > 0 && taken < want {
				out = append(out, stock[i].name)
				stock[i].quantity--
				taken++
			}
		}
		return taken
	}

	// Every slot not satisfied by its color's quota is a leftover. For a
	// colorless identity there are no quotas at all and every slot falls
	// through to the Wastes fallback.
	leftover := slots
	for _, c := range colors {
		leftover -= take(c, quota[c])
	}
	// Roll capped-out slots over to colors that still have stock.
	for _, c := range colors {
		if leftover <= 0 {
			break
		}
		leftover -= take(c, leftover)
	}
	if leftover > 0 {
		take("", leftover) // Wastes for colorless identities or spillover
	}
	return out
}

func colorIndex(c string) int {
	for i, v := range colorOrder {
		if v == c {
			return i
		}
	}
	return len(colorOrder)
}
