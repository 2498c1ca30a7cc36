package deckbuilder

// selection tracks the chosen non-land spells and per-category accounting
// while the pipeline runs.
type selection struct {
	spells map[string]bool
	filled map[Category]int
}

func newSelection() *selection {
	return &selection{
		spells: make(map[string]bool),
		filled: make(map[Category]int),
	}
}

func (s *selection) add(name string, cat Category) {
	s.spells[name] = true
	s.filled[cat]++
}

func (s *selection) remove(name string, cat Category) {
	delete(s.spells, name)
	s.filled[cat]--
}

func (s *selection) count() int {
	return len(s.spells)
}

// selectSpells fills the non-land slots: each category takes its target from
// its own ranked list, then the remaining budget is filled from a generic
// overflow pool drawn from every category with the same ranking, so no slot
// stays empty while any eligible spell remains.
func selectSpells(p *pool, budget int, targets map[Category]int) *selection {
	sel := newSelection()

	for _, cat := range spellCategories {
		target := targets[cat]
		if target <= 0 {
			continue
		}
		for _, name := range p.byCategory[cat] {
			if sel.count() >= budget || sel.filled[cat] >= target {
				break
			}
			sel.add(name, cat)
		}
	}

	// Overflow: unmet targets carry into a generic pool over all categories.
	if sel.count() < budget {
		for _, name := range p.rankedSpells(sel.spells) {
			if sel.count() >= budget {
				break
			}
			sel.add(name, p.candidates[name].category)
		}
	}
	return sel
}

// rankedSpells returns every non-land candidate not in exclude, ordered by
// the selection ranking.
func (p *pool) rankedSpells(exclude map[string]bool) []string {
	var names []string
	for _, cat := range spellCategories {
		for _, name := range p.byCategory[cat] {
			if !exclude[name] {
				names = append(names, name)
			}
		}
	}
	p.sortByRank(names)
	return names
}

// trimSpells removes the lowest-ranked spells until the selection fits the
// budget, returning them to the overflow remainder.
func trimSpells(p *pool, sel *selection, budget int) {
	if sel.count() <= budget {
		return
	}
	names := make([]string, 0, sel.count())
	for name := range sel.spells {
		names = append(names, name)
	}
	p.sortByRank(names)
	for i := len(names) - 1; i >= 0 && sel.count() > budget; i-- {
		sel.remove(names[i], p.candidates[names[i]].category)
	}
}

// averageCMC computes the mean converted mana cost of the selected spells.
func averageCMC(p *pool, sel *selection) float64 {
	if sel.count() == 0 {
		return 0
	}
	var total float64
	for name := range sel.spells {
		total += p.candidates[name].cmc
	}
	return total / float64(sel.count())
}
