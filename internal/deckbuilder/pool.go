package deckbuilder

import (
	"fmt"
	"sort"
	"strings"
)

// candidate is one entry of the working pool: an owned card joined with its
// recommendation (if any) and the facts needed for filtering and ranking.
type candidate struct {
	owned       OwnedCard
	rec         *Recommendation
	category    Category
	cmc         float64
	colors      []string
	manaCost    string
	score       float64
	recommended bool
}

// pool is the per-invocation working set. It is built once, mutated only by
// marking entries selected, and never shared across invocations.
type pool struct {
	candidates map[string]*candidate
	byCategory map[Category][]string // names sorted by rank within category
	excluded   []Exclusion
}

// buildPool validates the input and constructs the candidate pool:
// color-identity filtering, categorization and score computation happen
// here in a single pass over the collection.
func buildPool(in Input, opts Options) (*pool, error) {
	if strings.TrimSpace(in.Commander.Name) == "" {
		return nil, &InputError{Field: "commander", Reason: "name is empty"}
	}
	for _, c := range in.Commander.ColorIdentity {
		if !validColor(c) {
			return nil, &InputError{Field: "commander", Reason: fmt.Sprintf("unknown color symbol %q", c)}
		}
	}

	identity := sortColors(in.Commander.ColorIdentity)

	recByName := make(map[string]*Recommendation, len(in.Recommendations))
	for i := range in.Recommendations {
		rec := in.Recommendations[i]
		rec.SynergyScore = clamp(rec.SynergyScore, 0, 1)
		rec.InclusionPercentage = clamp(rec.InclusionPercentage, 0, 100)
		key := strings.ToLower(rec.Name)
		// First occurrence wins so provider ordering stays authoritative.
		if _, ok := recByName[key]; !ok {
			recByName[key] = &rec
		}
	}

	p := &pool{
		candidates: make(map[string]*candidate, len(in.Collection)),
		byCategory: make(map[Category][]string),
	}

	// Sorted iteration keeps exclusion reporting deterministic.
	names := make([]string, 0, len(in.Collection))
	for name := range in.Collection {
		names = append(names, name)
	}
	sort.Strings(names)

	commanderKey := strings.ToLower(in.Commander.Name)

	for _, name := range names {
		owned := in.Collection[name]
		if owned.Quantity < 0 {
			return nil, &InputError{
				Field:  "collection",
				Reason: fmt.Sprintf("card %q has negative quantity %d", name, owned.Quantity),
			}
		}
		if owned.Quantity == 0 {
			continue
		}
		if strings.ToLower(name) == commanderKey {
			continue // the commander occupies its own slot
		}

		fact, hasFact := in.Facts[name]
		if hasFact && fact.Banned {
			p.excluded = append(p.excluded, Exclusion{Name: name, Reason: "not legal in Commander"})
			continue
		}

		// Missing color data means colorless: the card always passes.
		var colors []string
		if hasFact {
			colors = sortColors(fact.ColorIdentity)
		}
		if !subsetOf(colors, identity) {
			p.excluded = append(p.excluded, Exclusion{
				Name:   name,
				Reason: fmt.Sprintf("colors %v outside commander identity %v", colors, identity),
			})
			continue
		}

		cand := &candidate{
			owned:  owned,
			colors: colors,
		}
		if hasFact {
			cand.cmc = fact.CMC
			cand.manaCost = fact.ManaCost
			cand.category = categorize(fact.TypeLine)
		} else if IsBasicLand(name) {
			cand.category = CategoryLand
		} else {
			cand.category = CategoryUnclassified
		}

		if rec, ok := recByName[strings.ToLower(name)]; ok {
			cand.rec = rec
			cand.recommended = true
		}
		cand.score = combinedScore(cand, opts)

		p.candidates[name] = cand
		p.byCategory[cand.category] = append(p.byCategory[cand.category], name)
	}

	for cat := range p.byCategory {
		p.sortByRank(p.byCategory[cat])
	}
	return p, nil
}

// combinedScore blends synergy and availability with the configured weights.
// Ownership is a binary gate: every pooled card is owned, so the term is
// always 1.0 and extra copies never raise the rank. A card absent from the
// recommendation list scores synergy 0 but stays eligible.
func combinedScore(c *candidate, opts Options) float64 {
	synergy := 0.0
	if c.rec != nil {
		synergy = c.rec.SynergyScore
	}
	return opts.SynergyWeight*synergy + opts.AvailabilityWeight*1.0
}

// sortByRank orders names by the selection ranking: combined score
// descending, recommended before unrecommended, then lower CMC, then
// alphabetical canonical name. The ordering is total, so results never
// depend on input list order.
func (p *pool) sortByRank(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return p.rankLess(names[i], names[j])
	})
}

// rankLess reports whether card a ranks strictly ahead of card b.
func (p *pool) rankLess(a, b string) bool {
	ca, cb := p.candidates[a], p.candidates[b]
	if ca.score != cb.score {
		return ca.score > cb.score
	}
	if ca.recommended != cb.recommended {
		return ca.recommended
	}
	if ca.cmc != cb.cmc {
		return ca.cmc < cb.cmc
	}
	return a < b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
