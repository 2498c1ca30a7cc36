package deckbuilder

// curveBucketMax is the top histogram bucket; every CMC at or above it
// aggregates there.
const curveBucketMax = 7

// curveBucket maps a converted mana cost onto its histogram bucket.
func curveBucket(cmc float64) int {
	b := int(cmc)
	if b < 0 {
		b = 0
	}
	if b > curveBucketMax {
		b = curveBucketMax
	}
	return b
}

// balanceCurve nudges the spell selection toward the target CMC shape by
// swapping the lowest-ranked spell in an over-represented bucket for the
// highest-ranked unselected candidate in an under-represented one. Swaps run
// greedily from the most over-represented bucket down and stop at the
// configured attempt cap, so the pass always terminates; if the cap is hit
// the deck ships with the closest distribution achieved.
func balanceCurve(p *pool, sel *selection, opts Options) {
	if sel.count() == 0 || opts.MaxSwapAttempts == 0 {
		return
	}

	targets := scaledCurveTargets(opts.CurveShape, sel.count())
	actual := make(map[int]int, curveBucketMax+1)
	for name := range sel.spells {
		actual[curveBucket(p.candidates[name].cmc)]++
	}

	tol := opts.CurveTolerance
	attempts := 0
	for attempts < opts.MaxSwapAttempts {
		over := pickBucket(actual, targets, tol, true)
		if over < 0 {
			return
		}
		under := pickBucket(actual, targets, tol, false)
		if under < 0 {
			return
		}

		out := lowestRankedInBucket(p, sel, over)
		in := highestUnselectedInBucket(p, sel, under)
		if out == "" || in == "" {
			return
		}

		// Color identity cannot regress: every pool candidate already
		// passed the identity filter.
		sel.remove(out, p.candidates[out].category)
		sel.add(in, p.candidates[in].category)
		actual[over]--
		actual[under]++
		attempts++
	}
}

// scaledCurveTargets scales the configured shape to the actual spell count.
func scaledCurveTargets(shape map[int]int, spellCount int) map[int]int {
	sum := 0
	for b := 0; b <= curveBucketMax; b++ {
		sum += shape[b]
	}
	targets := make(map[int]int, curveBucketMax+1)
	if sum == 0 {
		return targets
	}
	for b := 0; b <= curveBucketMax; b++ {
		targets[b] = (shape[b]*spellCount + sum/2) / sum
	}
	return targets
}

// pickBucket returns the bucket with the largest deviation beyond tolerance
// in the requested direction, or -1 when every bucket is within tolerance.
// Lower buckets win ties so the scan order is deterministic.
func pickBucket(actual, targets map[int]int, tol int, over bool) int {
	best, bestDev := -1, 0
	for b := 0; b <= curveBucketMax; b++ {
		dev := actual[b] - targets[b]
		if !over {
			dev = -dev
		}
		if dev > tol && dev > bestDev {
			best, bestDev = b, dev
		}
	}
	return best
}

// lowestRankedInBucket finds the weakest selected spell at the bucket.
func lowestRankedInBucket(p *pool, sel *selection, bucket int) string {
	var worst string
	for name := range sel.spells {
		if curveBucket(p.candidates[name].cmc) != bucket {
			continue
		}
		if worst == "" || p.rankLess(worst, name) {
			worst = name
		}
	}
	return worst
}

// highestUnselectedInBucket finds the best remaining candidate at the bucket.
func highestUnselectedInBucket(p *pool, sel *selection, bucket int) string {
	var best string
	for _, cat := range spellCategories {
		for _, name := range p.byCategory[cat] {
			if sel.spells[name] || curveBucket(p.candidates[name].cmc) != bucket {
				continue
			}
			if best == "" || p.rankLess(name, best) {
				best = name
			}
		}
	}
	return best
}
