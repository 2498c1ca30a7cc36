package collection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// CommanderNotFoundError reports a commander the collection does not hold,
// with the closest-named candidates from the collection when any exist.
type CommanderNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *CommanderNotFoundError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("commander %q not found in collection; did you mean one of: %s?",
			e.Name, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("commander %q not found in collection", e.Name)
}

// NotACommanderError reports a card that exists but cannot lead a deck.
type NotACommanderError struct {
	Name     string
	TypeLine string
}

func (e *NotACommanderError) Error() string {
	return fmt.Sprintf("%q is not a legal commander (type line %q)", e.Name, e.TypeLine)
}

// FindCommander resolves a user-supplied commander name against the
// collection and returns its display name. Missing names come back as a
// CommanderNotFoundError carrying up to three suggestions.
func (c *Collection) FindCommander(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &CommanderNotFoundError{Name: name}
	}
	if display, ok := c.Resolve(name); ok {
		return display, nil
	}
	return "", &CommanderNotFoundError{Name: name, Suggestions: c.suggest(name, 3)}
}

// CanCommand reports whether a card's type line and oracle text allow it to
// lead a Commander deck: legendary creatures, plus cards whose rules text
// grants it explicitly.
func CanCommand(fact deckbuilder.CardFact) bool {
	line := strings.ToLower(fact.TypeLine)
	if strings.Contains(line, "legendary") && strings.Contains(line, "creature") {
		return true
	}
	return strings.Contains(strings.ToLower(fact.OracleText), "can be your commander")
}

// ListCommanders returns the display names of every card in the collection
// whose facts mark it commander-eligible, sorted alphabetically.
func (c *Collection) ListCommanders(facts map[string]deckbuilder.CardFact) []string {
	var out []string
	for _, name := range c.Names() {
		if fact, ok := facts[name]; ok && CanCommand(fact) {
			out = append(out, name)
		}
	}
	return out
}

// suggest ranks collection names by a crude closeness measure: shared token
// count descending, then absolute length difference, then alphabetically.
func (c *Collection) suggest(name string, limit int) []string {
	wantTokens := tokenSet(name)

	type scored struct {
		name   string
		shared int
	}
	var candidates []scored
	for _, display := range c.Names() {
		shared := 0
		for tok := range tokenSet(display) {
			if wantTokens[tok] {
				shared++
			}
		}
		if shared > 0 {
			candidates = append(candidates, scored{name: display, shared: shared})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].shared != candidates[j].shared {
			return candidates[i].shared > candidates[j].shared
		}
		di := abs(len(candidates[i].name) - len(name))
		dj := abs(len(candidates[j].name) - len(name))
		if di != dj {
			return di < dj
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// tokenSet splits a name into lowercase word tokens, dropping articles that
// carry no signal.
func tokenSet(name string) map[string]bool {
	stop := map[string]bool{"the": true, "a": true, "an": true, "of": true, "and": true}
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(stripPunctuation(strings.ToLower(name))) {
		if !stop[tok] {
			tokens[tok] = true
		}
	}
	return tokens
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
