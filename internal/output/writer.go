// Package output renders built decks to text and JSON deck files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// Format represents the deck file format.
type Format string

const (
	// FormatText represents the readable text deck list.
	FormatText Format = "text"
	// FormatJSON represents JSON export format.
	FormatJSON Format = "json"
)

// typeOrder fixes the section order for the card type breakdown.
var typeOrder = []deckbuilder.Category{
	deckbuilder.CategoryCreature,
	deckbuilder.CategoryEnchantment,
	deckbuilder.CategoryArtifact,
	deckbuilder.CategoryInstant,
	deckbuilder.CategorySorcery,
	deckbuilder.CategoryPlaneswalker,
	deckbuilder.CategoryUnclassified,
	deckbuilder.CategoryLand,
}

// Writer writes deck files into a target directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir. The directory is created on the
// first write, not here, so a Writer can be constructed unconditionally.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// WriteDeck writes the formatted deck list to a text file and returns the
// path written.
func (w *Writer) WriteDeck(deck *deckbuilder.Deck, stats *deckbuilder.DeckStatistics) (string, error) {
	if deck == nil || deck.Commander == "" {
		return "", fmt.Errorf("cannot write deck file: no commander")
	}
	return w.write(w.Filename(deck.Commander, "txt"), []byte(FormatDeckList(deck, stats)))
}

// WriteJSON writes the deck as a JSON document and returns the path written.
func (w *Writer) WriteJSON(deck *deckbuilder.Deck, stats *deckbuilder.DeckStatistics) (string, error) {
	if deck == nil || deck.Commander == "" {
		return "", fmt.Errorf("cannot write deck file: no commander")
	}

	doc := newDeckDocument(deck, stats)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal deck: %w", err)
	}

	return w.write(w.Filename(deck.Commander, "json"), data)
}

// Filename returns the output filename for a commander. When the base name
// already exists in the output directory a timestamp suffix keeps earlier
// builds from being overwritten.
func (w *Writer) Filename(commander, ext string) string {
	safe := SanitizeFilename(commander)
	base := fmt.Sprintf("%s_deck.%s", safe, ext)
	if _, err := os.Stat(filepath.Join(w.dir, base)); os.IsNotExist(err) {
		return base
	}
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_deck_%s.%s", safe, timestamp, ext)
}

func (w *Writer) write(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write deck file: %w", err)
	}

	return path, nil
}

// FormatDeckList renders a deck as a readable text deck list with summary,
// statistics and shortfall sections. Output is deterministic for a given
// deck and statistics.
func FormatDeckList(deck *deckbuilder.Deck, stats *deckbuilder.DeckStatistics) string {
	var sb strings.Builder

	rule := strings.Repeat("=", 60)
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Commander Deck: %s\n", deck.Commander))
	sb.WriteString(rule + "\n\n")

	sb.WriteString("COMMANDER:\n")
	sb.WriteString(fmt.Sprintf("1 %s\n\n", deck.Commander))

	mainCount := len(deck.Spells) + len(deck.Lands)
	sb.WriteString(fmt.Sprintf("MAIN DECK (%d cards):\n", mainCount))

	spells := append([]string(nil), deck.Spells...)
	sort.Strings(spells)
	for _, name := range spells {
		sb.WriteString(fmt.Sprintf("1 %s\n", name))
	}
	for _, land := range groupLands(deck.Lands) {
		sb.WriteString(fmt.Sprintf("%d %s\n", land.count, land.name))
	}
	sb.WriteString("\n")

	sb.WriteString("DECK SUMMARY:\n")
	sb.WriteString(fmt.Sprintf("Total Cards: %d\n", deck.TotalCards()))
	if len(deck.ColorIdentity) > 0 {
		sb.WriteString(fmt.Sprintf("Color Identity: %s\n", strings.Join(deck.ColorIdentity, ", ")))
	} else {
		sb.WriteString("Color Identity: Colorless\n")
	}

	if stats != nil {
		writeStatistics(&sb, stats)
	}

	if deck.Partial && deck.Shortfall != nil {
		writeShortfall(&sb, deck.Shortfall)
	}

	return sb.String()
}

func writeStatistics(sb *strings.Builder, stats *deckbuilder.DeckStatistics) {
	sb.WriteString("\nDECK STATISTICS:\n")
	sb.WriteString(fmt.Sprintf("Average CMC: %.2f\n", stats.AverageCMC))
	if stats.AverageSynergy > 0 {
		sb.WriteString(fmt.Sprintf("Average Synergy: %.2f\n", stats.AverageSynergy))
	}

	sb.WriteString("\nCARD TYPE BREAKDOWN:\n")
	for _, cat := range typeOrder {
		count := stats.CategoryCounts[cat]
		if count == 0 {
			continue
		}
		pct := float64(count) / float64(stats.TotalCards) * 100
		sb.WriteString(fmt.Sprintf("  %s: %d (%.1f%%)\n", titleCategory(cat), count, pct))
	}

	sb.WriteString("\nMANA CURVE:\n")
	for cmc := 0; cmc <= 7; cmc++ {
		count := stats.ManaCurve[cmc]
		if count == 0 {
			continue
		}
		label := fmt.Sprintf("CMC %d", cmc)
		if cmc == 7 {
			label = "CMC 7+"
		}
		sb.WriteString(fmt.Sprintf("  %s: %2d %s\n", label, count, bar(count)))
	}
}

func writeShortfall(sb *strings.Builder, report *deckbuilder.ShortfallReport) {
	sb.WriteString("\nSHORTFALL:\n")
	sb.WriteString(fmt.Sprintf("Deck is incomplete: %d cards missing.\n", report.MissingTotal))

	cats := make([]string, 0, len(report.Requested))
	for cat := range report.Requested {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)
	for _, cat := range cats {
		requested := report.Requested[deckbuilder.Category(cat)]
		filled := report.Filled[deckbuilder.Category(cat)]
		if filled >= requested {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s: filled %d of %d\n", cat, filled, requested))
	}

	if len(report.ExcludedByColor) > 0 {
		sb.WriteString("Excluded by color identity:\n")
		for _, ex := range report.ExcludedByColor {
			sb.WriteString(fmt.Sprintf("  - %s (%s)\n", ex.Name, ex.Reason))
		}
	}
}

// bar renders a capped histogram bar for the mana curve display.
func bar(count int) string {
	if count > 15 {
		count = 15
	}
	return strings.Repeat("█", count)
}

func titleCategory(cat deckbuilder.Category) string {
	s := string(cat)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type landGroup struct {
	name  string
	count int
}

// groupLands collapses repeated basics into "N Name" lines, sorted by name.
func groupLands(lands []string) []landGroup {
	counts := make(map[string]int, len(lands))
	for _, name := range lands {
		counts[name]++
	}

	groups := make([]landGroup, 0, len(counts))
	for name, count := range counts {
		groups = append(groups, landGroup{name: name, count: count})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

// SanitizeFilename converts a commander name to a filesystem-safe slug.
func SanitizeFilename(name string) string {
	lowered := strings.ToLower(strings.ReplaceAll(name, " ", "_"))

	var sb strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		}
	}

	result := sb.String()
	if result == "" {
		result = "unknown_commander"
	}
	if len(result) > 50 {
		result = result[:50]
	}
	return result
}
