package output

import (
	"time"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// deckDocument is the JSON export shape. Lands are grouped with counts so
// consumers never see repeated basic land entries.
type deckDocument struct {
	Commander     string              `json:"commander"`
	ColorIdentity []string            `json:"color_identity"`
	Spells        []string            `json:"spells"`
	Lands         []landDocument      `json:"lands"`
	TotalCards    int                 `json:"total_cards"`
	Partial       bool                `json:"partial"`
	Shortfall     *shortfallDocument  `json:"shortfall,omitempty"`
	Statistics    *statisticsDocument `json:"statistics,omitempty"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

type landDocument struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type shortfallDocument struct {
	Requested       map[deckbuilder.Category]int `json:"requested"`
	Filled          map[deckbuilder.Category]int `json:"filled"`
	MissingTotal    int                          `json:"missing_total"`
	ExcludedByColor []exclusionDocument          `json:"excluded_by_color,omitempty"`
}

type exclusionDocument struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type statisticsDocument struct {
	CategoryCounts map[deckbuilder.Category]int `json:"category_counts"`
	ManaCurve      map[int]int                  `json:"mana_curve"`
	ColorCounts    map[string]int               `json:"color_counts"`
	AverageCMC     float64                      `json:"average_cmc"`
	AverageSynergy float64                      `json:"average_synergy"`
	TotalCards     int                          `json:"total_cards"`
}

func newDeckDocument(deck *deckbuilder.Deck, stats *deckbuilder.DeckStatistics) deckDocument {
	doc := deckDocument{
		Commander:     deck.Commander,
		ColorIdentity: deck.ColorIdentity,
		Spells:        deck.Spells,
		TotalCards:    deck.TotalCards(),
		Partial:       deck.Partial,
		GeneratedAt:   time.Now().UTC(),
	}

	for _, land := range groupLands(deck.Lands) {
		doc.Lands = append(doc.Lands, landDocument{Name: land.name, Quantity: land.count})
	}

	if deck.Shortfall != nil {
		sd := &shortfallDocument{
			Requested:    deck.Shortfall.Requested,
			Filled:       deck.Shortfall.Filled,
			MissingTotal: deck.Shortfall.MissingTotal,
		}
		for _, ex := range deck.Shortfall.ExcludedByColor {
			sd.ExcludedByColor = append(sd.ExcludedByColor, exclusionDocument{Name: ex.Name, Reason: ex.Reason})
		}
		doc.Shortfall = sd
	}

	if stats != nil {
		doc.Statistics = &statisticsDocument{
			CategoryCounts: stats.CategoryCounts,
			ManaCurve:      stats.ManaCurve,
			ColorCounts:    stats.ColorCounts,
			AverageCMC:     stats.AverageCMC,
			AverageSynergy: stats.AverageSynergy,
			TotalCards:     stats.TotalCards,
		}
	}

	return doc
}
