package scryfall

import (
	"fmt"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// Card represents a Magic card from Scryfall, trimmed to the fields deck
// building consumes.
type Card struct {
	ID            string   `json:"id"`
	OracleID      string   `json:"oracle_id"`
	Name          string   `json:"name"`
	Layout        string   `json:"layout"`
	ManaCost      string   `json:"mana_cost,omitempty"`
	CMC           float64  `json:"cmc"`
	TypeLine      string   `json:"type_line"`
	OracleText    string   `json:"oracle_text,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	ColorIdentity []string `json:"color_identity"`
	Keywords      []string `json:"keywords,omitempty"`

	SetCode         string `json:"set"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`

	Legalities Legalities `json:"legalities"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string `json:"name"`
	ManaCost   string `json:"mana_cost,omitempty"`
	TypeLine   string `json:"type_line"`
	OracleText string `json:"oracle_text,omitempty"`
}

// Legalities carries format legality strings; values are "legal",
// "not_legal", "restricted" or "banned".
type Legalities struct {
	Commander string `json:"commander"`
	Legacy    string `json:"legacy"`
	Vintage   string `json:"vintage"`
	Duel      string `json:"duel"`
}

// frontFace returns the face whose cost and type line represent the card
// when it sits in a deck slot. Multi-faced layouts report empty top-level
// mana costs, so the first face fills the gaps.
func (c *Card) frontFace() (manaCost, typeLine, oracleText string) {
	manaCost, typeLine, oracleText = c.ManaCost, c.TypeLine, c.OracleText
	if len(c.CardFaces) > 0 {
		face := c.CardFaces[0]
		if manaCost == "" {
			manaCost = face.ManaCost
		}
		if typeLine == "" {
			typeLine = face.TypeLine
		}
		if oracleText == "" {
			oracleText = face.OracleText
		}
	}
	return manaCost, typeLine, oracleText
}

// Fact converts the card into the engine's fact shape. The name is left to
// the caller, which keys facts by the collection's display names.
func (c *Card) Fact() deckbuilder.CardFact {
	manaCost, typeLine, oracleText := c.frontFace()
	return deckbuilder.CardFact{
		Name:          c.Name,
		TypeLine:      typeLine,
		ManaCost:      manaCost,
		CMC:           c.CMC,
		ColorIdentity: c.ColorIdentity,
		OracleText:    oracleText,
		Banned:        c.Legalities.Commander == "banned" || c.Legalities.Commander == "not_legal",
	}
}

// Commander converts the card into the engine's commander shape.
func (c *Card) Commander() deckbuilder.Commander {
	return deckbuilder.Commander{
		Name:          c.Name,
		ColorIdentity: c.ColorIdentity,
		ManaValue:     c.CMC,
	}
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 from the API.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}
