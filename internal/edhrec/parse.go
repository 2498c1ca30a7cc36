package edhrec

import (
	"strings"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// page mirrors the slice of EDHREC's JSON page layout the parser reads.
type page struct {
	Container struct {
		JSONDict struct {
			Cardlists []cardlist `json:"cardlists"`
		} `json:"json_dict"`
	} `json:"container"`
}

type cardlist struct {
	Header    string     `json:"header"`
	Tag       string     `json:"tag"`
	Cardviews []cardview `json:"cardviews"`
}

type cardview struct {
	Name      string  `json:"name"`
	Inclusion float64 `json:"inclusion_percentage"`
}

// sectionScores maps an EDHREC section role to its base synergy score. The
// inclusion bonus on top of the base is capped at 0.2 so no section can
// outrank a stronger one on popularity alone.
var sectionScores = map[deckbuilder.Role]float64{
	deckbuilder.RoleStaple:       0.90,
	deckbuilder.RoleSynergy:      0.85,
	deckbuilder.RoleRemoval:      0.70,
	deckbuilder.RoleRamp:         0.75,
	deckbuilder.RoleDraw:         0.80,
	deckbuilder.RoleProtection:   0.70,
	deckbuilder.RoleBudget:       0.60,
	deckbuilder.RoleUnclassified: 0.50,
}

const inclusionBonusCap = 0.2

// parsePage flattens a commander page into scored recommendations, keeping
// section order. A card appearing in several sections keeps its first
// (highest-placed) entry.
func parsePage(p *page) []deckbuilder.Recommendation {
	var recs []deckbuilder.Recommendation
	seen := make(map[string]bool)
	scale := inclusionScale(p)

	for _, list := range p.Container.JSONDict.Cardlists {
		role := sectionRole(list.Header, list.Tag)
		for _, cv := range list.Cardviews {
			if cv.Name == "" || seen[strings.ToLower(cv.Name)] {
				continue
			}
			seen[strings.ToLower(cv.Name)] = true

			inclusion := cv.Inclusion * scale
			if inclusion > 100 {
				inclusion = 100
			}

			recs = append(recs, deckbuilder.Recommendation{
				Name:                cv.Name,
				SynergyScore:        synergyScore(role, inclusion),
				Role:                role,
				InclusionPercentage: inclusion,
			})
		}
	}
	return recs
}

// inclusionScale decides whether a page reports inclusion as a fraction or
// a percentage. Only when every nonzero value on the page fits in (0, 1]
// is the page treated as fractional; a lone small value on an otherwise
// percentage-form page is a genuinely low inclusion, not a fraction.
func inclusionScale(p *page) float64 {
	sawNonzero := false
	for _, list := range p.Container.JSONDict.Cardlists {
		for _, cv := range list.Cardviews {
			if cv.Inclusion > 1.0 {
				return 1
			}
			if cv.Inclusion > 0 {
				sawNonzero = true
			}
		}
	}
	if sawNonzero {
		return 100
	}
	return 1
}

// sectionRole maps an EDHREC section header and tag onto the closed role
// set, preferring the tag when both carry signal.
func sectionRole(header, tag string) deckbuilder.Role {
	if role := deckbuilder.ParseRole(tag); role != deckbuilder.RoleUnclassified {
		return role
	}
	header = strings.ToLower(header)
	switch {
	case strings.Contains(header, "high synergy"):
		return deckbuilder.RoleSynergy
	case strings.Contains(header, "top cards"), strings.Contains(header, "staple"):
		return deckbuilder.RoleStaple
	case strings.Contains(header, "removal"), strings.Contains(header, "board wipe"):
		return deckbuilder.RoleRemoval
	case strings.Contains(header, "ramp"), strings.Contains(header, "mana"):
		return deckbuilder.RoleRamp
	case strings.Contains(header, "draw"), strings.Contains(header, "advantage"):
		return deckbuilder.RoleDraw
	case strings.Contains(header, "protection"):
		return deckbuilder.RoleProtection
	case strings.Contains(header, "budget"):
		return deckbuilder.RoleBudget
	default:
		return deckbuilder.RoleUnclassified
	}
}

// synergyScore blends the section base score with an inclusion bonus and
// clamps to [0, 1].
func synergyScore(role deckbuilder.Role, inclusionPct float64) float64 {
	score := sectionScores[role] + (inclusionPct/100)*inclusionBonusCap
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}
