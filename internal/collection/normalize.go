package collection

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	bracketedRe     = regexp.MustCompile(`\s*\[[^\]]*\]\s*`)
	versionSuffixRe = regexp.MustCompile(`(?i)\s*v\d+\s*$`)
	collectorRe     = regexp.MustCompile(`\s*#\d+.*$`)
	dashRe          = regexp.MustCompile(`[–—−]`)
)

// specialReplacer folds the typographic characters that show up in tracker
// exports into their plain ASCII spellings.
var specialReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
	"Æ", "Ae", "æ", "ae",
	"ö", "o", "Ö", "O",
	"ä", "a", "Ä", "A",
	"ü", "u", "Ü", "U",
	"™", "", "®", "",
)

// Normalize converts a raw card name into the canonical lowercase form used
// for collection keys and lookups. Alternate-printing suffixes and collector
// numbers are stripped, double-faced names keep only the front face, and
// typographic characters fold to ASCII.
func Normalize(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}

	n = whitespaceRe.ReplaceAllString(n, " ")
	n = specialReplacer.Replace(n)
	n = dashRe.ReplaceAllString(n, "-")

	n = parentheticalRe.ReplaceAllString(n, " ")
	n = bracketedRe.ReplaceAllString(n, " ")
	n = versionSuffixRe.ReplaceAllString(n, "")
	n = collectorRe.ReplaceAllString(n, "")

	// Double-faced and transform cards index by the front face.
	if idx := strings.Index(n, "//"); idx >= 0 {
		n = n[:idx]
	}

	n = whitespaceRe.ReplaceAllString(n, " ")
	return strings.ToLower(strings.TrimSpace(n))
}
