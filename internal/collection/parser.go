// Package collection loads owned-card inventories from CSV exports.
//
// Collection trackers disagree on column names, delimiters and card name
// spellings, so the parser detects the layout from the header row and
// normalizes names into a canonical form used for all lookups.
package collection

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// Header aliases seen across collection tracker exports.
var (
	nameHeaders = map[string]bool{
		"name": true, "card_name": true, "cardname": true, "card name": true,
		"title": true, "card": true, "card_title": true, "cardtitle": true,
	}
	quantityHeaders = map[string]bool{
		"quantity": true, "qty": true, "count": true, "amount": true,
		"copies": true, "owned": true,
	}
	setHeaders = map[string]bool{
		"set": true, "set_code": true, "setcode": true, "set code": true,
		"expansion": true, "edition": true, "set_name": true, "setname": true,
	}
)

// ParseError reports a malformed collection file. Line is zero when the
// failure is not tied to a specific row.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Reason)
}

// Collection is a loaded inventory keyed by canonical card name, with a
// variation lookup table for resolving user-supplied names.
type Collection struct {
	cards   map[string]deckbuilder.OwnedCard // canonical name -> entry
	display map[string]string                // canonical -> first-seen display name
	lookup  map[string]string                // name variation -> canonical
}

// Load reads a CSV collection export from path. Duplicate rows for the same
// card merge their quantities; rows with an empty name column are skipped.
func Load(path string) (*Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return parse(file, path)
}

func parse(r io.Reader, path string) (*Collection, error) {
	// Sniff the delimiter from the first chunk before handing the stream
	// to encoding/csv.
	buf := make([]byte, 1024)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	sample := string(buf[:n])
	delim := detectDelimiter(sample)

	reader := csv.NewReader(io.MultiReader(strings.NewReader(sample), r))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: path, Reason: "file is empty"}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("failed to read header: %v", err)}
	}

	nameCol, qtyCol, setCol := identifyColumns(header)
	if nameCol < 0 {
		return nil, &ParseError{
			Path:   path,
			Reason: fmt.Sprintf("could not identify card name column in header %v", header),
		}
	}

	col := &Collection{
		cards:   make(map[string]deckbuilder.OwnedCard),
		display: make(map[string]string),
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Reason: err.Error()}
		}
		if nameCol >= len(row) {
			continue
		}

		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}

		qty := 1
		if qtyCol >= 0 && qtyCol < len(row) {
			if q, err := parseQuantity(row[qtyCol]); err != nil {
				return nil, &ParseError{Path: path, Line: line, Reason: err.Error()}
			} else if q >= 0 {
				qty = q
			}
		}

		setCode := ""
		if setCol >= 0 && setCol < len(row) {
			setCode = strings.TrimSpace(row[setCol])
		}

		key := Normalize(name)
		if key == "" {
			continue
		}
		if existing, ok := col.cards[key]; ok {
			existing.Quantity += qty
			col.cards[key] = existing
		} else {
			col.cards[key] = deckbuilder.OwnedCard{Name: name, Quantity: qty, SetCode: setCode}
			col.display[key] = name
		}
	}

	if len(col.cards) == 0 {
		return nil, &ParseError{Path: path, Reason: "no valid card entries found"}
	}

	col.lookup = buildLookup(col)
	log.Printf("[Collection] Loaded %d unique cards from %s", len(col.cards), path)
	return col, nil
}

// parseQuantity accepts integers and the "1.0" float format some trackers
// emit. An empty field means the default of one copy and returns -1.
func parseQuantity(field string) (int, error) {
	s := strings.TrimSpace(field)
	if s == "" {
		return -1, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	q := int(f)
	if q <= 0 {
		return 0, fmt.Errorf("invalid quantity %q (must be positive)", s)
	}
	return q, nil
}

// detectDelimiter picks the delimiter that appears a consistent nonzero
// number of times across the sample's first lines, defaulting to comma.
func detectDelimiter(sample string) rune {
	lines := strings.SplitN(sample, "\n", 4)
	if len(lines) > 3 {
		lines = lines[:3]
	}
	for _, delim := range []rune{',', ';', '\t', '|'} {
		counts := make([]int, 0, len(lines))
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			counts = append(counts, strings.Count(line, string(delim)))
		}
		if len(counts) < 2 || counts[0] == 0 {
			continue
		}
		consistent := true
		for _, c := range counts[1:] {
			if c != counts[0] {
				consistent = false
			}
		}
		if consistent {
			return delim
		}
	}
	return ','
}

// identifyColumns maps the header row onto name/quantity/set indices. When
// no known alias matches, any header containing "name" is tried, then the
// first column.
func identifyColumns(header []string) (nameCol, qtyCol, setCol int) {
	nameCol, qtyCol, setCol = -1, -1, -1
	for i, h := range header {
		clean := strings.ToLower(strings.TrimSpace(h))
		switch {
		case nameCol < 0 && nameHeaders[clean]:
			nameCol = i
		case qtyCol < 0 && quantityHeaders[clean]:
			qtyCol = i
		case setCol < 0 && setHeaders[clean]:
			setCol = i
		}
	}
	if nameCol < 0 {
		for i, h := range header {
			clean := strings.ToLower(strings.TrimSpace(h))
			if strings.Contains(clean, "name") &&
				!strings.Contains(clean, "set") && !strings.Contains(clean, "file") {
				nameCol = i
				break
			}
		}
	}
	if nameCol < 0 && len(header) > 0 {
		nameCol = 0
	}
	return nameCol, qtyCol, setCol
}

// Cards returns the inventory keyed by display name, in the shape the deck
// building engine consumes.
func (c *Collection) Cards() map[string]deckbuilder.OwnedCard {
	out := make(map[string]deckbuilder.OwnedCard, len(c.cards))
	for key, card := range c.cards {
		out[c.display[key]] = card
	}
	return out
}

// Names returns every display name in sorted order.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.display))
	for _, name := range c.display {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of unique cards.
func (c *Collection) Len() int { return len(c.cards) }

// Get looks up a card by any recognized spelling of its name.
func (c *Collection) Get(name string) (deckbuilder.OwnedCard, bool) {
	key, ok := c.resolve(name)
	if !ok {
		return deckbuilder.OwnedCard{}, false
	}
	return c.cards[key], true
}

// Resolve maps a user-supplied name onto the collection's display name.
func (c *Collection) Resolve(name string) (string, bool) {
	key, ok := c.resolve(name)
	if !ok {
		return "", false
	}
	return c.display[key], true
}

func (c *Collection) resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if key, ok := c.lookup[Normalize(name)]; ok {
		return key, true
	}
	if key, ok := c.lookup[strings.ToLower(strings.TrimSpace(name))]; ok {
		return key, true
	}
	return c.fuzzyResolve(name)
}

// fuzzyResolve retries the lookup with punctuation stripped. Iteration over
// sorted keys keeps the result stable when several variations collide.
func (c *Collection) fuzzyResolve(name string) (string, bool) {
	want := stripPunctuation(strings.ToLower(name))
	if want == "" {
		return "", false
	}
	keys := make([]string, 0, len(c.lookup))
	for k := range c.lookup {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if stripPunctuation(k) == want {
			return c.lookup[k], true
		}
	}
	return "", false
}

// buildLookup indexes every recognized variation of each card name.
func buildLookup(c *Collection) map[string]string {
	lookup := make(map[string]string, len(c.cards)*3)
	keys := make([]string, 0, len(c.cards))
	for key := range c.cards {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	add := func(variation, key string) {
		if variation == "" {
			return
		}
		if _, exists := lookup[variation]; !exists {
			lookup[variation] = key
		}
	}

	for _, key := range keys {
		display := c.display[key]
		add(key, key)
		add(strings.ToLower(display), key)
		add(stripPunctuation(key), key)
		if strings.HasPrefix(key, "the ") {
			add(strings.TrimPrefix(key, "the "), key)
		}
		add(strings.ReplaceAll(key, "'", ""), key)
		add(strings.ReplaceAll(key, "-", " "), key)
	}
	return lookup
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
