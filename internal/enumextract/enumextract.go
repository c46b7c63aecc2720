// Package enumextract implements spec §4.6: parsing a non-glass item's
// lore into an ordered bullet-list of options, tolerating the fallback
// bullet glyphs encoding-damaged dumps sometimes carry.
package enumextract

import "strings"

const (
	bulletFilled = "●"
	bulletEmpty  = "○"

	fallbackFilled = "?"
	fallbackEmpty  = "\t"
)

// loreSeparator is the fixed escape sequence lore lines are split on in
// the dump format.
const loreSeparator = " \\n "

// Options parses raw lore text into an ordered option list plus the
// index of the first filled bullet (0 if none is found).
func Options(lore string) ([]string, int) {
	lines := strings.Split(lore, loreSeparator)
	var options []string
	selected := 0
	found := false

	for _, line := range lines {
		trimmed := strings.Trim(line, " ")
		filled := strings.HasPrefix(trimmed, bulletFilled) || strings.HasPrefix(trimmed, fallbackFilled)
		empty := strings.HasPrefix(trimmed, bulletEmpty) || strings.HasPrefix(trimmed, fallbackEmpty)
		if !filled && !empty {
			continue
		}
		label := strings.TrimSpace(strings.TrimLeft(trimmed, bulletFilled+bulletEmpty+fallbackFilled+fallbackEmpty))
		if filled && !found {
			selected = len(options)
			found = true
		}
		options = append(options, label)
	}
	return options, selected
}
