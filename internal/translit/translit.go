// Package translit implements spec §4.7: the string-normalization
// pipeline (mojibake rescue, transliteration, Russian-identifier
// sanitation, GUI page-suffix stripping, and an English-ish alias
// table) that turns a dumped sign/gui string into stable identifiers.
//
// Each stage is a pure function, grounded on the mojibake character map
// and transliteration tables of the system this compiler replaces.
package translit

import (
	"regexp"
	"strings"
	"unicode"
)

// mojibakeMap rescues Cyrillic text that was encoded as cp1251 and then
// misdecoded as Latin-1, a fixed character-for-character correspondence.
var mojibakeMap = map[rune]rune{
	'Ð': 'Р', 'Ñ': 'Я',
	'à': 'а', 'á': 'б', 'â': 'в', 'ã': 'г', 'ä': 'д', 'å': 'е', 'æ': 'ж',
	'ç': 'з', 'è': 'и', 'é': 'й', 'ê': 'к', 'ë': 'л', 'ì': 'м', 'í': 'н',
	'î': 'о', 'ï': 'п', 'ð': 'р', 'ñ': 'с', 'ò': 'т', 'ó': 'у', 'ô': 'ф',
	'õ': 'х', 'ö': 'ц', '÷': 'ч', 'ø': 'ш', 'ù': 'щ', 'ú': 'ъ', 'û': 'ы',
	'ü': 'ь', 'ý': 'э', 'þ': 'ю', 'ÿ': 'я',
	'À': 'А', 'Á': 'Б', 'Â': 'В', 'Ã': 'Г', 'Ä': 'Д', 'Å': 'Е', 'Æ': 'Ж',
	'Ç': 'З', 'È': 'И', 'É': 'Й', 'Ê': 'К', 'Ë': 'Л', 'Ì': 'М', 'Í': 'Н',
	'Î': 'О', 'Ï': 'П', 'Ò': 'Т', 'Ó': 'У', 'Ô': 'Ф', 'Õ': 'Х', 'Ö': 'Ц',
	'×': 'Ч', 'Ø': 'Ш', 'Ù': 'Щ', 'Ú': 'Ъ', 'Û': 'Ы', 'Ü': 'Ь', 'Ý': 'Э',
	'Þ': 'Ю', 'ß': 'Я',
}

// cyrTranslit is the ASCII transliteration table for lowercase Cyrillic.
var cyrTranslit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// englishishTable substitutes common domain tokens with an English word
// before transliteration, so aliases read more naturally.
var englishishTable = []struct{ from, to string }{
	{"сообщение", "message"},
	{"выдать", "give"},
	{"установить", "set"},
	{"присв", "set"},
	{"удалить", "remove"},
	{"телепорт", "teleport"},
	{"урон", "damage"},
	{"исцел", "heal"},
	{"предмет", "item"},
	{"инвентарь", "inventory"},
	{"брон", "armor"},
	{"функц", "function"},
}

var colorEscapeRE = regexp.MustCompile(`[&§][0-9a-fk-or]`)
var pageSuffixRE = regexp.MustCompile(`\s*\(\d+\s+of\s+\d+\)\s*$`)
var nonIdentRunRE = regexp.MustCompile(`[^a-z0-9]+`)

// StripColors removes Minecraft color-code escapes ("&a"/"§a").
func StripColors(s string) string {
	return colorEscapeRE.ReplaceAllString(s, "")
}

// StripPageSuffix removes a trailing "(N of M)" GUI title page marker.
func StripPageSuffix(s string) string {
	return pageSuffixRE.ReplaceAllString(s, "")
}

// looksLikeMojibake applies the fixed two-char heuristic: at least two
// characters from the mojibake set are present, and no native Cyrillic
// letter already appears (a genuine Cyrillic string should never also
// contain the misdecoded Latin-1 range).
func looksLikeMojibake(s string) bool {
	hits := 0
	for _, r := range s {
		if isNativeCyrillic(r) {
			return false
		}
		if _, ok := mojibakeMap[r]; ok {
			hits++
		}
	}
	return hits >= 2
}

func isNativeCyrillic(r rune) bool {
	return unicode.Is(unicode.Cyrillic, r)
}

// RescueMojibake translates a Latin-1-misdecoded-from-cp1251 string back
// to native Cyrillic, if the heuristic fires; otherwise returns s
// unchanged.
func RescueMojibake(s string) string {
	if !looksLikeMojibake(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if fixed, ok := mojibakeMap[r]; ok {
			b.WriteRune(fixed)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Translit converts Cyrillic text to an ASCII transliteration, leaving
// non-Cyrillic runes as-is.
func Translit(s string) string {
	var b strings.Builder
	for _, r := range s {
		lower := unicode.ToLower(r)
		if repl, ok := cyrTranslit[lower]; ok {
			if unicode.IsUpper(r) && repl != "" {
				b.WriteString(strings.ToUpper(repl[:1]) + repl[1:])
			} else {
				b.WriteString(repl)
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Snake lowercases s and collapses every run of non [a-z0-9] characters
// into a single underscore, trimming leading/trailing underscores. An
// empty result becomes "unnamed"; a result starting with a digit is
// prefixed "a_".
func Snake(s string) string {
	low := strings.ToLower(s)
	low = nonIdentRunRE.ReplaceAllString(low, "_")
	low = strings.Trim(low, "_")
	if low == "" {
		return "unnamed"
	}
	if low[0] >= '0' && low[0] <= '9' {
		low = "a_" + low
	}
	return low
}

// RusIdent keeps Cyrillic/Latin/digit/underscore characters, replaces
// anything else with underscore, and collapses repeated underscores.
func RusIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Cyrillic, r), r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// EnglishishAlias substitutes known domain tokens with English words
// before transliteration, producing a friendlier alias alongside the
// literal transliteration.
func EnglishishAlias(s string) string {
	low := strings.ToLower(s)
	for _, sub := range englishishTable {
		low = strings.ReplaceAll(low, sub.from, sub.to)
	}
	return Snake(Translit(low))
}

// PreferredAlias picks one human-facing alias out of a set: prefer a
// Cyrillic alias, then a snake_case ASCII alias, then the shortest
// remaining alias (ties broken lexicographically). Grounded on the
// decompiler's alias-picking heuristic.
func PreferredAlias(aliases []string) string {
	if len(aliases) == 0 {
		return ""
	}
	for _, a := range aliases {
		if hasCyrillic(a) {
			return a
		}
	}
	var snakeASCII []string
	for _, a := range aliases {
		if isSnakeASCII(a) {
			snakeASCII = append(snakeASCII, a)
		}
	}
	if len(snakeASCII) > 0 {
		return shortestThenLex(snakeASCII)
	}
	return shortestThenLex(aliases)
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

func isSnakeASCII(s string) bool {
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func shortestThenLex(items []string) string {
	best := items[0]
	for _, s := range items[1:] {
		if len(s) < len(best) || (len(s) == len(best) && s < best) {
			best = s
		}
	}
	return best
}
