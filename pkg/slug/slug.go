package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// cyrillicReplacer transliterates Russian and Kyrgyz Cyrillic letters to
// their ASCII equivalents. Lowercase only; input is lowered before use.
var cyrillicReplacer = strings.NewReplacer(
	"а", "a", "б", "b", "в", "v", "г", "g", "д", "d",
	"е", "e", "ё", "yo", "ж", "zh", "з", "z", "и", "i",
	"й", "y", "к", "k", "л", "l", "м", "m", "н", "n",
	"о", "o", "п", "p", "р", "r", "с", "s", "т", "t",
	"у", "u", "ф", "f", "х", "h", "ц", "ts", "ч", "ch",
	"ш", "sh", "щ", "sch", "ъ", "", "ы", "y", "ь", "",
	"э", "e", "ю", "yu", "я", "ya",
	"ң", "ng", "ө", "o", "ү", "u",
)

// Generate creates a URL-friendly slug from the given name.
// Cyrillic names are transliterated to ASCII.
//
// Examples:
//   - "Молоко 3.2%" → "moloko-3-2"
//   - "Сүт азыктары" → "sut-azyktary"
//   - "Fresh   Bread!" → "fresh-bread"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	slug = cyrillicReplacer.Replace(slug)

	// Replace any remaining non-alphanumeric runs with hyphens
	slug = slugRegexp.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}
