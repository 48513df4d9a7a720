package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

	// Letters that do not decompose into a base letter plus a combining mark.
	letterReplacer = strings.NewReplacer(
		"ı", "i", "ø", "o", "æ", "ae", "œ", "oe", "ß", "ss", "ł", "l", "đ", "d",
	)
)

// Generate creates a URL-friendly slug from the given name. Accented letters
// are folded to their ASCII base letter.
//
// Examples:
//   - "Lumière Jewels" → "lumiere-jewels"
//   - "Çocuk Ürünleri" → "cocuk-urunleri"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = letterReplacer.Replace(s)

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	// Non-alphanumeric runs become a single hyphen.
	s = slugRegexp.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
