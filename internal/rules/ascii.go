package rules

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var asciiFolds = strings.NewReplacer(
	"ß", "ss",
	"ẞ", "SS",
	"ä", "ae",
	"Ä", "Ae",
	"ö", "oe",
	"Ö", "Oe",
	"ü", "ue",
	"Ü", "Ue",
)

// FoldASCII replaces German umlauts and sharp s by their ASCII spellings.
// Input is normalized to NFC first so decomposed umlauts fold as well.
// Other characters are left alone.
func FoldASCII(s string) string {
	return asciiFolds.Replace(norm.NFC.String(s))
}
