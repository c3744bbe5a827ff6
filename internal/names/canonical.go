// Package names reconciles player identities between the historical results
// naming convention ("Last F.") and the live odds feed ("First Last").
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFolder is the fixed diacritic table. Characters it does not list are
// folded by stripping combining marks after NFD decomposition.
var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "ä", "a", "â", "a", "ā", "a", "ã", "a", "å", "a",
	"é", "e", "è", "e", "ë", "e", "ê", "e", "ē", "e", "ě", "e",
	"í", "i", "ì", "i", "ï", "i", "î", "i", "ī", "i",
	"ó", "o", "ò", "o", "ö", "o", "ô", "o", "ō", "o", "õ", "o", "ø", "o",
	"ú", "u", "ù", "u", "ü", "u", "û", "u", "ū", "u", "ů", "u",
	"ñ", "n", "ń", "n", "ç", "c", "ć", "c", "č", "c", "š", "s", "ś", "s",
	"ž", "z", "ź", "z", "ż", "z", "ř", "r", "ł", "l", "đ", "d", "ß", "ss",
	"Á", "A", "À", "A", "Ä", "A", "Â", "A", "Ā", "A", "Ã", "A", "Å", "A",
	"É", "E", "È", "E", "Ë", "E", "Ê", "E", "Ē", "E", "Ě", "E",
	"Í", "I", "Ì", "I", "Ï", "I", "Î", "I", "Ī", "I",
	"Ó", "O", "Ò", "O", "Ö", "O", "Ô", "O", "Ō", "O", "Õ", "O", "Ø", "O",
	"Ú", "U", "Ù", "U", "Ü", "U", "Û", "U", "Ū", "U", "Ů", "U",
	"Ñ", "N", "Ń", "N", "Ç", "C", "Ć", "C", "Č", "C", "Š", "S", "Ś", "S",
	"Ž", "Z", "Ź", "Z", "Ż", "Z", "Ř", "R", "Ł", "L", "Đ", "D",
)

// FoldAccents removes diacritics from s
func FoldAccents(s string) string {
	s = accentFolder.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Canonicalize converts a raw player name into the "Last F." key used by the
// rating store. Names already in that form are kept, so the function is
// idempotent. Empty or blank input yields "".
func Canonicalize(raw string) string {
	parts := strings.Fields(FoldAccents(strings.TrimSpace(raw)))
	if len(parts) == 0 {
		return ""
	}

	var mechanical string
	switch {
	case len(parts) == 1:
		mechanical = parts[0]
	case isInitial(parts[len(parts)-1]):
		mechanical = strings.Join(parts, " ")
	default:
		first := []rune(parts[0])
		mechanical = strings.Join(parts[1:], " ") + " " + string(first[0]) + "."
	}

	if corrected, ok := aliases[mechanical]; ok {
		return corrected
	}
	return mechanical
}

// isInitial reports whether token is a single character followed by a period
func isInitial(token string) bool {
	r := []rune(token)
	return len(r) == 2 && r[1] == '.'
}
