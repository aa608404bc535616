// Package text normalização de texto livre para comparação.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold remove acentos, espaços nas pontas e passa para minúsculas ("Mãe " → "mae").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// EqualFold compara dois textos depois de Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
