package words

import (
	"strings"

	goaway "github.com/TwiN/go-away"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize maps a raw word to its canonical form: NFKC, case folded and
// trimmed of surrounding whitespace.
func Normalize(raw string) string {
	return strings.TrimSpace(cases.Fold().String(norm.NFKC.String(raw)))
}

func NormalizeAll(raw []string) []string {
	out := make([]string, len(raw))
	for i, w := range raw {
		out[i] = Normalize(w)
	}
	return out
}

// LooksNaughty reports whether text contains profanity.
func LooksNaughty(text string) bool {
	return goaway.IsProfane(text)
}
