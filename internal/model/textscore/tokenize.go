package textscore

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalize folds case and compatibility forms so "Ｈｅｌｌｏ" and "hello"
// share a weight. cases.Caser is stateful, so a fresh one is built per call.
func normalize(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// tokenize splits text into normalized word tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}
