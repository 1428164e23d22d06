package parse

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// smartQuotes lists every typographic quote Sanitize rewrites.
const smartQuotes = "“”„‟″‘’′"

var quoteMapper = runes.Map(func(r rune) rune {
	switch r {
	case '“', '”', '„', '‟', '″':
		return '"'
	case '‘', '’', '′':
		return '\''
	default:
		return r
	}
})

// quoteSanitizer maps only runs of smart quotes so invalid UTF-8 elsewhere
// passes through untouched.
var quoteSanitizer = runes.If(runes.Predicate(func(r rune) bool {
	return strings.ContainsRune(smartQuotes, r)
}), quoteMapper, nil)

// Sanitize replaces curly double quotes, the low double quote and the double
// prime with '"', and curly single quotes and the prime with '\''. Models
// trained on typeset prose emit these inside otherwise valid JSON. All other
// bytes, including invalid UTF-8, are left as they are.
func Sanitize(text string) string {
	if !strings.ContainsAny(text, smartQuotes) {
		return text
	}

	sanitized, _, err := transform.String(quoteSanitizer, text)
	if err != nil {
		return text
	}
	return sanitized
}
