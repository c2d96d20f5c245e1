package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Func turns raw post text into a sequence of normalized tokens
type Func func(text string) []string

// Tokenize splits text on whitespace, strips ASCII punctuation from every piece
// and lowercases what is left. Pieces that end up empty are dropped; order and
// duplicates are preserved so every occurrence can be counted.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	// Casers keep state between calls, so each call gets its own.
	lower := cases.Lower(language.Und)

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		// Invalid UTF-8 bytes come back as U+FFFD.
		word := strings.Map(stripPunct, field)
		if word == "" {
			continue
		}
		tokens = append(tokens, lower.String(word))
	}

	return tokens
}

// IsPunct reports whether r is stripped from tokens: any ASCII character that
// is not a letter, a digit or whitespace. Control characters count.
func IsPunct(r rune) bool {
	return r < utf8.RuneSelf && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}

func stripPunct(r rune) rune {
	if IsPunct(r) {
		return -1
	}
	return r
}
