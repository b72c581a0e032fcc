// Package normalize canonicalizes free-text queries and catalog aliases
// into a comparable form. It is script-agnostic: Lao and Thai codepoints
// pass through untouched apart from punctuation and whitespace handling,
// so the same normalizer serves all three scripts the catalog carries.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// punctuation maps the fixed set of bracket, quote, and separator
// characters that are replaced with a space before whitespace collapse.
var punctuation = map[rune]struct{}{
	'(': {}, ')': {}, '[': {}, ']': {}, '{': {}, '}': {},
	'"': {}, '\'': {}, '`': {},
	'“': {}, '”': {}, '‘': {}, '’': {},
	',': {}, '.': {}, ';': {}, ':': {}, '!': {}, '?': {},
	'/': {}, '\\': {}, '|': {}, '#': {}, '*': {}, '+': {},
	'_': {}, '~': {}, '@': {},
}

// Normalize reduces text to its canonical search form: NFC composition,
// ASCII case folding, punctuation replaced by spaces, and runs of
// whitespace collapsed to a single space. The result of normalizing an
// already-normalized string is the string itself, and whitespace-only
// input normalizes to the empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	composed := norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(composed))
	lastSpace := true // leading whitespace is dropped
	for _, r := range composed {
		if _, ok := punctuation[r]; ok || unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
		lastSpace = false
	}

	return strings.TrimRight(b.String(), " ")
}

// Tokens splits already-normalized text into its space-separated tokens.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

// IsLatin reports whether s contains at least one Latin letter or ASCII
// digit and no Thai or Lao codepoints. Digits alone (model years, trim
// numbers) count as Latin-script for display purposes.
func IsLatin(s string) bool {
	seen := false
	for _, r := range s {
		if unicode.Is(unicode.Thai, r) || unicode.Is(unicode.Lao, r) {
			return false
		}
		if unicode.Is(unicode.Latin, r) || (r >= '0' && r <= '9') {
			seen = true
		}
	}
	return seen
}

// IsThai reports whether s contains at least one Thai codepoint.
func IsThai(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Thai, r) {
			return true
		}
	}
	return false
}

// IsLao reports whether s contains at least one Lao codepoint.
func IsLao(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Lao, r) {
			return true
		}
	}
	return false
}
