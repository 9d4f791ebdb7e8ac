// Package placeholder extracts printf-style format placeholders from
// translatable strings and compares them between translations.
//
// Translators are allowed to reorder numbered placeholders (%1$s/%2$s) to
// fit the target grammar, but must keep the same argument types and count.
// Compare therefore reduces each placeholder to its type letter and checks
// the multiset, ignoring order and numbering.
package placeholder

import "regexp"

var (
	// numbered matches positional placeholders: %1$s, %2$d.
	numbered = regexp.MustCompile(`%\d+\$[sd]`)
	// simple matches unnumbered placeholders: %s, %d. RE2 has no lookahead,
	// so the "not followed by a digit" guard from the match sites is applied
	// in Extract.
	simple = regexp.MustCompile(`%[sd]`)
)

// Extract returns all placeholder tokens found in text: numbered tokens
// first, then simple ones, each group in source order. A %s or %d
// immediately followed by a digit is not counted (it is the residue of a
// malformed numbered form, not a placeholder).
func Extract(text string) []string {
	if text == "" {
		return nil
	}
	var tokens []string
	for _, span := range numbered.FindAllStringIndex(text, -1) {
		tokens = append(tokens, text[span[0]:span[1]])
	}
	for _, span := range simple.FindAllStringIndex(text, -1) {
		if span[1] < len(text) && text[span[1]] >= '0' && text[span[1]] <= '9' {
			continue
		}
		tokens = append(tokens, text[span[0]:span[1]])
	}
	return tokens
}

// typeCounts reduces tokens to a count per type letter. Tokens ending in
// neither 's' nor 'd' are ignored on both sides of a comparison so that
// unsupported specifiers never generate noise.
func typeCounts(tokens []string) map[byte]int {
	counts := make(map[byte]int, 2)
	for _, tok := range tokens {
		switch tok[len(tok)-1] {
		case 's':
			counts['s']++
		case 'd':
			counts['d']++
		}
	}
	return counts
}

// Compare reports whether two texts carry a consistent placeholder set.
// Both empty → consistent. Exactly one empty → inconsistent. Otherwise the
// multiset of placeholder type letters must match; order and numbering are
// irrelevant, so "Hello %1$s, %2$d" is consistent with "%2$d apa %1$s".
func Compare(defaultText, otherText string) bool {
	if defaultText == "" || otherText == "" {
		return defaultText == otherText
	}
	a := typeCounts(Extract(defaultText))
	b := typeCounts(Extract(otherText))
	if len(a) != len(b) {
		return false
	}
	for k, n := range a {
		if b[k] != n {
			return false
		}
	}
	return true
}
