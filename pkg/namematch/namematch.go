// Package namematch normalizes building names and scores how likely two
// names denote the same building. Matching is heuristic and deterministic:
// the same inputs always produce the same score.
package namematch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLength is the smallest token that counts toward Jaccard overlap.
// Shorter tokens ("of", "the", "de") carry no identity signal.
const minTokenLength = 2

// foldDiacritics decomposes characters and removes combining marks, so
// transliterated names ("Müllerhaus" vs "Mullerhaus") normalize identically.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a name, folds diacritics, strips all characters that
// are neither letters, digits, nor spaces, collapses whitespace, and trims.
// Normalize is idempotent.
func Normalize(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity returns a score in [0,1] for how similar two names are:
//
//  1. Equal normalized names score 1.0.
//  2. If one normalized name contains the other, the score is the length
//     ratio shorter/longer.
//  3. Otherwise the score is the Jaccard index of the significant token
//     sets (tokens longer than two characters); zero if either set is empty.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}

	shorter, longer := na, nb
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(utf8.RuneCountInString(shorter)) / float64(utf8.RuneCountInString(longer))
	}

	setA := tokenSet(na)
	setB := tokenSet(nb)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// ExactMatch reports whether two names are identical after normalization.
func ExactMatch(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// SharesSignificantPortion is a stricter check used for cross-name aliasing.
// It strips parenthetical or bracketed suffixes and trailing dash-qualifiers
// from each name, normalizes the remaining "base name", and reports true if
// the bases are equal, or one contains the other with a length ratio of at
// least 0.6 and both bases at least five characters long.
func SharesSignificantPortion(a, b string) bool {
	baseA := Normalize(baseName(a))
	baseB := Normalize(baseName(b))
	if baseA == "" || baseB == "" {
		return false
	}
	if baseA == baseB {
		return true
	}

	lenA := utf8.RuneCountInString(baseA)
	lenB := utf8.RuneCountInString(baseB)
	if lenA < 5 || lenB < 5 {
		return false
	}

	shorter, longer := baseA, baseB
	shortLen, longLen := lenA, lenB
	if shortLen > longLen {
		shorter, longer = longer, shorter
		shortLen, longLen = longLen, shortLen
	}

	return strings.Contains(longer, shorter) &&
		float64(shortLen)/float64(longLen) >= 0.6
}

// baseName cuts a name at the first parenthetical/bracketed suffix or
// spaced dash-qualifier, e.g. "Narkomfin Building (Dom Narkomfina)" and
// "Narkomfin Building - East Wing" both reduce to "Narkomfin Building".
func baseName(name string) string {
	base := name
	for _, sep := range []string{"(", "[", " - ", " – ", " — "} {
		if idx := strings.Index(base, sep); idx >= 0 {
			base = base[:idx]
		}
	}
	return strings.TrimSpace(base)
}

// tokenSet splits a normalized name into its significant tokens.
func tokenSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		if utf8.RuneCountInString(tok) > minTokenLength {
			set[tok] = true
		}
	}
	return set
}
