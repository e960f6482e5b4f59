package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Matcher decides whether a submitted answer counts as correct. It is pure:
// every call normalizes its inputs the same way and reads no shared state.
type Matcher struct {
	tolerance      int
	minContainment int
}

// NewMatcher creates a matcher. tolerance is the maximum Levenshtein distance
// accepted against the target or any synonym. minContainment gates the relaxed
// substring rule: containment only matches when the normalized target has at
// least that many runes, because short answers like "4" would otherwise match
// any submission containing them.
func NewMatcher(tolerance, minContainment int) *Matcher {
	return &Matcher{tolerance: tolerance, minContainment: minContainment}
}

// Match reports whether submitted should be accepted for target. Checks in
// order, short-circuiting: exact equality, edit distance to the target, edit
// distance to any synonym, then gated substring containment either direction.
func (m *Matcher) Match(submitted, target string, synonyms []string) bool {
	sub := Normalize(submitted)
	tgt := Normalize(target)
	if sub == "" || tgt == "" {
		return false
	}

	if sub == tgt {
		return true
	}
	if levenshtein(sub, tgt) <= m.tolerance {
		return true
	}
	for _, syn := range synonyms {
		syn = Normalize(syn)
		if syn == "" {
			continue
		}
		if sub == syn || levenshtein(sub, syn) <= m.tolerance {
			return true
		}
	}
	if len([]rune(tgt)) >= m.minContainment {
		if strings.Contains(sub, tgt) || strings.Contains(tgt, sub) {
			return true
		}
	}
	return false
}

// Normalize trims, lowercases and strips diacritics, so "Éléphant " compares
// equal to "elephant".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// levenshtein computes the edit distance between two strings over runes,
// keeping only two DP rows.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min3(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
