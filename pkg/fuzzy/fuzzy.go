// Package fuzzy ranks catalog aliases against a typed prefix for
// autocomplete. Scoring runs once per catalog entry per keystroke, so
// the edit-distance path is bounded and aborts early once a candidate
// can no longer land inside the allowed distance.
package fuzzy

const (
	prefixBase    = 10000
	substringBase = 7000
	distanceBase  = 5000

	substringPosPenalty = 50
	distancePenalty     = 500

	// shortQueryLen is the query length (in runes) at or under which
	// only one edit is tolerated; longer queries get two.
	shortQueryLen = 4
)

// Score ranks a normalized alias against a normalized query. The bool
// result is false when the alias is not a candidate at all; callers
// treat that as "exclude", not as an error. Higher scores rank first:
// prefix matches beat substring matches beat edit-distance matches, and
// within each band shorter, earlier, closer matches win.
func Score(alias, query string) (int, bool) {
	if alias == "" || query == "" {
		return 0, false
	}

	ar := []rune(alias)
	qr := []rune(query)

	if idx := runeIndex(ar, qr); idx == 0 {
		return prefixBase - len(ar), true
	} else if idx > 0 {
		return substringBase - idx*substringPosPenalty - len(ar), true
	}

	if len(qr) < 2 {
		return 0, false
	}

	maxDist := 2
	if len(qr) <= shortQueryLen {
		maxDist = 1
	}

	// Compare against an equal-or-shorter prefix of the alias so that a
	// misspelled prefix still matches a longer alias.
	prefix := ar
	if len(prefix) > len(qr) {
		prefix = prefix[:len(qr)]
	}

	dist, ok := BoundedDistance(string(prefix), query, maxDist)
	if !ok {
		return 0, false
	}
	return distanceBase - dist*distancePenalty - len(ar), true
}

// BoundedDistance computes the Levenshtein distance between a and b,
// aborting as soon as the true distance is known to exceed max. The
// second result is false when the bound was exceeded. Cost stays
// proportional to min(len)×max rather than the full product.
func BoundedDistance(a, b string, max int) (int, bool) {
	ar := []rune(a)
	br := []rune(b)

	// Shorter string on the inner dimension keeps the row small.
	if len(ar) < len(br) {
		ar, br = br, ar
	}

	if len(ar)-len(br) > max {
		return 0, false
	}
	if len(br) == 0 {
		return len(ar), len(ar) <= max
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > max {
			return 0, false
		}
		prev, curr = curr, prev
	}

	if prev[len(br)] > max {
		return 0, false
	}
	return prev[len(br)], true
}

// runeIndex returns the rune offset of needle inside haystack, or -1.
func runeIndex(haystack, needle []rune) int {
	if len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
