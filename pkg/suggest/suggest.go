// Package suggest produces autocomplete candidates for a typed prefix.
// Unlike expansion, which does exact alias lookups, the ranker scores
// every catalog model against the live prefix and keeps the best ones.
package suggest

import (
	"sort"

	"github.com/rodkhai/carsearch/pkg/catalog"
	"github.com/rodkhai/carsearch/pkg/fuzzy"
	"github.com/rodkhai/carsearch/pkg/index"
	"github.com/rodkhai/carsearch/pkg/normalize"
)

// displaySeparator joins the per-script labels of one suggestion.
const displaySeparator = " / "

// Suggestion is one autocomplete candidate. Display is the compact
// multi-script label shown to the user; SearchKey is the term sent
// onward as a search query, chosen as the string most likely to appear
// literally inside a caption.
type Suggestion struct {
	Display   string `json:"display"`
	SearchKey string `json:"searchKey"`
}

// Ranker scores catalog models against query prefixes. It reads only
// from the immutable index and is safe for concurrent use.
type Ranker struct {
	idx *index.AliasIndex
}

// NewRanker returns a Ranker over the given index.
func NewRanker(idx *index.AliasIndex) *Ranker {
	return &Ranker{idx: idx}
}

type candidate struct {
	Suggestion
	score      int
	displayLen int
}

// Suggest returns at most limit suggestions for the typed prefix,
// ordered by descending score, then ascending display length, then
// lexically. An empty prefix or non-positive limit yields nil.
func (r *Ranker) Suggest(prefix string, limit int) []Suggestion {
	norm := normalize.Normalize(prefix)
	if norm == "" || limit <= 0 {
		return nil
	}

	cat := r.idx.Catalog()
	var candidates []candidate
	seen := make(map[string]struct{})

	for _, b := range cat.Brands {
		for i := range b.Models {
			m := &b.Models[i]
			pool := m.DisplayNames()

			best, ok := bestScore(pool, norm)
			if !ok {
				continue
			}

			display := buildDisplay(pool)
			key := searchKey(pool, m)
			if display == "" || key == "" {
				continue
			}

			dedup := b.ID + "\x00" + m.ID + "\x00" + key
			if _, dup := seen[dedup]; dup {
				continue
			}
			seen[dedup] = struct{}{}

			candidates = append(candidates, candidate{
				Suggestion: Suggestion{Display: display, SearchKey: key},
				score:      best,
				displayLen: len([]rune(display)),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].displayLen != candidates[j].displayLen {
			return candidates[i].displayLen < candidates[j].displayLen
		}
		return candidates[i].Display < candidates[j].Display
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		out[i] = c.Suggestion
	}
	return out
}

// bestScore returns the maximum fuzzy score of the prefix against every
// alias in the pool, or false when no alias is a candidate.
func bestScore(pool []string, norm string) (int, bool) {
	best := 0
	found := false
	for _, alias := range pool {
		score, ok := fuzzy.Score(normalize.Normalize(alias), norm)
		if !ok {
			continue
		}
		if !found || score > best {
			best = score
			found = true
		}
	}
	return best, found
}

// buildDisplay picks the shortest alias per script (Latin, Lao, Thai)
// and joins the ones found into a compact multi-script label.
func buildDisplay(pool []string) string {
	latin := shortest(pool, normalize.IsLatin)
	lao := shortest(pool, normalize.IsLao)
	thai := shortest(pool, normalize.IsThai)

	var parts []string
	seen := make(map[string]struct{}, 3)
	for _, p := range []string{latin, lao, thai} {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		parts = append(parts, p)
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += displaySeparator + p
	}
	return out
}

// searchKey picks the shortest Latin alias, falling back to the model's
// canonical display name.
func searchKey(pool []string, m *catalog.Model) string {
	if latin := shortest(pool, normalize.IsLatin); latin != "" {
		return latin
	}
	if m.Name != "" {
		return m.Name
	}
	if m.NameTh != "" {
		return m.NameTh
	}
	return m.NameLo
}

// shortest returns the shortest pool entry matching the script
// predicate, preferring the earlier entry on equal length.
func shortest(pool []string, match func(string) bool) string {
	best := ""
	bestLen := 0
	for _, alias := range pool {
		if alias == "" || !match(alias) {
			continue
		}
		n := len([]rune(alias))
		if best == "" || n < bestLen {
			best = alias
			bestLen = n
		}
	}
	return best
}
