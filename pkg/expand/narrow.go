package expand

import (
	"github.com/rodkhai/carsearch/pkg/catalog"
	"github.com/rodkhai/carsearch/pkg/normalize"
)

// Narrow filters an expansion so that a model-scoped query does not
// drag in brand-wide or sibling-model aliases that only matched through
// the token index. Brand-level queries keep their full breadth. The
// result falls back to the query alone whenever filtering would
// otherwise empty it: losing recall beats returning zero usable terms.
func (e *Expander) Narrow(query string, expansion []string) []string {
	if query == "" || len(expansion) == 0 {
		return expansion
	}

	norm := normalize.Normalize(query)

	// A query that is exactly a brand display name is supposed to be broad.
	if e.idx.IsBrandName(norm) {
		return expansion
	}

	matching := e.idx.PhraseModels(norm)
	if len(matching) == 0 {
		return e.dropBrandTerms(query, norm, expansion)
	}
	return e.keepModelTerms(norm, query, matching, expansion)
}

// dropBrandTerms handles a bare fragment: it matched entities only via
// the token index, so it must not pull in a whole brand's breadth.
func (e *Expander) dropBrandTerms(query, norm string, expansion []string) []string {
	out := make([]string, 0, len(expansion))
	for _, term := range expansion {
		tn := normalize.Normalize(term)
		if tn != norm && e.idx.IsBrandName(tn) {
			continue
		}
		out = append(out, term)
	}
	if len(out) == 0 {
		return fallback(query, norm, expansion)
	}
	return out
}

// keepModelTerms handles a real model name: only aliases that belong
// exclusively to the matched models survive. An alias shared verbatim
// with some other model is ambiguous and stays searchable only as the
// literal query term.
func (e *Expander) keepModelTerms(norm, query string, matching []catalog.EntityKey, expansion []string) []string {
	matched := make(map[catalog.EntityKey]struct{}, len(matching))
	for _, key := range matching {
		matched[key] = struct{}{}
	}

	otherAliases := make(map[string]struct{})
	for _, key := range e.idx.ModelKeys() {
		if _, ok := matched[key]; ok {
			continue
		}
		for _, alias := range e.idx.Aliases(key) {
			otherAliases[normalize.Normalize(alias)] = struct{}{}
		}
	}

	valid := map[string]struct{}{norm: {}}
	for _, key := range matching {
		for _, alias := range e.idx.Aliases(key) {
			an := normalize.Normalize(alias)
			if _, shared := otherAliases[an]; shared {
				continue
			}
			// A brand display name indexed as a token of this model's
			// alias still means brand-wide breadth. Keep it out.
			if e.idx.IsBrandName(an) {
				continue
			}
			valid[an] = struct{}{}
		}
	}

	out := make([]string, 0, len(expansion))
	for _, term := range expansion {
		if _, ok := valid[normalize.Normalize(term)]; ok {
			out = append(out, term)
		}
	}
	if len(out) == 0 {
		return fallback(query, norm, expansion)
	}
	return out
}

// fallback recovers the original query term from the expansion (it is
// always the first entry Expand produced); if the caller passed a
// hand-built expansion without it, the query is returned with its
// original casing.
func fallback(query, norm string, expansion []string) []string {
	for _, term := range expansion {
		if normalize.Normalize(term) == norm {
			return []string{term}
		}
	}
	return []string{query}
}
