// Package expand turns a single free-text query into the set of catalog
// aliases known to be interchangeable with it, and narrows that set
// when the caller wants a model-scoped search rather than brand-wide
// breadth.
package expand

import (
	"github.com/rodkhai/carsearch/pkg/index"
	"github.com/rodkhai/carsearch/pkg/normalize"
)

// Expander resolves queries against an immutable alias index. It is
// safe for concurrent use.
type Expander struct {
	idx *index.AliasIndex
}

// New returns an Expander reading from the given index.
func New(idx *index.AliasIndex) *Expander {
	return &Expander{idx: idx}
}

// Expand returns every alias interchangeable with the query. The result
// always contains the original query and is never empty for non-empty
// input; an unknown query passes through unchanged so it stays
// searchable literally. Order is insertion order: the query first, then
// aliases of each matched entity in index order.
func (e *Expander) Expand(query string) []string {
	if query == "" {
		return nil
	}

	norm := normalize.Normalize(query)
	out := []string{query}
	seen := map[string]struct{}{norm: {}}

	for _, key := range e.idx.Entities(norm) {
		for _, alias := range e.idx.Aliases(key) {
			an := normalize.Normalize(alias)
			if _, dup := seen[an]; dup {
				continue
			}
			seen[an] = struct{}{}
			out = append(out, alias)
		}
	}

	return out
}
