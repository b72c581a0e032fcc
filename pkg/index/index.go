// Package index builds the immutable alias index the expansion engine
// reads from. The index is constructed exactly once from the static
// catalog and is safe for concurrent readers without locking.
package index

import (
	"strings"

	"github.com/rodkhai/carsearch/pkg/catalog"
	"github.com/rodkhai/carsearch/pkg/normalize"
)

// minTokenLen is the minimum normalized length for a token fragment of a
// multi-token alias to be indexed on its own.
const minTokenLen = 2

// AliasIndex holds two inverted structures over the catalog: entity to
// original-cased aliases, and normalized alias to entities. Aliases are
// indexed twice: as whole phrases and, for multi-token phrases, token by
// token. Token indexing deliberately over-generates recall so that a
// caption fragment still resolves to the right entity; the expand
// package's narrowing stage compensates when that breadth is unwanted.
type AliasIndex struct {
	entityAliases map[catalog.EntityKey][]string
	aliasEntities map[string][]catalog.EntityKey

	// phraseModels records only whole-phrase model aliases, so narrowing
	// can tell "the user typed a real model name" apart from "the user
	// typed a fragment that maps via the token index".
	phraseModels map[string][]catalog.EntityKey

	brandNames map[string]string
	modelKeys  []catalog.EntityKey
	cat        *catalog.Catalog
}

// Build constructs the alias index from a validated catalog. It is a
// pure function over catalog content and performs no I/O.
func Build(cat *catalog.Catalog) *AliasIndex {
	idx := &AliasIndex{
		entityAliases: make(map[catalog.EntityKey][]string),
		aliasEntities: make(map[string][]catalog.EntityKey),
		phraseModels:  make(map[string][]catalog.EntityKey),
		brandNames:    make(map[string]string),
		cat:           cat,
	}

	seen := make(map[catalog.EntityKey]map[string]struct{})

	for _, b := range cat.Brands {
		bk := catalog.BrandKey(b.ID)
		for _, name := range []string{b.Name, b.NameTh, b.NameLo} {
			if name == "" {
				continue
			}
			idx.register(seen, bk, name, false)
			if norm := normalize.Normalize(name); norm != "" {
				idx.brandNames[norm] = b.ID
			}
		}

		for _, m := range b.Models {
			mk := catalog.ModelKey(b.ID, m.ID)
			idx.modelKeys = append(idx.modelKeys, mk)
			for _, alias := range m.DisplayNames() {
				idx.register(seen, mk, alias, true)
			}
		}
	}

	return idx
}

// register records one alias under an entity, both whole-phrase and per
// token for multi-token phrases.
func (idx *AliasIndex) register(seen map[catalog.EntityKey]map[string]struct{}, key catalog.EntityKey, alias string, model bool) {
	norm := normalize.Normalize(alias)
	if norm == "" {
		return
	}

	idx.add(seen, key, alias, norm)
	if model && !containsKey(idx.phraseModels[norm], key) {
		idx.phraseModels[norm] = append(idx.phraseModels[norm], key)
	}

	tokens := normalize.Tokens(norm)
	if len(tokens) < 2 {
		return
	}
	originals := strings.Fields(alias)
	for i, tok := range tokens {
		if len([]rune(tok)) < minTokenLen {
			continue
		}
		display := tok
		if len(originals) == len(tokens) {
			display = originals[i]
		}
		idx.add(seen, key, display, tok)
	}
}

// add inserts a single alias/normalized pair, keeping both maps
// consistent and first-seen casing stable.
func (idx *AliasIndex) add(seen map[catalog.EntityKey]map[string]struct{}, key catalog.EntityKey, alias, norm string) {
	if seen[key] == nil {
		seen[key] = make(map[string]struct{})
	}
	if _, dup := seen[key][norm]; !dup {
		seen[key][norm] = struct{}{}
		idx.entityAliases[key] = append(idx.entityAliases[key], alias)
	}
	if !containsKey(idx.aliasEntities[norm], key) {
		idx.aliasEntities[norm] = append(idx.aliasEntities[norm], key)
	}
}

// Aliases returns every original-cased alias registered under an entity,
// in registration order. Callers must not mutate the returned slice.
func (idx *AliasIndex) Aliases(key catalog.EntityKey) []string {
	return idx.entityAliases[key]
}

// Entities returns every entity the normalized alias is registered
// under, whole-phrase and token matches alike.
func (idx *AliasIndex) Entities(normAlias string) []catalog.EntityKey {
	return idx.aliasEntities[normAlias]
}

// PhraseModels returns the models whose whole-phrase aliases normalize
// exactly to the given string. Token fragments do not count.
func (idx *AliasIndex) PhraseModels(normAlias string) []catalog.EntityKey {
	return idx.phraseModels[normAlias]
}

// BrandID resolves a normalized brand display name to its brand id.
func (idx *AliasIndex) BrandID(normName string) (string, bool) {
	id, ok := idx.brandNames[normName]
	return id, ok
}

// IsBrandName reports whether the normalized string is exactly a brand
// display name in any script.
func (idx *AliasIndex) IsBrandName(norm string) bool {
	_, ok := idx.brandNames[norm]
	return ok
}

// ModelKeys returns every model entity key in catalog order.
func (idx *AliasIndex) ModelKeys() []catalog.EntityKey {
	return idx.modelKeys
}

// Catalog returns the catalog the index was built from.
func (idx *AliasIndex) Catalog() *catalog.Catalog {
	return idx.cat
}

func containsKey(keys []catalog.EntityKey, key catalog.EntityKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
