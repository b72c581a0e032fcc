// Package fallback carries the hand-maintained table of multilingual
// car nicknames known to be unstable under dynamic catalog expansion.
// The table is versioned configuration data, not logic: it ships as an
// embedded YAML resource and can be overridden from disk without
// touching the expansion algorithm.
package fallback

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rodkhai/carsearch/pkg/normalize"
)

//go:embed data/nicknames.yaml
var embeddedTable []byte

// Table maps normalized nickname queries to their full variant sets.
type Table struct {
	entries map[string][]string
}

type tableFile struct {
	Nicknames []struct {
		Name     string   `yaml:"name"`
		Variants []string `yaml:"variants"`
	} `yaml:"nicknames"`
}

// Default returns the table embedded in the binary.
func Default() (*Table, error) {
	return parse(embeddedTable)
}

// Load reads a nickname table from disk; an empty path falls back to
// the embedded default.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback table %s: %w", path, err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode fallback table: %w", err)
	}

	t := &Table{entries: make(map[string][]string, len(file.Nicknames))}
	for _, n := range file.Nicknames {
		key := normalize.Normalize(n.Name)
		if key == "" || len(n.Variants) == 0 {
			continue
		}
		variants := make([]string, 0, len(n.Variants)+1)
		variants = append(variants, n.Name)
		seen := map[string]struct{}{key: {}}
		for _, v := range n.Variants {
			vn := normalize.Normalize(v)
			if vn == "" {
				continue
			}
			if _, dup := seen[vn]; dup {
				continue
			}
			seen[vn] = struct{}{}
			variants = append(variants, v)
		}
		t.entries[key] = variants
	}
	return t, nil
}

// Lookup returns the full variant set for a query, matched by
// normalized form. The second result is false when the query is not a
// known nickname. The returned slice is the caller's to keep; the table
// itself is never exposed.
func (t *Table) Lookup(query string) ([]string, bool) {
	variants, ok := t.entries[normalize.Normalize(query)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(variants))
	copy(out, variants)
	return out, true
}

// Len returns the number of nicknames in the table.
func (t *Table) Len() int {
	return len(t.entries)
}
