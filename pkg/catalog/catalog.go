// Package catalog defines the static brand/model catalog the search
// expansion engine is built from. Catalog content is read-only: it is
// loaded once at startup, validated, and never mutated at runtime.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

var (
	// ErrEmptyCatalog is returned when the catalog resource contains no brands.
	ErrEmptyCatalog = errors.New("catalog contains no brands")
	// ErrDuplicateModel is returned when a brand declares the same model id twice.
	ErrDuplicateModel = errors.New("duplicate model id within brand")
)

// Model is one car model under a brand. SearchNames is an open list of
// additional free-form aliases: nicknames, transliterations, and common
// misspellings sellers use in captions.
type Model struct {
	ID          string   `yaml:"modelId"`
	Name        string   `yaml:"modelName"`
	NameTh      string   `yaml:"modelNameTh"`
	NameLo      string   `yaml:"modelNameLo"`
	SearchNames []string `yaml:"searchNames"`
}

// Brand is one car make with display names in Latin, Thai, and Lao script.
type Brand struct {
	ID     string  `yaml:"brandId"`
	Name   string  `yaml:"brandName"`
	NameTh string  `yaml:"brandNameTh"`
	NameLo string  `yaml:"brandNameLo"`
	Models []Model `yaml:"models"`
}

// Catalog is the full static brand/model catalog.
type Catalog struct {
	Brands []Brand `yaml:"brands"`
}

// EntityKey identifies the unit of "same car identity" aliases are
// grouped under: either a whole brand or one model within a brand.
// A brand-level key has an empty ModelID.
type EntityKey struct {
	BrandID string
	ModelID string
}

// BrandKey returns the entity key for a whole brand.
func BrandKey(brandID string) EntityKey {
	return EntityKey{BrandID: brandID}
}

// ModelKey returns the entity key for one model within a brand.
func ModelKey(brandID, modelID string) EntityKey {
	return EntityKey{BrandID: brandID, ModelID: modelID}
}

// IsBrand reports whether the key identifies a brand rather than a model.
func (k EntityKey) IsBrand() bool {
	return k.ModelID == ""
}

// String renders the key for logging and composite dedup keys.
func (k EntityKey) String() string {
	if k.IsBrand() {
		return k.BrandID
	}
	return k.BrandID + "/" + k.ModelID
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return parse(embeddedCatalog)
}

// Load reads a catalog resource from disk. An empty path falls back to
// the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks the structural invariants the index builder relies on:
// every brand and model has an id and at least one display name, and
// model ids are unique within their brand.
func (c *Catalog) Validate() error {
	if len(c.Brands) == 0 {
		return ErrEmptyCatalog
	}
	for _, b := range c.Brands {
		if b.ID == "" {
			return fmt.Errorf("brand %q: missing brandId", b.Name)
		}
		if b.Name == "" && b.NameTh == "" && b.NameLo == "" {
			return fmt.Errorf("brand %s: no display name in any script", b.ID)
		}
		seen := make(map[string]struct{}, len(b.Models))
		for _, m := range b.Models {
			if m.ID == "" {
				return fmt.Errorf("brand %s: model %q missing modelId", b.ID, m.Name)
			}
			if _, dup := seen[m.ID]; dup {
				return fmt.Errorf("brand %s model %s: %w", b.ID, m.ID, ErrDuplicateModel)
			}
			seen[m.ID] = struct{}{}
			if m.Name == "" && m.NameTh == "" && m.NameLo == "" {
				return fmt.Errorf("brand %s model %s: no display name in any script", b.ID, m.ID)
			}
		}
	}
	return nil
}

// Brand returns the brand with the given id, or nil.
func (c *Catalog) Brand(brandID string) *Brand {
	for i := range c.Brands {
		if c.Brands[i].ID == brandID {
			return &c.Brands[i]
		}
	}
	return nil
}

// Model returns the model identified by key, or nil for brand-level or
// unknown keys.
func (c *Catalog) Model(key EntityKey) *Model {
	if key.IsBrand() {
		return nil
	}
	b := c.Brand(key.BrandID)
	if b == nil {
		return nil
	}
	for i := range b.Models {
		if b.Models[i].ID == key.ModelID {
			return &b.Models[i]
		}
	}
	return nil
}

// DisplayNames returns the model's per-script display names plus its
// SearchNames, skipping empty entries. This is the alias pool the
// suggestion ranker scores against.
func (m *Model) DisplayNames() []string {
	pool := make([]string, 0, len(m.SearchNames)+3)
	for _, name := range []string{m.Name, m.NameTh, m.NameLo} {
		if name != "" {
			pool = append(pool, name)
		}
	}
	pool = append(pool, m.SearchNames...)
	return pool
}
