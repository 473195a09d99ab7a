// Package catalog holds the verb reference data and the recommendation
// engine built on top of it. Lookups are deterministic and preserve catalog
// order so suggestion lists render stably.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobline/internal/domain"
)

//go:embed verbs.yml
var defaultCatalogYAML []byte

// Catalog is an ordered set of verbs.
type Catalog struct {
	Verbs []domain.Verb `yaml:"verbs"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := FromYAML(defaultCatalogYAML)
	if err != nil {
		// The embedded catalog is validated by tests; a parse failure here
		// is a build defect.
		panic(fmt.Sprintf("embedded verb catalog: %v", err))
	}
	return c
}

// FromYAML parses and validates a catalog from raw YAML bytes.
func FromYAML(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid catalog yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FromFile reads a replacement catalog from the given path.
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures every entry is well formed.
func (c *Catalog) Validate() error {
	if len(c.Verbs) == 0 {
		return fmt.Errorf("catalog has no verbs")
	}
	seen := map[string]bool{}
	for _, v := range c.Verbs {
		if v.ID == "" || v.Text == "" {
			return fmt.Errorf("catalog entry missing id or text")
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate verb id %s", v.ID)
		}
		seen[v.ID] = true
		if v.Class != domain.VerbRecommended && v.Class != domain.VerbNotRecommended {
			return fmt.Errorf("verb %s has unknown class %q", v.Text, v.Class)
		}
		if len(v.Levels) == 0 {
			return fmt.Errorf("verb %s has no levels", v.Text)
		}
		for _, l := range v.Levels {
			if !l.Valid() {
				return fmt.Errorf("verb %s has unknown level %q", v.Text, l)
			}
		}
		if v.Class == domain.VerbNotRecommended && v.Clarification == "" {
			return fmt.Errorf("not-recommended verb %s has no clarification", v.Text)
		}
	}
	return nil
}

// RecommendedForLevel filters the catalog to Recommended entries tagged for
// the given level, in catalog order.
func (c *Catalog) RecommendedForLevel(level domain.HierarchyLevel) []domain.Verb {
	var out []domain.Verb
	for _, v := range c.Verbs {
		if v.Class == domain.VerbRecommended && v.AppliesTo(level) {
			out = append(out, v)
		}
	}
	return out
}

// Suggest returns the level-scoped Recommended verbs whose text or
// description contains query case-insensitively. An empty query returns the
// full level-scoped set (the browse view).
func (c *Catalog) Suggest(level domain.HierarchyLevel, query string) []domain.Verb {
	recommended := c.RecommendedForLevel(level)
	if query == "" {
		return recommended
	}
	lowered := strings.ToLower(query)
	var out []domain.Verb
	for _, v := range recommended {
		if strings.Contains(strings.ToLower(v.Text), lowered) ||
			strings.Contains(strings.ToLower(v.Description), lowered) {
			out = append(out, v)
		}
	}
	return out
}

// ClassifyTyped returns the Not-Recommended entry whose text matches the
// typed value case-insensitively, if any. The wizard blocks Step 1 advance
// while such a match is active.
func (c *Catalog) ClassifyTyped(text string) (domain.Verb, bool) {
	for _, v := range c.Verbs {
		if v.Class == domain.VerbNotRecommended && strings.EqualFold(v.Text, text) {
			return v, true
		}
	}
	return domain.Verb{}, false
}
