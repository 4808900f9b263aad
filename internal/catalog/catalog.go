// Package catalog holds the fixed table of QuestFoundry loops and resolves
// user-supplied loop names to canonical IDs.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

//go:embed loops.yml
var loopsYAML []byte

// Category groups loops by their place in the creative lifecycle.
type Category string

const (
	CategoryDiscovery  Category = "Discovery"
	CategoryRefinement Category = "Refinement"
	CategoryAsset      Category = "Asset"
	CategoryExport     Category = "Export"
)

// Categories lists all valid categories in display order.
var Categories = []Category{CategoryDiscovery, CategoryRefinement, CategoryAsset, CategoryExport}

// Loop is one immutable catalog entry.
type Loop struct {
	ID          string   `yaml:"id"`
	DisplayName string   `yaml:"display_name"`
	Abbrev      string   `yaml:"abbrev"`
	Category    Category `yaml:"category"`
	Description string   `yaml:"description"`
}

// Catalog is the loaded loop table. It is built once at startup and never
// mutated; pass it by value to whatever needs name resolution.
type Catalog struct {
	loops []Loop
	byID  map[string]Loop
}

// Load parses the embedded loop table and validates its invariants:
// unique IDs, unique display names, known categories.
func Load() (*Catalog, error) {
	var loops []Loop
	if err := yaml.Unmarshal(loopsYAML, &loops); err != nil {
		return nil, fmt.Errorf("parsing loop catalog: %w", err)
	}
	if len(loops) == 0 {
		return nil, fmt.Errorf("loop catalog is empty")
	}

	c := &Catalog{
		loops: loops,
		byID:  make(map[string]Loop, len(loops)),
	}
	seenNames := make(map[string]string, len(loops))
	for _, l := range loops {
		if l.ID == "" || l.DisplayName == "" {
			return nil, fmt.Errorf("loop catalog entry missing id or display_name: %+v", l)
		}
		if !validCategory(l.Category) {
			return nil, fmt.Errorf("loop %q has unknown category %q", l.ID, l.Category)
		}
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate loop id: %s", l.ID)
		}
		nameKey := strings.ToLower(l.DisplayName)
		if other, dup := seenNames[nameKey]; dup {
			return nil, fmt.Errorf("loops %s and %s share display name %q", other, l.ID, l.DisplayName)
		}
		seenNames[nameKey] = l.ID
		c.byID[l.ID] = l
	}
	return c, nil
}

// Loops returns all entries in catalog order.
func (c *Catalog) Loops() []Loop {
	out := make([]Loop, len(c.loops))
	copy(out, c.loops)
	return out
}

// Get returns the entry for a canonical loop ID.
func (c *Catalog) Get(id string) (Loop, bool) {
	l, ok := c.byID[id]
	return l, ok
}

// ByCategory returns the entries for one category, in catalog order.
func (c *Catalog) ByCategory(cat Category) []Loop {
	var out []Loop
	for _, l := range c.loops {
		if l.Category == cat {
			out = append(out, l)
		}
	}
	return out
}

// NotFoundError reports a loop name that matched neither a canonical ID nor
// a display name. It is a user input error, never retried.
type NotFoundError struct {
	Input string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown loop %q", e.Input)
}

// Validate resolves user input to a canonical loop ID.
//
// The input is first normalized to kebab-case (trimmed, lowercased, spaces
// to hyphens) and matched against catalog IDs. If that fails, the raw input
// is compared case-insensitively against every display name. ID match wins
// over display-name match.
func (c *Catalog) Validate(input string) (string, error) {
	normalized := slug.Make(strings.TrimSpace(input))
	if _, ok := c.byID[normalized]; ok {
		return normalized, nil
	}

	for _, l := range c.loops {
		if strings.EqualFold(l.DisplayName, strings.TrimSpace(input)) {
			return l.ID, nil
		}
	}

	return "", &NotFoundError{Input: input}
}

func validCategory(cat Category) bool {
	for _, c := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}
