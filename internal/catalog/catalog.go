// Package catalog resolves species names to minion templates.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/magefree/sbb-sim/internal/game/minion"
)

// ErrUnknownSpecies is returned when a species has no template.
var ErrUnknownSpecies = errors.New("unknown species")

// Catalog is an immutable set of templates keyed by species name. It is safe
// for concurrent lookups once built.
type Catalog struct {
	templates map[string]*minion.Template
}

// New builds a catalog. Duplicate names and invalid templates are rejected.
func New(templates ...minion.Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]*minion.Template, len(templates))}
	for i := range templates {
		tmpl := templates[i]
		if err := validate(tmpl); err != nil {
			return nil, err
		}
		if _, dup := c.templates[tmpl.Name]; dup {
			return nil, fmt.Errorf("duplicate species %q", tmpl.Name)
		}
		types := make([]string, len(tmpl.Types))
		copy(types, tmpl.Types)
		tmpl.Types = types
		c.templates[tmpl.Name] = &tmpl
	}
	return c, nil
}

func validate(t minion.Template) error {
	if t.Name == "" {
		return errors.New("template without a name")
	}
	switch t.Alignment {
	case minion.AlignmentGood, minion.AlignmentEvil, minion.AlignmentNeutral:
	default:
		return fmt.Errorf("species %q: unknown alignment %q", t.Name, t.Alignment)
	}
	return nil
}

// Lookup returns the template for a species.
func (c *Catalog) Lookup(species string) (*minion.Template, error) {
	tmpl, ok := c.templates[species]
	if !ok {
		return nil, fmt.Errorf("%q: %w", species, ErrUnknownSpecies)
	}
	return tmpl, nil
}

// Names returns every species name in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of species.
func (c *Catalog) Len() int {
	return len(c.templates)
}
