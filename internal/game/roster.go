package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magefree/sbb-sim/internal/game/minion"
)

const (
	SideA = "A"
	SideB = "B"
)

// RosterEntry names a species and the slot it starts in.
type RosterEntry struct {
	Species  string
	Position minion.Position
}

func (e RosterEntry) String() string {
	return fmt.Sprintf("%s@%d", e.Species, e.Position)
}

// ParseRoster parses entries of the form "Species Name@position".
func ParseRoster(specs []string) ([]RosterEntry, error) {
	entries := make([]RosterEntry, 0, len(specs))
	for _, spec := range specs {
		idx := strings.LastIndex(spec, "@")
		if idx <= 0 {
			return nil, fmt.Errorf("roster entry %q: expected species@position", spec)
		}
		species := strings.TrimSpace(spec[:idx])
		n, err := strconv.Atoi(strings.TrimSpace(spec[idx+1:]))
		if err != nil {
			return nil, fmt.Errorf("roster entry %q: %w", spec, err)
		}
		pos := minion.Position(n)
		if !pos.Valid() {
			return nil, fmt.Errorf("roster entry %q: %w", spec, ErrInvalidPosition)
		}
		entries = append(entries, RosterEntry{Species: species, Position: pos})
	}
	return entries, nil
}

// ResolveRoster looks every species up in the catalog. Any unknown species is
// a configuration error.
func ResolveRoster(catalog TemplateSource, entries []RosterEntry) ([]Placement, error) {
	if len(entries) > 0 && catalog == nil {
		return nil, fmt.Errorf("resolve roster: no catalog")
	}
	placements := make([]Placement, 0, len(entries))
	for _, e := range entries {
		tmpl, err := catalog.Lookup(e.Species)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", e, err)
		}
		placements = append(placements, Placement{Template: tmpl, Position: e.Position})
	}
	return placements, nil
}
