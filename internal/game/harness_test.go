package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/sbb-sim/internal/catalog"
	"github.com/magefree/sbb-sim/internal/game/minion"
	"github.com/magefree/sbb-sim/internal/game/rules"
)

// BoardHarness provides utilities for setting up and inspecting board scenarios.
type BoardHarness struct {
	t       *testing.T
	env     *Env
	catalog *catalog.Catalog
	events  []rules.Event
}

// NewBoardHarness creates a harness with a seeded env and the bundled catalog.
func NewBoardHarness(t *testing.T, seed int64) *BoardHarness {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	h := &BoardHarness{
		t:       t,
		env:     NewEnv(seed, zaptest.NewLogger(t)),
		catalog: cat,
	}
	h.env.Bus.Subscribe(func(e rules.Event) {
		h.events = append(h.events, e)
	})
	return h
}

// TemplateOption tweaks a custom template.
type TemplateOption func(*minion.Template)

func ranged(t *minion.Template) { t.Ranged = true }
func flying(t *minion.Template) { t.Flying = true }
func good(t *minion.Template) { t.Alignment = minion.AlignmentGood }

// Species returns a template from the bundled catalog.
func (h *BoardHarness) Species(name string) *minion.Template {
	h.t.Helper()
	tmpl, err := h.catalog.Lookup(name)
	require.NoError(h.t, err)
	return tmpl
}

// Custom creates a template with no registered behavior.
func (h *BoardHarness) Custom(name string, attack, health int, opts ...TemplateOption) *minion.Template {
	tmpl := &minion.Template{
		Name:       name,
		BaseAttack: attack,
		BaseHealth: health,
		Alignment:  minion.AlignmentNeutral,
	}
	for _, opt := range opts {
		opt(tmpl)
	}
	return tmpl
}

// At places a template on a slot.
func At(tmpl *minion.Template, pos minion.Position) Placement {
	return Placement{Template: tmpl, Position: pos}
}

// Board builds a board on the harness env backed by the bundled catalog.
func (h *BoardHarness) Board(side string, placements ...Placement) *Board {
	h.t.Helper()
	b, err := NewBoard(h.env, side, placements, h.catalog)
	require.NoError(h.t, err)
	return b
}

// Wall is an opponent that never dies and never hits back.
func (h *BoardHarness) Wall(side string) *Board {
	return h.Board(side, At(h.Custom("Wall", 0, 1000), 0))
}

// EventsOfType returns the recorded events of the given type.
func (h *BoardHarness) EventsOfType(typ rules.EventType) []rules.Event {
	var out []rules.Event
	for _, e := range h.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// ClearEvents forgets every recorded event.
func (h *BoardHarness) ClearEvents() {
	h.events = nil
}

// AssertStats asserts the attack and health of the minion at pos.
func (h *BoardHarness) AssertStats(b *Board, pos minion.Position, attack, health int) {
	h.t.Helper()
	m := b.Minion(pos)
	if m == nil {
		h.t.Errorf("expected a minion at %d on side %s", pos, b.Side())
		return
	}
	if m.Attack != attack || m.Health != health {
		h.t.Errorf("expected %s at %d to be %d/%d, got %d/%d", m.Name(), pos, attack, health, m.Attack, m.Health)
	}
}

// AssertEmpty asserts that pos is unoccupied.
func (h *BoardHarness) AssertEmpty(b *Board, pos minion.Position) {
	h.t.Helper()
	if m := b.Minion(pos); m != nil {
		h.t.Errorf("expected position %d on side %s to be empty, found %s", pos, b.Side(), m)
	}
}

// AttackerPositions makes b attack the opponent n times and returns the slot
// of each attacker.
func (h *BoardHarness) AttackerPositions(b, opponent *Board, n int) []minion.Position {
	h.t.Helper()
	out := make([]minion.Position, 0, n)
	for i := 0; i < n; i++ {
		require.NoError(h.t, b.Attack(opponent))
		_, pos, ok := b.LastAttacker()
		require.True(h.t, ok)
		out = append(out, pos)
	}
	return out
}
