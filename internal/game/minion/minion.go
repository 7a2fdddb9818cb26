package minion

import "fmt"

// Alignment is the moral tag printed on a minion.
type Alignment string

const (
	AlignmentGood    Alignment = "Good"
	AlignmentEvil    Alignment = "Evil"
	AlignmentNeutral Alignment = "Neutral"
)

// Template holds the immutable per-species stats. It is shared read-only
// between every instance of the species.
type Template struct {
	Name       string
	BaseAttack int
	BaseHealth int
	Alignment  Alignment
	Types      []string
	Level      int
	Upgraded   bool
	Ranged     bool
	Flying     bool
	Slay       bool
}

// Bonus is an additive stat change.
type Bonus struct {
	Attack int
	Health int
}

// IsZero reports whether the bonus changes nothing.
func (b Bonus) IsZero() bool {
	return b.Attack == 0 && b.Health == 0
}

// AttackShape describes a single attack while it is being resolved.
type AttackShape struct {
	Amount int
	Ranged bool
	Flying bool
}

// Instance is a minion placed on a board for one match.
type Instance struct {
	ID       int
	Attack   int
	Health   int
	Position Position
	Template *Template
}

// NewInstance creates an instance at base stats.
func NewInstance(id int, tmpl *Template, pos Position) *Instance {
	return &Instance{
		ID:       id,
		Attack:   tmpl.BaseAttack,
		Health:   tmpl.BaseHealth,
		Position: pos,
		Template: tmpl,
	}
}

// Name returns the species name.
func (m *Instance) Name() string {
	return m.Template.Name
}

// ApplyBonus adds b to the current stats.
func (m *Instance) ApplyBonus(b Bonus) {
	m.Attack += b.Attack
	m.Health += b.Health
}

// TakeDamage subtracts amount from health and reports whether the minion died.
// A minion dies only once its health is negative; zero health is still alive.
func (m *Instance) TakeDamage(amount int) bool {
	m.Health -= amount
	return m.Health < 0
}

// CanAttack reports whether the minion has strictly positive attack.
func (m *Instance) CanAttack() bool {
	return m.Attack > 0
}

// Shape builds the attack descriptor for the minion's current stats.
func (m *Instance) Shape() AttackShape {
	return AttackShape{
		Amount: m.Attack,
		Ranged: m.Template.Ranged,
		Flying: m.Template.Flying,
	}
}

func (m *Instance) String() string {
	return fmt.Sprintf("%s in position %d with %d attack and %d health", m.Template.Name, m.Position, m.Attack, m.Health)
}
