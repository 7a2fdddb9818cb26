package game

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/magefree/sbb-sim/internal/game/abilities"
	"github.com/magefree/sbb-sim/internal/game/minion"
	"github.com/magefree/sbb-sim/internal/game/rules"
)

// TemplateSource resolves species names to templates. Returned templates are
// shared and must not be modified.
type TemplateSource interface {
	Lookup(species string) (*minion.Template, error)
}

// Placement puts one minion of a species on a slot.
type Placement struct {
	Template *minion.Template
	Position minion.Position
}

// unit is a minion on a board together with its species behavior.
type unit struct {
	*minion.Instance
	behavior abilities.Behavior
}

// attackRecord remembers the last attacker by identity and slot. The minion
// itself may be gone by the time the record is read.
type attackRecord struct {
	id       int
	position minion.Position
}

// Board owns the minions of one side and mediates everything that happens
// to them: placement, support, attacks in both directions and death.
type Board struct {
	side      string
	minions   map[minion.Position]*unit
	last      *attackRecord
	nextID    int
	templates map[string]*minion.Template
	catalog   TemplateSource
	queue     *rules.EffectQueue
	env       *Env
	logger    *zap.Logger
}

// NewBoard places the roster and applies every support aura once. Duplicate
// positions keep the first placement. The catalog resolves species created by
// death hooks and may be nil when no placed species needs it.
func NewBoard(env *Env, side string, placements []Placement, catalog TemplateSource) (*Board, error) {
	if env == nil {
		env = NewEnv(0, nil)
	}
	b := &Board{
		side:      side,
		minions:   make(map[minion.Position]*unit, minion.NumPositions),
		templates: make(map[string]*minion.Template),
		catalog:   catalog,
		queue:     rules.NewEffectQueue(),
		env:       env,
		logger:    env.logger().With(zap.String("side", side)),
	}

	for _, p := range placements {
		if p.Template == nil {
			return nil, fmt.Errorf("side %s: placement at %d has no template", side, p.Position)
		}
		if !p.Position.Valid() {
			return nil, fmt.Errorf("side %s: %s at %d: %w", side, p.Template.Name, p.Position, ErrInvalidPosition)
		}
		b.templates[p.Template.Name] = p.Template
		if b.add(p.Template, p.Position, rules.EventMinionPlaced) == nil {
			b.logger.Debug("duplicate position ignored",
				zap.String("species", p.Template.Name),
				zap.Int("position", int(p.Position)),
			)
		}
	}

	if err := b.resolveSummons(); err != nil {
		return nil, err
	}

	b.applySupports()
	return b, nil
}

// resolveSummons makes sure every species a death hook may create is known
// before combat starts.
func (b *Board) resolveSummons() error {
	for _, u := range b.ordered() {
		for _, species := range abilities.Summons(u.behavior) {
			if _, ok := b.templates[species]; ok {
				continue
			}
			if b.catalog == nil {
				return fmt.Errorf("side %s: %s summons %s: %w", b.side, u.Name(), species, ErrNoTemplate)
			}
			tmpl, err := b.catalog.Lookup(species)
			if err != nil {
				return fmt.Errorf("side %s: %s summons %s: %w", b.side, u.Name(), species, err)
			}
			b.templates[species] = tmpl
		}
	}
	return nil
}

// applySupports runs each minion's support aura over the board exactly once.
func (b *Board) applySupports() {
	all := b.ordered()
	for _, supporter := range all {
		bonus, eligible := supporter.behavior.Support(supporter.Instance)
		if eligible == nil || bonus.IsZero() {
			continue
		}
		for _, target := range all {
			if !eligible(target.Instance) {
				continue
			}
			target.ApplyBonus(bonus)
			b.publish(rules.Event{
				Type:     rules.EventSupportGiven,
				MinionID: target.ID,
				Species:  target.Name(),
				Position: int(target.Position),
				SourceID: supporter.ID,
				Amount:   bonus.Attack,
				Health:   bonus.Health,
			})
		}
	}
}

// add places a new minion if the slot is free and returns it, or nil.
func (b *Board) add(tmpl *minion.Template, pos minion.Position, how rules.EventType) *unit {
	if _, taken := b.minions[pos]; taken {
		return nil
	}
	b.nextID++
	u := &unit{
		Instance: minion.NewInstance(b.nextID, tmpl, pos),
		behavior: abilities.Lookup(tmpl.Name),
	}
	b.minions[pos] = u
	b.publish(rules.Event{
		Type:     how,
		MinionID: u.ID,
		Species:  tmpl.Name,
		Position: int(pos),
		Amount:   u.Attack,
		Health:   u.Health,
	})
	return u
}

// Spawn places a minion of the given species on a free slot. Spawned minions
// neither receive nor grant support. An occupied slot is left untouched.
func (b *Board) Spawn(species string, at minion.Position) error {
	tmpl, ok := b.templates[species]
	if !ok {
		if b.catalog == nil {
			return fmt.Errorf("spawn %s: %w", species, ErrNoTemplate)
		}
		var err error
		if tmpl, err = b.catalog.Lookup(species); err != nil {
			return fmt.Errorf("spawn %s: %w", species, err)
		}
		b.templates[species] = tmpl
	}
	if u := b.add(tmpl, at, rules.EventMinionSpawned); u != nil {
		b.logger.Debug("minion spawned",
			zap.String("species", species),
			zap.Int("position", int(at)),
			zap.Int("minion_id", u.ID),
		)
	}
	return nil
}

// damage applies amount to u and kills it once its health is negative.
func (b *Board) damage(u *unit, amount int) {
	dead := u.TakeDamage(amount)
	b.publish(rules.Event{
		Type:     rules.EventDamageDealt,
		MinionID: u.ID,
		Species:  u.Name(),
		Position: int(u.Position),
		Amount:   amount,
		Health:   u.Health,
		Flag:     dead,
	})
	if dead {
		b.kill(u)
	}
}

// kill removes u from the board and queues its death hook. The hook is taken
// before removal so it sees the minion's final state, and runs only when the
// queue is drained.
func (b *Board) kill(u *unit) {
	action := u.behavior.OnDeath(u.Instance)
	delete(b.minions, u.Position)

	b.logger.Debug("minion died",
		zap.String("species", u.Name()),
		zap.Int("position", int(u.Position)),
		zap.Int("health", u.Health),
	)
	b.publish(rules.Event{
		Type:     rules.EventMinionDied,
		MinionID: u.ID,
		Species:  u.Name(),
		Position: int(u.Position),
		Health:   u.Health,
	})

	if action == nil {
		return
	}
	id, name, pos := u.ID, u.Name(), u.Position
	b.queue.Push(rules.Effect{
		Kind:        rules.EffectKindDeath,
		SourceID:    id,
		Description: name + " death",
		Resolve: func() error {
			b.publish(rules.Event{
				Type:     rules.EventDeathTriggered,
				MinionID: id,
				Species:  name,
				Position: int(pos),
			})
			return action(b)
		},
	})
}

// resolveEffects drains the death hooks queued by the operation that just finished.
func (b *Board) resolveEffects() error {
	if _, err := b.queue.Drain(); err != nil {
		return fmt.Errorf("side %s: %w", b.side, err)
	}
	return nil
}

func (b *Board) publish(evt rules.Event) {
	evt.Side = b.side
	b.env.Bus.Publish(evt)
}

// ordered returns the living minions in ascending position order.
func (b *Board) ordered() []*unit {
	out := make([]*unit, 0, len(b.minions))
	for _, u := range b.minions {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Side returns the board's side label.
func (b *Board) Side() string {
	return b.side
}

// HasMinions reports whether any minion is on the board.
func (b *Board) HasMinions() bool {
	return len(b.minions) > 0
}

// HasAttacker reports whether any minion has strictly positive attack.
func (b *Board) HasAttacker() bool {
	for _, u := range b.minions {
		if u.CanAttack() {
			return true
		}
	}
	return false
}

// Minion returns the minion at pos, or nil.
func (b *Board) Minion(pos minion.Position) *minion.Instance {
	if u, ok := b.minions[pos]; ok {
		return u.Instance
	}
	return nil
}

// Minions returns the living minions in position order.
func (b *Board) Minions() []*minion.Instance {
	units := b.ordered()
	out := make([]*minion.Instance, len(units))
	for i, u := range units {
		out[i] = u.Instance
	}
	return out
}

// LastAttacker returns the instance ID and slot of the most recent attacker.
func (b *Board) LastAttacker() (id int, pos minion.Position, ok bool) {
	if b.last == nil {
		return 0, 0, false
	}
	return b.last.id, b.last.position, true
}
