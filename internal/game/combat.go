package game

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/magefree/sbb-sim/internal/game/minion"
	"github.com/magefree/sbb-sim/internal/game/rules"
)

// lastAttackerKey sorts the previous attacker behind every other minion.
const lastAttackerKey = minion.NumPositions * 3

// Attack makes one attack against the opponent. It does nothing when no
// minion on this board can attack.
func (b *Board) Attack(opponent *Board) error {
	if !b.HasAttacker() {
		return nil
	}

	attacker, err := b.selectAttacker()
	if err != nil {
		return err
	}
	shape := attacker.Shape()

	b.logger.Debug("attack declared",
		zap.String("attacker", attacker.Name()),
		zap.Int("position", int(attacker.Position)),
		zap.Int("amount", shape.Amount),
		zap.Bool("ranged", shape.Ranged),
		zap.Bool("flying", shape.Flying),
	)
	b.publish(rules.Event{
		Type:     rules.EventAttackDeclared,
		MinionID: attacker.ID,
		Species:  attacker.Name(),
		Position: int(attacker.Position),
		Amount:   shape.Amount,
		Flag:     shape.Ranged,
	})

	reflected, err := opponent.ReceiveAttack(shape)
	if err != nil {
		return fmt.Errorf("side %s attacking with %s: %w", b.side, attacker.Name(), err)
	}
	if shape.Ranged {
		b.publish(rules.Event{
			Type:     rules.EventDamageReflect,
			MinionID: attacker.ID,
			Species:  attacker.Name(),
			Position: int(attacker.Position),
			Amount:   reflected,
		})
	}
	b.damage(attacker, reflected)
	b.last = &attackRecord{id: attacker.ID, position: attacker.Position}

	return b.resolveEffects()
}

// ReceiveAttack resolves an incoming attack against a defender chosen from
// this board and returns the damage reflected onto the attacker: the
// defender's attack after damage when the attack was ranged, otherwise zero.
func (b *Board) ReceiveAttack(shape minion.AttackShape) (int, error) {
	if !b.HasMinions() {
		return 0, fmt.Errorf("side %s: receive attack: %w", b.side, ErrNoMinions)
	}

	defender := b.selectDefender(shape)
	b.publish(rules.Event{
		Type:     rules.EventDefenderChosen,
		MinionID: defender.ID,
		Species:  defender.Name(),
		Position: int(defender.Position),
		Flag:     shape.Flying,
	})
	b.damage(defender, shape.Amount)

	if err := b.resolveEffects(); err != nil {
		return 0, err
	}
	if shape.Ranged {
		return defender.Attack, nil
	}
	return 0, nil
}

// attackPriority orders attackers: lowest key attacks first. Slots at or after
// the last attacker's slot come before the slots that wrap around, and the
// last attacker itself comes last.
func (b *Board) attackPriority(u *unit) int {
	from := minion.Position(0)
	if b.last != nil {
		if u.ID == b.last.id {
			return lastAttackerKey
		}
		from = b.last.position
	}
	if u.Position >= from {
		return int(u.Position)
	}
	return int(u.Position) + minion.NumPositions
}

func (b *Board) selectAttacker() (*unit, error) {
	candidates := b.ordered()
	sort.SliceStable(candidates, func(i, j int) bool {
		return b.attackPriority(candidates[i]) < b.attackPriority(candidates[j])
	})
	for _, u := range candidates {
		if u.CanAttack() {
			return u, nil
		}
	}
	return nil, fmt.Errorf("side %s: %w", b.side, ErrNoAttacker)
}

// selectDefender picks uniformly among the front row, or among the back row
// when the front row is empty or a flying attack can reach it.
func (b *Board) selectDefender(shape minion.AttackShape) *unit {
	var front, back []*unit
	for _, u := range b.ordered() {
		if u.Position.IsFront() {
			front = append(front, u)
		} else {
			back = append(back, u)
		}
	}

	var pool []*unit
	switch {
	case len(front) == 0:
		pool = back
	case len(back) == 0 || !shape.Flying:
		pool = front
	default:
		pool = back
	}
	return pool[b.env.Rng.Intn(len(pool))]
}
