// Package abilities maps minion species to their support and death behavior.
package abilities

import (
	"sync"

	"github.com/magefree/sbb-sim/internal/game/minion"
)

// Predicate decides whether a minion is eligible for a support bonus.
type Predicate func(target *minion.Instance) bool

// Spawner places new minions on the board that owns the dying minion.
type Spawner interface {
	Spawn(species string, at minion.Position) error
}

// DeathAction runs after its minion has been removed from the board.
type DeathAction func(board Spawner) error

// Behavior is the per-species capability set. Both hooks must be safe to call
// on any instance of the species and must not depend on mutable state outside
// the instance they are given.
type Behavior interface {
	// Support returns the bonus the minion grants and which minions on its own
	// board receive it. It is evaluated once, when the board is built.
	Support(self *minion.Instance) (minion.Bonus, Predicate)

	// OnDeath captures the follow-up action for a dying minion, or nil.
	OnDeath(self *minion.Instance) DeathAction
}

// Summoner is implemented by behaviors whose death actions create minions,
// so boards can resolve the replacement templates before a match starts.
type Summoner interface {
	Summons() []string
}

// Base is a Behavior that does nothing.
type Base struct{}

func (Base) Support(*minion.Instance) (minion.Bonus, Predicate) {
	return minion.Bonus{}, none
}

func (Base) OnDeath(*minion.Instance) DeathAction {
	return nil
}

func none(*minion.Instance) bool { return false }

var (
	mu       sync.RWMutex
	registry = make(map[string]Behavior)
)

// Register binds a species name to its behavior, replacing any previous binding.
func Register(species string, b Behavior) {
	mu.Lock()
	defer mu.Unlock()
	registry[species] = b
}

// Lookup returns the behavior for a species, or Base when none is registered.
func Lookup(species string) Behavior {
	mu.RLock()
	defer mu.RUnlock()
	if b, ok := registry[species]; ok {
		return b
	}
	return Base{}
}

// Summons lists the species a behavior may spawn.
func Summons(b Behavior) []string {
	if s, ok := b.(Summoner); ok {
		return s.Summons()
	}
	return nil
}
