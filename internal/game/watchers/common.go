package watchers

import (
	"github.com/magefree/sbb-sim/internal/game/rules"
)

// MinionsDiedWatcher counts minions that died on each side.
type MinionsDiedWatcher struct {
	*rules.BaseWatcher
	diedBySide    map[string]int
	diedBySpecies map[string]int
}

// NewMinionsDiedWatcher creates a new minions died watcher.
func NewMinionsDiedWatcher() *MinionsDiedWatcher {
	w := &MinionsDiedWatcher{
		BaseWatcher:   rules.NewBaseWatcher(rules.WatcherScopeMatch),
		diedBySide:    make(map[string]int),
		diedBySpecies: make(map[string]int),
	}
	w.SetKey("MinionsDiedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *MinionsDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventMinionDied {
		return
	}
	w.diedBySide[event.Side]++
	if event.Species != "" {
		w.diedBySpecies[event.Species]++
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *MinionsDiedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.diedBySide = make(map[string]int)
	w.diedBySpecies = make(map[string]int)
}

// GetCount returns the number of minions that died on a side.
func (w *MinionsDiedWatcher) GetCount(side string) int {
	return w.diedBySide[side]
}

// GetSpeciesCount returns how many minions of a species died across both sides.
func (w *MinionsDiedWatcher) GetSpeciesCount(species string) int {
	return w.diedBySpecies[species]
}

// AttacksWatcher tracks which minions attacked for each side.
type AttacksWatcher struct {
	*rules.BaseWatcher
	attackers map[string][]int // side -> attacker instance IDs in order
}

// NewAttacksWatcher creates a new attacks watcher.
func NewAttacksWatcher() *AttacksWatcher {
	w := &AttacksWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeMatch),
		attackers:   make(map[string][]int),
	}
	w.SetKey("AttacksWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *AttacksWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventAttackDeclared || event.MinionID == 0 {
		return
	}
	w.attackers[event.Side] = append(w.attackers[event.Side], event.MinionID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *AttacksWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.attackers = make(map[string][]int)
}

// GetAttackers returns the attacker IDs of a side in the order they attacked.
func (w *AttacksWatcher) GetAttackers(side string) []int {
	return w.attackers[side]
}

// GetCount returns the number of attacks made by a side.
func (w *AttacksWatcher) GetCount(side string) int {
	return len(w.attackers[side])
}

// DamageTakenWatcher sums the damage dealt to one side's minions, including
// reflected damage. Its condition is met once the side has taken any damage.
type DamageTakenWatcher struct {
	*rules.BaseWatcher
	total int
	hits  int
}

// NewDamageTakenWatcher creates a watcher scoped to one side.
func NewDamageTakenWatcher(side string) *DamageTakenWatcher {
	w := &DamageTakenWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeSide),
	}
	w.SetSide(side)
	w.SetKey("DamageTakenWatcher:" + side)
	return w
}

// Watch implements the Watcher interface.
func (w *DamageTakenWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDamageDealt || event.Side != w.GetSide() {
		return
	}
	if event.Amount <= 0 {
		return
	}
	w.total += event.Amount
	w.hits++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DamageTakenWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.total = 0
	w.hits = 0
}

// GetTotal returns the total damage taken.
func (w *DamageTakenWatcher) GetTotal() int {
	return w.total
}

// GetHits returns how many damaging hits were taken.
func (w *DamageTakenWatcher) GetHits() int {
	return w.hits
}
