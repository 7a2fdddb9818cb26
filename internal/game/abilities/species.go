package abilities

import "github.com/magefree/sbb-sim/internal/game/minion"

const (
	MadMim          = "Mad Mim"
	RainbowUnicorn  = "Rainbow Unicorn"
	BlackCat        = "Black Cat"
	Cat             = "Cat"
	HappyLittleTree = "Happy Little Tree"
)

func init() {
	Register(MadMim, madMim{})
	Register(RainbowUnicorn, rainbowUnicorn{})
	Register(BlackCat, blackCat{})
	Register(Cat, Base{})
	Register(HappyLittleTree, Base{})
}

// madMim gives +3 attack to the minions directly in front of it.
type madMim struct{ Base }

func (madMim) Support(self *minion.Instance) (minion.Bonus, Predicate) {
	from := self.Position
	return minion.Bonus{Attack: 3}, func(target *minion.Instance) bool {
		return target.Position.IsInFrontOf(from)
	}
}

// rainbowUnicorn gives +1 health to every other Good minion.
type rainbowUnicorn struct{ Base }

func (rainbowUnicorn) Support(self *minion.Instance) (minion.Bonus, Predicate) {
	id := self.ID
	return minion.Bonus{Health: 1}, func(target *minion.Instance) bool {
		return target.Template.Alignment == minion.AlignmentGood && target.ID != id
	}
}

// blackCat leaves a Cat behind in its slot.
type blackCat struct{ Base }

func (blackCat) OnDeath(self *minion.Instance) DeathAction {
	at := self.Position
	return func(board Spawner) error {
		return board.Spawn(Cat, at)
	}
}

func (blackCat) Summons() []string {
	return []string{Cat}
}
