package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/sbb-sim/internal/catalog"
	"github.com/magefree/sbb-sim/internal/game/abilities"
	"github.com/magefree/sbb-sim/internal/game/minion"
	"github.com/magefree/sbb-sim/internal/game/rules"
)

func TestBoardDuplicatePositionKeepsFirst(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA,
		At(h.Species(abilities.Cat), 2),
		At(h.Species(abilities.HappyLittleTree), 2),
	)

	require.Len(t, b.Minions(), 1)
	assert.Equal(t, abilities.Cat, b.Minion(2).Name())
	assert.True(t, b.HasMinions())
}

func TestBoardRejectsInvalidPosition(t *testing.T) {
	h := NewBoardHarness(t, 1)
	_, err := NewBoard(h.env, SideA, []Placement{At(h.Species(abilities.Cat), minion.NumPositions)}, h.catalog)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = NewBoard(h.env, SideA, []Placement{{Position: 1}}, h.catalog)
	assert.Error(t, err)
}

func TestBoardEmpty(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideB)
	assert.False(t, b.HasMinions())
	assert.False(t, b.HasAttacker())
	assert.Empty(t, b.Minions())
}

func TestAdjacencyAuraAppliedOnce(t *testing.T) {
	h := NewBoardHarness(t, 1)
	grunt := h.Custom("Grunt", 2, 2)
	b := h.Board(SideA,
		At(h.Species(abilities.MadMim), 4),
		At(grunt, 0),
		At(grunt, 1),
		At(grunt, 2),
	)

	h.AssertStats(b, 0, 5, 2)
	h.AssertStats(b, 1, 5, 2)
	h.AssertStats(b, 2, 2, 2)
	h.AssertStats(b, 4, 0, 3)
	assert.Len(t, h.EventsOfType(rules.EventSupportGiven), 2)
}

func TestAdjacencyAuraStacksPerSource(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA,
		At(h.Species(abilities.MadMim), 4),
		At(h.Species(abilities.MadMim), 5),
		At(h.Custom("Grunt", 1, 1), 1),
	)

	h.AssertStats(b, 1, 7, 1)
}

func TestAdjacencyAuraFromFrontRowGrantsNothing(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA,
		At(h.Species(abilities.MadMim), 0),
		At(h.Custom("Grunt", 2, 2), 4),
		At(h.Custom("Grunt", 2, 2), 1),
	)

	h.AssertStats(b, 4, 2, 2)
	h.AssertStats(b, 1, 2, 2)
	assert.Empty(t, h.EventsOfType(rules.EventSupportGiven))
}

func TestAlignmentAura(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA,
		At(h.Species(abilities.RainbowUnicorn), 0),
		At(h.Species(abilities.HappyLittleTree), 1),
		At(h.Species(abilities.Cat), 2),
		At(h.Species(abilities.RainbowUnicorn), 3),
	)

	h.AssertStats(b, 0, 2, 3)
	h.AssertStats(b, 1, 1, 3)
	h.AssertStats(b, 2, 1, 1)
	h.AssertStats(b, 3, 2, 3)
}

func TestAuraNeverReachesSpawnedMinion(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA,
		At(h.Species(abilities.MadMim), 4),
		At(h.Species(abilities.BlackCat), 0),
	)
	h.AssertStats(b, 0, 4, 1)

	reflected, err := b.ReceiveAttack(minion.AttackShape{Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, reflected)

	cat := b.Minion(0)
	require.NotNil(t, cat)
	assert.Equal(t, abilities.Cat, cat.Name())
	h.AssertStats(b, 0, 1, 1)
	h.AssertStats(b, 4, 0, 3)
}

// mimEgg hatches a Mad Mim in its slot when it dies.
type mimEgg struct{ abilities.Base }

func (mimEgg) OnDeath(self *minion.Instance) abilities.DeathAction {
	at := self.Position
	return func(board abilities.Spawner) error {
		return board.Spawn(abilities.MadMim, at)
	}
}

func (mimEgg) Summons() []string { return []string{abilities.MadMim} }

func TestSpawnedMinionNeverGrantsAura(t *testing.T) {
	abilities.Register("Mim Egg", mimEgg{})

	h := NewBoardHarness(t, 1)
	b := h.Board(SideA,
		At(h.Custom("Mim Egg", 0, 1), 4),
		At(h.Custom("Grunt", 2, 2), 0),
		At(h.Custom("Grunt", 2, 2), 1),
	)
	h.ClearEvents()

	_, err := b.ReceiveAttack(minion.AttackShape{Amount: 5, Flying: true})
	require.NoError(t, err)

	mim := b.Minion(4)
	require.NotNil(t, mim)
	assert.Equal(t, abilities.MadMim, mim.Name())
	h.AssertStats(b, 4, 0, 3)
	h.AssertStats(b, 0, 2, 2)
	h.AssertStats(b, 1, 2, 2)
	assert.Len(t, h.EventsOfType(rules.EventMinionSpawned), 1)
	assert.Empty(t, h.EventsOfType(rules.EventSupportGiven))
}

// idleBanner claims every ally but grants nothing.
type idleBanner struct{ abilities.Base }

func (idleBanner) Support(*minion.Instance) (minion.Bonus, abilities.Predicate) {
	return minion.Bonus{}, func(*minion.Instance) bool { return true }
}

func TestZeroBonusAuraIsSkipped(t *testing.T) {
	abilities.Register("Idle Banner", idleBanner{})

	h := NewBoardHarness(t, 1)
	b := h.Board(SideA,
		At(h.Custom("Idle Banner", 1, 1), 4),
		At(h.Custom("Grunt", 2, 2), 0),
	)

	assert.Empty(t, h.EventsOfType(rules.EventSupportGiven))
	h.AssertStats(b, 0, 2, 2)
}

func TestRemovalDoesNotRetractAura(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA,
		At(h.Species(abilities.RainbowUnicorn), 4),
		At(h.Species(abilities.HappyLittleTree), 0),
	)
	h.AssertStats(b, 0, 1, 2)

	_, err := b.ReceiveAttack(minion.AttackShape{Amount: 3, Flying: true})
	require.NoError(t, err)

	h.AssertEmpty(b, 4)
	h.AssertStats(b, 0, 1, 2)
}

func TestDeathHookRunsAfterRemoval(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA, At(h.Species(abilities.BlackCat), 2))
	original := b.Minion(2)
	require.NotNil(t, original)
	h.ClearEvents()

	triggered := 0
	h.env.Bus.SubscribeTyped(rules.EventDeathTriggered, func(e rules.Event) {
		triggered++
		assert.Nil(t, b.Minion(2), "dying minion must be gone before its hook runs")
		assert.Equal(t, 2, e.Position)
	})

	_, err := b.ReceiveAttack(minion.AttackShape{Amount: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, triggered)
	var order []rules.EventType
	for _, e := range h.events {
		switch e.Type {
		case rules.EventMinionDied, rules.EventDeathTriggered, rules.EventMinionSpawned:
			order = append(order, e.Type)
		}
	}
	assert.Equal(t, []rules.EventType{rules.EventMinionDied, rules.EventDeathTriggered, rules.EventMinionSpawned}, order)

	replacement := b.Minion(2)
	require.NotNil(t, replacement)
	assert.Equal(t, abilities.Cat, replacement.Name())
	assert.NotEqual(t, original.ID, replacement.ID)
	for _, m := range b.Minions() {
		assert.NotSame(t, original, m)
	}

	// the Cat has no hook of its own
	_, err = b.ReceiveAttack(minion.AttackShape{Amount: 2})
	require.NoError(t, err)
	h.AssertEmpty(b, 2)
	assert.False(t, b.HasMinions())
	assert.Equal(t, 1, triggered)
}

func TestZeroHealthIsAlive(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA, At(h.Species(abilities.BlackCat), 2))

	_, err := b.ReceiveAttack(minion.AttackShape{Amount: 1})
	require.NoError(t, err)

	h.AssertStats(b, 2, 1, 0)
	assert.Equal(t, abilities.BlackCat, b.Minion(2).Name())
	assert.Empty(t, h.EventsOfType(rules.EventMinionDied))
}

func TestDefenderSelection(t *testing.T) {
	tests := []struct {
		name      string
		positions []minion.Position
		flying    bool
		wantFront bool
	}{
		{name: "melee hits front row", positions: []minion.Position{0, 3, 4, 6}, wantFront: true},
		{name: "flying hits back row", positions: []minion.Position{0, 3, 4, 6}, flying: true, wantFront: false},
		{name: "melee reaches back row when front is empty", positions: []minion.Position{5, 6}, wantFront: false},
		{name: "flying falls back to front row", positions: []minion.Position{1, 2}, flying: true, wantFront: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBoardHarness(t, 42)
			placements := make([]Placement, 0, len(tt.positions))
			for _, pos := range tt.positions {
				placements = append(placements, At(h.Custom("Dummy", 0, 10), pos))
			}
			b := h.Board(SideB, placements...)

			for i := 0; i < 50; i++ {
				_, err := b.ReceiveAttack(minion.AttackShape{Amount: 0, Flying: tt.flying})
				require.NoError(t, err)
			}

			chosen := h.EventsOfType(rules.EventDefenderChosen)
			require.Len(t, chosen, 50)
			for _, e := range chosen {
				assert.Equal(t, tt.wantFront, minion.Position(e.Position).IsFront(), "defender at %d", e.Position)
			}
		})
	}
}

func TestDefenderSelectionIsSpreadOverEligible(t *testing.T) {
	h := NewBoardHarness(t, 7)
	b := h.Board(SideB,
		At(h.Custom("Dummy", 0, 10), 0),
		At(h.Custom("Dummy", 0, 10), 3),
		At(h.Custom("Dummy", 0, 10), 5),
	)

	for i := 0; i < 200; i++ {
		_, err := b.ReceiveAttack(minion.AttackShape{})
		require.NoError(t, err)
	}

	counts := map[int]int{}
	for _, e := range h.EventsOfType(rules.EventDefenderChosen) {
		counts[e.Position]++
	}
	assert.Positive(t, counts[0])
	assert.Positive(t, counts[3])
	assert.Zero(t, counts[5])
}

func TestRangedAttackerTakesReflectedDamage(t *testing.T) {
	h := NewBoardHarness(t, 1)
	a := h.Board(SideA, At(h.Custom("Archer", 3, 5, ranged), 0))
	b := h.Board(SideB, At(h.Custom("Grunt", 2, 1), 0))

	require.NoError(t, a.Attack(b))

	assert.False(t, b.HasMinions())
	h.AssertStats(a, 0, 3, 3)
	assert.Len(t, h.EventsOfType(rules.EventDamageReflect), 1)
}

func TestMeleeAttackerTakesNoDamage(t *testing.T) {
	h := NewBoardHarness(t, 1)
	a := h.Board(SideA, At(h.Custom("Brute", 3, 5), 0))
	b := h.Board(SideB, At(h.Custom("Grunt", 2, 10), 0))

	require.NoError(t, a.Attack(b))

	h.AssertStats(a, 0, 3, 5)
	h.AssertStats(b, 0, 2, 7)
	assert.Empty(t, h.EventsOfType(rules.EventDamageReflect))
}

func TestRangedAttackerCanDieFromReflection(t *testing.T) {
	h := NewBoardHarness(t, 1)
	a := h.Board(SideA, At(h.Custom("Archer", 1, 0, ranged), 0))
	b := h.Board(SideB, At(h.Custom("Spiker", 1, 100), 0))

	require.NoError(t, a.Attack(b))

	assert.False(t, a.HasMinions())
	_, pos, ok := a.LastAttacker()
	assert.True(t, ok)
	assert.Equal(t, minion.Position(0), pos)
}

func TestAttackerRotation(t *testing.T) {
	h := NewBoardHarness(t, 1)
	grunt := h.Custom("Grunt", 1, 100)
	a := h.Board(SideA, At(grunt, 5), At(grunt, 0), At(grunt, 2))

	got := h.AttackerPositions(a, h.Wall(SideB), 6)
	assert.Equal(t, []minion.Position{0, 2, 5, 0, 2, 5}, got)
}

func TestAttackerRotationWrapsAround(t *testing.T) {
	h := NewBoardHarness(t, 1)
	grunt := h.Custom("Grunt", 1, 100)
	a := h.Board(SideA, At(grunt, 1), At(grunt, 5))
	a.last = &attackRecord{id: -1, position: 3}

	got := h.AttackerPositions(a, h.Wall(SideB), 3)
	assert.Equal(t, []minion.Position{5, 1, 5}, got)
}

func TestAttackerSkipsMinionsWithoutAttack(t *testing.T) {
	h := NewBoardHarness(t, 1)
	a := h.Board(SideA,
		At(h.Custom("Grunt", 1, 100), 1),
		At(h.Custom("Pacifist", 0, 100), 2),
		At(h.Custom("Grunt", 1, 100), 4),
	)

	got := h.AttackerPositions(a, h.Wall(SideB), 3)
	assert.Equal(t, []minion.Position{1, 4, 1}, got)
}

func TestLastAttackerRepeatsOnlyWhenAlone(t *testing.T) {
	h := NewBoardHarness(t, 1)
	a := h.Board(SideA,
		At(h.Custom("Pacifist", 0, 100), 1),
		At(h.Custom("Grunt", 1, 100), 3),
	)

	got := h.AttackerPositions(a, h.Wall(SideB), 3)
	assert.Equal(t, []minion.Position{3, 3, 3}, got)
}

func TestDeadLastAttackerKeepsItsSlotForOrdering(t *testing.T) {
	h := NewBoardHarness(t, 1)
	grunt := h.Custom("Grunt", 1, 100)
	a := h.Board(SideA,
		At(grunt, 1),
		At(h.Custom("Archer", 1, 0, ranged), 3),
		At(grunt, 5),
	)
	b := h.Board(SideB, At(h.Custom("Spiker", 5, 1000), 0))

	got := h.AttackerPositions(a, b, 4)
	assert.Equal(t, []minion.Position{1, 3, 5, 1}, got)
	h.AssertEmpty(a, 3)
}

func TestAttackWithoutAttackerIsNoop(t *testing.T) {
	h := NewBoardHarness(t, 1)
	a := h.Board(SideA, At(h.Custom("Pacifist", 0, 5), 0))
	b := h.Board(SideB, At(h.Custom("Grunt", 1, 1), 0))
	h.ClearEvents()

	require.NoError(t, a.Attack(b))

	_, _, ok := a.LastAttacker()
	assert.False(t, ok)
	assert.Empty(t, h.events)
}

func TestReceiveAttackOnEmptyBoard(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideB)

	_, err := b.ReceiveAttack(minion.AttackShape{Amount: 1})
	assert.ErrorIs(t, err, ErrNoMinions)
}

func TestSelectAttackerFault(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA, At(h.Custom("Pacifist", 0, 5), 0))

	_, err := b.selectAttacker()
	assert.ErrorIs(t, err, ErrNoAttacker)
}

func TestSummonedSpeciesMustResolve(t *testing.T) {
	h := NewBoardHarness(t, 1)
	blackCat := h.Species(abilities.BlackCat)

	_, err := NewBoard(h.env, SideA, []Placement{At(blackCat, 0)}, nil)
	assert.ErrorIs(t, err, ErrNoTemplate)

	partial, err := catalog.New(*blackCat)
	require.NoError(t, err)
	_, err = NewBoard(h.env, SideA, []Placement{At(blackCat, 0)}, partial)
	assert.ErrorIs(t, err, catalog.ErrUnknownSpecies)

	// a Cat already on the roster is enough
	_, err = NewBoard(h.env, SideA, []Placement{At(blackCat, 0), At(h.Species(abilities.Cat), 1)}, nil)
	assert.NoError(t, err)
}

func TestSpawnIntoOccupiedSlotIsIgnored(t *testing.T) {
	h := NewBoardHarness(t, 1)
	b := h.Board(SideA, At(h.Species(abilities.HappyLittleTree), 0))

	require.NoError(t, b.Spawn(abilities.Cat, 0))
	assert.Equal(t, abilities.HappyLittleTree, b.Minion(0).Name())

	require.NoError(t, b.Spawn(abilities.Cat, 6))
	assert.Equal(t, abilities.Cat, b.Minion(6).Name())

	assert.ErrorIs(t, b.Spawn("Nobody", 5), catalog.ErrUnknownSpecies)
}
