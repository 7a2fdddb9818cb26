package game

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/sbb-sim/internal/game/rules"
)

// Outcome is the match result from side A's point of view.
type Outcome float64

const (
	Loss Outcome = 0
	Draw Outcome = 0.5
	Win  Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case Loss:
		return "LOSS"
	case Draw:
		return "DRAW"
	case Win:
		return "WIN"
	default:
		return fmt.Sprintf("Outcome(%g)", float64(o))
	}
}

// Match alternates attacks between two boards until one side is eliminated
// or neither side can attack.
type Match struct {
	id     string
	env    *Env
	a, b   *Board
	order  [2][2]*Board // (active, passive) pairs
	next   int
	turns  int
	logger *zap.Logger
}

// NewMatch pairs two boards built with the same env. The side that acts
// first is drawn from the env's random source.
func NewMatch(env *Env, a, b *Board) *Match {
	if env == nil {
		env = NewEnv(0, nil)
	}
	m := &Match{
		id:    uuid.NewString(),
		env:   env,
		a:     a,
		b:     b,
		order: [2][2]*Board{{a, b}, {b, a}},
	}
	m.logger = env.logger().With(zap.String("match_id", m.id))
	if env.Rng.Intn(2) == 1 {
		m.next = 1
	}
	return m
}

// ID returns the match identifier used in logs.
func (m *Match) ID() string {
	return m.id
}

// Turns returns how many attack turns have been taken.
func (m *Match) Turns() int {
	return m.turns
}

// Active returns the board scheduled to act next.
func (m *Match) Active() *Board {
	return m.order[m.next][0]
}

// IsTerminal reports whether a verdict can be computed.
func (m *Match) IsTerminal() bool {
	return !m.a.HasMinions() || !m.b.HasMinions() ||
		(!m.a.HasAttacker() && !m.b.HasAttacker())
}

// Verdict computes the outcome of a terminal match.
func (m *Match) Verdict() (Outcome, error) {
	switch {
	case !m.a.HasMinions() && !m.b.HasMinions():
		return Draw, nil
	case !m.a.HasMinions():
		return Loss, nil
	case !m.b.HasMinions():
		return Win, nil
	case !m.a.HasAttacker() && !m.b.HasAttacker():
		return Draw, nil
	default:
		return 0, fmt.Errorf("match %s after %d turns: %w", m.id, m.turns, ErrUndecided)
	}
}

// Run plays the match to the end. Any error is an internal fault and the
// match is abandoned.
func (m *Match) Run() (Outcome, error) {
	m.env.Bus.Publish(rules.Event{Type: rules.EventMatchStarted, Side: m.Active().Side()})
	m.logger.Debug("match started", zap.String("first", m.Active().Side()))

	for !m.IsTerminal() {
		active, passive := m.order[m.next][0], m.order[m.next][1]
		if err := active.Attack(passive); err != nil {
			m.logger.Error("match aborted", zap.Int("turn", m.turns), zap.Error(err))
			return 0, fmt.Errorf("match %s turn %d: %w", m.id, m.turns, err)
		}
		m.turns++
		m.next = 1 - m.next
		m.env.Bus.Publish(rules.Event{Type: rules.EventTurnPassed, Side: active.Side(), Amount: m.turns})
	}

	outcome, err := m.Verdict()
	if err != nil {
		m.logger.Error("match aborted", zap.Error(err))
		return 0, err
	}
	m.env.Bus.Publish(rules.Event{Type: rules.EventMatchEnded, Amount: m.turns, Description: outcome.String()})
	m.logger.Debug("match ended",
		zap.Stringer("outcome", outcome),
		zap.Int("turns", m.turns),
	)
	return outcome, nil
}

// Result summarizes a finished match.
type Result struct {
	MatchID  string
	Outcome  Outcome
	Turns    int
	Snapshot *Snapshot
}

// Play builds both boards from their rosters and runs the match.
func Play(env *Env, catalog TemplateSource, rosterA, rosterB []RosterEntry) (Result, error) {
	if env == nil {
		env = NewEnv(0, nil)
	}
	placementsA, err := ResolveRoster(catalog, rosterA)
	if err != nil {
		return Result{}, fmt.Errorf("roster A: %w", err)
	}
	placementsB, err := ResolveRoster(catalog, rosterB)
	if err != nil {
		return Result{}, fmt.Errorf("roster B: %w", err)
	}

	a, err := NewBoard(env, SideA, placementsA, catalog)
	if err != nil {
		return Result{}, err
	}
	b, err := NewBoard(env, SideB, placementsB, catalog)
	if err != nil {
		return Result{}, err
	}

	m := NewMatch(env, a, b)
	outcome, err := m.Run()
	if err != nil {
		return Result{}, err
	}
	return Result{
		MatchID:  m.ID(),
		Outcome:  outcome,
		Turns:    m.Turns(),
		Snapshot: m.Snapshot(),
	}, nil
}
