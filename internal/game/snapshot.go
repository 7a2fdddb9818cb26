package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// MinionSnapshot is a copy of one minion's combat state.
type MinionSnapshot struct {
	ID       int
	Species  string
	Position int
	Attack   int
	Health   int
}

// BoardSnapshot is a copy of one side's state.
type BoardSnapshot struct {
	Side           string
	Minions        []MinionSnapshot // position order
	LastAttackerID int              // 0 = none
	LastAttackerAt int
}

// Snapshot captures both boards of a match.
type Snapshot struct {
	Turns  int
	Active string
	A, B   BoardSnapshot
}

// Snapshot copies the board's current state.
func (b *Board) Snapshot() BoardSnapshot {
	snap := BoardSnapshot{Side: b.side}
	for _, u := range b.ordered() {
		snap.Minions = append(snap.Minions, MinionSnapshot{
			ID:       u.ID,
			Species:  u.Name(),
			Position: int(u.Position),
			Attack:   u.Attack,
			Health:   u.Health,
		})
	}
	if b.last != nil {
		snap.LastAttackerID = b.last.id
		snap.LastAttackerAt = int(b.last.position)
	}
	return snap
}

// Snapshot copies the state of the whole match.
func (m *Match) Snapshot() *Snapshot {
	return &Snapshot{
		Turns:  m.turns,
		Active: m.Active().Side(),
		A:      m.a.Snapshot(),
		B:      m.b.Snapshot(),
	}
}

// Checksum returns the SHA-256 of a canonical rendering of the snapshot.
// Two matches with the same rosters and seed end with the same checksum.
func (s *Snapshot) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

func (s *Snapshot) canonical() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("MATCH:%d|%s\n", s.Turns, s.Active))
	for _, board := range []BoardSnapshot{s.A, s.B} {
		buf.WriteString(fmt.Sprintf("BOARD:%s|%d|%d\n", board.Side, board.LastAttackerID, board.LastAttackerAt))
		for _, m := range board.Minions {
			buf.WriteString(fmt.Sprintf("  MINION:%d|%s|%d|%d|%d\n", m.ID, m.Species, m.Position, m.Attack, m.Health))
		}
	}
	return buf.String()
}
