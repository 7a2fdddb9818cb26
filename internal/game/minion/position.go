package minion

import "fmt"

// NumPositions is the number of board slots per side.
const NumPositions = 7

// Position identifies a board slot. Slots 0-3 form the front row and 4-6 the back row.
type Position int

var (
	frontRow = []Position{0, 1, 2, 3}
	backRow  = []Position{4, 5, 6}

	// inFrontOf maps each back-row slot to the front-row slots directly ahead of it.
	inFrontOf = map[Position][]Position{
		4: {0, 1},
		5: {1, 2},
		6: {2, 3},
	}
)

// Valid reports whether p is a slot on the board.
func (p Position) Valid() bool {
	return p >= 0 && p < NumPositions
}

// IsFront reports whether p is a front-row slot.
func (p Position) IsFront() bool {
	return p >= 0 && p <= 3
}

// IsBack reports whether p is a back-row slot.
func (p Position) IsBack() bool {
	return p >= 4 && p < NumPositions
}

// InFrontOf returns the front-row slots directly ahead of p.
// Front-row slots have nothing in front of them.
func (p Position) InFrontOf() []Position {
	return inFrontOf[p]
}

// IsInFrontOf reports whether p is one of the slots directly ahead of other.
func (p Position) IsInFrontOf(other Position) bool {
	for _, ahead := range inFrontOf[other] {
		if ahead == p {
			return true
		}
	}
	return false
}

func (p Position) String() string {
	return fmt.Sprintf("%d", int(p))
}

// FrontRow returns the front-row slots in ascending order.
func FrontRow() []Position {
	out := make([]Position, len(frontRow))
	copy(out, frontRow)
	return out
}

// BackRow returns the back-row slots in ascending order.
func BackRow() []Position {
	out := make([]Position, len(backRow))
	copy(out, backRow)
	return out
}
