package game

import "errors"

var (
	// ErrNoAttacker means an attack was authorized but no minion could be
	// selected to make it. HasAttacker and attacker selection disagree.
	ErrNoAttacker = errors.New("no eligible attacker")

	// ErrUndecided means the match was terminal but no verdict matched.
	// IsTerminal and Verdict disagree.
	ErrUndecided = errors.New("terminal match has no verdict")

	// ErrNoMinions means an attack was sent to a board with nothing on it.
	ErrNoMinions = errors.New("board has no minions")

	// ErrInvalidPosition means a roster placed a minion outside the board.
	ErrInvalidPosition = errors.New("invalid board position")

	// ErrNoTemplate means a death hook wants to spawn a species the board
	// cannot resolve.
	ErrNoTemplate = errors.New("no template for species")
)
