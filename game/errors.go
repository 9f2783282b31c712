package game

import "errors"

var (
	// ErrPreconditionFailed is returned when a move is attempted at a cell
	// that is not a legal placement for the moving color. The board is left
	// untouched; callers should re-query legal moves.
	ErrPreconditionFailed = errors.New("move precondition failed")
	ErrOutOfBounds        = errors.New("coordinate out of bounds")
	ErrInvalidPosition    = errors.New("invalid position")
)
