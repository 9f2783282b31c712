// Package rules layers game-over detection, scoring and child generation on
// top of the board model. Nothing here mutates the board it is given except
// where noted.
package rules

import (
	"github.com/brensch/othello/game"
)

// Child is a position reached from a parent by a single placement.
type Child struct {
	Move  game.Move
	Board *game.Board
}

// CanMove reports whether c has at least one legal placement.
func CanMove(b *game.Board, c game.Color) bool {
	return b.HasLegalMove(c)
}

// IsTerminal returns true when neither side can move. A position where only
// the side to move is blocked is not terminal: that side passes.
func IsTerminal(b *game.Board) bool {
	return !b.HasLegalMove(b.Side) && !b.HasLegalMove(b.Side.Opponent())
}

// MaterialScore is the Black disc count minus the White disc count.
// Positive favors Black.
func MaterialScore(b *game.Board) int {
	return b.Count(game.Black) - b.Count(game.White)
}

// Winner returns the color with more discs, or Empty on a tie.
func Winner(b *game.Board) game.Color {
	switch s := MaterialScore(b); {
	case s > 0:
		return game.Black
	case s < 0:
		return game.White
	default:
		return game.Empty
	}
}

// Outcome is the end-of-game banner text.
func Outcome(b *game.Board) string {
	switch Winner(b) {
	case game.Black:
		return "Black Wins"
	case game.White:
		return "White Wins"
	default:
		return "Tie"
	}
}

// Children expands every legal placement of the side to move, in row-major
// order. Each child is an independent clone with the side already switched.
// A blocked side yields no children.
func Children(b *game.Board) []Child {
	moves := b.LegalMoves(b.Side)
	out := make([]Child, 0, len(moves))
	for _, p := range moves {
		next := b.Clone()
		// LegalMoves only returns placements ApplyMove accepts.
		_ = next.ApplyMove(p.Row, p.Col, b.Side)
		next.SwitchSide()
		out = append(out, Child{
			Move:  game.Move{Color: b.Side, Row: p.Row, Col: p.Col},
			Board: next,
		})
	}
	return out
}

// NextState returns the position after the side to move plays p.
func NextState(b *game.Board, p game.Point) (*game.Board, error) {
	next := b.Clone()
	if err := next.ApplyMove(p.Row, p.Col, b.Side); err != nil {
		return nil, err
	}
	next.SwitchSide()
	return next, nil
}

// PassState returns the position with the turn handed to the opponent and
// nothing placed.
func PassState(b *game.Board) *game.Board {
	next := b.Clone()
	next.SwitchSide()
	return next
}
