package game

import (
	"fmt"
	"math/bits"
)

// directions are the eight compass steps, shared by move generation and
// capture resolution.
var directions = [8]struct{ dr, dc int }{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// flipMask returns the set of discs that placing c at (row, col) would flip.
// A zero mask means the placement outflanks nothing. Every direction is
// scanned against the current grid, so flips never feed into each other.
func (b *Board) flipMask(row, col int, c Color) uint64 {
	opp := c.Opponent()
	if opp == Empty {
		return 0
	}

	var mask uint64
	for _, d := range directions {
		var run uint64
		r, cc := row+d.dr, col+d.dc
		for inBounds(r, cc) && b.cells[r][cc] == opp {
			run |= bit(r, cc)
			r += d.dr
			cc += d.dc
		}
		// The run only counts when it is closed by our own disc.
		if run != 0 && inBounds(r, cc) && b.cells[r][cc] == c {
			mask |= run
		}
	}
	return mask
}

// ComputeLegalMoves clears every marker and re-marks the empty cells where
// the side to move can play. The marked cells are also returned in row-major
// order. Calling it twice without a placement in between is a no-op.
func (b *Board) ComputeLegalMoves() []Point {
	b.legal = 0
	out := make([]Point, 0, 16)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.cells[r][c] != Empty {
				continue
			}
			if b.flipMask(r, c, b.Side) != 0 {
				b.legal |= bit(r, c)
				out = append(out, Point{Row: r, Col: c})
			}
		}
	}
	return out
}

// LegalMoves lists the legal placements for c without touching the markers.
func (b *Board) LegalMoves(c Color) []Point {
	out := make([]Point, 0, 16)
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if b.cells[r][col] == Empty && b.flipMask(r, col, c) != 0 {
				out = append(out, Point{Row: r, Col: col})
			}
		}
	}
	return out
}

// HasLegalMove is LegalMoves without the allocation.
func (b *Board) HasLegalMove(c Color) bool {
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if b.cells[r][col] == Empty && b.flipMask(r, col, c) != 0 {
				return true
			}
		}
	}
	return false
}

// IsLegal reports whether c may be placed at (row, col).
func (b *Board) IsLegal(row, col int, c Color) bool {
	return inBounds(row, col) && b.cells[row][col] == Empty && b.flipMask(row, col, c) != 0
}

// ApplyMove places c at (row, col), consumes one disc from the inventory and
// flips every outflanked run. The side to move is not changed.
//
// The placement must be legal for c; otherwise ErrPreconditionFailed is
// returned and the board is unchanged.
func (b *Board) ApplyMove(row, col int, c Color) error {
	if !inBounds(row, col) {
		return fmt.Errorf("%w: %w: (%d,%d)", ErrPreconditionFailed, ErrOutOfBounds, row, col)
	}
	if c != Black && c != White {
		return fmt.Errorf("%w: cannot place %s at (%d,%d)", ErrPreconditionFailed, c, row, col)
	}
	if b.cells[row][col] != Empty {
		return fmt.Errorf("%w: (%d,%d) is occupied by %s", ErrPreconditionFailed, row, col, b.cells[row][col])
	}

	mask := b.flipMask(row, col, c)
	if mask == 0 {
		return fmt.Errorf("%w: %s at (%d,%d) outflanks nothing", ErrPreconditionFailed, c, row, col)
	}

	b.cells[row][col] = c
	b.PiecesLeft--
	for m := mask; m != 0; m &= m - 1 {
		i := bits.TrailingZeros64(m)
		b.cells[i/Size][i%Size] = c
	}

	// Markers describe the previous position.
	b.legal = 0
	return nil
}
