package game

import (
	"fmt"
	"strings"
)

// String renders the board as eight rows of 'B', 'W' and '.', with '*' on
// marked cells.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(Size * (Size + 1))
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.legal&bit(r, c) != 0 {
				sb.WriteByte('*')
				continue
			}
			sb.WriteByte(b.cells[r][c].Letter())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads a diagram in the format produced by String. Spaces inside a
// row and blank lines are ignored; '*' is read as an empty cell. Markers are
// recomputed for side.
func ParseBoard(diagram string, side Color) (*Board, error) {
	if side != Black && side != White {
		return nil, fmt.Errorf("%w: side to move must be Black or White", ErrInvalidPosition)
	}

	b := &Board{Side: side}
	row := 0
	for _, line := range strings.Split(diagram, "\n") {
		line = strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		if line == "" {
			continue
		}
		if row >= Size {
			return nil, fmt.Errorf("%w: more than %d rows", ErrInvalidPosition, Size)
		}
		if len(line) != Size {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidPosition, row, len(line))
		}
		for col := 0; col < Size; col++ {
			switch line[col] {
			case 'B', 'b', 'X', 'x':
				b.cells[row][col] = Black
			case 'W', 'w', 'O', 'o':
				b.cells[row][col] = White
			case '.', '*', '-':
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrInvalidPosition, line[col], row, col)
			}
		}
		row++
	}
	if row != Size {
		return nil, fmt.Errorf("%w: got %d rows", ErrInvalidPosition, row)
	}

	// Every disc beyond the four starting ones came out of the inventory.
	placed := Cells - b.Empties() - 4
	b.PiecesLeft = InitialPieces - max(placed, 0)
	b.ComputeLegalMoves()
	return b, nil
}
