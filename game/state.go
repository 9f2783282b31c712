// Package game defines the Othello board model.
//
// A Board is a fixed-size value: cloning is a plain array copy so the search
// can derive child positions cheaply. Legal-move markers are kept in a bitset
// overlay next to the grid and are never stored as a cell color.
package game

import "fmt"

const (
	Size  = 8
	Cells = Size * Size

	// InitialPieces is the shared disc inventory at the start of a game.
	InitialPieces = 64
)

// Color is the content of a single cell.
type Color uint8

const (
	Empty Color = iota
	Black
	White
)

// Opponent returns the other side. Empty has no opponent and maps to itself.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "Empty"
	}
}

// Letter is the single character used in board diagrams and move notation.
func (c Color) Letter() byte {
	switch c {
	case Black:
		return 'B'
	case White:
		return 'W'
	default:
		return '.'
	}
}

// Point is a board coordinate. (0,0) is the top-left cell.
type Point struct {
	Row int
	Col int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Move is a placement of a disc of Color at (Row, Col).
type Move struct {
	Color Color
	Row   int
	Col   int
}

func (m Move) Point() Point { return Point{Row: m.Row, Col: m.Col} }

func (m Move) String() string {
	return fmt.Sprintf("%c(%d,%d)", m.Color.Letter(), m.Row, m.Col)
}

// Board is the complete position: the grid, the side to move and the shared
// disc inventory.
type Board struct {
	cells [Size][Size]Color
	legal uint64

	Side       Color
	PiecesLeft int
}

// NewGame returns the standard starting position with Black to move and
// Black's legal moves already marked.
func NewGame() *Board {
	b := &Board{Side: Black, PiecesLeft: InitialPieces}
	mid := Size / 2
	b.cells[mid-1][mid-1], b.cells[mid][mid] = White, White
	b.cells[mid-1][mid], b.cells[mid][mid-1] = Black, Black
	b.ComputeLegalMoves()
	return b
}

// Clone performs a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := *b
	return &out
}

// At returns the disc at (row, col). Out-of-range coordinates are a
// programming error.
func (b *Board) At(row, col int) Color {
	if !inBounds(row, col) {
		panic(fmt.Sprintf("game: coordinate (%d,%d) off board", row, col))
	}
	return b.cells[row][col]
}

// Set places c at (row, col) without resolving captures. It is meant for
// building positions; game play goes through ApplyMove.
func (b *Board) Set(row, col int, c Color) {
	if !inBounds(row, col) {
		panic(fmt.Sprintf("game: coordinate (%d,%d) off board", row, col))
	}
	b.cells[row][col] = c
	b.legal &^= bit(row, col)
}

func (b *Board) SwitchSide() {
	b.Side = b.Side.Opponent()
}

// Count returns the number of discs of color c. Markers are not discs.
func (b *Board) Count(c Color) int {
	n := 0
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if b.cells[r][col] == c {
				n++
			}
		}
	}
	return n
}

func (b *Board) Empties() int {
	return b.Count(Empty)
}

// IsMarked reports whether (row, col) currently carries a legal-move marker.
func (b *Board) IsMarked(row, col int) bool {
	if !inBounds(row, col) {
		return false
	}
	return b.legal&bit(row, col) != 0
}

// Markers returns the marked coordinates in row-major order.
func (b *Board) Markers() []Point {
	out := make([]Point, 0, 16)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.legal&bit(r, c) != 0 {
				out = append(out, Point{Row: r, Col: c})
			}
		}
	}
	return out
}

func (b *Board) HasMarkers() bool {
	return b.legal != 0
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

func bit(row, col int) uint64 {
	return 1 << uint(row*Size+col)
}
