package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/brensch/othello/game"
)

func board(t *testing.T, side game.Color, rows ...string) *game.Board {
	t.Helper()
	b, err := game.ParseBoard(strings.Join(rows, "\n"), side)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return b
}

func logTransition(t *testing.T, name string, before *game.Board, mv game.Point, after *game.Board) {
	t.Helper()
	t.Logf("=== %s ===\nBefore (%s to move):\n%sMove: %v\nAfter (%s to move):\n%s", name, before.Side, before, mv, after.Side, after)
}

func TestIsTerminal(t *testing.T) {
	full := make([]string, game.Size)
	for i := range full {
		if i%2 == 0 {
			full[i] = "BBBBBBBB"
		} else {
			full[i] = "WWWWWWWW"
		}
	}

	tests := []struct {
		name string
		b    *game.Board
		want bool
	}{
		{name: "StartPosition", b: game.NewGame(), want: false},
		{name: "FullBoard", b: board(t, game.Black, full...), want: true},
		{
			name: "NeitherCanMove",
			b:    board(t, game.Black, "BB......", "........", "........", "........", "........", "........", "........", "........"),
			want: true,
		},
		{
			name: "OnlyMoverBlocked",
			b:    board(t, game.White, "BW......", "........", "........", "........", "........", "........", "........", "........"),
			want: false,
		},
		{
			name: "OnlyOpponentBlocked",
			b:    board(t, game.Black, "BW......", "........", "........", "........", "........", "........", "........", "........"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side := tt.b.Side
			if got := IsTerminal(tt.b); got != tt.want {
				t.Fatalf("IsTerminal = %v, want %v\n%s", got, tt.want, tt.b)
			}
			if tt.b.Side != side {
				t.Fatalf("side to move changed")
			}
		})
	}
}

func TestIsTerminal_AgreesWithBothSidesBlocked(t *testing.T) {
	b := board(t, game.White, "BW......", "........", "........", "........", "........", "........", "........", "........")
	if CanMove(b, game.White) {
		t.Fatalf("white should be blocked")
	}
	if !CanMove(b, game.Black) {
		t.Fatalf("black should have a move")
	}
	if IsTerminal(b) {
		t.Fatalf("one side can still move")
	}
}

func TestMaterialScore_AfterOpeningMove(t *testing.T) {
	before := game.NewGame()
	mv := game.Point{Row: 2, Col: 3}
	after, err := NextState(before, mv)
	if err != nil {
		t.Fatalf("next state: %v", err)
	}
	logTransition(t, "opening", before, mv, after)

	if got := MaterialScore(after); got != 3 {
		t.Fatalf("score = %d, want 3", got)
	}
	if after.Side != game.White {
		t.Fatalf("side = %s, want White", after.Side)
	}
	if MaterialScore(before) != 0 || before.At(2, 3) != game.Empty {
		t.Fatalf("NextState mutated its input")
	}
}

func TestNextState_RejectsIllegalMove(t *testing.T) {
	_, err := NextState(game.NewGame(), game.Point{Row: 0, Col: 0})
	if !errors.Is(err, game.ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}
}

func TestOutcome(t *testing.T) {
	empty := "........"
	tests := []struct {
		name   string
		row0   string
		winner game.Color
		text   string
	}{
		{name: "Black", row0: "BBW.....", winner: game.Black, text: "Black Wins"},
		{name: "White", row0: "BWW.....", winner: game.White, text: "White Wins"},
		{name: "Tie", row0: "BW......", winner: game.Empty, text: "Tie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board(t, game.Black, tt.row0, empty, empty, empty, empty, empty, empty, empty)
			if got := Winner(b); got != tt.winner {
				t.Errorf("Winner = %s, want %s", got, tt.winner)
			}
			if got := Outcome(b); got != tt.text {
				t.Errorf("Outcome = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestChildren_StartPosition(t *testing.T) {
	parent := game.NewGame()
	snapshot := parent.String()

	children := Children(parent)
	want := []game.Point{{Row: 2, Col: 3}, {Row: 3, Col: 2}, {Row: 4, Col: 5}, {Row: 5, Col: 4}}
	if len(children) != len(want) {
		t.Fatalf("got %d children, want %d", len(children), len(want))
	}
	for i, ch := range children {
		if ch.Move.Point() != want[i] || ch.Move.Color != game.Black {
			t.Errorf("child %d move = %v, want B%v", i, ch.Move, want[i])
		}
		if ch.Board.Side != game.White {
			t.Errorf("child %d side = %s, want White", i, ch.Board.Side)
		}
		if got := MaterialScore(ch.Board); got != 3 {
			t.Errorf("child %d score = %d, want 3", i, got)
		}
		if ch.Board.PiecesLeft != game.InitialPieces-1 {
			t.Errorf("child %d pieces left = %d", i, ch.Board.PiecesLeft)
		}
	}
	if parent.String() != snapshot {
		t.Fatalf("Children mutated the parent")
	}
}

func TestChildren_BlockedSideHasNone(t *testing.T) {
	b := board(t, game.White, "BW......", "........", "........", "........", "........", "........", "........", "........")
	if got := Children(b); len(got) != 0 {
		t.Fatalf("got %d children for a blocked side", len(got))
	}

	passed := PassState(b)
	if passed.Side != game.Black || b.Side != game.White {
		t.Fatalf("PassState sides: passed=%s original=%s", passed.Side, b.Side)
	}
	if len(Children(passed)) == 0 {
		t.Fatalf("black should have moves after the pass")
	}
}
