package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/othello/executor/search"
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/session"
)

func testModel() model {
	sess := session.New(search.Config{Depth: 1, Pruning: true, Workers: 1}, nil)
	return newModel(context.Background(), sess, 2, nil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds a key and runs any command it returns to completion.
func press(t *testing.T, m model, k string) model {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(model)
	if cmd != nil {
		msg := cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			return m
		}
		next, _ = m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestCursorStaysOnBoard(t *testing.T) {
	m := testModel()
	for i := 0; i < 10; i++ {
		m = press(t, m, "up")
		m = press(t, m, "left")
	}
	if m.cursor != (game.Point{}) {
		t.Fatalf("cursor = %v, want (0,0)", m.cursor)
	}
	for i := 0; i < 10; i++ {
		m = press(t, m, "down")
		m = press(t, m, "right")
	}
	if m.cursor != (game.Point{Row: 7, Col: 7}) {
		t.Fatalf("cursor = %v, want (7,7)", m.cursor)
	}
}

func TestEnterPlaysAtCursor(t *testing.T) {
	m := testModel()
	m = press(t, m, "enter")
	if len(m.sess.History) != 1 || m.sess.History[0].Move.Point() != (game.Point{Row: 2, Col: 3}) {
		t.Fatalf("history = %+v", m.sess.History)
	}
	if m.sess.Board.Side != game.White {
		t.Fatalf("side = %s", m.sess.Board.Side)
	}

	// (2,3) is now occupied.
	m = press(t, m, "enter")
	if m.err == nil || len(m.sess.History) != 1 {
		t.Fatalf("expected an illegal move error, err=%v history=%d", m.err, len(m.sess.History))
	}
	if !strings.Contains(m.View(), m.err.Error()) {
		t.Fatalf("error not shown:\n%s", m.View())
	}
}

func TestAIKeys(t *testing.T) {
	m := testModel()
	m = press(t, m, "a")
	if len(m.sess.History) != 1 || m.sess.History[0].Actor != session.AI {
		t.Fatalf("history after a = %+v", m.sess.History)
	}
	if !strings.Contains(m.status, "minimax chose") {
		t.Fatalf("status = %q", m.status)
	}
	m = press(t, m, "p")
	if len(m.sess.History) != 2 || !strings.Contains(m.status, "alpha-beta chose") {
		t.Fatalf("history = %d, status = %q", len(m.sess.History), m.status)
	}
	if m.busy != "" {
		t.Fatalf("still busy after result")
	}
}

func TestBusyBlocksGameKeys(t *testing.T) {
	m := testModel()
	next, cmd := m.Update(key("a"))
	m = next.(model)
	if cmd == nil || m.busy == "" {
		t.Fatalf("expected a running AI command")
	}
	next, _ = m.Update(key("enter"))
	m = next.(model)
	if len(m.sess.History) != 0 {
		t.Fatalf("move played while the AI was thinking")
	}
	next, _ = m.Update(cmd())
	m = next.(model)
	if len(m.sess.History) != 1 || m.busy != "" {
		t.Fatalf("AI result not applied: %+v", m.sess.History)
	}
}

func TestSequencesView(t *testing.T) {
	m := testModel()
	m.height = 8
	m = press(t, m, "s")
	if m.mode != modeSequences || len(m.seqs) != 12 {
		t.Fatalf("mode = %v, seqs = %d", m.mode, len(m.seqs))
	}
	view := m.View()
	if !strings.Contains(view, "Sequences (12)") || !strings.Contains(view, m.seqs[0].String()) {
		t.Fatalf("view:\n%s", view)
	}

	for i := 0; i < 20; i++ {
		m = press(t, m, "down")
	}
	if want := len(m.seqs) - m.pageSize(); m.offset != want {
		t.Fatalf("offset = %d, want %d", m.offset, want)
	}
	m = press(t, m, "esc")
	if m.mode != modeBoard {
		t.Fatalf("esc did not close the sequences view")
	}
	if len(m.sess.History) != 0 {
		t.Fatalf("enumeration changed the game")
	}
}

func TestNewGameAndQuit(t *testing.T) {
	m := testModel()
	m = press(t, m, "enter")
	id := m.sess.ID
	m = press(t, m, "n")
	if len(m.sess.History) != 0 || m.sess.ID == id {
		t.Fatalf("n did not start a new game")
	}
	if !strings.Contains(m.View(), "Black to move") {
		t.Fatalf("view:\n%s", m.View())
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestGameOverBanner(t *testing.T) {
	b, err := game.ParseBoard(strings.Join([]string{
		"BB......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....WWW.",
	}, "\n"), game.Black)
	if err != nil {
		t.Fatal(err)
	}
	m := testModel()
	m.sess.Board = b
	if !strings.Contains(m.View(), "Game over: White Wins") {
		t.Fatalf("view:\n%s", m.View())
	}
	m = press(t, m, "a")
	if m.err != session.ErrGameOver {
		t.Fatalf("err = %v, want ErrGameOver", m.err)
	}
}
