package selfplay

import (
	"context"
	"errors"
	"testing"

	"github.com/brensch/othello/executor/search"
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/rules"
	"github.com/brensch/othello/store"
)

func replay(t *testing.T, rows []store.TurnRow) *game.Board {
	t.Helper()
	b := game.NewGame()
	for _, r := range rows {
		if r.Pass {
			if r.Color != b.Side.String() || b.HasLegalMove(b.Side) {
				t.Fatalf("ply %d: pass recorded while %s could move\n%s", r.Ply, b.Side, b)
			}
			b.SwitchSide()
			continue
		}
		if r.Color != b.Side.String() {
			t.Fatalf("ply %d: %s moved but %s was to move", r.Ply, r.Color, b.Side)
		}
		if err := b.ApplyMove(int(r.Row), int(r.Col), b.Side); err != nil {
			t.Fatalf("ply %d: replay %s (%d,%d): %v\n%s", r.Ply, r.Color, r.Row, r.Col, err, b)
		}
		b.SwitchSide()
		if got := int32(rules.MaterialScore(b)); got != r.Score {
			t.Fatalf("ply %d: score %d, recorded %d", r.Ply, got, r.Score)
		}
	}
	return b
}

func TestPlayGame_CompletesAndReplays(t *testing.T) {
	black := search.Config{Depth: 1, Pruning: true, Workers: 1}
	white := search.Config{Depth: 2, Pruning: true, Workers: 1}

	res, rows, err := PlayGame(context.Background(), "", black, white)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if res.GameID == "" {
		t.Fatalf("expected a generated game id")
	}
	if res.Plies != len(rows) || len(rows) == 0 {
		t.Fatalf("plies = %d, rows = %d", res.Plies, len(rows))
	}
	if res.BlackNodes == 0 || res.WhiteNodes == 0 {
		t.Fatalf("expected search work for both sides: %+v", res)
	}

	final := replay(t, rows)
	if !rules.IsTerminal(final) && final.Empties() != 0 {
		t.Fatalf("game ended early:\n%s", final)
	}
	if got := rules.MaterialScore(final); got != res.Score {
		t.Fatalf("final score %d, result %d", got, res.Score)
	}
	if got := rules.Winner(final); got != res.Winner {
		t.Fatalf("winner %s, result %s", got, res.Winner)
	}
	for i, r := range rows {
		if r.GameID != res.GameID || r.Ply != int32(i) {
			t.Fatalf("row %d: id %q ply %d", i, r.GameID, r.Ply)
		}
		if r.Source == SourceOpening {
			t.Fatalf("row %d: unexpected opening ply", i)
		}
	}
}

func TestPlayGame_Deterministic(t *testing.T) {
	cfg := search.Config{Depth: 2, Pruning: true, Workers: 1}
	a, rowsA, err := PlayGame(context.Background(), "a", cfg, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, rowsB, err := PlayGame(context.Background(), "b", cfg, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Score != b.Score || len(rowsA) != len(rowsB) {
		t.Fatalf("games differ: %+v vs %+v", a, b)
	}
	for i := range rowsA {
		if rowsA[i].Row != rowsB[i].Row || rowsA[i].Col != rowsB[i].Col {
			t.Fatalf("ply %d differs", i)
		}
	}
}

func TestPlayGameWithOptions_Opening(t *testing.T) {
	cfg := search.Config{Depth: 1, Pruning: true, Workers: 1}
	plies := 0
	opts := Options{OpeningPlies: 6, Seed: 7, OnPly: func() { plies++ }}

	_, rows, err := PlayGameWithOptions(context.Background(), "g", cfg, cfg, opts)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if plies != len(rows) {
		t.Fatalf("OnPly called %d times for %d rows", plies, len(rows))
	}
	for i := 0; i < 6; i++ {
		if rows[i].Source == SourceEngine || rows[i].Nodes != 0 {
			t.Fatalf("row %d: %+v", i, rows[i])
		}
	}
	engine := 0
	for _, r := range rows[6:] {
		if r.Source == SourceEngine {
			engine++
		}
	}
	if engine == 0 {
		t.Fatalf("engines never moved")
	}
	replay(t, rows)
}

func TestPlayGame_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, rows, err := PlayGame(ctx, "x", search.DefaultConfig(), search.DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if rows != nil {
		t.Fatalf("expected no rows on cancel")
	}
}
