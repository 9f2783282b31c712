// Package selfplay plays engine-vs-engine games and records them ply by ply.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brensch/othello/executor/search"
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/session"
	"github.com/brensch/othello/store"
)

const (
	SourceEngine  = "engine"
	SourceOpening = "opening"
	SourceAuto    = "auto"
)

type GameResult struct {
	GameID     string
	Plies      int
	Winner     game.Color
	Score      int
	BlackNodes int64
	WhiteNodes int64
}

type Options struct {
	// OpeningPlies random legal moves are played before the engines take
	// over. Two deterministic engines otherwise replay the same game forever.
	OpeningPlies int
	Seed         int64
	// OnPly is called after every recorded ply, including passes.
	OnPly func()
	Log   *zap.SugaredLogger
}

// PlayGame plays one game with no random opening. An empty id gets a fresh
// uuid.
func PlayGame(ctx context.Context, id string, black, white search.Config) (GameResult, []store.TurnRow, error) {
	return PlayGameWithOptions(ctx, id, black, white, Options{})
}

// PlayGameWithOptions plays until the game is over or ctx is cancelled. On
// cancellation the partial rows are dropped and ctx.Err() is returned.
func PlayGameWithOptions(ctx context.Context, id string, black, white search.Config, opts Options) (GameResult, []store.TurnRow, error) {
	if id == "" {
		id = uuid.NewString()
	}
	onPly := opts.OnPly
	if onPly == nil {
		onPly = func() {}
	}

	sess := session.New(black, opts.Log)
	res := GameResult{GameID: id}
	rows := make([]store.TurnRow, 0, game.Cells+8)
	rng := rand.New(rand.NewSource(opts.Seed))

	// nodes belongs to the first new entry; auto-passes after it cost nothing.
	record := func(from int, source string, nodes int64) {
		for i := from; i < len(sess.History); i++ {
			t := sess.History[i]
			src := source
			if t.Actor == session.Auto {
				src = SourceAuto
			}
			rows = append(rows, turnRow(id, i, t, sess.Board, src, nodes))
			nodes = 0
			onPly()
		}
	}

	for !sess.Over() {
		if err := ctx.Err(); err != nil {
			return res, nil, err
		}

		from := len(sess.History)
		if from < opts.OpeningPlies {
			legal := sess.Legal()
			p := legal[rng.Intn(len(legal))]
			if err := sess.Play(p.Row, p.Col); err != nil {
				return res, nil, fmt.Errorf("opening ply %d: %w", from, err)
			}
			record(from, SourceOpening, 0)
			continue
		}

		side := sess.Board.Side
		cfg := white
		if side == game.Black {
			cfg = black
		}
		out, err := sess.PlayEngine(ctx, cfg)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return res, nil, err
			}
			return res, nil, fmt.Errorf("ply %d: %w", from, err)
		}
		if side == game.Black {
			res.BlackNodes += out.Stats.Nodes
		} else {
			res.WhiteNodes += out.Stats.Nodes
		}
		record(from, SourceEngine, out.Stats.Nodes)
	}

	res.Plies = len(sess.History)
	res.Winner = sess.Winner()
	res.Score = sess.Score()
	return res, rows, nil
}

// turnRow renders one history entry against b, the board after it. A
// placement and the auto-pass that follows it share the same discs.
func turnRow(id string, ply int, t session.Turn, b *game.Board, source string, nodes int64) store.TurnRow {
	row, col := int32(t.Move.Row), int32(t.Move.Col)
	if t.Pass {
		row, col = -1, -1
	}
	return store.TurnRow{
		GameID: id,
		Ply:    int32(ply),
		Color:  t.Move.Color.String(),
		Row:    row,
		Col:    col,
		Pass:   t.Pass,
		Black:  int32(b.Count(game.Black)),
		White:  int32(b.Count(game.White)),
		Score:  int32(t.Score),
		Nodes:  nodes,
		Board:  b.String(),
		Source: source,
	}
}
