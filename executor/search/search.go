package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/brensch/othello/game"
	"github.com/brensch/othello/rules"
)

// ChooseMove picks a move for the side to move at the default depth. It
// returns false when there is no legal move and the caller must pass.
func ChooseMove(b *game.Board, usePruning bool) (game.Point, bool) {
	e := NewEngine(Config{Depth: DefaultDepth, Pruning: usePruning, Workers: 1})
	res, _ := e.Choose(context.Background(), b)
	return res.Move, res.Found
}

// Choose scores every legal move of the side to move and returns the best
// one: the highest value when Black acts, the lowest when White acts. Ties go
// to the first candidate in row-major order. b is not modified.
//
// The context is only checked between root candidates; a candidate search
// always runs to completion.
func (e *Engine) Choose(ctx context.Context, b *game.Board) (Result, error) {
	root := b.Clone()
	moves := root.LegalMoves(root.Side)
	if len(moves) == 0 {
		return Result{}, nil
	}

	before := e.Stats.Snapshot()
	scores := make([]int, len(moves))

	if e.Config.Workers <= 1 || len(moves) == 1 {
		for i, p := range moves {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			scores[i] = e.scoreCandidate(root, p)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.Config.Workers)
		for i, p := range moves {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				// Each candidate gets its own clone of the shared root.
				scores[i] = e.scoreCandidate(root, p)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	}

	res := Result{
		Found:      true,
		Candidates: make([]Scored, len(moves)),
	}
	blackToMove := root.Side == game.Black
	for i, p := range moves {
		res.Candidates[i] = Scored{Move: p, Score: scores[i]}
		if i == 0 ||
			(blackToMove && scores[i] > res.Score) ||
			(!blackToMove && scores[i] < res.Score) {
			res.Move = p
			res.Score = scores[i]
		}
	}
	res.Stats = e.Stats.Snapshot().Sub(before)
	return res, nil
}

// scoreCandidate plays p for the side to move and searches the reply tree.
// The move itself already used one ply, so the child is searched from the
// opponent's perspective.
func (e *Engine) scoreCandidate(root *game.Board, p game.Point) int {
	child, err := rules.NextState(root, p)
	if err != nil {
		panic(err)
	}
	maximizing := child.Side == game.Black
	if e.Config.Pruning {
		return e.Stats.alphaBeta(child, e.Config.Depth, maximizing, MinScore, MaxScore)
	}
	return e.Stats.minimax(child, e.Config.Depth, maximizing)
}
