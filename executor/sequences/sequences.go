// Package sequences expands every line of play from a position to a fixed
// depth, for analysis and display. Unlike the search it never prunes, so the
// result grows with the branching factor at every ply.
package sequences

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/brensch/othello/game"
	"github.com/brensch/othello/rules"
)

// DefaultDepth is the number of plies expanded by the analysis view.
const DefaultDepth = 4

// Sequence is one line of play and the material score where it ends.
type Sequence struct {
	Moves []game.Move
	Score int
}

// String renders the line as "+3 | B(2,3) -> W(2,2)".
func (s Sequence) String() string {
	parts := make([]string, len(s.Moves))
	for i, m := range s.Moves {
		parts[i] = m.String()
	}
	return fmt.Sprintf("%+3d | %s", s.Score, strings.Join(parts, " -> "))
}

// Enumerator configures the expansion. Workers > 1 expands root moves
// concurrently.
type Enumerator struct {
	Workers int
}

// Enumerate runs a sequential enumeration. See Enumerator.Run.
func Enumerate(b *game.Board, depth int) []Sequence {
	out, _ := (&Enumerator{}).Run(context.Background(), b, depth)
	return out
}

// Run returns every line of up to depth plies from b, sorted by score from
// best for Black to best for White. Lines with equal scores keep the order
// they were generated in (row-major, depth first).
//
// A line ends early when the game is over or when the side to move has no
// legal placement. A depth of zero or a finished game yields a single empty
// line carrying the current score.
func (e *Enumerator) Run(ctx context.Context, b *game.Board, depth int) ([]Sequence, error) {
	root := b.Clone()
	if depth <= 0 || rules.IsTerminal(root) {
		return []Sequence{{Moves: []game.Move{}, Score: rules.MaterialScore(root)}}, nil
	}

	children := rules.Children(root)
	if len(children) == 0 {
		return []Sequence{{Moves: []game.Move{}, Score: rules.MaterialScore(root)}}, nil
	}

	// One bucket per root move keeps the generation order independent of
	// scheduling.
	buckets := make([][]Sequence, len(children))
	expand := func(i int) {
		ch := children[i]
		recurse(ch.Board, depth-1, []game.Move{ch.Move}, &buckets[i])
	}

	if e.Workers <= 1 {
		for i := range children {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			expand(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.Workers)
		for i := range children {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				expand(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	total := 0
	for _, bucket := range buckets {
		total += len(bucket)
	}
	out := make([]Sequence, 0, total)
	for _, bucket := range buckets {
		out = append(out, bucket...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func recurse(b *game.Board, depth int, line []game.Move, out *[]Sequence) {
	if depth <= 0 || rules.IsTerminal(b) {
		*out = append(*out, Sequence{Moves: line, Score: rules.MaterialScore(b)})
		return
	}

	children := rules.Children(b)
	if len(children) == 0 {
		*out = append(*out, Sequence{Moves: line, Score: rules.MaterialScore(b)})
		return
	}
	for _, ch := range children {
		// Full slice expression so siblings never share a backing array.
		next := append(line[:len(line):len(line)], ch.Move)
		recurse(ch.Board, depth-1, next, out)
	}
}
