package search

import (
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/rules"
)

// Evaluate is the static evaluation used at leaves: plain material, positive
// for Black.
func Evaluate(b *game.Board) int {
	return rules.MaterialScore(b)
}

// forEachChild visits the positions one ply below b in row-major move order
// until visit returns false. A side with no placement passes: the only child
// is b with the turn handed over. Callers must not pass terminal positions.
func forEachChild(b *game.Board, visit func(child *game.Board) bool) {
	moves := b.LegalMoves(b.Side)
	if len(moves) == 0 {
		visit(rules.PassState(b))
		return
	}
	for _, p := range moves {
		child, err := rules.NextState(b, p)
		if err != nil {
			// LegalMoves and ApplyMove share one legality check.
			panic(err)
		}
		if !visit(child) {
			return
		}
	}
}

// Minimax returns the value of b searched depth plies deep without pruning.
// Black is the maximizing side.
func Minimax(b *game.Board, depth int, maximizing bool) int {
	return (*Stats)(nil).minimax(b, depth, maximizing)
}

// AlphaBeta returns the same value as Minimax while skipping siblings that
// cannot change the result.
func AlphaBeta(b *game.Board, depth int, maximizing bool, alpha, beta int) int {
	return (*Stats)(nil).alphaBeta(b, depth, maximizing, alpha, beta)
}

func (s *Stats) minimax(b *game.Board, depth int, maximizing bool) int {
	s.node()
	if depth <= 0 || rules.IsTerminal(b) {
		s.leaf()
		return Evaluate(b)
	}

	best := MaxScore
	if maximizing {
		best = MinScore
	}
	forEachChild(b, func(child *game.Board) bool {
		v := s.minimax(child, depth-1, !maximizing)
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
		return true
	})
	return best
}

func (s *Stats) alphaBeta(b *game.Board, depth int, maximizing bool, alpha, beta int) int {
	s.node()
	if depth <= 0 || rules.IsTerminal(b) {
		s.leaf()
		return Evaluate(b)
	}

	if maximizing {
		value := MinScore
		forEachChild(b, func(child *game.Board) bool {
			value = max(value, s.alphaBeta(child, depth-1, false, alpha, beta))
			alpha = max(alpha, value)
			if alpha >= beta {
				s.cutoff()
				return false
			}
			return true
		})
		return value
	}

	value := MaxScore
	forEachChild(b, func(child *game.Board) bool {
		value = min(value, s.alphaBeta(child, depth-1, true, alpha, beta))
		beta = min(beta, value)
		if beta <= alpha {
			s.cutoff()
			return false
		}
		return true
	})
	return value
}
