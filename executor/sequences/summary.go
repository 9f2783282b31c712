package sequences

import "github.com/brensch/othello/game"

// FirstMoveStats aggregates every line that starts with the same move.
type FirstMoveStats struct {
	Move  game.Move
	Lines int
	Best  int
	Worst int
}

// Summary describes an enumeration result. Best and Worst are from Black's
// point of view.
type Summary struct {
	Count       int
	Best        int
	Worst       int
	Mean        float64
	ByFirstMove []FirstMoveStats
}

// Summarize aggregates seqs. First moves are reported in the order they are
// first seen.
func Summarize(seqs []Sequence) Summary {
	var s Summary
	if len(seqs) == 0 {
		return s
	}

	s.Count = len(seqs)
	s.Best, s.Worst = seqs[0].Score, seqs[0].Score
	index := make(map[game.Move]int)
	sum := 0

	for _, seq := range seqs {
		sum += seq.Score
		s.Best = max(s.Best, seq.Score)
		s.Worst = min(s.Worst, seq.Score)

		if len(seq.Moves) == 0 {
			continue
		}
		first := seq.Moves[0]
		i, ok := index[first]
		if !ok {
			i = len(s.ByFirstMove)
			index[first] = i
			s.ByFirstMove = append(s.ByFirstMove, FirstMoveStats{Move: first, Best: seq.Score, Worst: seq.Score})
		}
		fm := &s.ByFirstMove[i]
		fm.Lines++
		fm.Best = max(fm.Best, seq.Score)
		fm.Worst = min(fm.Worst, seq.Score)
	}

	s.Mean = float64(sum) / float64(s.Count)
	return s
}
