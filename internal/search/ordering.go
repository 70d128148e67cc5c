package search

import (
	"chessplay/internal/board"
	"chessplay/internal/eval"
)

const (
	ttMoveBonus  = 1 << 30
	killerBonus  = 600
	captureBonus = 300
)

// scoreMoves assigns each move in ml an ordering score: the TT move
// (if present among them) always sorts first; every other move scores
// eval.EvaluateMove plus killerBonus if it is a killer at this
// remaining depth and captureBonus if it is a capture. The bonuses
// add to the evaluator's score (which already counts the captured
// piece's value), so a capture of a knight or better can outrank a
// killer.
func (s *Searcher) scoreMoves(ml *board.MoveList, depth int, ttMove board.Move) []int {
	phase := eval.Phase(s.pos)
	scores := make([]int, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if ttMove != board.NoMove && m == ttMove {
			scores[i] = ttMoveBonus
			continue
		}
		score := eval.EvaluateMove(m, s.pos, phase)
		if m.IsCapture() {
			score += captureBonus
		}
		if s.killers.isKiller(depth, m) {
			score += killerBonus
		}
		scores[i] = score
	}
	return scores
}

// scoreRootMoves orders the root move list purely by eval.EvaluateMove,
// without the TT/killer bonuses interior nodes use.
func (s *Searcher) scoreRootMoves(ml *board.MoveList) []int {
	phase := eval.Phase(s.pos)
	scores := make([]int, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		scores[i] = eval.EvaluateMove(ml.Get(i), s.pos, phase)
	}
	return scores
}

// pickMove performs one step of a lazy selection sort: it finds the
// highest-scoring move at or after i and swaps it into position i.
// Sorting lazily (one step at a time, as the caller consumes moves)
// avoids fully ordering moves that a beta cutoff will never reach.
func pickMove(ml *board.MoveList, scores []int, i int) {
	best := i
	for j := i + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != i {
		ml.Swap(i, best)
		scores[i], scores[best] = scores[best], scores[i]
	}
}
