package search

import (
	"sync/atomic"
	"time"

	"chessplay/internal/board"
	"chessplay/internal/eval"
	"chessplay/internal/ttable"
)

const (
	maxDepth = ttable.MaxDepth
	maxPly   = ttable.MaxPly
	infinity = ttable.Infinity
	mate     = ttable.MateScore

	nodeCheckInterval = 8192 // poll the stop flag every this many nodes

	nullMoveReduction = 4
	nullMoveMinDepth  = 3
	futilityMargin    = 175
)

// pvTable stores the principal variation as it's discovered.
type pvTable struct {
	length [maxPly]int
	moves  [maxPly][maxPly]board.Move
}

// Searcher runs one search at a time over a single position. It is
// not safe for concurrent use; the worker package gives each Worker
// its own Searcher, reused for that worker's successive searches.
type Searcher struct {
	pos *board.Position
	tt  *ttable.Table

	killers killerTable
	hist    []histEntry

	nodes    uint64
	stopFlag *atomic.Bool
	tm       TimeManager
	limits   Limits

	pv        pvTable
	undoStack [maxPly]board.UndoInfo

	onInfo func(Info)
}

// NewSearcher creates a searcher sharing the given transposition
// table, which may be shared across successive searches (and, for a
// single worker, across its whole lifetime).
func NewSearcher(tt *ttable.Table) *Searcher {
	return &Searcher{tt: tt}
}

// Nodes returns the number of nodes searched in the most recent call.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// IterativeDeepening searches pos, deepening one ply at a time, until
// limits or stop ends the search. priorMoves is the game's move list
// up to (but not including) pos, used for repetition detection.
// onInfo, if non-nil, is called after every completed depth.
func (s *Searcher) IterativeDeepening(pos *board.Position, priorMoves []board.Move, limits Limits, stop *atomic.Bool, onInfo func(Info)) (board.Move, Info) {
	s.pos = pos.Copy()
	s.limits = limits
	s.stopFlag = stop
	s.onInfo = onInfo
	s.nodes = 0
	s.killers.clear()
	s.primeHistory(s.pos, priorMoves)

	start := time.Now()
	s.tm.Init(limits, s.pos.SideToMove, eval.Phase(s.pos), start)

	targetDepth := maxDepth - 1
	if limits.Depth > 0 && limits.Depth < targetDepth {
		targetDepth = limits.Depth
	}

	var bestMove board.Move
	var lastInfo Info

	for depth := 1; depth <= targetDepth; depth++ {
		score := s.negamax(depth, 0, -infinity, infinity)

		if (s.stopFlag.Load() || s.tm.ShouldStop(time.Now())) && depth > 1 {
			break
		}

		if s.pv.length[0] > 0 {
			bestMove = s.pv.moves[0][0]
		}

		info := Info{
			Depth: depth,
			Score: score,
			Nodes: s.nodes,
			Time:  time.Since(start),
			PV:    s.collectPV(),
		}
		if info.Time > 0 {
			info.NPS = uint64(float64(info.Nodes) / info.Time.Seconds())
		}
		if score > mate-maxPly {
			info.Mate = (mate - score + 1) / 2
		} else if score < -mate+maxPly {
			info.Mate = -(mate + score + 1) / 2
		}
		info.HashFull = s.tt.HashFull()
		lastInfo = info
		if s.onInfo != nil {
			s.onInfo(info)
		}

		if limits.Mate > 0 && info.Mate != 0 && abs(info.Mate) <= limits.Mate {
			break
		}
		if limits.Nodes > 0 && s.nodes >= limits.Nodes {
			break
		}
		if s.tm.PastOptimum(time.Now()) {
			break
		}
		if s.stopFlag.Load() {
			break
		}
	}

	return bestMove, lastInfo
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (s *Searcher) collectPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// tryMove makes m at the given ply and reports whether it was legal.
// A legal move is left made (the caller must UnmakeMove); an illegal
// one is unmade before returning.
func (s *Searcher) tryMove(ply int, m board.Move) bool {
	us := s.pos.SideToMove
	ksq := s.pos.KingSquare[us]
	if m.From() == ksq {
		ksq = m.To()
	}

	s.undoStack[ply] = s.pos.MakeMove(m)
	if !s.undoStack[ply].Valid {
		s.pos.UnmakeMove(m, s.undoStack[ply])
		return false
	}
	if !m.IsCastling() && s.pos.IsSquareAttacked(ksq, s.pos.SideToMove) {
		s.pos.UnmakeMove(m, s.undoStack[ply])
		return false
	}
	return true
}

// negamax searches depth plies from ply, returning a score relative
// to the side to move. ply 0 is the root, ordered purely by
// eval.EvaluateMove rather than the TT/killer scheme interior nodes use.
func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	if s.nodes&(nodeCheckInterval-1) == 0 && (s.stopFlag.Load() || s.tm.ShouldStop(time.Now())) {
		return 0
	}
	s.nodes++
	s.pv.length[ply] = ply

	if ply > 0 {
		if s.pos.IsDraw() || s.isRepetition() {
			return 0
		}
	}

	pvNode := beta-alpha > 1

	var ttMove board.Move
	entry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = entry.Best
		if int(entry.Depth) >= depth && !pvNode {
			score := ttable.AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Kind {
			case ttable.Exact:
				return score
			case ttable.LowerBound:
				if score > alpha {
					alpha = score
				}
			case ttable.UpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()
	staticEval := eval.Evaluate(s.pos)

	// Futility and reverse-futility both reason from the static eval
	// alone, which says nothing about forced mates; disable them once
	// alpha or beta already carries mate-window magnitude, or a real
	// mate score can be discarded in favor of a plain-eval estimate.
	outsideMateWindow := abs(alpha) < mate-maxPly && abs(beta) < mate-maxPly

	if ply > 0 && !inCheck && !pvNode {
		// Reverse futility: if the static eval already clears beta by
		// a comfortable margin, assume it holds and cut early.
		if outsideMateWindow && depth < 8 && staticEval-futilityMargin*depth >= beta {
			return staticEval
		}

		// Null-move pruning: pass the turn and see if the opponent,
		// given a free move, still can't beat beta. Skipped in
		// pieceless endgames, where zugzwang makes the null move
		// misleading.
		if depth >= nullMoveMinDepth && s.pos.HasNonPawnMaterial() {
			undo := s.pos.MakeNullMove()
			score := -s.negamax(depth-1-nullMoveReduction, ply+1, -beta, -beta+1)
			s.pos.UnmakeNullMove(undo)
			if score >= beta {
				return beta
			}
		}
	}

	moves := s.pos.GeneratePseudoLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -mate + ply
		}
		return 0
	}

	var scores []int
	if ply == 0 {
		scores = s.scoreRootMoves(moves)
	} else {
		scores = s.scoreMoves(moves, depth, ttMove)
	}

	bestScore := -infinity
	bestMove := board.NoMove
	kind := ttable.UpperBound
	legalCount := 0

	for i := 0; i < moves.Len(); i++ {
		pickMove(moves, scores, i)
		m := moves.Get(i)
		isQuiet := !m.IsCapture() && !m.IsPromotion()
		moved := s.pos.PieceAt(m.From())

		if !s.tryMove(ply, m) {
			continue
		}
		legalCount++

		// Futility pruning: a quiet move this far below alpha is
		// assumed unable to raise it, so skip searching it. Never
		// applied to the first legal move found, so a node always
		// gets at least one full-depth search before it can be
		// reported as having no legal moves.
		if ply > 0 && !inCheck && !pvNode && isQuiet && legalCount > 1 &&
			outsideMateWindow && depth < 8 && staticEval+futilityMargin*depth <= alpha {
			s.pos.UnmakeMove(m, s.undoStack[ply])
			continue
		}

		s.pushHistory(s.pos, m, moved.Type())
		s.tt.Prefetch(s.pos.Hash)

		score := -s.negamax(depth-1, ply+1, -beta, -alpha)

		s.popHistory()
		s.pos.UnmakeMove(m, s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m

			if score > alpha {
				alpha = score
				kind = ttable.Exact

				s.pv.moves[ply][ply] = m
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, ttable.AdjustScoreToTT(score, ply), ttable.LowerBound, bestMove)
			if isQuiet {
				s.killers.update(depth, m)
			}
			return score
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -mate + ply
		}
		return 0
	}

	s.tt.Store(s.pos.Hash, depth, ttable.AdjustScoreToTT(bestScore, ply), kind, bestMove)
	return bestScore
}

// quiescence resolves captures (or, in check, all evasions) until the
// position is quiet, avoiding the horizon effect at the end of the
// main search. Losing captures are pruned two ways: a material delta
// against alpha, and a full SEE<0 check for what delta pruning misses.
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	if s.nodes&(nodeCheckInterval-1) == 0 && (s.stopFlag.Load() || s.tm.ShouldStop(time.Now())) {
		return 0
	}
	s.nodes++

	if ply >= maxPly-1 {
		return eval.Evaluate(s.pos)
	}

	var ttMove board.Move
	entry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = entry.Best
		score := ttable.AdjustScoreFromTT(int(entry.Score), ply)
		switch entry.Kind {
		case ttable.Exact:
			return score
		case ttable.LowerBound:
			if score > alpha {
				alpha = score
			}
		case ttable.UpperBound:
			if score < beta {
				beta = score
			}
		}
		if alpha >= beta {
			return score
		}
	}

	inCheck := s.pos.InCheck()

	var standPat int
	if inCheck {
		// No standing pat in check: every legal reply must be tried,
		// since doing nothing isn't an option.
		standPat = -mate + ply
	} else {
		standPat = eval.Evaluate(s.pos)
		if standPat >= beta {
			s.tt.Store(s.pos.Hash, 0, ttable.AdjustScoreToTT(standPat, ply), ttable.LowerBound, board.NoMove)
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var moves *board.MoveList
	if inCheck {
		moves = s.pos.GeneratePseudoLegalMoves()
	} else {
		moves = s.pos.GenerateCaptures()
	}
	// Quiescence has no remaining-depth counter of its own (it always
	// operates at the search's depth-0 floor) and never writes killers,
	// so it reads the shared depth-0 killer slot purely for ordering.
	scores := s.scoreMoves(moves, 0, ttMove)

	bestScore := standPat
	kind := ttable.UpperBound
	legalCount := 0

	for i := 0; i < moves.Len(); i++ {
		pickMove(moves, scores, i)
		m := moves.Get(i)

		if !inCheck {
			// Delta pruning: even winning the captured piece outright
			// couldn't reach alpha, so don't bother searching it.
			gain := captureGain(s.pos, m)
			if standPat+gain+futilityMargin < alpha {
				continue
			}
			// SEE pruning: a capture that nets material loss after
			// the full exchange isn't worth searching either.
			if eval.SEE(s.pos, m) < 0 {
				continue
			}
		}

		if !s.tryMove(ply, m) {
			continue
		}
		legalCount++

		score := -s.quiescence(ply+1, -beta, -alpha)

		s.pos.UnmakeMove(m, s.undoStack[ply])

		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				kind = ttable.Exact
			}
		}
		if score >= beta {
			s.tt.Store(s.pos.Hash, 0, ttable.AdjustScoreToTT(score, ply), ttable.LowerBound, m)
			return beta
		}
	}

	if inCheck && legalCount == 0 {
		return -mate + ply
	}

	s.tt.Store(s.pos.Hash, 0, ttable.AdjustScoreToTT(bestScore, ply), kind, board.NoMove)
	return alpha
}

// captureGain estimates the material a capture wins, for delta pruning.
func captureGain(pos *board.Position, m board.Move) int {
	var gain int
	if m.IsEnPassant() {
		gain = board.PieceValue[board.Pawn]
	} else {
		gain = board.PieceValue[pos.PieceAt(m.To()).Type()]
	}
	if m.IsPromotion() {
		gain += board.PieceValue[m.Promotion()] - board.PieceValue[board.Pawn]
	}
	return gain
}
