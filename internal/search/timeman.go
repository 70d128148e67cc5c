package search

import (
	"math"
	"time"

	"chessplay/internal/board"
)

// averageGameLength is the number of moves a sudden-death clock is
// assumed to need to cover, used to size the per-move time slice
// when the opponent hasn't told us movestogo.
const averageGameLength = 40

// TimeManager turns the Limits for one search into a concrete
// optimum (soft) and maximum (hard) deadline. Iterative deepening
// checks PastOptimum between depths; the search loop checks
// ShouldStop between nodes.
type TimeManager struct {
	startTime   time.Time
	optimumTime time.Duration
	maximumTime time.Duration
	active      bool
}

// Init computes the deadlines for a search as White (or Black) to
// move, given the position's game phase (0 = opening, 256 = endgame,
// matching eval.Phase) so the per-move slice grows as pieces come off
// the board and fewer moves remain to spread the clock across.
func (tm *TimeManager) Init(limits Limits, us board.Color, phase int, now time.Time) {
	tm.startTime = now
	tm.active = false

	switch {
	case limits.MoveTime > 0:
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		tm.active = true
	case limits.Infinite || (limits.Time[us] == 0 && limits.Depth == 0 && limits.Nodes == 0):
		tm.optimumTime = 0
		tm.maximumTime = 0
	case limits.Time[us] > 0:
		tm.optimumTime = allocate(limits.Time[us], limits.Inc[us], limits.MovesToGo, phase)
		tm.maximumTime = maxDeadline(tm.optimumTime, limits.Time[us])
		tm.active = true
	}
}

// maxDeadline derives the hard stop from the soft one: 5x optimum or
// 80% of the remaining clock, whichever is smaller, capped at 95% of
// the remaining clock so a maximum this generous never itself flags
// on time.
func maxDeadline(optimum, timeLeft time.Duration) time.Duration {
	max := optimum * 5
	if fromRemaining := timeLeft * 8 / 10; fromRemaining < max {
		max = fromRemaining
	}
	if safety := timeLeft * 95 / 100; max > safety {
		max = safety
	}
	return max
}

func allocate(timeLeft, inc time.Duration, movesToGo, phase int) time.Duration {
	if movesToGo == 1 {
		t := timeLeft.Seconds()
		f := math.Pow(t, 1.1) / math.Pow(t+1, 1.1)
		return time.Duration(float64(timeLeft) * f)
	}

	maxMoves := averageGameLength
	if movesToGo > 0 && movesToGo < maxMoves {
		maxMoves = movesToGo
	}
	divisor := (maxMoves*(256-phase) + 8*phase) / 256
	if divisor < 1 {
		divisor = 1
	}
	return (timeLeft + inc) / time.Duration(divisor)
}

// Elapsed returns the time spent so far in this search.
func (tm *TimeManager) Elapsed(now time.Time) time.Duration {
	return now.Sub(tm.startTime)
}

// PastOptimum reports whether iterative deepening should stop
// starting a new, deeper iteration.
func (tm *TimeManager) PastOptimum(now time.Time) bool {
	if !tm.active {
		return false
	}
	return tm.Elapsed(now) >= tm.optimumTime
}

// ShouldStop reports whether the hard deadline has passed; the
// search must abort immediately when this is true.
func (tm *TimeManager) ShouldStop(now time.Time) bool {
	if !tm.active {
		return false
	}
	return tm.Elapsed(now) >= tm.maximumTime
}
