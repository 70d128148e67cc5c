// Package worker wires a single searcher to the shared
// transposition table and exposes the one entry point a front end
// (UCI loop, CLI, test harness) needs: Run. There is no Lazy-SMP
// fan-out here; this engine always searches with exactly one worker.
package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"chessplay/internal/board"
	"chessplay/internal/search"
	"chessplay/internal/ttable"
)

const defaultHashMB = 64

var (
	ttOnce   sync.Once
	sharedTT *ttable.Table
)

func sharedTable() *ttable.Table {
	ttOnce.Do(func() {
		sharedTT = ttable.New(defaultHashMB)
	})
	return sharedTT
}

// ResizeHash replaces the shared transposition table with one sized
// to megabytes, discarding its contents. Used to serve a UCI
// "setoption name Hash value N".
func ResizeHash(megabytes int) {
	sharedTable().Resize(megabytes)
}

// ClearHash empties the shared transposition table without resizing it.
func ClearHash() {
	sharedTable().Clear()
}

// Arg bundles a search request: the root position and the moves that
// led to it (for repetition detection), the limits governing how
// long to search, and the callbacks a front end uses to receive
// progress and the final result.
type Arg struct {
	Pos        *board.Position
	PriorMoves []board.Move

	Infinite  bool
	Mate      int
	Depth     int
	Nodes     uint64
	MovesToGo int
	Perft     int
	MoveTime  time.Duration
	Time      [2]time.Duration
	Inc       [2]time.Duration

	OnInfo     func(search.Info)
	OnBestMove func(board.Move)

	Stop *atomic.Bool
}

// Worker runs one search at a time, synchronously, on its own
// Searcher. A caller that wants a background search runs Run in its
// own goroutine and signals it to stop via Arg.Stop.
type Worker struct {
	searcher *search.Searcher
}

// New creates a worker backed by the process-wide transposition table.
func New() *Worker {
	return &Worker{searcher: search.NewSearcher(sharedTable())}
}

// Run executes arg synchronously: a perft count if arg.Perft is set,
// otherwise an iterative-deepening search, reporting progress via
// arg.OnInfo and the final choice via arg.OnBestMove.
func (w *Worker) Run(arg Arg) {
	stop := arg.Stop
	if stop == nil {
		stop = &atomic.Bool{}
	}

	if arg.Perft > 0 {
		w.runPerft(arg)
		return
	}

	limits := search.Limits{
		Depth:     arg.Depth,
		Nodes:     arg.Nodes,
		MoveTime:  arg.MoveTime,
		Time:      arg.Time,
		Inc:       arg.Inc,
		MovesToGo: arg.MovesToGo,
		Infinite:  arg.Infinite,
		Mate:      arg.Mate,
	}

	best, _ := w.searcher.IterativeDeepening(arg.Pos, arg.PriorMoves, limits, stop, arg.OnInfo)
	if arg.OnBestMove != nil {
		arg.OnBestMove(best)
	}
}

func (w *Worker) runPerft(arg Arg) {
	pos := arg.Pos.Copy()
	start := time.Now()
	nodes := pos.Perft(arg.Perft)
	elapsed := time.Since(start)

	if arg.OnInfo != nil {
		info := search.Info{Depth: arg.Perft, Nodes: nodes, Time: elapsed}
		if elapsed > 0 {
			info.NPS = uint64(float64(nodes) / elapsed.Seconds())
		}
		arg.OnInfo(info)
	}
}

// Nodes returns the node count of the worker's most recent search.
func (w *Worker) Nodes() uint64 {
	return w.searcher.Nodes()
}
