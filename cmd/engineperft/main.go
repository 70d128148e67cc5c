// Command engineperft is a thin driver for manual and CI smoke testing
// of the search and move generator: it runs a perft count or a single
// one-shot "go depth N" search from a given FEN and prints the result.
// It is not a UCI front end; option parsing is limited to the flags
// below.
package main

import (
	"flag"
	"log"
	"sync/atomic"
	"time"

	"chessplay/internal/board"
	"chessplay/internal/search"
	"chessplay/internal/worker"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN of the position to use")
	depth := flag.Int("depth", 0, "perft depth, or search depth if -perft is false")
	perft := flag.Bool("perft", true, "run perft instead of a search")
	moveTime := flag.Duration("movetime", 0, "search for this long instead of to a fixed depth")
	hashMB := flag.Int("hash", 64, "transposition table size in MB")
	flag.Parse()

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("[engineperft] invalid FEN %q: %v", *fen, err)
	}

	worker.ResizeHash(*hashMB)
	w := worker.New()
	stop := &atomic.Bool{}

	if *perft {
		runPerft(w, pos, *depth, stop)
		return
	}
	runSearch(w, pos, *depth, *moveTime, stop)
}

func runPerft(w *worker.Worker, pos *board.Position, depth int, stop *atomic.Bool) {
	if depth <= 0 {
		depth = 5
	}
	w.Run(worker.Arg{
		Pos:   pos,
		Perft: depth,
		Stop:  stop,
		OnInfo: func(info search.Info) {
			log.Printf("[perft] depth=%d nodes=%d time=%s nps=%d",
				info.Depth, info.Nodes, info.Time, info.NPS)
		},
	})
}

func runSearch(w *worker.Worker, pos *board.Position, depth int, moveTime time.Duration, stop *atomic.Bool) {
	if depth <= 0 && moveTime <= 0 {
		depth = 6
	}
	w.Run(worker.Arg{
		Pos:      pos,
		Depth:    depth,
		MoveTime: moveTime,
		Stop:     stop,
		OnInfo: func(info search.Info) {
			log.Printf("[search] depth=%d score=%d nodes=%d time=%s nps=%d pv=%v",
				info.Depth, info.Score, info.Nodes, info.Time, info.NPS, info.PV)
		},
		OnBestMove: func(m board.Move) {
			log.Printf("[search] bestmove=%s", m)
		},
	})
}
