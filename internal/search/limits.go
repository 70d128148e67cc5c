// Package search implements iterative-deepening negamax over the
// board package's move generator and the shared transposition table.
package search

import (
	"time"

	"chessplay/internal/board"
)

// Limits bounds a single search call. Zero values mean "no limit" for
// that dimension except where noted.
type Limits struct {
	Depth     int           // search to this depth if > 0
	Nodes     uint64        // checked after each completed depth: no deeper iteration starts once this many nodes have been searched; a depth in progress is not cut short
	MoveTime  time.Duration // search for exactly this long if > 0
	Time      [2]time.Duration
	Inc       [2]time.Duration
	MovesToGo int
	Infinite  bool // ignore time management, run until Stop or Depth
	Mate      int  // search for a mate in this many moves (0 = not mate search)
}

// Info is emitted once per completed iterative-deepening depth.
type Info struct {
	Depth    int
	Score    int
	Mate     int // moves to mate, 0 if Score isn't a mate score
	Nodes    uint64
	NPS      uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int
}
