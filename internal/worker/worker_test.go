package worker

import (
	"sync/atomic"
	"testing"
	"time"

	"chessplay/internal/board"
	"chessplay/internal/search"
)

func TestRunPerftReportsKnownNodeCount(t *testing.T) {
	w := New()
	pos := board.NewPosition()

	var got uint64
	w.Run(Arg{
		Pos:   pos,
		Perft: 4,
		OnInfo: func(info search.Info) {
			got = info.Nodes
		},
	})

	const want = 197281 // perft(4) from the standard starting position
	if got != want {
		t.Errorf("perft(4) = %d, want %d", got, want)
	}
}

func TestRunSearchReportsBestMove(t *testing.T) {
	w := New()
	pos := board.NewPosition()

	var best board.Move
	w.Run(Arg{
		Pos:   pos,
		Depth: 4,
		OnBestMove: func(m board.Move) {
			best = m
		},
	})

	if best == board.NoMove {
		t.Error("expected a best move for the starting position")
	}
}

func TestRunHonorsExternalStop(t *testing.T) {
	w := New()
	pos := board.NewPosition()
	stop := &atomic.Bool{}

	go func() {
		time.Sleep(20 * time.Millisecond)
		stop.Store(true)
	}()

	done := make(chan struct{})
	w.Run(Arg{
		Pos:      pos,
		Infinite: true,
		Stop:     stop,
		OnBestMove: func(board.Move) {
			close(done)
		},
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("search did not stop after Stop was set")
	}
}

func TestResizeAndClearHash(t *testing.T) {
	ResizeHash(1)
	ClearHash()
	// Nothing to assert beyond not panicking: this exercises the
	// shared table's lifecycle as a UCI setoption handler would.
}
