package search

import (
	"sync/atomic"
	"testing"
	"time"

	"chessplay/internal/board"
	"chessplay/internal/ttable"
)

func TestSearchFindsMateInOne(t *testing.T) {
	// White to move: Qh1-a8 is mate, the black king boxed in by its own pawns.
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/4K2Q w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	s := NewSearcher(ttable.New(4))
	stop := &atomic.Bool{}
	limits := Limits{Depth: 4}

	best, info := s.IterativeDeepening(pos, nil, limits, stop, nil)
	if best == board.NoMove {
		t.Fatal("expected a move, got NoMove")
	}
	if info.Mate != 1 {
		t.Errorf("expected mate in 1, got info.Mate=%d (score=%d)", info.Mate, info.Score)
	}
}

func TestSearchBasicStartingPosition(t *testing.T) {
	pos := board.NewPosition()
	s := NewSearcher(ttable.New(16))
	stop := &atomic.Bool{}
	limits := Limits{Depth: 5}

	best, info := s.IterativeDeepening(pos, nil, limits, stop, nil)
	if best == board.NoMove {
		t.Fatal("search returned NoMove for starting position")
	}
	if info.Depth != 5 {
		t.Errorf("expected last reported depth 5, got %d", info.Depth)
	}
	t.Logf("best=%s score=%d nodes=%d pv=%v", best, info.Score, info.Nodes, info.PV)
}

func TestSearchRespectsMoveTime(t *testing.T) {
	pos := board.NewPosition()
	s := NewSearcher(ttable.New(16))
	stop := &atomic.Bool{}
	limits := Limits{MoveTime: 100 * time.Millisecond}

	start := time.Now()
	best, _ := s.IterativeDeepening(pos, nil, limits, stop, nil)
	elapsed := time.Since(start)

	if best == board.NoMove {
		t.Fatal("expected a move within the time budget")
	}
	if elapsed > 2*time.Second {
		t.Errorf("search overran its move time badly: %s", elapsed)
	}
}

func TestSearchDetectsStalemateAsDraw(t *testing.T) {
	// Classic stalemate: Black king h8 has no legal move, not in check.
	pos, err := board.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.IsStalemate() {
		t.Fatal("test position is not actually stalemate, fix the FEN")
	}

	s := NewSearcher(ttable.New(4))
	stop := &atomic.Bool{}
	limits := Limits{Depth: 3}

	best, info := s.IterativeDeepening(pos, nil, limits, stop, nil)
	if best != board.NoMove {
		t.Errorf("expected NoMove at a stalemated position, got %s", best)
	}
	if info.Score != 0 {
		t.Errorf("expected draw score 0, got %d", info.Score)
	}
}

func TestSearchRepetitionHistoryIsPrimed(t *testing.T) {
	// Shuffle knights back and forth so the search's primed history
	// contains a repeated hash by the time it reaches the root again.
	priorMoves := []board.Move{
		board.NewMove(board.G1, board.F3),
		board.NewMove(board.G8, board.F6),
		board.NewMove(board.F3, board.G1),
		board.NewMove(board.F6, board.G8),
	}

	replay := board.NewPosition()
	for _, m := range priorMoves {
		replay.MakeMove(m)
	}

	s := NewSearcher(ttable.New(4))
	s.primeHistory(replay, priorMoves)
	if len(s.hist) != len(priorMoves)+1 {
		t.Fatalf("expected %d primed history entries, got %d", len(priorMoves)+1, len(s.hist))
	}
	if s.hist[len(s.hist)-1].hash != replay.Hash {
		t.Error("primed history does not end on the root position's hash")
	}
}
