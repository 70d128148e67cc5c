package eval

import (
	"testing"

	"chessplay/internal/board"
)

func TestEvaluateStartingPositionIsSymmetric(t *testing.T) {
	pos := board.NewPosition()
	if got := Evaluate(pos); got != 0 {
		t.Errorf("Evaluate(startpos) = %d, want 0", got)
	}
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	// White is up a queen.
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Evaluate(pos); got <= board.PieceValue[board.Queen]/2 {
		t.Errorf("Evaluate(white up a queen) = %d, want a clear positive score", got)
	}
}

func TestBishopPairScoresAboveBareKings(t *testing.T) {
	noBishops, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	withBishopPair, err := board.ParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	base := Evaluate(noBishops)
	withPair := Evaluate(withBishopPair)
	if withPair <= base {
		t.Errorf("expected the bishop pair to score above no minor pieces at all: %d <= %d", withPair, base)
	}
}

func TestPhaseStartPositionIsOpening(t *testing.T) {
	pos := board.NewPosition()
	if got := Phase(pos); got != 0 {
		t.Errorf("Phase(startpos) = %d, want 0 (full opening material)", got)
	}
}

func TestPhaseBareKingsIsMaxPhase(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Phase(pos); got != 256 {
		t.Errorf("Phase(bare kings) = %d, want 256 (pure endgame)", got)
	}
}

func TestMVVLVAPrefersCapturingWithLeastValuablePiece(t *testing.T) {
	pawnTakesQueen := MVVLVA(board.Queen, board.Pawn)
	queenTakesQueen := MVVLVA(board.Queen, board.Queen)
	if pawnTakesQueen <= queenTakesQueen {
		t.Errorf("pawn-takes-queen (%d) should score above queen-takes-queen (%d)", pawnTakesQueen, queenTakesQueen)
	}
}

func TestSEEWinningCapture(t *testing.T) {
	// White rook on d1 can take an undefended black rook on d8.
	pos, err := board.ParseFEN("3r1k2/8/8/8/8/8/8/3R1K2 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := board.NewMove(board.D1, board.D8)
	if got := SEE(pos, m); got != board.PieceValue[board.Rook] {
		t.Errorf("SEE(Rxd8, undefended) = %d, want %d", got, board.PieceValue[board.Rook])
	}
}

func TestSEELosingCapture(t *testing.T) {
	// White queen takes a pawn defended by a rook: loses the queen for a pawn.
	pos, err := board.ParseFEN("3r1k2/8/8/8/8/8/3p4/3QK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := board.NewMove(board.D1, board.D2)
	if got := SEE(pos, m); got >= 0 {
		t.Errorf("SEE(Qxd2, defended by rook) = %d, want a negative score", got)
	}
}
