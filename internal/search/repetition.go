package search

import "chessplay/internal/board"

// positionKey captures exactly the fields that decide chess-rules
// equality for repetition purposes: side to move, castling rights, en
// passant square, and the piece placement. Two positions with equal
// keys are the same position under the repetition rule even if they
// were reached by different move orders.
type positionKey struct {
	sideToMove     board.Color
	castlingRights board.CastlingRights
	enPassant      board.Square
	pieces         [2][6]board.Bitboard
}

func keyOf(pos *board.Position) positionKey {
	return positionKey{
		sideToMove:     pos.SideToMove,
		castlingRights: pos.CastlingRights,
		enPassant:      pos.EnPassant,
		pieces:         pos.Pieces,
	}
}

// histEntry records one position reached on the path to the current
// search node: its hash (a cheap pre-check), its full structural key
// (the actual proof of equality, since a hash match alone only shows
// a collision is *possible*), and whether the move that produced it
// is irreversible (a capture, a castle, or a pawn move). A repetition
// can never be claimed across an irreversible move, since the
// position on the far side of it is no longer reachable.
type histEntry struct {
	hash         uint64
	key          positionKey
	irreversible bool
}

// primeHistory rebuilds the path leading to root by replaying
// priorMoves from the standard starting position, starting with an
// entry for the starting position itself so the recorded path has one
// entry per ply of the game, including ply 0. The front end is
// expected to have provided the full move list of the game so far; if
// it didn't (or the replay doesn't land on root), the history is reset
// to hold just root's own position so in-search repetitions against it
// are still caught.
func (s *Searcher) primeHistory(root *board.Position, priorMoves []board.Move) {
	replay := board.NewPosition()
	s.hist = s.hist[:0]
	s.hist = append(s.hist, histEntry{replay.Hash, keyOf(replay), false})
	for _, m := range priorMoves {
		piece := replay.PieceAt(m.From())
		irr := m.IsCapture() || m.IsCastling() || (piece != board.NoPiece && piece.Type() == board.Pawn)
		replay.MakeMove(m)
		s.hist = append(s.hist, histEntry{replay.Hash, keyOf(replay), irr})
	}
	if s.hist[len(s.hist)-1].hash != root.Hash {
		s.hist = s.hist[:0]
		s.hist = append(s.hist, histEntry{root.Hash, keyOf(root), false})
	}
}

// pushHistory records the position just reached during the live
// search (pos must already reflect the move played), at the given
// move's irreversibility.
func (s *Searcher) pushHistory(pos *board.Position, m board.Move, moved board.PieceType) {
	irr := m.IsCapture() || m.IsCastling() || moved == board.Pawn
	s.hist = append(s.hist, histEntry{pos.Hash, keyOf(pos), irr})
}

func (s *Searcher) popHistory() {
	s.hist = s.hist[:len(s.hist)-1]
}

// isRepetition reports whether the current position (the last entry
// pushed) already occurred earlier on this path, walking back two
// plies at a time (same side to move) and stopping once either ply of
// that two-ply step crossed an irreversible move. The hash is only a
// candidate filter; a match is confirmed with a full structural
// comparison, since a hash collision alone is not proof two positions
// are identical. The source this engine is modeled on draws on the
// first such repeat, not the customary third.
func (s *Searcher) isRepetition() bool {
	n := len(s.hist)
	if n == 0 {
		return false
	}
	current := s.hist[n-1]
	for i := n - 3; i >= 0; i -= 2 {
		if s.hist[i].hash == current.hash && s.hist[i].key == current.key {
			return true
		}
		if s.hist[i].irreversible || s.hist[i+1].irreversible {
			break
		}
	}
	return false
}
