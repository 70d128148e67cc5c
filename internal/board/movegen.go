package board

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := p.GeneratePseudoLegalMoves()
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves: every move
// for the side to move except possibly leaving its own king in check.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return ml
}

// GenerateCaptures generates pseudo-legal captures and promotions only,
// for quiescence search.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateCaptures(ml)
	return ml
}

func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	p.generatePawnMoves(ml, us, enemies, occupied)

	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		addQuietsAndCaptures(ml, from, KnightAttacks(from)&^p.Occupied[us], enemies)
	}

	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		addQuietsAndCaptures(ml, from, BishopAttacks(from, occupied)&^p.Occupied[us], enemies)
	}

	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		addQuietsAndCaptures(ml, from, RookAttacks(from, occupied)&^p.Occupied[us], enemies)
	}

	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		addQuietsAndCaptures(ml, from, QueenAttacks(from, occupied)&^p.Occupied[us], enemies)
	}

	from := p.KingSquare[us]
	addQuietsAndCaptures(ml, from, KingAttacks(from)&^p.Occupied[us], enemies)

	p.generateCastlingMoves(ml, us)
}

func addQuietsAndCaptures(ml *MoveList, from Square, targets, enemies Bitboard) {
	quiet := targets &^ enemies
	for quiet != 0 {
		ml.Add(NewMove(from, quiet.PopLSB()))
	}
	captures := targets & enemies
	for captures != 0 {
		ml.Add(NewCapture(from, captures.PopLSB()))
	}
}

// generatePawnMoves generates pushes, captures, promotions (as four
// distinct move-type codes each, per §4.2) and en passant.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR, promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromo := push1 &^ promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to))
	}

	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewDoublePawnPush(Square(int(to)-2*pushDir), to))
	}

	nonPromoL := attackL &^ promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(NewCapture(Square(int(to)-pushDir+1), to))
	}

	nonPromoR := attackR &^ promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(NewCapture(Square(int(to)-pushDir-1), to))
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to, false)
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to, true)
	}

	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to, true)
	}

	p.addEnPassant(ml, us, pawns)
}

func (p *Position) addEnPassant(ml *MoveList, us Color, pawns Bitboard) {
	if p.EnPassant == NoSquare {
		return
	}
	epBB := SquareBB(p.EnPassant)
	var attackers Bitboard
	if us == White {
		attackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
	} else {
		attackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
	}
	for attackers != 0 {
		ml.Add(NewEnPassant(attackers.PopLSB(), p.EnPassant))
	}
}

// addPromotions adds all four promotion moves (N, B, R, Q).
func addPromotions(ml *MoveList, from, to Square, isCapture bool) {
	for _, pt := range promoTypeOf {
		if isCapture {
			ml.Add(NewPromotionCapture(from, to, pt))
		} else {
			ml.Add(NewPromotion(from, to, pt))
		}
	}
}

// generateCastlingMoves emits castling only if the right is held, the
// squares between king and rook are empty, and neither the king's
// origin nor any square it crosses is attacked.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()

	if us == White {
		if p.CastlingRights&WhiteKingSideCastle != 0 &&
			p.AllOccupied&(SquareBB(F1)|SquareBB(G1)) == 0 &&
			!p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(F1, them) && !p.IsSquareAttacked(G1, them) {
			ml.Add(NewCastling(E1, G1, true))
		}
		if p.CastlingRights&WhiteQueenSideCastle != 0 &&
			p.AllOccupied&(SquareBB(B1)|SquareBB(C1)|SquareBB(D1)) == 0 &&
			!p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(D1, them) && !p.IsSquareAttacked(C1, them) {
			ml.Add(NewCastling(E1, C1, false))
		}
		return
	}

	if p.CastlingRights&BlackKingSideCastle != 0 &&
		p.AllOccupied&(SquareBB(F8)|SquareBB(G8)) == 0 &&
		!p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(F8, them) && !p.IsSquareAttacked(G8, them) {
		ml.Add(NewCastling(E8, G8, true))
	}
	if p.CastlingRights&BlackQueenSideCastle != 0 &&
		p.AllOccupied&(SquareBB(B8)|SquareBB(C8)|SquareBB(D8)) == 0 &&
		!p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(D8, them) && !p.IsSquareAttacked(C8, them) {
		ml.Add(NewCastling(E8, C8, false))
	}
}

// generateCaptures generates capture and promotion moves only.
func (p *Position) generateCaptures(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	enemies := p.Occupied[them]
	occupied := p.AllOccupied

	pawns := p.Pieces[us][Pawn]
	empty := ^occupied
	var attackL, attackR, promoPush, promotionRank Bitboard
	var pushDir int

	if us == White {
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promoPush = pawns.North() & empty & Rank8
		promotionRank = Rank8
		pushDir = 8
	} else {
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promoPush = pawns.South() & empty & Rank1
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromoL := attackL &^ promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(NewCapture(Square(int(to)-pushDir+1), to))
	}
	nonPromoR := attackR &^ promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(NewCapture(Square(int(to)-pushDir-1), to))
	}
	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to, true)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to, true)
	}
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to, false)
	}

	p.addEnPassant(ml, us, pawns)

	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		addCapturesOnly(ml, from, KnightAttacks(from)&enemies)
	}
	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		addCapturesOnly(ml, from, BishopAttacks(from, occupied)&enemies)
	}
	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		addCapturesOnly(ml, from, RookAttacks(from, occupied)&enemies)
	}
	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		addCapturesOnly(ml, from, QueenAttacks(from, occupied)&enemies)
	}

	from := p.KingSquare[us]
	addCapturesOnly(ml, from, KingAttacks(from)&enemies)
}

func addCapturesOnly(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		ml.Add(NewCapture(from, targets.PopLSB()))
	}
}

// filterLegalMoves drops every move that leaves the mover's own king attacked.
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	pinned := p.ComputePinned()
	result := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(m, pinned) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal is the legality check: a non-king, non-en-passant move of an
// unpinned piece can never expose its own king while that king isn't
// already in check, so it's accepted without a make/unmake round
// trip. Every other move (the king itself, en passant, a pinned piece,
// or any move while in check) falls back to making the move, testing
// whether the mover's own king is attacked, and unmaking. pinned is
// the caller's own Position.ComputePinned() result, computed once per
// node rather than once per move since it doesn't change between
// candidates at the same position. Castling legality is fully checked
// at generation time (the king's path, not just its destination), so a
// generated castling move is always legal here.
func (p *Position) IsLegal(m Move, pinned Bitboard) bool {
	if m.IsCastling() {
		return true
	}

	us := p.SideToMove
	ksq := p.KingSquare[us]

	if m.From() != ksq && !m.IsEnPassant() && p.Checkers == 0 && pinned&SquareBB(m.From()) == 0 {
		return true
	}

	if m.From() == ksq {
		ksq = m.To()
	}

	undo := p.MakeMove(m)
	if !undo.Valid {
		return false
	}
	attacked := p.IsSquareAttacked(ksq, p.SideToMove)
	p.UnmakeMove(m, undo)

	return !attacked
}

// HasLegalMoves returns true if the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	pinned := p.ComputePinned()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i), pinned) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is a draw by the 50-move rule
// or insufficient material. Repetition is tracked by the searcher,
// which holds the move history a bare Position does not.
func (p *Position) IsDraw() bool {
	if p.HalfMoveClock >= 100 {
		return true
	}
	return p.IsInsufficientMaterial()
}

// IsInsufficientMaterial returns true if neither side has mating material.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wMinor := p.Pieces[White][Knight].PopCount() + p.Pieces[White][Bishop].PopCount()
	bMinor := p.Pieces[Black][Knight].PopCount() + p.Pieces[Black][Bishop].PopCount()

	if wMinor == 0 && bMinor == 0 {
		return true
	}
	if wMinor <= 1 && bMinor == 0 {
		return true
	}
	if bMinor <= 1 && wMinor == 0 {
		return true
	}
	return false
}

// MakeMove applies a move to the position and returns the undo frame.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
		Valid:          false,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return undo
	}
	undo.Valid = true
	pt := piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	switch {
	case m.IsEnPassant():
		var capSq Square
		if us == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		undo.CapturedPiece = p.removePiece(capSq)
		p.Hash ^= zobristPiece[them][Pawn][capSq]
	case m.IsCapture():
		captured := p.removePiece(to)
		undo.CapturedPiece = captured
		if captured != NoPiece {
			p.Hash ^= zobristPiece[them][captured.Type()][to]
		}
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
	}

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}
	p.Hash ^= zobristCastling[p.CastlingRights]

	if m.IsDoublePawnPush() {
		ep := Square((int(from) + int(to)) / 2)
		p.EnPassant = ep
		p.Hash ^= zobristEnPassant[ep.File()]
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()

	return undo
}

// UnmakeMove restores the position to the state before m, given the
// undo frame MakeMove returned for it.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][promoPt] &^= SquareBB(to)
		p.Pieces[us][Pawn] |= SquareBB(to)
	}

	p.movePiece(to, from)

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookTo, rookFrom)
	}

	if undo.CapturedPiece != NoPiece {
		if m.IsEnPassant() {
			var capSq Square
			if us == White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
			p.setPiece(undo.CapturedPiece, capSq)
		} else {
			p.setPiece(undo.CapturedPiece, to)
		}
	}
}
