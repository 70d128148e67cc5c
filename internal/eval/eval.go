// Package eval implements the engine's static evaluation: tapered
// material and piece-square scoring plus capture helpers (MVV-LVA,
// SEE). The searcher orders moves with EvaluateMove and uses SEE to
// prune losing captures in quiescence; MVVLVA is not called by the
// searcher.
package eval

import "chessplay/internal/board"

// Tapering weights. A game phase runs from 0 (opening, full material)
// to 256 (bare-king endgame), derived from non-pawn, non-king material
// with knight/bishop=1, rook=2, queen=4, summed over both colors
// against a starting-material total of 24 (2N+2B+2R*2+Q*4 per side).
const (
	phaseKnightBishop = 1
	phaseRook         = 2
	phaseQueen        = 4
	neutralPhase      = 24
	maxPhase          = 256
)

const bishopPairBonus = 50
const kingPawnDistanceBonus = 16

// Piece-square tables, one per piece type, defined from Black's POV:
// table[sq] is the bonus for a black piece standing on sq (LERF). A
// white piece on sq looks up table[sq^56] (vertical flip), per the
// project's convention for mirroring a single table across both
// colors. Values and layout are grounded on the project's prior
// full-featured evaluator; trimmed here to the middlegame-only tables
// the tapered terms below actually use, plus the king's separate
// endgame table.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var psts = [...]*[64]int{
	board.Pawn:   &pawnPST,
	board.Knight: &knightPST,
	board.Bishop: &bishopPST,
	board.Rook:   &rookPST,
	board.Queen:  &queenPST,
}

func pstLookup(c board.Color, sq board.Square, table *[64]int) int {
	if c == board.White {
		sq = sq.Mirror()
	}
	return table[sq]
}

// Phase returns the game phase in [0, 256]: 0 for a full opening
// material set, 256 once all non-pawn, non-king material is gone.
func Phase(pos *board.Position) int {
	weighted := 0
	for c := board.White; c <= board.Black; c++ {
		weighted += pos.Pieces[c][board.Knight].PopCount() * phaseKnightBishop
		weighted += pos.Pieces[c][board.Bishop].PopCount() * phaseKnightBishop
		weighted += pos.Pieces[c][board.Rook].PopCount() * phaseRook
		weighted += pos.Pieces[c][board.Queen].PopCount() * phaseQueen
	}
	if weighted > neutralPhase {
		weighted = neutralPhase
	}
	return (maxPhase * (neutralPhase - weighted)) / neutralPhase
}

// Evaluate returns the static evaluation from the side-to-move's
// perspective, in centipawns.
func Evaluate(pos *board.Position) int {
	var mg, eg int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()

				mg += sign * board.PieceValue[pt]
				eg += sign * board.PieceValue[pt]

				if pt == board.King {
					mg += sign * pstLookup(c, sq, &kingMidgamePST)
					eg += sign * pstLookup(c, sq, &kingEndgamePST)
					continue
				}
				v := pstLookup(c, sq, psts[pt])
				mg += sign * v
				eg += sign * v
			}
		}
	}

	bpMg, bpEg := bishopPair(pos)
	mg += bpMg
	eg += bpEg

	eg += kingPawnDistance(pos)

	phase := Phase(pos)
	score := (mg*(maxPhase-phase) + eg*phase) / maxPhase

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// bishopPair awards the side with bishops on both light and dark
// squares a flat bonus, applied symmetrically to the opponent.
func bishopPair(pos *board.Position) (mg, eg int) {
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		bishops := pos.Pieces[c][board.Bishop]
		if bishops&lightSquares != 0 && bishops&darkSquares != 0 {
			mg += sign * bishopPairBonus
			eg += sign * bishopPairBonus
		}
	}
	return mg, eg
}

var lightSquares, darkSquares board.Bitboard

func init() {
	for sq := board.A1; sq <= board.H8; sq++ {
		if (sq.File()+sq.Rank())%2 == 0 {
			darkSquares |= board.SquareBB(sq)
		} else {
			lightSquares |= board.SquareBB(sq)
		}
	}
}

// kingPawnDistance adds the endgame-only king-pawn term: a king far
// from its own pawns leaves them undefended, so distance to one's own
// nearest pawn counts against that side while the enemy king's
// distance to its own pawns counts in the other side's favor.
// Computed once from White's perspective (White's sign convention
// elsewhere in Evaluate), since the Black contribution is its
// negation by construction.
func kingPawnDistance(pos *board.Position) int {
	whiteDist := nearestPawnDistance(pos.KingSquare[board.White], pos.Pieces[board.White][board.Pawn])
	blackDist := nearestPawnDistance(pos.KingSquare[board.Black], pos.Pieces[board.Black][board.Pawn])
	return kingPawnDistanceBonus * (blackDist - whiteDist)
}

// nearestPawnDistance returns the Chebyshev distance from sq to the
// nearest pawn in pawns, or 0 if pawns is empty.
func nearestPawnDistance(sq board.Square, pawns board.Bitboard) int {
	best := -1
	for pawns != 0 {
		psq := pawns.PopLSB()
		d := chebyshevDistance(sq, psq)
		if best == -1 || d < best {
			best = d
		}
	}
	if best == -1 {
		return 0
	}
	return best
}

func chebyshevDistance(a, b board.Square) int {
	fd := a.File() - b.File()
	if fd < 0 {
		fd = -fd
	}
	rd := a.Rank() - b.Rank()
	if rd < 0 {
		rd = -rd
	}
	if fd > rd {
		return fd
	}
	return rd
}

// EvaluateMove estimates a move's score without making it: the
// piece-square delta plus promotion gain plus capture score, tapered
// by phase (the caller's position's game phase — see Phase). Used to
// order moves for search without a full make/Evaluate/unmake round
// trip per candidate; callers scoring every move in a list should
// compute Phase(pos) once and pass it in rather than per move, since
// the position (and so its phase) doesn't change between candidates
// at the same node.
func EvaluateMove(m board.Move, pos *board.Position, phase int) int {
	from, to := m.From(), m.To()
	piece := pos.PieceAt(from)
	if piece == board.NoPiece {
		return 0
	}
	pt, c := piece.Type(), piece.Color()

	score := pstDelta(pt, c, from, to, phase)

	if m.IsPromotion() {
		promo := m.Promotion()
		score += taper(board.PieceValue[promo], board.PieceValue[promo], phase) -
			taper(board.PieceValue[board.Pawn], board.PieceValue[board.Pawn], phase)
	}

	if m.IsCapture() {
		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else {
			victim = pos.PieceAt(to).Type()
		}
		score += taper(board.PieceValue[victim], board.PieceValue[victim], phase)
	}

	return score
}

func pstDelta(pt board.PieceType, c board.Color, from, to board.Square, phase int) int {
	var fromMg, fromEg, toMg, toEg int
	if pt == board.King {
		fromMg, fromEg = pstLookup(c, from, &kingMidgamePST), pstLookup(c, from, &kingEndgamePST)
		toMg, toEg = pstLookup(c, to, &kingMidgamePST), pstLookup(c, to, &kingEndgamePST)
	} else {
		fromMg = pstLookup(c, from, psts[pt])
		fromEg = fromMg
		toMg = pstLookup(c, to, psts[pt])
		toEg = toMg
	}
	return taper(toMg-fromMg, toEg-fromEg, phase)
}

func taper(mg, eg, phase int) int {
	return (mg*(maxPhase-phase) + eg*phase) / maxPhase
}

// attackerRank inverts piece value order so a less valuable attacker
// ranks higher: pawn is the best attacker (rank 5), king the worst
// (rank 0).
func attackerRank(pt board.PieceType) int {
	switch pt {
	case board.Pawn:
		return 5
	case board.Knight:
		return 4
	case board.Bishop:
		return 3
	case board.Rook:
		return 2
	case board.Queen:
		return 1
	default:
		return 0
	}
}

// MVVLVA scores a capture as victim value plus an inverted attacker
// rank, so among equal victims the cheapest attacker sorts first.
func MVVLVA(victim, attacker board.PieceType) int {
	return board.PieceValue[victim] + attackerRank(attacker)
}

// SEE performs static exchange evaluation of a capture on m's target
// square: it alternately swaps off the least valuable attacker of
// each side and returns the net material gain for the side to move,
// used to tell winning from losing captures without a full search.
func SEE(pos *board.Position, m board.Move) int {
	from, to := m.From(), m.To()
	attacker := pos.PieceAt(from)
	if attacker == board.NoPiece {
		return 0
	}

	var gain int
	if m.IsEnPassant() {
		gain = board.PieceValue[board.Pawn]
	} else {
		victim := pos.PieceAt(to)
		if victim == board.NoPiece {
			return 0
		}
		gain = board.PieceValue[victim.Type()]
	}
	if m.IsPromotion() {
		gain += board.PieceValue[m.Promotion()] - board.PieceValue[board.Pawn]
	}

	return seeSwap(pos, to, from, attacker, gain)
}

func seeSwap(pos *board.Position, target, excludeFrom board.Square, firstAttacker board.Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := pos.AllOccupied &^ board.SquareBB(excludeFrom)
	attackerValue := board.PieceValue[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for {
		d++
		gain[d] = attackerValue - gain[d-1]
		if maxInt(-gain[d-1], gain[d]) < 0 {
			break
		}

		attackerSq, attackerPiece := getLeastValuableAttacker(pos, target, side, occupied)
		if attackerSq == board.NoSquare {
			break
		}

		occupied &^= board.SquareBB(attackerSq)
		attackerValue = board.PieceValue[attackerPiece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -maxInt(-gain[d-1], gain[d])
	}
	return gain[0]
}

// getLeastValuableAttacker returns side's cheapest piece attacking
// target given occupied, checked in ascending value order so the
// first match is always the least valuable one; NoSquare if side has
// no attacker left.
func getLeastValuableAttacker(pos *board.Position, target board.Square, side board.Color, occupied board.Bitboard) (board.Square, board.Piece) {
	pawns := pos.Pieces[side][board.Pawn]
	if attackers := pawns & board.PawnAttacks(target, side.Other()) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Pawn, side)
	}

	knights := pos.Pieces[side][board.Knight]
	if attackers := knights & board.KnightAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Knight, side)
	}

	bishopAttacks := board.BishopAttacks(target, occupied)
	bishops := pos.Pieces[side][board.Bishop]
	if attackers := bishops & bishopAttacks & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Bishop, side)
	}

	rookAttacks := board.RookAttacks(target, occupied)
	rooks := pos.Pieces[side][board.Rook]
	if attackers := rooks & rookAttacks & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Rook, side)
	}

	queens := pos.Pieces[side][board.Queen]
	if attackers := queens & (bishopAttacks | rookAttacks) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Queen, side)
	}

	kings := pos.Pieces[side][board.King]
	if attackers := kings & board.KingAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.King, side)
	}

	return board.NoSquare, board.NoPiece
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
