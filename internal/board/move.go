package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   origin square (0-63)
// bits 6-11:  target square (0-63)
// bits 12-15: move type (see the MoveType... constants)
//
// Unlike a flags+promotion-index scheme, every promotion and
// promotion-capture gets its own type code, so IsCapture/IsPromotion
// never need to consult the board.
type Move uint16

// MoveType enumerates the sixteen move-type codes packed into bits 12-15.
type MoveType uint8

const (
	MoveQuiet MoveType = iota
	MoveDoublePawnPush
	MoveKingCastle
	MoveQueenCastle
	MoveCapture
	MoveEPCapture
	_ // 6, 7 unused: mirrors the Cftv/"VICE" 4-bit encoding this is grounded on
	_
	MoveKnightPromo
	MoveBishopPromo
	MoveRookPromo
	MoveQueenPromo
	MoveKnightPromoCapture
	MoveBishopPromoCapture
	MoveRookPromoCapture
	MoveQueenPromoCapture
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

func encode(from, to Square, t MoveType) Move {
	return Move(from) | Move(to)<<6 | Move(t)<<12
}

// NewMove creates a quiet (non-capture, non-promotion) move.
func NewMove(from, to Square) Move {
	return encode(from, to, MoveQuiet)
}

// NewDoublePawnPush creates a two-square pawn push (sets the en-passant file).
func NewDoublePawnPush(from, to Square) Move {
	return encode(from, to, MoveDoublePawnPush)
}

// NewCapture creates a non-promotion capture.
func NewCapture(from, to Square) Move {
	return encode(from, to, MoveCapture)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return encode(from, to, MoveEPCapture)
}

// NewCastling creates a castling move (king's movement) given the side.
func NewCastling(from, to Square, kingSide bool) Move {
	if kingSide {
		return encode(from, to, MoveKingCastle)
	}
	return encode(from, to, MoveQueenCastle)
}

var promoTypeOf = [4]PieceType{Knight, Bishop, Rook, Queen}
var promoMoveType = map[PieceType]MoveType{
	Knight: MoveKnightPromo,
	Bishop: MoveBishopPromo,
	Rook:   MoveRookPromo,
	Queen:  MoveQueenPromo,
}
var promoCaptureMoveType = map[PieceType]MoveType{
	Knight: MoveKnightPromoCapture,
	Bishop: MoveBishopPromoCapture,
	Rook:   MoveRookPromoCapture,
	Queen:  MoveQueenPromoCapture,
}

// NewPromotion creates a non-capture promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return encode(from, to, promoMoveType[promo])
}

// NewPromotionCapture creates a promotion-capture move.
func NewPromotionCapture(from, to Square, promo PieceType) Move {
	return encode(from, to, promoCaptureMoveType[promo])
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Type returns the packed move type.
func (m Move) Type() MoveType {
	return MoveType(m >> 12)
}

// Promotion returns the promotion piece type; only valid if IsPromotion().
func (m Move) Promotion() PieceType {
	switch m.Type() {
	case MoveKnightPromo, MoveKnightPromoCapture:
		return Knight
	case MoveBishopPromo, MoveBishopPromoCapture:
		return Bishop
	case MoveRookPromo, MoveRookPromoCapture:
		return Rook
	case MoveQueenPromo, MoveQueenPromoCapture:
		return Queen
	default:
		return NoPieceType
	}
}

// IsCapture returns true for plain captures, en-passant and promo-captures.
func (m Move) IsCapture() bool {
	switch m.Type() {
	case MoveCapture, MoveEPCapture,
		MoveKnightPromoCapture, MoveBishopPromoCapture, MoveRookPromoCapture, MoveQueenPromoCapture:
		return true
	default:
		return false
	}
}

// IsPromotion returns true for all eight promotion move types.
func (m Move) IsPromotion() bool {
	switch m.Type() {
	case MoveKnightPromo, MoveBishopPromo, MoveRookPromo, MoveQueenPromo,
		MoveKnightPromoCapture, MoveBishopPromoCapture, MoveRookPromoCapture, MoveQueenPromoCapture:
		return true
	default:
		return false
	}
}

// IsCastling returns true for king-side or queen-side castling.
func (m Move) IsCastling() bool {
	return m.Type() == MoveKingCastle || m.Type() == MoveQueenCastle
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Type() == MoveEPCapture
}

// IsDoublePawnPush returns true if this is a two-square pawn push.
func (m Move) IsDoublePawnPush() bool {
	return m.Type() == MoveDoublePawnPush
}

// IsQuiet returns true if the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns the UCI/LAN format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}
		s += string(promoChars[m.Promotion()])
	}

	return s
}

// ParseMove parses a LAN move string against pos to recover its exact type.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()
	captured := pos.PieceAt(to) != NoPiece

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		if captured {
			return NewPromotionCapture(from, to, promo), nil
		}
		return NewPromotion(from, to, promo), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		return NewCastling(from, to, to > from), nil
	}

	if pt == Pawn && to == pos.EnPassant && !captured {
		return NewEnPassant(from, to), nil
	}

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		return NewDoublePawnPush(from, to), nil
	}

	if captured {
		return NewCapture(from, to), nil
	}
	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves, bounded per spec at 256
// entries per ply to avoid per-node allocation.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list's array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores the irreversible state needed to undo a move: the
// per-spec "irreversible state" frame (castling rights, half-move
// clock, captured piece, en-passant file/present flag) plus enough of
// the hash/checkers snapshot to restore position.InCheck() in O(1).
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Checkers       Bitboard
	Valid          bool // false if MakeMove was called with no piece on From()
}
