package board

// Move is a 16-bit packed move:
//
//	bits 0-5:   from square
//	bits 6-11:  to square
//	bits 12-13: move type (normal, castling, promotion, en passant)
//	bits 14-15: promotion piece type, biased from Knight
//
// Two patterns are reserved and never generated: MoveNone (A1 to A1)
// and MoveNull (H8 to H8).
type Move uint16

// MoveType distinguishes special move kinds.
type MoveType uint16

const (
	Normal MoveType = iota
	Castling
	Promotion
	EnPassant
)

const (
	MoveNone Move = 0
	MoveNull Move = Move(H8) | Move(H8)<<6
)

// NewMove creates a normal move
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(Promotion)<<12 | Move(promo-Knight)<<14
}

// NewEnPassant creates an en passant capture
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(EnPassant)<<12
}

// NewCastling creates a castling move (encoded as the king move)
func NewCastling(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(Castling)<<12
}

// From returns the origin square
func (m Move) From() Square {
	return Square(m & 63)
}

// To returns the destination square
func (m Move) To() Square {
	return Square(m >> 6 & 63)
}

// Type returns the move type
func (m Move) Type() MoveType {
	return MoveType(m >> 12 & 3)
}

// PromotionType returns the promotion piece type (valid only for
// promotion moves).
func (m Move) PromotionType() PieceType {
	return PieceType(m>>14&3) + Knight
}

// IsPromotion returns true for promotion moves
func (m Move) IsPromotion() bool {
	return m.Type() == Promotion
}

// IsCastling returns true for castling moves
func (m Move) IsCastling() bool {
	return m.Type() == Castling
}

// IsEnPassant returns true for en passant captures
func (m Move) IsEnPassant() bool {
	return m.Type() == EnPassant
}

// String returns the move in UCI format (e.g., "e2e4", "e7e8q")
func (m Move) String() string {
	if m == MoveNone {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		switch m.PromotionType() {
		case Knight:
			s += "n"
		case Bishop:
			s += "b"
		case Rook:
			s += "r"
		case Queen:
			s += "q"
		}
	}
	return s
}
