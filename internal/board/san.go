package board

import (
	"strings"
)

// Move text in three formats: SAN ("Nxc6", "e8=Q", "O-O"), long
// algebraic AN ("e2-e4", "e7-e8Q", "O-O") and UCI ("e2e4", "e7e8q",
// castlings as the king move).

// IsCapture reports whether the move captures in the given position.
func (m Move) IsCapture(p *Position) bool {
	return m.IsEnPassant() || p.PieceAt(m.To()) != NoPiece
}

// ToSAN renders the move in Standard Algebraic Notation for the given
// position. Disambiguation is minimal: file first, then rank, both
// only when necessary.
func (m Move) ToSAN(p *Position) string {
	if m == MoveNone {
		return "-"
	}
	if m.IsCastling() {
		if m.To() > m.From() {
			return "O-O" + m.checkSuffix(p)
		}
		return "O-O-O" + m.checkSuffix(p)
	}

	from, to := m.From(), m.To()
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return m.String()
	}
	pt := piece.Type()

	var sb strings.Builder
	if pt != Pawn {
		sb.WriteString(pt.Char())
		sb.WriteString(disambiguation(p, m, pt))
	}

	if m.IsCapture(p) {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(to.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteString(m.PromotionType().Char())
	}

	sb.WriteString(m.checkSuffix(p))
	return sb.String()
}

// checkSuffix returns "#" for mating moves, "+" for checking moves.
func (m Move) checkSuffix(p *Position) string {
	prev := p.DoMove(m)
	defer p.UndoMove(m, prev)
	if !p.InCheck() {
		return ""
	}
	if p.HasLegalMoves() {
		return "+"
	}
	return "#"
}

// disambiguation returns the origin qualifier needed when another
// piece of the same type can reach the same destination.
func disambiguation(p *Position, m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	sameFile, sameRank, any := false, false, false

	legal := p.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		other := legal.Move(i)
		if other.To() != to || other.From() == from {
			continue
		}
		if p.PieceAt(other.From()).Type() != pt {
			continue
		}
		any = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !any:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ToAN renders the move in long algebraic notation ("e2-e4",
// "e7-e8Q", "O-O").
func (m Move) ToAN() string {
	if m == MoveNone {
		return "-"
	}
	if m.IsCastling() {
		if m.To() > m.From() {
			return "O-O"
		}
		return "O-O-O"
	}
	s := m.From().String() + "-" + m.To().String()
	if m.IsPromotion() {
		s += m.PromotionType().Char()
	}
	return s
}

// ParseSAN resolves a SAN string against the position's legal moves.
// Under-promotions to rook and bishop are representable.
func (p *Position) ParseSAN(text string) (Move, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimRight(s, "+#!?")
	if s == "" {
		return MoveNone, &ParseError{Input: text, Reason: "empty move text"}
	}

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		return p.parseCastling(text, len(s) > 3)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		if idx+1 >= len(s) {
			return MoveNone, &ParseError{Input: text, Reason: "missing promotion piece type"}
		}
		promo = PieceTypeFromChar(s[idx+1])
		if promo < Knight || promo > Queen {
			return MoveNone, &ParseError{Input: text, Reason: "invalid promotion piece type"}
		}
		s = s[:idx]
	}

	isCapture := strings.ContainsRune(s, 'x')
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = PieceTypeFromChar(s[0])
		if pt == NoPieceType {
			return MoveNone, &ParseError{Input: text, Reason: "invalid piece letter"}
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return MoveNone, &ParseError{Input: text, Reason: "missing destination square"}
	}
	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return MoveNone, &ParseError{Input: text, Reason: "invalid destination square"}
	}
	s = s[:len(s)-2]

	fromFile, fromRank := -1, -1
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= 'a' && c <= 'h':
			fromFile = int(c - 'a')
		case c >= '1' && c <= '8':
			fromRank = int(c - '1')
		default:
			return MoveNone, &ParseError{Input: text, Reason: "invalid disambiguation"}
		}
	}

	legal := p.GenerateLegalMovesEx()
	match := MoveNone
	for i := 0; i < legal.Len(); i++ {
		m := legal.Move(i)
		if m.To() != to || m.IsCastling() {
			continue
		}
		from := m.From()
		if p.PieceAt(from).Type() != pt {
			continue
		}
		if fromFile >= 0 && from.File() != fromFile {
			continue
		}
		if fromRank >= 0 && from.Rank() != fromRank {
			continue
		}
		if isCapture && !m.IsCapture(p) {
			continue
		}
		if promo != NoPieceType {
			if !m.IsPromotion() || m.PromotionType() != promo {
				continue
			}
		} else if m.IsPromotion() {
			continue
		}
		if match != MoveNone {
			return MoveNone, &ParseError{Input: text, Reason: "ambiguous move"}
		}
		match = m
	}

	if match == MoveNone {
		return MoveNone, &IllegalMoveError{Move: text}
	}
	return match, nil
}

func (p *Position) parseCastling(text string, queenside bool) (Move, error) {
	ksq, kTo := E1, G1
	if p.sideToMove == Black {
		ksq, kTo = E8, G8
	}
	if queenside {
		kTo = C1
		if p.sideToMove == Black {
			kTo = C8
		}
	}
	m := NewCastling(ksq, kTo)
	legal := p.GenerateLegalMoves()
	if !legal.Contains(m) {
		return MoveNone, &IllegalMoveError{Move: text}
	}
	return m, nil
}

// ParseAN resolves long algebraic notation ("e2-e4", "e7-e8Q",
// "O-O") against the position's legal moves.
func (p *Position) ParseAN(text string) (Move, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimRight(s, "+#")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		return p.parseCastling(text, len(s) > 3)
	}

	if len(s) < 5 || s[2] != '-' {
		return MoveNone, &ParseError{Input: text, Reason: "expected from-to form"}
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return MoveNone, &ParseError{Input: text, Reason: "invalid from square"}
	}
	to, err := ParseSquare(s[3:5])
	if err != nil {
		return MoveNone, &ParseError{Input: text, Reason: "invalid to square"}
	}

	promo := NoPieceType
	if len(s) > 5 {
		promo = PieceTypeFromChar(s[5])
		if promo < Knight || promo > Queen {
			return MoveNone, &ParseError{Input: text, Reason: "invalid promotion piece type"}
		}
	}

	return p.matchMove(text, from, to, promo)
}

// ParseUCI resolves UCI move text ("e2e4", "e7e8q", castlings as the
// king move) against the position's legal moves.
func (p *Position) ParseUCI(text string) (Move, error) {
	s := strings.TrimSpace(text)
	if len(s) < 4 {
		return MoveNone, &ParseError{Input: text, Reason: "move text too short"}
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return MoveNone, &ParseError{Input: text, Reason: "invalid from square"}
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return MoveNone, &ParseError{Input: text, Reason: "invalid to square"}
	}

	promo := NoPieceType
	if len(s) > 4 {
		promo = PieceTypeFromChar(s[4] - 'a' + 'A')
		if promo < Knight || promo > Queen {
			return MoveNone, &ParseError{Input: text, Reason: "invalid promotion piece type"}
		}
	}

	return p.matchMove(text, from, to, promo)
}

// matchMove finds the unique legal move with the given endpoints and
// promotion. Castling and en passant encodings are matched by their
// from/to squares, so a UCI king move like e1g1 resolves correctly.
func (p *Position) matchMove(text string, from, to Square, promo PieceType) (Move, error) {
	legal := p.GenerateLegalMovesEx()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Move(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() {
			if m.PromotionType() != promo {
				continue
			}
		} else if promo != NoPieceType {
			continue
		}
		return m, nil
	}
	return MoveNone, &IllegalMoveError{Move: text}
}

// ParseMove accepts any of the three supported formats, trying UCI,
// AN and SAN in turn.
func (p *Position) ParseMove(text string) (Move, error) {
	if m, err := p.ParseUCI(text); err == nil {
		return m, nil
	}
	if m, err := p.ParseAN(text); err == nil {
		return m, nil
	}
	return p.ParseSAN(text)
}
