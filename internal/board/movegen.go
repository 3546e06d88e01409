package board

// GenKind selects which moves a generation pass emits.
type GenKind uint8

const (
	GenCaptures GenKind = iota
	GenQuiets
	GenAll
	GenEvasions
)

// GeneratePseudoLegal emits pseudo-legal moves of the given kind into
// ml. When the side to move is in check, evasions are generated
// regardless of kind. Promotions produce queen and knight variants;
// use GenerateLegalMovesEx for rook and bishop under-promotions.
func (p *Position) GeneratePseudoLegal(ml *MoveList, kind GenKind) {
	if p.InCheck() || kind == GenEvasions {
		p.generateEvasions(ml, false)
		return
	}
	p.generate(ml, kind, false)
}

func (p *Position) generate(ml *MoveList, kind GenKind, ex bool) {
	us := p.sideToMove
	var targets Bitboard
	switch kind {
	case GenCaptures:
		targets = p.byType[us.Other()][AllPieces]
	case GenQuiets:
		targets = ^p.occupied
	default:
		targets = ^p.byType[us][AllPieces]
	}

	p.generatePawnMoves(ml, kind, ^p.byType[us][AllPieces]&targets, ex)
	p.generatePieceMoves(ml, targets)
	if kind != GenCaptures {
		p.generateCastlingMoves(ml)
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, kind GenKind, targets Bitboard, ex bool) {
	us := p.sideToMove
	them := us.Other()
	pawns := p.byType[us][Pawn]
	enemy := p.byType[them][AllPieces]
	empty := ^p.occupied

	var promoRank, doubleRank Bitboard
	var up int
	if us == White {
		promoRank, doubleRank, up = Rank8, Rank3, 8
	} else {
		promoRank, doubleRank, up = Rank1, Rank6, -8
	}

	shift := func(b Bitboard, delta int) Bitboard {
		if us == White {
			switch delta {
			case 8:
				return b.North()
			case 7:
				return b.NorthWest()
			default:
				return b.NorthEast()
			}
		}
		switch delta {
		case 8:
			return b.South()
		case 7:
			return b.SouthEast()
		default:
			return b.SouthWest()
		}
	}
	signed := func(delta int) int {
		if us == White {
			return delta
		}
		return -delta
	}

	addPawn := func(from, to Square) {
		if SquareBB(to)&promoRank != 0 {
			ml.Add(NewPromotion(from, to, Queen))
			ml.Add(NewPromotion(from, to, Knight))
			if ex {
				ml.Add(NewPromotion(from, to, Rook))
				ml.Add(NewPromotion(from, to, Bishop))
			}
			return
		}
		ml.Add(NewMove(from, to))
	}

	if kind != GenCaptures {
		push1 := shift(pawns, 8) & empty
		push2 := shift(push1&doubleRank, 8) & empty
		for b := push1 & targets; b != 0; {
			to := b.PopLSB()
			addPawn(Square(int(to)-up), to)
		}
		for b := push2 & targets; b != 0; {
			to := b.PopLSB()
			ml.Add(NewMove(Square(int(to)-2*up), to))
		}
	}

	if kind != GenQuiets {
		capWest := shift(pawns, 7) & enemy & targets
		capEast := shift(pawns, 9) & enemy & targets
		for b := capWest; b != 0; {
			to := b.PopLSB()
			addPawn(Square(int(to)-signed(7)), to)
		}
		for b := capEast; b != 0; {
			to := b.PopLSB()
			addPawn(Square(int(to)-signed(9)), to)
		}

		if ep := p.info.EnPassant; ep != NoSquare {
			for b := PawnAttacks(them, ep) & pawns; b != 0; {
				from := b.PopLSB()
				ml.Add(NewEnPassant(from, ep))
			}
		}
	}
}

func (p *Position) generatePieceMoves(ml *MoveList, targets Bitboard) {
	us := p.sideToMove
	occ := p.occupied

	for _, from := range p.PieceSquares(us, Knight) {
		for b := KnightAttacks(from) & targets; b != 0; {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
	for _, from := range p.PieceSquares(us, Bishop) {
		for b := BishopAttacks(from, occ) & targets; b != 0; {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
	for _, from := range p.PieceSquares(us, Rook) {
		for b := RookAttacks(from, occ) & targets; b != 0; {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
	for _, from := range p.PieceSquares(us, Queen) {
		for b := QueenAttacks(from, occ) & targets; b != 0; {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
	ksq := p.KingSquare(us)
	for b := KingAttacks(ksq) & targets; b != 0; {
		ml.Add(NewMove(ksq, b.PopLSB()))
	}
}

func (p *Position) generateCastlingMoves(ml *MoveList) {
	us := p.sideToMove
	them := us.Other()

	var kingside, queenside CastlingRights
	var ksq, kTo, qTo Square
	if us == White {
		kingside, queenside = WhiteKingside, WhiteQueenside
		ksq, kTo, qTo = E1, G1, C1
	} else {
		kingside, queenside = BlackKingside, BlackQueenside
		ksq, kTo, qTo = E8, G8, C8
	}

	if p.info.Castling&kingside != 0 && p.occupied&castlingInner[us][0] == 0 &&
		p.pathSafe(castlingPath[us][0], them) {
		ml.Add(NewCastling(ksq, kTo))
	}
	if p.info.Castling&queenside != 0 && p.occupied&castlingInner[us][1] == 0 &&
		p.pathSafe(castlingPath[us][1], them) {
		ml.Add(NewCastling(ksq, qTo))
	}
}

func (p *Position) pathSafe(path Bitboard, by Color) bool {
	for b := path; b != 0; {
		if p.IsAttacked(b.PopLSB(), by) {
			return false
		}
	}
	return true
}

// generateEvasions emits check evasions: king steps plus, for single
// checks, captures of the checker and interpositions.
func (p *Position) generateEvasions(ml *MoveList, ex bool) {
	us := p.sideToMove
	them := us.Other()
	ksq := p.KingSquare(us)

	checkers := p.AttackersTo(ksq, p.occupied) & p.byType[them][AllPieces]

	// King steps, away from slider lines too; legality filter handles
	// the rest.
	for b := KingAttacks(ksq) & ^p.byType[us][AllPieces]; b != 0; {
		ml.Add(NewMove(ksq, b.PopLSB()))
	}

	if checkers.More() {
		return
	}

	checkSq := checkers.LSB()
	targets := Between(ksq, checkSq) | checkers

	p.generatePawnMoves(ml, GenAll, targets, ex)

	occ := p.occupied
	for _, from := range p.PieceSquares(us, Knight) {
		for b := KnightAttacks(from) & targets; b != 0; {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
	for _, from := range p.PieceSquares(us, Bishop) {
		for b := BishopAttacks(from, occ) & targets; b != 0; {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
	for _, from := range p.PieceSquares(us, Rook) {
		for b := RookAttacks(from, occ) & targets; b != 0; {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
	for _, from := range p.PieceSquares(us, Queen) {
		for b := QueenAttacks(from, occ) & targets; b != 0; {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
}

// IsLegal plays the move and checks the mover's king safety.
func (p *Position) IsLegal(m Move) bool {
	us := p.sideToMove
	prev := p.DoMove(m)
	legal := !p.IsAttacked(p.KingSquare(us), us.Other())
	p.UndoMove(m, prev)
	return legal
}

func (p *Position) generateLegal(ml *MoveList, ex bool) {
	var pseudo MoveList
	if p.InCheck() {
		p.generateEvasions(&pseudo, ex)
	} else {
		p.generate(&pseudo, GenAll, ex)
	}
	for i := 0; i < pseudo.Len(); i++ {
		if m := pseudo.Move(i); p.IsLegal(m) {
			ml.Add(m)
		}
	}
}

// GenerateLegalMoves returns all legal moves with queen and knight
// promotion variants.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := &MoveList{}
	p.generateLegal(ml, false)
	return ml
}

// GenerateLegalMovesEx additionally emits rook and bishop
// under-promotions, so any legal move text is representable.
func (p *Position) GenerateLegalMovesEx() *MoveList {
	ml := &MoveList{}
	p.generateLegal(ml, true)
	return ml
}

// GeneratePseudoLegalMoves returns all pseudo-legal moves.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := &MoveList{}
	p.GeneratePseudoLegal(ml, GenAll)
	return ml
}

// IsPseudoLegal verifies that a move (typically from the transposition
// table) is achievable in the current position, guarding against key
// collisions.
func (p *Position) IsPseudoLegal(m Move) bool {
	if m == MoveNone || m == MoveNull {
		return false
	}
	us := p.sideToMove
	from, to := m.From(), m.To()
	piece := p.board[from]
	if piece == NoPiece || piece.Color() != us {
		return false
	}
	if p.board[to] != NoPiece && p.board[to].Color() == us {
		return false
	}
	pt := piece.Type()

	// Under check only evasions are acceptable: any king step, or for a
	// single check a capture of the checker or an interposition.
	if pt != King && m.Type() != EnPassant && p.InCheck() {
		ksq := p.KingSquare(us)
		checkers := p.AttackersTo(ksq, p.occupied) & p.byType[us.Other()][AllPieces]
		if checkers.More() || !(Between(ksq, checkers.LSB())|checkers).Has(to) {
			return false
		}
	}

	switch m.Type() {
	case Castling:
		if pt != King {
			return false
		}
		var ml MoveList
		p.generateCastlingMoves(&ml)
		return ml.Contains(m)
	case EnPassant:
		return pt == Pawn && to == p.info.EnPassant &&
			PawnAttacks(us, from).Has(to)
	case Promotion:
		if pt != Pawn || to.RelativeRank(us) != 7 {
			return false
		}
	default:
		if pt == Pawn && to.RelativeRank(us) == 7 {
			return false
		}
	}

	if pt == Pawn {
		if PawnAttacks(us, from).Has(to) {
			return p.board[to] != NoPiece && p.board[to].Color() != us
		}
		up := 8
		if us == Black {
			up = -8
		}
		if int(to) == int(from)+up {
			return p.board[to] == NoPiece
		}
		if int(to) == int(from)+2*up && from.RelativeRank(us) == 1 {
			return p.board[to] == NoPiece && p.board[Square(int(from)+up)] == NoPiece
		}
		return false
	}

	var attacks Bitboard
	switch pt {
	case Knight:
		attacks = KnightAttacks(from)
	case Bishop:
		attacks = BishopAttacks(from, p.occupied)
	case Rook:
		attacks = RookAttacks(from, p.occupied)
	case Queen:
		attacks = QueenAttacks(from, p.occupied)
	case King:
		attacks = KingAttacks(from)
	}
	return attacks.Has(to)
}

// HasLegalMoves reports whether any legal move exists.
func (p *Position) HasLegalMoves() bool {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo, GenAll)
	for i := 0; i < pseudo.Len(); i++ {
		if p.IsLegal(pseudo.Move(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports checkmate for the side to move.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports stalemate for the side to move.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// Perft counts leaf nodes of the legal move tree at the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo, GenAll)
	us := p.sideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Move(i)
		prev := p.DoMove(m)
		if !p.IsAttacked(p.KingSquare(us), us.Other()) {
			if depth == 1 {
				nodes++
			} else {
				nodes += p.Perft(depth - 1)
			}
		}
		p.UndoMove(m, prev)
	}
	return nodes
}
