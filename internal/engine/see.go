package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// seeValue is the material scale used by static exchange evaluation.
var seeValue = [board.PieceTypeCount]int{0, 100, 320, 330, 500, 900, 20000}

// SEECapture evaluates the material outcome of a capture assuming both
// sides keep recapturing with their least valuable attacker. The
// exchange is simulated on an occupancy copy so sliders x-ray through
// pieces as they trade off; the position itself is never mutated.
func SEECapture(pos *board.Position, m board.Move) int {
	from, to := m.From(), m.To()

	victim := board.Pawn
	occupied := pos.Occupied() &^ board.SquareBB(from)
	if m.IsEnPassant() {
		capSq := to - 8
		if pos.SideToMove() == board.Black {
			capSq = to + 8
		}
		occupied &^= board.SquareBB(capSq)
	} else {
		victim = pos.PieceAt(to).Type()
	}

	attacker := pos.PieceAt(from).Type()
	return seeValue[victim] - seeExchange(pos, to, pos.SideToMove().Other(), occupied, seeValue[attacker])
}

// seeExchange returns the best material the side to move can extract
// on sq, never going below zero since capturing is optional.
func seeExchange(pos *board.Position, sq board.Square, side board.Color, occupied board.Bitboard, target int) int {
	from := pos.LeastAttacker(sq, side, occupied)
	if from == board.NoSquare {
		return 0
	}
	next := seeValue[pos.PieceAt(from).Type()]
	v := target - seeExchange(pos, sq, side.Other(), occupied&^board.SquareBB(from), next)
	if v < 0 {
		return 0
	}
	return v
}
