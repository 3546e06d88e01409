package game

import (
	"github.com/hailam/chesscore/internal/board"
)

// State classifies a game as ongoing or finished.
type State uint8

const (
	Active State = iota
	WhiteWin
	BlackWin
	Draw
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case WhiteWin:
		return "white wins"
	case BlackWin:
		return "black wins"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// DrawCause explains a Draw state.
type DrawCause uint8

const (
	CauseNone DrawCause = iota
	CauseRule50
	CauseMaterial
	CauseRepetition
	CauseStalemate
)

func (c DrawCause) String() string {
	switch c {
	case CauseRule50:
		return "fifty-move rule"
	case CauseMaterial:
		return "insufficient material"
	case CauseRepetition:
		return "threefold repetition"
	case CauseStalemate:
		return "stalemate"
	}
	return "none"
}

// updateState reclassifies the game after the position changed.
func (g *Game) updateState() {
	g.state = Active
	g.cause = CauseNone

	switch {
	case g.pos.IsCheckmate():
		if g.pos.SideToMove() == board.White {
			g.state = BlackWin
		} else {
			g.state = WhiteWin
		}
	case g.pos.IsStalemate():
		g.state = Draw
		g.cause = CauseStalemate
	case g.pos.Rule50() >= 100:
		g.state = Draw
		g.cause = CauseRule50
	case g.repetition[g.repetitionKey()] >= 3:
		g.state = Draw
		g.cause = CauseRepetition
	case insufficientMaterial(g.pos):
		g.state = Draw
		g.cause = CauseMaterial
	}
}

// insufficientMaterial reports the dead draws the rules recognize
// without a claim: bare kings, king and one minor against a bare
// king, and same-colored single bishops.
func insufficientMaterial(pos *board.Position) bool {
	occupied := pos.Occupied()
	if occupied.PopCount() > 4 {
		return false
	}
	for _, c := range []board.Color{board.White, board.Black} {
		if pos.Pieces(c, board.Pawn) != 0 ||
			pos.Pieces(c, board.Rook) != 0 ||
			pos.Pieces(c, board.Queen) != 0 {
			return false
		}
	}

	wMinors := pos.Pieces(board.White, board.Knight) | pos.Pieces(board.White, board.Bishop)
	bMinors := pos.Pieces(board.Black, board.Knight) | pos.Pieces(board.Black, board.Bishop)
	switch {
	case wMinors == 0 && bMinors == 0:
		return true
	case wMinors.PopCount()+bMinors.PopCount() == 1:
		return true
	}

	// Two minors draw only as opposite bishops on the same color.
	wb := pos.Pieces(board.White, board.Bishop)
	bb := pos.Pieces(board.Black, board.Bishop)
	if wb.PopCount() == 1 && bb.PopCount() == 1 {
		return squareColor(wb.LSB()) == squareColor(bb.LSB())
	}
	return false
}

func squareColor(sq board.Square) int {
	return (sq.File() + sq.Rank()) & 1
}
