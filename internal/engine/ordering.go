package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering scores. The TT move outranks everything; captures are
// ranked by most valuable victim, least valuable attacker; quiet moves
// fall back to killers, the countermove, and the history accumulator.
const (
	msTTBonus      board.MoveScore = 1_500_000_000
	msKillerBonus  board.MoveScore = 1_200_000
	msCounterBonus board.MoveScore = 300_000
)

// Victim and attacker bonuses indexed by piece type.
var (
	msVictimBonus = [board.PieceTypeCount]board.MoveScore{
		0, 100_000, 285_000, 300_000, 500_000, 1_000_000, 0,
	}
	msAttackerBonus = [board.PieceTypeCount]board.MoveScore{
		0, 1_000_000, 800_000, 750_000, 400_000, 200_000, 0,
	}
)

// maxKillers is the killer ring length per ply.
const maxKillers = 3

// heuristics is the thread-private move ordering state: killer rings
// per ply, a from/to history accumulator, and the countermove table
// indexed by the opponent's previous move.
type heuristics struct {
	killers  [MaxPly][maxKillers]board.Move
	history  [64][64]board.MoveScore
	counters [64][64]board.Move
}

// updateKillers unshifts a quiet cutoff move to the front of the
// ply's killer ring.
func (h *heuristics) updateKillers(ply int, m board.Move) {
	if ply >= MaxPly || h.killers[ply][0] == m {
		return
	}
	copy(h.killers[ply][1:], h.killers[ply][:maxKillers-1])
	h.killers[ply][0] = m
}

func (h *heuristics) isKiller(ply int, m board.Move) bool {
	if ply >= MaxPly {
		return false
	}
	for _, k := range h.killers[ply] {
		if k == m {
			return true
		}
	}
	return false
}

// updateHistory credits a quiet move that produced a beta cutoff.
func (h *heuristics) updateHistory(m board.Move, depth int) {
	h.history[m.From()][m.To()] += board.MoveScore(depth * depth)
	if h.history[m.From()][m.To()] > msCounterBonus {
		// History must stay below the dedicated bonus tiers.
		for from := range h.history {
			for to := range h.history[from] {
				h.history[from][to] /= 2
			}
		}
	}
}

// updateCounter records m as the reply to the opponent's previous move.
func (h *heuristics) updateCounter(prev, m board.Move) {
	if prev == board.MoveNone || prev == board.MoveNull {
		return
	}
	h.counters[prev.From()][prev.To()] = m
}

func (h *heuristics) counterFor(prev board.Move) board.Move {
	if prev == board.MoveNone || prev == board.MoveNull {
		return board.MoveNone
	}
	return h.counters[prev.From()][prev.To()]
}

// captureScore ranks a capture by MVV victim and LVA attacker bonuses.
func captureScore(pos *board.Position, m board.Move) board.MoveScore {
	victim := board.Pawn
	if !m.IsEnPassant() {
		victim = pos.PieceAt(m.To()).Type()
	}
	attacker := pos.PieceAt(m.From()).Type()
	return msVictimBonus[victim] + msAttackerBonus[attacker]
}

// scoreMove assigns the ordering score for one generated move.
func (h *heuristics) scoreMove(pos *board.Position, m board.Move, ply int, prev board.Move) board.MoveScore {
	if m.IsCapture(pos) {
		return captureScore(pos, m)
	}
	if m.IsPromotion() {
		return msVictimBonus[m.PromotionType()]
	}
	if h.isKiller(ply, m) {
		return msKillerBonus
	}
	if m == h.counterFor(prev) {
		return msCounterBonus
	}
	return h.history[m.From()][m.To()]
}
