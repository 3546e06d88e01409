package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// mmPhase tracks the staged move supply.
type mmPhase uint8

const (
	phaseTTMove mmPhase = iota
	phaseGenerate
	phaseGenerated
	phaseDeferred
	phaseDone
)

// MoveManager yields moves to the search in stages: the transposition
// table move first, then generated moves best-first by a selection
// scan, and at the root of a parallel search any moves deferred while
// a peer thread was searching them.
type MoveManager struct {
	pos   *board.Position
	heur  *heuristics
	ply   int
	prev  board.Move
	root  bool
	phase mmPhase

	ttMove   board.Move
	list     board.MoveList
	deferred board.MoveList
}

func newMoveManager(pos *board.Position, heur *heuristics, ttMove board.Move, ply int, prev board.Move, root bool) *MoveManager {
	return &MoveManager{
		pos:    pos,
		heur:   heur,
		ply:    ply,
		prev:   prev,
		root:   root,
		ttMove: ttMove,
	}
}

// Next returns the next move to search, MoveNone when exhausted.
func (mm *MoveManager) Next() board.Move {
	for {
		switch mm.phase {
		case phaseTTMove:
			mm.phase = phaseGenerate
			if mm.ttMove == board.MoveNone || !mm.pos.IsPseudoLegal(mm.ttMove) {
				continue
			}
			if mm.root && !mm.pos.IsLegal(mm.ttMove) {
				continue
			}
			return mm.ttMove

		case phaseGenerate:
			if mm.root {
				mm.list = *mm.pos.GenerateLegalMoves()
			} else {
				mm.pos.GeneratePseudoLegal(&mm.list, board.GenAll)
			}
			for i := 0; i < mm.list.Len(); i++ {
				m := mm.list.Move(i)
				mm.list.SetScore(i, mm.heur.scoreMove(mm.pos, m, mm.ply, mm.prev))
			}
			mm.phase = phaseGenerated

		case phaseGenerated:
			m := mm.list.GetNextBest()
			if m == board.MoveNone {
				if mm.root && !mm.deferred.Empty() {
					mm.phase = phaseDeferred
					continue
				}
				mm.phase = phaseDone
				return board.MoveNone
			}
			if m == mm.ttMove {
				continue
			}
			return m

		case phaseDeferred:
			m := mm.deferred.GetNextBest()
			if m == board.MoveNone {
				mm.phase = phaseDone
				return board.MoveNone
			}
			return m

		default:
			return board.MoveNone
		}
	}
}

// Defer postpones a root move a peer thread is already searching at
// this depth. Deferred moves are replayed after the primary pass.
func (mm *MoveManager) Defer(m board.Move) {
	mm.deferred.Add(m)
}

// Deferrable reports whether the manager is in its primary generated
// pass, the only stage where root deferral applies.
func (mm *MoveManager) Deferrable() bool {
	return mm.phase == phaseGenerated
}
