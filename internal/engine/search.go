package engine

import (
	"sync/atomic"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

const (
	// timeCheckInterval is the number of node entries between
	// wall-clock samples.
	timeCheckInterval = 10_000

	// aspirationDelta is the initial half-width of the aspiration
	// window. Thread k starts at aspirationDelta+k to diversify.
	aspirationDelta = 25

	// deltaMargin is the futility slack added to the victim value in
	// quiescence delta pruning.
	deltaMargin = 200
)

// RootSearchState publishes which root move a thread is searching at
// which depth. Each slot has a single writer, its owning thread;
// peers read it to decide whether to defer a root move.
type RootSearchState struct {
	depth atomic.Int32
	move  atomic.Uint32
}

func (r *RootSearchState) set(depth int, m board.Move) {
	r.depth.Store(int32(depth))
	r.move.Store(uint32(m))
}

func (r *RootSearchState) searching(depth int, m board.Move) bool {
	return r.depth.Load() == int32(depth) && board.Move(r.move.Load()) == m
}

// SearchResults is one thread's best line summary.
type SearchResults struct {
	BestMove board.Move
	Score    int
	Depth    int
}

// SearchStats aggregates counters across all search threads.
type SearchStats struct {
	VisitedNodes uint64
	TTHits       uint64
	Elapsed      time.Duration
}

// sharedState is the per-search state every thread observes: the
// termination flags, the clock, the stat counters, and the root
// deferral slots.
type sharedState struct {
	stop         atomic.Bool
	externalStop atomic.Bool
	timeout      atomic.Bool

	start     time.Time
	timeLimit time.Duration
	maxDepth  int

	visitedNodes atomic.Uint64
	ttHits       atomic.Uint64
	timeCheck    atomic.Uint64

	roots []RootSearchState
}

func newSharedState(opts SearchOptions) *sharedState {
	return &sharedState{
		start:     time.Now(),
		timeLimit: opts.TimeLimit,
		maxDepth:  opts.SearchDepth,
		roots:     make([]RootSearchState, opts.ThreadCount),
	}
}

func (ss *sharedState) stats() SearchStats {
	return SearchStats{
		VisitedNodes: ss.visitedNodes.Load(),
		TTHits:       ss.ttHits.Load(),
		Elapsed:      time.Since(ss.start),
	}
}

// Searcher runs one thread's iterative deepening. Position, ordering
// heuristics, and the previous-move stack are private; only the
// transposition table and sharedState are shared with peers.
type Searcher struct {
	id     int
	pos    *board.Position
	tt     *TranspositionTable
	shared *sharedState

	heur    heuristics
	prev    [MaxPly + 2]board.Move
	results SearchResults
}

func newSearcher(id int, pos *board.Position, tt *TranspositionTable, shared *sharedState) *Searcher {
	return &Searcher{
		id:     id,
		pos:    pos.Copy(),
		tt:     tt,
		shared: shared,
	}
}

// idSearch runs iterative deepening to the shared depth limit,
// wrapping each depth in an aspiration window that doubles on fail
// low or fail high. onIteration, if non-nil, fires after every
// completed depth.
func (s *Searcher) idSearch(onIteration func()) {
	best := ScoreZero
	for depth := 1; depth <= s.shared.maxDepth; depth++ {
		var score int
		if depth == 1 {
			score = s.rootSearch(depth, -ScoreInfinite, ScoreInfinite)
		} else {
			delta := aspirationDelta + s.id
			for {
				alpha := max(best-delta, -ScoreInfinite)
				beta := min(best+delta, ScoreInfinite)
				score = s.rootSearch(depth, alpha, beta)
				if s.shared.stop.Load() {
					break
				}
				if score > alpha && score < beta {
					break
				}
				delta *= 2
			}
		}
		if s.shared.stop.Load() {
			break
		}
		best = score
		s.results = SearchResults{
			BestMove: s.results.BestMove,
			Score:    score,
			Depth:    depth,
		}
		if onIteration != nil {
			onIteration()
		}
	}
}

// rootSearch is the PVS pass over the legal root moves. A root move a
// peer thread is already searching at this depth is deferred and
// replayed after the primary pass.
func (s *Searcher) rootSearch(depth, alpha, beta int) int {
	ttMove := board.MoveNone
	key := s.pos.Key()
	if e, ok := s.tt.Probe(key); ok {
		s.shared.ttHits.Add(1)
		ttMove = e.Move
	}

	slot := &s.shared.roots[s.id]
	mm := newMoveManager(s.pos, &s.heur, ttMove, 0, board.MoveNone, true)

	origAlpha := alpha
	best := -ScoreInfinite
	bestMove := board.MoveNone
	searched := 0
	for m := mm.Next(); m != board.MoveNone; m = mm.Next() {
		if s.shared.stop.Load() {
			break
		}
		if searched > 0 && mm.Deferrable() && s.peerSearching(depth, m) {
			mm.Defer(m)
			continue
		}
		slot.set(depth, m)

		prev := s.pos.DoMove(m)
		s.prev[1] = m
		var score int
		if searched == 0 {
			score = -s.pvs(depth-1, 1, -beta, -alpha)
		} else {
			score = -s.pvs(depth-1, 1, -alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -s.pvs(depth-1, 1, -beta, -alpha)
			}
		}
		s.pos.UndoMove(m, prev)
		searched++

		if s.shared.stop.Load() {
			break
		}
		if score > best {
			best = score
			bestMove = m
			s.results.BestMove = m
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
	}
	slot.set(0, board.MoveNone)

	if bestMove != board.MoveNone && !s.shared.stop.Load() {
		bound := BoundExact
		switch {
		case best >= beta:
			bound = BoundLower
		case best <= origAlpha:
			bound = BoundUpper
		}
		s.tt.Store(key, depth, bound, ScoreToTT(best, 0), bestMove)
	}
	return best
}

func (s *Searcher) peerSearching(depth int, m board.Move) bool {
	for i := range s.shared.roots {
		if i == s.id {
			continue
		}
		if s.shared.roots[i].searching(depth, m) {
			return true
		}
	}
	return false
}

// pvs is the interior principal variation search. Moves come from
// pseudo-legal generation; legality is checked after the move is
// made. The transposition table is probed before iterating and may
// narrow the window or answer the node outright.
func (s *Searcher) pvs(depth, ply, alpha, beta int) int {
	s.checkTime()
	if s.shared.stop.Load() {
		return ScoreZero
	}
	s.shared.visitedNodes.Add(1)

	if s.pos.Rule50() >= 100 {
		return ScoreZero
	}
	if ply >= MaxPly {
		return s.pos.Evaluate()
	}

	key := s.pos.Key()
	ttMove := board.MoveNone
	if e, ok := s.tt.Probe(key); ok {
		s.shared.ttHits.Add(1)
		ttMove = e.Move
		if int(e.Depth) >= depth {
			score := ScoreFromTT(int(e.Score), ply)
			switch e.Bound {
			case BoundExact:
				return score
			case BoundLower:
				if score > alpha {
					alpha = score
				}
			case BoundUpper:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	us := s.pos.SideToMove()
	origAlpha := alpha
	best := -ScoreInfinite
	bestMove := board.MoveNone
	legal := 0

	mm := newMoveManager(s.pos, &s.heur, ttMove, ply, s.prev[ply], false)
	for m := mm.Next(); m != board.MoveNone; m = mm.Next() {
		if s.shared.stop.Load() {
			return ScoreZero
		}
		quiet := !m.IsCapture(s.pos) && !m.IsPromotion()

		prev := s.pos.DoMove(m)
		if s.pos.IsAttacked(s.pos.KingSquare(us), us.Other()) {
			s.pos.UndoMove(m, prev)
			continue
		}
		s.prev[ply+1] = m
		var score int
		if legal == 0 {
			score = -s.pvs(depth-1, ply+1, -beta, -alpha)
		} else {
			score = -s.pvs(depth-1, ply+1, -alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -s.pvs(depth-1, ply+1, -beta, -alpha)
			}
		}
		s.pos.UndoMove(m, prev)
		legal++

		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
			}
		}
		if alpha >= beta {
			if quiet {
				s.heur.updateKillers(ply, m)
				s.heur.updateHistory(m, depth)
				s.heur.updateCounter(s.prev[ply], m)
			}
			break
		}
	}

	if s.shared.stop.Load() {
		return ScoreZero
	}
	if legal == 0 {
		if s.pos.InCheck() {
			return ScoreLose + ply
		}
		return ScoreZero
	}

	bound := BoundExact
	switch {
	case best >= beta:
		bound = BoundLower
	case best <= origAlpha:
		bound = BoundUpper
	}
	s.tt.Store(key, depth, bound, ScoreToTT(best, ply), bestMove)
	return best
}

// quiescence extends the search along capture sequences (all evasions
// under check) until the static score stabilizes.
func (s *Searcher) quiescence(ply, alpha, beta int) int {
	if s.shared.stop.Load() {
		return ScoreZero
	}
	s.shared.visitedNodes.Add(1)

	if ply >= MaxPly {
		return s.pos.Evaluate()
	}

	us := s.pos.SideToMove()
	inCheck := s.pos.InCheck()

	standPat := -ScoreInfinite
	if !inCheck {
		standPat = s.pos.Evaluate()
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var list board.MoveList
	s.pos.GeneratePseudoLegal(&list, board.GenCaptures)
	for i := 0; i < list.Len(); i++ {
		list.SetScore(i, s.heur.scoreMove(s.pos, list.Move(i), ply, s.prev[ply]))
	}

	legal := 0
	for m := list.GetNextBest(); m != board.MoveNone; m = list.GetNextBest() {
		if !inCheck && m.IsCapture(s.pos) {
			victim := board.Pawn
			if !m.IsEnPassant() {
				victim = s.pos.PieceAt(m.To()).Type()
			}
			if standPat+seeValue[victim]+deltaMargin < alpha {
				continue
			}
			if SEECapture(s.pos, m) < 0 {
				continue
			}
		}

		prev := s.pos.DoMove(m)
		if s.pos.IsAttacked(s.pos.KingSquare(us), us.Other()) {
			s.pos.UndoMove(m, prev)
			continue
		}
		s.prev[ply+1] = m
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UndoMove(m, prev)
		legal++

		if score > alpha {
			alpha = score
			if alpha >= beta {
				return beta
			}
		}
	}

	if inCheck && legal == 0 {
		return ScoreLose + ply
	}
	return alpha
}

// checkTime samples the wall clock every timeCheckInterval node
// entries and flips the stop and timeout flags once the limit is hit.
func (s *Searcher) checkTime() {
	if s.shared.timeCheck.Add(1)%timeCheckInterval != 0 {
		return
	}
	if time.Since(s.shared.start) >= s.shared.timeLimit {
		s.shared.timeout.Store(true)
		s.shared.stop.Store(true)
	}
}
