package game

import (
	"errors"

	"github.com/cespare/xxhash/v2"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// ErrNoMoveToUndo is returned by UndoMove on a game with no history.
var ErrNoMoveToUndo = errors.New("no move to undo")

// Record retains one completed move with the position state it
// displaced and its rendering in every supported text format.
type Record struct {
	Move board.Move
	Info board.PositionInfo
	SAN  string
	AN   string
	UCI  string
}

// Game is the facade over a position, its move history, and the
// search coordinator. While a search is running every mutating
// operation is rejected with EngineBusyError.
type Game struct {
	pos      *board.Position
	searcher *engine.MultiSearcher

	history    []Record
	repetition map[uint64]int

	state State
	cause DrawCause
}

// NewGame creates a game at the standard opening position.
func NewGame() *Game {
	g := &Game{
		pos:      board.NewPosition(),
		searcher: engine.NewMultiSearcher(),
	}
	g.rebuildRepetition()
	g.updateState()
	return g
}

func (g *Game) repetitionKey() uint64 {
	return xxhash.Sum64String(g.pos.ReducedFEN())
}

func (g *Game) rebuildRepetition() {
	g.repetition = map[uint64]int{g.repetitionKey(): 1}
}

func (g *Game) busy(op string) error {
	if g.searcher.InSearch() {
		return &engine.EngineBusyError{Op: op}
	}
	return nil
}

// Position returns the live position. Callers must not mutate it.
func (g *Game) Position() *board.Position {
	return g.pos
}

// State returns the current game classification.
func (g *Game) State() State {
	return g.state
}

// DrawCause returns the reason for a Draw state, CauseNone otherwise.
func (g *Game) DrawCause() DrawCause {
	return g.cause
}

// History returns the completed move records, oldest first.
func (g *Game) History() []Record {
	return g.history
}

// Reset restores the standard opening position and clears history.
func (g *Game) Reset() error {
	if err := g.busy("Reset"); err != nil {
		return err
	}
	g.pos.Reset()
	g.history = g.history[:0]
	g.rebuildRepetition()
	g.updateState()
	return nil
}

// LoadFEN replaces the position, discarding any history.
func (g *Game) LoadFEN(fen string) error {
	if err := g.busy("LoadFEN"); err != nil {
		return err
	}
	if err := g.pos.LoadFEN(fen, false); err != nil {
		return err
	}
	g.history = g.history[:0]
	g.rebuildRepetition()
	g.updateState()
	return nil
}

// WriteFEN renders the current position, optionally without the
// halfmove and fullmove counters.
func (g *Game) WriteFEN(omitCounters bool) string {
	return g.pos.WriteFEN(omitCounters)
}

// DoMove plays m if it is legal in the current position.
func (g *Game) DoMove(m board.Move) error {
	if err := g.busy("DoMove"); err != nil {
		return err
	}
	if !g.pos.IsPseudoLegal(m) || !g.pos.IsLegal(m) {
		return &board.IllegalMoveError{Move: m.String()}
	}

	rec := Record{
		Move: m,
		SAN:  m.ToSAN(g.pos),
		AN:   m.ToAN(),
		UCI:  m.String(),
	}
	rec.Info = g.pos.DoMove(m)
	g.history = append(g.history, rec)
	g.repetition[g.repetitionKey()]++
	g.updateState()
	return nil
}

// DoMoveText parses text as UCI, AN, or SAN and plays the move.
func (g *Game) DoMoveText(text string) error {
	if err := g.busy("DoMove"); err != nil {
		return err
	}
	m, err := g.pos.ParseMove(text)
	if err != nil {
		return err
	}
	return g.DoMove(m)
}

// UndoMove retracts the most recent move.
func (g *Game) UndoMove() error {
	if err := g.busy("UndoMove"); err != nil {
		return err
	}
	if len(g.history) == 0 {
		return ErrNoMoveToUndo
	}

	key := g.repetitionKey()
	if g.repetition[key] <= 1 {
		delete(g.repetition, key)
	} else {
		g.repetition[key]--
	}

	rec := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.pos.UndoMove(rec.Move, rec.Info)
	g.updateState()
	return nil
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (g *Game) Perft(depth int) (uint64, error) {
	if err := g.busy("Perft"); err != nil {
		return 0, err
	}
	return g.pos.Perft(depth), nil
}

// StartSearch launches the engine on the current position.
func (g *Game) StartSearch() error {
	return g.searcher.StartSearch(g.pos)
}

// EndSearch stops any running search and returns its results.
func (g *Game) EndSearch() (engine.SearchResults, engine.SearchStats) {
	return g.searcher.EndSearch()
}

// WaitSearch blocks until a running search stops on its own.
func (g *Game) WaitSearch() (engine.SearchResults, engine.SearchStats) {
	return g.searcher.WaitSearch()
}

// InSearch reports whether the engine is currently searching.
func (g *Game) InSearch() bool {
	return g.searcher.InSearch()
}

// SetOption assigns a named search option from text. A clamped value
// takes effect and reports a warning OptionError.
func (g *Game) SetOption(name, value string) error {
	if err := g.busy("SetOption"); err != nil {
		return err
	}
	opts := g.searcher.Options()
	serr := opts.Set(name, value)
	var oe *engine.OptionError
	if serr != nil && !(errors.As(serr, &oe) && oe.Warning) {
		return serr
	}
	if err := g.searcher.SetOptions(opts); err != nil {
		return err
	}
	return serr
}

// SetSearchOptions replaces the whole option set.
func (g *Game) SetSearchOptions(opts engine.SearchOptions) error {
	return g.searcher.SetOptions(opts)
}

// SearchOptions returns the current option set.
func (g *Game) SearchOptions() engine.SearchOptions {
	return g.searcher.Options()
}

// SetSearchProcessor installs the search event callback.
func (g *Game) SetSearchProcessor(p engine.EventProcessor) error {
	return g.searcher.SetEventProcessor(p)
}

// ClearTables empties the engine's transposition table.
func (g *Game) ClearTables() error {
	return g.searcher.ClearTables()
}
