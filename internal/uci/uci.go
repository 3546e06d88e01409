// Package uci adapts the game facade to the Universal Chess
// Interface protocol.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// UCI implements the Universal Chess Interface protocol on top of the
// game facade.
type UCI struct {
	game  *game.Game
	store *storage.Storage
}

// New creates a UCI handler. store may be nil when persistence is
// unavailable.
func New(g *game.Game, store *storage.Storage) *UCI {
	u := &UCI{game: g, store: store}
	g.SetSearchProcessor(u.processEvent)
	return u
}

// Run reads commands from stdin until quit or EOF.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			fmt.Println(u.game.Position().String())
		case "perft":
			u.handlePerft(args)
		case "savegame":
			u.handleSaveGame(args)
		case "loadgame":
			u.handleLoadGame(args)
		}
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Println("id name ChessCore")
	fmt.Println("id author ChessCore Team")
	fmt.Println()
	fmt.Printf("option name TimeLimit type spin default 5000 min %d max %d\n",
		engine.MinTimeLimitMs, engine.MaxTimeLimitMs)
	fmt.Printf("option name ThreadCount type spin default %d min %d max %d\n",
		runtime.NumCPU(), engine.MinThreadCount, runtime.NumCPU())
	fmt.Printf("option name SearchDepth type spin default 10 min %d max %d\n",
		engine.MinSearchDepth, engine.MaxSearchDepth)
	fmt.Println("uciok")
}

// handleNewGame resets the game and engine caches.
func (u *UCI) handleNewGame() {
	u.game.EndSearch()
	if err := u.game.Reset(); err != nil {
		fmt.Fprintf(os.Stderr, "info string Reset failed: %v\n", err)
		return
	}
	u.game.ClearTables()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesIdx := -1
	for i, arg := range args {
		if arg == "moves" {
			movesIdx = i
			break
		}
	}
	moveStart := len(args)
	if movesIdx >= 0 {
		moveStart = movesIdx + 1
	}

	switch args[0] {
	case "startpos":
		if err := u.game.Reset(); err != nil {
			fmt.Fprintf(os.Stderr, "info string Reset failed: %v\n", err)
			return
		}
	case "fen":
		fenEnd := len(args)
		if movesIdx >= 0 {
			fenEnd = movesIdx
		}
		fen := strings.Join(args[1:fenEnd], " ")
		if err := u.game.LoadFEN(fen); err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	for _, moveStr := range args[moveStart:] {
		if err := u.game.DoMoveText(moveStr); err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid move %s: %v\n", moveStr, err)
			return
		}
	}
}

// handleGo maps the "go" arguments onto the search options and starts
// the search.
func (u *UCI) handleGo(args []string) {
	var (
		depth     int
		moveTime  time.Duration
		infinite  bool
		wTime     time.Duration
		bTime     time.Duration
		wInc      time.Duration
		bInc      time.Duration
		movesToGo int
	)

	ms := func(s string) time.Duration {
		n, _ := strconv.Atoi(s)
		return time.Duration(n) * time.Millisecond
	}
	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			infinite = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		switch args[i] {
		case "depth":
			depth, _ = strconv.Atoi(args[i+1])
			i++
		case "movetime":
			moveTime = ms(args[i+1])
			i++
		case "wtime":
			wTime = ms(args[i+1])
			i++
		case "btime":
			bTime = ms(args[i+1])
			i++
		case "winc":
			wInc = ms(args[i+1])
			i++
		case "binc":
			bInc = ms(args[i+1])
			i++
		case "movestogo":
			movesToGo, _ = strconv.Atoi(args[i+1])
			i++
		}
	}

	opts := u.game.SearchOptions()
	switch {
	case infinite:
		opts.TimeLimit = time.Duration(engine.MaxTimeLimitMs) * time.Millisecond
		opts.SearchDepth = engine.MaxSearchDepth
	case moveTime > 0:
		opts.TimeLimit = moveTime
	case wTime > 0 || bTime > 0:
		opts.TimeLimit = u.timeForMove(wTime, bTime, wInc, bInc, movesToGo)
	}
	if depth > 0 && !infinite {
		opts.SearchDepth = depth
	}
	if err := u.game.SetSearchOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "info string %v\n", err)
		return
	}

	if err := u.game.StartSearch(); err != nil {
		fmt.Fprintf(os.Stderr, "info string %v\n", err)
	}
}

// timeForMove allocates a slice of the remaining clock.
func (u *UCI) timeForMove(wTime, bTime, wInc, bInc time.Duration, movesToGo int) time.Duration {
	ourTime, ourInc := wTime, wInc
	if u.game.Position().SideToMove() == board.Black {
		ourTime, ourInc = bTime, bInc
	}

	if movesToGo == 0 {
		movesToGo = u.estimateMovesRemaining()
	}

	moveTime := ourTime/time.Duration(movesToGo) + ourInc*90/100
	if maxTime := ourTime * 90 / 100; moveTime > maxTime {
		moveTime = maxTime
	}
	if lo := time.Duration(engine.MinTimeLimitMs) * time.Millisecond; moveTime < lo {
		moveTime = lo
	}
	return moveTime
}

// estimateMovesRemaining guesses remaining moves from the piece count.
func (u *UCI) estimateMovesRemaining() int {
	totalPieces := u.game.Position().Occupied().PopCount()
	switch {
	case totalPieces > 24:
		return 40 // Opening/early middlegame
	case totalPieces > 12:
		return 30 // Middlegame
	}
	return 20 // Endgame
}

// processEvent renders search events as UCI output. Events arrive
// serialized from the main search goroutine.
func (u *UCI) processEvent(ev engine.SearchEvent) {
	switch ev.Type {
	case engine.EventInfo:
		u.sendInfo(ev.Results, ev.Stats)
	case engine.EventFinished:
		fmt.Printf("bestmove %s\n", ev.Results.BestMove.String())
	}
}

// sendInfo outputs one "info" line for a completed iteration.
func (u *UCI) sendInfo(res engine.SearchResults, stats engine.SearchStats) {
	parts := []string{fmt.Sprintf("depth %d", res.Depth)}

	switch {
	case engine.IsWinScore(res.Score):
		parts = append(parts, fmt.Sprintf("score mate %d", (engine.ScoreWin-res.Score+1)/2))
	case engine.IsLoseScore(res.Score):
		parts = append(parts, fmt.Sprintf("score mate %d", -(res.Score-engine.ScoreLose+1)/2))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", res.Score))
	}

	parts = append(parts,
		fmt.Sprintf("nodes %d", stats.VisitedNodes),
		fmt.Sprintf("time %d", stats.Elapsed.Milliseconds()))
	if stats.Elapsed > 0 {
		nps := uint64(float64(stats.VisitedNodes) / stats.Elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if res.BestMove != board.MoveNone {
		parts = append(parts, "pv "+res.BestMove.String())
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// handleStop ends a running search and reports its best move. When
// the search already finished on its own the FINISHED event has
// spoken and nothing is printed.
func (u *UCI) handleStop() {
	if !u.game.InSearch() {
		return
	}
	results, _ := u.game.EndSearch()
	fmt.Printf("bestmove %s\n", results.BestMove.String())
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	if err := u.game.SetOption(name, value); err != nil {
		fmt.Fprintf(os.Stderr, "info string %v\n", err)
	}
}

// handlePerft runs a perft count from the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes, err := u.game.Perft(depth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "info string %v\n", err)
		return
	}
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

// handleSaveGame persists the current move listing under a name.
func (u *UCI) handleSaveGame(args []string) {
	if u.store == nil || len(args) == 0 {
		fmt.Fprintln(os.Stderr, "info string savegame requires storage and a name")
		return
	}
	saved := &storage.SavedGame{
		Name:     args[0],
		Moves:    u.game.WriteGame(game.FormatSAN),
		FinalFEN: u.game.WriteFEN(false),
	}
	if err := u.store.SaveGame(saved); err != nil {
		fmt.Fprintf(os.Stderr, "info string savegame failed: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "info string saved game %q\n", args[0])
}

// handleLoadGame restores a previously saved game.
func (u *UCI) handleLoadGame(args []string) {
	if u.store == nil || len(args) == 0 {
		fmt.Fprintln(os.Stderr, "info string loadgame requires storage and a name")
		return
	}
	saved, ok, err := u.store.LoadGame(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "info string loadgame failed: %v\n", err)
		return
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "info string no saved game %q\n", args[0])
		return
	}
	if err := u.game.LoadGame(saved.Moves); err != nil {
		fmt.Fprintf(os.Stderr, "info string loadgame failed: %v\n", err)
	}
}
