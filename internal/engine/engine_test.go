package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

func searchToDepth(t *testing.T, fen string, depth, threads int) (SearchResults, SearchStats) {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}

	ms := NewMultiSearcher()
	opts := DefaultSearchOptions()
	opts.SearchDepth = depth
	opts.ThreadCount = threads
	opts.TimeLimit = 30 * time.Second
	if err := ms.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	if err := ms.StartSearch(pos); err != nil {
		t.Fatalf("StartSearch: %v", err)
	}
	return ms.WaitSearch()
}

func TestSearchFindsMateInOne(t *testing.T) {
	results, stats := searchToDepth(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", 4, 1)

	if got := results.BestMove.String(); got != "a1a8" {
		t.Errorf("best move = %s, want a1a8", got)
	}
	if !IsWinScore(results.Score) {
		t.Errorf("score = %d, want a mate score", results.Score)
	}
	if stats.VisitedNodes == 0 {
		t.Error("no nodes visited")
	}
}

func TestSearchFindsMateInOneForBlack(t *testing.T) {
	results, _ := searchToDepth(t, "r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1", 4, 1)

	if got := results.BestMove.String(); got != "a8a1" {
		t.Errorf("best move = %s, want a8a1", got)
	}
	if !IsWinScore(results.Score) {
		t.Errorf("score = %d, want a mate score", results.Score)
	}
}

// TestSingleThreadDeterminism runs the same fixed-depth search twice
// on fresh tables and expects identical results.
func TestSingleThreadDeterminism(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 3"

	first, _ := searchToDepth(t, fen, 5, 1)
	second, _ := searchToDepth(t, fen, 5, 1)

	if first.BestMove != second.BestMove || first.Score != second.Score {
		t.Errorf("runs differ: %s/%d vs %s/%d",
			first.BestMove, first.Score, second.BestMove, second.Score)
	}
}

func TestMultiThreadSearchCompletes(t *testing.T) {
	results, _ := searchToDepth(t, board.StartFEN, 6, 4)

	if results.BestMove == board.MoveNone {
		t.Error("no best move from a four-thread search")
	}
	if results.Depth < 6 {
		t.Errorf("depth = %d, want at least 6", results.Depth)
	}
}

func TestSearchEvents(t *testing.T) {
	pos := board.NewPosition()
	ms := NewMultiSearcher()
	opts := DefaultSearchOptions()
	opts.SearchDepth = 4
	opts.ThreadCount = 1
	opts.TimeLimit = 30 * time.Second
	if err := ms.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	var events []SearchEvent
	if err := ms.SetEventProcessor(func(e SearchEvent) {
		events = append(events, e)
	}); err != nil {
		t.Fatalf("SetEventProcessor: %v", err)
	}

	if err := ms.StartSearch(pos); err != nil {
		t.Fatalf("StartSearch: %v", err)
	}
	ms.WaitSearch()

	if len(events) == 0 {
		t.Fatal("no events emitted")
	}
	var infos, finished int
	for _, e := range events {
		switch e.Type {
		case EventInfo:
			infos++
		case EventFinished:
			finished++
		}
	}
	if infos == 0 {
		t.Error("no INFO events emitted")
	}
	if finished != 1 {
		t.Errorf("FINISHED emitted %d times, want exactly once", finished)
	}
	if last := events[len(events)-1]; last.Type != EventFinished {
		t.Errorf("last event = %v, want FINISHED", last.Type)
	}
}

// TestEndSearchSuppressesFinished stops the search externally and
// expects the caller, not the event stream, to carry the result.
func TestEndSearchSuppressesFinished(t *testing.T) {
	pos := board.NewPosition()
	ms := NewMultiSearcher()
	opts := DefaultSearchOptions()
	opts.SearchDepth = MaxSearchDepth
	opts.ThreadCount = 1
	opts.TimeLimit = 30 * time.Second
	if err := ms.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	var finished int
	if err := ms.SetEventProcessor(func(e SearchEvent) {
		if e.Type == EventFinished {
			finished++
		}
	}); err != nil {
		t.Fatalf("SetEventProcessor: %v", err)
	}

	if err := ms.StartSearch(pos); err != nil {
		t.Fatalf("StartSearch: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	results, _ := ms.EndSearch()
	if finished != 0 {
		t.Errorf("FINISHED emitted %d times after an external stop", finished)
	}
	if results.BestMove == board.MoveNone {
		t.Error("EndSearch returned no best move")
	}

	// A second call is a no-op returning the same results.
	again, _ := ms.EndSearch()
	if again != results {
		t.Errorf("second EndSearch = %+v, want %+v", again, results)
	}
}

func TestBusyRejections(t *testing.T) {
	pos := board.NewPosition()
	ms := NewMultiSearcher()
	opts := DefaultSearchOptions()
	opts.SearchDepth = MaxSearchDepth
	opts.ThreadCount = 1
	opts.TimeLimit = 30 * time.Second
	if err := ms.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	if err := ms.StartSearch(pos); err != nil {
		t.Fatalf("StartSearch: %v", err)
	}
	defer ms.EndSearch()

	var busy *EngineBusyError
	if err := ms.SetOptions(opts); !errors.As(err, &busy) {
		t.Errorf("SetOptions during search: %v, want EngineBusyError", err)
	}
	if err := ms.ClearTables(); !errors.As(err, &busy) {
		t.Errorf("ClearTables during search: %v, want EngineBusyError", err)
	}

	var conc *ConcurrencyError
	if err := ms.StartSearch(pos); !errors.As(err, &conc) {
		t.Errorf("second StartSearch: %v, want ConcurrencyError", err)
	}
}
