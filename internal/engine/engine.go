package engine

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// EventType labels a search event.
type EventType uint8

const (
	EventInfo     EventType = iota // completed iteration on the main thread
	EventFinished                  // search ended without an external stop
)

// SearchEvent carries the current results and statistics to the
// event processor. Events are emitted only from the main search
// goroutine, so the processor needs no locking of its own.
type SearchEvent struct {
	Type    EventType
	Results SearchResults
	Stats   SearchStats
}

// EventProcessor receives search events.
type EventProcessor func(SearchEvent)

// MultiSearcher coordinates the parallel search: one main searcher
// plus helpers, all deepening independently on copies of the root
// position and sharing only the transposition table, the stop flags,
// and the root deferral slots.
type MultiSearcher struct {
	tt *TranspositionTable

	mu        sync.Mutex
	opts      SearchOptions
	processor EventProcessor
	inSearch  bool
	shared    *sharedState
	done      chan struct{}

	lastResults SearchResults
	lastStats   SearchStats
}

// NewMultiSearcher creates a coordinator with default options.
func NewMultiSearcher() *MultiSearcher {
	return &MultiSearcher{
		tt:   NewTranspositionTable(),
		opts: DefaultSearchOptions(),
	}
}

// SetOptions replaces the search options.
func (ms *MultiSearcher) SetOptions(opts SearchOptions) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.inSearch {
		return &EngineBusyError{Op: "SetOptions"}
	}
	ms.opts = opts
	return nil
}

// Options returns the current search options.
func (ms *MultiSearcher) Options() SearchOptions {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.opts
}

// SetEventProcessor installs the callback for INFO and FINISHED
// events.
func (ms *MultiSearcher) SetEventProcessor(p EventProcessor) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.inSearch {
		return &EngineBusyError{Op: "SetEventProcessor"}
	}
	ms.processor = p
	return nil
}

// InSearch reports whether a search is running.
func (ms *MultiSearcher) InSearch() bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.inSearch
}

// ClearTables empties the transposition table.
func (ms *MultiSearcher) ClearTables() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.inSearch {
		return &EngineBusyError{Op: "ClearTables"}
	}
	ms.tt.Clear()
	return nil
}

// StartSearch launches the configured number of search threads on a
// copy of pos and returns immediately. Results arrive through the
// event processor and EndSearch.
func (ms *MultiSearcher) StartSearch(pos *board.Position) error {
	ms.mu.Lock()
	if ms.inSearch {
		ms.mu.Unlock()
		return &ConcurrencyError{Reason: "search already in progress"}
	}

	shared := newSharedState(ms.opts)
	searchers := make([]*Searcher, ms.opts.ThreadCount)
	for i := range searchers {
		searchers[i] = newSearcher(i, pos, ms.tt, shared)
	}

	ms.inSearch = true
	ms.shared = shared
	ms.done = make(chan struct{})
	processor := ms.processor
	ms.mu.Unlock()

	go ms.run(searchers, processor)
	return nil
}

func (ms *MultiSearcher) run(searchers []*Searcher, processor EventProcessor) {
	shared := searchers[0].shared

	var g errgroup.Group
	for _, helper := range searchers[1:] {
		helper := helper
		g.Go(func() error {
			helper.idSearch(nil)
			return nil
		})
	}

	main := searchers[0]
	main.idSearch(func() {
		if processor != nil {
			processor(SearchEvent{
				Type:    EventInfo,
				Results: main.results,
				Stats:   shared.stats(),
			})
		}
	})

	shared.stop.Store(true)
	g.Wait()
	ms.finish(searchers, processor)
}

func (ms *MultiSearcher) finish(searchers []*Searcher, processor EventProcessor) {
	shared := searchers[0].shared

	best := searchers[0].results
	for _, s := range searchers[1:] {
		r := s.results
		if r.BestMove == board.MoveNone {
			continue
		}
		if best.BestMove == board.MoveNone ||
			r.Depth > best.Depth ||
			(r.Depth == best.Depth && r.Score > best.Score) {
			best = r
		}
	}
	stats := shared.stats()

	ms.mu.Lock()
	ms.lastResults = best
	ms.lastStats = stats
	ms.tt.NewSearch()
	ms.inSearch = false
	done := ms.done
	ms.mu.Unlock()

	if !shared.externalStop.Load() && processor != nil {
		processor(SearchEvent{Type: EventFinished, Results: best, Stats: stats})
	}
	close(done)
}

// EndSearch stops a running search and waits for all threads to
// finish. When no search is running it simply returns the last
// results, so calling it twice is harmless.
func (ms *MultiSearcher) EndSearch() (SearchResults, SearchStats) {
	ms.mu.Lock()
	if ms.inSearch {
		ms.shared.externalStop.Store(true)
		ms.shared.stop.Store(true)
		done := ms.done
		ms.mu.Unlock()
		<-done
		ms.mu.Lock()
	}
	defer ms.mu.Unlock()
	return ms.lastResults, ms.lastStats
}

// WaitSearch blocks until a running search terminates on its own
// (timeout or depth limit) and returns its results. Unlike
// EndSearch it does not signal a stop.
func (ms *MultiSearcher) WaitSearch() (SearchResults, SearchStats) {
	ms.mu.Lock()
	if !ms.inSearch {
		defer ms.mu.Unlock()
		return ms.lastResults, ms.lastStats
	}
	done := ms.done
	ms.mu.Unlock()
	<-done

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.lastResults, ms.lastStats
}
