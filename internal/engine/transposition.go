package engine

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Bound indicates the type of score stored in a table entry.
type Bound uint8

const (
	BoundLower Bound = iota // failed high (beta cutoff)
	BoundUpper              // failed low (no raise)
	BoundExact              // inside the window
)

// Table geometry. 2^ttIndexBits buckets of three entries each, guarded
// by a stripe of 2^ttStripeBits mutexes.
const (
	ttIndexBits  = 20
	ttBuckets    = 1 << ttIndexBits
	ttIndexMask  = ttBuckets - 1
	ttBucketSize = 3

	ttStripeBits = 10
	ttStripes    = 1 << ttStripeBits
	ttStripeMask = ttStripes - 1
)

// TTEntry is one transposition table record. Depth zero marks an
// empty slot. Scores are ply-corrected by the caller via ScoreToTT
// and ScoreFromTT.
type TTEntry struct {
	Key   uint64
	Move  board.Move
	Score int32
	Depth uint8
	Bound Bound
	Age   uint8
}

type ttBucket [ttBucketSize]TTEntry

// TranspositionTable is the shared search cache. Contents are
// advisory: stale reads across threads are tolerated, only bucket
// consistency is guaranteed, by the mutex stripe.
type TranspositionTable struct {
	buckets []ttBucket
	stripes [ttStripes]sync.Mutex
	age     atomic.Uint32
}

// NewTranspositionTable allocates the fixed-size table.
func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{
		buckets: make([]ttBucket, ttBuckets),
	}
}

func (tt *TranspositionTable) stripe(idx uint64) *sync.Mutex {
	return &tt.stripes[idx&ttStripeMask]
}

// Probe returns the entry for key, if present.
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	idx := key & ttIndexMask
	mu := tt.stripe(idx)
	mu.Lock()
	defer mu.Unlock()

	for i := range tt.buckets[idx] {
		e := tt.buckets[idx][i]
		if e.Depth != 0 && e.Key == key {
			return e, true
		}
	}
	return TTEntry{}, false
}

// Store writes an entry under the bucket replacement policy: an empty
// slot first, then a same-key slot if the new depth is not shallower,
// otherwise the stalest (smallest age, then smallest depth) victim if
// the incoming entry dominates it by age, depth, or exactness.
func (tt *TranspositionTable) Store(key uint64, depth int, bound Bound, score int, move board.Move) {
	if depth < 1 {
		depth = 1
	}
	entry := TTEntry{
		Key:   key,
		Move:  move,
		Score: int32(score),
		Depth: uint8(depth),
		Bound: bound,
		Age:   uint8(tt.age.Load()),
	}

	idx := key & ttIndexMask
	mu := tt.stripe(idx)
	mu.Lock()
	defer mu.Unlock()

	bucket := &tt.buckets[idx]
	victim := 0
	for i := range bucket {
		e := &bucket[i]
		if e.Depth == 0 {
			*e = entry
			return
		}
		if e.Key == key {
			if entry.Depth >= e.Depth {
				*e = entry
			}
			return
		}
		if e.Age < bucket[victim].Age ||
			(e.Age == bucket[victim].Age && e.Depth < bucket[victim].Depth) {
			victim = i
		}
	}

	v := &bucket[victim]
	if entry.Age != v.Age ||
		entry.Depth > v.Depth ||
		(entry.Depth == v.Depth && entry.Bound == BoundExact) {
		*v = entry
	}
}

// NewSearch advances the replacement age. On wraparound the table is
// cleared so stale entries cannot masquerade as fresh.
func (tt *TranspositionTable) NewSearch() {
	if uint8(tt.age.Add(1)) == 0 {
		tt.Clear()
	}
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		mu := tt.stripe(uint64(i))
		mu.Lock()
		tt.buckets[i] = ttBucket{}
		mu.Unlock()
	}
}

// Age returns the current replacement age.
func (tt *TranspositionTable) Age() uint8 {
	return uint8(tt.age.Load())
}
