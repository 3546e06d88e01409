package board

// MaxMoves is the largest number of moves in any legal chess position.
const MaxMoves = 218

// MoveScore orders moves within a MoveList.
type MoveScore = int32

// MoveList is a bounded list of scored moves with a consumption
// cursor. GetNextBest performs one selection pass per call, which is
// cheaper than a full sort at nodes that cut off after a few moves.
type MoveList struct {
	moves  [MaxMoves]Move
	scores [MaxMoves]MoveScore
	count  int
	cursor int
}

// Add appends a move with zero score.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.scores[ml.count] = 0
	ml.count++
}

// AddScored appends a move with a score.
func (ml *MoveList) AddScored(m Move, s MoveScore) {
	ml.moves[ml.count] = m
	ml.scores[ml.count] = s
	ml.count++
}

// Len returns the number of moves.
func (ml *MoveList) Len() int {
	return ml.count
}

// Empty returns true when the list holds no moves.
func (ml *MoveList) Empty() bool {
	return ml.count == 0
}

// Move returns the move at index i.
func (ml *MoveList) Move(i int) Move {
	return ml.moves[i]
}

// Score returns the score at index i.
func (ml *MoveList) Score(i int) MoveScore {
	return ml.scores[i]
}

// SetScore updates the score at index i.
func (ml *MoveList) SetScore(i int, s MoveScore) {
	ml.scores[i] = s
}

// Contains reports whether the list holds m.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Sort orders moves by descending score.
func (ml *MoveList) Sort() {
	for i := 1; i < ml.count; i++ {
		m, s := ml.moves[i], ml.scores[i]
		j := i - 1
		for j >= 0 && ml.scores[j] < s {
			ml.moves[j+1] = ml.moves[j]
			ml.scores[j+1] = ml.scores[j]
			j--
		}
		ml.moves[j+1] = m
		ml.scores[j+1] = s
	}
}

// GetNextBest selects the highest-scored remaining move, swaps it to
// the cursor position and advances the cursor. Returns MoveNone when
// the list is exhausted.
func (ml *MoveList) GetNextBest() Move {
	if ml.cursor >= ml.count {
		return MoveNone
	}
	best := ml.cursor
	for i := ml.cursor + 1; i < ml.count; i++ {
		if ml.scores[i] > ml.scores[best] {
			best = i
		}
	}
	ml.moves[ml.cursor], ml.moves[best] = ml.moves[best], ml.moves[ml.cursor]
	ml.scores[ml.cursor], ml.scores[best] = ml.scores[best], ml.scores[ml.cursor]
	m := ml.moves[ml.cursor]
	ml.cursor++
	return m
}

// Reset rewinds the cursor without discarding contents.
func (ml *MoveList) Reset() {
	ml.cursor = 0
}

// Clear discards all moves.
func (ml *MoveList) Clear() {
	ml.count = 0
	ml.cursor = 0
}

// Slice returns the moves as a slice, for tests and iteration.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
