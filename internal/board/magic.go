package board

// Magic bitboard attack generation for sliding pieces.
//
// Attack sets for rooks and bishops are looked up as
//
//	table[m.Offset + ((occ & m.Mask) * m.Magic >> m.Shift)]
//
// The multipliers are found at startup by rejection sampling: candidate
// magics are drawn from a bit-sparse PRNG seeded per square and accepted
// only once every occupancy subset maps to an index without conflicting
// attack sets. The tables are immutable after initialization.

// Magic holds the data for magic bitboard lookups
type Magic struct {
	Mask   Bitboard
	Magic  uint64
	Shift  uint8
	Offset uint32
}

var (
	rookMagics   [64]Magic
	bishopMagics [64]Magic

	// Shared attack tables, indexed through Magic.Offset.
	rookTable   [102400]Bitboard
	bishopTable [5248]Bitboard
)

// magicRand is a bit-sparse xorshift generator used to propose magic
// candidates. AND-ing three draws keeps candidates sparse, which is
// where usable multipliers cluster.
type magicRand struct {
	state uint64
}

func (r *magicRand) next() uint64 {
	r.state ^= r.state >> 12
	r.state ^= r.state << 25
	r.state ^= r.state >> 27
	return r.state * 2685821657736338717
}

func (r *magicRand) sparse() uint64 {
	return r.next() & r.next() & r.next()
}

// Per-square PRNG seeds. Seeding by rank keeps the search short on
// every platform while remaining fully deterministic.
var magicSeeds = [8]uint64{728, 10316, 55013, 32803, 12281, 15100, 16645, 255}

func rookMask(sq Square) Bitboard {
	f, r := sq.File(), sq.Rank()
	var mask Bitboard
	for rr := r + 1; rr < 7; rr++ {
		mask |= SquareBB(NewSquare(f, rr))
	}
	for rr := r - 1; rr > 0; rr-- {
		mask |= SquareBB(NewSquare(f, rr))
	}
	for ff := f + 1; ff < 7; ff++ {
		mask |= SquareBB(NewSquare(ff, r))
	}
	for ff := f - 1; ff > 0; ff-- {
		mask |= SquareBB(NewSquare(ff, r))
	}
	return mask
}

func bishopMask(sq Square) Bitboard {
	f, r := sq.File(), sq.Rank()
	var mask Bitboard
	for ff, rr := f+1, r+1; ff < 7 && rr < 7; ff, rr = ff+1, rr+1 {
		mask |= SquareBB(NewSquare(ff, rr))
	}
	for ff, rr := f-1, r+1; ff > 0 && rr < 7; ff, rr = ff-1, rr+1 {
		mask |= SquareBB(NewSquare(ff, rr))
	}
	for ff, rr := f+1, r-1; ff < 7 && rr > 0; ff, rr = ff+1, rr-1 {
		mask |= SquareBB(NewSquare(ff, rr))
	}
	for ff, rr := f-1, r-1; ff > 0 && rr > 0; ff, rr = ff-1, rr-1 {
		mask |= SquareBB(NewSquare(ff, rr))
	}
	return mask
}

// slidingAttacks computes attacks by ray walking, used to seed the
// tables and by the verifier.
func slidingAttacks(sq Square, occupied Bitboard, deltas [4][2]int) Bitboard {
	var attacks Bitboard
	f, r := sq.File(), sq.Rank()
	for _, d := range deltas {
		for ff, rr := f+d[0], r+d[1]; ff >= 0 && ff < 8 && rr >= 0 && rr < 8; ff, rr = ff+d[0], rr+d[1] {
			target := NewSquare(ff, rr)
			attacks |= SquareBB(target)
			if occupied.Has(target) {
				break
			}
		}
	}
	return attacks
}

var (
	rookDeltas   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDeltas = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slidingAttacks(sq, occupied, rookDeltas)
}

func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slidingAttacks(sq, occupied, bishopDeltas)
}

// indexToOccupancy maps a subset index to an occupancy over the mask bits
func indexToOccupancy(index int, mask Bitboard) Bitboard {
	var occ Bitboard
	bit := 0
	for m := mask; m != 0; bit++ {
		sq := m.PopLSB()
		if index&(1<<bit) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

// findMagic searches for a collision-free multiplier for one square.
// occupancies and references are the precomputed subsets and their true
// attack sets; used is scratch space covering this square's table slice.
func findMagic(sq Square, bitCount int, occupancies, references, used []Bitboard) uint64 {
	rng := magicRand{state: magicSeeds[sq.Rank()]}
	size := 1 << bitCount
	shift := uint8(64 - bitCount)

	for {
		magic := rng.sparse()
		// Quick reject: the magic must spread the high mask bits.
		if ((Bitboard(magic)*occupancies[size-1])>>56).PopCount() < 6 && occupancies[size-1] != 0 {
			continue
		}
		for i := 0; i < size; i++ {
			used[i] = Full
		}
		ok := true
		for i := 0; i < size; i++ {
			idx := (uint64(occupancies[i]) * magic) >> shift
			if used[idx] == Full {
				used[idx] = references[i]
			} else if used[idx] != references[i] {
				ok = false
				break
			}
		}
		if ok {
			return magic
		}
	}
}

func initMagicsFor(magics *[64]Magic, table []Bitboard, maskFn func(Square) Bitboard,
	attackFn func(Square, Bitboard) Bitboard) {

	var offset uint32
	var occupancies, references, used [4096]Bitboard

	for sq := A1; sq <= H8; sq++ {
		mask := maskFn(sq)
		bitCount := mask.PopCount()
		size := 1 << bitCount

		for i := 0; i < size; i++ {
			occupancies[i] = indexToOccupancy(i, mask)
			references[i] = attackFn(sq, occupancies[i])
		}

		magic := findMagic(sq, bitCount, occupancies[:size], references[:size], used[:size])

		m := Magic{
			Mask:   mask,
			Magic:  magic,
			Shift:  uint8(64 - bitCount),
			Offset: offset,
		}
		for i := 0; i < size; i++ {
			idx := (uint64(occupancies[i]) * magic) >> m.Shift
			table[offset+uint32(idx)] = references[i]
		}
		magics[sq] = m
		offset += uint32(size)
	}
}

func initMagics() {
	initMagicsFor(&rookMagics, rookTable[:], rookMask, rookAttacksSlow)
	initMagicsFor(&bishopMagics, bishopTable[:], bishopMask, bishopAttacksSlow)
}

// RookAttacks returns rook attacks from sq with the given occupancy
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	idx := (uint64(occupied&m.Mask) * m.Magic) >> m.Shift
	return rookTable[m.Offset+uint32(idx)]
}

// BishopAttacks returns bishop attacks from sq with the given occupancy
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	idx := (uint64(occupied&m.Mask) * m.Magic) >> m.Shift
	return bishopTable[m.Offset+uint32(idx)]
}

// QueenAttacks returns queen attacks from sq with the given occupancy
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}
