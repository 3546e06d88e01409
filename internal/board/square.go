// Package board implements chess board representation using bitboards.
package board

import "fmt"

// Square represents a board square (0-63), file-major from A1.
type Square uint8

// Square constants
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare creates a square from file (0-7) and rank (0-7)
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// File returns the file (0-7, A-H) of the square
func (s Square) File() int {
	return int(s) & 7
}

// Rank returns the rank (0-7, 1-8) of the square
func (s Square) Rank() int {
	return int(s) >> 3
}

// Diagonal returns the diagonal index (0-14) of the square.
func (s Square) Diagonal() int {
	return s.Rank() - s.File() + 7
}

// AntiDiagonal returns the anti-diagonal index (0-14) of the square.
func (s Square) AntiDiagonal() int {
	return s.Rank() + s.File()
}

// Mirror returns the vertically mirrored square (A1 <-> A8)
func (s Square) Mirror() Square {
	return s ^ 56
}

// IsValid returns true if the square is on the board
func (s Square) IsValid() bool {
	return s < 64
}

// String returns the algebraic notation (e.g., "e4")
func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return string(rune('a'+s.File())) + string(rune('1'+s.Rank()))
}

// ParseSquare parses algebraic notation into a Square
func ParseSquare(str string) (Square, error) {
	if len(str) != 2 {
		return NoSquare, &ParseError{Input: str, Reason: "square must be two characters"}
	}
	file := int(str[0] - 'a')
	rank := int(str[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, &ParseError{Input: str, Reason: fmt.Sprintf("invalid square %q", str)}
	}
	return NewSquare(file, rank), nil
}

// RelativeRank returns the rank from the given color's perspective
func (s Square) RelativeRank(c Color) int {
	if c == White {
		return s.Rank()
	}
	return 7 - s.Rank()
}
