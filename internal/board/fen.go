package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// LoadFEN parses a FEN string into the position. The halfmove clock and
// fullmove number may be absent and default to 0/1. Without
// omitCounters placement, side, castling and en passant are required;
// with it only placement and side are.
func (p *Position) LoadFEN(fen string, omitCounters bool) error {
	parts := strings.Fields(fen)
	minParts := 4
	if omitCounters {
		// piece placement and side suffice; the rest defaults
		minParts = 2
	}
	if len(parts) < minParts {
		return &ParseError{Input: fen, Reason: fmt.Sprintf("expected at least %d fields, got %d", minParts, len(parts))}
	}

	p.clear()

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return &ParseError{Input: fen, Reason: "missing rank delimiter"}
	}
	for rankIdx, rankStr := range ranks {
		rank := 7 - rankIdx
		file := 0
		for i := 0; i < len(rankStr); i++ {
			c := rankStr[i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return &ParseError{Input: fen, Reason: fmt.Sprintf("invalid piece character %q", c)}
			}
			if file > 7 {
				return &ParseError{Input: fen, Reason: fmt.Sprintf("rank %d overflows", rank+1)}
			}
			p.putPiece(piece.Color(), piece.Type(), NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return &ParseError{Input: fen, Reason: fmt.Sprintf("rank %d has %d files", rank+1, file)}
		}
	}

	switch parts[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return &ParseError{Input: fen, Reason: "side to move must be 'w' or 'b'"}
	}

	if len(parts) > 2 && parts[2] != "-" {
		for i := 0; i < len(parts[2]); i++ {
			switch parts[2][i] {
			case 'K':
				p.info.Castling |= WhiteKingside
			case 'Q':
				p.info.Castling |= WhiteQueenside
			case 'k':
				p.info.Castling |= BlackKingside
			case 'q':
				p.info.Castling |= BlackQueenside
			default:
				return &ParseError{Input: fen, Reason: fmt.Sprintf("invalid castling character %q", parts[2][i])}
			}
		}
	}

	if len(parts) > 3 && parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return &ParseError{Input: fen, Reason: "invalid en-passant square"}
		}
		if sq.Rank() != 2 && sq.Rank() != 5 {
			return &ParseError{Input: fen, Reason: "invalid en-passant square"}
		}
		p.info.EnPassant = sq
	}

	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return &ParseError{Input: fen, Reason: "invalid halfmove clock"}
		}
		p.info.Rule50 = n
	}
	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return &ParseError{Input: fen, Reason: "invalid fullmove number"}
		}
		p.gamePly = 2 * (n - 1)
		if p.sideToMove == Black {
			p.gamePly++
		}
	}

	if err := p.Validate(); err != nil {
		return err
	}

	p.info.Key = p.ComputeKey()
	return nil
}

// ParseFEN creates a new position from a FEN string.
func ParseFEN(fen string) (*Position, error) {
	p := &Position{}
	if err := p.LoadFEN(fen, false); err != nil {
		return nil, err
	}
	return p, nil
}

// WriteFEN renders the position as FEN. With omitCounters the halfmove
// clock and fullmove number are left out.
func (p *Position) WriteFEN(omitCounters bool) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.board[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(p.info.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.info.EnPassant.String())

	if !omitCounters {
		fmt.Fprintf(&sb, " %d %d", p.info.Rule50, p.gamePly/2+1)
	}
	return sb.String()
}

// ReducedFEN renders placement, side, castling and en-passant only,
// the fields that identify a position for repetition counting.
func (p *Position) ReducedFEN() string {
	return p.WriteFEN(true)
}
