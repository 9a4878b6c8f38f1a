package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string. The move counters are optional.
func ParseFEN(fen string) (*Position, error) {
	s, err := ParseSetup(fen)
	if err != nil {
		return nil, err
	}
	pos, err := NewPositionFromSetup(s)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", fen, err)
	}
	return pos, nil
}

// ParseSetup parses a FEN string into an unvalidated Setup.
func ParseSetup(fen string) (Setup, error) {
	s := Setup{EnPassant: NoSquare, FullMoveNumber: 1}
	for i := range s.Board {
		s.Board[i] = NoPiece
	}

	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return s, fmt.Errorf("%w: need 4 to 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	if err := parsePlacement(&s, parts[0]); err != nil {
		return s, err
	}

	switch parts[1] {
	case "w":
		s.SideToMove = White
	case "b":
		s.SideToMove = Black
	default:
		return s, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
	}

	cr, ok := ParseCastleRights(parts[2])
	if !ok {
		return s, fmt.Errorf("%w: castling field %q", ErrInvalidFEN, parts[2])
	}
	s.CastlingRights = cr

	ep, err := ParseSquare(parts[3])
	if err != nil {
		return s, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
	}
	s.EnPassant = ep

	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return s, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, parts[4])
		}
		s.HalfMoveClock = n
	}
	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return s, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, parts[5])
		}
		s.FullMoveNumber = n
	}
	return s, nil
}

func parsePlacement(s *Setup, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc := PieceFromChar(c)
			if pc == NoPiece {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			s.Board[NewSquare(file, rank)] = pc
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}
	return nil
}

// ToFEN formats the position as a six-field FEN string.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.CastlingRights, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
