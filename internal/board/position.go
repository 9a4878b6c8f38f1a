package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFEN      = errors.New("invalid FEN")
	ErrInvalidPosition = errors.New("invalid position")
	ErrIllegalMove     = errors.New("illegal move")
)

// Position is a complete chess position. It is a plain value: copying it
// yields an independent position, which is how moves are applied.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Occupancy, always the union of the piece bitboards
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastleRights
	EnPassant      Square // square a pawn skipped over last move, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	Hash uint64

	KingSquare [2]Square
}

// Setup is the fully resolved input from which a Position is built.
type Setup struct {
	Board          [64]Piece
	SideToMove     Color
	CastlingRights CastleRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
}

// NewPosition returns the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// NewPositionFromSetup builds and validates a position.
// Castling rights whose king or rook is not on its home square are dropped.
func NewPositionFromSetup(s Setup) (*Position, error) {
	if s.SideToMove != White && s.SideToMove != Black {
		return nil, fmt.Errorf("%w: side to move %d", ErrInvalidPosition, s.SideToMove)
	}
	p := &Position{
		SideToMove:     s.SideToMove,
		EnPassant:      s.EnPassant,
		HalfMoveClock:  s.HalfMoveClock,
		FullMoveNumber: s.FullMoveNumber,
	}
	if p.FullMoveNumber < 1 {
		p.FullMoveNumber = 1
	}
	for sq := A1; sq <= H8; sq++ {
		pc := s.Board[sq]
		if pc == NoPiece {
			continue
		}
		if pc > NoPiece {
			return nil, fmt.Errorf("%w: bad piece code %d on %s", ErrInvalidPosition, pc, sq)
		}
		p.put(pc.Color(), pc.Type(), sq)
	}
	p.KingSquare[White] = p.Pieces[White][King].LSB()
	p.KingSquare[Black] = p.Pieces[Black][King].LSB()

	cr := s.CastlingRights & AllCastling
	for c := White; c <= Black; c++ {
		for _, cp := range castlePaths[c] {
			if !p.Pieces[c][King].Has(cp.king) || !p.Pieces[c][Rook].Has(cp.rook) {
				cr &^= cp.right
			}
		}
	}
	p.CastlingRights = cr

	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Hash = p.ComputeHash()
	return p, nil
}

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	var union Bitboard
	for c := White; c <= Black; c++ {
		var side Bitboard
		for pt := Pawn; pt <= King; pt++ {
			if side&p.Pieces[c][pt] != 0 || union&p.Pieces[c][pt] != 0 {
				return fmt.Errorf("%w: overlapping piece sets", ErrInvalidPosition)
			}
			side |= p.Pieces[c][pt]
			union |= p.Pieces[c][pt]
		}
		if side != p.Occupied[c] {
			return fmt.Errorf("%w: %s occupancy out of sync", ErrInvalidPosition, c)
		}
		if p.Pieces[c][King].PopCount() != 1 {
			return fmt.Errorf("%w: %s must have exactly one king", ErrInvalidPosition, c)
		}
		if p.KingSquare[c] != p.Pieces[c][King].LSB() {
			return fmt.Errorf("%w: %s king square out of sync", ErrInvalidPosition, c)
		}
	}
	if union != p.AllOccupied {
		return fmt.Errorf("%w: occupancy out of sync", ErrInvalidPosition)
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("%w: pawn on first or last rank", ErrInvalidPosition)
	}

	if ep := p.EnPassant; ep != NoSquare {
		us, them := p.SideToMove, p.SideToMove.Other()
		if !ep.IsValid() || ep.RelativeRank(us) != 5 {
			return fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidPosition, ep)
		}
		pushed := pawnPushSquare(ep, them)
		if p.AllOccupied.Has(ep) || !p.Pieces[them][Pawn].Has(pushed) {
			return fmt.Errorf("%w: no double-pushed pawn behind %s", ErrInvalidPosition, ep)
		}
	}

	them := p.SideToMove.Other()
	if p.IsSquareAttacked(p.KingSquare[them], them) {
		return fmt.Errorf("%w: %s king can be captured", ErrInvalidPosition, them)
	}
	return nil
}

// pawnPushSquare is the square one step forward from sq for color c.
func pawnPushSquare(sq Square, c Color) Square {
	if c == White {
		return sq + 8
	}
	return sq - 8
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	if !p.AllOccupied.Has(sq) {
		return NoPiece
	}
	c := White
	if p.Occupied[Black].Has(sq) {
		c = Black
	}
	return NewPiece(p.typeAt(c, sq), c)
}

// typeAt returns the type of c's piece on sq, NoPieceType if c has none there.
func (p *Position) typeAt(c Color, sq Square) PieceType {
	bb := SquareBB(sq)
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return pt
		}
	}
	return NoPieceType
}

// IsEmpty reports whether sq holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return !p.AllOccupied.Has(sq)
}

// put, remove and shift keep bitboards, occupancy and the piece part of Hash in step.

func (p *Position) put(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	p.Hash ^= zobristPiece[c][pt][sq]
}

func (p *Position) remove(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	p.Hash ^= zobristPiece[c][pt][sq]
}

func (p *Position) shift(c Color, pt PieceType, from, to Square) {
	bb := SquareBB(from) | SquareBB(to)
	p.Pieces[c][pt] ^= bb
	p.Occupied[c] ^= bb
	p.AllOccupied ^= bb
	p.Hash ^= zobristPiece[c][pt][from] ^ zobristPiece[c][pt][to]
	if pt == King {
		p.KingSquare[c] = to
	}
}

// String renders the board with rank 8 on top, followed by the game state.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.PieceAt(NewSquare(file, rank)).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}
