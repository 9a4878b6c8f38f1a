package board

import "fmt"

// MoveFlag classifies a move. Bit 2 marks captures and bit 3 promotions.
type MoveFlag uint8

const (
	QuietMove   MoveFlag = 0
	DoublePush  MoveFlag = 1
	KingCastle  MoveFlag = 2
	QueenCastle MoveFlag = 3
	Capture     MoveFlag = 4
	EnPassant   MoveFlag = 5

	KnightPromotion MoveFlag = 8
	BishopPromotion MoveFlag = 9
	RookPromotion   MoveFlag = 10
	QueenPromotion  MoveFlag = 11

	KnightPromotionCapture MoveFlag = 12
	BishopPromotionCapture MoveFlag = 13
	RookPromotionCapture   MoveFlag = 14
	QueenPromotionCapture  MoveFlag = 15
)

const (
	captureBit   MoveFlag = 4
	promotionBit MoveFlag = 8
)

// IsCapture reports whether the move removes an enemy piece, en passant included.
func (f MoveFlag) IsCapture() bool {
	return f&captureBit != 0
}

// IsPromotion reports whether a pawn is replaced on arrival.
func (f MoveFlag) IsPromotion() bool {
	return f&promotionBit != 0
}

// IsCastle reports whether the flag is one of the two castling flags.
func (f MoveFlag) IsCastle() bool {
	return f == KingCastle || f == QueenCastle
}

// Promotion returns the piece a pawn becomes, NoPieceType for non-promotions.
func (f MoveFlag) Promotion() PieceType {
	if !f.IsPromotion() {
		return NoPieceType
	}
	return Knight + PieceType(f&3)
}

func (f MoveFlag) String() string {
	switch f {
	case QuietMove:
		return "quiet"
	case DoublePush:
		return "double-push"
	case KingCastle:
		return "king-castle"
	case QueenCastle:
		return "queen-castle"
	case Capture:
		return "capture"
	case EnPassant:
		return "en-passant"
	}
	if f.IsPromotion() {
		if f.IsCapture() {
			return f.Promotion().String() + "-promotion-capture"
		}
		return f.Promotion().String() + "-promotion"
	}
	return fmt.Sprintf("flag(%d)", uint8(f))
}

// promotionFlags lists the four promotion flags in knight..queen order.
func promotionFlags(capture bool) [4]MoveFlag {
	if capture {
		return [4]MoveFlag{KnightPromotionCapture, BishopPromotionCapture, RookPromotionCapture, QueenPromotionCapture}
	}
	return [4]MoveFlag{KnightPromotion, BishopPromotion, RookPromotion, QueenPromotion}
}

// Move packs a move into 16 bits:
// bits 0-5 from square, bits 6-11 to square, bits 12-15 MoveFlag.
type Move uint16

// NoMove is the zero move. It is never legal.
const NoMove Move = 0

// NewMove packs a move.
func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move classification.
func (m Move) Flag() MoveFlag {
	return MoveFlag(m >> 12)
}

// IsCapture reports whether the move captures, en passant included.
func (m Move) IsCapture() bool {
	return m.Flag().IsCapture()
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flag().IsPromotion()
}

// Promotion returns the promoted-to piece type.
func (m Move) Promotion() PieceType {
	return m.Flag().Promotion()
}

// String returns long algebraic (UCI) notation: "e2e4", "e7e8q", "e1g1".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseMove resolves a UCI move string against the legal moves of p.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: malformed move %q", ErrIllegalMove, s)
	}
	found := NoMove
	p.GenerateMoves(func(m Move) {
		if m.String() == s {
			found = m
		}
	})
	if found == NoMove {
		return NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, s, p.ToFEN())
	}
	return found, nil
}

// MaxMoves bounds the number of legal moves in any reachable position.
const MaxMoves = 256

// MoveList is a fixed-size move buffer that avoids allocation.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add appends a move. Its signature fits GenerateMoves directly.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.Slice() {
		if x == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
