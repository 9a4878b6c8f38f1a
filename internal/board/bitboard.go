package board

import (
	"iter"
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, one bit per square.
// Bit 0 = A1, bit 7 = H1, bit 56 = A8, bit 63 = H8.
type Bitboard uint64

// File masks
const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = FileA << 1
	FileC Bitboard = FileA << 2
	FileD Bitboard = FileA << 3
	FileE Bitboard = FileA << 4
	FileF Bitboard = FileA << 5
	FileG Bitboard = FileA << 6
	FileH Bitboard = FileA << 7
)

// Rank masks
const (
	Rank1 Bitboard = 0xFF
	Rank2 Bitboard = Rank1 << (8 * 1)
	Rank3 Bitboard = Rank1 << (8 * 2)
	Rank4 Bitboard = Rank1 << (8 * 3)
	Rank5 Bitboard = Rank1 << (8 * 4)
	Rank6 Bitboard = Rank1 << (8 * 5)
	Rank7 Bitboard = Rank1 << (8 * 6)
	Rank8 Bitboard = Rank1 << (8 * 7)
)

const (
	Empty    Bitboard = 0
	Universe Bitboard = ^Empty

	NotFileA Bitboard = ^FileA
	NotFileH Bitboard = ^FileH
)

// FileMask indexes file masks by file number (0 = a).
var FileMask = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}

// RankMask indexes rank masks by rank number (0 = first rank).
var RankMask = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}

// SquareBB returns a bitboard with only the given square set.
// NoSquare yields the empty set.
func SquareBB(sq Square) Bitboard {
	if sq >= NoSquare {
		return Empty
	}
	return 1 << sq
}

// Has reports whether sq is a member of the set.
func (b Bitboard) Has(sq Square) bool {
	return b&SquareBB(sq) != 0
}

// With returns the set with sq added.
func (b Bitboard) With(sq Square) Bitboard {
	return b | SquareBB(sq)
}

// Without returns the set with sq removed.
func (b Bitboard) Without(sq Square) Bitboard {
	return b &^ SquareBB(sq)
}

// PopCount returns the number of squares in the set.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest square in the set, or NoSquare when empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// MSB returns the highest square in the set, or NoSquare when empty.
func (b Bitboard) MSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(63 - bits.LeadingZeros64(uint64(b)))
}

// PopLSB removes and returns the lowest square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Several reports whether the set holds more than one square.
func (b Bitboard) Several() bool {
	return b&(b-1) != 0
}

// ShiftLeft shifts every bit toward h8. Bits leaving the board are discarded.
func (b Bitboard) ShiftLeft(n uint) Bitboard {
	return b << n
}

// ShiftRight shifts every bit toward a1. Bits leaving the board are discarded.
func (b Bitboard) ShiftRight(n uint) Bitboard {
	return b >> n
}

// North shifts the set one rank up.
func (b Bitboard) North() Bitboard {
	return b << 8
}

// South shifts the set one rank down.
func (b Bitboard) South() Bitboard {
	return b >> 8
}

// NorthEast shifts the set one square toward h8 without wrapping.
func (b Bitboard) NorthEast() Bitboard {
	return (b & NotFileH) << 9
}

// NorthWest shifts the set one square toward a8 without wrapping.
func (b Bitboard) NorthWest() Bitboard {
	return (b & NotFileA) << 7
}

// SouthEast shifts the set one square toward h1 without wrapping.
func (b Bitboard) SouthEast() Bitboard {
	return (b & NotFileH) >> 7
}

// SouthWest shifts the set one square toward a1 without wrapping.
func (b Bitboard) SouthWest() Bitboard {
	return (b & NotFileA) >> 9
}

// Squares yields the squares of the set in ascending order.
// The sequence is lazy and may be ranged over any number of times.
func (b Bitboard) Squares() iter.Seq[Square] {
	return func(yield func(Square) bool) {
		for bb := b; bb != 0; {
			if !yield(bb.PopLSB()) {
				return
			}
		}
	}
}

// String renders the set as an 8x8 grid, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if b.Has(NewSquare(file, rank)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
