package board

import "strings"

// CastleRights holds the four castling permissions as bit flags.
type CastleRights uint8

const (
	WhiteKingSide CastleRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastleRights = 0
	AllCastling              = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// castleRevoke maps a square to the rights lost when a move leaves or lands on it.
// Only the king and rook home squares are non-zero.
var castleRevoke = [64]CastleRights{
	A1: WhiteQueenSide,
	E1: WhiteKingSide | WhiteQueenSide,
	H1: WhiteKingSide,
	A8: BlackQueenSide,
	E8: BlackKingSide | BlackQueenSide,
	H8: BlackKingSide,
}

// castlePath describes one castling option.
type castlePath struct {
	right  CastleRights
	flag   MoveFlag
	king   Square
	kingTo Square
	rook   Square
	rookTo Square
	empty  Bitboard // must be unoccupied
	safe   Bitboard // king origin, transit and destination; must not be attacked
}

var castlePaths = [2][2]castlePath{
	White: {
		{WhiteKingSide, KingCastle, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), SquareBB(E1) | SquareBB(F1) | SquareBB(G1)},
		{WhiteQueenSide, QueenCastle, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(E1) | SquareBB(D1) | SquareBB(C1)},
	},
	Black: {
		{BlackKingSide, KingCastle, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), SquareBB(E8) | SquareBB(F8) | SquareBB(G8)},
		{BlackQueenSide, QueenCastle, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(E8) | SquareBB(D8) | SquareBB(C8)},
	},
}

// rookCastleSquares returns the rook origin and destination for a castling flag.
func rookCastleSquares(c Color, flag MoveFlag) (from, to Square) {
	cp := &castlePaths[c][0]
	if flag == QueenCastle {
		cp = &castlePaths[c][1]
	}
	return cp.rook, cp.rookTo
}

// Has reports whether every right in r is present.
func (cr CastleRights) Has(r CastleRights) bool {
	return cr&r == r
}

// Side returns the rights belonging to color c.
func (cr CastleRights) Side(c Color) CastleRights {
	if c == White {
		return cr & (WhiteKingSide | WhiteQueenSide)
	}
	return cr & (BlackKingSide | BlackQueenSide)
}

// String returns the FEN castling field.
func (cr CastleRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// ParseCastleRights parses the FEN castling field.
func ParseCastleRights(s string) (CastleRights, bool) {
	if s == "-" {
		return NoCastling, true
	}
	var cr CastleRights
	for _, ch := range s {
		i := strings.IndexRune("KQkq", ch)
		if i < 0 {
			return NoCastling, false
		}
		cr |= 1 << i
	}
	return cr, true
}
