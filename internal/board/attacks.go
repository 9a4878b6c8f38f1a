package board

// Leaper attack tables and ray tables, built once at start-up.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	betweenBB [64][64]Bitboard // strictly between two aligned squares
	lineBB    [64][64]Bitboard // whole line through two aligned squares
)

var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
)

func init() {
	initLeaperAttacks()
	initRays()
	initMagics()
}

// stepAttacks returns the squares reached from sq by single steps of (file, rank) deltas.
func stepAttacks(sq Square, steps [8][2]int) Bitboard {
	var bb Bitboard
	for _, d := range steps {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		if f >= 0 && f < 8 && r >= 0 && r < 8 {
			bb |= SquareBB(NewSquare(f, r))
		}
	}
	return bb
}

func initLeaperAttacks() {
	for sq := A1; sq <= H8; sq++ {
		knightAttacks[sq] = stepAttacks(sq, knightSteps)
		kingAttacks[sq] = stepAttacks(sq, kingSteps)

		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initRays() {
	for from := A1; from <= H8; from++ {
		for _, d := range kingSteps {
			// walk the ray; every square on it sees from along direction d
			var ray Bitboard
			f, r := from.File()+d[0], from.Rank()+d[1]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				to := NewSquare(f, r)
				betweenBB[from][to] = ray
				ray |= SquareBB(to)
				f += d[0]
				r += d[1]
			}
			// line = ray forward + ray backward + from
			var back Bitboard
			f, r = from.File()-d[0], from.Rank()-d[1]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				back |= SquareBB(NewSquare(f, r))
				f -= d[0]
				r -= d[1]
			}
			line := ray | back | SquareBB(from)
			for to := range ray.Squares() {
				lineBB[from][to] = line
			}
		}
	}
}

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// BishopAttacks returns diagonal attacks from sq given blockers in occupied.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return getBishopAttacks(sq, occupied)
}

// RookAttacks returns orthogonal attacks from sq given blockers in occupied.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return getRookAttacks(sq, occupied)
}

// QueenAttacks is the union of bishop and rook attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return getBishopAttacks(sq, occupied) | getRookAttacks(sq, occupied)
}

// Between returns the squares strictly between a and b.
// It is empty when the squares are not on a common rank, file or diagonal, or are adjacent.
func Between(a, b Square) Bitboard {
	return betweenBB[a][b]
}

// Line returns the full board line through a and b, or Empty if unaligned.
func Line(a, b Square) Bitboard {
	return lineBB[a][b]
}

// Aligned reports whether three squares lie on one line.
func Aligned(a, b, c Square) bool {
	return lineBB[a][b].Has(c)
}

// AttackersByColor returns the pieces of color c attacking sq, with sliders blocked by occupied.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	pc := &p.Pieces[c]
	return (pawnAttacks[c.Other()][sq] & pc[Pawn]) |
		(knightAttacks[sq] & pc[Knight]) |
		(kingAttacks[sq] & pc[King]) |
		(getBishopAttacks(sq, occupied) & (pc[Bishop] | pc[Queen])) |
		(getRookAttacks(sq, occupied) & (pc[Rook] | pc[Queen]))
}

// IsSquareAttacked reports whether the opponents of us attack sq.
// The king of us is not treated as a blocker, so squares behind it
// on a checking ray count as attacked.
func (p *Position) IsSquareAttacked(sq Square, us Color) bool {
	occupied := p.AllOccupied &^ p.Pieces[us][King]
	return p.AttackersByColor(sq, us.Other(), occupied) != 0
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	us := p.SideToMove
	return p.AttackersByColor(p.KingSquare[us], us.Other(), p.AllOccupied)
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers() != 0
}
