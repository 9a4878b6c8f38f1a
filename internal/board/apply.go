package board

import "log"

// DebugMoveValidation enables consistency checks in MakeMove.
// Violations are logged, not returned; moves from the generator never trip them.
var DebugMoveValidation = false

// Apply returns the position after m. The receiver is not modified.
func (p Position) Apply(m Move) Position {
	p.MakeMove(m)
	return p
}

// MakeMove plays m on p. The move must be legal in p, as produced by
// GenerateMoves. Everything the move touches, including Hash, is updated.
func (p *Position) MakeMove(m Move) {
	us := p.SideToMove
	them := us.Other()
	from, to, flag := m.From(), m.To(), m.Flag()

	moved := p.typeAt(us, from)
	if DebugMoveValidation {
		if moved == NoPieceType {
			log.Printf("MakeMove: no %s piece on %s for %s in %s", us, from, m, p.ToFEN())
			return
		}
		if flag.IsCapture() && flag != EnPassant {
			if victim := p.typeAt(them, to); victim == NoPieceType || victim == King {
				log.Printf("MakeMove: bad capture target %s for %s in %s", victim, m, p.ToFEN())
			}
		}
	}

	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	switch {
	case flag == EnPassant:
		p.remove(them, Pawn, pawnPushSquare(to, them))
	case flag.IsCapture():
		p.remove(them, p.typeAt(them, to), to)
	}

	if flag.IsPromotion() {
		p.remove(us, Pawn, from)
		p.put(us, flag.Promotion(), to)
	} else {
		p.shift(us, moved, from, to)
	}

	switch flag {
	case DoublePush:
		p.EnPassant = pawnPushSquare(from, us)
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	case KingCastle, QueenCastle:
		rookFrom, rookTo := rookCastleSquares(us, flag)
		p.shift(us, Rook, rookFrom, rookTo)
	}

	p.CastlingRights &^= castleRevoke[from] | castleRevoke[to]
	p.Hash ^= zobristCastling[p.CastlingRights]

	if moved == Pawn || flag.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = them
	p.Hash ^= zobristSideToMove
}
