package board

import "strings"

// SAN formats a legal move of p in Standard Algebraic Notation,
// with "+" or "#" appended when the move gives check or mate.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}
	from, to, flag := m.From(), m.To(), m.Flag()
	pt := p.typeAt(p.SideToMove, from)
	if pt == NoPieceType {
		return m.String()
	}

	var sb strings.Builder
	switch {
	case flag == KingCastle:
		sb.WriteString("O-O")
	case flag == QueenCastle:
		sb.WriteString("O-O-O")
	case pt == Pawn:
		if flag.IsCapture() {
			sb.WriteByte(byte('a' + from.File()))
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if flag.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[flag.Promotion()])
		}
	default:
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(p.disambiguation(m, pt))
		if flag.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
	}

	next := p.Apply(m)
	if next.InCheck() {
		if next.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same type can also reach the destination.
func (p *Position) disambiguation(m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	same := p.Pieces[p.SideToMove][pt]
	var rivals Bitboard
	p.GenerateMoves(func(o Move) {
		if o.To() == to && o.From() != from && same.Has(o.From()) {
			rivals = rivals.With(o.From())
		}
	})
	switch {
	case rivals == 0:
		return ""
	case rivals&FileMask[from.File()] == 0:
		return string(rune('a' + from.File()))
	case rivals&RankMask[from.Rank()] == 0:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}
