package board

// Legal move generation. Legality is established while generating: check
// evasion and pin masks restrict destinations up front, king steps are tested
// against enemy attacks, and only en passant is verified on a scratch copy.

type genMode uint8

const (
	genAll genMode = iota
	genCaptures
)

// GenerateMoves calls yield once for every legal move of the side to move.
func (p *Position) GenerateMoves(yield func(Move)) {
	p.generate(genAll, yield)
}

// GenerateCaptures calls yield for the legal captures only: ordinary captures,
// promotion-captures and en passant. Pushes, quiet king steps and castling are skipped.
func (p *Position) GenerateCaptures(yield func(Move)) {
	p.generate(genCaptures, yield)
}

// LegalMoves collects GenerateMoves into a MoveList.
func (p *Position) LegalMoves() *MoveList {
	ml := &MoveList{}
	p.GenerateMoves(ml.Add)
	return ml
}

// Captures collects GenerateCaptures into a MoveList.
func (p *Position) Captures() *MoveList {
	ml := &MoveList{}
	p.GenerateCaptures(ml.Add)
	return ml
}

// legalMasks holds the per-position restrictions every non-king move must respect.
type legalMasks struct {
	checkers Bitboard

	// Allowed destinations for moves onto empty squares and onto enemy
	// pieces. Universe when not in check.
	push    Bitboard
	capture Bitboard

	// Union of pin rays, each from the king (exclusive) to the pinner (inclusive).
	diagPins  Bitboard
	orthoPins Bitboard
}

func (p *Position) computeMasks() legalMasks {
	us, them := p.SideToMove, p.SideToMove.Other()
	ksq := p.KingSquare[us]
	own, enemy := p.Occupied[us], p.Occupied[them]
	diagSliders := p.Pieces[them][Bishop] | p.Pieces[them][Queen]
	orthoSliders := p.Pieces[them][Rook] | p.Pieces[them][Queen]

	lm := legalMasks{push: Universe, capture: Universe}
	lm.checkers = p.AttackersByColor(ksq, them, p.AllOccupied)

	switch {
	case lm.checkers == 0:
	case lm.checkers.Several():
		lm.push, lm.capture = Empty, Empty
	default:
		checker := lm.checkers.LSB()
		block := lm.checkers
		if (diagSliders | orthoSliders).Has(checker) {
			block |= Between(ksq, checker)
		}
		lm.push, lm.capture = block, block
	}

	// Slider rays from the king through own pieces, stopping at the first enemy.
	// A ray holding exactly one own piece is a pin.
	snipers := BishopAttacks(ksq, enemy) & diagSliders
	for snipers != 0 {
		s := snipers.PopLSB()
		ray := Between(ksq, s)
		if (ray & own).PopCount() == 1 {
			lm.diagPins |= ray.With(s)
		}
	}
	snipers = RookAttacks(ksq, enemy) & orthoSliders
	for snipers != 0 {
		s := snipers.PopLSB()
		ray := Between(ksq, s)
		if (ray & own).PopCount() == 1 {
			lm.orthoPins |= ray.With(s)
		}
	}
	return lm
}

func (p *Position) generate(mode genMode, yield func(Move)) {
	us, them := p.SideToMove, p.SideToMove.Other()
	lm := p.computeMasks()

	if !lm.checkers.Several() {
		enemy := p.Occupied[them]
		targets := enemy & lm.capture
		if mode == genAll {
			targets |= ^p.AllOccupied & lm.push
		}

		p.pawnMoves(mode, &lm, yield)

		pinned := lm.diagPins | lm.orthoPins
		knights := p.Pieces[us][Knight] &^ pinned
		for knights != 0 {
			from := knights.PopLSB()
			emitTargets(from, KnightAttacks(from)&targets, enemy, yield)
		}

		queens := p.Pieces[us][Queen]
		diag := (p.Pieces[us][Bishop] | queens) &^ lm.orthoPins
		for diag != 0 {
			from := diag.PopLSB()
			att := BishopAttacks(from, p.AllOccupied) & targets
			if lm.diagPins.Has(from) {
				att &= lm.diagPins
			}
			emitTargets(from, att, enemy, yield)
		}
		ortho := (p.Pieces[us][Rook] | queens) &^ lm.diagPins
		for ortho != 0 {
			from := ortho.PopLSB()
			att := RookAttacks(from, p.AllOccupied) & targets
			if lm.orthoPins.Has(from) {
				att &= lm.orthoPins
			}
			emitTargets(from, att, enemy, yield)
		}
	}

	p.kingMoves(mode, yield)
	if mode == genAll && lm.checkers == 0 {
		p.castlingMoves(yield)
	}
}

func emitTargets(from Square, targets, enemy Bitboard, yield func(Move)) {
	for targets != 0 {
		to := targets.PopLSB()
		if enemy.Has(to) {
			yield(NewMove(from, to, Capture))
		} else {
			yield(NewMove(from, to, QuietMove))
		}
	}
}

func emitPromotions(from, to Square, capture bool, yield func(Move)) {
	for _, f := range promotionFlags(capture) {
		yield(NewMove(from, to, f))
	}
}

// pawnCapture is one diagonal capture direction for one color.
type pawnCapture struct {
	shift func(Bitboard) Bitboard
	delta int // to - from
}

var pawnCaptures = [2][2]pawnCapture{
	White: {{Bitboard.NorthWest, 7}, {Bitboard.NorthEast, 9}},
	Black: {{Bitboard.SouthWest, -9}, {Bitboard.SouthEast, -7}},
}

func (p *Position) pawnMoves(mode genMode, lm *legalMasks, yield func(Move)) {
	us, them := p.SideToMove, p.SideToMove.Other()
	pawns := p.Pieces[us][Pawn]
	if pawns == 0 {
		return
	}
	enemy := p.Occupied[them]

	lastRank, thirdRank := Rank8, Rank3
	if us == Black {
		lastRank, thirdRank = Rank1, Rank6
	}

	// A pawn pinned along a rank or file can never capture.
	attackers := pawns &^ lm.orthoPins
	free := attackers &^ lm.diagPins
	pinned := attackers & lm.diagPins
	for _, dir := range pawnCaptures[us] {
		// a diagonally pinned pawn may only capture onto its pin ray
		targets := (dir.shift(free) | dir.shift(pinned)&lm.diagPins) & enemy & lm.capture
		for targets != 0 {
			to := targets.PopLSB()
			from := Square(int(to) - dir.delta)
			if lastRank.Has(to) {
				emitPromotions(from, to, true, yield)
			} else {
				yield(NewMove(from, to, Capture))
			}
		}
	}

	if ep := p.EnPassant; ep != NoSquare {
		// Two pawns leave the capturing rank at once, which the pin masks
		// cannot express; play the move on a copy and look at the king.
		candidates := PawnAttacks(ep, them) & attackers
		for candidates != 0 {
			m := NewMove(candidates.PopLSB(), ep, EnPassant)
			next := p.Apply(m)
			if !next.IsSquareAttacked(next.KingSquare[us], us) {
				yield(m)
			}
		}
	}

	if mode == genCaptures {
		return
	}

	// Pushes: unpinned pawns, plus pawns pinned along the king's own file.
	kingFile := FileMask[p.KingSquare[us].File()]
	pushers := pawns&^(lm.diagPins|lm.orthoPins) | pawns&lm.orthoPins&kingFile
	empty := ^p.AllOccupied
	step := 8
	var single Bitboard
	if us == White {
		single = pushers.North() & empty
	} else {
		single = pushers.South() & empty
		step = -8
	}
	var double Bitboard
	if us == White {
		double = (single & thirdRank).North()
	} else {
		double = (single & thirdRank).South()
	}
	double &= empty & lm.push
	single &= lm.push

	for single != 0 {
		to := single.PopLSB()
		from := Square(int(to) - step)
		if lastRank.Has(to) {
			emitPromotions(from, to, false, yield)
		} else {
			yield(NewMove(from, to, QuietMove))
		}
	}
	for double != 0 {
		to := double.PopLSB()
		yield(NewMove(Square(int(to)-2*step), to, DoublePush))
	}
}

func (p *Position) kingMoves(mode genMode, yield func(Move)) {
	us := p.SideToMove
	enemy := p.Occupied[us.Other()]
	ksq := p.KingSquare[us]
	targets := KingAttacks(ksq) &^ p.Occupied[us]
	if mode == genCaptures {
		targets &= enemy
	}
	for targets != 0 {
		to := targets.PopLSB()
		if p.IsSquareAttacked(to, us) {
			continue
		}
		if enemy.Has(to) {
			yield(NewMove(ksq, to, Capture))
		} else {
			yield(NewMove(ksq, to, QuietMove))
		}
	}
}

func (p *Position) castlingMoves(yield func(Move)) {
	us := p.SideToMove
	for i := range castlePaths[us] {
		cp := &castlePaths[us][i]
		if !p.CastlingRights.Has(cp.right) || p.AllOccupied&cp.empty != 0 {
			continue
		}
		if p.anyAttacked(cp.safe, us) {
			continue
		}
		yield(NewMove(cp.king, cp.kingTo, cp.flag))
	}
}

// anyAttacked reports whether the opponents of us attack any square of set.
func (p *Position) anyAttacked(set Bitboard, us Color) bool {
	for sq := range set.Squares() {
		if p.IsSquareAttacked(sq, us) {
			return true
		}
	}
	return false
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	n := 0
	p.GenerateMoves(func(Move) { n++ })
	return n > 0
}

// IsCheckmate reports whether the side to move is in check with no legal move.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is not in check but cannot move.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
