package board

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t testing.TB, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	require.NoError(t, err, fen)
	return pos
}

func moveStrings(ml *MoveList) []string {
	var out []string
	for _, m := range ml.Slice() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func TestLegalMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []string
	}{
		{
			name: "double check allows only king moves",
			fen:  "4r1k1/8/8/8/8/3n4/R7/4K3 w - - 0 1",
			want: []string{"e1d1", "e1d2", "e1f1"},
		},
		{
			name: "king cannot retreat along the checking ray",
			fen:  "4k3/8/8/8/8/8/8/r3K2R w K - 0 1",
			want: []string{"e1d2", "e1e2", "e1f2"},
		},
		{
			name: "no castling out of check",
			fen:  "4k3/4r3/8/8/8/8/8/R3K2R w KQ - 0 1",
			want: []string{"e1d1", "e1d2", "e1f1", "e1f2"},
		},
		{
			name: "vertically pinned pawn keeps its pushes",
			fen:  "4k3/4r3/8/8/8/8/4P3/4K3 w - - 0 1",
			want: []string{"e1d1", "e1d2", "e1f1", "e1f2", "e2e3", "e2e4"},
		},
		{
			name: "diagonally pinned pawn captures its pinner",
			fen:  "7k/8/8/8/8/2b5/3P4/4K3 w - - 0 1",
			want: []string{"d2c3", "e1d1", "e1e2", "e1f1", "e1f2"},
		},
		{
			name: "diagonally pinned pawn captures along the other diagonal",
			fen:  "7k/8/8/8/8/4b3/3P4/2K5 w - - 0 1",
			want: []string{"c1b1", "c1b2", "c1c2", "c1d1", "d2e3"},
		},
		{
			name: "diagonally pinned pawn cannot push",
			fen:  "7k/8/8/8/2q5/8/4P3/5K2 w - - 0 1",
			want: []string{"f1e1", "f1f2", "f1g1", "f1g2"},
		},
		{
			name: "en passant exposing the king along the rank",
			fen:  "7k/8/8/K1pP3r/8/8/8/8 w - c6 0 1",
			want: []string{"a5a4", "a5a6", "a5b5", "a5b6", "d5d6"},
		},
		{
			name: "en passant removes the checking pawn",
			fen:  "8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1",
			want: []string{"c5b4", "c5b5", "c5b6", "c5c4", "c5c6", "c5d4", "c5d5", "c5d6", "e4d3"},
		},
		{
			name: "pawn promotes by push and by capture",
			fen:  "4k3/8/8/8/8/8/6p1/4K2R b K - 0 1",
			want: []string{
				"e8d7", "e8d8", "e8e7", "e8f7", "e8f8",
				"g2g1b", "g2g1n", "g2g1q", "g2g1r",
				"g2h1b", "g2h1n", "g2h1q", "g2h1r",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			assert.Equal(t, tc.want, moveStrings(pos.LegalMoves()))
		})
	}
}

func TestEnPassantHorizontalPin(t *testing.T) {
	pos := mustParse(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	ml := pos.LegalMoves()
	assert.Equal(t, 6, ml.Len())
	for _, m := range ml.Slice() {
		assert.NotEqual(t, EnPassant, m.Flag(), m.String())
	}
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		count     int
		kingSide  bool
		queenSide bool
	}{
		{"both sides free", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", 26, true, true},
		{"transit square attacked", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", 22, false, true},
		{"attacked b1 does not matter", "r3k2r/8/8/8/8/8/1r6/R3K2R w KQkq - 0 1", 23, true, true},
		{"blocked", "r3k2r/8/8/8/8/8/8/RN2K1NR w KQkq - 0 1", 0, false, false},
		{"no right", "4k3/8/8/8/8/8/8/R3K2R w - - 0 1", 0, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			ml := pos.LegalMoves()
			if tc.count > 0 {
				assert.Equal(t, tc.count, ml.Len())
			}
			assert.Equal(t, tc.kingSide, ml.Contains(NewMove(E1, G1, KingCastle)))
			assert.Equal(t, tc.queenSide, ml.Contains(NewMove(E1, C1, QueenCastle)))
		})
	}
}

func TestCaptureOnlyMode(t *testing.T) {
	tests := []struct {
		fen  string
		want int
	}{
		{StartFEN, 0},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 8},
		{"k7/8/8/3pP3/8/8/8/7K w - d6 0 2", 1},
		{"1n5k/P7/8/8/8/8/8/7K w - - 0 1", 4},
		{"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", 0},
	}
	for _, tc := range tests {
		pos := mustParse(t, tc.fen)
		caps := pos.Captures()
		assert.Equal(t, tc.want, caps.Len(), tc.fen)

		all := pos.LegalMoves()
		for _, m := range caps.Slice() {
			assert.True(t, m.IsCapture(), m.String())
			assert.True(t, all.Contains(m), "capture %s missing from full list", m)
		}
		for _, m := range all.Slice() {
			if m.IsCapture() {
				assert.True(t, caps.Contains(m), "capture %s missing from capture list", m)
			}
		}
	}
}

func TestPromotionFlags(t *testing.T) {
	pos := mustParse(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	ml := pos.LegalMoves()
	assert.Equal(t, 11, ml.Len())

	for _, f := range []MoveFlag{KnightPromotion, BishopPromotion, RookPromotion, QueenPromotion} {
		assert.True(t, ml.Contains(NewMove(A7, A8, f)), f.String())
	}
	for _, f := range []MoveFlag{KnightPromotionCapture, BishopPromotionCapture, RookPromotionCapture, QueenPromotionCapture} {
		assert.True(t, ml.Contains(NewMove(A7, B8, f)), f.String())
	}
}

func TestCheckmate(t *testing.T) {
	mate := mustParse(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	assert.True(t, mate.InCheck())
	assert.Equal(t, 0, mate.LegalMoves().Len())
	assert.True(t, mate.IsCheckmate())
	assert.False(t, mate.IsStalemate())

	// the king can take the unprotected rook
	notMate := mustParse(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	assert.True(t, notMate.InCheck())
	assert.False(t, notMate.IsCheckmate())
	assert.Equal(t, []string{"h8g8", "h8h7"}, moveStrings(notMate.LegalMoves()))
}

func TestStalemate(t *testing.T) {
	pos := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	assert.False(t, pos.InCheck())
	assert.True(t, pos.IsStalemate())
}

func TestParseMove(t *testing.T) {
	pos := NewPosition()
	m, err := pos.ParseMove("e2e4")
	require.NoError(t, err)
	assert.Equal(t, NewMove(E2, E4, DoublePush), m)

	_, err = pos.ParseMove("e2e5")
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = pos.ParseMove("e2")
	assert.ErrorIs(t, err, ErrIllegalMove)

	promo := mustParse(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	m, err = promo.ParseMove("a7b8q")
	require.NoError(t, err)
	assert.Equal(t, QueenPromotionCapture, m.Flag())
}

func TestMoveEncoding(t *testing.T) {
	m := NewMove(E7, E8, QueenPromotion)
	assert.Equal(t, E7, m.From())
	assert.Equal(t, E8, m.To())
	assert.Equal(t, QueenPromotion, m.Flag())
	assert.Equal(t, Queen, m.Promotion())
	assert.Equal(t, "e7e8q", m.String())
	assert.False(t, m.IsCapture())

	ep := NewMove(E5, D6, EnPassant)
	assert.True(t, ep.IsCapture())
	assert.False(t, ep.IsPromotion())
	assert.Equal(t, NoPieceType, ep.Promotion())

	assert.Equal(t, "0000", NoMove.String())
	assert.Equal(t, "e1g1", NewMove(E1, G1, KingCastle).String())
}
