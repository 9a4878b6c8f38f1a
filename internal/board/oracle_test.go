package board

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/dylhunn/dragontoothmg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cross-checks per-root-move counts against an independent generator.

func dragontoothDivide(fen string, depth int) map[string]int64 {
	b := dragontoothmg.ParseFen(fen)
	out := make(map[string]int64)
	for _, m := range b.GenerateLegalMoves() {
		undo := b.Apply(m)
		out[m.String()] = dragontoothPerft(&b, depth-1)
		undo()
	}
	return out
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var n int64
	for _, m := range moves {
		undo := b.Apply(m)
		n += dragontoothPerft(b, depth-1)
		undo()
	}
	return n
}

func divide(pos *Position, depth int) map[string]int64 {
	out := make(map[string]int64)
	pos.GenerateMoves(func(m Move) {
		next := pos.Apply(m)
		out[m.String()] = perft(&next, depth-1, true)
	})
	return out
}

func TestDivideMatchesDragontooth(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 3},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2},
	}
	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		require.NoError(t, err)

		want := dragontoothDivide(tc.fen, tc.depth)
		got := divide(pos, tc.depth)
		if !assert.Equal(t, want, got, tc.fen) {
			t.Logf("ours:\n%s\nreference:\n%s", spew.Sdump(got), spew.Sdump(want))
		}
	}
}
