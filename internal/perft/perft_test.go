package perft

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/spear/internal/board"
)

func mustParse(t testing.TB, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	require.NoError(t, err)
	return pos
}

func TestReferences(t *testing.T) {
	for _, ref := range References {
		t.Run(ref.Name, func(t *testing.T) {
			pos := mustParse(t, ref.FEN)
			for depth, want := range ref.Nodes {
				depth++
				if want > 200000 && testing.Short() {
					break
				}
				if want > 5000000 {
					break
				}
				res := Run(pos, depth, Options{Bulk: true})
				assert.Equal(t, want, res.Nodes, "depth %d", depth)
			}
		})
	}
}

func TestRunDepthZero(t *testing.T) {
	pos := board.NewPosition()
	assert.Equal(t, uint64(1), Run(pos, 0, Options{}).Nodes)
	assert.Equal(t, uint64(1), Run(pos, 0, Options{Bulk: true}).Nodes)
	assert.Equal(t, uint64(1), Count(pos, -3, true))
}

func TestBulkAndFullAgree(t *testing.T) {
	pos := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	for depth := 1; depth <= 3; depth++ {
		assert.Equal(t, Count(pos, depth, false), Count(pos, depth, true), "depth %d", depth)
	}
}

func TestSplit(t *testing.T) {
	pos := board.NewPosition()
	var buf bytes.Buffer
	var seen int
	res := Run(pos, 3, Options{
		Bulk:   true,
		Split:  true,
		Logger: log.New(&buf, "", 0),
		OnRoot: func(RootCount) { seen++ },
	})

	require.Len(t, res.Divide, 20)
	assert.Equal(t, 20, seen)
	var sum uint64
	for _, rc := range res.Divide {
		sum += rc.Nodes
	}
	assert.Equal(t, res.Nodes, sum)
	assert.Equal(t, uint64(8902), res.Nodes)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 20)
	assert.Contains(t, lines, "e2e4 - 600")
	assert.Contains(t, lines, "g1f3 - 440")
}

func TestSplitWithoutLogger(t *testing.T) {
	res := Run(board.NewPosition(), 1, Options{Split: true})
	require.Len(t, res.Divide, 20)
	for _, rc := range res.Divide {
		assert.Equal(t, uint64(1), rc.Nodes)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	for _, fen := range []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	} {
		pos := mustParse(t, fen)
		opts := Options{Bulk: true, Split: true}
		seq := Run(pos, 3, opts)
		par, err := RunParallel(context.Background(), pos, 3, opts, 4)
		require.NoError(t, err)

		assert.Equal(t, seq.Nodes, par.Nodes, fen)
		if !assert.Equal(t, seq.Divide, par.Divide, fen) {
			t.Log(spew.Sdump(seq.Divide, par.Divide))
		}
	}
}

func TestRunParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunParallel(ctx, board.NewPosition(), 4, Options{Bulk: true}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFEN(t *testing.T) {
	nodes, ms, err := RunFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2", 2, true, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(19), nodes)
	assert.GreaterOrEqual(t, ms, int64(0))

	nodes, _, err = RunFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", 2, false, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(94), nodes)

	_, _, err = RunFEN("not a fen", 1, true, false)
	assert.ErrorIs(t, err, board.ErrInvalidFEN)
}

func TestVerify(t *testing.T) {
	assert.NoError(t, Verify(board.StartFEN, 3, 8902))
	// counters are ignored when matching
	assert.NoError(t, Verify("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 5 9", 3, 8902))
	assert.ErrorIs(t, Verify(board.StartFEN, 3, 8903), ErrMismatch)
	assert.NoError(t, Verify("4k3/8/8/8/8/8/8/4K3 w - - 0 1", 3, 12345), "unknown position")
	assert.NoError(t, Verify(board.StartFEN, 42, 1), "unknown depth")

	want, ok := Lookup("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(2039), want)
}

func BenchmarkRunStartDepth4(b *testing.B) {
	pos := board.NewPosition()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Run(pos, 4, Options{Bulk: true})
	}
}

func BenchmarkRunParallelKiwipeteDepth3(b *testing.B) {
	pos, _ := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	for i := 0; i < b.N; i++ {
		_, _ = RunParallel(context.Background(), pos, 3, Options{Bulk: true}, 0)
	}
}
